/*
	Copyright 2025 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package style supports specifying placement and graphic styling.
//
// A Style maps style attribute names to values, both strings, and may be
// attached to a response Datum via Define().  Attribute names follow CSS
// conventions, e.g. 'top' or 'left'.
package style

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ilhamster/drillbar/util"
)

const (
	keyPrefix = "style_"
)

// Style defines a set of styles that can be attached to a Datum.
type Style struct {
	attrs map[string]string
}

// New returns a new, empty Style.
func New() *Style {
	return &Style{
		attrs: map[string]string{},
	}
}

// Define returns a PropertyUpdate defining the receiver into a Datum.
func (s *Style) Define() util.PropertyUpdate {
	attrs := make([]string, 0, len(s.attrs))
	for attr := range s.attrs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	ret := make([]util.PropertyUpdate, len(attrs))
	for idx, attr := range attrs {
		ret[idx] = util.StringProperty(keyPrefix+attr, s.attrs[attr])
	}
	return util.Chain(ret...)
}

// Px formats the provided value as a pixel specifier.
func Px(valPx float64) string {
	return fmt.Sprintf("%.2fpx", valPx)
}

// Pct formats the provided value as a percentage specifier, with no
// trailing zeroes.
func Pct(valPct float64) string {
	return strconv.FormatFloat(valPct, 'f', -1, 64) + "%"
}

// With sets the specified attribute in the receiver.  Empty values are
// ignored.
func (s *Style) With(attrType string, attrVal string) *Style {
	if attrVal != "" {
		s.attrs[attrType] = attrVal
	}
	return s
}
