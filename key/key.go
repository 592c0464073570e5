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

// Package key compares category keys supplied by a host.  Hosts may wrap
// primitive category values (dates, identities) in objects that are not
// equal by identity but represent the same value, so keys are never compared
// with == directly; use Equal.
package key

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Primitiver is implemented by host wrapper types that reduce to a primitive
// value, such as a date wrapper reducing to its epoch milliseconds.
type Primitiver interface {
	Primitive() any
}

// Equal reports whether a and b denote the same category key.  Keys are
// compared first by identity, then by their primitive values, and finally by
// their string forms.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if identical(a, b) {
		return true
	}
	pa, aok := Primitive(a)
	pb, bok := Primitive(b)
	if aok && bok && identical(pa, pb) {
		return true
	}
	return String(a) == String(b)
}

// identical compares a and b with ==, returning false rather than panicking
// when either dynamic type is not comparable.
func identical(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// instant is the primitive form of a time that does not fall on a whole
// millisecond.
type instant struct {
	sec  int64
	nsec int
}

// Primitive reduces k to a comparable primitive value: a string, a bool, an
// int64, a uint64, a float64, or a time instant.  Numbers take an exact
// canonical form: integral floats that an int64 or uint64 represents exactly
// reduce to that integer, so int64(2) and 2.0 share a form while integers
// beyond 2^53 stay distinct.  Times on a whole millisecond reduce to Unix
// milliseconds; other times keep nanosecond precision.  Primitive returns
// false if k has no primitive form.
func Primitive(k any) (any, bool) {
	if pv, ok := k.(Primitiver); ok {
		k = pv.Primitive()
	}
	switch v := k.(type) {
	case nil:
		return nil, false
	case time.Time:
		return timePrimitive(v), true
	case *time.Time:
		if v == nil {
			return nil, false
		}
		return timePrimitive(*v), true
	case string, bool:
		return v, true
	}
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintPrimitive(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return floatPrimitive(rv.Float()), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}

func timePrimitive(t time.Time) any {
	if t.Nanosecond()%int(time.Millisecond) == 0 {
		return t.UnixMilli()
	}
	return instant{sec: t.Unix(), nsec: t.Nanosecond()}
}

func uintPrimitive(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

const (
	two63 = float64(1 << 63)
	two64 = two63 * 2
)

func floatPrimitive(f float64) any {
	if f != math.Trunc(f) {
		return f
	}
	switch {
	case f >= -two63 && f < two63:
		return int64(f)
	case f >= two63 && f < two64:
		return uint64(f)
	}
	return f
}

// Index locates keys among a growing, ordered list of distinct keys.  Find
// returns the same position a linear scan with Equal would, without the
// scan.
type Index struct {
	byPrimitive map[any]int
	byString    map[string]int
	nilPos      int
	n           int
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		byPrimitive: map[any]int{},
		byString:    map[string]int{},
		nilPos:      -1,
	}
}

// Len returns the number of keys added to the receiver.
func (ix *Index) Len() int {
	return ix.n
}

// Find returns the position of the first added key equal to k, or -1.
func (ix *Index) Find(k any) int {
	if k == nil {
		return ix.nilPos
	}
	ret := -1
	if p, ok := Primitive(k); ok {
		if pos, ok := ix.byPrimitive[p]; ok {
			ret = pos
		}
	}
	if pos, ok := ix.byString[String(k)]; ok && (ret < 0 || pos < ret) {
		ret = pos
	}
	return ret
}

// Add appends k to the receiver, returning its position.
func (ix *Index) Add(k any) int {
	pos := ix.n
	ix.n++
	if k == nil {
		if ix.nilPos < 0 {
			ix.nilPos = pos
		}
		return pos
	}
	if p, ok := Primitive(k); ok {
		if _, ok := ix.byPrimitive[p]; !ok {
			ix.byPrimitive[p] = pos
		}
	}
	str := String(k)
	if _, ok := ix.byString[str]; !ok {
		ix.byString[str] = pos
	}
	return pos
}

// String returns the display form of k.  Floats are printed in their
// shortest exact form, so that 1.0 and "1" share a string form.
func String(k any) string {
	switch v := k.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(k)
}
