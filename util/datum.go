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

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Datum is one node of a response: a set of properties keyed by string-table
// index, and an ordered list of children.
type Datum struct {
	Properties map[int64]*V
	Children   []*Datum
}

func (d *Datum) sortedKeys(less func(a, b int64) bool) []int64 {
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return less(keys[a], keys[b])
	})
	return keys
}

// PrettyPrint returns the receiver deterministically prettyprinted, with
// properties in alphabetical order of their keys.  Only for use in tests.
func (d *Datum) PrettyPrint(indent string, st []string) string {
	ret := []string{}
	keys := d.sortedKeys(func(a, b int64) bool {
		return st[a] < st[b]
	})
	for _, k := range keys {
		ret = append(ret,
			fmt.Sprintf("%sProp '%s': %s", indent, st[k], d.Properties[k].PrettyPrint(st)),
		)
	}
	for _, child := range d.Children {
		ret = append(ret,
			fmt.Sprintf("%sChild:", indent),
			child.PrettyPrint(indent+"  ", st),
		)
	}
	return strings.Join(ret, "\n")
}

// MarshalJSON encodes a Datum as [properties, children], where properties is
// an array of [key, V] pairs in increasing key order.
func (d *Datum) MarshalJSON() ([]byte, error) {
	keys := d.sortedKeys(func(a, b int64) bool {
		return a < b
	})
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, d.Properties[k]}
	}
	children := d.Children
	if children == nil {
		children = []*Datum{}
	}
	return json.Marshal([]any{props, children})
}

func (d *Datum) fromAny(sd []any) error {
	if len(sd) != 2 {
		return fmt.Errorf("datum must be a [properties, children] pair")
	}
	props, ok := sd[0].([]any)
	if !ok {
		return fmt.Errorf("datum properties must be an array")
	}
	children, ok := sd[1].([]any)
	if !ok {
		return fmt.Errorf("datum children must be an array")
	}
	d.Properties = make(map[int64]*V, len(props))
	d.Children = make([]*Datum, len(children))
	for _, prop := range props {
		kv, ok := prop.([]any)
		if !ok || len(kv) != 2 {
			return fmt.Errorf("datum property must be a [key, value] pair")
		}
		kn, ok := kv[0].(json.Number)
		if !ok {
			return fmt.Errorf("datum property key must be a number")
		}
		k, err := kn.Int64()
		if err != nil {
			return err
		}
		val, ok := kv[1].([]any)
		if !ok {
			return fmt.Errorf("datum property value must be an array")
		}
		v := &V{}
		if err := v.fromAny(val); err != nil {
			return err
		}
		d.Properties[k] = v
	}
	for idx, c := range children {
		cs, ok := c.([]any)
		if !ok {
			return fmt.Errorf("datum child must be an array")
		}
		child := &Datum{}
		if err := child.fromAny(cs); err != nil {
			return err
		}
		d.Children[idx] = child
	}
	return nil
}

// UnmarshalJSON unmarshals the provided JSON bytes into the receiving Datum.
func (d *Datum) UnmarshalJSON(data []byte) error {
	var sd []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&sd); err != nil {
		return err
	}
	return d.fromAny(sd)
}

// DataSeriesRequest is a request for one data series.  QueryName selects the
// handler; SeriesName is echoed in the response.
type DataSeriesRequest struct {
	QueryName  string
	SeriesName string
	Options    map[string]*V
}

// DataSeries is the response to one DataSeriesRequest.
type DataSeries struct {
	SeriesName string
	Root       *Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (ds *DataSeries) PrettyPrint(indent string, st []string) string {
	return strings.Join([]string{
		fmt.Sprintf("%sSeries %s", indent, ds.SeriesName),
		indent + "  Root:",
		ds.Root.PrettyPrint(indent+"    ", st),
	}, "\n")
}

// DataRequest is a request for one or more data series, sharing a set of
// global filters.
type DataRequest struct {
	GlobalFilters  map[string]*V
	SeriesRequests []*DataSeriesRequest
}

// DataRequestFromJSON attempts to construct a DataRequest from the provided
// JSON.
func DataRequestFromJSON(j []byte) (*DataRequest, error) {
	ret := &DataRequest{}
	err := json.Unmarshal(j, ret)
	return ret, err
}

// Data is a complete response.
type Data struct {
	StringTable []string
	DataSeries  []*DataSeries
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Data) PrettyPrint() string {
	ret := []string{"Data:"}
	for _, series := range d.DataSeries {
		ret = append(ret, series.PrettyPrint("  ", d.StringTable))
	}
	return strings.Join(ret, "\n")
}
