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

// Package util defines the wire model chart responses are assembled in:
//
// V, a typed value, with {type}Value constructors and Expect{type}Value
// accessors that return an error on a type mismatch;
//
// Datum, DataSeries, and Data, a property tree with a shared string table,
// and DataRequest, the request that produces it;
//
// DataResponseBuilder and DataBuilder, for assembling a Data
// programmatically through PropertyUpdates.
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type valueType int

// Enumerated value types.
const (
	unsetValue valueType = iota
	StringValueType
	StringIndexValueType
	StringsValueType
	StringIndicesValueType
	IntegerValueType
	IntegersValueType
	DoubleValueType
)

// V represents a value in a chart request or response.
type V struct {
	V any
	T valueType
}

// PrettyPrint returns the receiver, deterministically prettyprinted.
// String-index values prettyprint as the strings they index.  Only for use in
// tests.
func (v *V) PrettyPrint(st []string) string {
	var ret string
	var err error
	lookup := func(idx int64) string {
		if idx < 0 || int(idx) >= len(st) {
			return fmt.Sprintf("<bad index %d>", idx)
		}
		return st[idx]
	}
	switch v.T {
	case unsetValue:
		ret = "unset"
	case StringValueType:
		ret, err = ExpectStringValue(v)
		ret = "'" + ret + "'"
	case StringIndexValueType:
		var idx int64
		if idx, err = expectStringIndexValue(v); err == nil {
			ret = "'" + lookup(idx) + "'"
		}
	case StringsValueType:
		var strs []string
		strs, err = ExpectStringsValue(v)
		ret = "[ '" + strings.Join(strs, "', '") + "' ]"
	case StringIndicesValueType:
		var idxs []int64
		if idxs, err = expectStringIndicesValue(v); err == nil {
			strs := make([]string, len(idxs))
			for i, idx := range idxs {
				strs[i] = lookup(idx)
			}
			ret = "[ '" + strings.Join(strs, "', '") + "' ]"
		}
	case IntegerValueType:
		var i int64
		if i, err = ExpectIntegerValue(v); err == nil {
			ret = strconv.FormatInt(i, 10)
		}
	case IntegersValueType:
		var ints []int64
		if ints, err = ExpectIntegersValue(v); err == nil {
			strs := make([]string, len(ints))
			for idx, i := range ints {
				strs[idx] = strconv.FormatInt(i, 10)
			}
			ret = "[ " + strings.Join(strs, ", ") + " ]"
		}
	case DoubleValueType:
		var d float64
		if d, err = ExpectDoubleValue(v); err == nil {
			ret = fmt.Sprintf("%.6f", d)
		}
	}
	if err != nil {
		return "error: " + err.Error()
	}
	return ret
}

// MarshalJSON encodes a V as the two-element array [type, value], where
// value is null if unset, a string, a number (for integers, string indices,
// and doubles), or an array of strings or numbers.
func (v *V) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{v.T, v.V})
}

func (v *V) fromAny(got []any) error {
	if len(got) != 2 {
		return fmt.Errorf("value must be a [type, value] pair")
	}
	num, ok := got[0].(json.Number)
	if !ok {
		return fmt.Errorf("value type must be a number")
	}
	t, err := num.Int64()
	if err != nil {
		return err
	}
	v.T = valueType(t)
	raw := got[1]
	switch v.T {
	case StringValueType:
		str, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected a string")
		}
		v.V = str
	case StringIndexValueType, IntegerValueType:
		num, ok := raw.(json.Number)
		if !ok {
			return fmt.Errorf("expected an integer")
		}
		if v.V, err = num.Int64(); err != nil {
			return err
		}
	case DoubleValueType:
		num, ok := raw.(json.Number)
		if !ok {
			return fmt.Errorf("expected a number")
		}
		if v.V, err = num.Float64(); err != nil {
			return err
		}
	case StringsValueType:
		elems, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("expected an array of strings")
		}
		strs := make([]string, len(elems))
		for idx, elem := range elems {
			str, ok := elem.(string)
			if !ok {
				return fmt.Errorf("expected an array of strings")
			}
			if strs[idx], err = url.QueryUnescape(str); err != nil {
				return err
			}
		}
		v.V = strs
	case StringIndicesValueType, IntegersValueType:
		elems, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("expected an array of integers")
		}
		ints := make([]int64, len(elems))
		for idx, elem := range elems {
			num, ok := elem.(json.Number)
			if !ok {
				return fmt.Errorf("expected an array of integers")
			}
			if ints[idx], err = num.Int64(); err != nil {
				return err
			}
		}
		v.V = ints
	default:
		v.V = raw
	}
	return nil
}

// UnmarshalJSON unmarshals the provided JSON bytes into the receiving V.
func (v *V) UnmarshalJSON(data []byte) error {
	var got []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		return err
	}
	return v.fromAny(got)
}

// StringValue returns a new Value wrapping the provided string.
func StringValue(str string) *V {
	return &V{V: str, T: StringValueType}
}

// StringIndexValue returns a new Value wrapping the provided string index.
func StringIndexValue(strIdx int64) *V {
	return &V{V: strIdx, T: StringIndexValueType}
}

// StringsValue returns a new Value wrapping the provided strings.
func StringsValue(strs ...string) *V {
	return &V{V: strs, T: StringsValueType}
}

// StringIndicesValue returns a new Value wrapping the provided string
// indices.
func StringIndicesValue(strIdxs ...int64) *V {
	return &V{V: strIdxs, T: StringIndicesValueType}
}

// IntegerValue returns a new Value wrapping the provided int64.
func IntegerValue(i int64) *V {
	return &V{V: i, T: IntegerValueType}
}

// IntValue is an alias of IntegerValue.
var IntValue = IntegerValue

// IntegersValue returns a new Value wrapping the provided int64s.
func IntegersValue(ints ...int64) *V {
	return &V{V: ints, T: IntegersValueType}
}

// IntsValue is an alias of IntegersValue.
var IntsValue = IntegersValue

// DoubleValue returns a new Value wrapping the provided float64.
func DoubleValue(f float64) *V {
	return &V{V: f, T: DoubleValueType}
}

// ExpectStringValue expects the provided Value to be a string, returning
// that string or an error if it isn't.
func ExpectStringValue(val *V) (string, error) {
	if val == nil || val.T != StringValueType {
		return "", fmt.Errorf("expected value type 'str'")
	}
	return url.QueryUnescape(val.V.(string))
}

func expectStringIndexValue(val *V) (int64, error) {
	if val == nil || val.T != StringIndexValueType {
		return 0, fmt.Errorf("expected value type 'str_idx'")
	}
	return val.V.(int64), nil
}

// ExpectStringsValue expects the provided Value to be a Strings, returning
// its string slice or an error if it isn't.
func ExpectStringsValue(val *V) ([]string, error) {
	if val == nil || val.T != StringsValueType {
		return nil, fmt.Errorf("expected value type 'strs'")
	}
	return val.V.([]string), nil
}

func expectStringIndicesValue(val *V) ([]int64, error) {
	if val == nil || val.T != StringIndicesValueType {
		return nil, fmt.Errorf("expected value type 'str_idxs'")
	}
	return val.V.([]int64), nil
}

// ExpectIntegerValue expects the provided Value to be an integer, returning
// that integer or an error if it isn't.
func ExpectIntegerValue(val *V) (int64, error) {
	if val == nil || val.T != IntegerValueType {
		return 0, fmt.Errorf("expected value type 'int'")
	}
	return val.V.(int64), nil
}

// ExpectIntegersValue expects the provided Value to be an Integers, returning
// its int64 slice or an error if it isn't.
func ExpectIntegersValue(val *V) ([]int64, error) {
	if val == nil || val.T != IntegersValueType {
		return nil, fmt.Errorf("expected value type 'ints'")
	}
	return val.V.([]int64), nil
}

// ExpectDoubleValue expects the provided Value to be a float64, returning
// that float or an error if it isn't.
func ExpectDoubleValue(val *V) (float64, error) {
	if val == nil || val.T != DoubleValueType {
		return 0, fmt.Errorf("expected value type 'dbl'")
	}
	return val.V.(float64), nil
}
