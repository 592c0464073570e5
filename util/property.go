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

// PropertyUpdate is a function that updates a provided datumBuilder.  A nil
// PropertyUpdate does nothing.
type PropertyUpdate func(db *datumBuilder) error

// EmptyUpdate is a PropertyUpdate that does nothing.
var EmptyUpdate PropertyUpdate = nil

// ErrorProperty injects an error into the response under construction.
func ErrorProperty(err error) PropertyUpdate {
	return func(db *datumBuilder) error {
		return err
	}
}

// If applies the provided PropertyUpdate if the provided predicate is true.
func If(predicate bool, pu PropertyUpdate) PropertyUpdate {
	if predicate {
		return pu
	}
	return EmptyUpdate
}

// IfElse applies t if the provided predicate is true, and f otherwise.
func IfElse(predicate bool, t, f PropertyUpdate) PropertyUpdate {
	if predicate {
		return t
	}
	return f
}

// Chain applies the provided PropertyUpdates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.With(updates...)
		return nil
	}
}

// StringProperty returns a PropertyUpdate setting a string property.
func StringProperty(key, value string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStr(key, value)
		return nil
	}
}

// StringsProperty returns a PropertyUpdate setting a string slice property.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStrs(key, values...)
		return nil
	}
}

// StringsPropertyExtended returns a PropertyUpdate extending a string slice
// property.
func StringsPropertyExtended(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		return db.appendStrs(key, values...)
	}
}

// IntegerProperty returns a PropertyUpdate setting an integer property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegerValue(value))
		return nil
	}
}

// IntegersProperty returns a PropertyUpdate setting an integer slice
// property.
func IntegersProperty(key string, values ...int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegersValue(values...))
		return nil
	}
}

// DoubleProperty returns a PropertyUpdate setting a double property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, DoubleValue(value))
		return nil
	}
}

// BoolProperty returns a PropertyUpdate setting an integer property to 1 if
// value is true and 0 otherwise.
func BoolProperty(key string, value bool) PropertyUpdate {
	var i int64
	if value {
		i = 1
	}
	return IntegerProperty(key, i)
}
