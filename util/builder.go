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
	"fmt"
	"strings"
	"sync"
)

// stringTable interns strings as unique, dense indices.  It is safe for
// concurrent use.
type stringTable struct {
	mu               sync.RWMutex
	stringsToIndices map[string]int64
	stringsByIndex   []string
}

func newStringTable(strs ...string) *stringTable {
	ret := &stringTable{
		stringsToIndices: map[string]int64{},
		stringsByIndex:   []string{},
	}
	for _, str := range strs {
		ret.stringIndex(str)
	}
	return ret
}

// stringIndex returns the index of str, interning it if necessary.
func (st *stringTable) stringIndex(str string) int64 {
	st.mu.RLock()
	idx, ok := st.stringsToIndices[str]
	st.mu.RUnlock()
	if ok {
		return idx
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	// Another writer may have interned str since the read above.
	if idx, ok := st.stringsToIndices[str]; ok {
		return idx
	}
	idx = int64(len(st.stringsByIndex))
	st.stringsByIndex = append(st.stringsByIndex, str)
	st.stringsToIndices[str] = idx
	return idx
}

func (st *stringTable) strings() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]string{}, st.stringsByIndex...)
}

// errorList collects the errors raised while building a response.  It is
// safe for concurrent use.
type errorList struct {
	mu   sync.Mutex
	errs []error
}

func (el *errorList) add(err error) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.errs = append(el.errs, err)
}

func (el *errorList) failed() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.errs) > 0
}

func (el *errorList) toError() error {
	el.mu.Lock()
	defer el.mu.Unlock()
	if len(el.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(el.errs))
	for idx, err := range el.errs {
		msgs[idx] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, ", "))
}

// DataBuilder is implemented by types that can assemble responses.
type DataBuilder interface {
	With(updates ...PropertyUpdate) DataBuilder
	Child() DataBuilder
}

// DataResponseBuilder assembles a Data response.  Its DataSeries method is
// safe for concurrent use, so that several data sources may populate one
// response.
type DataResponseBuilder struct {
	st   *stringTable
	errs *errorList
	mu   sync.Mutex
	d    *Data
}

// NewDataResponseBuilder returns a new, empty DataResponseBuilder.
func NewDataResponseBuilder() *DataResponseBuilder {
	return &DataResponseBuilder{
		st:   newStringTable(),
		errs: &errorList{},
		d: &Data{
			StringTable: []string{},
			DataSeries:  []*DataSeries{},
		},
	}
}

// DataSeries adds a new series answering req to the response, returning a
// DataBuilder for its root.
func (drb *DataResponseBuilder) DataSeries(req *DataSeriesRequest) DataBuilder {
	root := newDatumBuilder(drb.errs, drb.st)
	drb.mu.Lock()
	defer drb.mu.Unlock()
	drb.d.DataSeries = append(drb.d.DataSeries, &DataSeries{
		SeriesName: req.SeriesName,
		Root:       root.d,
	})
	return root
}

// Data completes and returns the Data under construction, or the errors
// raised while building it.
func (drb *DataResponseBuilder) Data() (*Data, error) {
	if err := drb.errs.toError(); err != nil {
		return nil, err
	}
	drb.mu.Lock()
	defer drb.mu.Unlock()
	drb.d.StringTable = drb.st.strings()
	return drb.d, nil
}

// datumBuilder assembles a single Datum.
type datumBuilder struct {
	errs *errorList
	st   *stringTable
	d    *Datum
}

func newDatumBuilder(errs *errorList, st *stringTable) *datumBuilder {
	return &datumBuilder{
		errs: errs,
		st:   st,
		d: &Datum{
			Properties: map[int64]*V{},
			Children:   []*Datum{},
		},
	}
}

// With applies the provided PropertyUpdates in order.  Once any update has
// failed, no further updates are applied anywhere in the response.
func (db *datumBuilder) With(updates ...PropertyUpdate) DataBuilder {
	if db.errs.failed() {
		return db
	}
	for _, update := range updates {
		if update == nil {
			continue
		}
		if err := update(db); err != nil {
			db.errs.add(err)
			break
		}
	}
	return db
}

// Child appends a new child Datum to the receiver, returning its builder.
func (db *datumBuilder) Child() DataBuilder {
	child := newDatumBuilder(db.errs, db.st)
	db.d.Children = append(db.d.Children, child.d)
	return child
}

func (db *datumBuilder) set(key string, v *V) *datumBuilder {
	db.d.Properties[db.st.stringIndex(key)] = v
	return db
}

func (db *datumBuilder) withStr(key, value string) *datumBuilder {
	k := db.st.stringIndex(key)
	db.d.Properties[k] = StringIndexValue(db.st.stringIndex(value))
	return db
}

func (db *datumBuilder) withStrs(key string, values ...string) *datumBuilder {
	k := db.st.stringIndex(key)
	idxs := make([]int64, len(values))
	for idx, val := range values {
		idxs[idx] = db.st.stringIndex(val)
	}
	db.d.Properties[k] = StringIndicesValue(idxs...)
	return db
}

// appendStrs extends the string-slice property at key, creating it if it
// doesn't exist.
func (db *datumBuilder) appendStrs(key string, values ...string) error {
	val, ok := db.d.Properties[db.st.stringIndex(key)]
	if !ok {
		db.withStrs(key, values...)
		return nil
	}
	idxs, err := expectStringIndicesValue(val)
	if err != nil {
		return fmt.Errorf("can't extend property '%s': %w", key, err)
	}
	for _, v := range values {
		idxs = append(idxs, db.st.stringIndex(v))
	}
	val.V = idxs
	return nil
}
