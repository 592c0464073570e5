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

// Package testutil provides helpers for testing chart response construction.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/drillbar/util"
)

// UpdateComparator checks that a set of PropertyUpdates-under-test has the
// same effect on a Datum as a set of expected PropertyUpdates.
type UpdateComparator struct {
	got  []util.PropertyUpdate
	want []util.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates specifies the PropertyUpdates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates specifies the expected PropertyUpdates.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies the receiver's test and expected updates to sibling Datums,
// returning a difference message and true if they differ.  Property order
// and string-table order are not significant.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	root := drb.DataSeries(&util.DataSeriesRequest{})
	root.Child().With(uc.got...)
	root.Child().With(uc.want...)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("failed to build response: %s", err)
	}
	children := data.DataSeries[0].Root.Children
	gotPP := children[0].PrettyPrint("", data.StringTable)
	wantPP := children[1].PrettyPrint("", data.StringTable)
	if diff := cmp.Diff(wantPP, gotPP); diff != "" {
		return fmt.Sprintf("Got datum\n%s\ndiff (-want +got):\n%s", gotPP, diff), true
	}
	return "", false
}

// TestDataBuilder assembles expected responses fluently in tests.
type TestDataBuilder interface {
	With(updates ...util.PropertyUpdate) TestDataBuilder
	Child() TestDataBuilder
	AndChild() TestDataBuilder
	Parent() TestDataBuilder
}

type testDataBuilder struct {
	db     util.DataBuilder
	parent *testDataBuilder
}

func (tdb *testDataBuilder) With(updates ...util.PropertyUpdate) TestDataBuilder {
	tdb.db.With(updates...)
	return tdb
}

// Child adds a child to the receiver and returns a builder for it.
func (tdb *testDataBuilder) Child() TestDataBuilder {
	return &testDataBuilder{
		db:     tdb.db.Child(),
		parent: tdb,
	}
}

// AndChild adds a sibling to the receiver, or a child if the receiver is the
// root.
func (tdb *testDataBuilder) AndChild() TestDataBuilder {
	if tdb.parent == nil {
		return tdb.Child()
	}
	return tdb.parent.Child()
}

// Parent returns the receiver's parent, or the receiver if it is the root.
func (tdb *testDataBuilder) Parent() TestDataBuilder {
	if tdb.parent == nil {
		return tdb
	}
	return tdb.parent
}

// build invokes fn, which must be a func(util.DataBuilder) or a
// func(TestDataBuilder), on the root of a new single-series response.
func build(t *testing.T, fn any) *util.DataResponseBuilder {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	root := drb.DataSeries(&util.DataSeriesRequest{})
	switch f := fn.(type) {
	case func(util.DataBuilder):
		f(root)
	case func(TestDataBuilder):
		f(&testDataBuilder{db: root})
	default:
		t.Fatalf("builder must be a func(util.DataBuilder) or a func(testutil.TestDataBuilder), got %T", fn)
	}
	return drb
}

// CompareData compares two complete responses by their prettyprinted forms,
// reporting any difference on t.
func CompareData(t *testing.T, got, want *util.Data) {
	t.Helper()
	gotPP, wantPP := got.PrettyPrint(), want.PrettyPrint()
	if diff := cmp.Diff(wantPP, gotPP); diff != "" {
		t.Errorf("Got data\n%s\ndiff (-want +got):\n%s", gotPP, diff)
	}
}

// CompareResponses builds a 'got' and a 'want' response with the provided
// callbacks, each of which must be a func(util.DataBuilder) or a
// func(TestDataBuilder), and reports any difference between them on t.
func CompareResponses(t *testing.T, buildGot, buildWant any) {
	t.Helper()
	got, err := build(t, buildGot).Data()
	if err != nil {
		t.Fatalf("failed to build 'got' response: %s", err)
	}
	want, err := build(t, buildWant).Data()
	if err != nil {
		t.Fatalf("failed to build 'want' response: %s", err)
	}
	CompareData(t, got, want)
}
