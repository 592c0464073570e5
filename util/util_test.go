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
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringTable(t *testing.T) {
	for _, test := range []struct {
		description string
		additions   []string
		wantTable   []string
	}{{
		description: "unique additions",
		additions:   []string{"North", "South", "East", "West"},
		wantTable:   []string{"North", "South", "East", "West"},
	}, {
		description: "duplicate additions",
		additions:   []string{"North", "South", "North", "North", "South"},
		wantTable:   []string{"North", "South"},
	}} {
		t.Run(test.description, func(t *testing.T) {
			st := newStringTable()
			for _, str := range test.additions {
				st.stringIndex(str)
			}
			gotTable := st.strings()
			if diff := cmp.Diff(test.wantTable, gotTable); diff != "" {
				t.Errorf("Got string table %v, diff (-want +got):\n%s", gotTable, diff)
			}
		})
	}
}

func TestDatumBuilder(t *testing.T) {
	db := newDatumBuilder(&errorList{}, newStringTable())
	db.withStr("label", "Sales").withStrs("categories", "A", "B")
	if err := db.appendStrs("categories", "C"); err != nil {
		t.Fatalf("appendStrs() yielded unexpected error %s", err)
	}
	db.withStr("label", "Profit")
	// label=0, Sales=1, categories=2, A=3, B=4, C=5, Profit=6
	want := map[int64]*V{
		0: StringIndexValue(6),
		2: StringIndicesValue(3, 4, 5),
	}
	if diff := cmp.Diff(want, db.d.Properties); diff != "" {
		t.Errorf("Got properties %v, diff (-want +got):\n%s", db.d.Properties, diff)
	}
	db.withStr("label", "Sales")
	if err := db.appendStrs("label", "oops"); err == nil {
		t.Errorf("appendStrs() on a string property yielded no error")
	}
}

func TestParseDataRequest(t *testing.T) {
	for _, test := range []struct {
		description string
		reqJSON     string
		wantReq     *DataRequest
		wantErr     bool
	}{{
		description: "series requests without options",
		reqJSON: `{
			"SeriesRequests": [
				{"QueryName": "drillbar.view", "SeriesName": "1"},
				{"QueryName": "drillbar.selection", "SeriesName": "2"}
			]
		}`,
		wantReq: &DataRequest{
			SeriesRequests: []*DataSeriesRequest{{
				QueryName:  "drillbar.view",
				SeriesName: "1",
			}, {
				QueryName:  "drillbar.selection",
				SeriesName: "2",
			}},
		},
	}, {
		description: "global filters and options",
		reqJSON: `{
			"GlobalFilters": {
				"collection_name": [1, "sales.csv"]
			},
			"SeriesRequests": [{
				"QueryName": "drillbar.click",
				"SeriesName": "1",
				"Options": {
					"category": [1, "North"],
					"tick_count": [5, 6],
					"tolerance": [7, 0.25],
					"measures": [3, ["Sales", "Profit%20%25"]],
					"rows": [6, [1, 2]]
				}
			}]
		}`,
		wantReq: &DataRequest{
			GlobalFilters: map[string]*V{
				"collection_name": StringValue("sales.csv"),
			},
			SeriesRequests: []*DataSeriesRequest{{
				QueryName:  "drillbar.click",
				SeriesName: "1",
				Options: map[string]*V{
					"category":   StringValue("North"),
					"tick_count": IntegerValue(6),
					"tolerance":  DoubleValue(0.25),
					"measures":   StringsValue("Sales", "Profit %"),
					"rows":       IntegersValue(1, 2),
				},
			}},
		},
	}, {
		description: "mistyped value",
		reqJSON: `{
			"GlobalFilters": {"collection_name": [1, 5]}
		}`,
		wantErr: true,
	}, {
		description: "malformed value",
		reqJSON: `{
			"GlobalFilters": {"collection_name": [1]}
		}`,
		wantErr: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			gotReq, err := DataRequestFromJSON([]byte(test.reqJSON))
			if (err != nil) != test.wantErr {
				t.Fatalf("DataRequestFromJSON() yielded error %v, wanted error: %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(test.wantReq, gotReq); diff != "" {
				t.Errorf("Got request %v, diff (-want +got):\n%s", gotReq, diff)
			}
		})
	}
}

func TestResponseEncoding(t *testing.T) {
	drb := NewDataResponseBuilder()
	drb.DataSeries(&DataSeriesRequest{SeriesName: "1"}).
		With(StringProperty("state", "base")).
		Child().With(
		DoubleProperty("value", 30),
		IntegersProperty("rows", 0, 2),
	)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("Data() yielded unexpected error %s", err)
	}
	gotJSON, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("json.Marshal() yielded unexpected error %s", err)
	}
	wantJSON := `{"StringTable":["state","base","value","rows"],` +
		`"DataSeries":[{"SeriesName":"1","Root":[[[0,[2,1]]],` +
		`[[[[2,[7,30]],[3,[6,[0,2]]]],[]]]]}]}`
	if diff := cmp.Diff(wantJSON, string(gotJSON)); diff != "" {
		t.Errorf("Got JSON %s, diff (-want +got):\n%s", gotJSON, diff)
	}
	gotData := &Data{}
	if err := json.Unmarshal(gotJSON, gotData); err != nil {
		t.Fatalf("json.Unmarshal() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff(data.PrettyPrint(), gotData.PrettyPrint()); diff != "" {
		t.Errorf("Decoded response differs, diff (-want +got):\n%s", diff)
	}
}

func TestExpectValues(t *testing.T) {
	if _, err := ExpectStringValue(IntegerValue(1)); err == nil {
		t.Errorf("ExpectStringValue() on an integer yielded no error")
	}
	if _, err := ExpectDoubleValue(nil); err == nil {
		t.Errorf("ExpectDoubleValue() on nil yielded no error")
	}
	if got, err := ExpectIntegersValue(IntegersValue(1, 2)); err != nil || !cmp.Equal(got, []int64{1, 2}) {
		t.Errorf("ExpectIntegersValue() = %v, %v; want [1 2]", got, err)
	}
	if got, err := ExpectStringsValue(StringsValue("a")); err != nil || !cmp.Equal(got, []string{"a"}) {
		t.Errorf("ExpectStringsValue() = %v, %v; want [a]", got, err)
	}
	if got, err := ExpectDoubleValue(DoubleValue(2.5)); err != nil || got != 2.5 {
		t.Errorf("ExpectDoubleValue() = %v, %v; want 2.5", got, err)
	}
}

func TestPropertyUpdates(t *testing.T) {
	for _, test := range []struct {
		description  string
		applyUpdates func(db DataBuilder)
		wantErr      bool
		wantDatum    *Datum
	}{{
		description: "If, IfElse, Chain",
		applyUpdates: func(db DataBuilder) {
			db.With(
				Chain(
					If(10 < 5, IntegerProperty("drilled", 0)),
					If(10 > 5, IntegerProperty("drilled", 1)),
					IfElse(1 == 2,
						BoolProperty("stale", true),
						BoolProperty("stale", false),
					),
				),
			)
		},
		wantDatum: &Datum{
			Properties: map[int64]*V{
				0: IntValue(1),
				1: IntValue(0),
			},
			Children: []*Datum{},
		},
	}, {
		description: "empty update",
		applyUpdates: func(db DataBuilder) {
			db.With(EmptyUpdate)
		},
		wantDatum: &Datum{
			Properties: map[int64]*V{},
			Children:   []*Datum{},
		},
	}, {
		description: "error",
		applyUpdates: func(db DataBuilder) {
			db.With(ErrorProperty(fmt.Errorf("oops")))
		},
		wantErr: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			drb := NewDataResponseBuilder()
			test.applyUpdates(drb.DataSeries(&DataSeriesRequest{SeriesName: "1"}))
			resp, err := drb.Data()
			if (err != nil) != test.wantErr {
				t.Fatalf("Data() yielded error %v, wanted error: %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			gotDatum := resp.DataSeries[0].Root
			if diff := cmp.Diff(test.wantDatum, gotDatum); diff != "" {
				t.Errorf("Got datum %v, diff (-want +got):\n%s", gotDatum, diff)
			}
		})
	}
}

func TestPrettyPrint(t *testing.T) {
	drb := NewDataResponseBuilder()
	drb.DataSeries(&DataSeriesRequest{SeriesName: "0"}).
		Child().With(
		StringProperty("category_id", "North"),
		IntegerProperty("count", 2),
	).
		Child().With(
		StringsProperty("series", "Sales", "Profit"),
	)
	drb.DataSeries(&DataSeriesRequest{SeriesName: "1"}).
		Child().With(
		DoubleProperty("value", 30),
	)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("Data() yielded unexpected error %s", err)
	}
	want := `Data:
  Series 0
    Root:
      Child:
        Prop 'category_id': 'North'
        Prop 'count': 2
        Child:
          Prop 'series': [ 'Sales', 'Profit' ]
  Series 1
    Root:
      Child:
        Prop 'value': 30.000000`
	if diff := cmp.Diff(want, data.PrettyPrint()); diff != "" {
		t.Errorf("Got prettyprint\n%s\ndiff (-want +got):\n%s", data.PrettyPrint(), diff)
	}
}
