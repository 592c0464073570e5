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

package aggregate

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/drillbar/color"
	"github.com/ilhamster/drillbar/rows"
)

var testPalette = color.NewPalette("test", "red", "blue")

// scenarioSource is (level one, level two, value): (A,1,10), (A,2,20), (B,1,5).
func scenarioSource() *rows.Source {
	return &rows.Source{
		LevelOne: []any{"A", "A", "B"},
		LevelTwo: []any{1, 2, 1},
		Measures: []rows.Measure{{Name: "Value", Values: []any{10, 20, 5}}},
	}
}

func TestBuildBase(t *testing.T) {
	for _, test := range []struct {
		description string
		src         *rows.Source
		want        *View
	}{{
		description: "scenario",
		src:         scenarioSource(),
		want: &View{
			Categories: []any{"A", "B"},
			Series: []Series{
				{Name: "Value", Values: []Value{Float(30), Float(5)}, Color: "red"},
			},
		},
	}, {
		description: "first-occurrence order with wrapped keys",
		src: &rows.Source{
			LevelOne: []any{"2", 1, 2.0, "1", "3"},
			Measures: []rows.Measure{{Values: []any{1, 1, 1, 1, 1}}},
		},
		want: &View{
			Categories: []any{"2", 1, "3"},
			Series: []Series{
				{Name: "Series 1", Values: []Value{Float(2), Float(2), Float(1)}, Color: "red"},
			},
		},
	}, {
		description: "integers beyond float precision stay distinct",
		src: &rows.Source{
			LevelOne: []any{int64(9007199254740993), int64(9007199254740992), 9007199254740992.0},
			Measures: []rows.Measure{{Name: "m", Values: []any{1, 2, 4}}},
		},
		want: &View{
			Categories: []any{int64(9007199254740993), int64(9007199254740992)},
			Series: []Series{
				{Name: "m", Values: []Value{Float(1), Float(6)}, Color: "red"},
			},
		},
	}, {
		description: "blank and non-numeric cells count as zero, absent cells as null",
		src: &rows.Source{
			LevelOne: []any{"A", "A", "B", "C"},
			Measures: []rows.Measure{{Name: "m", Values: []any{"", "x", nil, "4"}}},
		},
		want: &View{
			Categories: []any{"A", "B", "C"},
			Series: []Series{
				{Name: "m", Values: []Value{Float(0), Null, Float(4)}, Color: "red"},
			},
		},
	}, {
		description: "grouped series with disambiguated names",
		src: &rows.Source{
			LevelOne: []any{"A", "B", "A"},
			Groupings: []rows.Grouping{
				{Name: "g", Measures: []rows.Measure{{Name: "m", Values: []any{1, nil, 2}}}},
				{Name: "g", Measures: []rows.Measure{{Name: "m", Values: []any{nil, 3, nil}}}},
			},
		},
		want: &View{
			Categories: []any{"A", "B"},
			Series: []Series{
				{Name: "g", Values: []Value{Float(3), Null}, Color: "red"},
				{Name: "g (2)", Values: []Value{Null, Float(3)}, Color: "blue"},
			},
		},
	}, {
		description: "no rows",
		src:         &rows.Source{},
		want:        &View{},
	}, {
		description: "no series",
		src:         &rows.Source{LevelOne: []any{"A"}},
		want:        &View{},
	}, {
		description: "mismatched lengths",
		src: &rows.Source{
			LevelOne: []any{"A", "B"},
			Measures: []rows.Measure{{Values: []any{1}}},
		},
		want: &View{},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := BuildBase(test.src, testPalette)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("BuildBase() diff (-want +got) %s", diff)
			}
			for _, s := range got.Series {
				if len(s.Values) != len(got.Categories) {
					t.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(got.Categories))
				}
			}
			// Building again yields the same view; names don't leak between builds.
			if diff := cmp.Diff(got, BuildBase(test.src, testPalette)); diff != "" {
				t.Errorf("second BuildBase() diff (-first +second) %s", diff)
			}
		})
	}
}

func TestCanDrill(t *testing.T) {
	src := scenarioSource()
	for _, test := range []struct {
		description string
		src         *rows.Source
		levelOne    []any
		want        bool
	}{
		{"any category", src, nil, true},
		{"diverse category", src, []any{"A"}, true},
		{"single subcategory", src, []any{"B"}, false},
		{"missing category", src, []any{"Z"}, false},
		{"key by string coercion", &rows.Source{
			LevelOne: []any{1, 1},
			LevelTwo: []any{"x", "y"},
		}, []any{"1"}, true},
		{"no level two", &rows.Source{LevelOne: []any{"A", "A"}}, nil, false},
		{"mismatched level two", &rows.Source{LevelOne: []any{"A", "A"}, LevelTwo: []any{"x"}}, nil, false},
		{"uniform level two", &rows.Source{LevelOne: []any{"A", "B"}, LevelTwo: []any{"x", "x"}}, nil, false},
	} {
		t.Run(test.description, func(t *testing.T) {
			if got := CanDrill(test.src, test.levelOne...); got != test.want {
				t.Errorf("CanDrill(%v) = %t, want %t", test.levelOne, got, test.want)
			}
		})
	}
}

func TestBuildDrill(t *testing.T) {
	for _, test := range []struct {
		description string
		src         *rows.Source
		levelOne    any
		want        *View
	}{{
		description: "scenario",
		src:         scenarioSource(),
		levelOne:    "A",
		want: &View{
			Categories: []any{1, 2},
			Series: []Series{
				{Name: "Value", Values: []Value{Float(10), Float(20)}, Color: "red"},
			},
		},
	}, {
		description: "not diverse",
		src:         scenarioSource(),
		levelOne:    "B",
		want:        &View{},
	}, {
		description: "highlights supersede values",
		src: &rows.Source{
			LevelOne: []any{"A", "A", "A", "B"},
			LevelTwo: []any{"x", "y", "x", "x"},
			Measures: []rows.Measure{{
				Name:       "m",
				Values:     []any{1, 2, 3, 4},
				Highlights: []any{0, 2, 1, 0},
			}},
		},
		levelOne: "A",
		want: &View{
			Categories: []any{"x", "y"},
			Series: []Series{
				{Name: "m", Values: []Value{Float(1), Float(2)}, Color: "red"},
			},
		},
	}, {
		description: "all-zero highlights are ignored",
		src: &rows.Source{
			LevelOne: []any{"A", "A"},
			LevelTwo: []any{"x", "y"},
			Measures: []rows.Measure{{
				Name:       "m",
				Values:     []any{1, 2},
				Highlights: []any{0, nil},
			}},
		},
		levelOne: "A",
		want: &View{
			Categories: []any{"x", "y"},
			Series: []Series{
				{Name: "m", Values: []Value{Float(1), Float(2)}, Color: "red"},
			},
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := BuildDrill(test.src, test.levelOne, testPalette)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("BuildDrill(%v) diff (-want +got) %s", test.levelOne, diff)
			}
		})
	}
}

func TestMatchingRows(t *testing.T) {
	src := scenarioSource()
	for _, test := range []struct {
		description string
		levelOne    any
		levelTwo    []any
		want        []int
	}{
		{"level one", "A", nil, []int{0, 1}},
		{"level one and two", "A", []any{"2"}, []int{1}},
		{"absent", "C", nil, []int{}},
	} {
		t.Run(test.description, func(t *testing.T) {
			got := MatchingRows(src, test.levelOne, test.levelTwo...)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("MatchingRows() diff (-want +got) %s", diff)
			}
		})
	}
}

func TestRowsByCategory(t *testing.T) {
	src := &rows.Source{
		LevelOne: []any{"A", "B", "A", 1, "1", "A"},
		LevelTwo: []any{1, 1, 2, 1, 1, 1.0},
		Measures: []rows.Measure{{Name: "Value", Values: []any{1, 1, 1, 1, 1, 1}}},
	}
	for _, test := range []struct {
		description string
		view        *View
		levelOne    []any
		want        [][]int
	}{{
		description: "base view",
		view:        BuildBase(src, testPalette),
		want:        [][]int{{0, 2, 5}, {1}, {3, 4}},
	}, {
		description: "drill view",
		view:        BuildDrill(src, "A", testPalette),
		levelOne:    []any{"A"},
		want:        [][]int{{0, 5}, {2}},
	}, {
		description: "categories absent from the source",
		view:        &View{Categories: []any{"Z", "B"}},
		want:        [][]int{{}, {1}},
	}, {
		description: "nil view",
		want:        [][]int{},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := RowsByCategory(src, test.view, test.levelOne...)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("RowsByCategory() diff (-want +got) %s", diff)
			}
			if test.view == nil {
				return
			}
			for idx, cat := range test.view.Categories {
				var want []int
				if len(test.levelOne) > 0 {
					want = MatchingRows(src, test.levelOne[0], cat)
				} else {
					want = MatchingRows(src, cat)
				}
				if diff := cmp.Diff(want, got[idx]); diff != "" {
					t.Errorf("RowsByCategory()[%d] disagrees with MatchingRows(), diff (-want +got) %s", idx, diff)
				}
			}
		})
	}
}

func BenchmarkBuildBase(b *testing.B) {
	const n, categories = 100000, 5000
	src := &rows.Source{
		LevelOne: make([]any, n),
		Measures: []rows.Measure{{Name: "Value", Values: make([]any, n)}},
	}
	for row := 0; row < n; row++ {
		src.LevelOne[row] = fmt.Sprintf("category %d", row%categories)
		src.Measures[0].Values[row] = row
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := BuildBase(src, testPalette)
		RowsByCategory(src, v)
	}
}

func TestViewHelpers(t *testing.T) {
	v := &View{
		Categories: []any{"A", "B"},
		Series:     []Series{{Name: "s", Values: []Value{Float(1), Null}}},
	}
	clone := v.Clone()
	clone.Series[0].Values[0] = Float(9)
	clone.Categories[1] = "Z"
	if v.Series[0].Values[0] != Float(1) || v.Categories[1] != "B" {
		t.Errorf("mutating a Clone() changed the original view: %v", v)
	}
	fs := v.Floats()
	if fs[0][0] != 1 || !math.IsNaN(fs[0][1]) {
		t.Errorf("Floats() = %v, want [[1 NaN]]", fs)
	}
	if got := v.CategoryIndex("B"); got != 1 {
		t.Errorf("CategoryIndex(B) = %d, want 1", got)
	}
	if !(&View{Categories: []any{"A"}}).Empty() {
		t.Errorf("Empty() = false for a view without series")
	}
}
