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

// Package aggregate builds chart views from row sources.  A base view has one
// category per distinct level-one key; a drill view, built for a single
// level-one key, has one category per distinct level-two key among that key's
// rows.  Every view has one series per canonical column of its source, each
// holding one aggregated value per category.
//
// Building never fails: malformed or missing input yields an empty View, and
// callers render an empty View as "no data".
package aggregate

import (
	"math"

	"github.com/ilhamster/drillbar/color"
	"github.com/ilhamster/drillbar/key"
	"github.com/ilhamster/drillbar/rows"
)

// Value is an aggregated number that may be null.  A null Value arises when
// every cell contributing to it was absent.
type Value struct {
	Float float64
	Valid bool
}

// Float returns a valid Value holding f.
func Float(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Null is the null Value.
var Null = Value{}

// Series is one named numeric sequence aligned to its View's categories.
type Series struct {
	Name   string
	Values []Value
	Color  string
}

// View is an ordered set of distinct category keys and the series aligned
// with them.  Categories appear in first-occurrence order.
type View struct {
	Categories []any
	Series     []Series
}

// Empty reports whether the receiver has nothing to render.
func (v *View) Empty() bool {
	return v == nil || len(v.Categories) == 0 || len(v.Series) == 0
}

// Clone returns a deep copy of the receiver.  Category keys themselves are
// shared; they are treated as immutable.
func (v *View) Clone() *View {
	if v == nil {
		return nil
	}
	ret := &View{}
	if v.Categories != nil {
		ret.Categories = append([]any{}, v.Categories...)
	}
	if v.Series != nil {
		ret.Series = make([]Series, len(v.Series))
		for idx, s := range v.Series {
			ret.Series[idx] = Series{
				Name:  s.Name,
				Color: s.Color,
			}
			if s.Values != nil {
				ret.Series[idx].Values = append([]Value{}, s.Values...)
			}
		}
	}
	return ret
}

// Floats returns the receiver's series values as float slices, with null
// values as NaN.
func (v *View) Floats() [][]float64 {
	if v == nil {
		return nil
	}
	ret := make([][]float64, len(v.Series))
	for sIdx, s := range v.Series {
		fs := make([]float64, len(s.Values))
		for idx, val := range s.Values {
			if val.Valid {
				fs[idx] = val.Float
			} else {
				fs[idx] = math.NaN()
			}
		}
		ret[sIdx] = fs
	}
	return ret
}

// CategoryIndex returns the index of the category equal to k, or -1.
func (v *View) CategoryIndex(k any) int {
	if v == nil {
		return -1
	}
	for idx, cat := range v.Categories {
		if key.Equal(cat, k) {
			return idx
		}
	}
	return -1
}

// bucket is one distinct category key and the rows bearing it.
type bucket struct {
	key  any
	rows []int
}

// groupBy partitions the provided row indices by their keys, in first-seen
// order.  Keys are compared with key.Equal.
func groupBy(keys []any, rowIdxs []int) []*bucket {
	ret := []*bucket{}
	ix := key.NewIndex()
	for _, row := range rowIdxs {
		k := keys[row]
		pos := ix.Find(k)
		if pos < 0 {
			pos = ix.Add(k)
			ret = append(ret, &bucket{key: k})
		}
		ret[pos].rows = append(ret[pos].rows, row)
	}
	return ret
}

func allRows(n int) []int {
	ret := make([]int, n)
	for idx := range ret {
		ret[idx] = idx
	}
	return ret
}

// sum totals cells at the provided rows.  The result is null only if every
// cell is absent.
func sum(cells []any, rowIdxs []int) Value {
	var ret Value
	for _, row := range rowIdxs {
		if row >= len(cells) {
			continue
		}
		if f, ok := rows.Number(cells[row]); ok {
			ret.Float += f
			ret.Valid = true
		}
	}
	return ret
}

// build assembles a View from buckets.  Each call resolves its own columns
// with a fresh NameRegistry, so names never carry over between builds.
func build(src *rows.Source, buckets []*bucket, palette *color.Palette, useHighlights func(col *rows.Column) bool) *View {
	cols := rows.Columns(src, rows.NewNameRegistry())
	if len(buckets) == 0 || len(cols) == 0 {
		return &View{}
	}
	ret := &View{
		Categories: make([]any, len(buckets)),
		Series:     make([]Series, len(cols)),
	}
	for idx, b := range buckets {
		ret.Categories[idx] = b.key
	}
	for cIdx := range cols {
		col := &cols[cIdx]
		cells := col.Values
		if useHighlights != nil && useHighlights(col) {
			cells = col.Highlights
		}
		s := Series{
			Name:   col.Name,
			Values: make([]Value, len(buckets)),
			Color:  palette.Color(cIdx),
		}
		for bIdx, b := range buckets {
			s.Values[bIdx] = sum(cells, b.rows)
		}
		ret.Series[cIdx] = s
	}
	return ret
}

// BuildBase returns the level-one view of src: one category per distinct
// level-one key, with each series summed over that key's rows.
func BuildBase(src *rows.Source, palette *color.Palette) *View {
	if !src.Valid() {
		return &View{}
	}
	return build(src, groupBy(src.LevelOne, allRows(src.Len())), palette, nil)
}

// MatchingRows returns the indices of the rows of src whose level-one key
// equals levelOne and, if a levelTwo key is provided, whose level-two key
// equals it.
func MatchingRows(src *rows.Source, levelOne any, levelTwo ...any) []int {
	ret := []int{}
	if !src.Valid() {
		return ret
	}
	matchTwo := len(levelTwo) > 0 && src.HasLevelTwo()
	for row, k := range src.LevelOne {
		if !key.Equal(k, levelOne) {
			continue
		}
		if matchTwo && !key.Equal(src.LevelTwo[row], levelTwo[0]) {
			continue
		}
		ret = append(ret, row)
	}
	return ret
}

// distinct returns the number of distinct keys among the provided rows,
// stopping once it reaches limit.
func distinct(keys []any, rowIdxs []int, limit int) int {
	ix := key.NewIndex()
	for _, row := range rowIdxs {
		if ix.Find(keys[row]) < 0 {
			ix.Add(keys[row])
			if ix.Len() >= limit {
				break
			}
		}
	}
	return ix.Len()
}

// RowsByCategory returns, for each category of v, the indices of the rows of
// src aggregated into it.  If a level-one key is provided, v is taken to be
// that key's drill view: only that key's rows are considered, and they are
// matched to categories by their level-two keys.  A row joins the first
// category its key equals, as in BuildBase and BuildDrill.
func RowsByCategory(src *rows.Source, v *View, levelOne ...any) [][]int {
	if v == nil {
		return [][]int{}
	}
	ret := make([][]int, len(v.Categories))
	for idx := range ret {
		ret[idx] = []int{}
	}
	if !src.Valid() {
		return ret
	}
	ix := key.NewIndex()
	for _, cat := range v.Categories {
		ix.Add(cat)
	}
	keys := src.LevelOne
	var candidates []int
	if len(levelOne) > 0 {
		if !src.HasLevelTwo() {
			return ret
		}
		keys = src.LevelTwo
		candidates = MatchingRows(src, levelOne[0])
	} else {
		candidates = allRows(src.Len())
	}
	for _, row := range candidates {
		if pos := ix.Find(keys[row]); pos >= 0 {
			ret[pos] = append(ret[pos], row)
		}
	}
	return ret
}

// CanDrill reports whether src supports drilling down: both category levels
// must be present, and the level-two keys must be diverse overall.  If a
// level-one key is provided, the level-two keys among that key's rows must
// also be diverse.
func CanDrill(src *rows.Source, levelOne ...any) bool {
	if !src.Valid() || !src.HasLevelTwo() {
		return false
	}
	if distinct(src.LevelTwo, allRows(src.Len()), 2) < 2 {
		return false
	}
	if len(levelOne) == 0 {
		return true
	}
	return distinct(src.LevelTwo, MatchingRows(src, levelOne[0]), 2) >= 2
}

// BuildDrill returns the level-two view of src for the provided level-one
// key: one category per distinct level-two key among that key's rows.  If a
// column's highlight overlay holds any nonzero value among those rows, that
// series sums the overlay instead of the raw values.  The returned View is
// empty if fewer than two distinct level-two keys are found.
func BuildDrill(src *rows.Source, levelOne any, palette *color.Palette) *View {
	if !src.Valid() || !src.HasLevelTwo() {
		return &View{}
	}
	filtered := MatchingRows(src, levelOne)
	buckets := groupBy(src.LevelTwo, filtered)
	if len(buckets) < 2 {
		return &View{}
	}
	return build(src, buckets, palette, func(col *rows.Column) bool {
		return col.HasHighlights(filtered)
	})
}
