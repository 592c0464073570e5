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

// Package barchart defines a bar chart with a discrete category axis and a
// continuous value axis.
//
// A BarChart is constructed into a provided DataBuilder db with:
//
//	bc := New(db, axis, legend, renderSettings, properties...)
//
// where axis is an axisscale.Result and legend a legendlayout.Layout.  The
// chart's series are declared with `bc.Series(series...)`, and its drill
// state with `bc.Drill(state)`.  Categories are then added, in display order,
// with:
//
//	bcCat := bc.Category(cat, properties...)
//
// where cat is a category.Category, and bars are added into a category, in
// series order, with:
//
//	bar := bcCat.Bar(seriesIdx, series, value)
//
// Bars within a category are rendered side by side, one lane per series.  A
// category may omit the bar of a series whose value is null.
//
// Render assembles a complete chart from an aggregate.View.
package barchart

import (
	"github.com/ilhamster/drillbar/aggregate"
	axisscale "github.com/ilhamster/drillbar/axis_scale"
	"github.com/ilhamster/drillbar/category"
	"github.com/ilhamster/drillbar/color"
	"github.com/ilhamster/drillbar/drill"
	"github.com/ilhamster/drillbar/label"
	legendlayout "github.com/ilhamster/drillbar/legend_layout"
	"github.com/ilhamster/drillbar/util"
)

const (
	// Data types
	dataTypeKey = "bar_chart_data_type"
	barKey      = "bar_chart_bar"

	// Bar datum keys
	barLowerExtentKey = "bar_chart_bar_lower_extent"
	barUpperExtentKey = "bar_chart_bar_upper_extent"
	barSeriesKey      = "bar_chart_bar_series"
	barSeriesIndexKey = "bar_chart_bar_series_index"

	// Chart keys
	seriesNamesKey   = "bar_chart_series_names"
	seriesColorsKey  = "bar_chart_series_colors"
	drilledKey       = "bar_chart_drilled"
	drillLabelKey    = "bar_chart_drill_label"
	selectedIndexKey = "bar_chart_selected_index"
	emptyKey         = "bar_chart_empty"
	chartKindKey     = "bar_chart_kind"

	// Category keys
	categoryRowsKey     = "bar_chart_category_rows"
	categorySelectedKey = "bar_chart_category_selected"

	// Rendering property keys
	barWidthCatPxKey        = "bar_chart_bar_width_cat_px"
	barPaddingCatPxKey      = "bar_chart_bar_padding_cat_px"
	categoryPaddingCatPxKey = "bar_chart_category_padding_cat_px"
)

// Kind is the shape a chart is drawn in.
type Kind string

// Chart kinds.
const (
	Bars  Kind = "bar"
	Donut Kind = "donut"
)

// RenderSettings is a collection of rendering settings for a bar chart.
// Extents are in pixels along the category axis.
type RenderSettings struct {
	Kind Kind
	// The width of a bar along the category axis.
	BarWidthCatPx int64
	// The padding between adjacent bars within a category.
	BarPaddingCatPx int64
	// The padding between adjacent categories.
	CategoryPaddingCatPx int64
}

func (rs *RenderSettings) define() util.PropertyUpdate {
	if rs == nil {
		return util.EmptyUpdate
	}
	kind := rs.Kind
	if kind == "" {
		kind = Bars
	}
	return util.Chain(
		util.StringProperty(chartKindKey, string(kind)),
		util.IntegerProperty(barWidthCatPxKey, rs.BarWidthCatPx),
		util.IntegerProperty(barPaddingCatPxKey, rs.BarPaddingCatPx),
		util.IntegerProperty(categoryPaddingCatPxKey, rs.CategoryPaddingCatPx),
	)
}

// BarChart represents a bar chart with one continuous value axis and one
// discrete category axis.
type BarChart struct {
	db   util.DataBuilder
	axis *axisscale.Result
}

// New returns a new BarChart populating the provided DataBuilder, using the
// provided value axis, legend layout, and render settings.  renderSettings
// may be nil.
func New(db util.DataBuilder, axis *axisscale.Result, legend legendlayout.Layout, renderSettings *RenderSettings, properties ...util.PropertyUpdate) *BarChart {
	return &BarChart{
		db: db.With(
			axis.Define(),
			legend.Define(),
			renderSettings.define(),
		).With(
			properties...,
		),
		axis: axis,
	}
}

// With annotates the receiver with the provided properties.
func (bc *BarChart) With(properties ...util.PropertyUpdate) *BarChart {
	bc.db.With(properties...)
	return bc
}

// Series declares the receiver's series, in lane order.
func (bc *BarChart) Series(series ...aggregate.Series) *BarChart {
	names := make([]string, len(series))
	colors := make([]string, len(series))
	for idx, s := range series {
		names[idx] = s.Name
		colors[idx] = s.Color
	}
	bc.db.With(
		util.StringsProperty(seriesNamesKey, names...),
		util.StringsProperty(seriesColorsKey, colors...),
	)
	return bc
}

// Drill annotates the receiver with the provided drill state: whether it is
// drilled, the drilled category's label for the drill header, and the
// selected category's index, or -1.
func (bc *BarChart) Drill(state drill.State) *BarChart {
	selected := int64(-1)
	if state.SelectedIndex != nil {
		selected = int64(*state.SelectedIndex)
	}
	bc.db.With(
		util.BoolProperty(drilledKey, state.Drilled),
		util.If(state.Drilled, util.StringProperty(drillLabelKey, state.ActiveLabel)),
		util.IntegerProperty(selectedIndexKey, selected),
	)
	return bc
}

// Category adds a new category, with the provided Category, to the receiver.
func (bc *BarChart) Category(cat *category.Category, properties ...util.PropertyUpdate) *Category {
	db := bc.db.Child().
		With(cat.Define())
	return (&Category{
		db:   db,
		axis: bc.axis,
	}).With(properties...)
}

// Category represents a category within a bar chart.
type Category struct {
	db   util.DataBuilder
	axis *axisscale.Result
}

// With annotates the receiver with the provided properties.
func (c *Category) With(properties ...util.PropertyUpdate) *Category {
	c.db.With(properties...)
	return c
}

// Bar adds a bar for the series at seriesIdx, extending from 0 to value, into
// the receiving Category.  The bar is colored as its series and labeled with
// its value, formatted per the chart's axis.
func (c *Category) Bar(seriesIdx int, series aggregate.Series, value float64) *Bar {
	return &Bar{
		db: c.db.Child().With(
			util.StringProperty(dataTypeKey, barKey),
			util.DoubleProperty(barLowerExtentKey, 0),
			util.DoubleProperty(barUpperExtentKey, value),
			util.StringProperty(barSeriesKey, series.Name),
			util.IntegerProperty(barSeriesIndexKey, int64(seriesIdx)),
			color.Primary(series.Color),
			label.Text(c.axis.FormatLabel(value)),
		),
	}
}

// Bar represents a single bar within a Category.
type Bar struct {
	db util.DataBuilder
}

// With annotates the receiver with the provided properties.
func (b *Bar) With(properties ...util.PropertyUpdate) *Bar {
	b.db.With(properties...)
	return b
}

// Input is everything Render draws a chart from.
type Input struct {
	View   *aggregate.View
	State  drill.State
	Axis   *axisscale.Result
	Legend legendlayout.Layout
	// Render may be nil.
	Render *RenderSettings
	// CategoryRows, if non-nil, returns the source rows aggregated into the
	// category at the provided index.
	CategoryRows func(idx int) []int
}

func int64s(ints []int) []int64 {
	ret := make([]int64, len(ints))
	for idx, i := range ints {
		ret[idx] = int64(i)
	}
	return ret
}

// Render populates db with a bar chart of in.View.  Null values get no bar.
func Render(db util.DataBuilder, in Input) *BarChart {
	v := in.View
	if v == nil {
		v = &aggregate.View{}
	}
	bc := New(db, in.Axis, in.Legend, in.Render,
		util.BoolProperty(emptyKey, v.Empty()),
	).Series(v.Series...).Drill(in.State)
	for catIdx, k := range v.Categories {
		selected := in.State.SelectedIndex != nil && *in.State.SelectedIndex == catIdx
		bcCat := bc.Category(category.FromKey(k, catIdx),
			util.BoolProperty(categorySelectedKey, selected),
		)
		if in.CategoryRows != nil {
			bcCat.With(util.IntegersProperty(categoryRowsKey, int64s(in.CategoryRows(catIdx))...))
		}
		for sIdx, s := range v.Series {
			if catIdx >= len(s.Values) || !s.Values[catIdx].Valid {
				continue
			}
			bcCat.Bar(sIdx, s, s.Values[catIdx].Float)
		}
	}
	return bc
}
