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

// Package settings loads chart settings from YAML: the field mapping from
// table columns to chart roles, and the axis, value format, legend, palette,
// and render settings.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	axisscale "github.com/ilhamster/drillbar/axis_scale"
	barchart "github.com/ilhamster/drillbar/bar_chart"
	"github.com/ilhamster/drillbar/color"
	legendlayout "github.com/ilhamster/drillbar/legend_layout"
	"github.com/ilhamster/drillbar/rows"
	valueformat "github.com/ilhamster/drillbar/value_format"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid setting")

const autoDecimals = "auto"

// Axis configures the value axis.
type Axis struct {
	HeadroomTolerance float64 `yaml:"headroom_tolerance"`
	FixedTickCount    float64 `yaml:"fixed_tick_count"`
}

// Format configures value labels.  Decimals is "auto" or "0" through "9".
type Format struct {
	Kind     string `yaml:"kind"`
	Unit     string `yaml:"unit"`
	Decimals string `yaml:"decimals"`
	Currency string `yaml:"currency"`
	Locale   string `yaml:"locale"`
}

// Legend configures legend placement.
type Legend struct {
	Position       string  `yaml:"position"`
	Alignment      string  `yaml:"alignment"`
	ExtraMarginPct float64 `yaml:"extra_margin_pct"`
}

// Render configures chart rendering.
type Render struct {
	Kind              string `yaml:"kind"`
	BarWidthPx        int64  `yaml:"bar_width_px"`
	BarPaddingPx      int64  `yaml:"bar_padding_px"`
	CategoryPaddingPx int64  `yaml:"category_padding_px"`
}

// Settings is a complete chart configuration.
type Settings struct {
	Fields  rows.Fields `yaml:"fields"`
	Sheet   string      `yaml:"sheet"`
	Axis    Axis        `yaml:"axis"`
	Format  Format      `yaml:"format"`
	Legend  Legend      `yaml:"legend"`
	Palette []string    `yaml:"palette"`
	Render  Render      `yaml:"render"`
	// CacheSize is the number of drill views each chart caches.
	CacheSize int `yaml:"cache_size"`
}

// Default returns the default Settings.  Its field mapping is empty: every
// column is a measure.
func Default() *Settings {
	return &Settings{
		Format: Format{
			Kind:     string(valueformat.KindAuto),
			Unit:     string(valueformat.UnitAuto),
			Decimals: autoDecimals,
			Currency: "USD",
		},
		Legend: Legend{
			Position:  string(legendlayout.Top),
			Alignment: string(legendlayout.AlignCenter),
		},
		Render: Render{
			Kind:              string(barchart.Bars),
			BarWidthPx:        20,
			BarPaddingPx:      2,
			CategoryPaddingPx: 10,
		},
		CacheSize: 16,
	}
}

// Parse overlays the YAML document read from r onto the default Settings,
// and validates the result.  Unknown keys are rejected.
func Parse(r io.Reader) (*Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads Settings from the YAML file at path.  An empty path yields the
// default Settings.
func Load(path string) (*Settings, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func oneOf[T ~string](field, got string, allowed ...T) error {
	for _, a := range allowed {
		if string(a) == got {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q must be one of %v", ErrInvalid, field, got, allowed)
}

func decimals(s string) (int, error) {
	if s == autoDecimals || s == "" {
		return valueformat.AutoDecimals, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 || d > 9 {
		return 0, fmt.Errorf("%w: format.decimals %q must be \"auto\" or 0 through 9", ErrInvalid, s)
	}
	return d, nil
}

// Validate checks the receiver's enumerated settings.  Numeric ranges are
// not checked; out-of-range values are clamped where they are used.
func (s *Settings) Validate() error {
	_, decimalsErr := decimals(s.Format.Decimals)
	return errors.Join(
		oneOf("format.kind", s.Format.Kind,
			valueformat.KindAuto, valueformat.KindNumber, valueformat.KindCurrency, valueformat.KindPercent),
		oneOf("format.unit", s.Format.Unit,
			valueformat.UnitAuto, valueformat.UnitNone, valueformat.UnitThousands,
			valueformat.UnitMillions, valueformat.UnitBillions, valueformat.UnitTrillions),
		decimalsErr,
		oneOf("legend.position", s.Legend.Position,
			legendlayout.Top, legendlayout.Bottom, legendlayout.Left, legendlayout.Right),
		oneOf("legend.alignment", s.Legend.Alignment,
			legendlayout.AlignLeft, legendlayout.AlignCenter, legendlayout.AlignRight),
		oneOf("render.kind", s.Render.Kind, barchart.Bars, barchart.Donut),
	)
}

// FormatOptions returns the receiver's value format options.
func (s *Settings) FormatOptions() valueformat.Options {
	d, err := decimals(s.Format.Decimals)
	if err != nil {
		d = valueformat.AutoDecimals
	}
	return valueformat.Options{
		Kind:         valueformat.Kind(s.Format.Kind),
		Unit:         valueformat.Unit(s.Format.Unit),
		Decimals:     d,
		CurrencyCode: s.Format.Currency,
		Locale:       s.Format.Locale,
	}
}

// AxisConfig returns the receiver's axis configuration.
func (s *Settings) AxisConfig() axisscale.Config {
	return axisscale.Config{
		HeadroomTolerance: s.Axis.HeadroomTolerance,
		FixedTickCount:    s.Axis.FixedTickCount,
		Format:            s.FormatOptions(),
	}
}

// LegendConfig returns the receiver's legend configuration.
func (s *Settings) LegendConfig() legendlayout.Config {
	return legendlayout.Config{
		Position:       legendlayout.Position(s.Legend.Position),
		Alignment:      legendlayout.Alignment(s.Legend.Alignment),
		ExtraMarginPct: s.Legend.ExtraMarginPct,
	}
}

// ColorPalette returns the receiver's series palette, or the default palette
// if none is set.
func (s *Settings) ColorPalette() *color.Palette {
	if len(s.Palette) == 0 {
		return color.DefaultPalette
	}
	return color.NewPalette("series", s.Palette...)
}

// RenderSettings returns the receiver's chart render settings.
func (s *Settings) RenderSettings() *barchart.RenderSettings {
	return &barchart.RenderSettings{
		Kind:                 barchart.Kind(s.Render.Kind),
		BarWidthCatPx:        s.Render.BarWidthPx,
		BarPaddingCatPx:      s.Render.BarPaddingPx,
		CategoryPaddingCatPx: s.Render.CategoryPaddingPx,
	}
}
