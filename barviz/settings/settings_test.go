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

package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	axisscale "github.com/ilhamster/drillbar/axis_scale"
	barchart "github.com/ilhamster/drillbar/bar_chart"
	"github.com/ilhamster/drillbar/color"
	legendlayout "github.com/ilhamster/drillbar/legend_layout"
	"github.com/ilhamster/drillbar/rows"
	valueformat "github.com/ilhamster/drillbar/value_format"
)

const salesYAML = `
fields:
  level_one: Region
  level_two: Country
  measures: [Sales]
sheet: Data
axis:
  headroom_tolerance: 0.2
  fixed_tick_count: 5
format:
  kind: currency
  unit: thousands
  decimals: "1"
  currency: EUR
  locale: de
legend:
  position: bottom
  alignment: left
  extra_margin_pct: 2
palette: ["#111111", "#222222"]
render:
  kind: donut
cache_size: 4
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(salesYAML))
	if err != nil {
		t.Fatalf("Parse() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff(rows.Fields{LevelOne: "Region", LevelTwo: "Country", Measures: []string{"Sales"}}, s.Fields); diff != "" {
		t.Errorf("Fields diff (-want +got):\n%s", diff)
	}
	if s.Sheet != "Data" || s.CacheSize != 4 {
		t.Errorf("Sheet, CacheSize = %q, %d, want \"Data\", 4", s.Sheet, s.CacheSize)
	}
	wantAxis := axisscale.Config{
		HeadroomTolerance: 0.2,
		FixedTickCount:    5,
		Format: valueformat.Options{
			Kind:         valueformat.KindCurrency,
			Unit:         valueformat.UnitThousands,
			Decimals:     1,
			CurrencyCode: "EUR",
			Locale:       "de",
		},
	}
	if diff := cmp.Diff(wantAxis, s.AxisConfig()); diff != "" {
		t.Errorf("AxisConfig() diff (-want +got):\n%s", diff)
	}
	wantLegend := legendlayout.Config{
		Position:       legendlayout.Bottom,
		Alignment:      legendlayout.AlignLeft,
		ExtraMarginPct: 2,
	}
	if diff := cmp.Diff(wantLegend, s.LegendConfig()); diff != "" {
		t.Errorf("LegendConfig() diff (-want +got):\n%s", diff)
	}
	if got := s.ColorPalette().Color(1); got != "#222222" {
		t.Errorf("ColorPalette().Color(1) = %q, want \"#222222\"", got)
	}
	wantRender := &barchart.RenderSettings{
		Kind:                 barchart.Donut,
		BarWidthCatPx:        20,
		BarPaddingCatPx:      2,
		CategoryPaddingCatPx: 10,
	}
	if diff := cmp.Diff(wantRender, s.RenderSettings()); diff != "" {
		t.Errorf("RenderSettings() diff (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	s, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() of an empty document yielded unexpected error %s", err)
	}
	if diff := cmp.Diff(Default(), s); diff != "" {
		t.Errorf("Parse(\"\") diff from Default() (-want +got):\n%s", diff)
	}
	if got := s.FormatOptions().Decimals; got != valueformat.AutoDecimals {
		t.Errorf("default decimals = %d, want %d", got, valueformat.AutoDecimals)
	}
	if s.ColorPalette() != color.DefaultPalette {
		t.Errorf("default palette is not color.DefaultPalette")
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		description string
		yaml        string
		wantInvalid bool
	}{
		{"unknown format kind", "format: {kind: roman}", true},
		{"unknown unit", "format: {unit: dozens}", true},
		{"decimals out of range", "format: {decimals: \"12\"}", true},
		{"decimals not a number", "format: {decimals: some}", true},
		{"unknown legend position", "legend: {position: middle}", true},
		{"unknown alignment", "legend: {alignment: justify}", true},
		{"unknown chart kind", "render: {kind: pie}", true},
		{"unknown key", "colour: red", false},
		{"malformed yaml", "axis: [", false},
	} {
		t.Run(test.description, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.yaml))
			if err == nil {
				t.Fatalf("Parse(%q) yielded no error", test.yaml)
			}
			if got := errors.Is(err, ErrInvalid); got != test.wantInvalid {
				t.Errorf("Parse(%q) error %v; errors.Is(ErrInvalid) = %t, want %t", test.yaml, err, got, test.wantInvalid)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	if s, err := Load(""); err != nil || s.CacheSize != Default().CacheSize {
		t.Errorf("Load(\"\") = %v, %v; want defaults", s, err)
	}
	path := filepath.Join(t.TempDir(), "chart.yaml")
	if err := os.WriteFile(path, []byte("cache_size: 2\n"), 0o644); err != nil {
		t.Fatalf("failed to write settings: %s", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() yielded unexpected error %s", err)
	}
	if s.CacheSize != 2 {
		t.Errorf("Load() cache size = %d, want 2", s.CacheSize)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load() of a missing file yielded no error")
	}
}
