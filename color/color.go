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

// Package color assigns colors to chart series and annotates renderable
// items with colors.
//
// Series are colored from a Palette, cycling through its colors by series
// position, so that a series keeps its color across drill transitions as long
// as it keeps its position:
//
//	palette := color.NewPalette("series", "#118DFF", "#12239E", "#E66C37")
//	for idx, s := range view.Series {
//	  s.Color = palette.Color(idx)
//	}
//
// A single item may also be given explicit primary, secondary, and stroke
// colors.  The primary color is the item's dominant fill; the secondary color
// marks the item as selected or called out; the stroke color is used for
// text and borders:
//
//	bar.With(
//	  color.Primary(s.Color),
//	  color.Secondary(selectedColor),
//	)
package color

import "github.com/ilhamster/drillbar/util"

const (
	paletteNamePrefix = "color_palette_"
	primaryColorKey   = "primary_color"
	secondaryColorKey = "secondary_color"
	strokeColorKey    = "stroke_color"
)

// DefaultPalette is used wherever no palette is configured.
var DefaultPalette = NewPalette("series",
	"#118DFF", "#12239E", "#E66C37", "#6B007B", "#E044A7",
	"#744EC2", "#D9B300", "#D64550", "#197278", "#1AAB40",
)

// Palette is an ordered, cyclic sequence of HTML color strings.
type Palette struct {
	name   string
	colors []string
}

// NewPalette returns a new Palette with the provided name and colors.
func NewPalette(name string, colors ...string) *Palette {
	return &Palette{
		name:   name,
		colors: colors,
	}
}

// Name returns the Palette's name.
func (p *Palette) Name() string {
	return p.name
}

// Color returns the color for the series at position idx.  A nil or empty
// Palette defers to DefaultPalette.
func (p *Palette) Color(idx int) string {
	if p == nil || len(p.colors) == 0 {
		if p == DefaultPalette {
			return ""
		}
		return DefaultPalette.Color(idx)
	}
	if idx < 0 {
		idx = -idx
	}
	return p.colors[idx%len(p.colors)]
}

// Define annotates with a definition of the receiving Palette.
func (p *Palette) Define() util.PropertyUpdate {
	return util.StringsProperty(paletteNamePrefix+p.name, p.colors...)
}

// Primary annotates a Datum with the specified primary color.
func Primary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(primaryColorKey, colorValue)
}

// Secondary annotates a Datum with the specified secondary color.
func Secondary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(secondaryColorKey, colorValue)
}

// Stroke annotates a Datum with the specified stroke color.
func Stroke(colorValue string) util.PropertyUpdate {
	return util.StringProperty(strokeColorKey, colorValue)
}
