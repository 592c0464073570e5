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

// Package legendlayout places a chart legend: it maps a requested position,
// alignment, and margin to explicit edge offsets, and reserves room below the
// plotting grid.
package legendlayout

import (
	"math"

	"github.com/ilhamster/drillbar/style"
	"github.com/ilhamster/drillbar/util"
)

// Position is a legend's placement relative to the plot.
type Position string

// Alignment is a horizontal legend's alignment along its edge.
type Alignment string

// Orient is the direction a legend's entries run in.
type Orient string

// Legend positions, alignments, and orientations.
const (
	Top    Position = "top"
	Bottom Position = "bottom"
	Left   Position = "left"
	Right  Position = "right"

	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"

	Horizontal Orient = "horizontal"
	Vertical   Orient = "vertical"
)

const (
	baseTopPct           = 5
	drilledTopPct        = 8
	baseBottomPct        = 5
	drilledBottomPct     = 10
	sideInsetPct         = 2
	legendBandPct        = 8
	gridBottomPaddingPct = 5

	legendOrientKey   = "legend_orient"
	gridBottomKey     = "grid_bottom"
	legendPositionKey = "legend_position"
)

// Config is a requested legend placement.  The zero Config places the legend
// at the top, centered, with no extra margin.
type Config struct {
	Position  Position
	Alignment Alignment
	// ExtraMarginPct is added to the legend's offset from its edge.
	ExtraMarginPct float64
}

// Layout is a resolved legend placement.  Edge offsets are CSS-style
// percentages; an empty offset is left to the renderer.
type Layout struct {
	Position                 Position
	Orient                   Orient
	Top, Bottom, Left, Right string
	// GridBottom is the margin reserved below the plotting grid.
	GridBottom string
}

func (c Config) normalized() Config {
	switch c.Position {
	case Top, Bottom, Left, Right:
	default:
		c.Position = Top
	}
	switch c.Alignment {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		c.Alignment = AlignCenter
	}
	if math.IsNaN(c.ExtraMarginPct) || math.IsInf(c.ExtraMarginPct, 0) || c.ExtraMarginPct < 0 {
		c.ExtraMarginPct = 0
	}
	return c
}

// Compute resolves cfg into a Layout.  A drilled chart reserves more room at
// its top and bottom edges for the drill header.
func Compute(cfg Config, drilled bool) Layout {
	cfg = cfg.normalized()
	top, bottom := float64(baseTopPct), float64(baseBottomPct)
	if drilled {
		top, bottom = drilledTopPct, drilledBottomPct
	}
	extra := cfg.ExtraMarginPct
	ret := Layout{
		Position:   cfg.Position,
		Orient:     Horizontal,
		GridBottom: style.Pct(bottom + gridBottomPaddingPct),
	}
	switch cfg.Position {
	case Top, Bottom:
		if cfg.Position == Top {
			ret.Top = style.Pct(top + extra)
		} else {
			ret.Bottom = style.Pct(bottom + extra)
			ret.GridBottom = style.Pct(bottom + extra + legendBandPct)
		}
		switch cfg.Alignment {
		case AlignLeft:
			ret.Left = style.Pct(sideInsetPct)
		case AlignRight:
			ret.Right = style.Pct(sideInsetPct)
		default:
			ret.Left = string(AlignCenter)
		}
	case Left, Right:
		ret.Orient = Vertical
		ret.Top = style.Pct(top)
		if cfg.Position == Left {
			ret.Left = style.Pct(sideInsetPct + extra)
		} else {
			ret.Right = style.Pct(sideInsetPct + extra)
		}
	}
	return ret
}

// Define returns a PropertyUpdate defining the receiver.  Edge offsets are
// defined as styles.
func (l Layout) Define() util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(legendPositionKey, string(l.Position)),
		util.StringProperty(legendOrientKey, string(l.Orient)),
		util.StringProperty(gridBottomKey, l.GridBottom),
		style.New().
			With("top", l.Top).
			With("bottom", l.Bottom).
			With("left", l.Left).
			With("right", l.Right).
			Define(),
	)
}
