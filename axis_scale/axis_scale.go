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

// Package axisscale computes a value axis for a set of series: its extents,
// a tick count with a human-friendly step, and a label formatter.
package axisscale

import (
	"math"

	"github.com/ilhamster/drillbar/util"
	valueformat "github.com/ilhamster/drillbar/value_format"
)

const (
	axisTypeKey      = "axis_type"
	axisMinKey       = "axis_min"
	axisMaxKey       = "axis_max"
	axisTickCountKey = "axis_tick_count"
	axisIntervalKey  = "axis_interval"
	axisTickLabelKey = "axis_tick_labels"
	axisUnitKey      = "axis_unit_suffix"

	doubleAxisType = "double"
)

// niceFractions are the step multipliers, in increasing order, that a raw step
// is snapped up to.
var niceFractions = []float64{1, 1.2, 1.5, 2, 2.5, 3, 5, 10}

const niceEpsilon = 1e-9

// Config configures axis computation.  Out-of-range values are clamped rather
// than rejected.
type Config struct {
	// HeadroomTolerance is the fraction, in [0, 1], of the data range
	// requested above the maximum value.
	HeadroomTolerance float64
	// FixedTickCount, if positive, pins the axis to exactly that many
	// divisions (rounded, at least 1) starting at 0.
	FixedTickCount float64
	Format         valueformat.Options
}

// DefaultConfig returns a Config with automatic ticks and default formatting.
func DefaultConfig() Config {
	return Config{
		HeadroomTolerance: 0,
		Format:            valueformat.DefaultOptions(),
	}
}

// Result is a computed axis.  Min, Max, and Interval are nil when the
// renderer should choose them.
type Result struct {
	Min, Max, Interval *float64
	TickCount          int
	FormatLabel        func(v float64) string

	suffix string
}

func ptr(f float64) *float64 {
	return &f
}

func clampTolerance(tol float64) float64 {
	switch {
	case math.IsNaN(tol), tol < 0:
		return 0
	case tol > 1:
		return 1
	}
	return tol
}

func fixedTicks(cfg Config) (int, bool) {
	if !(cfg.FixedTickCount > 0) || math.IsInf(cfg.FixedTickCount, 0) {
		return 0, false
	}
	n := int(math.Round(cfg.FixedTickCount))
	if n < 1 {
		n = 1
	}
	return n, true
}

// TargetTicks returns the tick count requested by cfg: its fixed tick count
// if one is set, and otherwise a count that shrinks as the requested headroom
// grows.
func TargetTicks(cfg Config) int {
	if n, ok := fixedTicks(cfg); ok {
		return n
	}
	switch tol := clampTolerance(cfg.HeadroomTolerance); {
	case tol <= 0.05:
		return 6
	case tol <= 0.25:
		return 5
	case tol <= 0.50:
		return 4
	default:
		return 3
	}
}

// scale returns f × 10^exp, multiplying or dividing by an exact power of ten
// so that small results don't pick up representation noise.
func scale(f float64, exp int) float64 {
	if exp >= 0 {
		return f * math.Pow10(exp)
	}
	return f / math.Pow10(-exp)
}

// NiceStep snaps raw up to the nearest f × 10^n with f drawn from
// {1, 1.2, 1.5, 2, 2.5, 3, 5, 10}.  Non-positive or non-finite raw steps
// yield 0.
func NiceStep(raw float64) float64 {
	if !(raw > 0) || math.IsInf(raw, 0) {
		return 0
	}
	exp := int(math.Floor(math.Log10(raw)))
	frac := scale(raw, -exp)
	nice := niceFractions[len(niceFractions)-1]
	for _, f := range niceFractions {
		if math.Abs(f-frac) < niceEpsilon {
			nice = f
			break
		}
		if f >= frac {
			nice = f
			break
		}
	}
	// Every nice fraction is a whole number of tenths.
	return scale(math.Round(nice*10), exp-1)
}

// Observed returns the least and greatest finite values among series.  ok is
// false if there are none.
func Observed(series ...[]float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			ok = true
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

// Compute returns the axis for the provided series under cfg.  Non-finite
// values, including the NaNs standing in for nulls, are ignored.
func Compute(cfg Config, series ...[]float64) *Result {
	ret := &Result{
		TickCount: TargetTicks(cfg),
	}
	obsMin, obsMax, ok := Observed(series...)
	if n, fixed := fixedTicks(cfg); fixed {
		ret.Min = ptr(0)
		if ok && obsMax > 0 {
			step := NiceStep(obsMax / float64(n))
			ret.Max = ptr(step * float64(n))
			ret.Interval = ptr(step)
		}
	} else if ok {
		tol := clampTolerance(cfg.HeadroomTolerance)
		proposed := obsMax + (obsMax-obsMin)*tol*0.5
		if proposed > 0 {
			step := NiceStep(proposed / float64(ret.TickCount))
			if step*float64(ret.TickCount) < proposed {
				ret.TickCount++
			}
			ret.Max = ptr(step * float64(ret.TickCount))
		}
	}
	axisMax := obsMax
	if ret.Max != nil {
		axisMax = *ret.Max
	}
	formatter := valueformat.New(cfg.Format, axisMax)
	ret.FormatLabel = formatter.Format
	ret.suffix = formatter.Suffix()
	return ret
}

// Ticks returns the values of the receiver's gridlines, from its minimum (or
// 0) to its maximum inclusive, or nil if its maximum is undefined.
func (r *Result) Ticks() []float64 {
	if r.Max == nil || r.TickCount < 1 {
		return nil
	}
	min := 0.0
	if r.Min != nil {
		min = *r.Min
	}
	step := (*r.Max - min) / float64(r.TickCount)
	if r.Interval != nil {
		step = *r.Interval
	}
	ret := make([]float64, r.TickCount+1)
	for idx := range ret {
		ret[idx] = min + step*float64(idx)
	}
	return ret
}

func optionalDouble(key string, v *float64) util.PropertyUpdate {
	if v == nil {
		return util.EmptyUpdate
	}
	return util.DoubleProperty(key, *v)
}

// Define returns a PropertyUpdate defining the receiver's extents, tick
// count, interval, and formatted tick labels.
func (r *Result) Define() util.PropertyUpdate {
	ticks := r.Ticks()
	labels := make([]string, len(ticks))
	for idx, tick := range ticks {
		labels[idx] = r.FormatLabel(tick)
	}
	return util.Chain(
		util.StringProperty(axisTypeKey, doubleAxisType),
		util.IntegerProperty(axisTickCountKey, int64(r.TickCount)),
		util.StringProperty(axisUnitKey, r.suffix),
		optionalDouble(axisMinKey, r.Min),
		optionalDouble(axisMaxKey, r.Max),
		optionalDouble(axisIntervalKey, r.Interval),
		util.If(len(labels) > 0, util.StringsProperty(axisTickLabelKey, labels...)),
	)
}
