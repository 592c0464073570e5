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

// Package valueformat formats axis and data-label values: it scales a value
// by a display unit (thousands, millions, ...) and renders it as a
// locale-aware number, currency amount, or percentage, followed by the
// unit's suffix.
//
// Formatting never fails.  If the locale or currency cannot be resolved, or
// the value is not finite, the value is rendered in fixed-point notation
// with the same suffix.
package valueformat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Kind selects how a scaled value is rendered.
type Kind string

// Value kinds.
const (
	KindAuto     Kind = "auto"
	KindNumber   Kind = "number"
	KindCurrency Kind = "currency"
	KindPercent  Kind = "percent"
)

// Unit selects the divisor applied to a value before rendering.
type Unit string

// Display units.
const (
	UnitAuto      Unit = "auto"
	UnitNone      Unit = "none"
	UnitThousands Unit = "thousands"
	UnitMillions  Unit = "millions"
	UnitBillions  Unit = "billions"
	UnitTrillions Unit = "trillions"
)

// AutoDecimals defers the number of decimal places to the locale.
const AutoDecimals = -1

const (
	maxDecimals      = 9
	fallbackDecimals = 2
	defaultLocale    = "en"
)

type unitInfo struct {
	unit    Unit
	divisor float64
	suffix  string
}

// Ordered from largest to smallest; auto selection takes the first whose
// divisor does not exceed the axis maximum.
var units = []unitInfo{
	{UnitTrillions, 1e12, "T"},
	{UnitBillions, 1e9, "B"},
	{UnitMillions, 1e6, "M"},
	{UnitThousands, 1e3, "K"},
}

// Options configures a Formatter.
type Options struct {
	Kind Kind
	Unit Unit
	// Decimals is the fixed number of decimal places, 0..9, or AutoDecimals.
	Decimals int
	// CurrencyCode is an ISO 4217 code, used with KindCurrency.
	CurrencyCode string
	// Locale is a BCP 47 tag; empty means English.
	Locale string
}

// DefaultOptions returns options rendering plain numbers with automatic
// units and decimals.
func DefaultOptions() Options {
	return Options{
		Kind:         KindAuto,
		Unit:         UnitAuto,
		Decimals:     AutoDecimals,
		CurrencyCode: "USD",
	}
}

// UnitFor returns the divisor and suffix for the provided unit.  UnitAuto
// picks the largest unit not exceeding the magnitude of axisMax, or no unit.
// Unknown units behave as UnitNone.
func UnitFor(unit Unit, axisMax float64) (float64, string) {
	if unit == UnitAuto || unit == "" {
		m := math.Abs(axisMax)
		for _, ui := range units {
			if m >= ui.divisor {
				return ui.divisor, ui.suffix
			}
		}
		return 1, ""
	}
	for _, ui := range units {
		if ui.unit == unit {
			return ui.divisor, ui.suffix
		}
	}
	return 1, ""
}

// Formatter renders values for one axis.
type Formatter struct {
	opts     Options
	divisor  float64
	suffix   string
	decimals int
	printer  *message.Printer
	tag      language.Tag
	cur      currency.Unit
	// broken is set when the locale or currency could not be resolved; every
	// value then takes the fixed-point fallback.
	broken bool
}

// New returns a Formatter for an axis whose maximum is axisMax.
func New(opts Options, axisMax float64) *Formatter {
	f := &Formatter{
		opts:     opts,
		decimals: opts.Decimals,
	}
	if f.decimals > maxDecimals {
		f.decimals = maxDecimals
	}
	if f.decimals < 0 {
		f.decimals = AutoDecimals
	}
	f.divisor, f.suffix = UnitFor(opts.Unit, axisMax)
	locale := opts.Locale
	if locale == "" {
		locale = defaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		f.broken = true
		return f
	}
	f.tag = tag
	f.printer = message.NewPrinter(tag)
	if opts.Kind == KindCurrency {
		code := opts.CurrencyCode
		if code == "" {
			code = "USD"
		}
		cur, err := currency.ParseISO(code)
		if err != nil {
			f.broken = true
			return f
		}
		f.cur = cur
	}
	return f
}

// Suffix returns the display-unit suffix the receiver appends.
func (f *Formatter) Suffix() string {
	return f.suffix
}

// Format renders v.
func (f *Formatter) Format(v float64) (ret string) {
	scaled := v / f.divisor
	if f.broken || math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return f.fallback(scaled)
	}
	defer func() {
		if r := recover(); r != nil {
			ret = f.fallback(scaled)
		}
	}()
	var s string
	switch f.opts.Kind {
	case KindCurrency:
		s = f.formatCurrency(scaled)
		if strings.Contains(s, "%!") {
			return f.fallback(scaled)
		}
		return s
	case KindPercent:
		s = f.formatPercent(scaled)
	default:
		s = f.printer.Sprint(number.Decimal(scaled, f.fractionOptions()...))
	}
	if strings.Contains(s, "%!") {
		// The printer reports bad arguments and recovered panics inline.
		return f.fallback(scaled)
	}
	return s + f.suffix
}

func (f *Formatter) fractionOptions() []number.Option {
	if f.decimals == AutoDecimals {
		return nil
	}
	return []number.Option{
		number.MinFractionDigits(f.decimals),
		number.MaxFractionDigits(f.decimals),
	}
}

// formatPercent treats magnitudes up to 1 as fractions (0.25 is 25%) and
// larger magnitudes as percentage points (25 is 25%).
func (f *Formatter) formatPercent(v float64) string {
	if math.Abs(v) > 1 {
		v /= 100
	}
	return f.printer.Sprint(number.Percent(v, f.fractionOptions()...))
}

// symbolPlacement is where a locale puts the currency symbol.
type symbolPlacement int

const (
	// "$1,234.50"
	symbolBefore symbolPlacement = iota
	// "R$ 1.234,50"
	symbolBeforeSpaced
	// "1.234,50 €"
	symbolAfterSpaced
)

// Placements from the CLDR standard currency patterns, by language and then
// by language-region.  Unlisted locales take symbolBefore.
var (
	languagePlacements = map[string]symbolPlacement{
		"bg": symbolAfterSpaced, "ca": symbolAfterSpaced, "cs": symbolAfterSpaced,
		"da": symbolAfterSpaced, "de": symbolAfterSpaced, "el": symbolAfterSpaced,
		"es": symbolAfterSpaced, "et": symbolAfterSpaced, "fi": symbolAfterSpaced,
		"fr": symbolAfterSpaced, "hr": symbolAfterSpaced, "hu": symbolAfterSpaced,
		"is": symbolAfterSpaced, "it": symbolAfterSpaced, "lt": symbolAfterSpaced,
		"lv": symbolAfterSpaced, "nb": symbolAfterSpaced, "no": symbolAfterSpaced,
		"pl": symbolAfterSpaced, "ro": symbolAfterSpaced, "ru": symbolAfterSpaced,
		"sk": symbolAfterSpaced, "sl": symbolAfterSpaced, "sr": symbolAfterSpaced,
		"sv": symbolAfterSpaced, "uk": symbolAfterSpaced, "vi": symbolAfterSpaced,
		"nl": symbolBeforeSpaced, "pt": symbolBeforeSpaced,
	}
	regionPlacements = map[string]symbolPlacement{
		"de-AT": symbolBeforeSpaced, "de-CH": symbolBeforeSpaced, "de-LI": symbolBeforeSpaced,
		"it-CH": symbolBeforeSpaced, "pt-PT": symbolAfterSpaced,
		"es-MX": symbolBefore, "es-US": symbolBefore, "es-419": symbolBefore,
	}
)

// placement returns the symbol placement of tag.
func placement(tag language.Tag) symbolPlacement {
	base, _, region := tag.Raw()
	if p, ok := regionPlacements[base.String()+"-"+region.String()]; ok {
		return p
	}
	if p, ok := languagePlacements[base.String()]; ok {
		return p
	}
	return symbolBefore
}

// formatCurrency renders the locale's currency symbol on the locale's side
// of the number, with the display-unit suffix kept on the number and the
// sign ahead of both.
func (f *Formatter) formatCurrency(v float64) string {
	sym := f.printer.Sprint(currency.Symbol(f.cur))
	opts := f.fractionOptions()
	if opts == nil {
		scale, _ := currency.Standard.Rounding(f.cur)
		opts = []number.Option{
			number.MinFractionDigits(scale),
			number.MaxFractionDigits(scale),
		}
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	num := f.printer.Sprint(number.Decimal(v, opts...)) + f.suffix
	switch placement(f.tag) {
	case symbolAfterSpaced:
		return sign + num + "\u00a0" + sym
	case symbolBeforeSpaced:
		return sign + sym + "\u00a0" + num
	}
	return sign + sym + num
}

func (f *Formatter) fallback(v float64) string {
	decimals := f.decimals
	if decimals == AutoDecimals {
		decimals = fallbackDecimals
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + f.suffix
}

// Func returns the receiver's Format method as a plain function.
func (f *Formatter) Func() func(float64) string {
	return f.Format
}

// String describes the receiver, for logging.
func (f *Formatter) String() string {
	return fmt.Sprintf("valueformat{kind=%s unit=%s suffix=%q decimals=%d locale=%s}",
		f.opts.Kind, f.opts.Unit, f.suffix, f.decimals, f.tag)
}
