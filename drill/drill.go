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

// Package drill maintains a chart's drill state: whether it shows the base
// (level-one) view or a drill (level-two) view of one level-one category,
// which category is selected, and the cached base view to return to.
//
// An Engine is not safe for concurrent use; callers serialize access.
package drill

import (
	"log/slog"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/ilhamster/drillbar/aggregate"
	"github.com/ilhamster/drillbar/color"
	"github.com/ilhamster/drillbar/key"
	"github.com/ilhamster/drillbar/rows"
)

// DefaultCacheSize is the default number of drill views an Engine caches.
const DefaultCacheSize = 16

// State is a snapshot of an Engine's drill state.
type State struct {
	Drilled bool
	// ActiveLabel and ActiveKey identify the drilled level-one category.
	ActiveLabel string
	ActiveKey   any
	// SelectedIndex is the index of the selected category in the current
	// view, or nil.
	SelectedIndex *int
}

func (s State) clone() State {
	if s.SelectedIndex != nil {
		idx := *s.SelectedIndex
		s.SelectedIndex = &idx
	}
	return s
}

// Outcome is the effect of a click.
type Outcome int

// Click outcomes.
const (
	Ignored Outcome = iota
	DrilledDown
	Selected
)

func (o Outcome) String() string {
	switch o {
	case DrilledDown:
		return "drilled"
	case Selected:
		return "selected"
	default:
		return "ignored"
	}
}

// Engine builds and switches between a source's base and drill views.
type Engine struct {
	logger  *slog.Logger
	palette *color.Palette
	// drillViews caches drill views by the string form of their level-one
	// key.  Nil if caching is disabled.
	drillViews *simplelru.LRU

	src     *rows.Source
	base    *aggregate.View
	current *aggregate.View
	// currentRows holds the source rows of each category of current.  It is
	// built on first use and dropped whenever current changes.
	currentRows [][]int
	// baseStale is set when the source has been refreshed while drilled;
	// the base is rebuilt before it is next shown.
	baseStale bool
	state     State
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger    *slog.Logger
	palette   *color.Palette
	cacheSize int
}

// WithLogger sets the Engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithPalette sets the palette series colors are drawn from.
func WithPalette(palette *color.Palette) Option {
	return func(o *engineOptions) {
		o.palette = palette
	}
}

// WithCacheSize sets the number of drill views cached.  A size below 1
// disables caching.
func WithCacheSize(size int) Option {
	return func(o *engineOptions) {
		o.cacheSize = size
	}
}

// New returns a new Engine with no data.
func New(opts ...Option) *Engine {
	o := &engineOptions{
		logger:    slog.Default(),
		palette:   color.DefaultPalette,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	e := &Engine{
		logger:  o.logger.With(slog.String("module", "drill")),
		palette: o.palette,
		base:    &aggregate.View{},
		current: &aggregate.View{},
	}
	if o.cacheSize > 0 {
		// NewLRU only fails on a non-positive size.
		e.drillViews, _ = simplelru.NewLRU(o.cacheSize, nil)
	}
	return e
}

// drillView returns the drill view for levelOne, consulting the cache.
func (e *Engine) drillView(levelOne any) *aggregate.View {
	cacheKey := key.String(levelOne)
	if e.drillViews != nil {
		if v, ok := e.drillViews.Get(cacheKey); ok {
			return v.(*aggregate.View).Clone()
		}
	}
	v := aggregate.BuildDrill(e.src, levelOne, e.palette)
	if e.drillViews != nil && !v.Empty() {
		e.drillViews.Add(cacheKey, v.Clone())
	}
	return v
}

// setCurrent makes v the current view.
func (e *Engine) setCurrent(v *aggregate.View) {
	e.current = v
	e.currentRows = nil
}

// reselect moves the selection to the current view's category whose key
// equals the key selected in prev, clearing it if no such category remains.
func (e *Engine) reselect(prev *aggregate.View) {
	sel := e.state.SelectedIndex
	if sel == nil {
		return
	}
	e.state.SelectedIndex = nil
	if prev == nil || *sel < 0 || *sel >= len(prev.Categories) {
		return
	}
	if idx := e.current.CategoryIndex(prev.Categories[*sel]); idx >= 0 {
		e.state.SelectedIndex = &idx
	}
}

// toBase returns the engine to the base view.
func (e *Engine) toBase() {
	if e.baseStale {
		e.base = aggregate.BuildBase(e.src, e.palette)
		e.baseStale = false
	}
	e.setCurrent(e.base)
	e.state = State{}
}

// Update replaces the engine's source with src, returning the resulting
// current view.  In the base state, the base view is rebuilt.  When drilled,
// the drill view is rebuilt for the same level-one key; if that key no longer
// has a drillable view, the engine falls back to the base state.
func (e *Engine) Update(src *rows.Source) *aggregate.View {
	e.src = src
	if e.drillViews != nil {
		e.drillViews.Purge()
	}
	prev := e.current
	if !e.state.Drilled {
		e.base = aggregate.BuildBase(src, e.palette)
		e.baseStale = false
		e.setCurrent(e.base)
		e.reselect(prev)
		e.logger.Debug("refreshed base view",
			slog.Int("categories", len(e.base.Categories)),
			slog.Int("series", len(e.base.Series)))
		return e.View()
	}
	v := e.drillView(e.state.ActiveKey)
	if v.Empty() {
		e.logger.Debug("drill target vanished; returning to base",
			slog.String("category", e.state.ActiveLabel))
		e.baseStale = true
		e.toBase()
		return e.View()
	}
	e.setCurrent(v)
	e.baseStale = true
	e.reselect(prev)
	e.logger.Debug("refreshed drill view",
		slog.String("category", e.state.ActiveLabel),
		slog.Int("categories", len(v.Categories)))
	return e.View()
}

// DrillDown drills into the level-one category levelOne, returning false,
// without changing state, if that category cannot be drilled.  If
// resetSelection is false and the engine is already drilled into levelOne, a
// selected category still present in the rebuilt view stays selected.
func (e *Engine) DrillDown(levelOne any, resetSelection bool) bool {
	if e.src == nil || !aggregate.CanDrill(e.src, levelOne) {
		return false
	}
	v := e.drillView(levelOne)
	if v.Empty() {
		return false
	}
	prev := e.current
	// A selection only carries over between views of the same drill target.
	sameTarget := e.state.Drilled && key.Equal(e.state.ActiveKey, levelOne)
	if !e.state.Drilled {
		e.base = e.current.Clone()
	}
	e.setCurrent(v)
	e.state.Drilled = true
	e.state.ActiveKey = levelOne
	e.state.ActiveLabel = key.String(levelOne)
	if resetSelection || !sameTarget {
		e.state.SelectedIndex = nil
	}
	e.reselect(prev)
	e.logger.Debug("drilled down",
		slog.String("category", e.state.ActiveLabel),
		slog.Int("categories", len(v.Categories)))
	return true
}

// Click handles a click on the category k of the current view.  In the base
// state, a drillable category is drilled into; otherwise the clicked category
// is selected.
func (e *Engine) Click(k any) Outcome {
	if !e.state.Drilled && e.DrillDown(k, true) {
		return DrilledDown
	}
	if idx := e.current.CategoryIndex(k); idx >= 0 && e.Select(idx) {
		return Selected
	}
	return Ignored
}

// Restore returns a drilled engine to its base view, clearing the selection.
// It returns false if the engine was not drilled.
func (e *Engine) Restore() bool {
	if !e.state.Drilled {
		return false
	}
	label := e.state.ActiveLabel
	e.toBase()
	e.logger.Debug("restored base view", slog.String("from", label))
	return true
}

// Reset clears the selection if there is one, and otherwise restores the
// base view.
func (e *Engine) Reset() {
	if e.state.SelectedIndex != nil {
		e.ClearSelection()
		return
	}
	e.Restore()
}

// Select selects the category at idx in the current view, returning false if
// idx is out of range.
func (e *Engine) Select(idx int) bool {
	if idx < 0 || idx >= len(e.current.Categories) {
		return false
	}
	e.state.SelectedIndex = &idx
	e.logger.Debug("selected category", slog.Int("index", idx))
	return true
}

// ClearSelection clears the selection.
func (e *Engine) ClearSelection() {
	e.state.SelectedIndex = nil
}

// State returns a snapshot of the engine's drill state.
func (e *Engine) State() State {
	return e.state.clone()
}

// View returns a copy of the current view.
func (e *Engine) View() *aggregate.View {
	return e.current.Clone()
}

// Base returns a copy of the cached base view.  While drilled after a
// refresh, this may predate the refresh.
func (e *Engine) Base() *aggregate.View {
	return e.base.Clone()
}

// CategoryRows returns the source rows aggregated into category idx of the
// current view.
func (e *Engine) CategoryRows(idx int) []int {
	if e.src == nil || idx < 0 || idx >= len(e.current.Categories) {
		return []int{}
	}
	if e.currentRows == nil {
		if e.state.Drilled {
			e.currentRows = aggregate.RowsByCategory(e.src, e.current, e.state.ActiveKey)
		} else {
			e.currentRows = aggregate.RowsByCategory(e.src, e.current)
		}
	}
	return append([]int{}, e.currentRows[idx]...)
}

// SelectedRows returns the source rows of the selected category, or an empty
// slice if none is selected.
func (e *Engine) SelectedRows() []int {
	if e.state.SelectedIndex == nil {
		return []int{}
	}
	return e.CategoryRows(*e.state.SelectedIndex)
}
