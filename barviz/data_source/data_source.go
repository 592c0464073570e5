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

// Package datasource provides a chart data source for drillable bar charts.
// Each collection, a table of rows, gets its own chart session holding the
// drill state of that collection's chart.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	axisscale "github.com/ilhamster/drillbar/axis_scale"
	barchart "github.com/ilhamster/drillbar/bar_chart"
	"github.com/ilhamster/drillbar/barviz/settings"
	"github.com/ilhamster/drillbar/drill"
	legendlayout "github.com/ilhamster/drillbar/legend_layout"
	"github.com/ilhamster/drillbar/rows"
	"github.com/ilhamster/drillbar/util"
)

const (
	viewQuery      = "drillbar.view"
	clickQuery     = "drillbar.click"
	restoreQuery   = "drillbar.restore"
	resetQuery     = "drillbar.reset"
	selectionQuery = "drillbar.selection"

	collectionNameKey = "collection_name"
	categoryKey       = "category"
	clickOutcomeKey   = "click_outcome"
	selectedRowsKey   = "selected_rows"
)

// ErrUnknownQuery is returned for a query the DataSource does not support.
var ErrUnknownQuery = errors.New("unknown query")

// Collection is a single fetched table of rows.
type Collection struct {
	Source *rows.Source
}

// NewCollection returns a Collection of the provided rows.
func NewCollection(src *rows.Source) *Collection {
	return &Collection{
		Source: src,
	}
}

// CollectionFetcher describes types capable of fetching collections by name.
// A fetcher returns the same *Collection for as long as the underlying data
// is unchanged.
type CollectionFetcher interface {
	Fetch(ctx context.Context, collectionName string) (*Collection, error)
}

// session is the chart state of one collection.
type session struct {
	mu     sync.Mutex
	engine *drill.Engine
	coll   *Collection
}

// DataSource implements querydispatcher.DataSource for drillable bar charts.
// It keeps the sessions of the most recently used collections.
type DataSource struct {
	fetcher  CollectionFetcher
	settings *settings.Settings
	logger   *slog.Logger

	mu sync.Mutex
	// An LRU cache holding the most recently-accessed sessions.
	lru *simplelru.LRU
}

// Option configures a DataSource.
type Option func(*DataSource)

// WithLogger sets the DataSource's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ds *DataSource) {
		ds.logger = logger
	}
}

// WithSettings sets the chart settings every session uses.
func WithSettings(s *settings.Settings) Option {
	return func(ds *DataSource) {
		ds.settings = s
	}
}

// New returns a new DataSource keeping up to cap sessions, and fetching
// collections with the provided fetcher.
func New(cap int, fetcher CollectionFetcher, opts ...Option) (*DataSource, error) {
	lru, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	ds := &DataSource{
		fetcher:  fetcher,
		settings: settings.Default(),
		logger:   slog.Default(),
		lru:      lru,
	}
	for _, opt := range opts {
		opt(ds)
	}
	ds.logger = ds.logger.With(slog.String("module", "datasource"))
	return ds, nil
}

// SupportedDataSeriesQueries returns the DataSeriesRequest query names
// supported by DataSource.
func (ds *DataSource) SupportedDataSeriesQueries() []string {
	return []string{
		viewQuery,
		clickQuery,
		restoreQuery,
		resetQuery,
		selectionQuery,
	}
}

// session returns the session for the named collection, creating it if
// necessary.  If the fetched collection has changed since the session last
// saw it, the session's engine is refreshed with the new rows.  The returned
// session is locked.
func (ds *DataSource) session(ctx context.Context, collectionName string) (*session, error) {
	coll, err := ds.fetcher.Fetch(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	ds.mu.Lock()
	var sess *session
	if sessIf, ok := ds.lru.Get(collectionName); ok {
		sess = sessIf.(*session)
	} else {
		sess = &session{
			engine: drill.New(
				drill.WithLogger(ds.logger.With(slog.String("collection", collectionName))),
				drill.WithPalette(ds.settings.ColorPalette()),
				drill.WithCacheSize(ds.settings.CacheSize),
			),
		}
		ds.lru.Add(collectionName, sess)
	}
	ds.mu.Unlock()
	sess.mu.Lock()
	if sess.coll != coll {
		sess.coll = coll
		sess.engine.Update(coll.Source)
	}
	return sess, nil
}

// render populates db with the session's current chart.
func (ds *DataSource) render(sess *session, db util.DataBuilder) {
	v := sess.engine.View()
	state := sess.engine.State()
	barchart.Render(db, barchart.Input{
		View:         v,
		State:        state,
		Axis:         axisscale.Compute(ds.settings.AxisConfig(), v.Floats()...),
		Legend:       legendlayout.Compute(ds.settings.LegendConfig(), state.Drilled),
		Render:       ds.settings.RenderSettings(),
		CategoryRows: sess.engine.CategoryRows,
	})
}

func int64s(ints []int) []int64 {
	ret := make([]int64, len(ints))
	for idx, i := range ints {
		ret[idx] = int64(i)
	}
	return ret
}

func handleClickQuery(ds *DataSource, sess *session, db util.DataBuilder, opts map[string]*util.V) error {
	catVal, ok := opts[categoryKey]
	if !ok {
		return fmt.Errorf("missing required option '%s'", categoryKey)
	}
	cat, err := util.ExpectStringValue(catVal)
	if err != nil {
		return fmt.Errorf("option '%s' must be a string: %w", categoryKey, err)
	}
	outcome := sess.engine.Click(cat)
	ds.render(sess, db)
	db.With(util.StringProperty(clickOutcomeKey, outcome.String()))
	return nil
}

// HandleDataSeriesRequests handles the provided set of DataSeriesRequests, in
// order, with the provided global filters.  It assembles its responses in the
// provided DataResponseBuilder.
func (ds *DataSource) HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error {
	start := time.Now()
	queryNames := make([]string, 0, len(reqs))
	for _, req := range reqs {
		queryNames = append(queryNames, req.QueryName)
	}
	defer func() {
		ds.logger.Info("handled queries",
			slog.Any("queries", queryNames),
			slog.Duration("duration", time.Since(start)))
	}()
	collectionNameVal, ok := globalFilters[collectionNameKey]
	if !ok {
		return fmt.Errorf("missing required filter option '%s'", collectionNameKey)
	}
	collectionName, err := util.ExpectStringValue(collectionNameVal)
	if err != nil {
		return fmt.Errorf("required filter option '%s' must be a string", collectionNameKey)
	}
	sess, err := ds.session(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("failed to fetch collection '%s': %w", collectionName, err)
	}
	defer sess.mu.Unlock()
	for _, req := range reqs {
		var err error
		switch req.QueryName {
		case viewQuery:
			ds.render(sess, drb.DataSeries(req))
		case clickQuery:
			err = handleClickQuery(ds, sess, drb.DataSeries(req), req.Options)
		case restoreQuery:
			sess.engine.Restore()
			ds.render(sess, drb.DataSeries(req))
		case resetQuery:
			sess.engine.Reset()
			ds.render(sess, drb.DataSeries(req))
		case selectionQuery:
			drb.DataSeries(req).With(
				util.IntegersProperty(selectedRowsKey, int64s(sess.engine.SelectedRows())...),
			)
		default:
			err = ErrUnknownQuery
		}
		if err != nil {
			return fmt.Errorf("error handling data query %s: %w", req.QueryName, err)
		}
	}
	return nil
}
