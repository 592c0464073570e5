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


// Package service serves drillable bar charts of the CSV and XLSX tables
// under a data root.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	datasource "github.com/ilhamster/drillbar/barviz/data_source"
	"github.com/ilhamster/drillbar/barviz/settings"
	"github.com/ilhamster/drillbar/handlers"
	querydispatcher "github.com/ilhamster/drillbar/query_dispatcher"
	"github.com/ilhamster/drillbar/rows"
)

// ErrUnsupportedFormat is returned for collections that are neither CSV nor
// XLSX files.
var ErrUnsupportedFormat = errors.New("unsupported collection format")

// LoadCollection reads the table at path, a .csv or .xlsx file, and maps it
// onto a Collection using the provided settings' fields.
func LoadCollection(path string, s *settings.Settings) (*datasource.Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var table rows.Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		table, err = rows.ReadCSV(file)
	case ".xlsx":
		table, err = rows.ReadXLSX(file, s.Sheet)
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	src, err := rows.FromTable(table, s.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to map '%s': %w", path, err)
	}
	return datasource.NewCollection(src), nil
}

type cachedCollection struct {
	modTime time.Time
	coll    *datasource.Collection
}

type collectionFetcher struct {
	collectionRoot string
	settings       *settings.Settings
	logger         *slog.Logger

	mu  sync.Mutex
	lru *simplelru.LRU
}

func newCollectionFetcher(collectionRoot string, s *settings.Settings, cap int, logger *slog.Logger) (*collectionFetcher, error) {
	lru, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, err
	}
	return &collectionFetcher{
		collectionRoot: collectionRoot,
		settings:       s,
		logger:         logger,
		lru:            lru,
	}, nil
}

// path returns the file path of the named collection.  Collection names
// cannot escape the collection root.
func (cf *collectionFetcher) path(collectionName string) string {
	return filepath.Join(cf.collectionRoot, filepath.Clean("/"+collectionName))
}

// Fetch returns the named collection, rereading it if its file has been
// modified since it was last read.
func (cf *collectionFetcher) Fetch(ctx context.Context, collectionName string) (*datasource.Collection, error) {
	path := cf.path(collectionName)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if collIf, ok := cf.lru.Get(collectionName); ok {
		cached, ok := collIf.(*cachedCollection)
		if !ok {
			return nil, fmt.Errorf("fetched collection wasn't a Collection")
		}
		if cached.modTime.Equal(info.ModTime()) {
			return cached.coll, nil
		}
		cf.logger.Info("collection modified; reloading", slog.String("collection", collectionName))
	}
	coll, err := LoadCollection(path, cf.settings)
	if err != nil {
		return nil, err
	}
	cf.lru.Add(collectionName, &cachedCollection{
		modTime: info.ModTime(),
		coll:    coll,
	})
	return coll, nil
}

// Service serves chart data requests over HTTP.
type Service struct {
	queryHandler handlers.QueryHandler
}

// New returns a new Service serving the collections under collectionRoot,
// caching up to cap collections and their chart sessions.
func New(collectionRoot string, s *settings.Settings, cap int, logger *slog.Logger) (*Service, error) {
	cf, err := newCollectionFetcher(collectionRoot, s, cap, logger.With(slog.String("module", "service")))
	if err != nil {
		return nil, err
	}
	ds, err := datasource.New(cap, cf,
		datasource.WithLogger(logger),
		datasource.WithSettings(s),
	)
	if err != nil {
		return nil, err
	}
	qd, err := querydispatcher.New(ds)
	if err != nil {
		return nil, err
	}
	return &Service{
		queryHandler: handlers.NewQueryHandler(qd, logger),
	}, nil
}

// RegisterHandlers registers the Service's handlers on mux.
func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	for path, handler := range s.queryHandler.HandlersByPath() {
		mux.HandleFunc(path, handler)
	}
}
