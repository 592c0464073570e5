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

// Package querydispatcher provides QueryDispatcher, which multiplexes chart
// data sources behind a single data request entry point.
package querydispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ilhamster/drillbar/util"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateQuery is returned when two data sources claim one query.
	ErrDuplicateQuery = errors.New("query handled by multiple data sources")
	// ErrUnsupportedQuery is returned for a query no data source handles.
	ErrUnsupportedQuery = errors.New("unsupported data query")
)

// DataSource represents a single chart data source.  DataSource instances
// must support concurrent HandleDataSeriesRequests calls.
type DataSource interface {
	// SupportedDataSeriesQueries returns the DataSeriesRequest.QueryNames this
	// DataSource handles.  Query names should be unique to their DataSource,
	// e.g. by sharing a DataSource-specific prefix.
	SupportedDataSeriesQueries() []string
	// HandleDataSeriesRequests handles a set of DataSeriesRequests, in order,
	// with the supplied global filters, adding one new DataSeries to drb per
	// request.  Any returned error fails the entire DataRequest.
	HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error
}

// QueryDispatcher routes each DataSeriesRequest in a DataRequest to the
// DataSource handling its query.
type QueryDispatcher struct {
	dataSources []DataSource
	// Maps data series query names to indices (in dataSources) of the
	// dataSources that handle those queries.
	dataSeriesQueryHandlers map[string]int
}

// New returns a *QueryDispatcher wrapping the provided DataSources.
func New(dss ...DataSource) (*QueryDispatcher, error) {
	qd := &QueryDispatcher{
		dataSeriesQueryHandlers: map[string]int{},
	}
	for dsIdx, ds := range dss {
		qd.dataSources = append(qd.dataSources, ds)
		for _, queryName := range ds.SupportedDataSeriesQueries() {
			if _, ok := qd.dataSeriesQueryHandlers[queryName]; ok {
				return nil, fmt.Errorf("%w: `%s`", ErrDuplicateQuery, queryName)
			}
			qd.dataSeriesQueryHandlers[queryName] = dsIdx
		}
	}
	return qd, nil
}

// Queries returns the query names the receiver supports, sorted.
func (qd *QueryDispatcher) Queries() []string {
	ret := make([]string, 0, len(qd.dataSeriesQueryHandlers))
	for queryName := range qd.dataSeriesQueryHandlers {
		ret = append(ret, queryName)
	}
	sort.Strings(ret)
	return ret
}

// HandleDataRequest distributes the provided DataRequest's DataSeriesRequests
// to their DataSources, which run concurrently with one another, and
// assembles their DataSeries into one response.  Each DataSource receives
// its requests in request order, and the response's DataSeries follow
// request order.
func (qd *QueryDispatcher) HandleDataRequest(ctx context.Context, req *util.DataRequest) (*util.Data, error) {
	drb := util.NewDataResponseBuilder()
	// A mapping from DataSource index to the requests that source handles.
	groupedReqs := map[int][]*util.DataSeriesRequest{}
	seriesOrder := map[string]int{}
	for reqIdx, seriesReq := range req.SeriesRequests {
		dsIdx, ok := qd.dataSeriesQueryHandlers[seriesReq.QueryName]
		if !ok {
			return nil, fmt.Errorf("%w `%s`", ErrUnsupportedQuery, seriesReq.QueryName)
		}
		groupedReqs[dsIdx] = append(groupedReqs[dsIdx], seriesReq)
		if _, ok := seriesOrder[seriesReq.SeriesName]; !ok {
			seriesOrder[seriesReq.SeriesName] = reqIdx
		}
	}
	errg, ctx := errgroup.WithContext(ctx)
	for dsIdx, seriesReqs := range groupedReqs {
		ds := qd.dataSources[dsIdx]
		errg.Go(func() error {
			return ds.HandleDataSeriesRequests(ctx, req.GlobalFilters, drb, seriesReqs)
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	data, err := drb.Data()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(data.DataSeries, func(a, b int) bool {
		return seriesOrder[data.DataSeries[a].SeriesName] < seriesOrder[data.DataSeries[b].SeriesName]
	})
	return data, nil
}
