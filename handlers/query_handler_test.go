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

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	querydispatcher "github.com/ilhamster/drillbar/query_dispatcher"
	"github.com/ilhamster/drillbar/util"
)

type echoDataSource struct{}

func (echoDataSource) SupportedDataSeriesQueries() []string {
	return []string{"echo"}
}

func (echoDataSource) HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error {
	if RequestOf(ctx) == nil {
		return nil
	}
	for _, req := range reqs {
		drb.DataSeries(req).With(util.StringProperty("path", RequestOf(ctx).URL.Path))
	}
	return nil
}

const reqJSON = `{"SeriesRequests":[{"QueryName":"echo","SeriesName":"1"}]}`

func newHandler(t *testing.T) func(http.ResponseWriter, *http.Request) {
	t.Helper()
	qd, err := querydispatcher.New(echoDataSource{})
	if err != nil {
		t.Fatalf("querydispatcher.New() yielded unexpected error %s", err)
	}
	wrapped := false
	h := NewQueryHandler(qd, nil).Wrap(func(hf HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			wrapped = true
			hf(w, req)
		}
	}).HandlersByPath()[dataMethod]
	return func(w http.ResponseWriter, req *http.Request) {
		h(w, req)
		if !wrapped {
			t.Errorf("wrapper was not invoked")
		}
	}
}

func TestGetData(t *testing.T) {
	for _, test := range []struct {
		description string
		req         *http.Request
		wantStatus  int
		wantSeries  []string
	}{{
		description: "form request",
		req:         httptest.NewRequest(http.MethodGet, dataMethod+"?req="+url.QueryEscape(reqJSON), nil),
		wantStatus:  http.StatusOK,
		wantSeries:  []string{"1"},
	}, {
		description: "body request",
		req:         httptest.NewRequest(http.MethodPost, dataMethod, strings.NewReader(reqJSON)),
		wantStatus:  http.StatusOK,
		wantSeries:  []string{"1"},
	}, {
		description: "malformed request",
		req:         httptest.NewRequest(http.MethodPost, dataMethod, strings.NewReader("{")),
		wantStatus:  http.StatusBadRequest,
	}, {
		description: "unsupported query",
		req: httptest.NewRequest(http.MethodPost, dataMethod,
			strings.NewReader(`{"SeriesRequests":[{"QueryName":"nope","SeriesName":"1"}]}`)),
		wantStatus: http.StatusInternalServerError,
	}} {
		t.Run(test.description, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHandler(t)(rec, test.req)
			if rec.Code != test.wantStatus {
				t.Fatalf("got status %d, want %d: %s", rec.Code, test.wantStatus, rec.Body.String())
			}
			if test.wantStatus != http.StatusOK {
				return
			}
			data := &util.Data{}
			if err := json.Unmarshal(rec.Body.Bytes(), data); err != nil {
				t.Fatalf("failed to decode response: %s", err)
			}
			gotSeries := []string{}
			for _, series := range data.DataSeries {
				gotSeries = append(gotSeries, series.SeriesName)
			}
			if diff := cmp.Diff(test.wantSeries, gotSeries); diff != "" {
				t.Errorf("Got series %v, diff (-want +got):\n%s", gotSeries, diff)
			}
		})
	}
}
