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

// Package handlers serves chart data requests over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	querydispatcher "github.com/ilhamster/drillbar/query_dispatcher"
	"github.com/ilhamster/drillbar/util"
)

// HandlerFunc is a HTTP handler function.
type HandlerFunc func(http.ResponseWriter, *http.Request)

// WrapFunc is a function that rewrites a HandlerFunc.
type WrapFunc func(HandlerFunc) HandlerFunc

// Handler describes a chart HTTP handler.
type Handler interface {
	HandlersByPath() map[string]func(http.ResponseWriter, *http.Request)
}

// QueryHandler is a Handler for data queries.  It supports a Wrap method that
// wraps all handlers, e.g. adding cookies.
type QueryHandler interface {
	Handler
	Wrap(...WrapFunc) Handler
}

const (
	dataMethod = "/GetData"
	// maxRequestBytes bounds the size of a request body.
	maxRequestBytes = 1 << 20
)

type contextKey string

var httpReqKey contextKey = "drillbar_http_req"

// RequestOf returns the http Request attached to the provided Context, or nil
// if no Request is attached.
func RequestOf(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpReqKey).(*http.Request)
	return req
}

// queryHandler is an http.Handler serving chart data queries.
type queryHandler struct {
	qd       *querydispatcher.QueryDispatcher
	logger   *slog.Logger
	wrappers []WrapFunc
}

// NewQueryHandler returns a new Handler serving data requests using the
// provided QueryDispatcher.  If logger is nil, slog.Default() is used.
func NewQueryHandler(qd *querydispatcher.QueryDispatcher, logger *slog.Logger) QueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryHandler{
		qd:     qd,
		logger: logger.With(slog.String("module", "handlers")),
	}
}

func (qh *queryHandler) Wrap(wrappers ...WrapFunc) Handler {
	qh.wrappers = append(qh.wrappers, wrappers...)
	return qh
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler for
// this Handler.
func (qh *queryHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	var dh HandlerFunc = qh.getDataHandler
	for _, wrapper := range qh.wrappers {
		dh = wrapper(dh)
	}
	return map[string]func(http.ResponseWriter, *http.Request){
		dataMethod: dh,
	}
}

// requestJSON returns the serialized DataRequest carried by req: the 'req'
// form value if present, and otherwise a JSON request body.
func requestJSON(w http.ResponseWriter, req *http.Request) ([]byte, error) {
	if err := req.ParseForm(); err != nil {
		return nil, err
	}
	if form := req.Form.Get("req"); form != "" {
		return []byte(form), nil
	}
	if req.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, req.Body, maxRequestBytes))
}

func (qh *queryHandler) getDataHandler(w http.ResponseWriter, req *http.Request) {
	reqJSON, err := requestJSON(w, req)
	if err != nil {
		http.Error(w, "Failed to read DataRequest: "+err.Error(), http.StatusBadRequest)
		return
	}
	dataReq, err := util.DataRequestFromJSON(reqJSON)
	if err != nil {
		http.Error(w, "Failed to parse DataRequest: "+err.Error(), http.StatusBadRequest)
		return
	}
	ctx := context.WithValue(req.Context(), httpReqKey, req)
	resp, err := qh.qd.HandleDataRequest(ctx, dataReq)
	if err != nil {
		qh.logger.Warn("data request failed", slog.Any("error", err))
		http.Error(w, "DataRequest failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(respJSON); err != nil {
		qh.logger.Warn("failed to write response", slog.Any("error", err))
	}
}
