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


// Binary server serves drillable bar charts of CSV and XLSX tables, or
// renders a single chart response to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	datasource "github.com/ilhamster/drillbar/barviz/data_source"
	"github.com/ilhamster/drillbar/barviz/service"
	"github.com/ilhamster/drillbar/barviz/settings"
	querydispatcher "github.com/ilhamster/drillbar/query_dispatcher"
	"github.com/ilhamster/drillbar/util"
)

var (
	settingsPath string
	verbose      bool

	port     int
	dataRoot string
	cacheCap int

	clicks []string
	pretty bool
)

func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "drillbar",
		Short:         "Drillable bar and donut charts of tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a YAML chart settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart data requests over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().IntVar(&port, "port", 7410, "Port to serve chart clients on")
	serveCmd.Flags().StringVar(&dataRoot, "data_root", ".", "The root path for charted tables")
	serveCmd.Flags().IntVar(&cacheCap, "cache", 10, "Number of tables, and their charts, to keep in memory")

	renderCmd := &cobra.Command{
		Use:   "render [table.csv|table.xlsx]",
		Short: "Render one chart response as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  render,
	}
	renderCmd.Flags().StringSliceVar(&clicks, "click", nil, "Category labels to click, in order")
	renderCmd.Flags().BoolVar(&pretty, "pretty", false, "Prettyprint the response instead of emitting JSON")

	rootCmd.AddCommand(serveCmd, renderCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(settingsPath)
	if err != nil {
		return err
	}
	log := logger()
	svc, err := service.New(dataRoot, s, cacheCap, log)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	mux := http.NewServeMux()
	svc.RegisterHandlers(mux)
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %w", err)
	}
	// Provide OSC 8 (https://en.wikipedia.org/wiki/ANSI_escape_code#OSC) link for
	// compatible terminals.
	fmt.Printf("Serving charts at \x1B]8;;http://%[1]s:%[2]d\x07http://%[1]s:%[2]d\x1B]8;;\x07\n", hostname, port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// fileFetcher serves a single, already-loaded collection.
type fileFetcher struct {
	name string
	coll *datasource.Collection
}

func (ff *fileFetcher) Fetch(ctx context.Context, collectionName string) (*datasource.Collection, error) {
	if collectionName != ff.name {
		return nil, fmt.Errorf("can't find collection '%s'", collectionName)
	}
	return ff.coll, nil
}

func render(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(settingsPath)
	if err != nil {
		return err
	}
	path := args[0]
	coll, err := service.LoadCollection(path, s)
	if err != nil {
		return err
	}
	ds, err := datasource.New(1, &fileFetcher{name: path, coll: coll},
		datasource.WithLogger(logger()),
		datasource.WithSettings(s),
	)
	if err != nil {
		return err
	}
	qd, err := querydispatcher.New(ds)
	if err != nil {
		return err
	}
	req := &util.DataRequest{
		GlobalFilters: map[string]*util.V{
			"collection_name": util.StringValue(path),
		},
	}
	for idx, click := range clicks {
		req.SeriesRequests = append(req.SeriesRequests, &util.DataSeriesRequest{
			QueryName:  "drillbar.click",
			SeriesName: fmt.Sprintf("click_%d", idx),
			Options: map[string]*util.V{
				"category": util.StringValue(click),
			},
		})
	}
	req.SeriesRequests = append(req.SeriesRequests, &util.DataSeriesRequest{
		QueryName:  "drillbar.view",
		SeriesName: "view",
	})
	data, err := qd.HandleDataRequest(cmd.Context(), req)
	if err != nil {
		return err
	}
	if pretty {
		fmt.Println(data.PrettyPrint())
		return nil
	}
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
