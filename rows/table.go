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

package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader indicates a table without a header row.
var ErrNoHeader = errors.New("table has no header row")

// FieldError reports a field mapping that could not be resolved against a
// table header.
type FieldError struct {
	Role  string // "level_one", "level_two", "legend", or "measure"
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s field %q: %v", e.Role, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var errNoSuchColumn = errors.New("no such column")

// Table is a header row and the records beneath it, as read from a CSV file
// or a spreadsheet.  Records may be ragged; missing cells read as blank.
type Table struct {
	Header  []string
	Records [][]string
}

// Fields maps table columns onto chart roles.  LevelTwo and Legend are
// optional.  If Measures is empty, every column not otherwise mapped is a
// measure.
type Fields struct {
	LevelOne string   `yaml:"level_one"`
	LevelTwo string   `yaml:"level_two"`
	Legend   string   `yaml:"legend"`
	Measures []string `yaml:"measures"`
}

func (t Table) columnIndex(name string) int {
	for idx, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return idx
		}
	}
	return -1
}

func (t Table) cell(row, col int) string {
	rec := t.Records[row]
	if col < len(rec) {
		return rec[col]
	}
	return ""
}

// FromTable builds a Source from the provided Table using the provided field
// mapping.  Measure cells are kept as strings and coerced at aggregation
// time; blank measure cells become nil.
func FromTable(t Table, f Fields) (*Source, error) {
	if len(t.Header) == 0 {
		return nil, ErrNoHeader
	}
	resolve := func(role, field string) (int, error) {
		idx := t.columnIndex(field)
		if idx < 0 {
			return -1, &FieldError{Role: role, Field: field, Err: errNoSuchColumn}
		}
		return idx, nil
	}
	levelOneIdx, err := resolve("level_one", f.LevelOne)
	if err != nil {
		return nil, err
	}
	levelTwoIdx, legendIdx := -1, -1
	if f.LevelTwo != "" {
		if levelTwoIdx, err = resolve("level_two", f.LevelTwo); err != nil {
			return nil, err
		}
	}
	if f.Legend != "" {
		if legendIdx, err = resolve("legend", f.Legend); err != nil {
			return nil, err
		}
	}
	measureIdxs := []int{}
	if len(f.Measures) == 0 {
		for idx := range t.Header {
			if idx != levelOneIdx && idx != levelTwoIdx && idx != legendIdx {
				measureIdxs = append(measureIdxs, idx)
			}
		}
	} else {
		for _, m := range f.Measures {
			idx, err := resolve("measure", m)
			if err != nil {
				return nil, err
			}
			measureIdxs = append(measureIdxs, idx)
		}
	}
	n := len(t.Records)
	src := &Source{
		LevelOne: make([]any, n),
	}
	if levelTwoIdx >= 0 {
		src.LevelTwo = make([]any, n)
	}
	for row := 0; row < n; row++ {
		src.LevelOne[row] = t.cell(row, levelOneIdx)
		if levelTwoIdx >= 0 {
			src.LevelTwo[row] = t.cell(row, levelTwoIdx)
		}
	}
	measureCell := func(row, col int) any {
		v := t.cell(row, col)
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return v
	}
	if legendIdx < 0 {
		for _, col := range measureIdxs {
			m := Measure{
				Name:   t.Header[col],
				Values: make([]any, n),
			}
			for row := 0; row < n; row++ {
				m.Values[row] = measureCell(row, col)
			}
			src.Measures = append(src.Measures, m)
		}
		return src, nil
	}
	// One Grouping per distinct legend value, in first-seen order.  A row
	// contributes to its own group's measures and is absent from the others.
	groupIdxs := map[string]int{}
	for row := 0; row < n; row++ {
		name := t.cell(row, legendIdx)
		gIdx, ok := groupIdxs[name]
		if !ok {
			gIdx = len(src.Groupings)
			groupIdxs[name] = gIdx
			g := Grouping{Name: name}
			for _, col := range measureIdxs {
				g.Measures = append(g.Measures, Measure{
					Name:   t.Header[col],
					Values: make([]any, n),
				})
			}
			src.Groupings = append(src.Groupings, g)
		}
		for mIdx, col := range measureIdxs {
			src.Groupings[gIdx].Measures[mIdx].Values[row] = measureCell(row, col)
		}
	}
	return src, nil
}

// ReadCSV reads a Table from CSV input.  The first record is the header.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return tableOf(recs)
}

// ReadXLSX reads a Table from an XLSX workbook.  If sheet is empty, the
// first sheet is read.  The first non-empty row is the header.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, ErrNoHeader
		}
		sheet = sheets[0]
	}
	recs, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return tableOf(recs)
}

func tableOf(recs [][]string) (Table, error) {
	for len(recs) > 0 && len(recs[0]) == 0 {
		recs = recs[1:]
	}
	if len(recs) == 0 {
		return Table{}, ErrNoHeader
	}
	return Table{
		Header:  recs[0],
		Records: recs[1:],
	}, nil
}
