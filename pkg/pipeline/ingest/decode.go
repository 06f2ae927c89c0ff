/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const maxLineSize = 16 * 1024 * 1024

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// decoder turns a serialized table into typed rows. Column order follows the first
// appearance of each column; declared kinds win over inferred ones.
type decoder struct {
	format api.IngestFormat
	schema map[string]table.Kind
}

func (d decoder) decode(r io.Reader) (*table.Table, error) {
	var columns []string
	var rows []config.GenericMap
	var err error
	switch d.format {
	case api.FormatCSV:
		columns, rows, err = readCSV(r)
	case api.FormatJSONLines, "":
		columns, rows, err = readJSONLines(r)
	default:
		err = fmt.Errorf("unknown ingest format %q", d.format)
	}
	if err != nil {
		return nil, err
	}

	fields := make([]table.Field, len(columns))
	for i, c := range columns {
		kind, ok := d.schema[c]
		if !ok {
			kind = inferKind(rows, c)
		}
		fields[i] = table.Field{Name: c, Kind: kind}
	}
	for i, row := range rows {
		for _, f := range fields {
			v, err := table.Coerce(f.Kind, row[f.Name])
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %s", i+1, f.Name)
			}
			row[f.Name] = v
		}
	}
	return table.New(fields, rows)
}

func readJSONLines(r io.Reader) ([]string, []config.GenericMap, error) {
	var columns []string
	seen := map[string]struct{}{}
	var rows []config.GenericMap

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		row := config.GenericMap{}
		iter := jsonAPI.BorrowIterator([]byte(text))
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			row[field] = it.Read()
			if _, ok := seen[field]; !ok {
				seen[field] = struct{}{}
				columns = append(columns, field)
			}
			return true
		})
		err := iter.Error
		jsonAPI.ReturnIterator(iter)
		if err != nil && err != io.EOF {
			return nil, nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "reading json lines")
	}
	return columns, rows, nil
}

func readCSV(r io.Reader) ([]string, []config.GenericMap, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading csv header")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	var rows []config.GenericMap
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading csv")
		}
		row := make(config.GenericMap, len(header))
		for i, c := range header {
			if record[i] != "" {
				row[c] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// inferKind maps a column to float when every present value is a number, to bool when
// every one is a boolean, and to string otherwise.
func inferKind(rows []config.GenericMap, column string) table.Kind {
	numbers, bools, present := 0, 0, 0
	for _, row := range rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		present++
		switch x := v.(type) {
		case float64:
			numbers++
		case bool:
			bools++
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				numbers++
			}
		}
	}
	switch {
	case present > 0 && numbers == present:
		return table.KindFloat
	case present > 0 && bools == present:
		return table.KindBool
	}
	return table.KindString
}
