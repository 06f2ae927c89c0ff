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

package transform

import (
	"fmt"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
)

const (
	YearCol  = "YEAR"
	MonthCol = "MONTH"
)

// DateParts appends the YEAR and MONTH of a time or period column as int columns.
type DateParts struct {
	column string
}

func NewTransformDateParts(column string) *DateParts {
	return &DateParts{column: column}
}

func (d *DateParts) Transform(in *table.Table) (*table.Table, error) {
	values, err := in.Column(d.column)
	if err != nil {
		return nil, err
	}
	years := make([]interface{}, len(values))
	months := make([]interface{}, len(values))
	for i, v := range values {
		var p table.Period
		switch x := v.(type) {
		case nil:
			continue
		case time.Time:
			p = table.PeriodOf(x)
		case table.Period:
			p = x
		default:
			return nil, fmt.Errorf("column %q holds %T, expected a date", d.column, v)
		}
		years[i] = int64(p.Year)
		months[i] = int64(p.Month)
	}
	out, err := in.WithColumn(table.Field{Name: YearCol, Kind: table.KindInt}, years)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(table.Field{Name: MonthCol, Kind: table.KindInt}, months)
}
