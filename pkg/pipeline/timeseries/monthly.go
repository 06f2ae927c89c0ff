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

package timeseries

import (
	"math"
	"sort"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/anomaly"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/transform"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/shopspring/decimal"
)

const DifferenceCol = "DIFERENCIA_TRX"

// MonthlyTotals sums the sent and received amounts per account type and month of the rows
// selected by the filter, adds their difference and drops the months where any of the three is 0.
// The three amount columns are then min-max normalized.
func MonthlyTotals(t *table.Table, cfg api.TimeSeries) (*table.Table, error) {
	cfg.SetDefaults()
	filter, err := transform.NewTransformFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{cfg.AccountTypeCol, cfg.SentCol, cfg.ReceivedCol} {
		if !t.Has(name) {
			return nil, &table.ColumnNotFoundError{Column: name}
		}
	}
	selected, err := transform.Chain{transform.NewTransformDateParts(cfg.DateCol), filter}.Transform(t)
	if err != nil {
		return nil, err
	}
	log.Infof("%d of %d rows selected by %q", selected.Len(), t.Len(), cfg.Filter)

	sent, err := selected.Floats(cfg.SentCol)
	if err != nil {
		return nil, err
	}
	received, err := selected.Floats(cfg.ReceivedCol)
	if err != nil {
		return nil, err
	}
	groups, err := selected.GroupBy(cfg.AccountTypeCol, transform.YearCol, transform.MonthCol)
	if err != nil {
		return nil, err
	}

	fields := []table.Field{
		{Name: cfg.AccountTypeCol, Kind: table.KindCategory},
		{Name: transform.YearCol, Kind: table.KindInt},
		{Name: transform.MonthCol, Kind: table.KindInt},
		{Name: cfg.SentCol, Kind: table.KindFloat},
		{Name: cfg.ReceivedCol, Kind: table.KindFloat},
		{Name: DifferenceCol, Kind: table.KindFloat},
	}
	var rows []config.GenericMap
	for _, g := range groups {
		sentSum, receivedSum := sum(sent, g.Rows), sum(received, g.Rows)
		diff := sentSum.Sub(receivedSum)
		if sentSum.IsZero() || receivedSum.IsZero() || diff.IsZero() {
			continue
		}
		rows = append(rows, config.GenericMap{
			cfg.AccountTypeCol: g.Key[0],
			transform.YearCol:  g.Key[1],
			transform.MonthCol: g.Key[2],
			cfg.SentCol:        sentSum.InexactFloat64(),
			cfg.ReceivedCol:    receivedSum.InexactFloat64(),
			DifferenceCol:      diff.InexactFloat64(),
		})
	}
	grouped, err := table.New(fields, rows)
	if err != nil {
		return nil, err
	}
	log.Infof("%d account type months kept out of %d", grouped.Len(), len(groups))

	amounts, err := grouped.Select(cfg.SentCol, cfg.ReceivedCol, DifferenceCol)
	if err != nil {
		return nil, err
	}
	scaled := anomaly.NormalizeRange(amounts)
	out := grouped
	for _, name := range scaled.Names() {
		values, err := scaled.Floats(name)
		if err != nil {
			return nil, err
		}
		if out, err = out.WithFloatColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sum(values []float64, rows []int) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if !math.IsNaN(values[r]) {
			total = total.Add(decimal.NewFromFloat(values[r]))
		}
	}
	return total
}

// Series is a regular monthly series of one account type.
type Series struct {
	AccountType string
	Start       table.Period
	Values      []float64
}

func (s Series) Period(i int) table.Period {
	return s.Start.AddMonths(i)
}

func (s Series) End() table.Period {
	return s.Start.AddMonths(len(s.Values) - 1)
}

// MonthlySeries builds, per account type, the difference series from its first to its last month.
// Months without data are linearly interpolated.
func MonthlySeries(monthly *table.Table, accountTypeCol string) ([]Series, error) {
	groups, err := monthly.GroupBy(accountTypeCol)
	if err != nil {
		return nil, err
	}
	diffs, err := monthly.Floats(DifferenceCol)
	if err != nil {
		return nil, err
	}
	years, err := monthly.Floats(transform.YearCol)
	if err != nil {
		return nil, err
	}
	months, err := monthly.Floats(transform.MonthCol)
	if err != nil {
		return nil, err
	}

	var out []Series
	for _, g := range groups {
		if table.IsMissing(g.Key[0]) {
			continue
		}
		points := make([]struct {
			p table.Period
			v float64
		}, 0, len(g.Rows))
		for _, r := range g.Rows {
			points = append(points, struct {
				p table.Period
				v float64
			}{table.Period{Year: int(years[r]), Month: time.Month(int(months[r]))}, diffs[r]})
		}
		sort.SliceStable(points, func(a, b int) bool { return points[a].p.Compare(points[b].p) < 0 })
		start := points[0].p
		values := make([]float64, start.MonthsUntil(points[len(points)-1].p)+1)
		for i := range values {
			values[i] = math.NaN()
		}
		for _, pt := range points {
			values[start.MonthsUntil(pt.p)] = pt.v
		}
		out = append(out, Series{
			AccountType: table.FormatValue(g.Key[0]),
			Start:       start,
			Values:      interpolate(values),
		})
	}
	return out, nil
}

// interpolate fills NaN values lying between two known values linearly.
func interpolate(values []float64) []float64 {
	out := append([]float64(nil), values...)
	last := -1
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if last >= 0 && i-last > 1 {
			step := (v - out[last]) / float64(i-last)
			for j := last + 1; j < i; j++ {
				out[j] = out[last] + step*float64(j-last)
			}
		}
		last = i
	}
	return out
}
