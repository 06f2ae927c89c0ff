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

// Package feature derives model features from the transaction and customer tables.
package feature

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DaysBetweenCol     = "DIAS_ENTRE_TRX"
	AmountVariationCol = "VARIACION_MONTO_MES_ANIO"
	CountryPairCol     = "PAIS_ORIGEN_DESTINO_TRX"
	PeriodCol          = "MES_ANIO"
	MonthlyTotalCol    = "ACUM_MONTO_MES_ANIO"
)

var tlog = logrus.WithField("component", "feature.Transactions")

// Transactions adds per account sequence features to a transaction table.
type Transactions struct {
	config api.FeatureTransactions
}

func NewTransactions(cfg api.FeatureTransactions) *Transactions {
	cfg.SetDefaults()
	return &Transactions{config: cfg}
}

// Derive returns the transactions sorted by account and date with the feature columns appended:
// days since the previous transaction of the account, relative amount change against it,
// origin_destination country pair, year-month period and running amount of the account in the month.
func (f *Transactions) Derive(t *table.Table) (*table.Table, error) {
	tlog.Info("starting transaction feature derivation")
	c := f.config
	for _, name := range []string{c.AccountCol, c.DateCol, c.AmountCol, c.OriginCountryCol, c.DestinationCountryCol} {
		if !t.Has(name) {
			return nil, &table.ColumnNotFoundError{Column: name}
		}
	}
	if field, _ := t.Field(c.DateCol); field.Kind != table.KindTime {
		return nil, fmt.Errorf("date column %q must be of kind %s, got %s", c.DateCol, table.KindTime, field.Kind)
	}
	amounts, err := t.Floats(c.AmountCol)
	if err != nil {
		return nil, err
	}

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := order[a], order[b]
		if cmp := table.Compare(t.Value(ra, c.AccountCol), t.Value(rb, c.AccountCol)); cmp != 0 {
			return cmp < 0
		}
		return table.Compare(t.Value(ra, c.DateCol), t.Value(rb, c.DateCol)) < 0
	})
	sorted := t.Take(order)

	n := sorted.Len()
	days := make([]int64, n)
	variation := make([]float64, n)
	pairs := make([]interface{}, n)
	periods := make([]interface{}, n)
	totals := make([]float64, n)

	type monthKey struct {
		account string
		period  table.Period
	}
	running := map[monthKey]decimal.Decimal{}
	for i, pos := range order {
		account := sorted.Value(i, c.AccountCol)
		date, hasDate := sorted.Value(i, c.DateCol).(time.Time)
		amount := amounts[pos]
		sameAccount := i > 0 && table.Compare(sorted.Value(i-1, c.AccountCol), account) == 0

		if sameAccount && hasDate {
			if prev, ok := sorted.Value(i-1, c.DateCol).(time.Time); ok {
				days[i] = int64(math.Floor(date.Sub(prev).Hours() / 24))
			}
		}
		if sameAccount {
			variation[i] = pctChange(amounts[order[i-1]], amount)
		}

		origin, destination := sorted.Value(i, c.OriginCountryCol), sorted.Value(i, c.DestinationCountryCol)
		if !table.IsMissing(origin) && !table.IsMissing(destination) {
			pairs[i] = table.FormatValue(origin) + "_" + table.FormatValue(destination)
		}

		totals[i] = math.NaN()
		if !hasDate {
			continue
		}
		period := table.PeriodOf(date)
		periods[i] = period
		if math.IsNaN(amount) {
			continue
		}
		key := monthKey{account: table.FormatValue(account), period: period}
		running[key] = running[key].Add(decimal.NewFromFloat(amount))
		totals[i] = running[key].InexactFloat64()
	}

	out, err := sorted.WithIntColumn(DaysBetweenCol, days)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithFloatColumn(AmountVariationCol, variation); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(table.Field{Name: CountryPairCol, Kind: table.KindCategory}, pairs); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(table.Field{Name: PeriodCol, Kind: table.KindPeriod}, periods); err != nil {
		return nil, err
	}
	if out, err = out.WithFloatColumn(MonthlyTotalCol, totals); err != nil {
		return nil, err
	}
	tlog.Infof("derived transaction features for %d rows", n)
	return out, nil
}

// pctChange is the relative change from prev to cur; 0 when it is undefined.
func pctChange(prev, cur float64) float64 {
	if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
		return 0
	}
	return (cur - prev) / prev
}
