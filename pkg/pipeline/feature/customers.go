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

package feature

import (
	"math"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	AccountAgeCol          = "TIEMPO_ESTADO_CUENTA"
	SentReceivedRatioCol   = "RATIO_TRX_ENVIADAS_RECIBIDAS"
	AvgReceivedAmountCol   = "MONTO_PROM_TRX_RECIBIDA"
	AvgSentAmountCol       = "MONTO_PROM_TRX_ENVIADA"
	ProductsPerCustomerCol = "CANT_PROD"
)

var clog = logrus.WithField("component", "feature.Customers")

// Customers adds account status age, transaction ratios and product counts to a customer/product table.
type Customers struct {
	config api.FeatureCustomers
	clock  clock.Clock
}

func NewCustomers(cfg api.FeatureCustomers, clk clock.Clock) *Customers {
	cfg.SetDefaults()
	if clk == nil {
		clk = clock.New()
	}
	return &Customers{config: cfg, clock: clk}
}

// Derive keeps the row order of the table. Ratios with a zero or missing denominator are 0.
func (f *Customers) Derive(t *table.Table) (*table.Table, error) {
	clog.Info("starting customer feature derivation")
	c := f.config
	for _, name := range []string{c.StatusDateCol, c.SentCountCol, c.ReceivedCountCol, c.SentAmountCol, c.ReceivedAmountCol, c.CustomerCol, c.ProductCol} {
		if !t.Has(name) {
			return nil, &table.ColumnNotFoundError{Column: name}
		}
	}
	sentCount, err := t.Floats(c.SentCountCol)
	if err != nil {
		return nil, err
	}
	receivedCount, err := t.Floats(c.ReceivedCountCol)
	if err != nil {
		return nil, err
	}
	sentAmount, err := t.Floats(c.SentAmountCol)
	if err != nil {
		return nil, err
	}
	receivedAmount, err := t.Floats(c.ReceivedAmountCol)
	if err != nil {
		return nil, err
	}

	now := f.clock.Now()
	n := t.Len()
	age := make([]interface{}, n)
	ratio := make([]float64, n)
	avgReceived := make([]float64, n)
	avgSent := make([]float64, n)
	for i := 0; i < n; i++ {
		if date, ok := t.Value(i, c.StatusDateCol).(time.Time); ok {
			age[i] = int64(math.Floor(now.Sub(date).Hours() / 24))
		}
		ratio[i] = safeDiv(sentCount[i], receivedCount[i])
		avgReceived[i] = safeDiv(receivedAmount[i], receivedCount[i])
		avgSent[i] = safeDiv(sentAmount[i], sentCount[i])
	}

	products, err := distinctPerGroup(t, c.CustomerCol, c.ProductCol)
	if err != nil {
		return nil, err
	}

	out, err := t.WithColumn(table.Field{Name: AccountAgeCol, Kind: table.KindInt}, age)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithFloatColumn(SentReceivedRatioCol, ratio); err != nil {
		return nil, err
	}
	if out, err = out.WithFloatColumn(AvgReceivedAmountCol, avgReceived); err != nil {
		return nil, err
	}
	if out, err = out.WithFloatColumn(AvgSentAmountCol, avgSent); err != nil {
		return nil, err
	}
	if out, err = out.WithIntColumn(ProductsPerCustomerCol, products); err != nil {
		return nil, err
	}
	clog.Infof("derived customer features for %d rows", n)
	return out, nil
}

func safeDiv(num, den float64) float64 {
	if math.IsNaN(num) || math.IsNaN(den) || den == 0 {
		return 0
	}
	return decimal.NewFromFloat(num).Div(decimal.NewFromFloat(den)).InexactFloat64()
}

// distinctPerGroup counts, for every row, the distinct non missing values of col among the rows sharing its key.
func distinctPerGroup(t *table.Table, key, col string) ([]int64, error) {
	groups, err := t.GroupBy(key)
	if err != nil {
		return nil, err
	}
	out := make([]int64, t.Len())
	for _, g := range groups {
		seen := map[string]struct{}{}
		for _, r := range g.Rows {
			if v := t.Value(r, col); !table.IsMissing(v) {
				seen[table.FormatValue(v)] = struct{}{}
			}
		}
		for _, r := range g.Rows {
			out[r] = int64(len(seen))
		}
	}
	return out, nil
}
