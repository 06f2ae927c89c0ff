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

package anomaly

import (
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
)

const (
	FlagAnomalous = "ANOMALO"
	FlagNormal    = "NO ANOMALO"
)

// OutputColumns names the columns of the row level result.
type OutputColumns struct {
	Account     string
	Period      string
	CountryPair string
	Amount      string
	Flag        string
}

// OutputColumnsFrom reads the output column names of cfg, defaults included.
func OutputColumnsFrom(cfg api.AnomalyDetection) OutputColumns {
	cfg.SetDefaults()
	return OutputColumns{
		Account:     cfg.AccountCol,
		Period:      cfg.PeriodCol,
		CountryPair: cfg.CountryPairCol,
		Amount:      cfg.AmountCol,
		Flag:        cfg.FlagCol,
	}
}

// SummaryResult holds the two outputs of the engine.
type SummaryResult struct {
	// Flagged has one row per input row: account, period, country pair, amount and flag text.
	Flagged *table.Table
	// Summary has one row per (account, period) with anomalous and normal counts per contamination value.
	Summary *table.Table
}

// AnomalousCountColumn names the summary count of anomalous rows, e.g. anomaly_0.05_anomalas.
func AnomalousCountColumn(contamination float64) string {
	return FlagColumn(contamination) + "_anomalas"
}

// NormalCountColumn names the summary count of normal rows, e.g. anomaly_0.05_no_anomalas.
func NormalCountColumn(contamination float64) string {
	return FlagColumn(contamination) + "_no_anomalas"
}

// Summarize labels the rows from the operative contamination flag and counts, for every
// contamination value, the anomalous and normal rows of each (account, period) group.
func Summarize(t *table.Table, cols OutputColumns, contaminations []float64, operative float64) (*SummaryResult, error) {
	log.Info("summarizing anomalies")
	if !containsContamination(contaminations, operative) {
		return nil, &UnknownContaminationError{Value: operative, Configured: contaminations}
	}
	for _, name := range []string{cols.Account, cols.Period, cols.CountryPair, cols.Amount} {
		if !t.Has(name) {
			return nil, &MissingColumnError{Column: name}
		}
	}
	flags := make(map[float64][]float64, len(contaminations))
	for _, c := range contaminations {
		name := FlagColumn(c)
		if !t.Has(name) {
			return nil, &MissingColumnError{Column: name}
		}
		values, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		flags[c] = values
	}

	texts := make([]interface{}, t.Len())
	for i, v := range flags[operative] {
		if v == Anomalous {
			texts[i] = FlagAnomalous
		} else {
			texts[i] = FlagNormal
		}
	}
	flagged, err := t.Select(cols.Account, cols.Period, cols.CountryPair, cols.Amount)
	if err != nil {
		return nil, err
	}
	if flagged, err = flagged.WithColumn(table.Field{Name: cols.Flag, Kind: table.KindCategory}, texts); err != nil {
		return nil, err
	}

	groups, err := t.GroupBy(cols.Account, cols.Period)
	if err != nil {
		return nil, err
	}
	account, _ := t.Field(cols.Account)
	period, _ := t.Field(cols.Period)
	fields := []table.Field{account, period}
	for _, c := range contaminations {
		fields = append(fields,
			table.Field{Name: AnomalousCountColumn(c), Kind: table.KindInt},
			table.Field{Name: NormalCountColumn(c), Kind: table.KindInt},
		)
	}
	rows := make([]config.GenericMap, 0, len(groups))
	for _, g := range groups {
		row := config.GenericMap{cols.Account: g.Key[0], cols.Period: g.Key[1]}
		for _, c := range contaminations {
			var anomalous, normal int64
			for _, r := range g.Rows {
				switch flags[c][r] {
				case Anomalous:
					anomalous++
				case Normal:
					normal++
				}
			}
			row[AnomalousCountColumn(c)] = anomalous
			row[NormalCountColumn(c)] = normal
		}
		rows = append(rows, row)
	}
	summary, err := table.New(fields, rows)
	if err != nil {
		return nil, err
	}
	log.Infof("summary built for %d account/period groups", len(groups))
	return &SummaryResult{Flagged: flagged, Summary: summary}, nil
}

func containsContamination(values []float64, c float64) bool {
	for _, v := range values {
		if v == c {
			return true
		}
	}
	return false
}
