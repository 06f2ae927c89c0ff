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

// Package timeseries builds the monthly sent/received difference series per account type
// from the customers table, decomposes them and forecasts them.
package timeseries

import (
	"math"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	stageName = "timeseries"

	PeriodCol   = "MES_ANIO"
	TrendCol    = "TENDENCIA"
	SeasonalCol = "ESTACIONALIDAD"
	ResidualCol = "RESIDUO"
	ForecastCol = "PRONOSTICO"
	LowerCol    = "LIMITE_INFERIOR"
	UpperCol    = "LIMITE_SUPERIOR"
)

var log = logrus.WithField("component", "timeseries.Stage")

var seriesSkipped = operational.DefineMetric(
	"series_skipped_total",
	"Number of account type series skipped because they were too short",
	operational.TypeCounter,
	"account_type",
)

// Stage runs the time series analysis.
type Stage struct {
	cfg           api.TimeSeries
	stageDuration prometheus.Observer
	rowsProcessed prometheus.Counter
	seriesSkipped *prometheus.CounterVec
}

// Result holds the tables produced by the stage.
type Result struct {
	Monthly       *table.Table
	Decomposition *table.Table
	Forecast      *table.Table
}

func NewStage(opMetrics *operational.Metrics, cfg api.TimeSeries) (*Stage, error) {
	cfg.SetDefaults()
	if err := api.Validate(&cfg); err != nil {
		return nil, err
	}
	if opMetrics == nil {
		opMetrics = operational.NewMetrics(nil)
	}
	return &Stage{
		cfg:           cfg,
		stageDuration: opMetrics.GetOrCreateStageDurationHisto().WithLabelValues(stageName),
		rowsProcessed: opMetrics.CreateRowsProcessedCounter(stageName),
		seriesSkipped: opMetrics.NewCounterVec(&seriesSkipped),
	}, nil
}

// Run caps outliers of the customers table, builds one series per account type and
// decomposes and forecasts every series covering at least two seasonal cycles.
func (s *Stage) Run(customers *table.Table) (*Result, error) {
	timer := operational.NewTimer(s.stageDuration)
	defer timer.ObserveSeconds()
	s.rowsProcessed.Add(float64(customers.Len()))

	input := customers
	if !s.cfg.SkipOutlierCapping {
		input = CapOutliers(customers)
	}
	monthly, err := MonthlyTotals(input, s.cfg)
	if err != nil {
		return nil, errors.Wrap(err, "computing monthly totals")
	}
	series, err := MonthlySeries(monthly, s.cfg.AccountTypeCol)
	if err != nil {
		return nil, errors.Wrap(err, "building monthly series")
	}

	var decompRows, forecastRows []config.GenericMap
	for _, sr := range series {
		serieLog := log.WithField("accountType", sr.AccountType)
		decomp, err := Decompose(sr.Values, s.cfg.Period)
		if err == nil {
			var model *HoltWinters
			if model, err = FitHoltWinters(sr.Values, s.cfg.Period); err == nil {
				decompRows = append(decompRows, s.decompositionRows(sr, decomp)...)
				forecastRows = append(forecastRows, s.forecastRows(sr, model.ForecastInterval(sr.Values, s.cfg.Horizon))...)
				serieLog.Infof("series from %s to %s forecast until %s", sr.Start, sr.End(), sr.End().AddMonths(s.cfg.Horizon))
				continue
			}
		}
		var short *ShortSeriesError
		if errors.As(err, &short) {
			serieLog.WithError(err).Warn("skipping series")
			s.seriesSkipped.WithLabelValues(sr.AccountType).Inc()
			continue
		}
		return nil, errors.Wrapf(err, "account type %s", sr.AccountType)
	}

	decomposition, err := table.New([]table.Field{
		{Name: s.cfg.AccountTypeCol, Kind: table.KindCategory},
		{Name: PeriodCol, Kind: table.KindPeriod},
		{Name: DifferenceCol, Kind: table.KindFloat},
		{Name: TrendCol, Kind: table.KindFloat},
		{Name: SeasonalCol, Kind: table.KindFloat},
		{Name: ResidualCol, Kind: table.KindFloat},
	}, decompRows)
	if err != nil {
		return nil, err
	}
	forecast, err := table.New([]table.Field{
		{Name: s.cfg.AccountTypeCol, Kind: table.KindCategory},
		{Name: PeriodCol, Kind: table.KindPeriod},
		{Name: ForecastCol, Kind: table.KindFloat},
		{Name: LowerCol, Kind: table.KindFloat},
		{Name: UpperCol, Kind: table.KindFloat},
	}, forecastRows)
	if err != nil {
		return nil, err
	}
	return &Result{Monthly: monthly, Decomposition: decomposition, Forecast: forecast}, nil
}

func (s *Stage) decompositionRows(sr Series, d *Decomposition) []config.GenericMap {
	rows := make([]config.GenericMap, len(sr.Values))
	for i := range sr.Values {
		rows[i] = config.GenericMap{
			s.cfg.AccountTypeCol: sr.AccountType,
			PeriodCol:            sr.Period(i),
			DifferenceCol:        cell(d.Observed[i]),
			TrendCol:             cell(d.Trend[i]),
			SeasonalCol:          cell(d.Seasonal[i]),
			ResidualCol:          cell(d.Residual[i]),
		}
	}
	return rows
}

func (s *Stage) forecastRows(sr Series, in Interval) []config.GenericMap {
	end := sr.End()
	rows := make([]config.GenericMap, len(in.Forecast))
	for i := range in.Forecast {
		rows[i] = config.GenericMap{
			s.cfg.AccountTypeCol: sr.AccountType,
			PeriodCol:            end.AddMonths(i + 1),
			ForecastCol:          cell(in.Forecast[i]),
			LowerCol:             cell(in.Lower[i]),
			UpperCol:             cell(in.Upper[i]),
		}
	}
	return rows
}

func cell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
