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

// Package pipeline wires the ingesters, the feature derivation, the anomaly engine, the time
// series stage and the sinks into a single batch run.
package pipeline

import (
	"context"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/anomaly"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/feature"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/ingest"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/timeseries"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/write"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Names of the result tables, relative to the sink root.
const (
	OutputFlagged          = "anomalias/transacciones"
	OutputSummary          = "anomalias/resumen"
	OutputCustomerFeatures = "clientes/caracteristicas"
	OutputMonthly          = "series_tiempo/mensual"
	OutputDecomposition    = "series_tiempo/descomposicion"
	OutputForecast         = "series_tiempo/pronostico"
)

type alertPublisher interface {
	Publish(ctx context.Context, flagged *table.Table) (int, error)
}

// Pipeline manager
type Pipeline struct {
	transactions     ingest.Ingester
	customers        ingest.Ingester
	features         *feature.Transactions
	customerFeatures *feature.Customers
	engine           *anomaly.Engine
	series           *timeseries.Stage
	writer           write.Writer
	alerts           alertPublisher
}

// Output is every table computed by a run, keyed by output name, in write order.
type Output struct {
	Names  []string
	Tables map[string]*table.Table
	Alerts int
}

func (o *Output) add(name string, t *table.Table) {
	o.Names = append(o.Names, name)
	o.Tables[name] = t
}

// NewPipeline builds every stage enabled by the configuration.
func NewPipeline(cfg *config.ConfigFileStruct, opMetrics *operational.Metrics, clk clock.Clock) (*Pipeline, error) {
	log.Debugf("entering NewPipeline")
	if clk == nil {
		clk = clock.New()
	}
	if opMetrics == nil {
		opMetrics = operational.NewMetrics(&cfg.MetricsSettings)
	}
	p := &Pipeline{}
	var err error
	if p.transactions, err = ingest.NewIngester(opMetrics, "transactions", cfg.Ingest.Transactions); err != nil {
		return nil, errors.Wrap(err, "transactions ingester")
	}
	if cfg.Ingest.Customers != nil && (cfg.TimeSeries.Enabled || cfg.Feature.Customers.Enabled) {
		if p.customers, err = ingest.NewIngester(opMetrics, "customers", *cfg.Ingest.Customers); err != nil {
			return nil, errors.Wrap(err, "customers ingester")
		}
	}
	if cfg.Feature.Transactions.Enabled {
		p.features = feature.NewTransactions(cfg.Feature.Transactions)
	}
	if cfg.Feature.Customers.Enabled {
		p.customerFeatures = feature.NewCustomers(cfg.Feature.Customers, clk)
	}
	if p.engine, err = anomaly.NewEngine(opMetrics, cfg.Anomaly); err != nil {
		return nil, errors.Wrap(err, "anomaly engine")
	}
	if cfg.TimeSeries.Enabled {
		if p.series, err = timeseries.NewStage(opMetrics, cfg.TimeSeries); err != nil {
			return nil, errors.Wrap(err, "time series stage")
		}
	}
	if p.writer, err = write.NewWriter(opMetrics, cfg.Write, clk); err != nil {
		return nil, errors.Wrap(err, "writer")
	}
	if cfg.Write.Alerts != nil {
		anomalyCfg := cfg.Anomaly
		anomalyCfg.SetDefaults()
		if p.alerts, err = write.NewAlerts(opMetrics, cfg.Write.Alerts, anomalyCfg.AccountCol, anomalyCfg.FlagCol, anomaly.FlagAnomalous); err != nil {
			return nil, errors.Wrap(err, "alerts")
		}
	}
	return p, nil
}

// Run computes every result table and only then hands them to the sinks. Nothing is
// written when a stage fails.
func (p *Pipeline) Run(ctx context.Context) (*Output, error) {
	out, err := p.compute(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range out.Names {
		if err := p.writer.Write(ctx, name, out.Tables[name]); err != nil {
			return nil, errors.Wrapf(err, "writing %s", name)
		}
	}
	if p.alerts != nil {
		if out.Alerts, err = p.alerts.Publish(ctx, out.Tables[OutputFlagged]); err != nil {
			return nil, err
		}
	}
	log.Infof("pipeline done: %d tables written, %d alerts", len(out.Names), out.Alerts)
	return out, nil
}

func (p *Pipeline) compute(ctx context.Context) (*Output, error) {
	out := &Output{Tables: map[string]*table.Table{}}

	transactions, err := p.transactions.Ingest(ctx)
	if err != nil {
		return nil, err
	}
	if p.features != nil {
		if transactions, err = p.features.Derive(transactions); err != nil {
			return nil, errors.Wrap(err, "deriving transaction features")
		}
	}
	result, err := p.engine.Run(transactions)
	if err != nil {
		return nil, errors.Wrap(err, "anomaly detection")
	}
	out.add(OutputFlagged, result.Flagged)
	out.add(OutputSummary, result.Summary)

	if p.customers == nil {
		return out, nil
	}
	customers, err := p.customers.Ingest(ctx)
	if err != nil {
		return nil, err
	}
	if p.customerFeatures != nil {
		derived, err := p.customerFeatures.Derive(customers)
		if err != nil {
			return nil, errors.Wrap(err, "deriving customer features")
		}
		out.add(OutputCustomerFeatures, derived)
	}
	if p.series != nil {
		series, err := p.series.Run(customers)
		if err != nil {
			return nil, errors.Wrap(err, "time series")
		}
		out.add(OutputMonthly, series.Monthly)
		out.add(OutputDecomposition, series.Decomposition)
		out.add(OutputForecast, series.Forecast)
	}
	return out, nil
}
