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

package operational

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"
)

type MetricType string

const (
	TypeCounter   MetricType = "counter"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

var log = logrus.WithField("component", "operational")

// MetricDefinition describes an operational metric. Definitions are registered at package
// init time so that the documentation lists every metric, used or not.
type MetricDefinition struct {
	Name   string
	Help   string
	Type   MetricType
	Labels []string
}

var (
	allMetrics []MetricDefinition

	stageDuration = DefineMetric(
		"stage_duration_seconds",
		"Duration of each pipeline stage, in seconds",
		TypeHistogram,
		"stage",
	)
	rowsProcessed = DefineMetric(
		"rows_processed_total",
		"Number of table rows processed by a stage",
		TypeCounter,
		"stage",
	)
	recordsWritten = DefineMetric(
		"records_written_total",
		"Number of records written to a sink",
		TypeCounter,
		"sink",
	)
)

func DefineMetric(name, help string, t MetricType, labels ...string) MetricDefinition {
	def := MetricDefinition{
		Name:   name,
		Help:   help,
		Type:   t,
		Labels: labels,
	}
	allMetrics = append(allMetrics, def)
	return def
}

func (def *MetricDefinition) mapLabels() string {
	if len(def.Labels) == 0 {
		return ""
	}
	return strings.Join(def.Labels, ", ")
}

// Metrics owns the prometheus registry of a run.
type Metrics struct {
	mu                 sync.Mutex
	settings           *config.MetricsSettings
	registry           *prometheus.Registry
	collectors         map[string]prometheus.Collector
	stageDurationHisto *prometheus.HistogramVec
}

func NewMetrics(settings *config.MetricsSettings) *Metrics {
	if settings == nil {
		settings = &config.MetricsSettings{}
	}
	return &Metrics{
		settings:   settings,
		registry:   prometheus.NewRegistry(),
		collectors: map[string]prometheus.Collector{},
	}
}

// Registry returns the gatherer holding every metric created through this instance.
func (o *Metrics) Registry() *prometheus.Registry {
	return o.registry
}

func (o *Metrics) name(def *MetricDefinition) string {
	return o.settings.Prefix + def.Name
}

// register returns the collector already registered under the same name, if any,
// so that stages may ask for the same metric more than once.
func (o *Metrics) register(name string, build func() prometheus.Collector) prometheus.Collector {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.collectors[name]; ok {
		return c
	}
	c := build()
	if err := o.registry.Register(c); err != nil {
		log.Errorf("could not register metric %s: %v", name, err)
	}
	o.collectors[name] = c
	return c
}

func (o *Metrics) NewCounterVec(def *MetricDefinition) *prometheus.CounterVec {
	verifyType(def, TypeCounter)
	name := o.name(def)
	return o.register(name, func() prometheus.Collector {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: def.Help}, def.Labels)
	}).(*prometheus.CounterVec)
}

func (o *Metrics) NewCounter(def *MetricDefinition, labels ...string) prometheus.Counter {
	return o.NewCounterVec(def).WithLabelValues(labels...)
}

func (o *Metrics) NewGaugeVec(def *MetricDefinition) *prometheus.GaugeVec {
	verifyType(def, TypeGauge)
	name := o.name(def)
	return o.register(name, func() prometheus.Collector {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: def.Help}, def.Labels)
	}).(*prometheus.GaugeVec)
}

func (o *Metrics) NewGauge(def *MetricDefinition, labels ...string) prometheus.Gauge {
	return o.NewGaugeVec(def).WithLabelValues(labels...)
}

func (o *Metrics) NewHistogramVec(def *MetricDefinition, buckets []float64) *prometheus.HistogramVec {
	verifyType(def, TypeHistogram)
	name := o.name(def)
	return o.register(name, func() prometheus.Collector {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: def.Help, Buckets: buckets}, def.Labels)
	}).(*prometheus.HistogramVec)
}

func (o *Metrics) NewHistogram(def *MetricDefinition, buckets []float64, labels ...string) prometheus.Observer {
	return o.NewHistogramVec(def, buckets).WithLabelValues(labels...)
}

func (o *Metrics) GetOrCreateStageDurationHisto() *prometheus.HistogramVec {
	if o.stageDurationHisto == nil {
		o.stageDurationHisto = o.NewHistogramVec(&stageDuration, []float64{.01, .1, 1, 10, 60, 300, 1800})
	}
	return o.stageDurationHisto
}

func (o *Metrics) CreateRowsProcessedCounter(stage string) prometheus.Counter {
	return o.NewCounter(&rowsProcessed, stage)
}

func (o *Metrics) CreateRecordsWrittenCounter(sink string) prometheus.Counter {
	return o.NewCounter(&recordsWritten, sink)
}

// Push sends the registry content to the configured push gateway. It is a no-op when
// no gateway is configured.
func (o *Metrics) Push(ctx context.Context) error {
	if o.settings.PushGateway == "" {
		return nil
	}
	log.Infof("pushing metrics to %s", o.settings.PushGateway)
	err := push.New(o.settings.PushGateway, o.settings.JobName).
		Gatherer(o.registry).
		PushContext(ctx)
	return errors.Wrap(err, "pushing metrics")
}

func verifyType(def *MetricDefinition, t MetricType) {
	if def.Type != t {
		panic(fmt.Sprintf("operational metric %q is of type %s but is being registered as %s", def.Name, def.Type, t))
	}
}

func GetDocumentation() string {
	defs := append([]MetricDefinition(nil), allMetrics...)
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	doc := ""
	for _, opts := range defs {
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s | 
|:---|:---|
| **Description** | %s | 
| **Type** | %s | 
| **Labels** | %s | 

`,
			opts.Name,
			opts.Name,
			opts.Help,
			opts.Type,
			opts.mapLabels(),
		)
	}

	return doc
}
