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
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ingestBytes = operational.DefineMetric(
		"ingest_bytes_total",
		"Ingested size of the input tables, in bytes",
		operational.TypeCounter,
		"stage",
	)
	errorsCounter = operational.DefineMetric(
		"ingest_errors_total",
		"Counter of errors during ingestion",
		operational.TypeCounter,
		"stage", "code",
	)
)

type metrics struct {
	stage         string
	stageDuration prometheus.Observer
	rowsProcessed prometheus.Counter
	ingestBytes   prometheus.Counter
	errors        *prometheus.CounterVec
}

func newMetrics(opMetrics *operational.Metrics, stage string) *metrics {
	return &metrics{
		stage:         stage,
		stageDuration: opMetrics.GetOrCreateStageDurationHisto().WithLabelValues("ingest_" + stage),
		rowsProcessed: opMetrics.CreateRowsProcessedCounter("ingest_" + stage),
		ingestBytes:   opMetrics.NewCounter(&ingestBytes, stage),
		errors:        opMetrics.NewCounterVec(&errorsCounter),
	}
}

// error increments the error counter. `code` must not carry high cardinality values.
func (m *metrics) error(code string) {
	m.errors.WithLabelValues(m.stage, code).Inc()
}

func (m *metrics) stageDurationTimer() *operational.Timer {
	return operational.NewTimer(m.stageDuration)
}
