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
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	anomaliesFlagged = operational.DefineMetric(
		"anomalies_flagged",
		"Number of rows flagged as anomalous in the last run, per contamination value",
		operational.TypeGauge,
		"contamination",
	)
	groupsSuppressed = operational.DefineMetric(
		"groups_suppressed_total",
		"Number of groups whose z-scores were set to 0 because they had too few observations",
		operational.TypeCounter,
		"column",
	)
)

type metrics struct {
	*operational.Metrics
	stageDuration    prometheus.Observer
	rowsProcessed    prometheus.Counter
	anomaliesFlagged *prometheus.GaugeVec
	groupsSuppressed *prometheus.CounterVec
}

func newMetrics(opMetrics *operational.Metrics) *metrics {
	return &metrics{
		Metrics:          opMetrics,
		stageDuration:    opMetrics.GetOrCreateStageDurationHisto().WithLabelValues(stageName),
		rowsProcessed:    opMetrics.CreateRowsProcessedCounter(stageName),
		anomaliesFlagged: opMetrics.NewGaugeVec(&anomaliesFlagged),
		groupsSuppressed: opMetrics.NewCounterVec(&groupsSuppressed),
	}
}

func (m *metrics) stageDurationTimer() *operational.Timer {
	return operational.NewTimer(m.stageDuration)
}
