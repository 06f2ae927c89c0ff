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

// Package anomaly scores transactions with grouped z-scores and isolation forests, then
// summarizes the flags per account and month.
package anomaly

import (
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/sirupsen/logrus"
)

const stageName = "anomaly"

var log = logrus.WithField("component", "anomaly.Engine")

// Engine chains the column partitioner, range normalizer, z-score calculator, detector and summarizer.
type Engine struct {
	config   api.AnomalyDetection
	columns  OutputColumns
	detector *Detector
	metrics  *metrics
}

// Result holds every table produced by a run.
type Result struct {
	Flagged   *table.Table
	Summary   *table.Table
	Detection *table.Table
	Features  []string
}

// NewEngine validates the options and builds an engine.
func NewEngine(opMetrics *operational.Metrics, cfg api.AnomalyDetection) (*Engine, error) {
	cfg.SetDefaults()
	if err := api.Validate(&cfg); err != nil {
		return nil, err
	}
	if !containsContamination(cfg.ContaminationValues, cfg.ContaminationValue) {
		return nil, &UnknownContaminationError{Value: cfg.ContaminationValue, Configured: cfg.ContaminationValues}
	}
	if opMetrics == nil {
		opMetrics = operational.NewMetrics(nil)
	}
	return &Engine{
		config:   cfg,
		columns:  OutputColumnsFrom(cfg),
		detector: NewDetector(cfg),
		metrics:  newMetrics(opMetrics),
	}, nil
}

// Run scores the feature table. Either every output is returned or an error is.
func (e *Engine) Run(t *table.Table) (*Result, error) {
	timer := e.metrics.stageDurationTimer()
	defer timer.ObserveSeconds()

	partition, err := PartitionColumns(t, e.config.ColsFilter)
	if err != nil {
		return nil, err
	}
	categorical, numerical, err := partition.Split(t)
	if err != nil {
		return nil, err
	}
	numerical = NormalizeRange(numerical)

	scores, err := CalculateZScores(categorical, numerical, e.config.GroupByCols, e.config.MinGroupSize)
	if err != nil {
		return nil, err
	}
	detection, err := e.detector.Detect(scores.Table, scores.Features, e.config.ContaminationValues)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(detection.Table, e.columns, e.config.ContaminationValues, e.config.ContaminationValue)
	if err != nil {
		return nil, err
	}

	e.metrics.rowsProcessed.Add(float64(t.Len()))
	for col, n := range scores.Suppressed {
		e.metrics.groupsSuppressed.WithLabelValues(col).Add(float64(n))
	}
	for i, c := range e.config.ContaminationValues {
		e.metrics.anomaliesFlagged.WithLabelValues(formatContamination(c)).Set(float64(detection.Anomalies[i]))
	}
	return &Result{
		Flagged:   summary.Flagged,
		Summary:   summary.Summary,
		Detection: detection.Table,
		Features:  scores.Features,
	}, nil
}
