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
	"math"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/anomaly/iforest"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	Anomalous = iforest.Outlier
	Normal    = iforest.Inlier
)

// FlagColumn is the name of the flag column of a contamination value, e.g. anomaly_0.05.
func FlagColumn(contamination float64) string {
	return "anomaly_" + formatContamination(contamination)
}

// Detector fits one isolation forest per contamination value on the same feature matrix.
type Detector struct {
	trees      int
	sampleSize int
	seed       int64
	parallel   bool
}

// DetectionResult is the input table with one flag column per contamination value appended.
type DetectionResult struct {
	Table       *table.Table
	FlagColumns []string
	// Anomalies counts the rows flagged -1, per flag column.
	Anomalies []int
}

// NewDetector builds a detector with the forest options of cfg; defaults are filled in.
func NewDetector(cfg api.AnomalyDetection) *Detector {
	cfg.SetDefaults()
	return &Detector{
		trees:      cfg.Trees,
		sampleSize: cfg.SampleSize,
		seed:       cfg.GetSeed(),
		parallel:   cfg.Parallel,
	}
}

// Detect labels every row with -1 (anomalous) or 1 (normal) for each contamination value.
// Models share the seed and the feature matrix; they never share state.
func (d *Detector) Detect(t *table.Table, features []string, contaminations []float64) (*DetectionResult, error) {
	log.Info("starting anomaly detection")
	if len(features) == 0 {
		return nil, &EmptyFeatureMatrixError{}
	}
	if t.Len() < iforest.MinSamples {
		return nil, &InsufficientDataError{Rows: t.Len(), Min: iforest.MinSamples}
	}
	matrix, err := featureMatrix(t, features)
	if err != nil {
		return nil, err
	}

	labels := make([][]int, len(contaminations))
	fit := func(i int) error {
		forest, err := iforest.New(iforest.Config{
			Trees:         d.trees,
			SampleSize:    d.sampleSize,
			Contamination: contaminations[i],
			Seed:          d.seed,
		})
		if err != nil {
			return err
		}
		if err := forest.Fit(matrix); err != nil {
			var short *iforest.InsufficientSamplesError
			if errors.As(err, &short) {
				return &InsufficientDataError{Rows: short.Rows, Min: iforest.MinSamples}
			}
			return errors.Wrapf(err, "fitting model for contamination %s", formatContamination(contaminations[i]))
		}
		labels[i], err = forest.Predict(matrix)
		return err
	}
	if d.parallel {
		var g errgroup.Group
		for i := range contaminations {
			g.Go(func() error { return fit(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range contaminations {
			if err := fit(i); err != nil {
				return nil, err
			}
		}
	}

	res := &DetectionResult{Table: t}
	for i, c := range contaminations {
		name := FlagColumn(c)
		flags := make([]int64, len(labels[i]))
		anomalies := 0
		for r, l := range labels[i] {
			flags[r] = int64(l)
			if l == Anomalous {
				anomalies++
			}
		}
		if res.Table, err = res.Table.WithIntColumn(name, flags); err != nil {
			return nil, err
		}
		res.FlagColumns = append(res.FlagColumns, name)
		res.Anomalies = append(res.Anomalies, anomalies)
		log.WithField("contamination", formatContamination(c)).Infof("%d of %d rows flagged as anomalous", anomalies, t.Len())
	}
	log.Info("anomaly detection done")
	return res, nil
}

func featureMatrix(t *table.Table, features []string) ([][]float64, error) {
	columns := make([][]float64, len(features))
	for j, name := range features {
		if !t.Has(name) {
			return nil, &MissingColumnError{Column: name}
		}
		values, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		columns[j] = values
	}
	matrix := make([][]float64, t.Len())
	for i := range matrix {
		row := make([]float64, len(features))
		for j := range features {
			if v := columns[j][i]; !math.IsNaN(v) {
				row[j] = v
			}
		}
		matrix[i] = row
	}
	return matrix, nil
}
