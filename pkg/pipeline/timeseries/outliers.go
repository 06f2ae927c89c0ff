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

package timeseries

import (
	"math"
	"sort"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
)

const iqrFactor = 1.5

// CapOutliers clamps every int and float column to [q1 - 1.5*iqr, q3 + 1.5*iqr].
// Bounds of int columns are truncated to integers. Missing values are kept.
func CapOutliers(t *table.Table) *table.Table {
	log.Info("starting outlier capping")
	out := t
	for _, f := range t.Fields() {
		if f.Kind != table.KindInt && f.Kind != table.KindFloat {
			continue
		}
		values, err := t.Floats(f.Name)
		if err != nil {
			continue
		}
		q1, q3 := quantile(values, 0.25), quantile(values, 0.75)
		iqr := q3 - q1
		lower, upper := q1-iqrFactor*iqr, q3+iqrFactor*iqr
		if f.Kind == table.KindInt {
			lower, upper = math.Trunc(lower), math.Trunc(upper)
		}
		capped := make([]interface{}, len(values))
		outliers := 0
		for i, v := range values {
			switch {
			case math.IsNaN(v):
				capped[i] = t.Value(i, f.Name)
				continue
			case v < lower:
				v = lower
				outliers++
			case v > upper:
				v = upper
				outliers++
			}
			if f.Kind == table.KindInt {
				capped[i] = int64(v)
			} else {
				capped[i] = v
			}
		}
		if outliers == 0 {
			log.Debugf("no outliers in column %s", f.Name)
			continue
		}
		next, err := out.WithColumn(f, capped)
		if err != nil {
			log.WithError(err).Warnf("could not cap column %s", f.Name)
			continue
		}
		out = next
		log.Infof("capped %d outliers in column %s to [%v, %v]", outliers, f.Name, lower, upper)
	}
	return out
}

// quantile interpolates linearly between the closest ranks, ignoring NaN values.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}
