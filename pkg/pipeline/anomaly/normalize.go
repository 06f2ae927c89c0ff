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

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
)

// NormalizeRange min-max scales every numerical column that is not a binary indicator into [0, 1].
// Constant columns and binary columns are left unchanged, as are non numerical columns.
// Missing values stay missing. The input table is not modified.
func NormalizeRange(t *table.Table) *table.Table {
	log.Info("starting min-max normalization")
	out := t
	for _, f := range t.Fields() {
		if !f.Kind.IsNumeric() {
			continue
		}
		values, err := t.Floats(f.Name)
		if err != nil {
			continue
		}
		if isBinary(values) {
			log.Debugf("column %s is binary, skipping", f.Name)
			continue
		}
		lo, hi := minMax(values)
		if hi-lo == 0 || math.IsNaN(hi-lo) {
			log.Debugf("column %s has no range, skipping", f.Name)
			continue
		}
		scaled := make([]float64, len(values))
		for i, v := range values {
			scaled[i] = (v - lo) / (hi - lo)
		}
		next, err := out.WithFloatColumn(f.Name, scaled)
		if err != nil {
			log.WithError(err).Warnf("could not scale column %s", f.Name)
			continue
		}
		out = next
	}
	log.Info("min-max normalization done")
	return out
}

// isBinary reports columns with exactly two distinct values where every row holds 0 or 1.
func isBinary(values []float64) bool {
	distinct := map[float64]struct{}{}
	for _, v := range values {
		if v != 0 && v != 1 {
			return false
		}
		distinct[v] = struct{}{}
	}
	return len(distinct) == 2
}

// minMax ignores NaN values; both results are NaN when every value is NaN.
func minMax(values []float64) (float64, float64) {
	lo, hi := math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}
