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
	"fmt"
	"math"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
)

// ZScorePrefix prefixes the name of every derived z-score column.
const ZScorePrefix = "z_score_"

// ZScoreResult holds the categorical, numerical and z-score columns side by side.
type ZScoreResult struct {
	Table *table.Table
	// Features lists the z-score columns, in the order of the numerical columns.
	Features []string
	// Groups is the number of distinct group keys.
	Groups int
	// Suppressed counts, per numerical column, the groups too small to get a z-score.
	Suppressed map[string]int
}

// ZScoreColumn is the name of the z-score column derived from col.
func ZScoreColumn(col string) string {
	return ZScorePrefix + col
}

// GroupZScores returns the sample z-score (ddof=1) of every value of a group.
// Groups with fewer than minGroupSize non missing values get 0 everywhere.
// Missing values, and every value of a zero variance group, get 0.
func GroupZScores(values []float64, minGroupSize int) []float64 {
	out := make([]float64, len(values))
	n := 0
	sum := 0.0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		n++
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if n < minGroupSize || n < 2 || lo == hi {
		return out
	}
	mean := sum / float64(n)
	ss := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			ss += (v - mean) * (v - mean)
		}
	}
	sd := math.Sqrt(ss / float64(n-1))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		z := (v - mean) / sd
		if math.IsNaN(z) || math.IsInf(z, 0) {
			z = 0
		}
		out[i] = z
	}
	return out
}

// CalculateZScores computes a z-score column for every numerical column within the groups
// defined by the groupBy columns of the categorical table. Both tables must be row aligned.
func CalculateZScores(categorical, numerical *table.Table, groupBy []string, minGroupSize int) (*ZScoreResult, error) {
	log.Info("starting z-score computation")
	for _, k := range groupBy {
		if !categorical.Has(k) {
			return nil, &InvalidGroupKeyError{Column: k}
		}
	}
	if categorical.Len() != numerical.Len() {
		return nil, fmt.Errorf("categorical and numerical tables have %d and %d rows", categorical.Len(), numerical.Len())
	}
	groups, err := categorical.GroupBy(groupBy...)
	if err != nil {
		return nil, err
	}

	n := numerical.Len()
	rows := make([]config.GenericMap, n)
	for i := range rows {
		rows[i] = config.GenericMap{}
	}
	res := &ZScoreResult{Groups: len(groups), Suppressed: map[string]int{}}
	var fields []table.Field
	for _, col := range numerical.Names() {
		values, err := numerical.Floats(col)
		if err != nil {
			return nil, err
		}
		name := ZScoreColumn(col)
		suppressed := 0
		for _, g := range groups {
			groupValues := make([]float64, len(g.Rows))
			present := 0
			for j, r := range g.Rows {
				groupValues[j] = values[r]
				if !math.IsNaN(values[r]) {
					present++
				}
			}
			if present < minGroupSize {
				suppressed++
			}
			for j, z := range GroupZScores(groupValues, minGroupSize) {
				rows[g.Rows[j]][name] = z
			}
		}
		fields = append(fields, table.Field{Name: name, Kind: table.KindFloat})
		res.Features = append(res.Features, name)
		res.Suppressed[col] = suppressed
		log.Infof("computed z-scores for column %s (%d of %d groups below %d observations)", col, suppressed, len(groups), minGroupSize)
	}

	scores, err := table.New(fields, rows)
	if err != nil {
		return nil, err
	}
	if res.Table, err = table.Concat(categorical, numerical, scores); err != nil {
		return nil, err
	}
	log.Info("z-score computation done")
	return res, nil
}
