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
	"fmt"
	"math"
)

// ShortSeriesError is returned when a series does not cover two full seasonal cycles.
type ShortSeriesError struct {
	Length int
	Period int
}

func (e *ShortSeriesError) Error() string {
	return fmt.Sprintf("series of %d observations is shorter than two cycles of %d", e.Length, e.Period)
}

// Decomposition is the additive split observed = trend + seasonal + residual.
// Trend and residual are NaN at both ends where the moving average is undefined.
type Decomposition struct {
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Residual []float64
}

// Decompose applies a classical additive seasonal decomposition with a centered moving average.
func Decompose(values []float64, period int) (*Decomposition, error) {
	n := len(values)
	if period < 2 {
		return nil, fmt.Errorf("seasonal period must be at least 2, got %d", period)
	}
	if n < 2*period {
		return nil, &ShortSeriesError{Length: n, Period: period}
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("series has a missing value at position %d", i)
		}
	}

	trend := centeredMovingAverage(values, period)

	sums := make([]float64, period)
	counts := make([]int, period)
	for i := range values {
		if math.IsNaN(trend[i]) {
			continue
		}
		sums[i%period] += values[i] - trend[i]
		counts[i%period]++
	}
	averages := make([]float64, period)
	var mean float64
	for j := range averages {
		averages[j] = sums[j] / float64(counts[j])
		mean += averages[j]
	}
	mean /= float64(period)
	for j := range averages {
		averages[j] -= mean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range values {
		seasonal[i] = averages[i%period]
		residual[i] = values[i] - trend[i] - seasonal[i]
	}
	return &Decomposition{
		Observed: append([]float64(nil), values...),
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}, nil
}

// centeredMovingAverage uses a window of period values, or of period+1 values with
// half weights at both ends when the period is even.
func centeredMovingAverage(values []float64, period int) []float64 {
	weights := make([]float64, 0, period+1)
	if period%2 == 0 {
		weights = append(weights, 0.5)
		for i := 1; i < period; i++ {
			weights = append(weights, 1)
		}
		weights = append(weights, 0.5)
	} else {
		for i := 0; i < period; i++ {
			weights = append(weights, 1)
		}
	}
	half := len(weights) / 2
	out := make([]float64, len(values))
	for i := range values {
		if i < half || i+half >= len(values) {
			out[i] = math.NaN()
			continue
		}
		var acc float64
		for k, w := range weights {
			acc += w * values[i-half+k]
		}
		out[i] = acc / float64(period)
	}
	return out
}
