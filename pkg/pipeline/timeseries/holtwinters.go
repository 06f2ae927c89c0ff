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

// smoothingGrid holds the candidate values of alpha, beta and gamma tried by Fit.
var smoothingGrid = []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95}

// HoltWinters is an exponential smoothing model with additive trend and additive seasonality.
type HoltWinters struct {
	Alpha, Beta, Gamma float64
	Period             int

	level    float64
	trend    float64
	seasonal []float64
	fitted   []float64
	n        int
	sse      float64
}

// FitHoltWinters selects the smoothing parameters minimizing the one step ahead squared error.
func FitHoltWinters(values []float64, period int) (*HoltWinters, error) {
	if period < 2 {
		return nil, fmt.Errorf("seasonal period must be at least 2, got %d", period)
	}
	if len(values) < 2*period {
		return nil, &ShortSeriesError{Length: len(values), Period: period}
	}
	var best *HoltWinters
	for _, a := range smoothingGrid {
		for _, b := range smoothingGrid {
			for _, g := range smoothingGrid {
				m := &HoltWinters{Alpha: a, Beta: b, Gamma: g, Period: period}
				m.run(values)
				if best == nil || m.sse < best.sse {
					best = m
				}
			}
		}
	}
	log.Debugf("holt-winters alpha=%v beta=%v gamma=%v sse=%v", best.Alpha, best.Beta, best.Gamma, best.sse)
	return best, nil
}

// run initializes the states from the first two cycles and smooths the whole series.
func (m *HoltWinters) run(values []float64) {
	p := m.Period
	var first, second float64
	for i := 0; i < p; i++ {
		first += values[i]
		second += values[p+i]
	}
	first /= float64(p)
	second /= float64(p)

	m.level = first
	m.trend = (second - first) / float64(p)
	m.seasonal = make([]float64, p)
	for i := 0; i < p; i++ {
		m.seasonal[i] = values[i] - first
	}
	m.n = len(values)
	m.fitted = make([]float64, len(values))
	m.sse = 0
	for t, y := range values {
		s := m.seasonal[t%p]
		m.fitted[t] = m.level + m.trend + s
		err := y - m.fitted[t]
		m.sse += err * err
		level := m.Alpha*(y-s) + (1-m.Alpha)*(m.level+m.trend)
		m.trend = m.Beta*(level-m.level) + (1-m.Beta)*m.trend
		m.seasonal[t%p] = m.Gamma*(y-level) + (1-m.Gamma)*s
		m.level = level
	}
}

// Fitted returns the one step ahead predictions over the training series.
func (m *HoltWinters) Fitted() []float64 {
	return append([]float64(nil), m.fitted...)
}

// Forecast extends the series by h steps.
func (m *HoltWinters) Forecast(h int) []float64 {
	out := make([]float64, h)
	for k := 1; k <= h; k++ {
		out[k-1] = m.level + float64(k)*m.trend + m.seasonal[(m.n+k-1)%m.Period]
	}
	return out
}

// Interval is a forecast with its 95% band.
type Interval struct {
	Forecast []float64
	Lower    []float64
	Upper    []float64
}

const confidenceZ = 1.96

// ForecastInterval adds a band of 1.96 standard deviations of the in-sample residuals.
func (m *HoltWinters) ForecastInterval(values []float64, h int) Interval {
	var mean float64
	for t, y := range values {
		mean += y - m.fitted[t]
	}
	mean /= float64(len(values))
	var variance float64
	for t, y := range values {
		d := y - m.fitted[t] - mean
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(len(values)))

	forecast := m.Forecast(h)
	out := Interval{Forecast: forecast, Lower: make([]float64, h), Upper: make([]float64, h)}
	for i, f := range forecast {
		out.Lower[i] = f - confidenceZ*sd
		out.Upper[i] = f + confidenceZ*sd
	}
	return out
}
