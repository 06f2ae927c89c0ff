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

// Package iforest implements the isolation forest outlier detector.
//
// Scores follow the usual convention of the original algorithm: the anomaly score of a sample
// is 2^(-E[h(x)]/c(psi)) where h is the path length in a tree and c the average path length of
// an unsuccessful binary search tree lookup. Score returns the opposite of it so that lower
// values are more abnormal, and Predict labels the `contamination` lowest scored fraction of the
// training set as outliers.
package iforest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	// MinSamples is the smallest training set the model accepts.
	MinSamples = 2

	Outlier = -1
	Inlier  = 1

	eulerGamma = 0.5772156649015329
)

// Config of a forest.
type Config struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// Forest is a fitted isolation forest. It is safe for concurrent scoring once fitted.
type Forest struct {
	config    Config
	psi       int
	trees     []*node
	threshold float64
	fitted    bool
}

// InsufficientSamplesError is returned when the training matrix has too few rows.
type InsufficientSamplesError struct {
	Rows int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("isolation forest needs at least %d samples, got %d", MinSamples, e.Rows)
}

// New checks the configuration and returns an unfitted forest.
func New(cfg Config) (*Forest, error) {
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("trees must be positive, got %d", cfg.Trees)
	}
	if cfg.SampleSize <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", cfg.SampleSize)
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 1 {
		return nil, fmt.Errorf("contamination must be in (0, 1), got %v", cfg.Contamination)
	}
	return &Forest{config: cfg}, nil
}

// Fit builds the trees on the data matrix (one row per sample) and sets the decision
// threshold from the training scores.
func (f *Forest) Fit(data [][]float64) error {
	n := len(data)
	if n < MinSamples {
		return &InsufficientSamplesError{Rows: n}
	}
	width := len(data[0])
	if width == 0 {
		return fmt.Errorf("samples have no features")
	}
	for i, row := range data {
		if len(row) != width {
			return fmt.Errorf("sample %d has %d features, expected %d", i, len(row), width)
		}
	}

	rng := rand.New(rand.NewSource(f.config.Seed))
	f.psi = f.config.SampleSize
	if f.psi > n {
		f.psi = n
	}
	heightLimit := int(math.Ceil(math.Log2(float64(f.psi))))
	f.trees = make([]*node, f.config.Trees)
	for t := range f.trees {
		sample := rng.Perm(n)[:f.psi]
		f.trees[t] = grow(data, sample, 0, heightLimit, rng)
	}
	f.fitted = true

	scores := f.scores(data)
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	f.threshold = percentile(sorted, 100*f.config.Contamination)
	return nil
}

// Score returns the opposite of the anomaly score of every sample; the lower, the more abnormal.
func (f *Forest) Score(data [][]float64) ([]float64, error) {
	if !f.fitted {
		return nil, fmt.Errorf("forest is not fitted")
	}
	return f.scores(data), nil
}

// Predict labels every sample with Outlier (-1) or Inlier (1).
func (f *Forest) Predict(data [][]float64) ([]int, error) {
	scores, err := f.Score(data)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(scores))
	for i, s := range scores {
		if s < f.threshold {
			labels[i] = Outlier
		} else {
			labels[i] = Inlier
		}
	}
	return labels, nil
}

// Threshold is the score below which samples are outliers.
func (f *Forest) Threshold() float64 {
	return f.threshold
}

func (f *Forest) scores(data [][]float64) []float64 {
	norm := averagePathLength(f.psi)
	out := make([]float64, len(data))
	for i, x := range data {
		var total float64
		for _, t := range f.trees {
			total += t.pathLength(x, 0)
		}
		mean := total / float64(len(f.trees))
		if norm == 0 {
			out[i] = -1
			continue
		}
		out[i] = -math.Pow(2, -mean/norm)
	}
	return out
}

// averagePathLength is c(n), the average path length of an unsuccessful search in a binary search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// percentile interpolates linearly between the closest ranks of sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
