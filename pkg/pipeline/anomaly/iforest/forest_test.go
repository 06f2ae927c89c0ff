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

package iforest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaussianWithOutliers(n, outliers int) [][]float64 {
	rng := rand.New(rand.NewSource(7))
	data := make([][]float64, 0, n+outliers)
	for i := 0; i < n; i++ {
		data = append(data, []float64{rng.NormFloat64(), rng.NormFloat64()})
	}
	for i := 0; i < outliers; i++ {
		data = append(data, []float64{8 + float64(i), -8 - float64(i)})
	}
	return data
}

func fitted(t *testing.T, data [][]float64, contamination float64) *Forest {
	f, err := New(Config{Trees: 100, SampleSize: 256, Contamination: contamination, Seed: 42})
	require.NoError(t, err)
	require.NoError(t, f.Fit(data))
	return f
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(0))
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	// 2*(ln(255)+gamma) - 2*255/256
	assert.InDelta(t, 10.2448, averagePathLength(256), 1e-4)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 4.0, percentile(sorted, 100))
	assert.InDelta(t, 2.5, percentile(sorted, 50), 1e-12)
	assert.InDelta(t, 1.15, percentile(sorted, 5), 1e-12)
	assert.Equal(t, 7.0, percentile([]float64{7}, 30))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Trees: 0, SampleSize: 256, Contamination: 0.1})
	require.Error(t, err)
	_, err = New(Config{Trees: 10, SampleSize: 0, Contamination: 0.1})
	require.Error(t, err)
	_, err = New(Config{Trees: 10, SampleSize: 256, Contamination: 1})
	require.Error(t, err)
	_, err = New(Config{Trees: 10, SampleSize: 256, Contamination: 0})
	require.Error(t, err)
}

func TestFitInsufficientSamples(t *testing.T) {
	f, err := New(Config{Trees: 10, SampleSize: 256, Contamination: 0.1, Seed: 42})
	require.NoError(t, err)
	err = f.Fit([][]float64{{1, 2}})
	var short *InsufficientSamplesError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 1, short.Rows)
}

func TestFitRaggedRows(t *testing.T) {
	f, err := New(Config{Trees: 10, SampleSize: 256, Contamination: 0.1, Seed: 42})
	require.NoError(t, err)
	require.Error(t, f.Fit([][]float64{{1, 2}, {3}}))
}

func TestScoreBeforeFit(t *testing.T) {
	f, err := New(Config{Trees: 10, SampleSize: 256, Contamination: 0.1, Seed: 42})
	require.NoError(t, err)
	_, err = f.Score([][]float64{{1}})
	require.Error(t, err)
}

func TestOutliersAreIsolated(t *testing.T) {
	data := gaussianWithOutliers(300, 3)
	f := fitted(t, data, 0.01)
	labels, err := f.Predict(data)
	require.NoError(t, err)
	require.Len(t, labels, len(data))
	for i := 300; i < 303; i++ {
		assert.Equal(t, Outlier, labels[i], "row %d", i)
	}

	scores, err := f.Score(data)
	require.NoError(t, err)
	for _, s := range scores {
		assert.True(t, s < 0 && s >= -1, "score %v out of range", s)
	}
	assert.Less(t, scores[302], scores[0])
}

func TestContaminationSetsFlaggedFraction(t *testing.T) {
	data := gaussianWithOutliers(500, 0)
	for _, c := range []float64{0.01, 0.05, 0.2} {
		labels, err := fitted(t, data, c).Predict(data)
		require.NoError(t, err)
		outliers := 0
		for _, l := range labels {
			require.Contains(t, []int{Outlier, Inlier}, l)
			if l == Outlier {
				outliers++
			}
		}
		expected := c * float64(len(data))
		assert.InDelta(t, expected, float64(outliers), math.Max(2, expected*0.1), "contamination %v", c)
	}
}

func TestDeterministic(t *testing.T) {
	data := gaussianWithOutliers(200, 5)
	first, err := fitted(t, data, 0.05).Predict(data)
	require.NoError(t, err)
	second, err := fitted(t, data, 0.05).Predict(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConstantData(t *testing.T) {
	data := [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}}
	f := fitted(t, data, 0.1)
	labels, err := f.Predict(data)
	require.NoError(t, err)
	assert.Equal(t, []int{Inlier, Inlier, Inlier, Inlier}, labels)
}
