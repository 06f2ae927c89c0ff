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
)

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	size      int
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// grow builds an isolation tree over the sample rows. A node becomes a leaf when the height limit
// is reached, when it holds a single row or when every feature is constant across its rows.
func grow(data [][]float64, rows []int, depth, heightLimit int, rng *rand.Rand) *node {
	if depth >= heightLimit || len(rows) <= 1 {
		return &node{size: len(rows)}
	}
	width := len(data[rows[0]])
	mins := make([]float64, width)
	maxs := make([]float64, width)
	for j := 0; j < width; j++ {
		mins[j], maxs[j] = math.Inf(1), math.Inf(-1)
	}
	for _, r := range rows {
		for j, v := range data[r] {
			mins[j] = math.Min(mins[j], v)
			maxs[j] = math.Max(maxs[j], v)
		}
	}
	candidates := make([]int, 0, width)
	for j := 0; j < width; j++ {
		if maxs[j] > mins[j] {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &node{size: len(rows)}
	}

	feature := candidates[rng.Intn(len(candidates))]
	lo, hi := mins[feature], maxs[feature]
	threshold := lo + rng.Float64()*(hi-lo)
	if threshold <= lo {
		threshold = math.Nextafter(lo, hi)
	}

	var left, right []int
	for _, r := range rows {
		if data[r][feature] < threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		size:      len(rows),
		left:      grow(data, left, depth+1, heightLimit, rng),
		right:     grow(data, right, depth+1, heightLimit, rng),
	}
}

func (n *node) pathLength(x []float64, depth int) float64 {
	if n.isLeaf() {
		return float64(depth) + averagePathLength(n.size)
	}
	if x[n.feature] < n.threshold {
		return n.left.pathLength(x, depth+1)
	}
	return n.right.pathLength(x, depth+1)
}
