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

package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkGenericMap_Copy(b *testing.B) {
	m := GenericMap{}
	for i := 0; i < 20; i++ {
		m[fmt.Sprintf("key-%d", i)] = fmt.Sprintf("value-%d", i)
	}

	for i := 0; i < b.N; i++ {
		_ = m.Copy()
	}
}

func TestGenericMap_Copy(t *testing.T) {
	m := GenericMap{"CUENTA": "A-1", "MONTO": 12.5}
	c := m.Copy()
	c["MONTO"] = 99.0
	require.Equal(t, 12.5, m["MONTO"])
	require.Equal(t, "A-1", c["CUENTA"])
}

func TestGenericMap_LookupString(t *testing.T) {
	table := []struct {
		name     string
		input    GenericMap
		expected string
		found    bool
	}{
		{"String", GenericMap{"k": "v"}, "v", true},
		{"Missing field", GenericMap{}, "", false},
		{"Not a string", GenericMap{"k": 3}, "", false},
	}

	for _, testCase := range table {
		t.Run(testCase.name, func(tt *testing.T) {
			actual, found := testCase.input.LookupString("k")
			require.Equal(tt, testCase.expected, actual)
			require.Equal(tt, testCase.found, found)
		})
	}
}
