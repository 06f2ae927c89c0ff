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

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownContaminationError(t *testing.T) {
	err := &UnknownContaminationError{Value: 0.1, Configured: []float64{0.01, 0.05}}
	assert.EqualError(t, err, "contamination value 0.1 is not one of the configured values [0.01, 0.05]")
	assert.Equal(t, "0.05", FormatContamination(0.05))
	assert.Equal(t, "0.3", FormatContamination(0.3))
}
