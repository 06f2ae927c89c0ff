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
	"fmt"
	"strconv"
	"strings"
)

// UnknownContaminationError is returned when the operative contamination is not one of the configured values.
type UnknownContaminationError struct {
	Value      float64
	Configured []float64
}

func (e *UnknownContaminationError) Error() string {
	configured := make([]string, len(e.Configured))
	for i, c := range e.Configured {
		configured[i] = FormatContamination(c)
	}
	return fmt.Sprintf("contamination value %s is not one of the configured values [%s]",
		FormatContamination(e.Value), strings.Join(configured, ", "))
}

// FormatContamination writes c with the shortest decimal representation, e.g. 0.05.
func FormatContamination(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
