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

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
)

// MissingColumnError is returned when a configured column is absent from the input table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q is not present in the table", e.Column)
}

// InvalidGroupKeyError is returned when a group key column is absent from the categorical columns.
type InvalidGroupKeyError struct {
	Column string
}

func (e *InvalidGroupKeyError) Error() string {
	return fmt.Sprintf("group key column %q is not a categorical column of the table", e.Column)
}

// EmptyFeatureMatrixError is returned when the detector is given no feature column.
type EmptyFeatureMatrixError struct{}

func (e *EmptyFeatureMatrixError) Error() string {
	return "no z-score feature column available for anomaly detection"
}

// InsufficientDataError is returned when the table has fewer rows than the model needs.
type InsufficientDataError struct {
	Rows int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("anomaly detection needs at least %d rows, got %d", e.Min, e.Rows)
}

// UnknownContaminationError is returned when the operative contamination is not a configured one.
type UnknownContaminationError = api.UnknownContaminationError

func formatContamination(c float64) string {
	return api.FormatContamination(c)
}
