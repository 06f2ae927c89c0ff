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
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
)

// ColumnPartition splits the analyzed columns into categorical and numerical sets.
// Every retained column belongs to exactly one of them, in the configured order.
type ColumnPartition struct {
	Categorical []string
	Numerical   []string
}

// PartitionColumns keeps the given columns of the table and partitions them by kind.
func PartitionColumns(t *table.Table, cols []string) (ColumnPartition, error) {
	var p ColumnPartition
	for _, name := range cols {
		f, ok := t.Field(name)
		if !ok {
			return ColumnPartition{}, &MissingColumnError{Column: name}
		}
		if f.Kind.IsNumeric() {
			p.Numerical = append(p.Numerical, name)
		} else {
			p.Categorical = append(p.Categorical, name)
		}
	}
	log.Infof("identified %d categorical columns", len(p.Categorical))
	log.Infof("identified %d numerical columns", len(p.Numerical))
	return p, nil
}

// Split projects the table into its categorical and numerical subsets.
func (p ColumnPartition) Split(t *table.Table) (categorical, numerical *table.Table, err error) {
	categorical, err = t.Select(p.Categorical...)
	if err != nil {
		return nil, nil, err
	}
	numerical, err = t.Select(p.Numerical...)
	if err != nil {
		return nil, nil, err
	}
	return categorical, numerical, nil
}
