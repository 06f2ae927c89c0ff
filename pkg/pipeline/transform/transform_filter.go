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

package transform

import (
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	log "github.com/sirupsen/logrus"
)

// Filter keeps the rows for which a boolean expression holds, e.g. `YEAR <= 2024 && MONTH != 2`.
// Numeric cells are exposed as float64, other cells by their text form.
type Filter struct {
	expression string
	evaluable  *govaluate.EvaluableExpression
}

// NewTransformFilter compiles the expression.
func NewTransformFilter(expression string) (*Filter, error) {
	log.Debugf("entering NewTransformFilter")
	evaluable, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", expression, err)
	}
	return &Filter{expression: expression, evaluable: evaluable}, nil
}

// Keep evaluates the expression against a row. Rows where a referenced column is missing are dropped.
func (f *Filter) Keep(row config.GenericMap) (bool, error) {
	for _, name := range f.evaluable.Vars() {
		if table.IsMissing(row[name]) {
			return false, nil
		}
	}
	params := make(map[string]interface{}, len(row))
	for k, v := range row {
		if n, ok := table.ToFloat(v); ok {
			params[k] = n
		} else {
			params[k] = table.FormatValue(v)
		}
	}
	result, err := f.evaluable.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", f.expression, err)
	}
	keep, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression %q returned %v (%T), expected a boolean", f.expression, result, result)
	}
	return keep, nil
}

// Transform returns the rows for which the expression is true, in order.
func (f *Filter) Transform(in *table.Table) (*table.Table, error) {
	var kept []int
	for i := 0; i < in.Len(); i++ {
		keep, err := f.Keep(in.Row(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if keep {
			kept = append(kept, i)
		}
	}
	log.Debugf("filter %q kept %d of %d rows", f.expression, len(kept), in.Len())
	return in.Take(kept), nil
}
