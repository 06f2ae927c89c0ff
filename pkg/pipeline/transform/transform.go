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

// Package transform holds whole-table transformations shared by the pipeline stages.
package transform

import (
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	log "github.com/sirupsen/logrus"
)

type Transformer interface {
	Transform(in *table.Table) (*table.Table, error)
}

type transformNone struct {
}

// Transform returns the table unchanged
func (t *transformNone) Transform(in *table.Table) (*table.Table, error) {
	return in, nil
}

// NewTransformNone create a new transform
func NewTransformNone() Transformer {
	log.Debugf("entering NewTransformNone")
	return &transformNone{}
}

// Chain applies transformers in order, stopping at the first error.
type Chain []Transformer

func (c Chain) Transform(in *table.Table) (*table.Table, error) {
	out := in
	for _, t := range c {
		var err error
		if out, err = t.Transform(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
