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

package write

import (
	"context"
	"sync"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	log "github.com/sirupsen/logrus"
)

// WriteFake keeps written tables in memory.
type WriteFake struct {
	mu     sync.Mutex
	Tables map[string]*table.Table
	Order  []string
}

// Write stores the table under its name.
func (w *WriteFake) Write(_ context.Context, name string, t *table.Table) error {
	log.Debugf("writeFake: %s, number of rows = %d", name, t.Len())
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Tables[name] = t
	w.Order = append(w.Order, name)
	return nil
}

// NewWriteFake creates an empty in-memory sink.
func NewWriteFake() *WriteFake {
	return &WriteFake{Tables: map[string]*table.Table{}}
}
