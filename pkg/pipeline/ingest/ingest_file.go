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

package ingest

import (
	"context"
	"os"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ingestFile struct {
	filename string
	decoder  decoder
	metrics  *metrics
}

// Ingest reads and decodes the whole file.
func (r *ingestFile) Ingest(_ context.Context) (*table.Table, error) {
	timer := r.metrics.stageDurationTimer()
	defer timer.ObserveSeconds()

	file, err := os.Open(r.filename)
	if err != nil {
		r.metrics.error("cannot open file")
		return nil, errors.Wrapf(err, "opening %s", r.filename)
	}
	defer func() {
		_ = file.Close()
	}()
	if info, err := file.Stat(); err == nil {
		r.metrics.ingestBytes.Add(float64(info.Size()))
	}
	t, err := r.decoder.decode(file)
	if err != nil {
		r.metrics.error("cannot decode")
		return nil, errors.Wrapf(err, "decoding %s", r.filename)
	}
	r.metrics.rowsProcessed.Add(float64(t.Len()))
	log.Infof("ingested %d rows and %d columns from %s", t.Len(), len(t.Fields()), r.filename)
	return t, nil
}
