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
	"os"
	"path/filepath"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/encode"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type writeFile struct {
	directory      string
	encoder        encode.Encoder
	recordsWritten prometheus.Counter
}

func newWriteFile(directory string, encoder encode.Encoder, records prometheus.Counter) *writeFile {
	return &writeFile{directory: directory, encoder: encoder, recordsWritten: records}
}

// Write encodes the table into <directory>/<name>.<ext>, creating parent directories.
func (w *writeFile) Write(_ context.Context, name string, t *table.Table) error {
	path := filepath.Join(w.directory, filepath.FromSlash(name)+"."+w.encoder.Extension())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory of %s", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := w.encoder.Encode(t, file); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", path)
	}
	w.recordsWritten.Add(float64(t.Len()))
	log.Infof("wrote %d rows to %s", t.Len(), path)
	return nil
}
