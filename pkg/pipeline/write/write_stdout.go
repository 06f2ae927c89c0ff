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
	"fmt"
	"io"
	"os"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/encode"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type writeStdout struct {
	out            io.Writer
	encoder        encode.Encoder
	recordsWritten prometheus.Counter
}

func newWriteStdout(encoder encode.Encoder, records prometheus.Counter) *writeStdout {
	return &writeStdout{out: os.Stdout, encoder: encoder, recordsWritten: records}
}

// Write prints a "# name" line followed by the encoded table.
func (w *writeStdout) Write(_ context.Context, name string, t *table.Table) error {
	log.Debugf("writeStdout: %s, number of rows = %d", name, t.Len())
	if _, err := fmt.Fprintf(w.out, "# %s\n", name); err != nil {
		return err
	}
	if err := w.encoder.Encode(t, w.out); err != nil {
		return err
	}
	w.recordsWritten.Add(float64(t.Len()))
	return nil
}
