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

package encode

import (
	"fmt"
	"io"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	log "github.com/sirupsen/logrus"
)

// Encoder serializes a whole table.
type Encoder interface {
	Encode(t *table.Table, w io.Writer) error
	// Extension is the file name extension of the encoded tables, without the dot.
	Extension() string
}

// NewEncoder returns the encoder used by a sink: parquet for files and objects, JSON lines for stdout.
func NewEncoder(cfg api.Write) (Encoder, error) {
	cfg.SetDefaults()
	log.Debugf("NewEncoder, type = %s", cfg.Type)
	switch cfg.Type {
	case api.WriteStdout:
		return NewEncodeJSON(), nil
	case api.WriteFile, api.WriteTypeS3:
		return NewEncodeParquet(cfg.Parquet)
	}
	return nil, fmt.Errorf("no encoder for write type %q", cfg.Type)
}
