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

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/encode"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
)

// Writer stores a result table under a relative name such as "anomalias/resumen".
// The sink adds the extension of its encoding.
type Writer interface {
	Write(ctx context.Context, name string, t *table.Table) error
}

// NewWriter creates the sink selected by the write type.
func NewWriter(opMetrics *operational.Metrics, cfg api.Write, clk clock.Clock) (Writer, error) {
	cfg.SetDefaults()
	if err := api.Validate(&cfg); err != nil {
		return nil, err
	}
	if opMetrics == nil {
		opMetrics = operational.NewMetrics(nil)
	}
	if clk == nil {
		clk = clock.New()
	}
	encoder, err := encode.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("NewWriter, type = %s", cfg.Type)
	records := opMetrics.CreateRecordsWrittenCounter(string(cfg.Type))
	switch cfg.Type {
	case api.WriteStdout:
		return newWriteStdout(encoder, records), nil
	case api.WriteFile:
		return newWriteFile(cfg.File.Directory, encoder, records), nil
	case api.WriteTypeS3:
		client, err := connectS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		return newWriteS3(client, cfg.S3, encoder, records, clk), nil
	}
	return nil, fmt.Errorf("unknown write type %q", cfg.Type)
}
