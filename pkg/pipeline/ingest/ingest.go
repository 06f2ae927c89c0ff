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
	"fmt"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	log "github.com/sirupsen/logrus"
)

// Ingester loads a whole table.
type Ingester interface {
	Ingest(ctx context.Context) (*table.Table, error)
}

// NewIngester creates the ingester of one input table. The name labels its metrics.
func NewIngester(opMetrics *operational.Metrics, name string, cfg api.IngestTable) (Ingester, error) {
	cfg.SetDefaults()
	if err := api.Validate(&cfg); err != nil {
		return nil, err
	}
	schema, err := parseSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}
	if opMetrics == nil {
		opMetrics = operational.NewMetrics(nil)
	}
	m := newMetrics(opMetrics, name)
	log.Debugf("NewIngester %s, config = %+v", name, cfg)
	switch cfg.Type {
	case api.IngestFile:
		return &ingestFile{
			filename: cfg.File.Filename,
			decoder:  decoder{format: cfg.Format, schema: schema},
			metrics:  m,
		}, nil
	case api.IngestS3:
		client, err := connectS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		return newIngestS3(client, cfg.S3, decoder{format: cfg.Format, schema: schema}, m), nil
	}
	return nil, fmt.Errorf("unknown ingest type %q", cfg.Type)
}

func parseSchema(in map[string]string) (map[string]table.Kind, error) {
	out := make(map[string]table.Kind, len(in))
	for col, k := range in {
		kind, err := table.ParseKind(k)
		if err != nil {
			return nil, fmt.Errorf("schema of column %s: %w", col, err)
		}
		out[col] = kind
	}
	return out, nil
}
