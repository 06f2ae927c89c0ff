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

package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

const testConfig = `---
log-level: debug
ingest:
  transactions:
    type: file
    file:
      filename: /data/trx.jsonl
    schema:
      CUENTA: string
      MES_ANIO: period
      MONTO: float
anomaly:
  colsFilter: [CUENTA, MES_ANIO, PAIS_ORIGEN_DESTINO_TRX, MONTO]
  groupByCols: [CUENTA, MES_ANIO]
  minGroupSize: 10
  contaminationValues: [0.01, 0.05]
  contaminationValue: 0.05
write:
  type: file
  file:
    directory: /tmp/out
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, api.IngestFile, cfg.Ingest.Transactions.Type)
	require.Equal(t, api.FormatJSONLines, cfg.Ingest.Transactions.Format)
	require.Equal(t, "period", cfg.Ingest.Transactions.Schema["MES_ANIO"])
	require.Equal(t, []float64{0.01, 0.05}, cfg.Anomaly.ContaminationValues)
	require.Equal(t, 10, cfg.Anomaly.MinGroupSize)
	require.Equal(t, api.DefaultTrees, cfg.Anomaly.Trees)
	require.Equal(t, int64(api.DefaultSeed), cfg.Anomaly.GetSeed())
	require.Equal(t, api.CompressionSnappy, cfg.Write.Parquet.Compression)
	require.Equal(t, defaultJobName, cfg.MetricsSettings.JobName)
}

func TestParseConfigStrict(t *testing.T) {
	_, err := ParseConfig([]byte(testConfig + "unknownField: 1\n"))
	require.Error(t, err)
}

func TestParseConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *ConfigFileStruct)
		field  string
	}{
		{"contamination out of range", func(c *ConfigFileStruct) { c.Anomaly.ContaminationValues = []float64{0.01, 1.5} }, "contaminationValues[1]"},
		{"empty columns", func(c *ConfigFileStruct) { c.Anomaly.ColsFilter = nil }, "colsFilter"},
		{"missing file source", func(c *ConfigFileStruct) { c.Write.File = nil }, "file"},
		{"bad kind", func(c *ConfigFileStruct) { c.Ingest.Transactions.Schema["MONTO"] = "money" }, "schema[MONTO]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(testConfig))
			require.NoError(t, err)
			tc.mutate(&cfg)
			err = cfg.Validate()
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Equal(t, tc.field, verrs[0].Field())
		})
	}
}

func TestParseConfigOperativeContamination(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)
	cfg.Anomaly.ContaminationValue = 0.1
	err = cfg.Validate()
	var unknown *api.UnknownContaminationError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, 0.1, unknown.Value)
	require.Equal(t, []float64{0.01, 0.05}, unknown.Configured)
}

func TestParseConfigTimeSeriesNeedsCustomers(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)
	cfg.TimeSeries.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "ingest.customers")
}

func TestParseConfigS3Sink(t *testing.T) {
	conf := strings.Replace(testConfig, `write:
  type: file
  file:
    directory: /tmp/out
`, `write:
  type: s3
  s3:
    endpoint: minio:9000
    bucket: anomalias
    partitionByDate: true
`, 1)
	cfg, err := ParseConfig([]byte(conf))
	require.NoError(t, err)
	require.Equal(t, api.WriteTypeS3, cfg.Write.Type)
	require.NotNil(t, cfg.Write.S3)
	require.Equal(t, "anomalias", cfg.Write.S3.Bucket)
	require.True(t, cfg.Write.S3.PartitionByDate)
}

func TestJSONRoundTrip(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)
	b, err := json.Marshal(cfg.Anomaly)
	require.NoError(t, err)
	require.Contains(t, string(b), `"contaminationValues":[0.01,0.05]`)
}
