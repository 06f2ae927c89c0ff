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
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/encode"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/test"
	"github.com/benbjohnson/clock"
	minio "github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var flaggedFields = []table.Field{
	{Name: "CUENTA", Kind: table.KindCategory},
	{Name: "MES_ANIO", Kind: table.KindPeriod},
	{Name: "MONTO", Kind: table.KindFloat},
	{Name: "ANOMALIA", Kind: table.KindCategory},
}

func flaggedTable(t *testing.T) *table.Table {
	return test.MustTable(t, flaggedFields,
		config.GenericMap{"CUENTA": "0001", "MES_ANIO": table.Period{Year: 2024, Month: time.January}, "MONTO": 0.25, "ANOMALIA": "NO ANOMALO"},
		config.GenericMap{"CUENTA": "0001", "MES_ANIO": table.Period{Year: 2024, Month: time.January}, "MONTO": 0.99, "ANOMALIA": "ANOMALO"},
		config.GenericMap{"CUENTA": "0002", "MES_ANIO": table.Period{Year: 2024, Month: time.February}, "MONTO": 0.01, "ANOMALIA": "ANOMALO"},
	)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	opMetrics := operational.NewMetrics(&config.MetricsSettings{})
	w, err := NewWriter(opMetrics, api.Write{Type: api.WriteFile, File: &api.WriteFileDir{Directory: dir}}, nil)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), "anomalias/transacciones", flaggedTable(t)))
	info, err := os.Stat(filepath.Join(dir, "anomalias", "transacciones.parquet"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Equal(t, 3.0, testutil.ToFloat64(opMetrics.CreateRecordsWrittenCounter("file")))
}

func TestWriteStdout(t *testing.T) {
	w, err := NewWriter(nil, api.Write{Type: api.WriteStdout}, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	w.(*writeStdout).out = &buf

	require.NoError(t, w.Write(context.Background(), "anomalias/resumen", flaggedTable(t)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "# anomalias/resumen", lines[0])
	assert.JSONEq(t, `{"CUENTA":"0001","MES_ANIO":"2024-01","MONTO":0.25,"ANOMALIA":"NO ANOMALO"}`, lines[1])
}

func TestNewWriterValidation(t *testing.T) {
	_, err := NewWriter(nil, api.Write{Type: api.WriteFile}, nil)
	require.Error(t, err)
	_, err = NewWriter(nil, api.Write{Type: "loki"}, nil)
	require.Error(t, err)
}

type fakePutter struct {
	mock.Mock
	objects map[string][]byte
}

func (f *fakePutter) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := f.Called(bucket, object, size, opts)
	if err := args.Error(0); err != nil {
		return minio.UploadInfo{}, err
	}
	b, _ := io.ReadAll(reader)
	f.objects[object] = b
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(b))}, nil
}

func TestWriteS3(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2024, 7, 5, 8, 30, 0, 0, time.UTC))
	params := &api.WriteS3{
		Endpoint:        "localhost:9000",
		Bucket:          "cumplimiento",
		Prefix:          "resultados",
		PartitionByDate: true,
		ObjectMetadata:  map[string]string{"owner": "compliance"},
	}
	putter := &fakePutter{objects: map[string][]byte{}}
	putter.On("PutObject", "cumplimiento", "resultados/year=2024/month=07/day=05/anomalias/resumen.parquet", mock.Anything,
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.UserMetadata["owner"] == "compliance" &&
				opts.UserMetadata["rows"] == "3" &&
				opts.UserMetadata["created"] == "2024-07-05T08:30:00Z"
		})).Return(nil).Once()

	enc, err := encode.NewEncodeParquet(api.EncodeParquet{})
	require.NoError(t, err)
	opMetrics := operational.NewMetrics(&config.MetricsSettings{})
	records := opMetrics.CreateRecordsWrittenCounter("s3")
	w := newWriteS3(putter, params, enc, records, mockClock)
	assert.Equal(t, int64(0), params.WriteTimeout)
	assert.Equal(t, int64(defaultTimeOut), w.s3Params.WriteTimeout)

	require.NoError(t, w.Write(context.Background(), "anomalias/resumen", flaggedTable(t)))
	putter.AssertExpectations(t)
	assert.NotEmpty(t, putter.objects["resultados/year=2024/month=07/day=05/anomalias/resumen.parquet"])
	assert.Equal(t, 3.0, testutil.ToFloat64(records))

	putter.On("PutObject", "cumplimiento", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("no space left")).Once()
	err = w.Write(context.Background(), "anomalias/resumen", flaggedTable(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
	assert.Equal(t, 3.0, testutil.ToFloat64(records))
}

func TestObjectNameWithoutPartition(t *testing.T) {
	enc := encode.NewEncodeJSON()
	w := newWriteS3(&fakePutter{}, &api.WriteS3{Bucket: "b"}, enc, nil, clock.NewMock())
	assert.Equal(t, "series_tiempo/pronostico.jsonl", w.objectName("series_tiempo/pronostico"))
}

type fakeKafkaWriter struct {
	received []kafkago.Message
	err      error
}

func (f *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.received = append(f.received, msgs...)
	return nil
}

const testAlertsConfig = `---
log-level: debug
ingest:
  transactions:
    type: file
    file:
      filename: transacciones.jsonl
anomaly:
  colsFilter: [CUENTA]
  groupByCols: [CUENTA]
  contaminationValues: [0.05]
  contaminationValue: 0.05
write:
  type: stdout
  alerts:
    address: 1.2.3.4:9092
    topic: anomalias
    balancer: Hash
`

func TestAlerts(t *testing.T) {
	_, cfg := test.InitConfig(t, testAlertsConfig)
	opMetrics := operational.NewMetrics(&cfg.MetricsSettings)
	alerts, err := NewAlerts(opMetrics, cfg.Write.Alerts, "CUENTA", "ANOMALIA", "ANOMALO")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4:9092", alerts.kafkaParams.Address)
	kw := alerts.kafkaWriter.(*kafkago.Writer)
	assert.Equal(t, "anomalias", kw.Topic)
	assert.IsType(t, &kafkago.Hash{}, kw.Balancer)
	assert.Equal(t, 10*time.Second, kw.WriteTimeout)

	fw := &fakeKafkaWriter{}
	alerts.kafkaWriter = fw
	n, err := alerts.Publish(context.Background(), flaggedTable(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, fw.received, 2)
	assert.Equal(t, "0001", string(fw.received[0].Key))
	assert.JSONEq(t, `{"CUENTA":"0001","MES_ANIO":"2024-01","MONTO":0.99,"ANOMALIA":"ANOMALO"}`, string(fw.received[0].Value))
	assert.Equal(t, "0002", string(fw.received[1].Key))
	assert.Equal(t, 2.0, testutil.ToFloat64(alerts.recordsWritten))

	fw.err = errors.New("broker down")
	_, err = alerts.Publish(context.Background(), flaggedTable(t))
	require.Error(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(alerts.recordsWritten))

	_, err = alerts.Publish(context.Background(), test.MustTable(t, flaggedFields[:1]))
	var notFound *table.ColumnNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAlertsNothingToPublish(t *testing.T) {
	alerts, err := NewAlerts(nil, &api.WriteAlerts{Address: "localhost:9092", Topic: "t"}, "CUENTA", "ANOMALIA", "ANOMALO")
	require.NoError(t, err)
	fw := &fakeKafkaWriter{err: errors.New("must not be called")}
	alerts.kafkaWriter = fw
	tb := test.MustTable(t, flaggedFields,
		config.GenericMap{"CUENTA": "0001", "ANOMALIA": "NO ANOMALO"})
	n, err := alerts.Publish(context.Background(), tb)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = NewAlerts(nil, &api.WriteAlerts{Topic: "t"}, "CUENTA", "ANOMALIA", "ANOMALO")
	require.Error(t, err)
}

func TestWriteFake(t *testing.T) {
	w := NewWriteFake()
	require.NoError(t, w.Write(context.Background(), "a", flaggedTable(t)))
	require.NoError(t, w.Write(context.Background(), "b", flaggedTable(t)))
	assert.Equal(t, []string{"a", "b"}, w.Order)
	assert.Equal(t, 3, w.Tables["b"].Len())
}
