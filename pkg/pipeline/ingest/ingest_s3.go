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
	"io"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// objectGetter is the part of the object store client used to read an input object.
type objectGetter interface {
	GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type minioGetter struct {
	client *minio.Client
}

func (m *minioGetter) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return m.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
}

type ingestS3 struct {
	params  *api.IngestS3Source
	client  objectGetter
	decoder decoder
	metrics *metrics
}

func newIngestS3(client objectGetter, params *api.IngestS3Source, d decoder, m *metrics) *ingestS3 {
	return &ingestS3{params: params, client: client, decoder: d, metrics: m}
}

// Ingest downloads and decodes the object.
func (r *ingestS3) Ingest(ctx context.Context) (*table.Table, error) {
	timer := r.metrics.stageDurationTimer()
	defer timer.ObserveSeconds()

	obj, err := r.client.GetObject(ctx, r.params.Bucket, r.params.Object)
	if err != nil {
		r.metrics.error("cannot get object")
		return nil, errors.Wrapf(err, "getting object %s/%s", r.params.Bucket, r.params.Object)
	}
	defer func() {
		_ = obj.Close()
	}()
	counted := &countingReader{r: obj}
	t, err := r.decoder.decode(counted)
	r.metrics.ingestBytes.Add(float64(counted.n))
	if err != nil {
		r.metrics.error("cannot decode")
		return nil, errors.Wrapf(err, "decoding object %s/%s", r.params.Bucket, r.params.Object)
	}
	r.metrics.rowsProcessed.Add(float64(t.Len()))
	log.Infof("ingested %d rows and %d columns from s3://%s/%s", t.Len(), len(t.Fields()), r.params.Bucket, r.params.Object)
	return t, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func connectS3(params *api.IngestS3Source) (objectGetter, error) {
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKeyID, params.SecretAccessKey, ""),
		Secure: params.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating S3 client")
	}
	log.Infof("S3 client created for %s", params.Endpoint)
	return &minioGetter{client: client}, nil
}
