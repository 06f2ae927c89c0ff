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
	"fmt"
	"io"
	"path"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/encode"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/benbjohnson/clock"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	pipelineS3Version = "1.0"
	defaultTimeOut    = 60
)

type objectPutter interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type writeS3 struct {
	s3Params       *api.WriteS3
	s3Client       objectPutter
	encoder        encode.Encoder
	recordsWritten prometheus.Counter
	clock          clock.Clock
}

func newWriteS3(client objectPutter, params *api.WriteS3, encoder encode.Encoder, records prometheus.Counter, clk clock.Clock) *writeS3 {
	p := *params
	if p.WriteTimeout == 0 {
		p.WriteTimeout = defaultTimeOut
	}
	return &writeS3{s3Params: &p, s3Client: client, encoder: encoder, recordsWritten: records, clock: clk}
}

// objectName is <prefix>/[year=YYYY/month=MM/day=DD/]<name>.<ext>.
func (s *writeS3) objectName(name string) string {
	parts := []string{s.s3Params.Prefix}
	if s.s3Params.PartitionByDate {
		now := s.clock.Now()
		parts = append(parts,
			fmt.Sprintf("year=%04d", now.Year()),
			fmt.Sprintf("month=%02d", now.Month()),
			fmt.Sprintf("day=%02d", now.Day()))
	}
	parts = append(parts, name+"."+s.encoder.Extension())
	return path.Join(parts...)
}

func (s *writeS3) metadata(t *table.Table) map[string]string {
	meta := make(map[string]string, len(s.s3Params.ObjectMetadata)+3)
	for k, v := range s.s3Params.ObjectMetadata {
		meta[k] = v
	}
	meta["version"] = pipelineS3Version
	meta["created"] = s.clock.Now().UTC().Format(time.RFC3339)
	meta["rows"] = fmt.Sprintf("%d", t.Len())
	return meta
}

// Write encodes the table in memory and uploads it as a single object.
func (s *writeS3) Write(ctx context.Context, name string, t *table.Table) error {
	b := new(bytes.Buffer)
	if err := s.encoder.Encode(t, b); err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	objectName := s.objectName(name)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.s3Params.WriteTimeout)*time.Second)
	defer cancel()
	uploadInfo, err := s.s3Client.PutObject(ctx, s.s3Params.Bucket, objectName, b, int64(b.Len()), minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: s.metadata(t),
	})
	if err != nil {
		return errors.Wrapf(err, "writing %s to bucket %s", objectName, s.s3Params.Bucket)
	}
	log.Debugf("uploadInfo = %v", uploadInfo)
	s.recordsWritten.Add(float64(t.Len()))
	log.Infof("wrote %d rows to s3://%s/%s", t.Len(), s.s3Params.Bucket, objectName)
	return nil
}

func connectS3(params *api.WriteS3) (*minio.Client, error) {
	s3Client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKeyID, params.SecretAccessKey, ""),
		Secure: params.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating S3 client")
	}
	found, err := s3Client.BucketExists(context.Background(), params.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "accessing S3 bucket %s", params.Bucket)
	}
	if !found {
		return nil, fmt.Errorf("bucket %s not found", params.Bucket)
	}
	log.Infof("Bucket %s found", params.Bucket)
	return s3Client, nil
}
