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
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/utils"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const parquetBatchSize = 1024

type encodeParquet struct {
	compression api.ParquetCompression
	codec       compress.Codec
}

// NewEncodeParquet encodes tables as parquet files with one optional column per table column.
func NewEncodeParquet(cfg api.EncodeParquet) (Encoder, error) {
	if cfg.Compression == "" {
		cfg.Compression = api.CompressionSnappy
	}
	var codec compress.Codec
	switch cfg.Compression {
	case api.CompressionSnappy:
		codec = &parquet.Snappy
	case api.CompressionGzip:
		codec = &parquet.Gzip
	case api.CompressionZstd:
		codec = &parquet.Zstd
	case api.CompressionNone:
		codec = &parquet.Uncompressed
	default:
		return nil, fmt.Errorf("unknown parquet compression %q", cfg.Compression)
	}
	return &encodeParquet{compression: cfg.Compression, codec: codec}, nil
}

func (e *encodeParquet) Extension() string {
	return "parquet"
}

// Schema maps table kinds to parquet types: periods and text to strings, times to
// millisecond timestamps.
func Schema(name string, fields []table.Field) *parquet.Schema {
	group := parquet.Group{}
	for _, f := range fields {
		group[f.Name] = parquet.Optional(parquetNode(f.Kind))
	}
	return parquet.NewSchema(name, group)
}

func parquetNode(k table.Kind) parquet.Node {
	switch k {
	case table.KindInt:
		return parquet.Int(64)
	case table.KindFloat:
		return parquet.Leaf(parquet.DoubleType)
	case table.KindBool:
		return parquet.Leaf(parquet.BooleanType)
	case table.KindTime:
		return parquet.Timestamp(parquet.Millisecond)
	}
	return parquet.String()
}

func (e *encodeParquet) Encode(t *table.Table, w io.Writer) error {
	schema := Schema("table", t.Fields())
	kinds := map[string]table.Kind{}
	for _, f := range t.Fields() {
		kinds[f.Name] = f.Kind
	}
	columns := schema.Fields()

	writer := parquet.NewWriter(w, schema, parquet.Compression(e.codec))
	batch := make([]parquet.Row, 0, parquetBatchSize)
	flush := func() error {
		if _, err := writer.WriteRows(batch); err != nil {
			return errors.Wrap(err, "writing parquet rows")
		}
		batch = batch[:0]
		return nil
	}
	for i := 0; i < t.Len(); i++ {
		row := make(parquet.Row, len(columns))
		for c, col := range columns {
			v, err := parquetValue(kinds[col.Name()], t.Value(i, col.Name()))
			if err != nil {
				return errors.Wrapf(err, "row %d, column %s", i, col.Name())
			}
			if v.IsNull() {
				row[c] = v.Level(0, 0, c)
			} else {
				row[c] = v.Level(0, 1, c)
			}
		}
		batch = append(batch, row)
		if len(batch) == parquetBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "closing parquet writer")
	}
	log.Debugf("encoded %d rows as parquet (%s)", t.Len(), e.compression)
	return nil
}

func parquetValue(k table.Kind, v interface{}) (parquet.Value, error) {
	if table.IsMissing(v) {
		return parquet.NullValue(), nil
	}
	switch k {
	case table.KindInt:
		i, err := utils.ConvertToInt64(v)
		return parquet.Int64Value(i), err
	case table.KindFloat:
		f, err := utils.ConvertToFloat64(v)
		return parquet.DoubleValue(f), err
	case table.KindBool:
		b, err := utils.ConvertToBool(v)
		return parquet.BooleanValue(b), err
	case table.KindTime:
		if ts, ok := v.(time.Time); ok {
			return parquet.Int64Value(ts.UnixMilli()), nil
		}
		return parquet.NullValue(), fmt.Errorf("expected a time, got %T", v)
	}
	return parquet.ByteArrayValue([]byte(table.FormatValue(v))), nil
}
