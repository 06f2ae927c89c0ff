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
	"io"
	"math"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type encodeJSON struct{}

// NewEncodeJSON encodes tables as JSON lines, one object per row.
func NewEncodeJSON() Encoder {
	return &encodeJSON{}
}

func (e *encodeJSON) Extension() string {
	return "jsonl"
}

func (e *encodeJSON) Encode(t *table.Table, w io.Writer) error {
	stream := jsonAPI.BorrowStream(w)
	defer jsonAPI.ReturnStream(stream)
	for i := 0; i < t.Len(); i++ {
		stream.WriteVal(JSONRow(t.Row(i)))
		stream.WriteRaw("\n")
		if stream.Error != nil {
			return errors.Wrapf(stream.Error, "encoding row %d", i)
		}
		if stream.Buffered() > 64*1024 {
			if err := stream.Flush(); err != nil {
				return err
			}
		}
	}
	return stream.Flush()
}

// JSONRow converts cells into JSON friendly values: periods as "YYYY-MM", timestamps as
// RFC3339 and missing values as null.
func JSONRow(row config.GenericMap) config.GenericMap {
	out := make(config.GenericMap, len(row))
	for k, v := range row {
		switch x := v.(type) {
		case table.Period:
			out[k] = x.String()
		case time.Time:
			out[k] = x.Format(time.RFC3339)
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				out[k] = nil
			} else {
				out[k] = x
			}
		default:
			out[k] = v
		}
	}
	return out
}

// MarshalRow encodes a single row as a JSON object.
func MarshalRow(row config.GenericMap) ([]byte, error) {
	return jsonAPI.Marshal(JSONRow(row))
}
