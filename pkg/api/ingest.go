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

package api

type IngestType string
type IngestFormat string

const (
	IngestFile IngestType = "file"
	IngestS3   IngestType = "s3"

	FormatJSONLines IngestFormat = "jsonl"
	FormatCSV       IngestFormat = "csv"
)

type IngestTypeEnum struct {
	File string `yaml:"file" doc:"read the table from a local file"`
	S3   string `yaml:"s3" doc:"read the table from an S3 compatible object store"`
}

type IngestFormatEnum struct {
	JSONLines string `yaml:"jsonl" doc:"one JSON object per line"`
	CSV       string `yaml:"csv" doc:"comma separated values with a header line"`
}

type ColumnKindEnum struct {
	String   string `yaml:"string" doc:"free text"`
	Category string `yaml:"category" doc:"categorical code"`
	Period   string `yaml:"period" doc:"year-month period, YYYY-MM"`
	Time     string `yaml:"time" doc:"timestamp, RFC3339 or YYYY-MM-DD"`
	Int      string `yaml:"int" doc:"integer number"`
	Float    string `yaml:"float" doc:"floating point number"`
	Bool     string `yaml:"bool" doc:"boolean"`
}

type Ingest struct {
	Transactions IngestTable  `yaml:"transactions" json:"transactions" validate:"required" doc:"transactions (or transaction features) table"`
	Customers    *IngestTable `yaml:"customers,omitempty" json:"customers,omitempty" doc:"customers table, needed by the time series stage"`
}

type IngestTable struct {
	Type   IngestType        `yaml:"type" json:"type" enum:"IngestTypeEnum" validate:"required,oneof=file s3" doc:"(enum) one of the following:"`
	Format IngestFormat      `yaml:"format,omitempty" json:"format,omitempty" enum:"IngestFormatEnum" validate:"omitempty,oneof=jsonl csv" doc:"(enum) input format (default: jsonl):"`
	File   *IngestFileSource `yaml:"file,omitempty" json:"file,omitempty" validate:"required_if=Type file" doc:"local file source"`
	S3     *IngestS3Source   `yaml:"s3,omitempty" json:"s3,omitempty" validate:"required_if=Type s3" doc:"object store source"`
	Schema map[string]string `yaml:"schema,omitempty" json:"schema,omitempty" validate:"dive,keys,required,endkeys,oneof=string category period time int float bool" doc:"column kinds by column name; undeclared columns are inferred"`
}

func (i *IngestTable) SetDefaults() {
	if i.Format == "" {
		i.Format = FormatJSONLines
	}
}

type IngestFileSource struct {
	Filename string `yaml:"filename" json:"filename" validate:"required" doc:"path of the input file"`
}

type IngestS3Source struct {
	Endpoint        string `yaml:"endpoint" json:"endpoint" validate:"required" doc:"address of s3 server"`
	AccessKeyID     string `yaml:"accessKeyId" json:"accessKeyId" doc:"username to connect to server"`
	SecretAccessKey string `yaml:"secretAccessKey" json:"secretAccessKey" doc:"password to connect to server"`
	Bucket          string `yaml:"bucket" json:"bucket" validate:"required" doc:"bucket holding the object"`
	Object          string `yaml:"object" json:"object" validate:"required" doc:"object name"`
	Secure          bool   `yaml:"secure,omitempty" json:"secure,omitempty" doc:"use TLS to reach the server"`
}
