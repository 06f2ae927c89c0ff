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

type WriteType string
type ParquetCompression string
type KafkaBalancer string

const (
	WriteFile   WriteType = "file"
	WriteTypeS3 WriteType = "s3"
	WriteStdout WriteType = "stdout"

	CompressionSnappy ParquetCompression = "snappy"
	CompressionGzip   ParquetCompression = "gzip"
	CompressionZstd   ParquetCompression = "zstd"
	CompressionNone   ParquetCompression = "none"

	BalancerRoundRobin KafkaBalancer = "RoundRobin"
	BalancerLeastBytes KafkaBalancer = "LeastBytes"
	BalancerHash       KafkaBalancer = "Hash"
	BalancerCrc32      KafkaBalancer = "Crc32"
	BalancerMurmur2    KafkaBalancer = "Murmur2"
)

type WriteTypeEnum struct {
	File   string `yaml:"file" doc:"write parquet files under a local directory"`
	S3     string `yaml:"s3" doc:"write parquet objects to an S3 compatible object store"`
	Stdout string `yaml:"stdout" doc:"print result tables as JSON lines"`
}

type ParquetCompressionEnum struct {
	Snappy string `yaml:"snappy" doc:"snappy compression"`
	Gzip   string `yaml:"gzip" doc:"gzip compression"`
	Zstd   string `yaml:"zstd" doc:"zstandard compression"`
	None   string `yaml:"none" doc:"no compression"`
}

type KafkaBalancerEnum struct {
	RoundRobin string `yaml:"RoundRobin" doc:"RoundRobin balancer"`
	LeastBytes string `yaml:"LeastBytes" doc:"LeastBytes balancer"`
	Hash       string `yaml:"Hash" doc:"Hash balancer"`
	Crc32      string `yaml:"Crc32" doc:"Crc32 balancer"`
	Murmur2    string `yaml:"Murmur2" doc:"Murmur2 balancer"`
}

type Write struct {
	Type    WriteType     `yaml:"type" json:"type" enum:"WriteTypeEnum" validate:"required,oneof=file s3 stdout" doc:"(enum) one of the following:"`
	File    *WriteFileDir `yaml:"file,omitempty" json:"file,omitempty" validate:"required_if=Type file" doc:"local directory sink"`
	S3      *WriteS3      `yaml:"s3,omitempty" json:"s3,omitempty" validate:"required_if=Type s3" doc:"object store sink"`
	Parquet EncodeParquet `yaml:"parquet,omitempty" json:"parquet,omitempty" doc:"parquet encoding options"`
	Alerts  *WriteAlerts  `yaml:"alerts,omitempty" json:"alerts,omitempty" doc:"publish anomalous transactions to kafka"`
}

type WriteFileDir struct {
	Directory string `yaml:"directory" json:"directory" validate:"required" doc:"directory into which result files are written"`
}

type WriteS3 struct {
	Endpoint        string            `yaml:"endpoint" json:"endpoint" validate:"required" doc:"address of s3 server"`
	AccessKeyID     string            `yaml:"accessKeyId" json:"accessKeyId" doc:"username to connect to server"`
	SecretAccessKey string            `yaml:"secretAccessKey" json:"secretAccessKey" doc:"password to connect to server"`
	Bucket          string            `yaml:"bucket" json:"bucket" validate:"required" doc:"bucket into which to store objects"`
	Prefix          string            `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"prefix prepended to every object name"`
	Secure          bool              `yaml:"secure,omitempty" json:"secure,omitempty" doc:"use TLS to reach the server"`
	PartitionByDate bool              `yaml:"partitionByDate,omitempty" json:"partitionByDate,omitempty" doc:"store objects under year=/month=/day= of the run date"`
	WriteTimeout    int64             `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty" validate:"gte=0" doc:"timeout (in seconds) for each write operation"`
	ObjectMetadata  map[string]string `yaml:"objectMetadata,omitempty" json:"objectMetadata,omitempty" doc:"user metadata attached to every object (key/value pairs)"`
}

type EncodeParquet struct {
	Compression ParquetCompression `yaml:"compression,omitempty" json:"compression,omitempty" enum:"ParquetCompressionEnum" validate:"omitempty,oneof=snappy gzip zstd none" doc:"(enum) compression codec (default: snappy):"`
}

type WriteAlerts struct {
	Address      string        `yaml:"address" json:"address" validate:"required" doc:"address of kafka server"`
	Topic        string        `yaml:"topic" json:"topic" validate:"required" doc:"kafka topic to write to"`
	Balancer     KafkaBalancer `yaml:"balancer,omitempty" json:"balancer,omitempty" enum:"KafkaBalancerEnum" validate:"omitempty,oneof=RoundRobin LeastBytes Hash Crc32 Murmur2" doc:"(enum) one of the following:"`
	WriteTimeout int64         `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty" validate:"gte=0" doc:"timeout (in seconds) for write operation performed by the Writer"`
	BatchSize    int           `yaml:"batchSize,omitempty" json:"batchSize,omitempty" validate:"gte=0" doc:"limit on how many messages will be buffered before being sent to a partition"`
}

func (w *Write) SetDefaults() {
	if w.Parquet.Compression == "" {
		w.Parquet.Compression = CompressionSnappy
	}
}
