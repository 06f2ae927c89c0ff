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

const TagYaml = "yaml"
const TagDoc = "doc"
const TagEnum = "enum"

// Note: items beginning with doc: "## title" are top level items that get divided into sections inside api.md.

type API struct {
	IngestTable      IngestTable      `yaml:"ingest" doc:"## Ingest API\nFollowing is the supported API format for reading an input table:\n"`
	Feature          Feature          `yaml:"feature" doc:"## Feature API\nFollowing is the supported API format for feature derivation:\n"`
	AnomalyDetection AnomalyDetection `yaml:"anomaly" doc:"## Anomaly detection API\nFollowing is the supported API format for the anomaly detection engine:\n"`
	TimeSeries       TimeSeries       `yaml:"timeSeries" doc:"## Time series API\nFollowing is the supported API format for the monthly time series stage:\n"`
	Write            Write            `yaml:"write" doc:"## Write API\nFollowing is the supported API format for persisting result tables:\n"`
}
