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
	"fmt"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Options struct {
	ConfigFile      string
	LogLevel        string
	MetricsSettings MetricsSettings
}

// ConfigFileStruct is the content of the pipeline configuration file.
type ConfigFileStruct struct {
	LogLevel        string               `yaml:"log-level,omitempty" json:"log-level,omitempty"`
	Ingest          api.Ingest           `yaml:"ingest" json:"ingest"`
	Feature         api.Feature          `yaml:"feature,omitempty" json:"feature,omitempty"`
	Anomaly         api.AnomalyDetection `yaml:"anomaly" json:"anomaly"`
	TimeSeries      api.TimeSeries       `yaml:"timeSeries,omitempty" json:"timeSeries,omitempty"`
	Write           api.Write            `yaml:"write" json:"write"`
	MetricsSettings MetricsSettings      `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

type MetricsSettings struct {
	PushGateway string               `yaml:"pushGateway,omitempty" json:"pushGateway,omitempty" validate:"omitempty,url" doc:"prometheus push gateway URL; metrics are pushed once at the end of the run"`
	JobName     string               `yaml:"jobName,omitempty" json:"jobName,omitempty" doc:"job label used when pushing metrics"`
	Prefix      string               `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"prefix added to each operational metric name"`
}

const defaultJobName = "anomaly_pipeline"

// ParseConfig creates the internal unmarshalled representation from the yaml configuration,
// fills defaults and validates it.
func ParseConfig(data []byte) (ConfigFileStruct, error) {
	var cfg ConfigFileStruct
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		logrus.Errorf("error when reading config file: %v", err)
		return cfg, err
	}
	cfg.SetDefaults()
	logrus.Debugf("config = %+v", cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *ConfigFileStruct) SetDefaults() {
	c.Ingest.Transactions.SetDefaults()
	if c.Ingest.Customers != nil {
		c.Ingest.Customers.SetDefaults()
	}
	c.Feature.SetDefaults()
	c.Anomaly.SetDefaults()
	c.TimeSeries.SetDefaults()
	c.Write.SetDefaults()
	if c.MetricsSettings.JobName == "" {
		c.MetricsSettings.JobName = defaultJobName
	}
}

// Validate checks the field constraints and the relations between stages.
func (c *ConfigFileStruct) Validate() error {
	if err := api.Validate(c); err != nil {
		return err
	}
	if c.TimeSeries.Enabled && c.Ingest.Customers == nil {
		return fmt.Errorf("timeSeries is enabled but ingest.customers is not configured")
	}
	if c.Feature.Customers.Enabled && c.Ingest.Customers == nil {
		return fmt.Errorf("feature.customers is enabled but ingest.customers is not configured")
	}
	for _, v := range c.Anomaly.ContaminationValues {
		if v == c.Anomaly.ContaminationValue {
			return nil
		}
	}
	return &api.UnknownContaminationError{Value: c.Anomaly.ContaminationValue, Configured: c.Anomaly.ContaminationValues}
}
