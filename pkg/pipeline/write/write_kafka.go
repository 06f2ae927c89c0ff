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
	"context"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/encode"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	defaultWriteTimeoutSeconds = int64(10)
	alertsSink                 = "kafka_alerts"
)

type kafkaWriteMessage interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Alerts publishes the rows flagged as anomalous, one JSON message per row keyed by account.
type Alerts struct {
	kafkaParams    *api.WriteAlerts
	kafkaWriter    kafkaWriteMessage
	accountCol     string
	flagCol        string
	anomalousFlag  string
	recordsWritten prometheus.Counter
}

// NewAlerts creates the kafka alert sink. Rows are selected where flagCol equals anomalousFlag.
func NewAlerts(opMetrics *operational.Metrics, params *api.WriteAlerts, accountCol, flagCol, anomalousFlag string) (*Alerts, error) {
	if err := api.Validate(params); err != nil {
		return nil, err
	}
	if opMetrics == nil {
		opMetrics = operational.NewMetrics(nil)
	}
	log.Debugf("NewAlerts, config = %+v", params)

	var balancer kafkago.Balancer
	switch params.Balancer {
	case api.BalancerRoundRobin:
		balancer = &kafkago.RoundRobin{}
	case api.BalancerLeastBytes:
		balancer = &kafkago.LeastBytes{}
	case api.BalancerHash:
		balancer = &kafkago.Hash{}
	case api.BalancerCrc32:
		balancer = &kafkago.CRC32Balancer{}
	case api.BalancerMurmur2:
		balancer = &kafkago.Murmur2Balancer{}
	default:
		balancer = nil
	}

	writeTimeoutSecs := defaultWriteTimeoutSeconds
	if params.WriteTimeout != 0 {
		writeTimeoutSecs = params.WriteTimeout
	}

	kafkaWriter := kafkago.Writer{
		Addr:         kafkago.TCP(params.Address),
		Topic:        params.Topic,
		Balancer:     balancer,
		WriteTimeout: time.Duration(writeTimeoutSecs) * time.Second,
		BatchSize:    params.BatchSize,
	}

	return &Alerts{
		kafkaParams:    params,
		kafkaWriter:    &kafkaWriter,
		accountCol:     accountCol,
		flagCol:        flagCol,
		anomalousFlag:  anomalousFlag,
		recordsWritten: opMetrics.CreateRecordsWrittenCounter(alertsSink),
	}, nil
}

// Publish sends every anomalous row of the flagged table and returns the number of messages.
func (a *Alerts) Publish(ctx context.Context, flagged *table.Table) (int, error) {
	for _, c := range []string{a.accountCol, a.flagCol} {
		if !flagged.Has(c) {
			return 0, &table.ColumnNotFoundError{Column: c}
		}
	}
	var msgs []kafkago.Message
	for i := 0; i < flagged.Len(); i++ {
		if table.FormatValue(flagged.Value(i, a.flagCol)) != a.anomalousFlag {
			continue
		}
		value, err := encode.MarshalRow(flagged.Row(i))
		if err != nil {
			return 0, errors.Wrapf(err, "encoding row %d", i)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(table.FormatValue(flagged.Value(i, a.accountCol))),
			Value: value,
		})
	}
	if len(msgs) == 0 {
		log.Info("no anomalous rows to publish")
		return 0, nil
	}
	if err := a.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		return 0, errors.Wrapf(err, "publishing %d alerts to %s", len(msgs), a.kafkaParams.Topic)
	}
	a.recordsWritten.Add(float64(len(msgs)))
	log.Infof("published %d alerts to topic %s", len(msgs), a.kafkaParams.Topic)
	return len(msgs), nil
}

// Close flushes and closes the underlying kafka writer.
func (a *Alerts) Close() error {
	if c, ok := a.kafkaWriter.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
