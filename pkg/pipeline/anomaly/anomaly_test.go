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

package anomaly

import (
	"math"
	"testing"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/test"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigAnomaly = `---
log-level: debug
ingest:
  transactions:
    type: file
    file:
      filename: transacciones.jsonl
anomaly:
  colsFilter:
    - CUENTA
    - MES_ANIO
    - PAIS_ORIGEN_DESTINO_TRX
    - MONTO
    - DIAS_ENTRE_TRX
    - VARIACION_MONTO_MES_ANIO
    - ES_INTERNACIONAL
  groupByCols: [CUENTA]
  minGroupSize: 10
  contaminationValues: [0.01, 0.05]
  contaminationValue: 0.05
write:
  type: stdout
`

var (
	jan = table.Period{Year: 2024, Month: 1}
	feb = table.Period{Year: 2024, Month: 2}
)

func initEngine(t *testing.T, opMetrics *operational.Metrics) *Engine {
	_, cfg := test.InitConfig(t, testConfigAnomaly)
	engine, err := NewEngine(opMetrics, cfg.Anomaly)
	require.NoError(t, err)
	return engine
}

// 2 accounts over 2 months: account 0001 has 5 transactions, account 0002 has 95.
func endToEndTable(t *testing.T) *table.Table {
	return test.FakeTransactions(t, 42,
		test.AccountMonth{Account: "0001", Period: jan, Rows: 3},
		test.AccountMonth{Account: "0002", Period: jan, Rows: 50},
		test.AccountMonth{Account: "0001", Period: feb, Rows: 2},
		test.AccountMonth{Account: "0002", Period: feb, Rows: 45},
	)
}

func TestEngineEndToEnd(t *testing.T) {
	opMetrics := operational.NewMetrics(nil)
	engine := initEngine(t, opMetrics)
	input := endToEndTable(t)
	require.Equal(t, 100, input.Len())

	res, err := engine.Run(input)
	require.NoError(t, err)

	assert.Equal(t, []string{"z_score_MONTO", "z_score_DIAS_ENTRE_TRX", "z_score_VARIACION_MONTO_MES_ANIO", "z_score_ES_INTERNACIONAL"}, res.Features)

	// small account: every z-score is 0; large account: computed on the normalized values
	small := []int{0, 1, 2, 53, 54}
	var large []int
	for i := 0; i < 100; i++ {
		if input.Value(i, "CUENTA") == "0002" {
			large = append(large, i)
		}
	}
	require.Len(t, large, 95)
	for _, feature := range res.Features {
		z, err := res.Detection.Floats(feature)
		require.NoError(t, err)
		for _, pos := range small {
			assert.Equal(t, 0.0, z[pos], "%s row %d", feature, pos)
		}
	}
	normalized := NormalizeRange(input)
	monto, err := normalized.Floats("MONTO")
	require.NoError(t, err)
	values := make([]float64, len(large))
	for j, pos := range large {
		values[j] = monto[pos]
	}
	expected := sampleZ(values)
	z, err := res.Detection.Floats("z_score_MONTO")
	require.NoError(t, err)
	for j, pos := range large {
		assert.InDelta(t, expected[j], z[pos], 1e-9)
	}

	// row level output
	require.Equal(t, 100, res.Flagged.Len())
	assert.Equal(t, []string{"CUENTA", "MES_ANIO", "PAIS_ORIGEN_DESTINO_TRX", "MONTO", "MARCA_ANOMALIA"}, res.Flagged.Names())
	operative, err := res.Detection.Floats("anomaly_0.05")
	require.NoError(t, err)
	anomalous := 0
	for i := 0; i < 100; i++ {
		flag := res.Flagged.Value(i, "MARCA_ANOMALIA")
		if operative[i] == -1 {
			assert.Equal(t, FlagAnomalous, flag)
			anomalous++
		} else {
			assert.Equal(t, FlagNormal, flag)
		}
		assert.Equal(t, input.Value(i, "CUENTA"), res.Flagged.Value(i, "CUENTA"))
		amount := res.Flagged.Value(i, "MONTO").(float64)
		assert.True(t, amount >= 0 && amount <= 1)
	}
	assert.InDelta(t, 5, anomalous, 1)

	// summary
	require.Equal(t, 4, res.Summary.Len())
	keys := []struct {
		account string
		period  table.Period
		rows    int64
	}{
		{"0001", jan, 3}, {"0001", feb, 2}, {"0002", jan, 50}, {"0002", feb, 45},
	}
	for i, k := range keys {
		row := res.Summary.Row(i)
		assert.Equal(t, k.account, row["CUENTA"])
		assert.Equal(t, k.period, row["MES_ANIO"])
		for _, c := range []float64{0.01, 0.05} {
			total := row[AnomalousCountColumn(c)].(int64) + row[NormalCountColumn(c)].(int64)
			assert.Equal(t, k.rows, total, "group %d contamination %v", i, c)
		}
	}

	assert.Equal(t, float64(anomalous), testutil.ToFloat64(opMetrics.NewGauge(&anomaliesFlagged, "0.05")))
	assert.Equal(t, 100.0, testutil.ToFloat64(opMetrics.CreateRowsProcessedCounter(stageName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(opMetrics.NewCounter(&groupsSuppressed, "MONTO")))
}

func TestEngineDeterministic(t *testing.T) {
	engine := initEngine(t, nil)
	r1, err := engine.Run(endToEndTable(t))
	require.NoError(t, err)
	r2, err := engine.Run(endToEndTable(t))
	require.NoError(t, err)
	assert.Equal(t, r1.Flagged.Rows(), r2.Flagged.Rows())
	assert.Equal(t, r1.Summary.Rows(), r2.Summary.Rows())
}

func TestEngineMissingColumn(t *testing.T) {
	engine := initEngine(t, nil)
	input, err := endToEndTable(t).Select("CUENTA", "MES_ANIO", "MONTO")
	require.NoError(t, err)
	_, err = engine.Run(input)
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "PAIS_ORIGEN_DESTINO_TRX", missing.Column)
}

func TestEngineGroupKeyMustBeCategorical(t *testing.T) {
	cfg := api.AnomalyDetection{
		ColsFilter:          []string{"CUENTA", "MONTO"},
		GroupByCols:         []string{"MES_ANIO"},
		ContaminationValues: []float64{0.05},
		ContaminationValue:  0.05,
	}
	engine, err := NewEngine(nil, cfg)
	require.NoError(t, err)
	_, err = engine.Run(endToEndTable(t))
	var invalid *InvalidGroupKeyError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "MES_ANIO", invalid.Column)
}

func TestNewEngineValidation(t *testing.T) {
	valid := api.AnomalyDetection{
		ColsFilter:          []string{"MONTO"},
		GroupByCols:         []string{"CUENTA"},
		ContaminationValues: []float64{0.01, 0.05},
		ContaminationValue:  0.05,
	}
	_, err := NewEngine(nil, valid)
	require.NoError(t, err)

	unknown := valid
	unknown.ContaminationValue = 0.02
	_, err = NewEngine(nil, unknown)
	var unknownErr *UnknownContaminationError
	require.ErrorAs(t, err, &unknownErr)

	outOfRange := valid
	outOfRange.ContaminationValues = []float64{0.05, 1.5}
	_, err = NewEngine(nil, outOfRange)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "contaminationValues[1]", verrs[0].Field())

	noFilter := valid
	noFilter.ColsFilter = nil
	_, err = NewEngine(nil, noFilter)
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "colsFilter", verrs[0].Field())
}

func TestEngineAllMissingFeatureIsZero(t *testing.T) {
	input := endToEndTable(t)
	blank := make([]float64, input.Len())
	for i := range blank {
		blank[i] = math.NaN()
	}
	input, err := input.WithFloatColumn("MONTO", blank)
	require.NoError(t, err)
	engine := initEngine(t, nil)
	res, err := engine.Run(input)
	require.NoError(t, err)
	z, err := res.Detection.Floats("z_score_MONTO")
	require.NoError(t, err)
	for _, v := range z {
		assert.Equal(t, 0.0, v)
	}
}
