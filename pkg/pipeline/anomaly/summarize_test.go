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
	"testing"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detectedFields = []table.Field{
	{Name: "CUENTA", Kind: table.KindCategory},
	{Name: "MES_ANIO", Kind: table.KindPeriod},
	{Name: "PAIS_ORIGEN_DESTINO_TRX", Kind: table.KindCategory},
	{Name: "MONTO", Kind: table.KindFloat},
	{Name: "anomaly_0.01", Kind: table.KindInt},
	{Name: "anomaly_0.05", Kind: table.KindInt},
}

func detectedTable(t *testing.T) *table.Table {
	jan := table.Period{Year: 2024, Month: 1}
	feb := table.Period{Year: 2024, Month: 2}
	row := func(account string, period table.Period, a1, a5 int64) config.GenericMap {
		return config.GenericMap{
			"CUENTA": account, "MES_ANIO": period, "PAIS_ORIGEN_DESTINO_TRX": "CL_PE", "MONTO": 0.5,
			"anomaly_0.01": a1, "anomaly_0.05": a5,
		}
	}
	return test.MustTable(t, detectedFields,
		row("B", jan, 1, -1),
		row("A", feb, 1, 1),
		row("A", jan, -1, -1),
		row("B", jan, 1, 1),
		row("A", jan, 1, 1),
		row("A", feb, 1, -1),
	)
}

func TestSummarize(t *testing.T) {
	tb := detectedTable(t)
	res, err := Summarize(tb, OutputColumnsFrom(api.AnomalyDetection{}), []float64{0.01, 0.05}, 0.05)
	require.NoError(t, err)

	assert.Equal(t, []string{"CUENTA", "MES_ANIO", "PAIS_ORIGEN_DESTINO_TRX", "MONTO", "MARCA_ANOMALIA"}, res.Flagged.Names())
	flags, err := res.Flagged.Column("MARCA_ANOMALIA")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"ANOMALO", "NO ANOMALO", "ANOMALO", "NO ANOMALO", "NO ANOMALO", "ANOMALO"}, flags)

	assert.Equal(t, []string{
		"CUENTA", "MES_ANIO",
		"anomaly_0.01_anomalas", "anomaly_0.01_no_anomalas",
		"anomaly_0.05_anomalas", "anomaly_0.05_no_anomalas",
	}, res.Summary.Names())
	require.Equal(t, 3, res.Summary.Len())
	expected := []config.GenericMap{
		{"CUENTA": "A", "MES_ANIO": table.Period{Year: 2024, Month: 1},
			"anomaly_0.01_anomalas": int64(1), "anomaly_0.01_no_anomalas": int64(1),
			"anomaly_0.05_anomalas": int64(1), "anomaly_0.05_no_anomalas": int64(1)},
		{"CUENTA": "A", "MES_ANIO": table.Period{Year: 2024, Month: 2},
			"anomaly_0.01_anomalas": int64(0), "anomaly_0.01_no_anomalas": int64(2),
			"anomaly_0.05_anomalas": int64(1), "anomaly_0.05_no_anomalas": int64(1)},
		{"CUENTA": "B", "MES_ANIO": table.Period{Year: 2024, Month: 1},
			"anomaly_0.01_anomalas": int64(0), "anomaly_0.01_no_anomalas": int64(2),
			"anomaly_0.05_anomalas": int64(1), "anomaly_0.05_no_anomalas": int64(1)},
	}
	assert.Equal(t, expected, res.Summary.Rows())
}

func TestSummarizeOperativeOnlyChangesFlags(t *testing.T) {
	tb := detectedTable(t)
	cols := OutputColumnsFrom(api.AnomalyDetection{})
	r1, err := Summarize(tb, cols, []float64{0.01, 0.05}, 0.01)
	require.NoError(t, err)
	r5, err := Summarize(tb, cols, []float64{0.01, 0.05}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, r1.Summary.Rows(), r5.Summary.Rows())
	assert.Equal(t, "ANOMALO", r1.Flagged.Value(2, "MARCA_ANOMALIA"))
	assert.Equal(t, "NO ANOMALO", r1.Flagged.Value(0, "MARCA_ANOMALIA"))
}

func TestSummarizeErrors(t *testing.T) {
	tb := detectedTable(t)
	cols := OutputColumnsFrom(api.AnomalyDetection{})

	_, err := Summarize(tb, cols, []float64{0.01, 0.05}, 0.1)
	var unknown *UnknownContaminationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 0.1, unknown.Value)
	assert.EqualError(t, err, "contamination value 0.1 is not one of the configured values [0.01, 0.05]")

	_, err = Summarize(tb, cols, []float64{0.01, 0.2}, 0.01)
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "anomaly_0.2", missing.Column)

	cols.CountryPair = "PAIS"
	_, err = Summarize(tb, cols, []float64{0.05}, 0.05)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "PAIS", missing.Column)
}
