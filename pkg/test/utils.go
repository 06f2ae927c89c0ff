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

package test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/table"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// InitConfig parses a yaml configuration the same way the pipeline does.
func InitConfig(t *testing.T, conf string) (*viper.Viper, *config.ConfigFileStruct) {
	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewReader([]byte(conf)))
	require.NoError(t, err)

	cfg, err := config.ParseConfig([]byte(conf))
	require.NoError(t, err)
	return v, &cfg
}

// AccountMonth describes a block of fake transactions of one account in one month.
type AccountMonth struct {
	Account string
	Period  table.Period
	Rows    int
}

// TransactionFields are the columns of the tables built by FakeTransactions.
var TransactionFields = []table.Field{
	{Name: "CUENTA", Kind: table.KindCategory},
	{Name: "MES_ANIO", Kind: table.KindPeriod},
	{Name: "PAIS_ORIGEN_DESTINO_TRX", Kind: table.KindCategory},
	{Name: "MONTO", Kind: table.KindFloat},
	{Name: "DIAS_ENTRE_TRX", Kind: table.KindInt},
	{Name: "VARIACION_MONTO_MES_ANIO", Kind: table.KindFloat},
	{Name: "ES_INTERNACIONAL", Kind: table.KindInt},
}

// FakeTransactions builds a feature table with the requested blocks of rows, in order.
// The same seed always yields the same table.
func FakeTransactions(t testing.TB, seed uint64, blocks ...AccountMonth) *table.Table {
	faker := gofakeit.New(seed)
	var rows []config.GenericMap
	for _, b := range blocks {
		for i := 0; i < b.Rows; i++ {
			origin, destination := faker.CountryAbr(), faker.CountryAbr()
			international := int64(0)
			if origin != destination {
				international = 1
			}
			rows = append(rows, config.GenericMap{
				"CUENTA":                   b.Account,
				"MES_ANIO":                 b.Period,
				"PAIS_ORIGEN_DESTINO_TRX":  fmt.Sprintf("%s_%s", origin, destination),
				"MONTO":                    faker.Float64Range(10, 5000),
				"DIAS_ENTRE_TRX":           int64(faker.IntRange(0, 30)),
				"VARIACION_MONTO_MES_ANIO": faker.Float64Range(-1, 3),
				"ES_INTERNACIONAL":         international,
			})
		}
	}
	tb, err := table.New(TransactionFields, rows)
	require.NoError(t, err)
	return tb
}

// MustTable builds a table or fails the test.
func MustTable(t testing.TB, fields []table.Field, rows ...config.GenericMap) *table.Table {
	tb, err := table.New(fields, rows)
	require.NoError(t, err)
	return tb
}
