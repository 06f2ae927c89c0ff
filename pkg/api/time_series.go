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

const (
	DefaultAccountTypeCol = "TIPO_CUENTA"
	DefaultUpdateDateCol  = "FECHA_ACTUALIZACION"
	DefaultSentCol        = "MONTO_TRX_ENVIADA"
	DefaultReceivedCol    = "MONTO_TRX_RECIBIDA"
	DefaultSeriesFilter   = "YEAR <= 2024"
	DefaultSeasonalPeriod = 12
	DefaultHorizon        = 120
)

// TimeSeries describes the monthly transaction difference series stage.
type TimeSeries struct {
	Enabled            bool   `yaml:"enabled" json:"enabled" doc:"run the time series stage on the customers table"`
	AccountTypeCol     string `yaml:"accountTypeCol,omitempty" json:"accountTypeCol,omitempty" doc:"account type column, one series per value (default: TIPO_CUENTA)"`
	DateCol            string `yaml:"dateCol,omitempty" json:"dateCol,omitempty" doc:"date column used to derive YEAR and MONTH (default: FECHA_ACTUALIZACION)"`
	SentCol            string `yaml:"sentCol,omitempty" json:"sentCol,omitempty" doc:"amount sent column (default: MONTO_TRX_ENVIADA)"`
	ReceivedCol        string `yaml:"receivedCol,omitempty" json:"receivedCol,omitempty" doc:"amount received column (default: MONTO_TRX_RECIBIDA)"`
	Filter             string `yaml:"filter,omitempty" json:"filter,omitempty" doc:"expression over YEAR and MONTH selecting the months to keep (default: YEAR <= 2024)"`
	Period             int    `yaml:"period,omitempty" json:"period,omitempty" validate:"gte=0" doc:"seasonal period in months (default: 12)"`
	Horizon            int    `yaml:"horizon,omitempty" json:"horizon,omitempty" validate:"gte=0" doc:"number of months to forecast (default: 120)"`
	SkipOutlierCapping bool   `yaml:"skipOutlierCapping,omitempty" json:"skipOutlierCapping,omitempty" doc:"do not cap numeric columns to the IQR fences"`
}

func (t *TimeSeries) SetDefaults() {
	if t.AccountTypeCol == "" {
		t.AccountTypeCol = DefaultAccountTypeCol
	}
	if t.DateCol == "" {
		t.DateCol = DefaultUpdateDateCol
	}
	if t.SentCol == "" {
		t.SentCol = DefaultSentCol
	}
	if t.ReceivedCol == "" {
		t.ReceivedCol = DefaultReceivedCol
	}
	if t.Filter == "" {
		t.Filter = DefaultSeriesFilter
	}
	if t.Period == 0 {
		t.Period = DefaultSeasonalPeriod
	}
	if t.Horizon == 0 {
		t.Horizon = DefaultHorizon
	}
}
