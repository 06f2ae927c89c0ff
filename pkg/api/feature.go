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
	DefaultTrxDateCol            = "FECHA_TRX"
	DefaultOriginCountryCol      = "PAIS_ORIGEN"
	DefaultDestinationCountryCol = "PAIS_DESTINO"
	DefaultStatusDateCol         = "FECHA_ESTADO_CUENTA"
	DefaultSentCountCol          = "CANT_TRX_ENVIADAS"
	DefaultReceivedCountCol      = "CANT_TRX_RECIBIDAS"
	DefaultCustomerCol           = "ID_CLIENTE"
)

// Feature groups the feature derivation of both input tables.
type Feature struct {
	Transactions FeatureTransactions `yaml:"transactions,omitempty" json:"transactions,omitempty" doc:"transaction features"`
	Customers    FeatureCustomers    `yaml:"customers,omitempty" json:"customers,omitempty" doc:"customer/product features"`
}

func (f *Feature) SetDefaults() {
	f.Transactions.SetDefaults()
	f.Customers.SetDefaults()
}

// FeatureTransactions describes the derivation of transaction features.
type FeatureTransactions struct {
	Enabled               bool   `yaml:"enabled" json:"enabled" doc:"derive transaction features before anomaly detection"`
	AccountCol            string `yaml:"accountCol,omitempty" json:"accountCol,omitempty" doc:"account identifier column (default: CUENTA)"`
	DateCol               string `yaml:"dateCol,omitempty" json:"dateCol,omitempty" doc:"transaction date column (default: FECHA_TRX)"`
	AmountCol             string `yaml:"amountCol,omitempty" json:"amountCol,omitempty" doc:"transaction amount column (default: MONTO)"`
	OriginCountryCol      string `yaml:"originCountryCol,omitempty" json:"originCountryCol,omitempty" doc:"origin country column (default: PAIS_ORIGEN)"`
	DestinationCountryCol string `yaml:"destinationCountryCol,omitempty" json:"destinationCountryCol,omitempty" doc:"destination country column (default: PAIS_DESTINO)"`
}

func (f *FeatureTransactions) SetDefaults() {
	if f.AccountCol == "" {
		f.AccountCol = DefaultAccountCol
	}
	if f.DateCol == "" {
		f.DateCol = DefaultTrxDateCol
	}
	if f.AmountCol == "" {
		f.AmountCol = DefaultAmountCol
	}
	if f.OriginCountryCol == "" {
		f.OriginCountryCol = DefaultOriginCountryCol
	}
	if f.DestinationCountryCol == "" {
		f.DestinationCountryCol = DefaultDestinationCountryCol
	}
}

// FeatureCustomers describes the derivation of customer/product features.
type FeatureCustomers struct {
	Enabled           bool   `yaml:"enabled" json:"enabled" doc:"derive customer features on the customers table"`
	StatusDateCol     string `yaml:"statusDateCol,omitempty" json:"statusDateCol,omitempty" doc:"date of the last account status change (default: FECHA_ESTADO_CUENTA)"`
	SentCountCol      string `yaml:"sentCountCol,omitempty" json:"sentCountCol,omitempty" doc:"number of sent transactions (default: CANT_TRX_ENVIADAS)"`
	ReceivedCountCol  string `yaml:"receivedCountCol,omitempty" json:"receivedCountCol,omitempty" doc:"number of received transactions (default: CANT_TRX_RECIBIDAS)"`
	SentAmountCol     string `yaml:"sentAmountCol,omitempty" json:"sentAmountCol,omitempty" doc:"total amount sent (default: MONTO_TRX_ENVIADA)"`
	ReceivedAmountCol string `yaml:"receivedAmountCol,omitempty" json:"receivedAmountCol,omitempty" doc:"total amount received (default: MONTO_TRX_RECIBIDA)"`
	CustomerCol       string `yaml:"customerCol,omitempty" json:"customerCol,omitempty" doc:"customer identifier (default: ID_CLIENTE)"`
	ProductCol        string `yaml:"productCol,omitempty" json:"productCol,omitempty" doc:"product identifier counted per customer (default: CUENTA)"`
}

func (f *FeatureCustomers) SetDefaults() {
	if f.StatusDateCol == "" {
		f.StatusDateCol = DefaultStatusDateCol
	}
	if f.SentCountCol == "" {
		f.SentCountCol = DefaultSentCountCol
	}
	if f.ReceivedCountCol == "" {
		f.ReceivedCountCol = DefaultReceivedCountCol
	}
	if f.SentAmountCol == "" {
		f.SentAmountCol = DefaultSentCol
	}
	if f.ReceivedAmountCol == "" {
		f.ReceivedAmountCol = DefaultReceivedCol
	}
	if f.CustomerCol == "" {
		f.CustomerCol = DefaultCustomerCol
	}
	if f.ProductCol == "" {
		f.ProductCol = DefaultAccountCol
	}
}
