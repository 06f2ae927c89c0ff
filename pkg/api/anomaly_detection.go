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
	DefaultAccountCol     = "CUENTA"
	DefaultPeriodCol      = "MES_ANIO"
	DefaultCountryPairCol = "PAIS_ORIGEN_DESTINO_TRX"
	DefaultAmountCol      = "MONTO"
	DefaultFlagCol        = "MARCA_ANOMALIA"
	DefaultTrees          = 100
	DefaultSampleSize     = 256
	DefaultSeed           = 42
)

// AnomalyDetection describes the grouped z-score + isolation forest engine.
type AnomalyDetection struct {
	ColsFilter          []string  `yaml:"colsFilter" json:"colsFilter" validate:"required,min=1,unique,dive,required" doc:"ordered list of feature table columns kept for analysis"`
	GroupByCols         []string  `yaml:"groupByCols" json:"groupByCols" validate:"required,min=1,unique,dive,required" doc:"categorical columns forming the z-score group key (e.g. account and month)"`
	MinGroupSize        int       `yaml:"minGroupSize" json:"minGroupSize" validate:"gte=0" doc:"minimum number of observations in a group for z-scores to be computed; smaller groups get 0"`
	ContaminationValues []float64 `yaml:"contaminationValues" json:"contaminationValues" validate:"required,min=1,unique,dive,gt=0,lt=1" doc:"ordered list of expected anomaly fractions, one isolation forest per value"`
	ContaminationValue  float64   `yaml:"contaminationValue" json:"contaminationValue" validate:"gt=0,lt=1" doc:"contamination value used for the row level flag; must be one of contaminationValues"`
	AccountCol          string    `yaml:"accountCol,omitempty" json:"accountCol,omitempty" doc:"account identifier column (default: CUENTA)"`
	PeriodCol           string    `yaml:"periodCol,omitempty" json:"periodCol,omitempty" doc:"month period column (default: MES_ANIO)"`
	CountryPairCol      string    `yaml:"countryPairCol,omitempty" json:"countryPairCol,omitempty" doc:"origin/destination country pair column (default: PAIS_ORIGEN_DESTINO_TRX)"`
	AmountCol           string    `yaml:"amountCol,omitempty" json:"amountCol,omitempty" doc:"transaction amount column (default: MONTO)"`
	FlagCol             string    `yaml:"flagCol,omitempty" json:"flagCol,omitempty" doc:"name of the human readable flag column (default: MARCA_ANOMALIA)"`
	Trees               int       `yaml:"trees,omitempty" json:"trees,omitempty" validate:"gte=0" doc:"number of isolation trees per model (default: 100)"`
	SampleSize          int       `yaml:"sampleSize,omitempty" json:"sampleSize,omitempty" validate:"gte=0" doc:"rows sampled to build each tree (default: 256)"`
	Seed                *int64    `yaml:"seed,omitempty" json:"seed,omitempty" doc:"random seed shared by every model (default: 42)"`
	Parallel            bool      `yaml:"parallel,omitempty" json:"parallel,omitempty" doc:"fit the models of every contamination value concurrently"`
}

// SetDefaults fills optional fields.
func (a *AnomalyDetection) SetDefaults() {
	if a.AccountCol == "" {
		a.AccountCol = DefaultAccountCol
	}
	if a.PeriodCol == "" {
		a.PeriodCol = DefaultPeriodCol
	}
	if a.CountryPairCol == "" {
		a.CountryPairCol = DefaultCountryPairCol
	}
	if a.AmountCol == "" {
		a.AmountCol = DefaultAmountCol
	}
	if a.FlagCol == "" {
		a.FlagCol = DefaultFlagCol
	}
	if a.Trees == 0 {
		a.Trees = DefaultTrees
	}
	if a.SampleSize == 0 {
		a.SampleSize = DefaultSampleSize
	}
	if a.Seed == nil {
		seed := int64(DefaultSeed)
		a.Seed = &seed
	}
}

// GetSeed returns the configured seed or the default one.
func (a *AnomalyDetection) GetSeed() int64 {
	if a.Seed == nil {
		return DefaultSeed
	}
	return *a.Seed
}
