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

package table

import (
	"fmt"
	"time"
)

const periodLayout = "2006-01"

// Period is a calendar year-month, the equivalent of a monthly period index.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the "YYYY-MM" representation.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.Start().AddDate(0, n, 0))
}

// MonthsUntil returns the number of months from p to o (negative when o is earlier).
func (p Period) MonthsUntil(o Period) int {
	return (o.Year-p.Year)*12 + int(o.Month) - int(p.Month)
}

func (p Period) Compare(o Period) int {
	switch d := p.MonthsUntil(o); {
	case d > 0:
		return -1
	case d < 0:
		return 1
	}
	return 0
}
