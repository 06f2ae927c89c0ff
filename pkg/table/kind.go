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
	"math"
	"strings"
	"time"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/utils"
)

// Kind is the value type of a column.
type Kind string

const (
	KindString   Kind = "string"
	KindCategory Kind = "category"
	KindPeriod   Kind = "period"
	KindTime     Kind = "time"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
)

var kinds = []Kind{KindString, KindCategory, KindPeriod, KindTime, KindInt, KindFloat, KindBool}

func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown column kind %q", s)
}

// IsNumeric reports whether values of this kind take part in numeric computations.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat || k == KindBool
}

// IsCategorical reports whether the kind is text-like: labels, codes, periods or timestamps.
func (k Kind) IsCategorical() bool {
	return !k.IsNumeric()
}

// Coerce converts a raw decoded value into the canonical Go type of the kind:
// string, Period, time.Time, int64, float64 or bool. Empty strings become missing values.
func Coerce(k Kind, raw interface{}) (interface{}, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" && k != KindString {
		return nil, nil
	}
	switch k {
	case KindString, KindCategory:
		return utils.ConvertToString(raw), nil
	case KindPeriod:
		switch v := raw.(type) {
		case Period:
			return v, nil
		case time.Time:
			return PeriodOf(v), nil
		}
		return ParsePeriod(utils.ConvertToString(raw))
	case KindTime:
		if v, ok := raw.(time.Time); ok {
			return v, nil
		}
		return parseTime(utils.ConvertToString(raw))
	case KindInt:
		return utils.ConvertToInt64(raw)
	case KindFloat:
		return utils.ConvertToFloat64(raw)
	case KindBool:
		return utils.ConvertToBool(raw)
	}
	return nil, fmt.Errorf("unknown column kind %q", k)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// IsMissing reports nil and NaN values.
func IsMissing(v interface{}) bool {
	switch f := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// ToFloat returns the numeric value of v; ok is false for missing or non numeric values.
func ToFloat(v interface{}) (float64, bool) {
	if IsMissing(v) {
		return math.NaN(), false
	}
	switch v.(type) {
	case string, Period, time.Time:
		return math.NaN(), false
	}
	f, err := utils.ConvertToFloat64(v)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

// Compare orders two cell values: missing values first, then by natural order of the type.
// Values of different types are ordered by their type name.
func Compare(a, b interface{}) int {
	am, bm := IsMissing(a), IsMissing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return -1
	case bm:
		return 1
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case Period:
		if y, ok := b.(Period); ok {
			return x.Compare(y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	default:
		fx, okx := ToFloat(a)
		fy, oky := ToFloat(b)
		if okx && oky {
			switch {
			case fx < fy:
				return -1
			case fx > fy:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

// FormatValue renders a cell for text outputs.
func FormatValue(v interface{}) string {
	if IsMissing(v) {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return utils.ConvertToString(v)
}
