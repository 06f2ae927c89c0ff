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

package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ConvertToFloat64 converts any numeric, numeric-like string or decimal value to float64.
func ConvertToFloat64(unk interface{}) (float64, error) {
	switch i := unk.(type) {
	case float64:
		return i, nil
	case float32:
		return float64(i), nil
	case int64:
		return float64(i), nil
	case int32:
		return float64(i), nil
	case int16:
		return float64(i), nil
	case int8:
		return float64(i), nil
	case int:
		return float64(i), nil
	case uint64:
		return float64(i), nil
	case uint32:
		return float64(i), nil
	case uint16:
		return float64(i), nil
	case uint8:
		return float64(i), nil
	case uint:
		return float64(i), nil
	case time.Duration:
		return float64(i), nil
	case bool:
		if i {
			return 1, nil
		}
		return 0, nil
	case decimal.Decimal:
		return i.InexactFloat64(), nil
	case string:
		return strconv.ParseFloat(i, 64)
	default:
		return math.NaN(), fmt.Errorf("can't convert %v (%T) to float64", unk, unk)
	}
}

// ConvertToInt64 converts to int64, truncating floating point values.
func ConvertToInt64(unk interface{}) (int64, error) {
	switch i := unk.(type) {
	case int64:
		return i, nil
	case int32:
		return int64(i), nil
	case int:
		return int64(i), nil
	case string:
		if v, err := strconv.ParseInt(i, 10, 64); err == nil {
			return v, nil
		}
	}
	f, err := ConvertToFloat64(unk)
	if err != nil {
		return 0, fmt.Errorf("can't convert %v (%T) to int64", unk, unk)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("can't convert %v to int64", f)
	}
	return int64(f), nil
}

func ConvertToInt(unk interface{}) (int, error) {
	i, err := ConvertToInt64(unk)
	return int(i), err
}

// ConvertToBool accepts booleans, 0/1 numbers and the strings understood by strconv.ParseBool.
func ConvertToBool(unk interface{}) (bool, error) {
	switch i := unk.(type) {
	case bool:
		return i, nil
	case string:
		return strconv.ParseBool(i)
	}
	f, err := ConvertToFloat64(unk)
	if err != nil {
		return false, err
	}
	switch f {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("can't convert %v (%T) to bool", unk, unk)
}

// ConvertToString renders a value without loss for numeric types.
func ConvertToString(unk interface{}) string {
	switch i := unk.(type) {
	case nil:
		return ""
	case string:
		return i
	case float64:
		return strconv.FormatFloat(i, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(i), 'f', -1, 32)
	case fmt.Stringer:
		return i.String()
	default:
		return fmt.Sprintf("%v", unk)
	}
}
