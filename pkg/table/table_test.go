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
	"math"
	"testing"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFields = []Field{
	{Name: "CUENTA", Kind: KindString},
	{Name: "MONTO", Kind: KindFloat},
	{Name: "DIAS", Kind: KindInt},
}

func testTable(t *testing.T) *Table {
	tb, err := New(testFields, []config.GenericMap{
		{"CUENTA": "a", "MONTO": 1.5, "DIAS": int64(1), "EXTRA": "dropped"},
		{"CUENTA": "b", "MONTO": nil, "DIAS": int64(2)},
		{"CUENTA": "c", "MONTO": 4.0},
	})
	require.NoError(t, err)
	return tb
}

func TestNew(t *testing.T) {
	tb := testTable(t)
	assert.Equal(t, 3, tb.Len())
	assert.Equal(t, []string{"CUENTA", "MONTO", "DIAS"}, tb.Names())
	assert.Equal(t, config.GenericMap{"CUENTA": "a", "MONTO": 1.5, "DIAS": int64(1)}, tb.Row(0))
	assert.Nil(t, tb.Value(2, "DIAS"))
	assert.True(t, tb.Has("MONTO"))
	assert.False(t, tb.Has("EXTRA"))

	_, err := New([]Field{{Name: "A"}, {Name: "A"}}, nil)
	require.Error(t, err)
	_, err = New([]Field{{Name: ""}}, nil)
	require.Error(t, err)
}

func TestRowsAreCopies(t *testing.T) {
	tb := testTable(t)
	row := tb.Row(0)
	row["CUENTA"] = "z"
	rows := tb.Rows()
	rows[1]["CUENTA"] = "z"
	assert.Equal(t, "a", tb.Value(0, "CUENTA"))
	assert.Equal(t, "b", tb.Value(1, "CUENTA"))
}

func TestFloats(t *testing.T) {
	tb := testTable(t)
	values, err := tb.Floats("MONTO")
	require.NoError(t, err)
	assert.Equal(t, 1.5, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.Equal(t, 4.0, values[2])

	_, err = tb.Floats("CUENTA")
	require.Error(t, err)
	_, err = tb.Floats("NADA")
	var notFound *ColumnNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "NADA", notFound.Column)
}

func TestSelect(t *testing.T) {
	tb := testTable(t)
	sel, err := tb.Select("DIAS", "CUENTA")
	require.NoError(t, err)
	assert.Equal(t, []string{"DIAS", "CUENTA"}, sel.Names())
	assert.Equal(t, config.GenericMap{"DIAS": int64(2), "CUENTA": "b"}, sel.Row(1))

	_, err = tb.Select("NADA")
	require.Error(t, err)
}

func TestWithColumn(t *testing.T) {
	tb := testTable(t)
	replaced, err := tb.WithFloatColumn("MONTO", []float64{1, math.NaN(), 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"CUENTA", "MONTO", "DIAS"}, replaced.Names())
	col, _ := replaced.Column("MONTO")
	assert.Equal(t, []interface{}{1.0, nil, 3.0}, col)
	// the original is unchanged
	assert.Equal(t, 4.0, tb.Value(2, "MONTO"))

	appended, err := tb.WithIntColumn("FLAG", []int64{-1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"CUENTA", "MONTO", "DIAS", "FLAG"}, appended.Names())
	f, _ := appended.Field("FLAG")
	assert.Equal(t, KindInt, f.Kind)

	_, err = tb.WithIntColumn("FLAG", []int64{1})
	require.Error(t, err)
}

func TestTakeAndConcat(t *testing.T) {
	tb := testTable(t)
	taken := tb.Take([]int{2, 0})
	assert.Equal(t, 2, taken.Len())
	assert.Equal(t, "c", taken.Value(0, "CUENTA"))
	assert.Equal(t, "a", taken.Value(1, "CUENTA"))

	left, _ := tb.Select("CUENTA")
	right, _ := tb.Select("MONTO", "DIAS")
	joined, err := Concat(left, right)
	require.NoError(t, err)
	assert.Equal(t, tb.Rows(), joined.Rows())
	assert.Equal(t, tb.Names(), joined.Names())

	_, err = Concat(tb, left)
	require.Error(t, err)
	_, err = Concat(tb, taken)
	require.Error(t, err)

	empty, err := Concat()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}
