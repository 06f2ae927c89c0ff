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
	"sort"
	"strings"
)

// GroupKey is the ordered tuple of key column values shared by the rows of a group.
type GroupKey []interface{}

func (k GroupKey) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		if IsMissing(v) {
			parts[i] = "<missing>"
		} else {
			parts[i] = FormatValue(v)
		}
	}
	return strings.Join(parts, "|")
}

func (k GroupKey) compare(o GroupKey) int {
	for i := range k {
		if c := Compare(k[i], o[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Group lists the row positions sharing a key, in table order.
type Group struct {
	Key  GroupKey
	Rows []int
}

// GroupBy partitions rows by the values of the key columns. Groups are disjoint,
// cover every row and are returned in ascending key order. Rows with a missing
// key value form their own group.
func (t *Table) GroupBy(keys ...string) ([]Group, error) {
	for _, k := range keys {
		if !t.Has(k) {
			return nil, &ColumnNotFoundError{Column: k}
		}
	}
	byKey := map[string]*Group{}
	var groups []*Group
	for i, row := range t.rows {
		key := make(GroupKey, len(keys))
		var sb strings.Builder
		for j, k := range keys {
			key[j] = row[k]
			if IsMissing(row[k]) {
				sb.WriteString("\x00")
			} else {
				fmt.Fprintf(&sb, "%T=%s", row[k], FormatValue(row[k]))
			}
			sb.WriteString("\x1f")
		}
		g, ok := byKey[sb.String()]
		if !ok {
			g = &Group{Key: key}
			byKey[sb.String()] = g
			groups = append(groups, g)
		}
		g.Rows = append(g.Rows, i)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Key.compare(groups[b].Key) < 0
	})
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out, nil
}
