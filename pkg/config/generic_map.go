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

package config

// GenericMap is a single table row, keyed by column name.
type GenericMap map[string]interface{}

// Copy returns a shallow copy of the row.
func (m GenericMap) Copy() GenericMap {
	result := make(GenericMap, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// LookupString returns the value as a string when the key is present and holds one.
func (m GenericMap) LookupString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
