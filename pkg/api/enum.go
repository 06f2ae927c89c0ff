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

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// enums lists the structs documenting the accepted values of enum fields; fields tagged
// `enum:"<Name>"` refer to them by name.
type enums struct {
	IngestTypeEnum         IngestTypeEnum
	IngestFormatEnum       IngestFormatEnum
	ColumnKindEnum         ColumnKindEnum
	WriteTypeEnum          WriteTypeEnum
	ParquetCompressionEnum ParquetCompressionEnum
	KafkaBalancerEnum      KafkaBalancerEnum
}

// GetEnumReflectionTypeByFieldName returns the type of the enum struct registered under enumName.
func GetEnumReflectionTypeByFieldName(enumName string) reflect.Type {
	field, found := reflect.TypeOf(enums{}).FieldByName(enumName)
	if !found {
		logrus.Panicf("can't find enumName %s in enums", enumName)
	}
	return field.Type
}

// EnumValues returns the yaml names of the values of an enum struct, in declaration order.
func EnumValues(enumName string) []string {
	t := GetEnumReflectionTypeByFieldName(enumName)
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		values = append(values, t.Field(i).Tag.Get(TagYaml))
	}
	return values
}
