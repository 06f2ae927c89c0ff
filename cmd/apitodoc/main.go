/*
 * Copyright (C) 2022 IBM, Inc.
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

package main

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/api"
)

const docHeader = "# Anomaly pipeline configuration API\n" +
	"Every section below is a key of the pipeline YAML configuration file.\n"

func indentation(level int) string {
	return strings.Repeat(" ", 4*level)
}

// describe prints the yaml name and doc tag of every documented field of t, recursing into
// nested structs, pointers, slices and maps. Top level items (doc starting with "#") open a section.
func describe(output io.Writer, t reflect.Type, level int) {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map:
		describe(output, t.Elem(), level)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name := strings.SplitN(field.Tag.Get(api.TagYaml), ",", 2)[0]
			doc := field.Tag.Get(api.TagDoc)
			if enumName := field.Tag.Get(api.TagEnum); enumName != "" {
				fmt.Fprintf(output, "%s %s: (enum) %s\n", indentation(level+1), name, doc)
				describe(output, api.GetEnumReflectionTypeByFieldName(enumName), level+1)
				continue
			}
			switch {
			case doc == "":
			case strings.HasPrefix(doc, "#"):
				fmt.Fprintf(output, "\n%s\n<pre>\n%s %s:\n", doc, indentation(level), name)
				describe(output, field.Type, level+1)
				fmt.Fprint(output, "</pre>")
			default:
				fmt.Fprintf(output, "%s %s: %s\n", indentation(level+1), name, doc)
				describe(output, field.Type, level+1)
			}
		}
	}
}

func main() {
	output := new(bytes.Buffer)
	output.WriteString(docHeader)
	describe(output, reflect.TypeOf(api.API{}), 0)
	fmt.Print(output)
}
