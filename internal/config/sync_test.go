// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct JSON tags match CUE schema field names,
// so a field added on one side only fails here instead of being silently ignored.

func extractCUEFields(t *testing.T, val cue.Value) []string {
	t.Helper()

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	var fields []string
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields = append(fields, strings.TrimSuffix(sel.String(), "?"))
	}
	slices.Sort(fields)
	return fields
}

func extractGoJSONTags(t *testing.T, typ reflect.Type) []string {
	t.Helper()

	var tags []string
	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		tags = append(tags, name)
	}
	slices.Sort(tags)
	return tags
}

func TestConfigSchemaSync(t *testing.T) {
	t.Parallel()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile schema: %v", schema.Err())
	}

	tests := []struct {
		definition string
		goType     reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#CatalogConfig", reflect.TypeFor[CatalogConfig]()},
		{"#ScanConfig", reflect.TypeFor[ScanConfig]()},
		{"#WatchConfig", reflect.TypeFor[WatchConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			t.Parallel()

			def := schema.LookupPath(cue.ParsePath(tt.definition))
			if !def.Exists() {
				t.Fatalf("definition %s not found in schema", tt.definition)
			}

			cueFields := extractCUEFields(t, def)
			goTags := extractGoJSONTags(t, tt.goType)
			if !slices.Equal(cueFields, goTags) {
				t.Errorf("%s fields %v do not match %s json tags %v", tt.definition, cueFields, tt.goType.Name(), goTags)
			}
		})
	}
}
