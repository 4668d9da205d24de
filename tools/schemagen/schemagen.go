// Package main generates the JSON schema of the `recordstore run --format json`
// report from the workload.Report type.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/recordstore/internal/workload"
)

const (
	reportSchemaName = "report"
	schemaDraft      = "http://json-schema.org/draft-07/schema#"
)

// Schema represents a JSON Schema.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Definitions          map[string]*Schema `json:"definitions,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

func main() {
	outputDir := flag.String("o", "docs/schemas", "Output directory for schemas")
	flag.Parse()

	err := run(*outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) error {
	err := os.MkdirAll(outputDir, 0o750)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	schema := Generate("Scenario Report", "JSON output of recordstore run --format json", &workload.Report{})

	path, err := writeSchema(outputDir, reportSchemaName, schema)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Generated %s\n", path)

	return nil
}

// Generate builds a closed object schema for the struct type of v. Named
// nested structs become definitions.
func Generate(title, description string, v any) *Schema {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	defs := make(map[string]*Schema)
	schema := structSchema(t, defs)
	schema.Schema = schemaDraft
	schema.Title = title
	schema.Description = description

	if len(defs) > 0 {
		schema.Definitions = defs
	}

	return schema
}

func structSchema(t reflect.Type, defs map[string]*Schema) *Schema {
	closed := false
	props := make(map[string]*Schema)

	var required []string

	for i := range t.NumField() {
		field := t.Field(i)

		name, omitempty, ok := jsonName(field)
		if !ok {
			continue
		}

		props[name] = typeToSchema(field.Type, defs)

		if !omitempty {
			required = append(required, name)
		}
	}

	return &Schema{Type: "object", Properties: props, Required: required, AdditionalProperties: &closed}
}

func jsonName(field reflect.StructField) (name string, omitempty, ok bool) {
	if !field.IsExported() {
		return "", false, false
	}

	tag := field.Tag.Get("json")
	if tag == "-" || tag == "" {
		return "", false, false
	}

	parts := strings.Split(tag, ",")

	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}

	return parts[0], omitempty, true
}

func typeToSchema(t reflect.Type, defs map[string]*Schema) *Schema {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t == reflect.TypeFor[time.Duration]() {
			return &Schema{Type: "integer", Description: "Duration in nanoseconds"}
		}

		return &Schema{Type: "integer"}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Slice:
		return &Schema{Type: "array", Items: typeToSchema(t.Elem(), defs)}

	case reflect.Struct:
		defName := t.Name()
		if defName == "" {
			return structSchema(t, defs)
		}

		if _, exists := defs[defName]; !exists {
			defs[defName] = structSchema(t, defs)
		}

		return &Schema{Ref: "#/definitions/" + defName}

	case reflect.Ptr:
		return typeToSchema(t.Elem(), defs)

	default:
		return &Schema{}
	}
}

func writeSchema(dir, name string, schema *Schema) (string, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}

	path := filepath.Join(dir, name+".json")

	err = os.WriteFile(path, append(data, '\n'), 0o600)
	if err != nil {
		return "", fmt.Errorf("write schema: %w", err)
	}

	return path, nil
}
