package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Detect unknown fields
	warnings := detectUnknownFields(data)

	return &cfg, warnings, nil
}

// sections maps object-valued root fields to their struct types.
var sections = map[string]reflect.Type{
	"project":       reflect.TypeOf(ProjectConfig{}),
	"toolchains":    reflect.TypeOf(ToolchainsConfig{}),
	"frontends":     reflect.TypeOf(FrontendsConfig{}),
	"binding":       reflect.TypeOf(BindingConfig{}),
	"installations": reflect.TypeOf(InstallationsConfig{}),
	"report":        reflect.TypeOf(ReportConfig{}),
}

// detectUnknownFields compares raw JSON with known struct fields.
// Warnings are sorted for stable output.
func detectUnknownFields(data []byte) []string {
	var warnings []string

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// This should never happen since the data was already parsed successfully.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	knownTopLevel := getJSONFields(reflect.TypeOf(Config{}))
	for key, value := range raw {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			continue
		}
		if typ, ok := sections[key]; ok {
			for _, field := range unknownKeys(value, typ) {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", field, key))
			}
		}
	}

	if tasksRaw, ok := raw["tasks"]; ok {
		warnings = append(warnings, checkTasksUnknownFields(tasksRaw)...)
	}

	slices.Sort(warnings)
	return warnings
}

func checkTasksUnknownFields(data json.RawMessage) []string {
	var tasks []json.RawMessage
	if err := json.Unmarshal(data, &tasks); err != nil {
		// Should not happen since Config.Tasks parsed successfully.
		return []string{"internal: failed to re-parse tasks for unknown field detection"}
	}

	var warnings []string
	typ := reflect.TypeOf(TaskConfig{})
	for i, taskRaw := range tasks {
		for _, field := range unknownKeys(taskRaw, typ) {
			warnings = append(warnings, fmt.Sprintf("unknown field %q in tasks[%d] (ignored)", field, i))
		}
	}
	return warnings
}

// unknownKeys returns the keys of a JSON object that typ does not declare.
func unknownKeys(data json.RawMessage, typ reflect.Type) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	known := getJSONFields(typ)
	var unknown []string
	for key := range fields {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		// Extract field name from tag (before comma)
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = true
		}
	}
	return fields
}
