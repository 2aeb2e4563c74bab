package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// tableSchemas maps each data table to its schema file.
var tableSchemas = map[string]string{
	"tasks.yaml":    "tasks.schema.json",
	"timeline.yaml": "timeline.schema.json",
	"triggers.yaml": "triggers.schema.json",
	"effects.yaml":  "effects.schema.json",
}

// ValidateAll checks every data table against its JSON schema and returns one
// message per violation. An empty slice means all tables passed. Missing data
// files are violations; the run command treats the result as warnings while
// the validate command treats it as failure.
func ValidateAll(dataDir, schemaDir string) ([]string, error) {
	var problems []string
	for table, schema := range tableSchemas {
		msgs, err := validateFile(
			filepath.Join(dataDir, table),
			filepath.Join(schemaDir, schema))
		if err != nil {
			return nil, err
		}
		problems = append(problems, msgs...)
	}
	return problems, nil
}

func validateFile(dataPath, schemaPath string) ([]string, error) {
	sch, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schemaPath, err)
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", dataPath, err)}, nil
	}

	doc, err := yamlToJSONValue(raw)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", dataPath, err)}, nil
	}

	if err := sch.Validate(doc); err != nil {
		return []string{fmt.Sprintf("%s: %v", dataPath, err)}, nil
	}
	return nil, nil
}

// yamlToJSONValue reparses YAML through JSON so the document uses the value
// types the schema validator expects.
func yamlToJSONValue(raw []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	jb, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize yaml: %w", err)
	}
	var doc any
	if err := json.Unmarshal(jb, &doc); err != nil {
		return nil, fmt.Errorf("normalize yaml: %w", err)
	}
	return doc, nil
}
