package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Shape is the expected form of the data member of a response envelope.
type Shape string

const (
	// ShapeEntity expects an object carrying an integral id.
	ShapeEntity Shape = "entity"
	// ShapeList expects an array of objects carrying integral ids.
	ShapeList Shape = "list"
	// ShapeAny expects data to be present with any value.
	ShapeAny Shape = "any"
	// ShapeNone accepts envelopes without data, e.g. delete answers.
	ShapeNone Shape = "none"
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError lists the schema violations found in a document.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	return []ValidationIssue{{Message: err.Error()}}
}

var identified = map[string]any{
	"type":     "object",
	"required": []any{"id"},
	"properties": map[string]any{
		"id": map[string]any{"type": "integer", "minimum": 1},
	},
}

func envelope(data map[string]any, required bool) map[string]any {
	schema := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"message": map[string]any{"type": []any{"string", "null"}},
		},
	}
	if data != nil {
		schema["properties"].(map[string]any)["data"] = data
	}
	if required {
		schema["required"] = []any{"data"}
	}
	return schema
}

var envelopeSchemas = map[Shape]map[string]any{
	ShapeEntity: envelope(identified, true),
	ShapeList:   envelope(map[string]any{"type": "array", "items": identified}, true),
	ShapeAny:    envelope(nil, true),
	ShapeNone:   envelope(nil, false),
}

var compiled = sync.OnceValues(func() (map[Shape]*jsonschema.Schema, error) {
	out := make(map[Shape]*jsonschema.Schema, len(envelopeSchemas))
	for shape, schema := range envelopeSchemas {
		s, err := compileSchema(string(shape), schema)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, shape, err)
		}
		out[shape] = s
	}
	return out, nil
})

// ValidateEnvelope checks a raw JSON body against the envelope schema for the
// given shape. Numbers are decoded as json.Number so integral ids are checked
// exactly.
func ValidateEnvelope(shape Shape, body []byte) error {
	schemas, err := compiled()
	if err != nil {
		return err
	}
	schema, ok := schemas[shape]
	if !ok {
		return fmt.Errorf("%w: unknown shape %q", ErrSchemaInvalid, shape)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &PayloadValidationError{
			Issues: []ValidationIssue{{Message: "body is not valid JSON"}},
			Cause:  err,
		}
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &PayloadValidationError{Issues: collectValidationIssues(validationErr), Cause: err}
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
