package task

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaURL identifies the candidate schema inside a jsonschema.Compiler.
const SchemaURL = "planner://task.schema.json"

//go:embed task.schema.json
var candidateSchema string

// ValidationError is a structural error in JSON input, located by path.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AddSchemaResources registers the candidate schema with c so other schemas
// can reference it by SchemaURL.
func AddSchemaResources(c *jsonschema.Compiler) error {
	return c.AddResource(SchemaURL, strings.NewReader(candidateSchema))
}

// NewCompiler returns a draft 2020-12 compiler with the candidate schema loaded.
func NewCompiler() (*jsonschema.Compiler, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := AddSchemaResources(compiler); err != nil {
		return nil, fmt.Errorf("add task schema: %w", err)
	}
	return compiler, nil
}

// DecodeCandidate checks data against the candidate schema and decodes it.
// Business rules are not applied; pass the result to a Validator.
func DecodeCandidate(data []byte) (Candidate, error) {
	compiler, err := NewCompiler()
	if err != nil {
		return Candidate{}, err
	}
	schema, err := compiler.Compile(SchemaURL)
	if err != nil {
		return Candidate{}, fmt.Errorf("compile task schema: %w", err)
	}

	if errs := ValidateAgainst(schema, data); len(errs) > 0 {
		return Candidate{}, errs[0]
	}

	var c Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return Candidate{}, &ValidationError{Err: fmt.Errorf("decode task: %w", err)}
	}
	return c, nil
}

// ValidateAgainst validates raw JSON against schema and returns one
// ValidationError per leaf failure.
func ValidateAgainst(schema *jsonschema.Schema, data []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("parse json: %w", err)}}
	}

	if err := schema.Validate(doc); err != nil {
		var errs []error
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return []error{err}
		}
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/task/title" into "task.title" and "/0" into "[0]".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
