package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("admin: validation failed")

// FieldError is a single field level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation for a form.
type ValidationError struct {
	Form   string       `json:"form"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("admin: %s form is invalid: %s", e.Form, strings.Join(parts, "; "))
}

// Is lets callers test with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the first error reported for the field path.
func (e *ValidationError) Field(path string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == path {
			return f, true
		}
	}
	return FieldError{}, false
}

// FormSchema pairs a form code with its JSON schema document.
type FormSchema struct {
	Code   string
	Schema map[string]any
}

// Validator validates staged form values against a form schema.
type Validator interface {
	Validate(form FormSchema, values map[string]any) error
}

// JSONSchemaValidator compiles form schemas and validates value maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures values satisfy the form schema. Failures are returned as
// *ValidationError carrying every failing field.
func (v *JSONSchemaValidator) Validate(form FormSchema, values map[string]any) error {
	if len(form.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(form)
	if err != nil {
		return err
	}
	payload, err := normalizeValues(values)
	if err != nil {
		return fmt.Errorf("admin: normalize %s values: %w", form.Code, err)
	}
	if err := schema.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Form: form.Code, Fields: collectFieldErrors(verr)}
		}
		return fmt.Errorf("admin: validate %s: %w", form.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(form FormSchema) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[form.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(form.Schema)
	if err != nil {
		return nil, fmt.Errorf("admin: marshal schema %s: %w", form.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	name := form.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("admin: load schema %s: %w", form.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("admin: compile schema %s: %w", form.Code, err)
	}
	v.mu.Lock()
	v.compiled[form.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// ValidateInput validates a typed form input by converting it to its value map.
func ValidateInput(v Validator, form FormSchema, input any) error {
	values, err := toValues(input)
	if err != nil {
		return fmt.Errorf("admin: encode %s input: %w", form.Code, err)
	}
	return v.Validate(form, values)
}

func normalizeValues(values map[string]any) (any, error) {
	if values == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func toValues(input any) (map[string]any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

var quotedName = regexp.MustCompile(`'([^']+)'`)

func collectFieldErrors(root *jsonschema.ValidationError) []FieldError {
	var out []FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		field := pointerToField(e.InstanceLocation)
		if strings.HasSuffix(e.KeywordLocation, "/required") {
			for _, match := range quotedName.FindAllStringSubmatch(e.Message, -1) {
				out = append(out, FieldError{Field: joinField(field, match[1]), Message: "is required"})
			}
			return
		}
		out = append(out, FieldError{Field: field, Message: e.Message})
	}
	walk(root)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return dedupeFieldErrors(out)
}

func dedupeFieldErrors(in []FieldError) []FieldError {
	out := make([]FieldError, 0, len(in))
	for i, fe := range in {
		if i > 0 && in[i-1] == fe {
			continue
		}
		out = append(out, fe)
	}
	return out
}

func pointerToField(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	parts := strings.Split(ptr, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
