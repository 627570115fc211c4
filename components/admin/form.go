package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrIndexOutOfRange is returned when a nested collection index is invalid.
	ErrIndexOutOfRange = errors.New("admin: index out of range")
	// ErrNotList is returned when a nested collection operation targets a non list field.
	ErrNotList = errors.New("admin: field is not a list")
	// ErrInvalidPath is returned when a field path is empty or crosses a non object value.
	ErrInvalidPath = errors.New("admin: invalid field path")
)

// FormMode tells whether a form stages a new record or edits an existing one.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// Submission is the validated payload handed to the submit callback.
type Submission[V any] struct {
	Mode     FormMode
	TargetID string
	Payload  V
}

// FormController stages the values of a single record, validates them against
// a FormSchema and hands the decoded payload to a caller supplied callback.
// It never touches a Store.
type FormController[V any] struct {
	mu        sync.Mutex
	schema    FormSchema
	validator Validator
	defaults  map[string]any
	source    map[string]any
	values    map[string]any
	mode      FormMode
	targetID  string
	lastErr   *ValidationError
	// committed is set once a submit succeeds; the staged values no longer
	// reflect unsaved edits and the next Edit re-populates.
	committed bool
}

// NewFormController builds a controller opened in create mode with defaults staged.
func NewFormController[V any](schema FormSchema, validator Validator, defaults V) (*FormController[V], error) {
	if validator == nil {
		validator = NewJSONSchemaValidator()
	}
	values, err := toValues(defaults)
	if err != nil {
		return nil, fmt.Errorf("admin: encode %s defaults: %w", schema.Code, err)
	}
	f := &FormController[V]{
		schema:    schema,
		validator: validator,
		defaults:  values,
	}
	f.Create()
	return f, nil
}

// Create opens the form for a new record with the defaults staged.
func (f *FormController[V]) Create() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = FormCreate
	f.targetID = ""
	f.source = f.defaults
	f.values = cloneMap(f.defaults)
	f.lastErr = nil
	f.committed = false
}

// Edit opens the form for the record identified by id. Values are re-populated
// from current when the target identity changes or the previous edit was
// submitted; re-opening the same record with unsaved edits keeps them.
func (f *FormController[V]) Edit(id string, current V) error {
	if id == "" {
		return fmt.Errorf("admin: %s edit requires a record id", f.schema.Code)
	}
	values, err := toValues(current)
	if err != nil {
		return fmt.Errorf("admin: encode %s record: %w", f.schema.Code, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == FormEdit && f.targetID == id && !f.committed {
		return nil
	}
	f.mode = FormEdit
	f.targetID = id
	f.source = values
	f.values = cloneMap(values)
	f.lastErr = nil
	f.committed = false
	return nil
}

// Reset discards staged edits and restores the values the form was opened with.
func (f *FormController[V]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = cloneMap(f.source)
	f.lastErr = nil
}

// Mode reports whether the form is creating or editing.
func (f *FormController[V]) Mode() FormMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// TargetID is the id of the record being edited, empty in create mode.
func (f *FormController[V]) TargetID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.targetID
}

// Values returns a copy of the staged values.
func (f *FormController[V]) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneMap(f.values)
}

// Errors returns the field errors of the last failed submit, if any.
func (f *FormController[V]) Errors() *ValidationError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Get returns the staged value at a dotted path such as "parameters.temperature".
func (f *FormController[V]) Get(path string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, key, err := walkPath(f.values, path, false)
	if err != nil || parent == nil {
		return nil, false
	}
	value, ok := parent[key]
	return cloneValue(value), ok
}

// Set stages value at a dotted path, creating intermediate objects as needed.
func (f *FormController[V]) Set(path string, value any) error {
	normalized, err := normalizeItem(value)
	if err != nil {
		return fmt.Errorf("admin: encode %s.%s: %w", f.schema.Code, path, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, key, err := walkPath(f.values, path, true)
	if err != nil {
		return err
	}
	parent[key] = normalized
	return nil
}

// AppendItem adds item to the end of the list at path.
func (f *FormController[V]) AppendItem(path string, item any) error {
	normalized, err := normalizeItem(item)
	if err != nil {
		return fmt.Errorf("admin: encode %s.%s item: %w", f.schema.Code, path, err)
	}
	return f.mutateList(path, true, func(list []any) ([]any, error) {
		return append(list, normalized), nil
	})
}

// RemoveItem drops the element at idx from the list at path.
func (f *FormController[V]) RemoveItem(path string, idx int) error {
	return f.mutateList(path, false, func(list []any) ([]any, error) {
		if idx < 0 || idx >= len(list) {
			return nil, fmt.Errorf("admin: remove %s[%d]: %w", path, idx, ErrIndexOutOfRange)
		}
		return append(list[:idx:idx], list[idx+1:]...), nil
	})
}

// SwapItems exchanges the elements at i and j of the list at path.
func (f *FormController[V]) SwapItems(path string, i, j int) error {
	return f.mutateList(path, false, func(list []any) ([]any, error) {
		if i < 0 || j < 0 || i >= len(list) || j >= len(list) {
			return nil, fmt.Errorf("admin: swap %s[%d,%d]: %w", path, i, j, ErrIndexOutOfRange)
		}
		list[i], list[j] = list[j], list[i]
		return list, nil
	})
}

func (f *FormController[V]) mutateList(path string, create bool, fn func([]any) ([]any, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, key, err := walkPath(f.values, path, create)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("admin: %s: %w", path, ErrNotList)
	}
	var list []any
	switch current := parent[key].(type) {
	case nil:
		if !create {
			return fmt.Errorf("admin: %s: %w", path, ErrNotList)
		}
	case []any:
		list = append([]any(nil), current...)
	default:
		return fmt.Errorf("admin: %s: %w", path, ErrNotList)
	}
	next, err := fn(list)
	if err != nil {
		return err
	}
	parent[key] = next
	return nil
}

// Submit validates the staged values. On failure it returns a *ValidationError
// and does not call onSubmit. On success the values are decoded into V and
// passed to onSubmit, whose error is returned unchanged.
func (f *FormController[V]) Submit(ctx context.Context, onSubmit func(context.Context, Submission[V]) error) error {
	f.mu.Lock()
	values := cloneMap(f.values)
	sub := Submission[V]{Mode: f.mode, TargetID: f.targetID}
	f.mu.Unlock()

	if err := f.validator.Validate(f.schema, values); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			f.mu.Lock()
			f.lastErr = verr
			f.mu.Unlock()
		}
		return err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("admin: encode %s values: %w", f.schema.Code, err)
	}
	if err := json.Unmarshal(data, &sub.Payload); err != nil {
		return fmt.Errorf("admin: decode %s payload: %w", f.schema.Code, err)
	}
	f.mu.Lock()
	f.lastErr = nil
	f.mu.Unlock()
	if onSubmit != nil {
		if err := onSubmit(ctx, sub); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.committed = true
	f.mu.Unlock()
	return nil
}

func walkPath(root map[string]any, path string, create bool) (map[string]any, string, error) {
	parts := strings.Split(path, ".")
	for _, part := range parts {
		if part == "" {
			return nil, "", fmt.Errorf("admin: %q: %w", path, ErrInvalidPath)
		}
	}
	node := root
	for _, part := range parts[:len(parts)-1] {
		switch child := node[part].(type) {
		case map[string]any:
			node = child
		case nil:
			if !create {
				return nil, "", nil
			}
			next := map[string]any{}
			node[part] = next
			node = next
		default:
			return nil, "", fmt.Errorf("admin: %q: %w", path, ErrInvalidPath)
		}
	}
	return node, parts[len(parts)-1], nil
}

func normalizeItem(value any) (any, error) {
	switch value.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return cloneValue(value), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
