// Package schema provides the JSON-Schema document model used to
// describe and validate configuration trees.
//
// Schema documents are generated by the registry package from declared
// configuration nodes, and raw loaded data is checked against them by
// the Validator before it is committed to an instance.
package schema

import (
	"encoding/json"
	"fmt"
)

// Schema represents a JSON Schema document for configuration validation.
type Schema struct {
	// ID is the schema identifier ($id).
	ID string `json:"$id,omitempty"`

	// SchemaVersion is the JSON Schema version ($schema).
	SchemaVersion string `json:"$schema,omitempty"`

	// Title is a descriptive title.
	Title string `json:"title,omitempty"`

	// Description provides documentation.
	Description string `json:"description,omitempty"`

	// Type is the JSON type (string, number, integer, boolean, array, object, null).
	Type SchemaType `json:"type,omitempty"`

	// Properties defines object properties (for type: object).
	Properties map[string]*Schema `json:"properties,omitempty"`

	// AdditionalProperties controls whether extra properties are allowed.
	AdditionalProperties *bool `json:"additionalProperties,omitempty"`

	// Required lists required property names.
	Required []string `json:"required,omitempty"`

	// Items defines the schema for array elements. It holds either a
	// single schema applied to every element, or a positional tuple of
	// schemas.
	Items *ItemsSchema `json:"items,omitempty"`

	// Enum lists allowed values.
	Enum []any `json:"enum,omitempty"`

	// Const defines a single allowed value.
	Const any `json:"const,omitempty"`

	// Default is the default value.
	Default any `json:"default,omitempty"`

	// Minimum for numeric types.
	Minimum *float64 `json:"minimum,omitempty"`

	// Maximum for numeric types.
	Maximum *float64 `json:"maximum,omitempty"`

	// ExclusiveMinimum for numeric types.
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`

	// ExclusiveMaximum for numeric types.
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// MultipleOf requires numbers to be multiples of this value.
	MultipleOf *float64 `json:"multipleOf,omitempty"`

	// MinLength for strings.
	MinLength *int `json:"minLength,omitempty"`

	// MaxLength for strings.
	MaxLength *int `json:"maxLength,omitempty"`

	// Pattern is a regex pattern for strings.
	Pattern string `json:"pattern,omitempty"`

	// Format is a semantic format hint (e.g., "uri", "email", "duration").
	Format string `json:"format,omitempty"`

	// MinItems for arrays.
	MinItems *int `json:"minItems,omitempty"`

	// MaxItems for arrays.
	MaxItems *int `json:"maxItems,omitempty"`

	// UniqueItems requires array elements to be unique.
	UniqueItems bool `json:"uniqueItems,omitempty"`

	// AllOf requires all schemas to match.
	AllOf []*Schema `json:"allOf,omitempty"`

	// AnyOf requires at least one schema to match.
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// OneOf requires exactly one schema to match.
	OneOf []*Schema `json:"oneOf,omitempty"`

	// Not inverts a schema.
	Not *Schema `json:"not,omitempty"`

	// Ref references another schema ($ref).
	Ref string `json:"$ref,omitempty"`

	// Defs contains schema definitions ($defs).
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// SchemaType represents JSON Schema type(s).
// Can be a single type or an array of types.
type SchemaType struct {
	Types []string
}

// TypeOf shorthands a single-type SchemaType.
func TypeOf(typ string) SchemaType {
	return SchemaType{Types: []string{typ}}
}

// UnmarshalJSON handles both single type and array of types.
func (t *SchemaType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Types = nil
		return nil
	}

	// Try single string first
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.Types = []string{single}
		return nil
	}

	// Try array of strings
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("type must be string or array of strings: %w", err)
	}
	t.Types = arr
	return nil
}

// MarshalJSON outputs single type as string, multiple as array.
func (t SchemaType) MarshalJSON() ([]byte, error) {
	if len(t.Types) == 1 {
		return json.Marshal(t.Types[0])
	}
	return json.Marshal(t.Types)
}

// Is checks if the schema type includes the given type.
func (t SchemaType) Is(typ string) bool {
	for _, st := range t.Types {
		if st == typ {
			return true
		}
	}
	return false
}

// IsEmpty returns true if no types are defined.
func (t SchemaType) IsEmpty() bool {
	return len(t.Types) == 0
}

// String returns the type as a string.
func (t SchemaType) String() string {
	if len(t.Types) == 1 {
		return t.Types[0]
	}
	return fmt.Sprintf("%v", t.Types)
}

// ItemsSchema represents the "items" keyword, which is either a single
// schema applied to every array element or a tuple of positional
// schemas. A nil entry in Tuple marshals as an empty schema and places
// no constraint on that position.
type ItemsSchema struct {
	Single *Schema
	Tuple  []*Schema
}

// SingleItems wraps one schema as a list-mode items constraint.
func SingleItems(s *Schema) *ItemsSchema {
	return &ItemsSchema{Single: s}
}

// TupleItems wraps positional schemas as a tuple-mode items constraint.
func TupleItems(schemas ...*Schema) *ItemsSchema {
	return &ItemsSchema{Tuple: schemas}
}

// IsTuple reports whether the items constraint is positional.
func (i *ItemsSchema) IsTuple() bool {
	return i != nil && i.Single == nil
}

// UnmarshalJSON handles both single schema and array of schemas.
func (i *ItemsSchema) UnmarshalJSON(data []byte) error {
	var single Schema
	if err := json.Unmarshal(data, &single); err == nil {
		i.Single = &single
		i.Tuple = nil
		return nil
	}

	var tuple []*Schema
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("items must be a schema or array of schemas: %w", err)
	}
	i.Single = nil
	i.Tuple = tuple
	return nil
}

// MarshalJSON outputs a single schema as an object, a tuple as an array.
func (i ItemsSchema) MarshalJSON() ([]byte, error) {
	if i.Single != nil {
		return json.Marshal(i.Single)
	}
	out := make([]*Schema, len(i.Tuple))
	for idx, s := range i.Tuple {
		if s == nil {
			s = &Schema{}
		}
		out[idx] = s
	}
	return json.Marshal(out)
}

// Parse parses a JSON Schema from bytes.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return s, nil
}

// Clone returns a deep copy of the schema. The document is fully
// json-tagged, so a marshal round-trip copies every reachable field.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		// A Schema built from literals or parsed JSON always marshals.
		panic(fmt.Sprintf("schema: clone marshal: %v", err))
	}
	out := &Schema{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("schema: clone unmarshal: %v", err))
	}
	return out
}

// GetProperty returns the schema for a nested property path.
// Path is dot-separated (e.g., "executor.queue").
func (s *Schema) GetProperty(path string) *Schema {
	if s == nil || path == "" {
		return s
	}

	parts := splitPath(path)
	current := s

	for _, part := range parts {
		if current.Properties == nil {
			return nil
		}
		prop, ok := current.Properties[part]
		if !ok {
			return nil
		}
		current = prop
	}

	return current
}

// HasProperty checks if a property exists at the given path.
func (s *Schema) HasProperty(path string) bool {
	return s.GetProperty(path) != nil
}

// IsRequired checks if a property is required.
func (s *Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// AllowsAdditionalProperties returns whether additional properties are allowed.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true // Default is true
	}
	return *s.AdditionalProperties
}

// splitPath splits a dot-separated path into parts.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var parts []string
	current := ""
	for _, c := range path {
		if c == '.' {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
		} else {
			current += string(c)
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}
