package schema

import (
	"strings"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func objectSchema() *Schema {
	return &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"name":    {Type: TypeOf("string"), MinLength: intPtr(1)},
			"port":    {Type: TypeOf("integer"), Minimum: floatPtr(1), Maximum: floatPtr(65535)},
			"mode":    {Type: TypeOf("string"), Enum: []any{"dev", "prod"}},
			"timeout": {Type: TypeOf("string"), Format: "duration"},
			"tags":    {Type: TypeOf("array"), Items: SingleItems(&Schema{Type: TypeOf("string")})},
		},
		Required: []string{"name"},
	}
}

func TestValidateOK(t *testing.T) {
	v := NewValidator(objectSchema())
	data := map[string]any{
		"name":    "svc",
		"port":    8080,
		"mode":    "prod",
		"timeout": "30s",
		"tags":    []any{"a", "b"},
	}
	if err := v.Validate(data); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		wantErr string
	}{
		{
			name:    "missing required",
			data:    map[string]any{"port": 1},
			wantErr: "required",
		},
		{
			name:    "wrong type",
			data:    map[string]any{"name": 42},
			wantErr: "expected string",
		},
		{
			name:    "out of range",
			data:    map[string]any{"name": "x", "port": 70000},
			wantErr: "port",
		},
		{
			name:    "enum violation",
			data:    map[string]any{"name": "x", "mode": "staging"},
			wantErr: "not one of allowed values",
		},
		{
			name:    "bad duration",
			data:    map[string]any{"name": "x", "timeout": "soon"},
			wantErr: "duration",
		},
		{
			name:    "bad array element",
			data:    map[string]any{"name": "x", "tags": []any{"ok", 3}},
			wantErr: "tags[1]",
		},
	}

	v := NewValidator(objectSchema())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.data)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	v := NewValidator(objectSchema())
	err := v.Validate(map[string]any{
		"port": "nope",
		"mode": "staging",
	})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verrs, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationErrors", err)
	}
	// Missing name, bad port type, bad mode.
	if verrs.Len() != 3 {
		t.Errorf("Len() = %d, want 3: %v", verrs.Len(), verrs)
	}
	if len(verrs.ErrorsForPath("mode")) != 1 {
		t.Error("expected an error recorded for mode")
	}
}

func TestValidateStrictMode(t *testing.T) {
	data := map[string]any{"name": "svc", "extra": true}

	if err := NewValidator(objectSchema()).Validate(data); err != nil {
		t.Errorf("lenient mode should allow unknown properties, got %v", err)
	}

	// Strict mode flags unknowns only where the schema closes the
	// object with additionalProperties: false.
	closed := objectSchema()
	allow := false
	closed.AdditionalProperties = &allow

	if err := NewValidator(closed).Validate(data); err != nil {
		t.Errorf("closed object without strict mode should still pass, got %v", err)
	}
	err := NewValidator(closed).WithStrictMode(true).Validate(data)
	if err == nil || !strings.Contains(err.Error(), "unknown property") {
		t.Errorf("strict mode error = %v, want unknown property", err)
	}
}

func TestValidateMaxErrors(t *testing.T) {
	s := &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"a": {Type: TypeOf("integer")},
			"b": {Type: TypeOf("integer")},
			"c": {Type: TypeOf("integer")},
		},
	}
	err := NewValidator(s).WithMaxErrors(2).Validate(map[string]any{
		"a": "x", "b": "x", "c": "x",
	})
	verrs, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if verrs.Len() != 2 {
		t.Errorf("Len() = %d, want capped at 2", verrs.Len())
	}
}

func TestValidateTupleItems(t *testing.T) {
	s := &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"pair": {
				Type: TypeOf("array"),
				Items: TupleItems(
					&Schema{Type: TypeOf("string")},
					&Schema{Type: TypeOf("integer")},
				),
			},
		},
	}
	v := NewValidator(s)

	if err := v.Validate(map[string]any{"pair": []any{"host", 80}}); err != nil {
		t.Errorf("valid tuple rejected: %v", err)
	}
	if err := v.Validate(map[string]any{"pair": []any{80, "host"}}); err == nil {
		t.Error("swapped tuple should fail positional validation")
	}
	// Elements beyond the tuple are unconstrained.
	if err := v.Validate(map[string]any{"pair": []any{"host", 80, true}}); err != nil {
		t.Errorf("extra tuple elements should be unconstrained: %v", err)
	}
}

func TestValidateNestedObject(t *testing.T) {
	s := &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"db": {
				Type: TypeOf("object"),
				Properties: map[string]*Schema{
					"host": {Type: TypeOf("string")},
				},
				Required: []string{"host"},
			},
		},
		Required: []string{"db"},
	}
	v := NewValidator(s)

	if err := v.Validate(map[string]any{"db": map[string]any{"host": "h"}}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	err := v.Validate(map[string]any{"db": map[string]any{}})
	if err == nil || !strings.Contains(err.Error(), "db.host") {
		t.Errorf("error = %v, want db.host required", err)
	}
}

func TestValidateValueScalar(t *testing.T) {
	v := NewValidator(&Schema{Type: TypeOf("integer"), Minimum: floatPtr(0)})

	if err := v.ValidateValue(5); err != nil {
		t.Errorf("ValidateValue(5) error = %v", err)
	}
	if err := v.ValidateValue(-1); err == nil {
		t.Error("ValidateValue(-1) should fail the minimum")
	}
	if err := v.ValidateValue("five"); err == nil {
		t.Error("ValidateValue(five) should fail the type check")
	}
}

func TestValidateCombinators(t *testing.T) {
	t.Run("anyOf", func(t *testing.T) {
		v := NewValidator(&Schema{AnyOf: []*Schema{
			{Type: TypeOf("string")},
			{Type: TypeOf("integer")},
		}})
		if err := v.ValidateValue("s"); err != nil {
			t.Errorf("string should satisfy anyOf: %v", err)
		}
		if err := v.ValidateValue(true); err == nil {
			t.Error("bool should fail anyOf")
		}
	})

	t.Run("oneOf", func(t *testing.T) {
		v := NewValidator(&Schema{OneOf: []*Schema{
			{Type: TypeOf("integer"), Minimum: floatPtr(0)},
			{Type: TypeOf("integer"), Maximum: floatPtr(10)},
		}})
		// 5 matches both branches.
		if err := v.ValidateValue(5); err == nil {
			t.Error("value matching both branches should fail oneOf")
		}
		if err := v.ValidateValue(20); err != nil {
			t.Errorf("20 matches exactly one branch: %v", err)
		}
	})

	t.Run("not", func(t *testing.T) {
		v := NewValidator(&Schema{Not: &Schema{Type: TypeOf("string")}})
		if err := v.ValidateValue(1); err != nil {
			t.Errorf("non-string should pass not: %v", err)
		}
		if err := v.ValidateValue("s"); err == nil {
			t.Error("string should fail not")
		}
	})

	t.Run("const", func(t *testing.T) {
		v := NewValidator(&Schema{Const: "fixed"})
		if err := v.ValidateValue("fixed"); err != nil {
			t.Errorf("const match failed: %v", err)
		}
		if err := v.ValidateValue("other"); err == nil {
			t.Error("const mismatch should fail")
		}
	})
}

func TestValidateRef(t *testing.T) {
	s := &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"listen": {Ref: "#/$defs/port"},
		},
		Defs: map[string]*Schema{
			"port": {Type: TypeOf("integer"), Minimum: floatPtr(1), Maximum: floatPtr(65535)},
		},
	}
	v := NewValidator(s)

	if err := v.Validate(map[string]any{"listen": 8080}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := v.Validate(map[string]any{"listen": 0}); err == nil {
		t.Error("referenced minimum should apply")
	}
}

func TestValidatePattern(t *testing.T) {
	v := NewValidator(&Schema{Type: TypeOf("string"), Pattern: `^[a-z]+$`})

	if err := v.ValidateValue("abc"); err != nil {
		t.Errorf("ValidateValue(abc) error = %v", err)
	}
	if err := v.ValidateValue("ABC"); err == nil {
		t.Error("pattern mismatch should fail")
	}
}

func TestValidateNilSchema(t *testing.T) {
	v := NewValidator(nil)
	if err := v.Validate(map[string]any{"anything": 1}); err != nil {
		t.Errorf("nil schema should accept everything, got %v", err)
	}
}
