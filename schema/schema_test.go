package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSchemaTypeMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		typ  SchemaType
		want string
	}{
		{"empty", SchemaType{}, "null"},
		{"single", TypeOf("string"), `"string"`},
		{"multiple", SchemaType{Types: []string{"string", "null"}}, `["string","null"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.typ)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestSchemaTypeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"single", `"integer"`, []string{"integer"}},
		{"array", `["string","null"]`, []string{"string", "null"}},
		{"json null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var typ SchemaType
			if err := json.Unmarshal([]byte(tt.data), &typ); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(typ.Types, tt.want) {
				t.Errorf("Types = %v, want %v", typ.Types, tt.want)
			}
		})
	}
}

func TestSchemaTypeIs(t *testing.T) {
	typ := SchemaType{Types: []string{"string", "null"}}
	if !typ.Is("string") || !typ.Is("null") {
		t.Error("Is should match any listed type")
	}
	if typ.Is("integer") {
		t.Error("Is should not match unlisted types")
	}
}

func TestItemsSchemaRoundTrip(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		items := SingleItems(&Schema{Type: TypeOf("integer")})
		data, err := json.Marshal(items)
		if err != nil {
			t.Fatal(err)
		}

		var got ItemsSchema
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.IsTuple() {
			t.Error("single items should not round-trip as tuple")
		}
		if !got.Single.Type.Is("integer") {
			t.Errorf("item type = %v", got.Single.Type)
		}
	})

	t.Run("tuple", func(t *testing.T) {
		items := TupleItems(
			&Schema{Type: TypeOf("string")},
			&Schema{Type: TypeOf("integer")},
		)
		data, err := json.Marshal(items)
		if err != nil {
			t.Fatal(err)
		}

		var got ItemsSchema
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if !got.IsTuple() || len(got.Tuple) != 2 {
			t.Fatalf("tuple items did not round-trip: %+v", got)
		}
		if !got.Tuple[0].Type.Is("string") || !got.Tuple[1].Type.Is("integer") {
			t.Error("tuple element types did not round-trip")
		}
	})
}

func TestParse(t *testing.T) {
	data := []byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"port": {"type": "integer", "minimum": 1, "maximum": 65535}
		},
		"required": ["name"]
	}`)

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !s.Type.Is("object") {
		t.Errorf("Type = %v, want object", s.Type)
	}
	if !s.IsRequired("name") {
		t.Error("name should be required")
	}
	port := s.GetProperty("port")
	if port == nil {
		t.Fatal("port property missing")
	}
	if port.Minimum == nil || *port.Minimum != 1 {
		t.Errorf("port minimum = %v", port.Minimum)
	}

	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse should reject malformed input")
	}
}

func TestClone(t *testing.T) {
	var nilSchema *Schema
	if nilSchema.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}

	orig := &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"a": {Type: TypeOf("string"), Enum: []any{"x", "y"}},
		},
		Required: []string{"a"},
	}
	clone := orig.Clone()

	clone.Properties["a"].Enum[0] = "mutated"
	clone.Required[0] = "b"
	if orig.Properties["a"].Enum[0] != "x" || orig.Required[0] != "a" {
		t.Error("Clone shares structure with original")
	}
}

func TestGetProperty(t *testing.T) {
	s := &Schema{
		Type: TypeOf("object"),
		Properties: map[string]*Schema{
			"db": {
				Type: TypeOf("object"),
				Properties: map[string]*Schema{
					"host": {Type: TypeOf("string")},
				},
			},
		},
	}

	if got := s.GetProperty("db.host"); got == nil || !got.Type.Is("string") {
		t.Errorf("GetProperty(db.host) = %v", got)
	}
	if s.GetProperty("db.missing") != nil {
		t.Error("GetProperty of unknown path should be nil")
	}
	if !s.HasProperty("db") || s.HasProperty("nope") {
		t.Error("HasProperty mismatch")
	}
}
