// Package registry provides the declaration layer of the configuration
// framework: leaf option descriptors, composable schema nodes, the
// bindings that tie declared attributes to configuration keys, and the
// instances through which loaded values are accessed.
//
// Declarations are built once, typically at process start, and are not
// safe for concurrent mutation; callers serialize registration,
// extension, loading, and access externally.
package registry

import (
	"fmt"

	"github.com/dshills/conftree/schema"
)

// TranslateFunc converts a raw configuration value into its in-memory
// representation.
type TranslateFunc func(raw any) (any, error)

// Descriptor describes a configuration field: a scalar option, a list
// option, or a nested node. The set of implementations is closed
// (Option, ListOption, Node).
type Descriptor interface {
	// Translate converts a raw value drawn from loaded data.
	Translate(raw any) (any, error)

	// SchemaDoc returns the generated schema document for the
	// descriptor. The document is memoized; do not mutate it.
	SchemaDoc() *schema.Schema

	// DefaultValue returns the default value and whether one exists.
	// A descriptor without a default describes a required field.
	DefaultValue() (any, bool)

	// key returns the declared source-key override, if any.
	key() string

	// child resolves a path segment to a nested binding.
	child(name string) *Binding

	// addParent records a structural parent for cache invalidation.
	addParent(p Descriptor)

	// parentList returns the structural parents.
	parentList() []Descriptor

	// cacheValid reports whether a generated schema is cached.
	cacheValid() bool

	// clearCache drops the cached generated schema.
	clearCache()
}

// Option describes a scalar configuration value. Fields are set by
// struct literal at declaration time and must not be modified after the
// option is registered.
type Option struct {
	// Default is the default value, used when Required is false.
	Default any

	// Required marks the option as having no default; reading an
	// unset required option fails.
	Required bool

	// Help documents the option; it becomes the schema description.
	Help string

	// Key overrides the configuration key the value is drawn from.
	// Empty means the declared attribute name is used.
	Key string

	// Enum lists the legal values, if constrained.
	Enum []any

	// Fragment is a partial schema; its description, default, and enum
	// are replaced with computed data.
	Fragment *schema.Schema

	// Convert translates the raw value. Nil means identity.
	Convert TranslateFunc

	doc     *schema.Schema
	parents []Descriptor
}

// Translate converts a raw configuration value. Scalar options pass the
// value through unless a Convert function is declared.
func (o *Option) Translate(raw any) (any, error) {
	if o.Convert != nil {
		return o.Convert(raw)
	}
	return raw, nil
}

// SchemaDoc returns the generated schema for the option.
func (o *Option) SchemaDoc() *schema.Schema {
	if o.doc == nil {
		s := o.Fragment.Clone()
		if s == nil {
			s = &schema.Schema{}
		}
		if !o.Required {
			s.Default = o.Default
		}
		if o.Help != "" {
			s.Description = o.Help
		}
		if len(o.Enum) > 0 {
			s.Enum = append([]any(nil), o.Enum...)
		}
		o.doc = s
	}
	return o.doc
}

// DefaultValue returns the declared default, if the option has one.
func (o *Option) DefaultValue() (any, bool) {
	if o.Required {
		return nil, false
	}
	return o.Default, true
}

// Validate checks a value against the option's generated schema.
func (o *Option) Validate(value any) error {
	return schema.NewValidator(o.SchemaDoc()).ValidateValue(value)
}

func (o *Option) key() string { return o.Key }

func (o *Option) child(string) *Binding { return nil }

func (o *Option) addParent(p Descriptor) {
	for _, existing := range o.parents {
		if existing == p {
			return
		}
	}
	o.parents = append(o.parents, p)
}

func (o *Option) parentList() []Descriptor { return o.parents }

// A scalar option's schema embeds no children, so it never holds a
// stale cache; invalidation stops here.
func (o *Option) cacheValid() bool { return false }

func (o *Option) clearCache() {}

// ListOption describes a configuration value taking a list. Exactly one
// of Items or Tuple may be set: Items applies one descriptor to every
// element ("list" mode), Tuple applies descriptors positionally with
// elements beyond the tuple passed through raw ("tuple" mode). With
// neither set, the whole list passes through untranslated.
type ListOption struct {
	// Default is the default value, used when Required is false.
	Default any

	// Required marks the option as having no default.
	Required bool

	// Help documents the option; it becomes the schema description.
	Help string

	// Key overrides the configuration key the value is drawn from.
	Key string

	// Fragment is a partial schema; its type, description, default,
	// and items are replaced with computed data.
	Fragment *schema.Schema

	// Items is the element descriptor for list mode.
	Items Descriptor

	// Tuple holds positional descriptors for tuple mode. A nil entry
	// places no constraint on that position.
	Tuple []Descriptor

	initialized bool
	doc         *schema.Schema
	parents     []Descriptor
	children    map[string]*Binding
}

// ensureInit wires item parent links and child bindings. Runs once, on
// first use of the option.
func (l *ListOption) ensureInit() {
	if l.initialized {
		return
	}
	l.initialized = true

	if l.Items != nil && l.Tuple != nil {
		panic("registry: ListOption declares both Items and Tuple")
	}

	l.children = make(map[string]*Binding)
	switch {
	case l.Items != nil:
		l.Items.addParent(l)
		l.children["[]"] = newBinding("[]", "[]", l.Items)
	case l.Tuple != nil:
		for i, item := range l.Tuple {
			if item == nil {
				continue
			}
			item.addParent(l)
			name := fmt.Sprintf("[%d]", i)
			l.children[name] = newBinding(name, name, item)
		}
	}
}

// Translate converts a raw list value according to the declared mode.
func (l *ListOption) Translate(raw any) (any, error) {
	l.ensureInit()

	if l.Items == nil && l.Tuple == nil {
		return raw, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array value, got %T", raw)
	}

	result := make([]any, len(list))
	if l.Items != nil {
		for i, v := range list {
			xv, err := l.Items.Translate(v)
			if err != nil {
				return nil, err
			}
			result[i] = xv
		}
		return result, nil
	}

	for i, v := range list {
		if i < len(l.Tuple) && l.Tuple[i] != nil {
			xv, err := l.Tuple[i].Translate(v)
			if err != nil {
				return nil, err
			}
			result[i] = xv
		} else {
			result[i] = v
		}
	}
	return result, nil
}

// SchemaDoc returns the generated schema for the list option. The
// document is memoized and invalidated when a nested node is extended.
func (l *ListOption) SchemaDoc() *schema.Schema {
	l.ensureInit()

	if l.doc == nil {
		s := l.Fragment.Clone()
		if s == nil {
			s = &schema.Schema{}
		}
		s.Type = schema.TypeOf("array")
		if !l.Required {
			s.Default = l.Default
		}
		if l.Help != "" {
			s.Description = l.Help
		}

		switch {
		case l.Items != nil:
			s.Items = schema.SingleItems(l.Items.SchemaDoc())
		case l.Tuple != nil:
			tuple := make([]*schema.Schema, len(l.Tuple))
			for i, item := range l.Tuple {
				if item != nil {
					tuple[i] = item.SchemaDoc()
				}
			}
			s.Items = schema.TupleItems(tuple...)
		}
		// No-translate mode carries no items constraint.

		l.doc = s
	}
	return l.doc
}

// DefaultValue returns the declared default, if the option has one.
func (l *ListOption) DefaultValue() (any, bool) {
	if l.Required {
		return nil, false
	}
	return l.Default, true
}

// Validate checks a value against the option's generated schema.
func (l *ListOption) Validate(value any) error {
	return schema.NewValidator(l.SchemaDoc()).ValidateValue(value)
}

func (l *ListOption) key() string { return l.Key }

func (l *ListOption) child(name string) *Binding {
	l.ensureInit()
	return l.children[name]
}

func (l *ListOption) addParent(p Descriptor) {
	for _, existing := range l.parents {
		if existing == p {
			return
		}
	}
	l.parents = append(l.parents, p)
}

func (l *ListOption) parentList() []Descriptor { return l.parents }

func (l *ListOption) cacheValid() bool { return l.doc != nil }

func (l *ListOption) clearCache() { l.doc = nil }
