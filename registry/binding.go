package registry

// Binding is the registered association between a declared attribute
// name, a configuration key, and the descriptor that translates and
// documents the value. Bindings are immutable once created.
type Binding struct {
	attr string
	key  string
	desc Descriptor
}

// newBinding constructs a binding triple.
func newBinding(attr, key string, d Descriptor) *Binding {
	return &Binding{attr: attr, key: key, desc: d}
}

// Attr returns the declared attribute name.
func (b *Binding) Attr() string { return b.attr }

// Key returns the configuration key the value is drawn from.
func (b *Binding) Key() string { return b.key }

// Descriptor returns the bound option or node.
func (b *Binding) Descriptor() Descriptor { return b.desc }

// Child resolves a path segment against the bound descriptor: a field
// of a nested node, or a list item ("[]", "[0]", …). Returns nil for
// leaf options.
func (b *Binding) Child(name string) *Binding {
	return b.desc.child(name)
}

// Resolve returns the translated value of the bound field for an
// instance, memoizing the result. The raw value under the binding's
// key is translated when present; otherwise the descriptor's default
// is returned untranslated. Resolution of a required field with no raw
// value fails with a MissingValueError and leaves the memo untouched.
func (b *Binding) Resolve(inst *Instance) (any, error) {
	if v, ok := inst.xlated[b.attr]; ok {
		return v, nil
	}

	var value any
	if raw, present := inst.raw[b.key]; present {
		v, err := b.desc.Translate(raw)
		if err != nil {
			return nil, err
		}
		value = v
	} else {
		def, ok := b.desc.DefaultValue()
		if !ok {
			return nil, &MissingValueError{Attr: b.attr, Key: b.key}
		}
		value = def
	}

	inst.xlated[b.attr] = value
	return value, nil
}
