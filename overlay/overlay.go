// Package overlay provides a copy-on-write view over a nested
// configuration mapping. Speculative edits, including deletions, are
// recorded against the overlay, inspected and validated, and then
// either committed to the underlying tree in a single Apply pass or
// discarded by dropping the overlay.
//
// Only one outstanding transaction should exist per mapping at a time;
// this is caller discipline, not an enforced invariant.
package overlay

import "sort"

// override records a pending change to a single key: either a new
// value or a deletion tombstone.
type override struct {
	deleted bool
	value   any
}

// Map is a copy-on-write node wrapping an original mapping. Nested
// mappings read through a Map are lazily promoted to child Maps
// parented to the same transaction root, so a single Apply on the root
// commits the whole tree.
type Map struct {
	orig      map[string]any
	overrides map[string]override
	lookaside map[string]*Map // materialized child overlays

	root        *Map // nil for the transaction root
	descendants []*Map
}

// New creates a transaction root over the original mapping. The
// original is not modified until Apply is called.
func New(orig map[string]any) *Map {
	return &Map{
		orig:      orig,
		overrides: make(map[string]override),
		lookaside: make(map[string]*Map),
	}
}

// newChild creates a non-root node tracked by the transaction root.
func newChild(orig map[string]any, root *Map) *Map {
	m := &Map{
		orig:      orig,
		overrides: make(map[string]override),
		lookaside: make(map[string]*Map),
		root:      root,
	}
	root.descendants = append(root.descendants, m)
	return m
}

// Get retrieves the effective value of a key. Nested mappings are
// returned as child *Map overlays. A tombstoned key reads as absent.
func (m *Map) Get(key string) (any, bool) {
	if child, ok := m.lookaside[key]; ok {
		return child, true
	}

	var value any
	if ov, ok := m.overrides[key]; ok {
		if ov.deleted {
			return nil, false
		}
		value = ov.value
	} else if orig, ok := m.orig[key]; ok {
		value = orig
	} else {
		return nil, false
	}

	if nested, ok := value.(map[string]any); ok {
		// Parent children to the transaction root, not to this node,
		// so a root promoted from its own nested value cannot
		// self-reference.
		root := m.root
		if root == nil {
			root = m
		}
		child := newChild(nested, root)
		m.lookaside[key] = child
		return child, true
	}

	return value, true
}

// Set records an override for a key. Setting a key to a value deeply
// equal to its original clears any pending override instead, treating
// the write as a reset to base.
func (m *Map) Set(key string, value any) {
	delete(m.lookaside, key)

	if orig, ok := m.orig[key]; ok && valuesEqual(orig, value) {
		delete(m.overrides, key)
		return
	}
	m.overrides[key] = override{value: value}
}

// Delete records the removal of a key. Keys present in the original
// mapping get a deletion tombstone; keys that exist only as pending
// overrides are simply dropped.
func (m *Map) Delete(key string) {
	delete(m.lookaside, key)

	if _, ok := m.orig[key]; ok {
		m.overrides[key] = override{deleted: true}
		return
	}
	delete(m.overrides, key)
}

// Keys returns the effective key set in sorted order: the union of
// original and overridden keys, minus tombstones.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.orig)+len(m.overrides))
	for key := range m.orig {
		if ov, ok := m.overrides[key]; ok && ov.deleted {
			continue
		}
		keys = append(keys, key)
	}
	for key, ov := range m.overrides {
		if ov.deleted {
			continue
		}
		if _, ok := m.orig[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the effective number of keys.
func (m *Map) Len() int {
	union := make(map[string]bool, len(m.orig)+len(m.overrides))
	for key := range m.orig {
		union[key] = true
	}
	deleted := 0
	for key, ov := range m.overrides {
		union[key] = true
		if ov.deleted {
			deleted++
		}
	}
	return len(union) - deleted
}

// Snapshot returns a plain deep view of the effective mapping,
// resolving overrides and tombstones recursively. Used to validate the
// overlay before Apply.
func (m *Map) Snapshot() map[string]any {
	out := make(map[string]any, m.Len())
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		if child, ok := value.(*Map); ok {
			out[key] = child.Snapshot()
		} else {
			out[key] = value
		}
	}
	return out
}

// Apply commits all pending changes in the transaction to the original
// mapping tree: the root and every materialized descendant are applied
// in one pass, then all override and lookaside state is cleared,
// leaving the overlay ready for a fresh transaction over the updated
// originals.
func (m *Map) Apply() {
	m.apply()
	for _, child := range m.descendants {
		child.apply()
	}

	m.reset()
	for _, child := range m.descendants {
		child.reset()
	}
	m.descendants = nil
}

// apply writes this node's overrides into its original mapping.
func (m *Map) apply() {
	for key, ov := range m.overrides {
		if ov.deleted {
			delete(m.orig, key)
		} else {
			m.orig[key] = ov.value
		}
	}
}

// reset clears pending state.
func (m *Map) reset() {
	m.overrides = make(map[string]override)
	m.lookaside = make(map[string]*Map)
}

// valuesEqual compares two values for deep equality.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok {
			return false
		}
		return mapsEqual(va, vb)
	case []any:
		vb, ok := b.([]any)
		if !ok {
			return false
		}
		return slicesEqual(va, vb)
	default:
		return a == b
	}
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !valuesEqual(va, vb) {
			return false
		}
	}
	return true
}

func slicesEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

