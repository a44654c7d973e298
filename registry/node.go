package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/conftree/schema"
)

// reservedAttrs are framework names that declared fields may not use.
var reservedAttrs = map[string]bool{
	"load":     true,
	"lookup":   true,
	"extend":   true,
	"validate": true,
	"schema":   true,
	"raw":      true,
}

// Node is a composable schema node describing a nested configuration
// object. Fields are registered by attribute name, each bound to a
// configuration key and a descriptor (a leaf option or another node).
//
// Nodes are declared once and extended only through Register/Extend;
// the generated schema is computed lazily and cached until a
// registration anywhere beneath the node invalidates it.
type Node struct {
	doc string
	raw *schema.Schema

	attrs map[string]*Binding
	keys  map[string]*Binding

	parents []Descriptor
	cache   *schema.Schema
}

// NewNode creates a schema node. The doc string becomes the generated
// schema's description.
func NewNode(doc string) *Node {
	return NewNodeWithSchema(doc, nil)
}

// NewNodeWithSchema creates a schema node with a raw schema fragment.
// The fragment's type, description, properties, and required keys are
// replaced with computed data; any other constraints are preserved in
// the generated schema.
func NewNodeWithSchema(doc string, raw *schema.Schema) *Node {
	return &Node{
		doc:   doc,
		raw:   raw,
		attrs: make(map[string]*Binding),
		keys:  make(map[string]*Binding),
	}
}

// Register binds a descriptor to an attribute name. The configuration
// key is the descriptor's declared key override, or the attribute name.
func (n *Node) Register(attr string, d Descriptor) error {
	key := d.key()
	if key == "" {
		key = attr
	}
	return n.register(attr, key, d)
}

// RegisterKey binds a descriptor to an attribute name with an explicit
// configuration key.
func (n *Node) RegisterKey(attr, key string, d Descriptor) error {
	if key == "" {
		key = attr
	}
	return n.register(attr, key, d)
}

// MustRegister registers a field and panics on error. Useful for
// declaring configuration trees at init time.
func (n *Node) MustRegister(attr string, d Descriptor) {
	if err := n.Register(attr, d); err != nil {
		panic(err)
	}
}

// MustRegisterKey registers a field with an explicit key and panics on
// error.
func (n *Node) MustRegisterKey(attr, key string, d Descriptor) {
	if err := n.RegisterKey(attr, key, d); err != nil {
		panic(err)
	}
}

// register performs the checked binding of a descriptor.
func (n *Node) register(attr, key string, d Descriptor) error {
	if attr == "" {
		return fmt.Errorf("%w: empty attribute name", ErrInvalidPath)
	}
	if reservedAttrs[attr] {
		return fmt.Errorf("%w: '%s'; choose an alternate name and use a key", ErrReservedAttr, attr)
	}
	if _, exists := n.attrs[attr]; exists {
		return fmt.Errorf("%w '%s'", ErrDuplicateAttr, attr)
	}
	if _, exists := n.keys[key]; exists {
		return fmt.Errorf("%w '%s'", ErrDuplicateKey, key)
	}

	b := newBinding(attr, key, d)
	n.attrs[attr] = b
	n.keys[key] = b

	d.addParent(n)
	invalidateSchema(n)
	return nil
}

// Extend registers a descriptor at an arbitrary depth in the node
// tree. The path is a bare attribute name or slash-separated segments
// (empty segments ignored); the final segment names the new attribute,
// and every prefix segment must resolve to a nested node.
func (n *Node) Extend(path string, d Descriptor) error {
	return n.ExtendKey(path, "", d)
}

// ExtendKey is Extend with an explicit configuration key for the new
// attribute.
func (n *Node) ExtendKey(path, key string, d Descriptor) error {
	return n.ExtendPath(pathSegments(path), key, d)
}

// ExtendPath is Extend taking the path as a list of segments. An empty
// key selects the descriptor's declared key, falling back to the
// attribute name.
func (n *Node) ExtendPath(segs []string, key string, d Descriptor) error {
	segs = cleanSegments(segs)
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	attr := segs[len(segs)-1]
	target := n
	if prefix := segs[:len(segs)-1]; len(prefix) > 0 {
		b, err := n.LookupPath(prefix)
		if err != nil {
			return err
		}
		node, ok := b.Descriptor().(*Node)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotExtensible, strings.Join(prefix, "/"))
		}
		target = node
	}

	if key == "" {
		key = d.key()
	}
	if key == "" {
		key = attr
	}
	return target.register(attr, key, d)
}

// Lookup resolves a path to the binding at that location without
// triggering translation. The path is a bare attribute name or
// slash-separated segments; list items are addressed as "[]" (list
// mode) or "[0]", "[1]", … (tuple mode).
func (n *Node) Lookup(path string) (*Binding, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if !strings.Contains(path, "/") {
		b := n.attrs[path]
		if b == nil {
			return nil, fmt.Errorf("%w: %s", ErrAttrNotFound, path)
		}
		return b, nil
	}
	return n.LookupPath(strings.Split(path, "/"))
}

// LookupPath resolves a path given as a list of segments; empty
// segments are ignored.
func (n *Node) LookupPath(segs []string) (*Binding, error) {
	segs = cleanSegments(segs)
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var b *Binding
	var cur Descriptor = n
	for _, seg := range segs {
		b = cur.child(seg)
		if b == nil {
			return nil, fmt.Errorf("%w: %s", ErrAttrNotFound, seg)
		}
		cur = b.Descriptor()
	}
	return b, nil
}

// Binding returns the binding for a directly registered attribute, or
// nil if none exists.
func (n *Node) Binding(attr string) *Binding {
	return n.attrs[attr]
}

// Attrs returns the registered attribute names, sorted.
func (n *Node) Attrs() []string {
	attrs := make([]string, 0, len(n.attrs))
	for attr := range n.attrs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	return attrs
}

// SchemaDoc returns the node's generated schema document: the raw
// fragment with computed type, description, properties (keyed by
// attribute name), and sorted required list. The document is memoized;
// do not mutate it.
func (n *Node) SchemaDoc() *schema.Schema {
	if n.cache != nil {
		return n.cache
	}

	s := n.raw.Clone()
	if s == nil {
		s = &schema.Schema{}
	}
	s.Type = schema.TypeOf("object")
	if n.doc != "" {
		s.Description = n.doc
	}

	properties := make(map[string]*schema.Schema, len(n.attrs))
	var required []string
	for attr, b := range n.attrs {
		properties[attr] = b.Descriptor().SchemaDoc()
		if _, ok := b.Descriptor().DefaultValue(); !ok {
			required = append(required, attr)
		}
	}
	s.Properties = properties
	sort.Strings(required)
	s.Required = required

	n.cache = s
	return s
}

// Validate checks a configuration mapping against the node's generated
// schema.
func (n *Node) Validate(value map[string]any) error {
	return schema.NewValidator(n.SchemaDoc()).Validate(value)
}

// Translate converts a raw nested mapping into an instance of this
// node.
func (n *Node) Translate(raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object value, got %T", raw)
	}
	return NewInstance(n, m), nil
}

// DefaultValue reports that nodes carry no default: an embedded node is
// a required field.
func (n *Node) DefaultValue() (any, bool) { return nil, false }

func (n *Node) key() string { return "" }

func (n *Node) child(name string) *Binding { return n.attrs[name] }

func (n *Node) addParent(p Descriptor) {
	for _, existing := range n.parents {
		if existing == p {
			return
		}
	}
	n.parents = append(n.parents, p)
}

func (n *Node) parentList() []Descriptor { return n.parents }

func (n *Node) cacheValid() bool { return n.cache != nil }

func (n *Node) clearCache() { n.cache = nil }

// invalidateSchema clears the cached schema of a descriptor and of
// every structural parent that may hold a stale embedded copy. The
// walk is breadth-first with a visited set keyed on descriptor
// identity, so it terminates even on a cyclic parent graph.
// Descriptors whose cache is already empty are skipped without
// re-queuing their parents: a parent can only embed a child schema by
// computing it, which would have populated the child's cache.
func invalidateSchema(d Descriptor) {
	seen := map[Descriptor]bool{d: true}
	queue := []Descriptor{d}
	for len(queue) > 0 {
		work := queue[0]
		queue = queue[1:]

		if !work.cacheValid() {
			continue
		}
		work.clearCache()

		for _, parent := range work.parentList() {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			queue = append(queue, parent)
		}
	}
}

// pathSegments splits a path into segments. A path without slashes is a
// single bare name.
func pathSegments(path string) []string {
	if !strings.Contains(path, "/") {
		return []string{path}
	}
	return strings.Split(path, "/")
}

// cleanSegments drops empty segments.
func cleanSegments(segs []string) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
