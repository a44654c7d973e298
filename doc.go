// Package conftree is a declarative configuration-schema framework.
//
// A configuration tree is declared as a graph of schema nodes
// (registry.Node) whose fields are bound to leaf option descriptors
// (registry.Option, registry.ListOption) or to nested nodes. Each node
// generates a JSON-Schema document (schema.Schema) describing its
// declared structure, and raw configuration data loaded from layered
// YAML or TOML files (loader) is validated against that document
// before it becomes visible through an instance's typed accessors.
//
// Subpackages:
//
//   - schema: JSON-Schema document model and validator
//   - registry: option descriptors, schema nodes, bindings, instances
//   - overlay: copy-on-write transaction over a nested mapping
//   - loader: file discovery, deep merge, and class/instance loading
//
// The framework is synchronous and single-threaded by design: schema
// extension, loading, and attribute access must be serialized by the
// caller when used from multiple goroutines.
package conftree
