// Package loader reads layered configuration files and binds them to
// declared configuration trees.
//
// Each file argument may name a single file, a directory (whose direct
// children load in sorted order), or a glob pattern. Later files merge
// over earlier ones, nested section by nested section, and the merged
// result is validated against the tree's schema before any instance is
// built or updated.
package loader

import (
	"fmt"

	"github.com/dshills/conftree/overlay"
	"github.com/dshills/conftree/registry"
)

// Loader loads configuration files for a declared tree.
type Loader struct {
	fs       FileSystem
	validate bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system used to read configuration files.
func WithFS(fs FileSystem) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithoutValidation disables schema validation of the merged
// configuration before instances are built or updated.
func WithoutValidation() Option {
	return func(l *Loader) {
		l.validate = false
	}
}

// New creates a loader. By default it reads from the OS file system
// and validates merged configuration against the tree's schema.
func New(opts ...Option) *Loader {
	l := &Loader{
		fs:       DefaultFS(),
		validate: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and merges the named files and returns a new instance of
// the tree bound to the merged configuration. Files merge in argument
// order, later files overriding earlier ones. An argument naming
// nothing on disk resolves as a glob with no matches and contributes
// nothing, so optional sources need no special handling.
func (l *Loader) Load(node *registry.Node, files ...string) (*registry.Instance, error) {
	merged := make(map[string]any)
	if err := l.mergeFiles(mapWrap(merged), files); err != nil {
		return nil, err
	}

	if l.validate {
		if err := node.Validate(merged); err != nil {
			return nil, err
		}
	}

	return registry.NewInstance(node, merged), nil
}

// LoadInto reads and merges the named files on top of an existing
// instance's configuration. The merge runs against a copy-on-write
// view and the combined result is validated before anything is
// committed; on failure the instance is left untouched. On success the
// instance's translation memo is cleared so reads reflect the new
// values.
func (l *Loader) LoadInto(inst *registry.Instance, files ...string) error {
	view := overlay.New(inst.Raw())
	if err := l.mergeFiles(view, files); err != nil {
		return err
	}

	if l.validate {
		if err := inst.Node().Validate(view.Snapshot()); err != nil {
			return err
		}
	}

	view.Apply()
	inst.Invalidate()
	return nil
}

// mergeFiles resolves, parses, and merges each file argument in order.
func (l *Loader) mergeFiles(dst Mapping, files []string) error {
	for _, arg := range files {
		paths, err := resolve(l.fs, arg)
		if err != nil {
			return err
		}

		for _, path := range paths {
			data, err := l.fs.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading config file %s: %w", path, err)
			}

			parsed, err := parseFile(path, data)
			if err != nil {
				return err
			}
			if parsed == nil {
				continue
			}

			if err := Merge(dst, parsed); err != nil {
				return fmt.Errorf("merging config file %s: %w", path, err)
			}
		}
	}
	return nil
}

// Load reads configuration files with a default loader.
func Load(node *registry.Node, files ...string) (*registry.Instance, error) {
	return New().Load(node, files...)
}

// LoadInto merges configuration files into an existing instance with a
// default loader.
func LoadInto(inst *registry.Instance, files ...string) error {
	return New().LoadInto(inst, files...)
}
