package registry

import (
	"fmt"
	"time"
)

// Instance is a configuration node bound to loaded raw data. Values
// are resolved through the node's bindings on first access and
// memoized until the raw data changes (an instance-level load clears
// the memo via Invalidate).
type Instance struct {
	node   *Node
	raw    map[string]any
	xlated map[string]any
}

// NewInstance binds a node to a raw configuration mapping. The mapping
// is the instance's source of truth and is not copied.
func NewInstance(node *Node, raw map[string]any) *Instance {
	if raw == nil {
		raw = make(map[string]any)
	}
	return &Instance{
		node:   node,
		raw:    raw,
		xlated: make(map[string]any),
	}
}

// Node returns the schema node the instance was created from.
func (i *Instance) Node() *Node { return i.node }

// Raw returns the instance's raw configuration mapping.
func (i *Instance) Raw() map[string]any { return i.raw }

// Invalidate clears the translation memo so subsequent reads
// re-translate from the raw mapping. Called after the raw mapping is
// updated in place.
func (i *Instance) Invalidate() {
	i.xlated = make(map[string]any)
}

// Get returns the translated value of a declared attribute.
func (i *Instance) Get(attr string) (any, error) {
	b := i.node.attrs[attr]
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrAttrNotFound, attr)
	}
	return b.Resolve(i)
}

// GetString returns a string value.
func (i *Instance) GetString(attr string) (string, error) {
	val, err := i.Get(attr)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}
	s, ok := val.(string)
	if !ok {
		return "", &TypeError{Attr: attr, Expected: "string", Actual: fmt.Sprintf("%T", val)}
	}
	return s, nil
}

// GetInt returns an integer value.
func (i *Instance) GetInt(attr string) (int, error) {
	val, err := i.Get(attr)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, &TypeError{Attr: attr, Expected: "integer", Actual: fmt.Sprintf("%T", val)}
	}
}

// GetInt64 returns an int64 value.
func (i *Instance) GetInt64(attr string) (int64, error) {
	val, err := i.Get(attr)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, &TypeError{Attr: attr, Expected: "integer", Actual: fmt.Sprintf("%T", val)}
	}
}

// GetFloat64 returns a float64 value.
func (i *Instance) GetFloat64(attr string) (float64, error) {
	val, err := i.Get(attr)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, &TypeError{Attr: attr, Expected: "number", Actual: fmt.Sprintf("%T", val)}
	}
}

// GetBool returns a boolean value.
func (i *Instance) GetBool(attr string) (bool, error) {
	val, err := i.Get(attr)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	b, ok := val.(bool)
	if !ok {
		return false, &TypeError{Attr: attr, Expected: "boolean", Actual: fmt.Sprintf("%T", val)}
	}
	return b, nil
}

// GetSlice returns a list value.
func (i *Instance) GetSlice(attr string) ([]any, error) {
	val, err := i.Get(attr)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	s, ok := val.([]any)
	if !ok {
		return nil, &TypeError{Attr: attr, Expected: "array", Actual: fmt.Sprintf("%T", val)}
	}
	return s, nil
}

// GetStringSlice returns a string slice value.
func (i *Instance) GetStringSlice(attr string) ([]string, error) {
	val, err := i.Get(attr)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	switch v := val.(type) {
	case []string:
		return v, nil
	case []any:
		result := make([]string, len(v))
		for idx, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Attr: attr, Expected: "string array", Actual: fmt.Sprintf("array with %T element", item)}
			}
			result[idx] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Attr: attr, Expected: "string array", Actual: fmt.Sprintf("%T", val)}
	}
}

// GetMap returns an untranslated mapping value.
func (i *Instance) GetMap(attr string) (map[string]any, error) {
	val, err := i.Get(attr)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, &TypeError{Attr: attr, Expected: "object", Actual: fmt.Sprintf("%T", val)}
	}
	return m, nil
}

// GetDuration returns a time.Duration value. Accepts duration strings
// (e.g. "500ms") and integers (milliseconds).
func (i *Instance) GetDuration(attr string) (time.Duration, error) {
	val, err := i.Get(attr)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string at %s: %w", attr, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v) * time.Millisecond, nil
	default:
		return 0, &TypeError{Attr: attr, Expected: "duration", Actual: fmt.Sprintf("%T", val)}
	}
}

// GetNode returns the nested instance for an embedded node attribute.
func (i *Instance) GetNode(attr string) (*Instance, error) {
	val, err := i.Get(attr)
	if err != nil {
		return nil, err
	}
	inst, ok := val.(*Instance)
	if !ok {
		return nil, &TypeError{Attr: attr, Expected: "object", Actual: fmt.Sprintf("%T", val)}
	}
	return inst, nil
}
