package loader

import (
	"fmt"
	"reflect"

	"github.com/dshills/conftree/overlay"
)

// Mapping is the merge target abstraction. Both plain maps and
// overlay transactions satisfy it, so the same merge walks either a
// freshly built mapping or a copy-on-write view over a live instance.
type Mapping interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Keys() []string
	Len() int
}

// mapWrap adapts a plain map to the Mapping interface.
type mapWrap map[string]any

func (m mapWrap) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapWrap) Set(key string, value any) { m[key] = value }
func (m mapWrap) Delete(key string)         { delete(m, key) }
func (m mapWrap) Len() int                  { return len(m) }

func (m mapWrap) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// MergeError reports a structural conflict between a file value and
// the value already merged for the same key.
type MergeError struct {
	Path string
	Dest any
	Src  any
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("cannot merge setting %q: mapping and non-mapping values conflict (%T vs %T)", e.Path, e.Dest, e.Src)
}

// mergePair identifies a (dest, src) mapping pair already being
// merged, guarding against self-referential structures.
type mergePair struct {
	dst, src uintptr
}

// Merge recursively merges src into dst. Nested mappings merge
// key-by-key; scalar and list values from src replace existing values.
// A key holding a mapping on one side and a non-mapping on the other
// is a conflict and aborts the merge with a MergeError.
//
// Values copied from src are not cloned; callers that retain src
// should not mutate shared substructure afterwards.
func Merge(dst Mapping, src map[string]any) error {
	return merge(dst, src, "", make(map[mergePair]bool))
}

func merge(dst Mapping, src map[string]any, path string, seen map[mergePair]bool) error {
	for key, srcVal := range src {
		keyPath := joinKey(path, key)
		srcMap, srcIsMap := srcVal.(map[string]any)

		dstVal, exists := dst.Get(key)
		if !exists {
			dst.Set(key, srcVal)
			continue
		}

		dstMap, dstIsMap := asMapping(dstVal)
		switch {
		case srcIsMap && dstIsMap:
			pair := mergePair{dst: pointerOf(dstVal), src: pointerOf(srcVal)}
			if seen[pair] {
				continue
			}
			seen[pair] = true
			if err := merge(dstMap, srcMap, keyPath, seen); err != nil {
				return err
			}
		case srcIsMap != dstIsMap:
			return &MergeError{Path: keyPath, Dest: dstVal, Src: srcVal}
		default:
			dst.Set(key, srcVal)
		}
	}
	return nil
}

// asMapping views a merged value as a Mapping if it is one.
func asMapping(v any) (Mapping, bool) {
	switch m := v.(type) {
	case *overlay.Map:
		return m, true
	case map[string]any:
		return mapWrap(m), true
	default:
		return nil, false
	}
}

// pointerOf returns an identity for a mapping value. Maps and overlay
// pointers both reduce to a stable address.
func pointerOf(v any) uintptr {
	return reflect.ValueOf(v).Pointer()
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
