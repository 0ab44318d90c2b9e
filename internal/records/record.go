package records

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one persisted entity: a JSON object whose "id" is unique within
// its resource. Date fields named by the resource schema hold time.Time
// values after a read.
type Record map[string]any

// ID returns the record identifier, or "" when it is missing.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Field resolves a dotted path such as "address.city". Array elements are not
// addressable by index; a path ending at an array returns the array.
func (r Record) Field(path string) (any, bool) {
	return Lookup(map[string]any(r), path)
}

// Clone returns a deep copy of the maps and slices inside r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(r))
}

// Lookup walks a dotted path through nested objects.
func Lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Record:
		return map[string]any(t), true
	}
	return nil, false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Record:
		return Record(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// ToRecord converts a concrete resource value into a Record through its JSON
// encoding.
func ToRecord(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// Decode converts a Record into a concrete resource type.
func Decode[T any](r Record) (T, error) {
	var out T
	b, err := json.Marshal(r)
	if err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode record %s: %w", r.ID(), err)
	}
	return out, nil
}

// FieldOf resolves a dotted path on any JSON-encodable value. Concrete
// resource types use it to satisfy the query engine's field accessor.
func FieldOf(v any, path string) (any, bool) {
	r, err := ToRecord(v)
	if err != nil {
		return nil, false
	}
	return r.Field(path)
}
