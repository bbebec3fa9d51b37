package fsqueue

import (
	"fmt"
	"sort"
)

// Kind identifies which of the closed set of shapes a Variant holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// Variant is task_data's shape, per spec.md §9: "Represent as a tagged
// variant (null | bool | integer | float | string | sequence of variant |
// mapping of string → variant)". Two Variants built from the same logical
// value must canonicalize to identical bytes regardless of how they were
// constructed (map insertion order, int vs int64, etc.), since the queue's
// deduplication key is a hash of that canonical form.
type Variant struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Variant
	mp   map[string]Variant
}

func Null() Variant           { return Variant{kind: KindNull} }
func Bool(b bool) Variant     { return Variant{kind: KindBool, b: b} }
func Int(i int64) Variant     { return Variant{kind: KindInt, i: i} }
func Float(f float64) Variant { return Variant{kind: KindFloat, f: f} }
func String(s string) Variant { return Variant{kind: KindString, s: s} }

func Sequence(items ...Variant) Variant {
	return Variant{kind: KindSequence, seq: append([]Variant(nil), items...)}
}

func Mapping(m map[string]Variant) Variant {
	cp := make(map[string]Variant, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Variant{kind: KindMapping, mp: cp}
}

// Kind reports which shape this Variant holds.
func (v Variant) Kind() Kind { return v.kind }

// FromGo converts a plain Go value - as produced by a YAML or JSON decoder,
// or built by hand with map[string]any / []any / scalars - into a Variant.
// It rejects anything outside the closed shape set (funcs, channels,
// structs, pointers), since those have no canonical serialization.
func FromGo(v interface{}) (Variant, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []interface{}:
		items := make([]Variant, len(x))
		for i, e := range x {
			c, err := FromGo(e)
			if err != nil {
				return Variant{}, fmt.Errorf("sequence element %d: %w", i, err)
			}
			items[i] = c
		}
		return Sequence(items...), nil
	case map[string]interface{}:
		m := make(map[string]Variant, len(x))
		for k, e := range x {
			c, err := FromGo(e)
			if err != nil {
				return Variant{}, fmt.Errorf("mapping key %q: %w", k, err)
			}
			m[k] = c
		}
		return Mapping(m), nil
	// YAML decoders sometimes hand back map[interface{}]interface{} when
	// decoding into a bare `any` target (historically the yaml.v2 default);
	// accept it defensively and require string keys, same as the rest of
	// the shape set.
	case map[interface{}]interface{}:
		m := make(map[string]Variant, len(x))
		for k, e := range x {
			ks, ok := k.(string)
			if !ok {
				return Variant{}, fmt.Errorf("mapping key %v is not a string", k)
			}
			c, err := FromGo(e)
			if err != nil {
				return Variant{}, fmt.Errorf("mapping key %q: %w", ks, err)
			}
			m[ks] = c
		}
		return Mapping(m), nil
	default:
		return Variant{}, fmt.Errorf("fsqueue: value of type %T has no canonical representation", v)
	}
}

// ToGo converts a Variant back to plain Go values suitable for
// yaml.Marshal: nil, bool, int64, float64, string, []interface{}, or
// map[string]interface{}.
func (v Variant) ToGo() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]interface{}, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.ToGo()
		}
		return out
	case KindMapping:
		out := make(map[string]interface{}, len(v.mp))
		for k, e := range v.mp {
			out[k] = e.ToGo()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether two Variants have the same canonical shape and
// value. Map key order never matters; sequence order does.
func (v Variant) Equal(o Variant) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.mp) != len(o.mp) {
			return false
		}
		for k, e := range v.mp {
			oe, ok := o.mp[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// sortedKeys is used by callers that want deterministic iteration over a
// mapping Variant (e.g. for debug printing); canonical serialization itself
// relies on yaml.Marshal's own key sort, not this.
func (v Variant) sortedKeys() []string {
	keys := make([]string, 0, len(v.mp))
	for k := range v.mp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Variant) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindSequence:
		return fmt.Sprintf("%v", v.seq)
	case KindMapping:
		keys := v.sortedKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%s", k, v.mp[k])
		}
		return fmt.Sprintf("{%v}", parts)
	default:
		return "<invalid variant>"
	}
}
