package jsontree

import (
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is one node of a parsed JSON document. The zero Value is null.
//
// Values are immutable once built: the constructors below and [Parse] are the
// only ways to create them, and no method mutates the receiver.
type Value struct {
	typ     DataType
	str     string
	num     float64
	boolean bool
	items   []*Value
	members *orderedmap.OrderedMap[string, *Value]
}

// Member is a key/value pair used to build objects.
type Member struct {
	Key   string
	Value *Value
}

// String returns a string value.
func String(s string) *Value { return &Value{typ: TypeString, str: s} }

// Number returns a number value.
func Number(f float64) *Value { return &Value{typ: TypeNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{typ: TypeBoolean, boolean: b} }

// Null returns the null value.
func Null() *Value { return &Value{typ: TypeNull} }

// Array returns an array holding items in order. Nil items become null.
func Array(items ...*Value) *Value {
	v := &Value{typ: TypeArray, items: make([]*Value, len(items))}
	for i, it := range items {
		if it == nil {
			it = Null()
		}
		v.items[i] = it
	}
	return v
}

// Object returns an object holding members in order. A repeated key keeps
// the slot of its first occurrence and the value of its last.
func Object(members ...Member) *Value {
	v := &Value{typ: TypeObject, members: orderedmap.New[string, *Value]()}
	for _, m := range members {
		val := m.Value
		if val == nil {
			val = Null()
		}
		v.members.Set(m.Key, val)
	}
	return v
}

// Type returns the data type tag of v.
func (v *Value) Type() DataType {
	if v == nil || v.typ == "" {
		return TypeNull
	}
	return v.typ
}

// IsContainer reports whether v is an array or an object.
func (v *Value) IsContainer() bool { return v.Type().IsContainer() }

// Len returns the number of children of a container, 0 for leaves.
func (v *Value) Len() int {
	switch v.Type() {
	case TypeArray:
		return len(v.items)
	case TypeObject:
		return v.members.Len()
	}
	return 0
}

// Each calls fn for every child of v in document order: index order for
// arrays, insertion order for objects. It does nothing for leaves.
func (v *Value) Each(fn func(k Key, child *Value)) {
	switch v.Type() {
	case TypeArray:
		for i, it := range v.items {
			fn(Key{Index: i, InArray: true}, it)
		}
	case TypeObject:
		for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
			fn(Key{Name: pair.Key}, pair.Value)
		}
	}
}

// Index returns the i-th array element, or nil when out of range or when v
// is not an array.
func (v *Value) Index(i int) *Value {
	if v.Type() != TypeArray || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Get returns the object member named key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Type() != TypeObject {
		return nil, false
	}
	return v.members.Get(key)
}

// Keys returns the member names of an object in insertion order.
func (v *Value) Keys() []string {
	if v.Type() != TypeObject {
		return nil
	}
	keys := make([]string, 0, v.members.Len())
	for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Primitive returns the Go form of a leaf (string, float64, bool or nil).
// Containers return nil, and so do infinite and NaN numbers, which JSON
// cannot carry; their Text is still "Infinity", "-Infinity" or "NaN".
func (v *Value) Primitive() any {
	switch v.Type() {
	case TypeString:
		return v.str
	case TypeNumber:
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return nil
		}
		return v.num
	case TypeBoolean:
		return v.boolean
	}
	return nil
}

// Text formats a leaf for display: strings as-is, "true"/"false", "null",
// and numbers as JavaScript prints them. Containers return "".
func (v *Value) Text() string {
	switch v.Type() {
	case TypeString:
		return v.str
	case TypeNumber:
		return FormatNumber(v.num)
	case TypeBoolean:
		return strconv.FormatBool(v.boolean)
	case TypeNull:
		return "null"
	}
	return ""
}

// Count returns the number of values in the tree rooted at v, v included.
func (v *Value) Count() int {
	n := 1
	v.Each(func(_ Key, child *Value) {
		n += child.Count()
	})
	return n
}

// =============================================================================
// Keys and Paths
// =============================================================================

// Key identifies a child within its parent container.
type Key struct {
	Name    string // object member name
	Index   int    // array index
	InArray bool   // true when the parent is an array
}

// Segment returns the path segment for k: the member name, or "[i]".
func (k Key) Segment() string {
	if k.InArray {
		return "[" + strconv.Itoa(k.Index) + "]"
	}
	return k.Name
}

// Prefix returns the label prefix of a merged key/value node, e.g. "name: "
// or "[0]: ".
func (k Key) Prefix() string { return k.Segment() + ": " }

// Path names a position in a JSON tree.
type Path string

// Root is the path of the document root.
const Root Path = "root"

// Child returns the path of the child k under p.
func (p Path) Child(k Key) Path { return p + "." + Path(k.Segment()) }

// Slot returns a collision-free path of the child k under p, for keying
// per-position state. It equals Child(k) unless the member name contains '.'
// or '[', in which case the segment is written as ["name"] with the name
// quoted. Child paths alone can collide: {"a.b": 1, "a": {"b": 2}} has two
// positions at root.a.b.
func (p Path) Slot(k Key) Path {
	if !k.InArray && strings.ContainsAny(k.Name, ".[") {
		return p + ".[" + Path(strconv.Quote(k.Name)) + "]"
	}
	return p.Child(k)
}

// String returns p as a plain string.
func (p Path) String() string { return string(p) }
