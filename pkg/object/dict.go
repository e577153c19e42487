package object

import (
	"hash/maphash"

	"github.com/aristanetworks/gomap"
)

// Dict is an insertion-ordered mapping from hashable Values to Values.
//
// Storage is delegated to gomap.Map, the way kisielk/og-rek's own Python
// Dict type delegates to it: a generic open-addressing map parameterized
// over caller-supplied equal/hash functions instead of Go's built-in
// comparison, so Int(1), Float(1.0) and Bool(True) can all land in the
// same bucket the way Python's dict requires.
//
// gomap's own iteration order is unspecified, so Dict layers an explicit
// order slice of live keys on top — appended to on first insertion,
// spliced out on deletion, left untouched on update — to provide the
// insertion-ordering the specification requires and gomap does not.
type Dict struct {
	m     *gomap.Map[Value, Value]
	order []Value
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{m: gomap.NewHint[Value, Value](0, dictKeysEqual, dictKeyHash)}
}

func dictKeysEqual(a, b Value) bool { return bool(Equals(a, b)) }

// dictKeyHash adapts hashValue to gomap's expected hash-function shape.
// The seed gomap hands us is ignored: object.hashBytes already seeds
// every siphash call from a process-wide key pair drawn at init, which is
// all the Dict hash invariant (equal keys hash equal, for the life of one
// run) requires.
func dictKeyHash(_ maphash.Seed, v Value) uint64 {
	h, exc := hashValue(v)
	if exc != nil {
		// Every public Dict method validates hashability with hashValue
		// before it ever reaches gomap, so this is unreachable in
		// practice; it exists only because gomap's hash callback has no
		// error return to report an unhashable key through.
		panic("object: hash called on unhashable key of type " + v.PyType().Name)
	}
	return uint64(h)
}

func hashValue(v Value) (Int, *ExceptionInstance) {
	h, ok := v.(Hashable)
	if !ok {
		return 0, NewTypeError("unhashable type: '" + v.PyType().Name + "'")
	}
	return h.PyHash()
}

func (d *Dict) PyType() *Type { return DictType }
func (d *Dict) PyStr() Str    { return d.PyRepr() }
func (d *Dict) PyRepr() Str {
	s := "{"
	first := true
	d.Iterate(func(k, v Value) bool {
		if !first {
			s += ", "
		}
		first = false
		s += string(k.PyRepr()) + ": " + string(v.PyRepr())
		return true
	})
	return Str(s + "}")
}

// Len returns the number of entries currently stored.
func (d *Dict) Len() int { return d.m.Len() }

// Get looks up key, reporting TYPE_ERROR if key is not hashable.
func (d *Dict) Get(key Value) (Value, bool, *ExceptionInstance) {
	if _, exc := hashValue(key); exc != nil {
		return nil, false, exc
	}
	v, ok := d.m.Get(key)
	return v, ok, nil
}

// Set inserts or updates key's value, reporting TYPE_ERROR if key is not
// hashable. Updating an existing key does not change its position in
// insertion order.
func (d *Dict) Set(key, value Value) *ExceptionInstance {
	if _, exc := hashValue(key); exc != nil {
		return exc
	}
	if _, existed := d.m.Get(key); !existed {
		d.order = append(d.order, key)
	}
	d.m.Set(key, value)
	return nil
}

// Delete removes key if present. It is a no-op for a missing or unhashable
// key.
func (d *Dict) Delete(key Value) {
	if _, exc := hashValue(key); exc != nil {
		return
	}
	d.m.Delete(key)
	for i, k := range d.order {
		if bool(Equals(k, key)) {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

// Iterate visits entries in insertion order, stopping early if yield
// returns false.
func (d *Dict) Iterate(yield func(k, v Value) bool) {
	for _, k := range d.order {
		v, ok := d.m.Get(k)
		if !ok {
			continue
		}
		if !yield(k, v) {
			return
		}
	}
}
