package object

// Type is the metaobject describing a class of values: its name, its
// attribute dictionary (methods and class-level values), the parent types
// it inherits attributes from, and — for types that can be instantiated
// from guest code — how a new instance is built. A Type carries no
// constructor signature: NewInstance receives the call's positional and
// keyword arguments unbound.
//
// Attribute lookup (GetAttribute) walks instance-dict -> type-dict ->
// parent types, left-to-right, depth-first, exactly as specified.
type Type struct {
	Name    string
	Dict    map[string]Value
	Parents []*Type

	// NewInstance constructs a fresh instance of this type when it is
	// called as a constructor. nil for types that cannot be instantiated
	// directly from guest code (Int, Str, ...; those are produced only by
	// literals and builtins).
	NewInstance func(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance)
}

func newType(name string, parents ...*Type) *Type {
	return &Type{Name: name, Dict: make(map[string]Value), Parents: parents}
}

func (t *Type) PyType() *Type { return TypeType }
func (t *Type) PyStr() Str    { return Str("<type '" + t.Name + "'>") }
func (t *Type) PyRepr() Str   { return t.PyStr() }

// IsSubtypeOf reports whether t is other or descends from it, searching
// Parents depth-first the same way attribute lookup does.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if t == other {
		return true
	}
	for _, p := range t.Parents {
		if p.IsSubtypeOf(other) {
			return true
		}
	}
	return false
}

// AttributeHolder is implemented by values that carry their own instance
// attribute dictionary (currently only *Instance and its embedders, such
// as *ExceptionInstance). Values without one are looked up starting
// directly at their type's dictionary.
type AttributeHolder interface {
	Value
	instanceDict() map[string]Value
}

// Descriptor is implemented by values that bind differently depending on
// how they were looked up. Function and BuiltinFunction are the Descriptors
// in the minimal core: found through an instance attribute access, each
// yields a Method bound to that instance; found any other way, it returns
// itself.
type Descriptor interface {
	Value
	PyDescriptorGet(instance Value, owner *Type) Value
}

// GetAttribute implements pyGetAttribute(name) for an arbitrary value:
// instance-dict -> type-dict -> parent types, left-to-right, depth-first.
// A Descriptor found in a type dict (rather than the instance's own
// dict) is resolved via PyDescriptorGet before being returned, so that a
// Function fetched off an instance comes back bound as a Method.
func GetAttribute(v Value, name string) (Value, *ExceptionInstance) {
	if holder, ok := v.(AttributeHolder); ok {
		if val, ok := holder.instanceDict()[name]; ok {
			return val, nil
		}
	}

	typ := v.PyType()
	if val, owner, ok := lookupInTypeChain(typ, name); ok {
		if d, ok := val.(Descriptor); ok {
			return d.PyDescriptorGet(v, owner), nil
		}
		return val, nil
	}

	return nil, NewAttributeError("'" + typ.Name + "' object has no attribute '" + name + "'")
}

// lookupInTypeChain walks t and its Parents, left-to-right depth-first,
// for name. owner is the type whose own dict actually held the attribute
// (needed by the descriptor protocol to know which class an instance
// method was found on).
func lookupInTypeChain(t *Type, name string) (val Value, owner *Type, ok bool) {
	if v, ok := t.Dict[name]; ok {
		return v, t, true
	}
	for _, p := range t.Parents {
		if v, owner, ok := lookupInTypeChain(p, name); ok {
			return v, owner, true
		}
	}
	return nil, nil, false
}

// Instance is a plain object: a type plus an attribute dictionary. It is
// the generic representation for values constructed via a Type's
// NewInstance policy that need no further specialized Go fields;
// ExceptionInstance embeds it to add exception-specific bookkeeping.
type Instance struct {
	typ  *Type
	dict map[string]Value
}

func NewInstance(typ *Type) *Instance {
	return &Instance{typ: typ, dict: make(map[string]Value)}
}

func (i *Instance) PyType() *Type                  { return i.typ }
func (i *Instance) PyStr() Str                      { return Str("<" + i.typ.Name + " object>") }
func (i *Instance) PyRepr() Str                      { return i.PyStr() }
func (i *Instance) instanceDict() map[string]Value { return i.dict }

// SetAttr sets an attribute directly in this instance's own dict (used by
// STORE_ATTR; does not consult descriptors, matching the minimal core's
// plain attribute-set semantics).
func (i *Instance) SetAttr(name string, v Value) { i.dict[name] = v }

// Well-known singleton types. Concrete Value implementations above refer
// to these constants for PyType().
var (
	NoneType    = newType("NoneType")
	BoolType    = newType("bool")
	IntType     = newType("int")
	FloatType   = newType("float")
	StrType     = newType("str")
	BytesType   = newType("bytes")
	TupleType   = newType("tuple")
	ListType    = newType("list")
	DictType    = newType("dict")
	TypeType    = newType("type")
	FunctionType      = newType("function")
	MethodType        = newType("method")
	BuiltinFunctionType = newType("builtin_function")
	CodeObjectType    = newType("code")
)
