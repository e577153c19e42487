package object

// Function is a user-defined callable: a CodeObject plus the declared
// Signature used to bind call arguments, plus a reference to the globals
// mapping of its defining module. Functions own their Signature and
// Defaults exclusively; Globals is shared with every sibling function
// defined in the same module, so a STORE_NAME at module scope is visible
// from all of them (spec.md §3 Ownership summary).
type Function struct {
	Name    string
	Code    *CodeObject
	Sig     Signature
	Globals map[string]Value
}

func (f *Function) PyType() *Type { return FunctionType }
func (f *Function) PyStr() Str    { return Str("<function " + f.Name + ">") }
func (f *Function) PyRepr() Str   { return f.PyStr() }

// PyDescriptorGet implements the descriptor protocol for Function: given a
// non-nil instance (GetAttribute passes one for a Function found in a type
// dict rather than an instance dict), it binds into a Method; given a nil
// instance, it returns itself unchanged. owner is not consulted.
func (f *Function) PyDescriptorGet(instance Value, owner *Type) Value {
	if instance == nil {
		return f
	}
	return &Method{Receiver: instance, Callable: f}
}

// Method is a callable produced by binding a Function (or BuiltinFunction)
// to a receiver. Calling a Method prepends Receiver to the positional
// arguments and delegates to Callable.
type Method struct {
	Receiver Value
	Callable Value // *Function or *BuiltinFunction
}

func (m *Method) PyType() *Type { return MethodType }
func (m *Method) PyStr() Str    { return Str("<bound method of " + string(m.Receiver.PyRepr()) + ">") }
func (m *Method) PyRepr() Str   { return m.PyStr() }

// BuiltinFunctionImpl is the Go function a BuiltinFunction delegates to.
// It receives already-bound positional and keyword arguments (the
// signature matcher runs the same way whether the callable is a Function
// or a BuiltinFunction) and returns a Value or a guest exception.
type BuiltinFunctionImpl func(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance)

// BuiltinFunction is a host-implemented callable. It needs no bytecode
// frame to run: the interpreter fulfils its "produce a frame for this
// call" obligation with a trivial frame whose execution is simply
// invoking Impl directly and returning its result (spec.md §4.3).
type BuiltinFunction struct {
	Name string
	Sig  Signature
	Impl BuiltinFunctionImpl
}

func (b *BuiltinFunction) PyType() *Type { return BuiltinFunctionType }
func (b *BuiltinFunction) PyStr() Str    { return Str("<built-in function " + b.Name + ">") }
func (b *BuiltinFunction) PyRepr() Str   { return b.PyStr() }

// PyDescriptorGet lets a BuiltinFunction participate in the same
// instance-method binding protocol a Function does (e.g. str.upper bound
// through an instance).
func (b *BuiltinFunction) PyDescriptorGet(instance Value, owner *Type) Value {
	if instance == nil {
		return b
	}
	return &Method{Receiver: instance, Callable: b}
}
