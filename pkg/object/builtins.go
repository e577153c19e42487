package object

import (
	"fmt"
	"strconv"
	"strings"
)

// newBuiltin wires a Go function up as a guest-callable BuiltinFunction with
// a fixed positional signature, the same shape Function uses so the
// signature matcher in pkg/signature treats the two interchangeably.
func newBuiltin(name string, params []string, impl BuiltinFunctionImpl) *BuiltinFunction {
	sig := Signature{Defaults: map[string]Value{}}
	for _, p := range params {
		sig.Params = append(sig.Params, Param{Name: p, Kind: Positional})
	}
	return &BuiltinFunction{Name: name, Sig: sig, Impl: impl}
}

// Builtins is the fallback name table LOAD_NAME/LOAD_GLOBAL consult when a
// name is not in a frame's globals (the globals map itself is not seeded
// with these entries), the guest language's small standard surface
// (spec.md's SUPPLEMENTED FEATURES: enough builtins to run the worked
// scenarios end to end).
var Builtins = map[string]Value{
	"print": newPrintBuiltin(),
	"len":   newBuiltin("len", []string{"obj"}, builtinLen),
	"int":   newBuiltin("int", []string{"value"}, builtinInt),
	"str":   newBuiltin("str", []string{"value"}, builtinStr),
}

// newPrintBuiltin declares print's one parameter as PositionalStar so the
// ordinary signature matcher collects any number of positional arguments
// into a tuple, rather than print needing a special call path of its own.
func newPrintBuiltin() *BuiltinFunction {
	return &BuiltinFunction{
		Name: "print",
		Sig:  Signature{Params: []Param{{Name: "args", Kind: PositionalStar}}, Defaults: map[string]Value{}},
		Impl: builtinPrint,
	}
}

// builtinPrint writes its arguments' PyStr forms space-separated to
// standard output.
func builtinPrint(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance) {
	items, _ := args[0].(Tuple)
	parts := make([]string, len(items))
	for i, a := range items {
		parts[i] = string(a.PyStr())
	}
	fmt.Println(strings.Join(parts, " "))
	return NoneValue, nil
}

func builtinLen(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance) {
	switch v := args[0].(type) {
	case Str:
		return Int(len([]rune(string(v)))), nil
	case Bytes:
		return Int(len(v)), nil
	case Tuple:
		return Int(len(v)), nil
	case *List:
		return Int(len(v.Items)), nil
	case *Dict:
		return Int(v.Len()), nil
	}
	return nil, NewTypeError("object of type '" + args[0].PyType().Name + "' has no len()")
}

func builtinInt(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance) {
	switch v := args[0].(type) {
	case Int:
		return v, nil
	case Bool:
		if v {
			return Int(1), nil
		}
		return Int(0), nil
	case Float:
		return Int(v), nil
	case Str:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, NewValueError("invalid literal for int() with base 10: '" + string(v) + "'")
		}
		return Int(n), nil
	}
	return nil, NewTypeError("int() argument must be a string, a bytes-like object or a number, not '" + args[0].PyType().Name + "'")
}

func builtinStr(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance) {
	return args[0].PyStr(), nil
}

// strUpper and strLower are bound into StrType's attribute dict (rather than
// Builtins) so that "x".upper() resolves through the ordinary attribute
// lookup and descriptor-binding path GetAttribute already implements, the
// same way the teacher's primitives are reached through message dispatch
// rather than a separate built-in call path.
func strUpper(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance) {
	recv, ok := args[0].(Str)
	if !ok {
		return nil, NewTypeError("descriptor 'upper' requires a 'str' object")
	}
	return Str(strings.ToUpper(string(recv))), nil
}

func strLower(args []Value, kwargs map[string]Value) (Value, *ExceptionInstance) {
	recv, ok := args[0].(Str)
	if !ok {
		return nil, NewTypeError("descriptor 'lower' requires a 'str' object")
	}
	return Str(strings.ToLower(string(recv))), nil
}

func init() {
	StrType.Dict["upper"] = newBuiltin("upper", []string{"self"}, strUpper)
	StrType.Dict["lower"] = newBuiltin("lower", []string{"self"}, strLower)
}
