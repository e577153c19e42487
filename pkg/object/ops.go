package object

import "fmt"

// Add implements BINARY_ADD: numeric addition for Int/Float (promoting to
// Float if either operand is one), string concatenation for Str, and
// element concatenation for Tuple/List, generalizing the teacher's
// vm.add/vm.subtract/... family from untyped interface{} arithmetic to the
// closed Value variant set, raising TYPE_ERROR instead of a Go error on a
// mismatch.
func Add(a, b Value) (Value, *ExceptionInstance) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x + y, nil
		case Float:
			return Float(x) + y, nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return x + Float(y), nil
		case Float:
			return x + y, nil
		}
	case Str:
		if y, ok := b.(Str); ok {
			return x + y, nil
		}
	case Tuple:
		if y, ok := b.(Tuple); ok {
			return append(append(Tuple{}, x...), y...), nil
		}
	case *List:
		if y, ok := b.(*List); ok {
			items := append(append([]Value{}, x.Items...), y.Items...)
			return NewList(items), nil
		}
	}
	return nil, unsupportedOperand("+", a, b)
}

// Subtract implements BINARY_SUBTRACT for Int/Float.
func Subtract(a, b Value) (Value, *ExceptionInstance) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x - y, nil
		case Float:
			return Float(x) - y, nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return x - Float(y), nil
		case Float:
			return x - y, nil
		}
	}
	return nil, unsupportedOperand("-", a, b)
}

// Multiply implements BINARY_MULTIPLY for Int/Float.
func Multiply(a, b Value) (Value, *ExceptionInstance) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x * y, nil
		case Float:
			return Float(x) * y, nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return x * Float(y), nil
		case Float:
			return x * y, nil
		}
	}
	return nil, unsupportedOperand("*", a, b)
}

// Divide implements BINARY_TRUE_DIVIDE: always produces a Float, like
// Python 3's `/`, raising ZERO_DIVISION_ERROR for a zero divisor.
func Divide(a, b Value) (Value, *ExceptionInstance) {
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if !aok || !bok {
		return nil, unsupportedOperand("/", a, b)
	}
	if bf == 0 {
		return nil, NewZeroDivisionError("division by zero")
	}
	return Float(af / bf), nil
}

func numericValue(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}

// Subscr implements BINARY_SUBSCR: indexing a Tuple/List by Int, or a Dict
// by any hashable key.
func Subscr(container, index Value) (Value, *ExceptionInstance) {
	switch c := container.(type) {
	case Tuple:
		i, ok := index.(Int)
		if !ok {
			return nil, NewTypeError("tuple indices must be integers")
		}
		if int(i) < 0 || int(i) >= len(c) {
			return nil, NewException(ExceptionType, "tuple index out of range")
		}
		return c[i], nil
	case *List:
		i, ok := index.(Int)
		if !ok {
			return nil, NewTypeError("list indices must be integers")
		}
		if int(i) < 0 || int(i) >= len(c.Items) {
			return nil, NewException(ExceptionType, "list index out of range")
		}
		return c.Items[i], nil
	case *Dict:
		v, ok, exc := c.Get(index)
		if exc != nil {
			return nil, exc
		}
		if !ok {
			return nil, NewException(ExceptionType, "key error: "+string(index.PyRepr()))
		}
		return v, nil
	}
	return nil, NewTypeError("'" + container.PyType().Name + "' object is not subscriptable")
}

// Compare implements COMPARE_OP for the relational operators.
func Compare(op CompareCode, a, b Value) (Value, *ExceptionInstance) {
	switch op {
	case CompareEq:
		return Equals(a, b), nil
	case CompareNe:
		return !Equals(a, b), nil
	}

	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if !aok || !bok {
		return nil, unsupportedOperand(op.String(), a, b)
	}
	switch op {
	case CompareLt:
		return Bool(af < bf), nil
	case CompareLe:
		return Bool(af <= bf), nil
	case CompareGt:
		return Bool(af > bf), nil
	case CompareGe:
		return Bool(af >= bf), nil
	}
	return nil, NewRuntimeError(fmt.Sprintf("unknown comparison operator code %d", op))
}

func unsupportedOperand(op string, a, b Value) *ExceptionInstance {
	return NewTypeError(fmt.Sprintf("unsupported operand type(s) for %s: '%s' and '%s'",
		op, a.PyType().Name, b.PyType().Name))
}
