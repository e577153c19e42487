package object

// Equals implements pyEquals(other) for arbitrary value pairs, mirroring
// the half-matrix dispatch og-rek's equal() uses: numeric types compare
// across kind (Int == Float == Bool when numerically equal), and every
// other variant compares only against its own kind.
func Equals(a, b Value) Bool {
	switch x := a.(type) {
	case noneType:
		_, ok := b.(noneType)
		return Bool(ok)

	case Bool:
		return numericEquals(boolToInt(x), b)
	case Int:
		return numericEquals(x, b)
	case Float:
		return numericEquals(x, b)

	case Str:
		y, ok := b.(Str)
		return Bool(ok && x == y)

	case Bytes:
		y, ok := b.(Bytes)
		return Bool(ok && string(x) == string(y))

	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x) != len(y) {
			return False
		}
		for i := range x {
			if !Equals(x[i], y[i]) {
				return False
			}
		}
		return True

	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Items) != len(y.Items) {
			return False
		}
		for i := range x.Items {
			if !Equals(x.Items[i], y.Items[i]) {
				return False
			}
		}
		return True

	case *Dict:
		y, ok := b.(*Dict)
		if !ok {
			return False
		}
		return Bool(dictsEqual(x, y))

	default:
		// Types, functions, methods, code objects and exception instances
		// compare by Go identity (pointer equality). A Method is created
		// afresh by each attribute lookup, so two lookups of the same bound
		// method compare unequal.
		return Bool(a == b)
	}
}

// numericEquals compares a numeric Value (already widened to Int/Float)
// against any other Value, matching Python's rule that 1 == 1.0 == True.
func numericEquals(a Value, b Value) Bool {
	var bf float64
	switch y := b.(type) {
	case Bool:
		bf = float64(boolToInt(y).(Int))
	case Int:
		bf = float64(y)
	case Float:
		bf = float64(y)
	default:
		return False
	}

	var af float64
	switch x := a.(type) {
	case Int:
		af = float64(x)
	case Float:
		af = float64(x)
	}
	return Bool(af == bf)
}

func boolToInt(b Bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

func dictsEqual(a, b *Dict) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.Iterate(func(k, v Value) bool {
		bv, ok, _ := b.Get(k)
		if !ok || !Equals(v, bv) {
			eq = false
			return false
		}
		return true
	})
	return eq
}
