package vm

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindor/kyc/pkg/object"
)

func moduleCode(consts object.Tuple, names []string, code []object.Instruction, nlocals int) *object.CodeObject {
	return &object.CodeObject{
		NLocals:     nlocals,
		StackSize:   8,
		Code:        code,
		Constants:   consts,
		Names:       names,
		VarNames:    make([]string, nlocals),
		Filename:    "<test>",
		Name:        "<module>",
		FirstLineNo: 1,
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// TestStoreNameLoadNameGlobalsVisibility exercises property 5: a
// STORE_NAME at module scope is immediately visible to a LOAD_NAME in the
// same (module) frame, and lands in the globals map that functions defined
// in the module share.
func TestStoreNameLoadNameGlobalsVisibility(t *testing.T) {
	code := moduleCode(
		object.Tuple{object.Int(1), object.Int(2)},
		[]string{"x", "y"},
		[]object.Instruction{
			{Op: object.LoadConst, Arg: 0},
			{Op: object.StoreName, Arg: 0},
			{Op: object.LoadConst, Arg: 1},
			{Op: object.StoreName, Arg: 1},
			{Op: object.LoadName, Arg: 0},
			{Op: object.LoadName, Arg: 1},
			{Op: object.BinaryAdd, Arg: 0},
			{Op: object.ReturnValue, Arg: 0},
		},
		0,
	)
	globals := make(map[string]object.Value)
	frame := NewFrame(code, globals, nil)
	result := frame.Run()

	require.False(t, result.IsError())
	require.Equal(t, object.Int(3), result.Value)
	require.Equal(t, object.Int(1), globals["x"])
	require.Equal(t, object.Int(2), globals["y"])
}

// TestLoadFastUnboundRaisesUnboundLocalError exercises property 4.
func TestLoadFastUnboundRaisesUnboundLocalError(t *testing.T) {
	code := moduleCode(nil, nil, []object.Instruction{
		{Op: object.LoadFast, Arg: 0},
		{Op: object.ReturnValue, Arg: 0},
	}, 1)
	code.VarNames = []string{"a"}

	frame := NewFrame(code, make(map[string]object.Value), nil)
	result := frame.Run()

	require.True(t, result.IsError())
	require.Equal(t, object.UnboundLocalErrorType, result.Exception.PyType())
}

// TestLoadFastAfterStoreFastRoundTrips is the positive half of property 4.
func TestLoadFastAfterStoreFastRoundTrips(t *testing.T) {
	code := moduleCode(object.Tuple{object.Str("hello")}, nil, []object.Instruction{
		{Op: object.LoadConst, Arg: 0},
		{Op: object.StoreFast, Arg: 0},
		{Op: object.LoadFast, Arg: 0},
		{Op: object.ReturnValue, Arg: 0},
	}, 1)

	frame := NewFrame(code, make(map[string]object.Value), nil)
	result := frame.Run()

	require.False(t, result.IsError())
	require.Equal(t, object.Str("hello"), result.Value)
}

// TestNameErrorOnUndefinedName covers scenario S5: print(nonexistent).
func TestNameErrorOnUndefinedName(t *testing.T) {
	code := moduleCode(nil, []string{"nonexistent"}, []object.Instruction{
		{Op: object.LoadName, Arg: 0},
		{Op: object.ReturnValue, Arg: 0},
	}, 0)

	frame := NewFrame(code, make(map[string]object.Value), nil)
	result := frame.Run()

	require.True(t, result.IsError())
	require.Equal(t, object.NameErrorType, result.Exception.PyType())
	require.Contains(t, result.Exception.Message, "nonexistent")
	require.Len(t, result.Exception.Traceback, 1)
}

// TestScenarioS1StringUpperAndPrint covers S1: print("HELLO".upper()).
func TestScenarioS1StringUpperAndPrint(t *testing.T) {
	code := moduleCode(
		object.Tuple{object.Str("HELLO")},
		[]string{"print", "upper"},
		[]object.Instruction{
			{Op: object.LoadName, Arg: 0},  // print
			{Op: object.LoadConst, Arg: 0}, // "HELLO"
			{Op: object.LoadAttr, Arg: 1},  // .upper
			{Op: object.CallFunction, Arg: 0},
			{Op: object.CallFunction, Arg: 1},
			{Op: object.ReturnValue, Arg: 0},
		},
		0,
	)

	var result Result
	out := captureStdout(t, func() {
		frame := NewFrame(code, make(map[string]object.Value), nil)
		result = frame.Run()
	})

	require.False(t, result.IsError())
	require.Equal(t, "HELLO\n", out)
}

// TestScenarioS2IntArithmeticAndPrint covers S2: x=1;y=2;print(x+y).
func TestScenarioS2IntArithmeticAndPrint(t *testing.T) {
	code := moduleCode(
		object.Tuple{object.Int(1), object.Int(2)},
		[]string{"x", "y", "print"},
		[]object.Instruction{
			{Op: object.LoadConst, Arg: 0},
			{Op: object.StoreName, Arg: 0},
			{Op: object.LoadConst, Arg: 1},
			{Op: object.StoreName, Arg: 1},
			{Op: object.LoadName, Arg: 2},
			{Op: object.LoadName, Arg: 0},
			{Op: object.LoadName, Arg: 1},
			{Op: object.BinaryAdd, Arg: 0},
			{Op: object.CallFunction, Arg: 1},
			{Op: object.ReturnValue, Arg: 0},
		},
		0,
	)

	var result Result
	out := captureStdout(t, func() {
		frame := NewFrame(code, make(map[string]object.Value), nil)
		result = frame.Run()
	})

	require.False(t, result.IsError())
	require.Equal(t, "3\n", out)
}

// TestScenarioS4IntConstructionFailure covers S4: print(int("abc")).
func TestScenarioS4IntConstructionFailure(t *testing.T) {
	code := moduleCode(
		object.Tuple{object.Str("abc")},
		[]string{"int"},
		[]object.Instruction{
			{Op: object.LoadName, Arg: 0},
			{Op: object.LoadConst, Arg: 0},
			{Op: object.CallFunction, Arg: 1},
			{Op: object.ReturnValue, Arg: 0},
		},
		0,
	)

	frame := NewFrame(code, make(map[string]object.Value), nil)
	result := frame.Run()

	require.True(t, result.IsError())
	require.Equal(t, object.ValueErrorType, result.Exception.PyType())
	require.Contains(t, result.Exception.Message, "'abc'")
}

// TestMethodBindingPrependsReceiver covers property 6: fetching a function
// attribute through an instance yields a Method whose first bound argument
// is the receiver it was fetched through.
func TestMethodBindingPrependsReceiver(t *testing.T) {
	v, exc := object.GetAttribute(object.Str("hi"), "upper")
	require.Nil(t, exc)
	method, ok := v.(*object.Method)
	require.True(t, ok)
	require.Equal(t, object.Str("hi"), method.Receiver)

	result := Call(nil, method, nil, nil)
	require.False(t, result.IsError())
	require.Equal(t, object.Str("HI"), result.Value)
}

// TestSignatureDefaultsFillGaps exercises S3: def f(a, b=10): return a + b.
func TestSignatureDefaultsFillGaps(t *testing.T) {
	fnCode := &object.CodeObject{
		NLocals:     2,
		StackSize:   4,
		Code: []object.Instruction{
			{Op: object.LoadFast, Arg: 0},
			{Op: object.LoadFast, Arg: 1},
			{Op: object.BinaryAdd, Arg: 0},
			{Op: object.ReturnValue, Arg: 0},
		},
		VarNames:    []string{"a", "b"},
		Filename:    "<test>",
		Name:        "f",
		FirstLineNo: 1,
	}
	fn := &object.Function{
		Name: "f",
		Code: fnCode,
		Sig: object.Signature{
			Params:   []object.Param{{Name: "a", Kind: object.Positional}, {Name: "b", Kind: object.Positional}},
			Defaults: map[string]object.Value{"b": object.Int(10)},
		},
		Globals: make(map[string]object.Value),
	}

	r1 := Call(nil, fn, []object.Value{object.Int(5)}, nil)
	require.False(t, r1.IsError())
	require.Equal(t, object.Int(15), r1.Value)

	r2 := Call(nil, fn, []object.Value{object.Int(5), object.Int(7)}, nil)
	require.False(t, r2.IsError())
	require.Equal(t, object.Int(12), r2.Value)
}

// TestExceptionPropagationThroughCallChain covers property 8: an uncaught
// exception raised deep in a call chain terminates every intermediate
// frame with an Error result and accumulates one traceback entry per frame.
func TestExceptionPropagationThroughCallChain(t *testing.T) {
	innerCode := &object.CodeObject{
		StackSize:   2,
		Code: []object.Instruction{
			{Op: object.LoadConst, Arg: 0}, // the exception instance
			{Op: object.RaiseVarargs, Arg: 1},
		},
		Constants:   object.Tuple{object.NewValueError("boom")},
		Filename:    "<test>",
		Name:        "inner",
		FirstLineNo: 1,
	}
	inner := &object.Function{Name: "inner", Code: innerCode, Globals: make(map[string]object.Value)}

	outerCode := &object.CodeObject{
		StackSize:   2,
		Code: []object.Instruction{
			{Op: object.LoadName, Arg: 0},
			{Op: object.CallFunction, Arg: 0},
			{Op: object.ReturnValue, Arg: 0},
		},
		Names:       []string{"inner"},
		Filename:    "<test>",
		Name:        "outer",
		FirstLineNo: 2,
	}
	globals := map[string]object.Value{"inner": inner}
	outer := &object.Function{Name: "outer", Code: outerCode, Globals: globals}

	result := Call(nil, outer, nil, nil)

	require.True(t, result.IsError())
	require.Equal(t, object.ValueErrorType, result.Exception.PyType())
	require.Len(t, result.Exception.Traceback, 2)
	require.Equal(t, "inner", result.Exception.Traceback[0].CodeName)
	require.Equal(t, "outer", result.Exception.Traceback[1].CodeName)
}

// TestTooManyArgumentsRaisesTypeError and TestMissingRequiredArgumentNamesIt cover
// property 7's signature-matcher over/under-supply cases end to end
// through Call.
func TestTooManyArgumentsRaisesTypeError(t *testing.T) {
	fn := &object.Function{
		Name: "f",
		Code: &object.CodeObject{Code: []object.Instruction{{Op: object.ReturnValue}}, Filename: "<test>", Name: "f"},
		Sig:  object.Signature{Params: []object.Param{{Name: "a", Kind: object.Positional}}, Defaults: map[string]object.Value{}},
		Globals: make(map[string]object.Value),
	}
	result := Call(nil, fn, []object.Value{object.Int(1), object.Int(2)}, nil)
	require.True(t, result.IsError())
	require.Equal(t, object.TypeErrorType, result.Exception.PyType())
	require.Contains(t, result.Exception.Message, "too many arguments")
}

func TestMissingRequiredArgumentNamesIt(t *testing.T) {
	fn := &object.Function{
		Name: "f",
		Code: &object.CodeObject{Code: []object.Instruction{{Op: object.ReturnValue}}, Filename: "<test>", Name: "f"},
		Sig:  object.Signature{Params: []object.Param{{Name: "a", Kind: object.Positional}}, Defaults: map[string]object.Value{}},
		Globals: make(map[string]object.Value),
	}
	result := Call(nil, fn, nil, nil)
	require.True(t, result.IsError())
	require.Equal(t, object.TypeErrorType, result.Exception.PyType())
	require.Contains(t, result.Exception.Message, "'a'")
}
