// Package vm implements the frame-and-stack machine that runs a decoded
// object.CodeObject: the operand stack, local and name-cache slots, the
// fetch-decode-execute interpreter loop, call dispatch, and exception
// propagation between frames (spec.md §3 Frame, §4.3 Interpreter loop).
package vm

import (
	"weak"

	"github.com/brindor/kyc/pkg/object"
)

// Result is the outcome of running a frame to completion: exactly one of
// Return(value) or Error(exceptionInstance), matching the two-case return
// the interpreter loop's runFrame exposes to its caller.
type Result struct {
	Value     object.Value
	Exception *object.ExceptionInstance
}

func ReturnResult(v object.Value) Result                 { return Result{Value: v} }
func ErrorResult(e *object.ExceptionInstance) Result     { return Result{Exception: e} }
func (r Result) IsError() bool                           { return r.Exception != nil }

// Frame is the activation record for one call. It owns its operand stack
// and local slots outright; its link to the parent frame is a weak
// reference (spec.md §9 "Frame chain without cycles"), exposed through
// Parent, that never extends the parent's lifetime. Tracebacks are built
// without it: each frame appends its own entry as an error passes through.
type Frame struct {
	code *object.CodeObject

	stack    []object.Value // operand stack, grown up to code.StackSize
	locals   []object.Value // indexed by varname slot; nil entry == unbound
	nameCache []object.Value // lazily resolved LOAD_NAME/LOAD_GLOBAL slots
	nameCacheSet []bool

	ip int

	globals map[string]object.Value

	parent weak.Pointer[Frame]
	child  *Frame
}

// NewFrame allocates a fresh frame for running code against globals, with
// parent set as its (weak) caller back-link. parent may be nil for the
// module-level frame.
func NewFrame(code *object.CodeObject, globals map[string]object.Value, parent *Frame) *Frame {
	f := &Frame{
		code:         code,
		stack:        make([]object.Value, 0, code.StackSize),
		locals:       make([]object.Value, code.NLocals),
		nameCache:    make([]object.Value, len(code.Names)),
		nameCacheSet: make([]bool, len(code.Names)),
		globals:      globals,
	}
	if parent != nil {
		f.parent = weak.Make(parent)
	}
	return f
}

func (f *Frame) push(v object.Value) { f.stack = append(f.stack, v) }

func (f *Frame) pop() object.Value {
	n := len(f.stack)
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v
}

func (f *Frame) top() object.Value { return f.stack[len(f.stack)-1] }

// Parent resolves the weak back-link, returning nil once the caller frame
// has been collected (which normally only happens after this frame itself
// has finished running).
func (f *Frame) Parent() *Frame { return f.parent.Value() }

// CurrentLine resolves this frame's current source line from its code
// object's line table.
func (f *Frame) CurrentLine() int { return f.code.LineForInstruction(f.ip) }

// raise appends this frame's current location to e's traceback and wraps it
// in an Error result, implementing the propagation contract of spec.md
// §4.5: a frame appends its own entry exactly once, on the way out.
func (f *Frame) raise(e *object.ExceptionInstance) Result {
	e.AddTraceback(f.code.Filename, f.code.Name, f.CurrentLine())
	return ErrorResult(e)
}
