package vm

import (
	"github.com/rs/zerolog/log"

	"github.com/brindor/kyc/pkg/object"
	"github.com/brindor/kyc/pkg/signature"
)

// Call invokes callee with the given positional and keyword arguments,
// implementing spec.md §4.3's "Call invocation" paragraph: every callable
// shape — user-defined Function, bound Method, host BuiltinFunction — is
// reduced to "produce a fresh frame, run it to completion" so the
// interpreter loop itself never type-switches on what it is calling. A
// Type is called through its NewInstance policy, with the arguments passed
// through unbound; a Type without one raises TYPE_ERROR.
//
// Call itself never appends a traceback entry: a bind failure or
// not-callable error originates at the call site, and it is the caller's
// CALL_FUNCTION/CALL_FUNCTION_KW dispatch (the only place that knows which
// frame that call site belongs to) that appends the one traceback entry
// this frame boundary owns, whether the error originated here or unwound
// up from a deeper callee.
func Call(caller *Frame, callee object.Value, args []object.Value, kwargs map[string]object.Value) Result {
	switch fn := callee.(type) {
	case *object.Method:
		boundArgs := make([]object.Value, 0, len(args)+1)
		boundArgs = append(boundArgs, fn.Receiver)
		boundArgs = append(boundArgs, args...)
		return Call(caller, fn.Callable, boundArgs, kwargs)

	case *object.Function:
		bound, exc := signature.Bind(fn.Sig, args, kwargs)
		if exc != nil {
			return ErrorResult(exc)
		}
		frame := NewFrame(fn.Code, fn.Globals, caller)
		for i, name := range fn.Code.VarNames {
			if v, ok := bound[name]; ok {
				frame.locals[i] = v
			}
		}
		log.Debug().Str("function", fn.Name).Int("nlocals", fn.Code.NLocals).Msg("entering frame")
		return frame.Run()

	case *object.BuiltinFunction:
		bound, exc := signature.Bind(fn.Sig, args, kwargs)
		if exc != nil {
			return ErrorResult(exc)
		}
		positional := make([]object.Value, len(fn.Sig.Params))
		for i, p := range fn.Sig.Params {
			positional[i] = bound[p.Name]
		}
		v, exc := fn.Impl(positional, kwargs)
		if exc != nil {
			return ErrorResult(exc)
		}
		return ReturnResult(v)

	case *object.Type:
		if fn.NewInstance == nil {
			return ErrorResult(object.NewTypeError("cannot create '" + fn.Name + "' instances"))
		}
		v, exc := fn.NewInstance(args, kwargs)
		if exc != nil {
			return ErrorResult(exc)
		}
		return ReturnResult(v)

	default:
		return ErrorResult(object.NewTypeError("'" + callee.PyType().Name + "' object is not callable"))
	}
}
