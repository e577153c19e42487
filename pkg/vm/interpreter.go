package vm

import (
	"github.com/rs/zerolog/log"

	"github.com/brindor/kyc/pkg/object"
)

// Run drives f's fetch-decode-execute loop to completion, implementing the
// opcode set of spec.md §4.3. It never returns a Go error: every failure
// this loop can itself detect that is not an engine-fatal invariant
// violation is surfaced as a guest ExceptionInstance wrapped in an Error
// result.
func (f *Frame) Run() Result {
	for {
		if f.ip >= len(f.code.Code) {
			panic("vm: instruction pointer ran off the end of the code object")
		}
		instr := f.code.Code[f.ip]
		log.Debug().
			Str("code", f.code.Name).
			Int("ip", f.ip).
			Str("op", instr.Op.String()).
			Int("arg", int(instr.Arg)).
			Msg("dispatch")

		switch instr.Op {
		case object.LoadConst:
			f.push(f.code.Constants[instr.Arg])
			f.ip++

		case object.LoadFast:
			v := f.locals[instr.Arg]
			if v == nil {
				return f.raise(object.NewUnboundLocalError(
					"local variable '" + f.code.VarNames[instr.Arg] + "' referenced before assignment"))
			}
			f.push(v)
			f.ip++

		case object.StoreFast:
			f.locals[instr.Arg] = f.pop()
			f.ip++

		case object.LoadName, object.LoadGlobal:
			name := f.code.Names[instr.Arg]
			if f.nameCacheSet[instr.Arg] {
				f.push(f.nameCache[instr.Arg])
				f.ip++
				continue
			}
			v, ok := f.globals[name]
			if !ok {
				if v, ok = object.Builtins[name]; !ok {
					return f.raise(object.NewNameError("name '" + name + "' is not defined"))
				}
			}
			f.nameCache[instr.Arg] = v
			f.nameCacheSet[instr.Arg] = true
			f.push(v)
			f.ip++

		case object.StoreName:
			name := f.code.Names[instr.Arg]
			v := f.pop()
			f.globals[name] = v
			f.nameCache[instr.Arg] = v
			f.nameCacheSet[instr.Arg] = true
			f.ip++

		case object.LoadAttr:
			recv := f.pop()
			v, exc := object.GetAttribute(recv, f.code.Names[instr.Arg])
			if exc != nil {
				return f.raise(exc)
			}
			f.push(v)
			f.ip++

		case object.StoreAttr:
			recv := f.pop()
			v := f.pop()
			holder, ok := recv.(interface{ SetAttr(string, object.Value) })
			if !ok {
				return f.raise(object.NewAttributeError(
					"'" + recv.PyType().Name + "' object has no settable attributes"))
			}
			holder.SetAttr(f.code.Names[instr.Arg], v)
			f.ip++

		case object.PopTop:
			f.pop()
			f.ip++

		case object.DupTop:
			f.push(f.top())
			f.ip++

		case object.RotTwo:
			n := len(f.stack)
			f.stack[n-1], f.stack[n-2] = f.stack[n-2], f.stack[n-1]
			f.ip++

		case object.RotThree:
			n := len(f.stack)
			f.stack[n-1], f.stack[n-2], f.stack[n-3] = f.stack[n-2], f.stack[n-3], f.stack[n-1]
			f.ip++

		case object.BinaryAdd:
			if r, done := f.binary(object.Add); done {
				return r
			}

		case object.BinarySubtract:
			if r, done := f.binary(object.Subtract); done {
				return r
			}

		case object.BinaryMultiply:
			if r, done := f.binary(object.Multiply); done {
				return r
			}

		case object.BinaryTrueDivide:
			if r, done := f.binary(object.Divide); done {
				return r
			}

		case object.BinarySubscr:
			if r, done := f.binary(object.Subscr); done {
				return r
			}

		case object.CompareOp:
			b := f.pop()
			a := f.pop()
			v, exc := object.Compare(object.CompareCode(instr.Arg), a, b)
			if exc != nil {
				return f.raise(exc)
			}
			f.push(v)
			f.ip++

		case object.CallFunction:
			argc := int(instr.Arg)
			args := make([]object.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = f.pop()
			}
			callee := f.pop()
			result := Call(f, callee, args, nil)
			if result.IsError() {
				return f.raise(result.Exception)
			}
			f.push(result.Value)
			f.ip++

		case object.CallFunctionKw:
			namesVal := f.pop()
			names, ok := namesVal.(object.Tuple)
			if !ok {
				panic("vm: CALL_FUNCTION_KW top of stack is not a tuple of names")
			}
			kwargs := make(map[string]object.Value, len(names))
			for i := len(names) - 1; i >= 0; i-- {
				name, ok := names[i].(object.Str)
				if !ok {
					panic("vm: CALL_FUNCTION_KW keyword name is not a string")
				}
				kwargs[string(name)] = f.pop()
			}
			argc := int(instr.Arg) - len(names)
			args := make([]object.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = f.pop()
			}
			callee := f.pop()
			result := Call(f, callee, args, kwargs)
			if result.IsError() {
				return f.raise(result.Exception)
			}
			f.push(result.Value)
			f.ip++

		case object.ReturnValue:
			return ReturnResult(f.pop())

		case object.JumpAbsolute:
			f.ip = int(instr.Arg)

		case object.PopJumpIfFalse:
			if !truthy(f.pop()) {
				f.ip = int(instr.Arg)
			} else {
				f.ip++
			}

		case object.PopJumpIfTrue:
			if truthy(f.pop()) {
				f.ip = int(instr.Arg)
			} else {
				f.ip++
			}

		case object.BuildTuple:
			n := int(instr.Arg)
			items := make(object.Tuple, n)
			for i := n - 1; i >= 0; i-- {
				items[i] = f.pop()
			}
			f.push(items)
			f.ip++

		case object.BuildList:
			n := int(instr.Arg)
			items := make([]object.Value, n)
			for i := n - 1; i >= 0; i-- {
				items[i] = f.pop()
			}
			f.push(object.NewList(items))
			f.ip++

		case object.BuildMap:
			n := int(instr.Arg)
			pairs := make([][2]object.Value, n)
			for i := n - 1; i >= 0; i-- {
				v := f.pop()
				k := f.pop()
				pairs[i] = [2]object.Value{k, v}
			}
			d := object.NewDict()
			for _, kv := range pairs {
				if exc := d.Set(kv[0], kv[1]); exc != nil {
					return f.raise(exc)
				}
			}
			f.push(d)
			f.ip++

		case object.RaiseVarargs:
			return f.raiseVarargs(int(instr.Arg))

		default:
			panic("vm: unknown opcode " + instr.Op.String())
		}
	}
}

// binary pops two operands, applies op, and either pushes the result and
// advances ip (returning done=false so the dispatch loop continues) or
// returns an Error result (done=true).
func (f *Frame) binary(op func(a, b object.Value) (object.Value, *object.ExceptionInstance)) (Result, bool) {
	b := f.pop()
	a := f.pop()
	v, exc := op(a, b)
	if exc != nil {
		return f.raise(exc), true
	}
	f.push(v)
	f.ip++
	return Result{}, false
}

// raiseVarargs implements RAISE_VARARGS n: n==0 re-raises not being
// supported in the minimal core (no active exception to re-raise without
// handler-table support), n==1 pops an exception instance to raise, n==2
// additionally pops a cause.
func (f *Frame) raiseVarargs(n int) Result {
	switch n {
	case 1:
		v := f.pop()
		exc, ok := v.(*object.ExceptionInstance)
		if !ok {
			return f.raise(object.NewTypeError("exceptions must derive from BaseException"))
		}
		return f.raise(exc)
	case 2:
		cause := f.pop()
		v := f.pop()
		exc, ok := v.(*object.ExceptionInstance)
		if !ok {
			return f.raise(object.NewTypeError("exceptions must derive from BaseException"))
		}
		if causeExc, ok := cause.(*object.ExceptionInstance); ok {
			exc.Cause = causeExc
		}
		return f.raise(exc)
	default:
		return f.raise(object.NewRuntimeError("no active exception to re-raise"))
	}
}

// truthy implements the guest language's boolean coercion for conditional
// jumps: None and the Bool false value are falsy; every Int/Float zero is
// falsy; empty Str/Bytes/Tuple/List/Dict are falsy; everything else is
// truthy.
func truthy(v object.Value) bool {
	switch x := v.(type) {
	case object.Bool:
		return bool(x)
	case object.Int:
		return x != 0
	case object.Float:
		return x != 0
	case object.Str:
		return len(x) != 0
	case object.Bytes:
		return len(x) != 0
	case object.Tuple:
		return len(x) != 0
	case *object.List:
		return len(x.Items) != 0
	case *object.Dict:
		return x.Len() != 0
	}
	return v != object.NoneValue
}
