package object

import "fmt"

// TracebackEntry captures one frame's contribution to an exception's
// traceback: where it was executing when the exception passed through it.
type TracebackEntry struct {
	Filename string
	CodeName string
	Line     int
}

// ExceptionInstance is a guest exception value: its type, a message, an
// optional cause (for chained exceptions, "raise X from Y"), and the
// traceback accumulated as the exception unwinds through frames
// (spec.md §4.5, §7).
type ExceptionInstance struct {
	Instance
	Message   string
	Cause     *ExceptionInstance
	Traceback []TracebackEntry
}

// NewException constructs an exception instance of typ with the given
// message and an empty traceback, ready to be returned as Error(e) from
// the frame that raised it.
func NewException(typ *Type, message string) *ExceptionInstance {
	return &ExceptionInstance{
		Instance: Instance{typ: typ, dict: make(map[string]Value)},
		Message:  message,
	}
}

func (e *ExceptionInstance) PyStr() Str  { return Str(e.Message) }
func (e *ExceptionInstance) PyRepr() Str { return Str(e.typ.Name + "(" + fmt.Sprintf("%q", e.Message) + ")") }

// AddTraceback appends one frame's location to the traceback as the
// exception propagates upward. Frames append their own entry exactly
// once, on the way out (spec.md §4.5 Propagation).
func (e *ExceptionInstance) AddTraceback(filename, codeName string, line int) {
	e.Traceback = append(e.Traceback, TracebackEntry{Filename: filename, CodeName: codeName, Line: line})
}

// FormatTraceback renders the accumulated traceback the way a reader of
// the guest language would recognize it, most-recent-call-first in the
// entry slice (outermost frame added last) but printed oldest-first like
// a standard traceback.
func (e *ExceptionInstance) FormatTraceback() string {
	s := "Traceback (most recent call last):\n"
	for i := len(e.Traceback) - 1; i >= 0; i-- {
		t := e.Traceback[i]
		s += fmt.Sprintf("  File \"%s\", line %d, in %s\n", t.Filename, t.Line, t.CodeName)
	}
	s += e.typ.Name + ": " + e.Message
	return s
}

// The exception type hierarchy, rooted at BaseExceptionType. EXCEPTION is
// its direct child; every concrete kind spec.md §4.5 names descends from
// EXCEPTION, not directly from BaseExceptionType.
var (
	BaseExceptionType = newType("BaseException")
	ExceptionType     = newType("Exception", BaseExceptionType)

	NameErrorType          = newType("NameError", ExceptionType)
	TypeErrorType          = newType("TypeError", ExceptionType)
	ValueErrorType         = newType("ValueError", ExceptionType)
	RuntimeErrorType       = newType("RuntimeError", ExceptionType)
	NotImplementedErrorType = newType("NotImplementedError", ExceptionType)
	AttributeErrorType     = newType("AttributeError", ExceptionType)
	UnboundLocalErrorType  = newType("UnboundLocalError", ExceptionType)
	ZeroDivisionErrorType  = newType("ZeroDivisionError", ExceptionType)
	StopIterationType      = newType("StopIteration", ExceptionType)
)

func NewNameError(msg string) *ExceptionInstance          { return NewException(NameErrorType, msg) }
func NewTypeError(msg string) *ExceptionInstance          { return NewException(TypeErrorType, msg) }
func NewValueError(msg string) *ExceptionInstance         { return NewException(ValueErrorType, msg) }
func NewRuntimeError(msg string) *ExceptionInstance       { return NewException(RuntimeErrorType, msg) }
func NewNotImplementedError(msg string) *ExceptionInstance {
	return NewException(NotImplementedErrorType, msg)
}
func NewAttributeError(msg string) *ExceptionInstance    { return NewException(AttributeErrorType, msg) }
func NewUnboundLocalError(msg string) *ExceptionInstance  { return NewException(UnboundLocalErrorType, msg) }
func NewZeroDivisionError(msg string) *ExceptionInstance  { return NewException(ZeroDivisionErrorType, msg) }
func NewStopIteration(msg string) *ExceptionInstance      { return NewException(StopIterationType, msg) }
