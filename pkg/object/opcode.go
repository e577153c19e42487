package object

// Opcode identifies a bytecode operation. It lives alongside CodeObject in
// this package (rather than in pkg/vm, which executes it) because the
// loader must be able to decode instructions into object.Instruction
// without importing the interpreter.
type Opcode byte

// The opcode set the core interpreter must support (spec.md §4.3). Any
// opcode outside this set that the decoder produces is an engine error,
// not a guest error — it means the bytecode file targets a newer or
// different instruction set than this engine implements.
const (
	LoadConst Opcode = iota
	LoadFast
	StoreFast
	LoadName
	StoreName
	LoadGlobal
	LoadAttr
	StoreAttr
	PopTop
	DupTop
	RotTwo
	RotThree
	BinaryAdd
	BinarySubtract
	BinaryMultiply
	BinaryTrueDivide
	BinarySubscr
	CallFunction
	CallFunctionKw
	ReturnValue
	JumpAbsolute
	PopJumpIfFalse
	PopJumpIfTrue
	BuildTuple
	BuildList
	BuildMap
	CompareOp
	RaiseVarargs
)

// CompareCode is the operand COMPARE_OP carries in its argument byte: which
// relational operator to apply. It is a distinct type from Opcode even
// though both are byte-sized, since a CompareCode is never itself dispatched
// as an instruction opcode.
type CompareCode byte

const (
	CompareLt CompareCode = iota
	CompareLe
	CompareEq
	CompareNe
	CompareGt
	CompareGe
)

var compareCodeNames = map[CompareCode]string{
	CompareLt: "<",
	CompareLe: "<=",
	CompareEq: "==",
	CompareNe: "!=",
	CompareGt: ">",
	CompareGe: ">=",
}

func (c CompareCode) String() string {
	if name, ok := compareCodeNames[c]; ok {
		return name
	}
	return "?"
}

var opcodeNames = map[Opcode]string{
	LoadConst:        "LOAD_CONST",
	LoadFast:         "LOAD_FAST",
	StoreFast:        "STORE_FAST",
	LoadName:         "LOAD_NAME",
	StoreName:        "STORE_NAME",
	LoadGlobal:       "LOAD_GLOBAL",
	LoadAttr:         "LOAD_ATTR",
	StoreAttr:        "STORE_ATTR",
	PopTop:           "POP_TOP",
	DupTop:           "DUP_TOP",
	RotTwo:           "ROT_TWO",
	RotThree:         "ROT_THREE",
	BinaryAdd:        "BINARY_ADD",
	BinarySubtract:   "BINARY_SUBTRACT",
	BinaryMultiply:   "BINARY_MULTIPLY",
	BinaryTrueDivide: "BINARY_TRUE_DIVIDE",
	BinarySubscr:     "BINARY_SUBSCR",
	CallFunction:     "CALL_FUNCTION",
	CallFunctionKw:   "CALL_FUNCTION_KW",
	ReturnValue:      "RETURN_VALUE",
	JumpAbsolute:     "JUMP_ABSOLUTE",
	PopJumpIfFalse:   "POP_JUMP_IF_FALSE",
	PopJumpIfTrue:    "POP_JUMP_IF_TRUE",
	BuildTuple:       "BUILD_TUPLE",
	BuildList:        "BUILD_LIST",
	BuildMap:         "BUILD_MAP",
	CompareOp:        "COMPARE_OP",
	RaiseVarargs:     "RAISE_VARARGS",
}

// String returns a human-readable opcode name, used by the disassembler
// and by debug-level instruction tracing.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
