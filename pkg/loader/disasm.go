package loader

import (
	"fmt"
	"strings"

	"github.com/brindor/kyc/pkg/object"
)

// Disassemble renders a code object's instructions as human-readable text,
// one line per instruction, in the column layout a reader of CPython's
// dis.dis output would recognize: line number (when it changes),
// instruction index, opcode mnemonic, raw argument byte, and — in
// parentheses — the argument's referent: the constant's repr, the plain
// name or varname, or the comparison operator, to save a reader the trip
// back to the side tables.
func Disassemble(c *object.CodeObject) string {
	var b strings.Builder
	lastLine := -1
	for ip, instr := range c.Code {
		line := c.LineForInstruction(ip)
		if line != lastLine {
			fmt.Fprintf(&b, "%4d ", line)
			lastLine = line
		} else {
			b.WriteString("     ")
		}
		fmt.Fprintf(&b, "%4d %-20s %3d", ip, instr.Op.String(), instr.Arg)
		if hint := argHint(c, instr); hint != "" {
			fmt.Fprintf(&b, "  (%s)", hint)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// argHint looks up the human-readable referent of an instruction's argument
// byte, where the opcode's argument is known to be an index into one of the
// code object's side tables.
func argHint(c *object.CodeObject, instr object.Instruction) string {
	idx := int(instr.Arg)
	switch instr.Op {
	case object.LoadConst:
		if idx < len(c.Constants) {
			return string(c.Constants[idx].PyRepr())
		}
	case object.LoadName, object.StoreName, object.LoadGlobal, object.LoadAttr, object.StoreAttr:
		if idx < len(c.Names) {
			return c.Names[idx]
		}
	case object.LoadFast, object.StoreFast:
		if idx < len(c.VarNames) {
			return c.VarNames[idx]
		}
	case object.CompareOp:
		return object.CompareCode(instr.Arg).String()
	}
	return ""
}
