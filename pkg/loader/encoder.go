package loader

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/brindor/kyc/pkg/object"
)

// Encode writes f to w in the KYC wire format, the inverse of Decode. It
// exists primarily to make the format's round-trip property (§8 "Decoder
// round-trip") testable without a real external compiler in the loop, and
// for building hand-assembled test fixtures; the launcher does not call it.
func Encode(f *File, srcVersion byte, w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return errors.Wrap(err, "kyc: writing magic")
	}
	if err := writeByte(w, FormatVersion); err != nil {
		return errors.Wrap(err, "kyc: writing version")
	}
	if err := writeByte(w, srcVersion); err != nil {
		return errors.Wrap(err, "kyc: writing source-language version")
	}

	e := &encoder{w: w}
	return e.writeFile(f)
}

type encoder struct {
	w io.Writer
}

func (e *encoder) writeFile(f *File) error {
	if err := writeByte(e.w, tagKYCFile); err != nil {
		return err
	}
	if err := binary.Write(e.w, binary.LittleEndian, f.PyHash); err != nil {
		return errors.Wrap(err, "kyc: writing file.pyhash")
	}
	if err := e.writeBytes([]byte(f.Comment)); err != nil {
		return errors.Wrap(err, "kyc: writing file.comment")
	}
	return e.writeCode(f.Code)
}

func (e *encoder) writeValue(v object.Value) error {
	switch x := v.(type) {
	case object.Bool:
		if x {
			return writeByte(e.w, tagTrue)
		}
		return writeByte(e.w, tagFalse)
	case object.Int:
		if err := writeByte(e.w, tagLong); err != nil {
			return err
		}
		return binary.Write(e.w, binary.LittleEndian, int64(x))
	case object.Float:
		if err := writeByte(e.w, tagFloat); err != nil {
			return err
		}
		return binary.Write(e.w, binary.LittleEndian, float64(x))
	case object.Str:
		if err := writeByte(e.w, tagUnicodeString); err != nil {
			return err
		}
		return e.writeBytes([]byte(x))
	case object.Bytes:
		if err := writeByte(e.w, tagByteString); err != nil {
			return err
		}
		return e.writeBytes([]byte(x))
	case object.Tuple:
		if err := writeByte(e.w, tagTuple); err != nil {
			return err
		}
		return e.writeValueSlice([]object.Value(x))
	case *object.List:
		if err := writeByte(e.w, tagList); err != nil {
			return err
		}
		return e.writeValueSlice(x.Items)
	case *object.Dict:
		return e.writeDict(x)
	case *object.CodeObject:
		if err := writeByte(e.w, tagCode); err != nil {
			return err
		}
		return e.writeCode(x)
	default:
		if v == object.NoneValue {
			return writeByte(e.w, tagNone)
		}
		return errors.Errorf("kyc: cannot encode value of type %T", v)
	}
}

func (e *encoder) writeValueSlice(items []object.Value) error {
	if err := binary.Write(e.w, binary.LittleEndian, uint32(len(items))); err != nil {
		return err
	}
	for i, v := range items {
		if err := e.writeValue(v); err != nil {
			return errors.Wrapf(err, "kyc: writing element %d", i)
		}
	}
	return nil
}

func (e *encoder) writeDict(d *object.Dict) error {
	if err := writeByte(e.w, tagDict); err != nil {
		return err
	}
	if err := binary.Write(e.w, binary.LittleEndian, uint32(d.Len())); err != nil {
		return err
	}
	var writeErr error
	d.Iterate(func(k, v object.Value) bool {
		if err := e.writeValue(k); err != nil {
			writeErr = err
			return false
		}
		if err := e.writeValue(v); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	return writeErr
}

func (e *encoder) writeStringTuple(names []string) error {
	if err := writeByte(e.w, tagTuple); err != nil {
		return err
	}
	if err := binary.Write(e.w, binary.LittleEndian, uint32(len(names))); err != nil {
		return err
	}
	for _, n := range names {
		if err := writeByte(e.w, tagUnicodeString); err != nil {
			return err
		}
		if err := e.writeBytes([]byte(n)); err != nil {
			return err
		}
	}
	return nil
}

// writeCode encodes a code object's fields in the fixed order the format
// requires, the exact inverse of decoder.readCode. Like readCode it handles
// only the payload: the tag byte is written by writeValue for a code object
// nested in a constant pool, and omitted inside the kyc-file envelope,
// where readFile reads the code payload directly.
func (e *encoder) writeCode(c *object.CodeObject) error {
	fields := []uint32{
		uint32(c.ArgCount), uint32(c.PosOnlyArgCount), uint32(c.KwOnlyArgCount),
		uint32(c.NLocals), uint32(c.StackSize), c.Flags,
	}
	for _, f := range fields {
		if err := binary.Write(e.w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	if err := e.writeBytes(encodeInstructions(c.Code)); err != nil {
		return errors.Wrap(err, "kyc: writing code.code-bytes")
	}
	if err := e.writeValue(c.Constants); err != nil {
		return errors.Wrap(err, "kyc: writing code.consts")
	}
	if err := e.writeStringTuple(c.Names); err != nil {
		return errors.Wrap(err, "kyc: writing code.names")
	}
	if err := e.writeStringTuple(c.VarNames); err != nil {
		return errors.Wrap(err, "kyc: writing code.varnames")
	}
	if err := e.writeStringTuple(c.FreeVars); err != nil {
		return errors.Wrap(err, "kyc: writing code.freevars")
	}
	if err := e.writeStringTuple(c.CellVars); err != nil {
		return errors.Wrap(err, "kyc: writing code.cellvars")
	}
	if err := e.writeBytes([]byte(c.Filename)); err != nil {
		return err
	}
	if err := e.writeBytes([]byte(c.Name)); err != nil {
		return err
	}
	if err := binary.Write(e.w, binary.LittleEndian, uint32(c.FirstLineNo)); err != nil {
		return err
	}
	return e.writeBytes(c.LnoTab)
}

func (e *encoder) writeBytes(b []byte) error {
	if err := binary.Write(e.w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// encodeInstructions is the inverse of decodeInstructions: flattens
// (opcode, argument-byte) pairs back into the raw co_code blob.
func encodeInstructions(instrs []object.Instruction) []byte {
	out := make([]byte, 2*len(instrs))
	for i, instr := range instrs {
		out[2*i] = byte(instr.Op)
		out[2*i+1] = instr.Arg
	}
	return out
}
