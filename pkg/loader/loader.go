// Package loader decodes KYC bytecode artifacts into the object.Value tree
// the interpreter runs, and encodes that tree back to bytes. It is the only
// place in the engine that reads or writes raw bytecode; every downstream
// component (pkg/vm, pkg/signature) receives fully typed structures.
//
// File Format Specification:
//
// Little-endian throughout. Header: three ASCII bytes "KYC", one version
// byte (currently 'A', meaning format version 1), one byte recording the
// source-language version the artifact targets. Then a single root object.
//
// Objects are self-describing: each begins with a one-byte type tag.
//
//	false / true     boolean                    no payload
//	none             the singleton None         no payload
//	int              32-bit signed              4 bytes
//	long             64-bit signed              8 bytes
//	float            IEEE-754 double            8 bytes
//	unicode-string   UTF-8 text                 4-byte length, then bytes
//	bytestring       opaque bytes               4-byte length, then bytes
//	tuple / list     sized container            4-byte count, then that many objects
//	dict             mapping                    4-byte count, then count (key, value) pairs
//	code             code object                the fields of object.CodeObject, fixed order (see writeCode)
//	kyc-file         module envelope            pyHash (long), comment (unicode), code (code object)
//
// A bad magic, an unrecognized version byte, or an unknown tag is a loader
// error: the decoder is reading a corrupted or foreign artifact, which is an
// engine error (§7 of the design this package implements), never a guest
// exception.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/brindor/kyc/pkg/object"
)

// Magic is the three-byte file signature every KYC artifact must begin with.
var Magic = [3]byte{'K', 'Y', 'C'}

// FormatVersion is the only version byte this engine accepts.
const FormatVersion byte = 'A'

// Object type tags, one byte each, in the order the format table lists them.
const (
	tagFalse byte = iota
	tagTrue
	tagNone
	tagInt
	tagLong
	tagFloat
	tagUnicodeString
	tagByteString
	tagTuple
	tagList
	tagDict
	tagCode
	tagKYCFile
)

// LoaderError reports a decode failure together with the byte offset and
// the offending byte, so a launcher can print a diagnostic that names
// exactly where the artifact went wrong.
type LoaderError struct {
	Offset  int64
	Byte    byte
	Message string
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("kyc: %s at offset %d (byte 0x%02x)", e.Message, e.Offset, e.Byte)
}

// File is the decoded module envelope: the kyc-file tag's three fields.
type File struct {
	PyHash             int64
	Comment            string
	Code               *object.CodeObject
	SourceLanguageVersion byte
}

// countingReader tracks how many bytes have been consumed, so a LoaderError
// can report the offset at which decoding failed.
type countingReader struct {
	r   io.Reader
	pos int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	return n, err
}

// Decode reads one KYC artifact from r and returns its module envelope.
// This is the only place in the engine that reads raw bytes; a read or
// format failure here is always an engine error, never a guest exception.
// A bad magic, an unsupported version byte, or an unknown tag at the root
// is returned as a bare *LoaderError; read failures and failures inside
// nested objects are wrapped with github.com/pkg/errors.
func Decode(r io.Reader) (*File, error) {
	cr := &countingReader{r: r}

	var magic [3]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return nil, errors.Wrap(err, "kyc: reading magic")
	}
	if magic != Magic {
		return nil, &LoaderError{Offset: 0, Byte: magic[0], Message: fmt.Sprintf("bad magic %q", magic)}
	}

	version, err := readByte(cr)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: reading version")
	}
	if version != FormatVersion {
		return nil, &LoaderError{Offset: cr.pos - 1, Byte: version, Message: "unsupported version byte"}
	}

	srcVersion, err := readByte(cr)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: reading source-language version")
	}

	d := &decoder{r: cr}
	v, err := d.readObject()
	if err != nil {
		return nil, err
	}
	f, ok := v.(*File)
	if !ok {
		return nil, &LoaderError{Offset: cr.pos, Message: "root object is not a kyc-file envelope"}
	}
	f.SourceLanguageVersion = srcVersion
	return f, nil
}

type decoder struct {
	r *countingReader
}

func (d *decoder) fail(tag byte, msg string) error {
	return &LoaderError{Offset: d.r.pos - 1, Byte: tag, Message: msg}
}

// readObject decodes one self-describing tagged object, recursing into
// containers and code objects as needed.
func (d *decoder) readObject() (interface{}, error) {
	tag, err := readByte(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: reading object tag")
	}

	switch tag {
	case tagFalse:
		return object.False, nil
	case tagTrue:
		return object.True, nil
	case tagNone:
		return object.NoneValue, nil
	case tagInt:
		var v int32
		if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
			return nil, errors.Wrap(err, "kyc: reading int payload")
		}
		return object.Int(v), nil
	case tagLong:
		var v int64
		if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
			return nil, errors.Wrap(err, "kyc: reading long payload")
		}
		return object.Int(v), nil
	case tagFloat:
		var v float64
		if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
			return nil, errors.Wrap(err, "kyc: reading float payload")
		}
		return object.Float(v), nil
	case tagUnicodeString:
		s, err := d.readBytes()
		if err != nil {
			return nil, errors.Wrap(err, "kyc: reading unicode-string payload")
		}
		return object.Str(s), nil
	case tagByteString:
		b, err := d.readBytes()
		if err != nil {
			return nil, errors.Wrap(err, "kyc: reading bytestring payload")
		}
		return object.Bytes(b), nil
	case tagTuple:
		items, err := d.readValueSlice()
		if err != nil {
			return nil, err
		}
		return object.Tuple(items), nil
	case tagList:
		items, err := d.readValueSlice()
		if err != nil {
			return nil, err
		}
		return object.NewList(items), nil
	case tagDict:
		return d.readDict()
	case tagCode:
		return d.readCode()
	case tagKYCFile:
		return d.readFile()
	default:
		return nil, d.fail(tag, "unknown object tag")
	}
}

// readValue is readObject narrowed to object.Value, for call sites that
// know the tag cannot be a kyc-file envelope (everything but the root).
func (d *decoder) readValue() (object.Value, error) {
	v, err := d.readObject()
	if err != nil {
		return nil, err
	}
	val, ok := v.(object.Value)
	if !ok {
		return nil, errors.New("kyc: expected a value, found a module envelope")
	}
	return val, nil
}

func (d *decoder) readValueSlice() ([]object.Value, error) {
	count, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: reading container count")
	}
	items := make([]object.Value, count)
	for i := range items {
		v, err := d.readValue()
		if err != nil {
			return nil, errors.Wrapf(err, "kyc: reading element %d", i)
		}
		items[i] = v
	}
	return items, nil
}

func (d *decoder) readDict() (*object.Dict, error) {
	count, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: reading dict count")
	}
	dict := object.NewDict()
	for i := uint32(0); i < count; i++ {
		k, err := d.readValue()
		if err != nil {
			return nil, errors.Wrapf(err, "kyc: reading dict key %d", i)
		}
		v, err := d.readValue()
		if err != nil {
			return nil, errors.Wrapf(err, "kyc: reading dict value %d", i)
		}
		if exc := dict.Set(k, v); exc != nil {
			return nil, errors.Errorf("kyc: unhashable dict key at entry %d: %s", i, exc.Message)
		}
	}
	return dict, nil
}

// readCode decodes a code object's fields in the exact order the format
// fixes: argcount, posonlyargcount, kwonlyargcount, nlocals, stacksize,
// flags, code-bytes, consts-tuple, names-tuple, varnames-tuple,
// freevars-tuple, cellvars-tuple, filename, name, firstlineno, lnotab.
func (d *decoder) readCode() (*object.CodeObject, error) {
	argCount, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.argcount")
	}
	posOnly, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.posonlyargcount")
	}
	kwOnly, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.kwonlyargcount")
	}
	nlocals, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.nlocals")
	}
	stackSize, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.stacksize")
	}
	flags, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.flags")
	}
	rawCode, err := d.readBytes()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.code-bytes")
	}
	instructions, err := decodeInstructions(rawCode)
	if err != nil {
		return nil, err
	}

	constsObj, err := d.readValue()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.consts")
	}
	consts, ok := constsObj.(object.Tuple)
	if !ok {
		return nil, errors.New("kyc: code.consts is not a tuple")
	}

	names, err := d.readStringTuple()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.names")
	}
	varNames, err := d.readStringTuple()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.varnames")
	}
	freeVars, err := d.readStringTuple()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.freevars")
	}
	cellVars, err := d.readStringTuple()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.cellvars")
	}

	filename, err := d.readBytes()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.filename")
	}
	name, err := d.readBytes()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.name")
	}
	firstLineNo, err := readUint32(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.firstlineno")
	}
	lnotab, err := d.readBytes()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: code.lnotab")
	}

	return &object.CodeObject{
		ArgCount:        int(argCount),
		PosOnlyArgCount: int(posOnly),
		KwOnlyArgCount:  int(kwOnly),
		NLocals:         int(nlocals),
		StackSize:       int(stackSize),
		Flags:           flags,
		Code:            instructions,
		Constants:       consts,
		Names:           names,
		VarNames:        varNames,
		FreeVars:        freeVars,
		CellVars:        cellVars,
		Filename:        string(filename),
		Name:            string(name),
		FirstLineNo:     int(firstLineNo),
		LnoTab:          lnotab,
	}, nil
}

// readStringTuple decodes a tuple-of-unicode-strings object (the wire
// representation of names/varnames/freevars/cellvars) into a plain []string.
func (d *decoder) readStringTuple() ([]string, error) {
	v, err := d.readValue()
	if err != nil {
		return nil, err
	}
	tup, ok := v.(object.Tuple)
	if !ok {
		return nil, errors.New("kyc: expected a tuple of strings")
	}
	out := make([]string, len(tup))
	for i, e := range tup {
		s, ok := e.(object.Str)
		if !ok {
			return nil, errors.New("kyc: expected a string element in name tuple")
		}
		out[i] = string(s)
	}
	return out, nil
}

func (d *decoder) readFile() (*File, error) {
	var pyHash int64
	if err := binary.Read(d.r, binary.LittleEndian, &pyHash); err != nil {
		return nil, errors.Wrap(err, "kyc: file.pyhash")
	}
	comment, err := d.readBytes()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: file.comment")
	}
	code, err := d.readCode()
	if err != nil {
		return nil, errors.Wrap(err, "kyc: file.code")
	}
	return &File{PyHash: pyHash, Comment: string(comment), Code: code}, nil
}

func (d *decoder) readBytes() ([]byte, error) {
	n, err := readUint32(d.r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var n uint32
	err := binary.Read(r, binary.LittleEndian, &n)
	return n, err
}

// decodeInstructions splits a raw co_code byte blob into (opcode,
// argument-byte) pairs. Each source instruction is exactly two bytes; the
// resulting slice is addressed by instruction index, not byte offset.
func decodeInstructions(raw []byte) ([]object.Instruction, error) {
	if len(raw)%2 != 0 {
		return nil, errors.Errorf("kyc: code-bytes length %d is not a multiple of 2", len(raw))
	}
	out := make([]object.Instruction, len(raw)/2)
	for i := range out {
		out[i] = object.Instruction{Op: object.Opcode(raw[2*i]), Arg: raw[2*i+1]}
	}
	return out, nil
}
