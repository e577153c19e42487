package loader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/brindor/kyc/pkg/object"
)

func sampleCode() *object.CodeObject {
	return &object.CodeObject{
		ArgCount:    1,
		NLocals:     2,
		StackSize:   4,
		Flags:       0,
		Code:        []object.Instruction{{Op: object.LoadFast, Arg: 0}, {Op: object.ReturnValue, Arg: 0}},
		Constants:   object.Tuple{object.Int(42), object.Str("hi"), object.NoneValue, object.True},
		Names:       []string{"print"},
		VarNames:    []string{"a", "b"},
		FreeVars:    []string{},
		CellVars:    []string{},
		Filename:    "m.kyc",
		Name:        "<module>",
		FirstLineNo: 1,
		LnoTab:      []byte{2, 1},
	}
}

func roundTrip(t *testing.T, f *File) *File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(f, 7, &buf))
	got, err := Decode(&buf)
	require.NoError(t, err)
	return got
}

func TestDecoderRoundTripScalarConstants(t *testing.T) {
	f := &File{PyHash: 123456789, Comment: "generated for a test", Code: sampleCode()}
	got := roundTrip(t, f)

	require.Equal(t, f.PyHash, got.PyHash)
	require.Equal(t, f.Comment, got.Comment)
	require.Equal(t, byte(7), got.SourceLanguageVersion)

	diff := cmp.Diff(f.Code, got.Code, cmpopts.EquateEmpty())
	require.Empty(t, diff, "code object changed across round-trip")
}

func TestDecoderRoundTripContainersAndDict(t *testing.T) {
	c := sampleCode()
	d := object.NewDict()
	require.Nil(t, d.Set(object.Str("k1"), object.Int(1)))
	require.Nil(t, d.Set(object.Str("k2"), object.Float(2.5)))
	c.Constants = object.Tuple{
		object.Tuple{object.Int(1), object.Int(2)},
		object.NewList([]object.Value{object.Str("x"), object.Bool(false)}),
		d,
		object.Bytes("raw"),
	}

	f := &File{PyHash: -5, Comment: "", Code: c}
	got := roundTrip(t, f)

	gotConsts := got.Code.Constants
	require.Len(t, gotConsts, 4)

	tup, ok := gotConsts[0].(object.Tuple)
	require.True(t, ok)
	require.Equal(t, object.Tuple{object.Int(1), object.Int(2)}, tup)

	lst, ok := gotConsts[1].(*object.List)
	require.True(t, ok)
	require.Equal(t, []object.Value{object.Str("x"), object.Bool(false)}, lst.Items)

	gotDict, ok := gotConsts[2].(*object.Dict)
	require.True(t, ok)
	v, present, exc := gotDict.Get(object.Str("k1"))
	require.Nil(t, exc)
	require.True(t, present)
	require.Equal(t, object.Int(1), v)

	b, ok := gotConsts[3].(object.Bytes)
	require.True(t, ok)
	require.Equal(t, object.Bytes("raw"), b)
}

func TestDecoderRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("XYC")
	buf.WriteByte(FormatVersion)
	buf.WriteByte(1)

	_, err := Decode(&buf)
	require.Error(t, err)
	var loaderErr *LoaderError
	require.ErrorAs(t, err, &loaderErr)
}

func TestDecoderRejectsBadVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte('Z')
	buf.WriteByte(1)

	_, err := Decode(&buf)
	require.Error(t, err)
	var loaderErr *LoaderError
	require.ErrorAs(t, err, &loaderErr)
}

func TestDisassembleProducesOneLinePerInstruction(t *testing.T) {
	out := Disassemble(sampleCode())
	require.Equal(t, len(sampleCode().Code), strings.Count(out, "\n"))
	require.Contains(t, out, "LOAD_FAST")
	require.Contains(t, out, "RETURN_VALUE")
	require.Contains(t, out, "(a)")
}
