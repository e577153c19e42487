package signature

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindor/kyc/pkg/object"
)

func TestBindPositionalOnly(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "a", Kind: object.Positional}, {Name: "b", Kind: object.Positional}},
		Defaults: map[string]object.Value{},
	}
	bound, exc := Bind(sig, []object.Value{object.Int(1), object.Int(2)}, nil)
	require.Nil(t, exc)
	require.Equal(t, object.Int(1), bound["a"])
	require.Equal(t, object.Int(2), bound["b"])
}

func TestBindMissingPositionalRaisesTypeError(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "a", Kind: object.Positional}},
		Defaults: map[string]object.Value{},
	}
	_, exc := Bind(sig, nil, nil)
	require.NotNil(t, exc)
	require.Equal(t, object.TypeErrorType, exc.PyType())
	require.Contains(t, exc.Message, "'a'")
}

func TestBindDefaultFillsGap(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "a", Kind: object.Positional}, {Name: "b", Kind: object.Positional}},
		Defaults: map[string]object.Value{"b": object.Int(10)},
	}
	bound, exc := Bind(sig, []object.Value{object.Int(5)}, nil)
	require.Nil(t, exc)
	require.Equal(t, object.Int(5), bound["a"])
	require.Equal(t, object.Int(10), bound["b"])
}

func TestBindTooManyPositionalWithoutStarRaises(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "a", Kind: object.Positional}},
		Defaults: map[string]object.Value{},
	}
	_, exc := Bind(sig, []object.Value{object.Int(1), object.Int(2)}, nil)
	require.NotNil(t, exc)
	require.Contains(t, exc.Message, "too many arguments")
}

func TestBindPositionalStarCollectsRemainder(t *testing.T) {
	sig := object.Signature{
		Params: []object.Param{
			{Name: "first", Kind: object.Positional},
			{Name: "rest", Kind: object.PositionalStar},
		},
		Defaults: map[string]object.Value{},
	}
	bound, exc := Bind(sig, []object.Value{object.Int(1), object.Int(2), object.Int(3)}, nil)
	require.Nil(t, exc)
	require.Equal(t, object.Int(1), bound["first"])
	require.Equal(t, object.Tuple{object.Int(2), object.Int(3)}, bound["rest"])
}

func TestBindPositionalStarAllowsZeroRemainder(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "rest", Kind: object.PositionalStar}},
		Defaults: map[string]object.Value{},
	}
	bound, exc := Bind(sig, nil, nil)
	require.Nil(t, exc)
	require.Equal(t, object.Tuple{}, bound["rest"])
}

func TestBindKeywordOnlyFromKwargs(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "flag", Kind: object.Keyword}},
		Defaults: map[string]object.Value{},
	}
	bound, exc := Bind(sig, nil, map[string]object.Value{"flag": object.True})
	require.Nil(t, exc)
	require.Equal(t, object.True, bound["flag"])
}

func TestBindMissingKeywordOnlyRaises(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "flag", Kind: object.Keyword}},
		Defaults: map[string]object.Value{},
	}
	_, exc := Bind(sig, nil, nil)
	require.NotNil(t, exc)
	require.Contains(t, exc.Message, "keyword-only")
	require.Contains(t, exc.Message, "'flag'")
}

func TestBindKeywordStarCollectsUnrecognised(t *testing.T) {
	sig := object.Signature{
		Params: []object.Param{
			{Name: "a", Kind: object.Positional},
			{Name: "extra", Kind: object.KeywordStar},
		},
		Defaults: map[string]object.Value{},
	}
	bound, exc := Bind(sig, []object.Value{object.Int(1)}, map[string]object.Value{"z": object.Str("zz"), "y": object.Int(9)})
	require.Nil(t, exc)
	extra, ok := bound["extra"].(*object.Dict)
	require.True(t, ok)
	require.Equal(t, 2, extra.Len())
	v, ok, getExc := extra.Get(object.Str("z"))
	require.Nil(t, getExc)
	require.True(t, ok)
	require.Equal(t, object.Str("zz"), v)
}

func TestBindUnrecognisedKeywordWithoutStarRaises(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "a", Kind: object.Positional}},
		Defaults: map[string]object.Value{},
	}
	_, exc := Bind(sig, []object.Value{object.Int(1)}, map[string]object.Value{"bogus": object.Int(1)})
	require.NotNil(t, exc)
	require.Contains(t, exc.Message, "unexpected keyword argument 'bogus'")
}

func TestBindKeywordForAlreadyPositionallyBoundParamRaises(t *testing.T) {
	sig := object.Signature{
		Params:   []object.Param{{Name: "a", Kind: object.Positional}},
		Defaults: map[string]object.Value{},
	}
	_, exc := Bind(sig, []object.Value{object.Int(1)}, map[string]object.Value{"a": object.Int(2)})
	require.NotNil(t, exc)
	require.Contains(t, exc.Message, "got multiple values for argument 'a'")
}
