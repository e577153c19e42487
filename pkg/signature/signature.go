// Package signature implements the call-argument binding algorithm: given a
// callable's declared object.Signature and the positional/keyword arguments
// a CALL_FUNCTION/CALL_FUNCTION_KW instruction collected, produce the
// name->value map a frame's local slots are seeded from.
package signature

import (
	"github.com/brindor/kyc/pkg/object"
)

// Bind runs the six-step binding algorithm and returns the resulting
// name->value map, ready to be written into a frame's local slots in
// varname order. It never mutates args or kwargs.
func Bind(sig object.Signature, args []object.Value, kwargs map[string]object.Value) (map[string]object.Value, *object.ExceptionInstance) {
	bound := make(map[string]object.Value, len(sig.Params))

	// Step 1: seed with declared defaults.
	for name, v := range sig.Defaults {
		bound[name] = v
	}

	boundPositionally := make(map[string]bool, len(sig.Params))
	pos := 0
	hasStar := false

	for _, p := range sig.Params {
		switch p.Kind {
		case object.Positional:
			if pos < len(args) {
				bound[p.Name] = args[pos]
				boundPositionally[p.Name] = true
				pos++
				continue
			}
			if _, ok := bound[p.Name]; !ok {
				return nil, object.NewTypeError("missing required positional argument: '" + p.Name + "'")
			}

		case object.PositionalStar:
			hasStar = true
			rest := make(object.Tuple, len(args)-pos)
			copy(rest, args[pos:])
			bound[p.Name] = rest
			pos = len(args)

		case object.Keyword:
			if v, ok := kwargs[p.Name]; ok {
				if boundPositionally[p.Name] {
					return nil, object.NewTypeError("got multiple values for argument '" + p.Name + "'")
				}
				bound[p.Name] = v
				continue
			}
			if _, ok := bound[p.Name]; !ok {
				return nil, object.NewTypeError("missing required keyword-only argument: '" + p.Name + "'")
			}

		case object.KeywordStar:
			extra := object.NewDict()
			for k, v := range kwargs {
				if !declaresKeyword(sig, k) {
					if exc := extra.Set(object.Str(k), v); exc != nil {
						return nil, exc
					}
				}
			}
			bound[p.Name] = extra
		}
	}

	if pos < len(args) && !hasStar {
		return nil, object.NewTypeError("too many arguments")
	}

	if err := rejectUnrecognisedKeywords(sig, kwargs); err != nil {
		return nil, err
	}

	for name := range kwargs {
		if boundPositionally[name] && declaresKeyword(sig, name) {
			return nil, object.NewTypeError("got multiple values for argument '" + name + "'")
		}
	}

	return bound, nil
}

func declaresKeyword(sig object.Signature, name string) bool {
	for _, p := range sig.Params {
		if p.Name == name && (p.Kind == object.Positional || p.Kind == object.Keyword) {
			return true
		}
	}
	return false
}

func hasKeywordStar(sig object.Signature) bool {
	for _, p := range sig.Params {
		if p.Kind == object.KeywordStar {
			return true
		}
	}
	return false
}

// rejectUnrecognisedKeywords raises TYPE_ERROR for a keyword argument that
// names no declared parameter, unless the signature declares a
// KEYWORD_STAR catch-all.
func rejectUnrecognisedKeywords(sig object.Signature, kwargs map[string]object.Value) *object.ExceptionInstance {
	if hasKeywordStar(sig) {
		return nil
	}
	for name := range kwargs {
		if !declaresKeyword(sig, name) {
			return object.NewTypeError("unexpected keyword argument '" + name + "'")
		}
	}
	return nil
}
