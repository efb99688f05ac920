package ffi

import (
	"fmt"
	"strings"

	"github.com/heylang/hey/values"
)

// Supported type tags, per the spec's marshalling vocabulary.
const (
	TagInt    = "int"   // 32-bit signed integer
	TagInt64  = "i64"   // 64-bit signed integer
	TagString = "char*"  // nul-terminated string pointer
	TagBool   = "bool"  // return-only
	TagVoid   = "void"  // return-only, or an empty argument list
)

// splitRawFields splits an Extern "args" attribute value on commas,
// trimming whitespace, without validating the resulting tags. Used only to
// count a method's parameters at load time; #4.5 step 8's actual type
// validation happens later, on dispatch, via parseArgTags.
func splitRawFields(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}

// parseArgTags splits an Extern "args" attribute value ("int,int") into its
// individual type tags, validating each one. An empty string yields no
// arguments.
func parseArgTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		switch tag {
		case TagInt, TagInt64, TagString:
			tags = append(tags, tag)
		case TagBool, TagVoid:
			return nil, fmt.Errorf("%q is not a valid argument type", tag)
		default:
			return nil, fmt.Errorf("unrecognized argument type %q", tag)
		}
	}
	return tags, nil
}

// parseRetTag validates an Extern "ret" attribute value.
func parseRetTag(raw string) (string, error) {
	tag := strings.TrimSpace(raw)
	switch tag {
	case TagInt, TagInt64, TagString, TagBool, TagVoid:
		return tag, nil
	case "":
		return TagVoid, nil
	default:
		return "", fmt.Errorf("unrecognized return type %q", tag)
	}
}

// marshalArg converts one hey value into the Go representation the native
// layer expects for the given tag, coercing loosely the way PHP's own
// scalar type juggling does.
func marshalArg(tag string, v *values.Value) (interface{}, error) {
	if v == nil {
		v = values.NewNull()
	}
	switch tag {
	case TagInt:
		return int32(v.ToInt()), nil
	case TagInt64:
		return v.ToInt(), nil
	case TagString:
		return v.ToString(), nil
	default:
		return nil, fmt.Errorf("%q cannot be used as an argument type", tag)
	}
}

// unmarshalResult converts a native return value back into a hey value.
func unmarshalResult(tag string, raw interface{}) (*values.Value, error) {
	switch tag {
	case TagVoid:
		return values.NewNull(), nil
	case TagInt:
		switch n := raw.(type) {
		case int32:
			return values.NewInt(int64(n)), nil
		case int64:
			return values.NewInt(n), nil
		default:
			return nil, fmt.Errorf("native call returned %T, expected int", raw)
		}
	case TagInt64:
		n, ok := raw.(int64)
		if !ok {
			return nil, fmt.Errorf("native call returned %T, expected i64", raw)
		}
		return values.NewInt(n), nil
	case TagString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("native call returned %T, expected char*", raw)
		}
		return values.NewString(s), nil
	case TagBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("native call returned %T, expected bool", raw)
		}
		return values.NewBool(b), nil
	default:
		return nil, fmt.Errorf("unrecognized return type %q", tag)
	}
}
