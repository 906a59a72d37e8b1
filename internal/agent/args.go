package agent

import "fmt"

type argumentsKind int

const (
	argumentsMissing argumentsKind = iota
	argumentsScalar
	argumentsMapping
)

// Arguments is the payload of a capability invocation as the model
// supplied it. Providers return anything from a proper field mapping
// to a bare scalar to nothing at all, so the shape is preserved and
// only resolved against the capability's declared parameters at
// execution time.
type Arguments struct {
	kind    argumentsKind
	scalar  string
	mapping map[string]string
	raw     any
}

// NoArguments reports an invocation that carried no payload.
func NoArguments() Arguments {
	return Arguments{kind: argumentsMissing}
}

// ScalarArguments wraps a bare value sent without a field name.
func ScalarArguments(value string) Arguments {
	return Arguments{kind: argumentsScalar, scalar: value, raw: value}
}

// MappingArguments wraps a proper field-to-value mapping.
func MappingArguments(fields map[string]string) Arguments {
	raw := make(map[string]any, len(fields))
	for k, v := range fields {
		raw[k] = v
	}
	return Arguments{kind: argumentsMapping, mapping: fields, raw: raw}
}

// ArgumentsFrom converts a provider payload of unknown shape. Maps
// become mappings with values stringified, nil becomes missing and
// anything else becomes a scalar.
func ArgumentsFrom(payload any) Arguments {
	switch v := payload.(type) {
	case nil:
		return NoArguments()
	case map[string]any:
		if len(v) == 0 {
			return Arguments{kind: argumentsMapping, mapping: map[string]string{}, raw: v}
		}
		fields := make(map[string]string, len(v))
		for k, val := range v {
			fields[k] = stringify(val)
		}
		return Arguments{kind: argumentsMapping, mapping: fields, raw: v}
	case map[string]string:
		return MappingArguments(v)
	case string:
		return ScalarArguments(v)
	default:
		return Arguments{kind: argumentsScalar, scalar: stringify(v), raw: v}
	}
}

// Coerce resolves the payload against the declared parameters of a
// capability. Mappings keep only the declared fields. A scalar binds
// to the parameter when exactly one is declared and is dropped
// otherwise, since there is no field to attach it to.
func (a Arguments) Coerce(params []Parameter) map[string]string {
	out := make(map[string]string, len(params))
	switch a.kind {
	case argumentsMapping:
		for _, p := range params {
			if v, ok := a.mapping[p.Name]; ok {
				out[p.Name] = v
			}
		}
	case argumentsScalar:
		if len(params) == 1 {
			out[params[0].Name] = a.scalar
		}
	}
	return out
}

// Any returns the payload in its original provider shape, for echoing
// an invocation back to the model.
func (a Arguments) Any() any {
	if a.kind == argumentsMissing {
		return nil
	}
	return a.raw
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
