package agent

import (
	"reflect"
	"testing"
)

func TestCoerce(t *testing.T) {
	one := []Parameter{{Name: "query"}}
	two := []Parameter{{Name: "a"}, {Name: "b"}}

	cases := []struct {
		name   string
		args   Arguments
		params []Parameter
		want   map[string]string
	}{
		{
			name:   "mapping keeps declared fields only",
			args:   MappingArguments(map[string]string{"query": "golang", "extra": "dropped"}),
			params: one,
			want:   map[string]string{"query": "golang"},
		},
		{
			name:   "scalar binds to single parameter",
			args:   ScalarArguments("golang jobs"),
			params: one,
			want:   map[string]string{"query": "golang jobs"},
		},
		{
			name:   "scalar dropped with several parameters",
			args:   ScalarArguments("ambiguous"),
			params: two,
			want:   map[string]string{},
		},
		{
			name:   "scalar dropped with no parameters",
			args:   ScalarArguments("ignored"),
			params: nil,
			want:   map[string]string{},
		},
		{
			name:   "missing yields empty",
			args:   NoArguments(),
			params: one,
			want:   map[string]string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.args.Coerce(tc.params); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Coerce = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestArgumentsFrom(t *testing.T) {
	got := ArgumentsFrom(map[string]any{"n": 42, "s": "text"})
	params := []Parameter{{Name: "n"}, {Name: "s"}}
	want := map[string]string{"n": "42", "s": "text"}
	if coerced := got.Coerce(params); !reflect.DeepEqual(coerced, want) {
		t.Errorf("coerced = %v, want %v", coerced, want)
	}

	if ArgumentsFrom(nil).Any() != nil {
		t.Error("nil payload should round-trip to nil")
	}

	scalar := ArgumentsFrom("bare")
	if coerced := scalar.Coerce([]Parameter{{Name: "only"}}); coerced["only"] != "bare" {
		t.Errorf("scalar coerced = %v", coerced)
	}
}

func TestAnyPreservesProviderShape(t *testing.T) {
	payload := map[string]any{"query": "golang"}
	args := ArgumentsFrom(payload)
	if !reflect.DeepEqual(args.Any(), payload) {
		t.Errorf("Any = %v, want %v", args.Any(), payload)
	}
}
