package agent

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		entries []any
		want    []Message
	}{
		{
			name: "role tagged maps",
			entries: []any{
				map[string]any{"role": "human", "content": "hi"},
				map[string]any{"role": "ai", "content": "hello"},
				map[string]any{"role": "system", "content": "be brief"},
			},
			want: []Message{User("hi"), Assistant("hello"), System("be brief")},
		},
		{
			name: "type key and text key accepted",
			entries: []any{
				map[string]any{"type": "user", "text": "via type"},
			},
			want: []Message{User("via type")},
		},
		{
			name: "tool result carries name and call id",
			entries: []any{
				map[string]any{"role": "tool", "name": "echo", "content": "out", "tool_call_id": "c9"},
			},
			want: []Message{CapabilityResult("echo", "out", "c9")},
		},
		{
			name:    "tool result without call id",
			entries: []any{map[string]any{"role": "tool", "name": "echo", "content": "out"}},
			want:    []Message{CapabilityResult("echo", "out", "")},
		},
		{
			name:    "bare string is a user message",
			entries: []any{"just text"},
			want:    []Message{User("just text")},
		},
		{
			name: "messages pass through",
			entries: []any{
				Assistant("kept"),
				&Message{Role: RoleUser, Text: "pointer kept"},
			},
			want: []Message{Assistant("kept"), User("pointer kept")},
		},
		{
			name: "unknown shapes dropped",
			entries: []any{
				42,
				map[string]any{"role": "robot", "content": "?"},
				map[string]any{"content": "no role"},
				nil,
			},
			want: []Message{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.entries); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Normalize = %+v, want %+v", got, tc.want)
			}
		})
	}
}
