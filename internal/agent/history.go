package agent

// Normalize converts loosely shaped history entries into messages.
// Callers hand over transcripts from different frontends, so entries
// may be Message values, role-tagged maps or bare strings. Entries
// that fit no known shape are dropped.
func Normalize(entries []any) []Message {
	out := make([]Message, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case Message:
			out = append(out, v)
		case *Message:
			if v != nil {
				out = append(out, *v)
			}
		case string:
			out = append(out, User(v))
		case map[string]any:
			if msg, ok := normalizeMap(v); ok {
				out = append(out, msg)
			}
		case map[string]string:
			loose := make(map[string]any, len(v))
			for k, val := range v {
				loose[k] = val
			}
			if msg, ok := normalizeMap(loose); ok {
				out = append(out, msg)
			}
		}
	}
	return out
}

func normalizeMap(entry map[string]any) (Message, bool) {
	role := stringField(entry, "role")
	if role == "" {
		role = stringField(entry, "type")
	}
	text := stringField(entry, "content")
	if text == "" {
		text = stringField(entry, "text")
	}

	switch role {
	case "human", "user":
		return User(text), true
	case "ai", "assistant":
		return Assistant(text), true
	case "system":
		return System(text), true
	case "tool":
		name := stringField(entry, "name")
		return CapabilityResult(name, text, stringField(entry, "tool_call_id")), true
	default:
		return Message{}, false
	}
}

func stringField(entry map[string]any, key string) string {
	if v, ok := entry[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
