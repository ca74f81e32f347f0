package tripcache

import (
	"encoding/json"
	"fmt"
)

// ToolStep is one tool invocation made while answering a query
type ToolStep struct {
	ToolName   string `json:"tool_name"`
	ToolInput  string `json:"tool_input"`
	ToolOutput string `json:"tool_output"`
	Status     string `json:"status,omitempty"`
}

// Interaction is the structured result of answering one message. Steps may
// hold ToolStep values or the legacy shapes []any{name, input, output} and
// map[string]any.
type Interaction struct {
	Response string
	Steps    []any
}

// normalizeStep converts any accepted step shape to a ToolStep
func normalizeStep(step any) (ToolStep, bool) {
	switch s := step.(type) {
	case ToolStep:
		return s, s.ToolName != ""
	case *ToolStep:
		if s == nil {
			return ToolStep{}, false
		}
		return *s, s.ToolName != ""
	case map[string]any:
		name := stringField(s, "tool_name", "tool")
		if name == "" {
			return ToolStep{}, false
		}
		return ToolStep{
			ToolName:   name,
			ToolInput:  stringify(firstField(s, "tool_input", "input")),
			ToolOutput: stringify(firstField(s, "tool_output", "output")),
			Status:     stringField(s, "status"),
		}, true
	case []any:
		if len(s) < 3 {
			return ToolStep{}, false
		}
		name, ok := s[0].(string)
		if !ok || name == "" {
			return ToolStep{}, false
		}
		return ToolStep{ToolName: name, ToolInput: stringify(s[1]), ToolOutput: stringify(s[2])}, true
	case []string:
		if len(s) < 3 || s[0] == "" {
			return ToolStep{}, false
		}
		return ToolStep{ToolName: s[0], ToolInput: s[1], ToolOutput: s[2]}, true
	}
	return ToolStep{}, false
}

func firstField(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func stringField(m map[string]any, keys ...string) string {
	s, _ := firstField(m, keys...).(string)
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
