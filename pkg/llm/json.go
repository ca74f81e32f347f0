package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSON = errors.New("no JSON value found in model output")

// ExtractJSON decodes the JSON value embedded in model output. It takes the
// span from the first '{' to the last '}' (or '[' to ']' when an array opens
// first), so surrounding prose and markdown fences are tolerated.
func ExtractJSON(text string, v any) error {
	start, end := jsonSpan(text)
	if start < 0 {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}

func jsonSpan(text string) (int, int) {
	obj := strings.IndexByte(text, '{')
	arr := strings.IndexByte(text, '[')

	open, close := obj, byte('}')
	if arr >= 0 && (obj < 0 || arr < obj) {
		open, close = arr, ']'
	}
	if open < 0 {
		return -1, -1
	}
	end := strings.LastIndexByte(text, close)
	if end < open {
		return -1, -1
	}
	return open, end
}
