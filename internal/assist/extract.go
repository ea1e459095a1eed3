package assist

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no decodable JSON value can be recovered from a response.
var ErrNoJSON = errors.New("no JSON found in response")

var fencePrefix = regexp.MustCompile("^```[a-zA-Z]*\\n?")

// StripFence removes a surrounding markdown code fence, if any.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = fencePrefix.ReplaceAllString(text, "")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ExtractJSON decodes a JSON object from free text into v. The text is first
// stripped of a code fence and decoded directly; if that fails, the span from the
// first '{' to the last '}' is decoded instead.
func ExtractJSON(text string, v any) error {
	return extract(text, '{', '}', v)
}

// ExtractJSONArray is ExtractJSON for a top-level array.
func ExtractJSONArray(text string, v any) error {
	return extract(text, '[', ']', v)
}

func extract(text string, open, closing byte, v any) error {
	text = StripFence(text)
	if text == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closing)
	if start == -1 || end <= start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return errors.Join(ErrNoJSON, err)
	}
	return nil
}
