package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoJSONArray = errors.New("no JSON array found in model response")
	ErrEmptyBatch  = errors.New("model returned an empty note batch")
)

// GeneratedNote is one element of the model's extraction output.
type GeneratedNote struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Supporting string `json:"supporting"`
}

// ParseNotes locates the first balanced JSON array in the model's response
// (the model often wraps it in prose or a markdown fence), parses it, and
// validates every element. A single malformed element rejects the whole
// batch: title and content must be non-empty strings, supporting is an
// optional string.
func ParseNotes(response string) ([]GeneratedNote, error) {
	raw, err := extractJSONArray(response)
	if err != nil {
		return nil, err
	}

	var notes []GeneratedNote
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("malformed note array: %w", err)
	}

	if len(notes) == 0 {
		return nil, ErrEmptyBatch
	}

	for i, n := range notes {
		if strings.TrimSpace(n.Title) == "" {
			return nil, fmt.Errorf("note %d: missing title", i)
		}
		if strings.TrimSpace(n.Content) == "" {
			return nil, fmt.Errorf("note %d: missing content", i)
		}
	}

	return notes, nil
}

// extractJSONArray scans for the first '[' and returns the substring up to
// its matching ']'. The scan is string-aware so brackets inside note text do
// not unbalance it.
func extractJSONArray(s string) (string, error) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", ErrNoJSONArray
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSONArray
}
