package validation

import "strings"

// Text trims surrounding whitespace from user-supplied text. The content itself is stored
// as typed; markup is only neutralized when it is rendered.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// OptionalText returns nil for input that is empty after trimming.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	if out == "" {
		return nil
	}
	return &out
}
