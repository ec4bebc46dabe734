package normalization

import (
  "strings"
)

// ParseInputString trims surrounding whitespace from raw user input.
func ParseInputString(s string) string {
  return strings.TrimSpace(s)
}

func ParseInputStringPtr(s *string) *string {
  if s == nil {
    return nil
  }
  trimmed := strings.TrimSpace(*s)
  return &trimmed
}
