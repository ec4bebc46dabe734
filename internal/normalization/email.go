package normalization

import (
  "errors"
  "strings"
  "unicode"
)

const (
  studentDomain = "@student.gla.ac.uk"
  staffDomain   = "@glasgow.ac.uk"
)

// ErrInvalidDomain is returned for any address outside the two
// University of Glasgow domains.
var ErrInvalidDomain = errors.New("only University of Glasgow emails are allowed")

// NormalizeUniversityEmail canonicalizes a raw Glasgow email so the same
// human-entered address always maps to the same stored identity.
//
// Student addresses get the last character of the local part uppercased
// when it is alphabetic (matric-style addresses end in an initial, e.g.
// student.person -> student.persoN); staff addresses keep their local
// part untouched. The domain is rewritten to its lowercase literal in
// both cases. The transform is idempotent.
func NormalizeUniversityEmail(raw string) (string, error) {
  email := ParseInputString(raw)
  lower := strings.ToLower(email)

  switch {
  case strings.HasSuffix(lower, studentDomain):
    local := email[:len(email)-len(studentDomain)]
    runes := []rune(local)
    if len(runes) > 0 && unicode.IsLetter(runes[len(runes)-1]) {
      runes[len(runes)-1] = unicode.ToUpper(runes[len(runes)-1])
    }
    return string(runes) + studentDomain, nil
  case strings.HasSuffix(lower, staffDomain):
    local := email[:len(email)-len(staffDomain)]
    return local + staffDomain, nil
  default:
    return "", ErrInvalidDomain
  }
}
