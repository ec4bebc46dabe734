package normalization

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestNormalizeUniversityEmail(t *testing.T) {
  tests := []struct {
    name  string
    input string
    want  string
  }{
    {
      name:  "student address uppercases last letter of local part",
      input: "student.person@student.gla.ac.uk",
      want:  "student.persoN@student.gla.ac.uk",
    },
    {
      name:  "student address ending in digit is unchanged",
      input: "student.person5@student.gla.ac.uk",
      want:  "student.person5@student.gla.ac.uk",
    },
    {
      name:  "staff address local part passes through unchanged",
      input: "Jane.Doe@glasgow.ac.uk",
      want:  "Jane.Doe@glasgow.ac.uk",
    },
    {
      name:  "mixed-case domain is rewritten to the lowercase literal",
      input: "a.student@Student.GLA.ac.UK",
      want:  "a.studenT@student.gla.ac.uk",
    },
    {
      name:  "surrounding whitespace is trimmed",
      input: "  a.student@student.gla.ac.uk  ",
      want:  "a.studenT@student.gla.ac.uk",
    },
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got, err := NormalizeUniversityEmail(tt.input)
      require.NoError(t, err)
      assert.Equal(t, tt.want, got)
    })
  }
}

func TestNormalizeUniversityEmailIdempotent(t *testing.T) {
  inputs := []string{
    "student.person@student.gla.ac.uk",
    "student.person5@student.gla.ac.uk",
    "Jane.Doe@glasgow.ac.uk",
  }
  for _, in := range inputs {
    once, err := NormalizeUniversityEmail(in)
    require.NoError(t, err)
    twice, err := NormalizeUniversityEmail(once)
    require.NoError(t, err)
    assert.Equal(t, once, twice)
  }
}

func TestNormalizeUniversityEmailInvalidDomain(t *testing.T) {
  inputs := []string{
    "someone@gmail.com",
    "someone@gla.ac.uk",
    "someone@students.gla.ac.uk",
    "no-at-sign-at-all",
    "",
  }
  for _, in := range inputs {
    _, err := NormalizeUniversityEmail(in)
    assert.ErrorIs(t, err, ErrInvalidDomain, "input %q", in)
  }
}
