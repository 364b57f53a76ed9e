package hiring

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength        = 50
	MaxEstimatedPayLength = 50
	MaxRequirementLength  = 50
	MaxDescriptionLength  = 500
)

// Submission is the body of POST /api/post. Nil means the field was absent
// or null.
type Submission struct {
	Session         *string `json:"session"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	RequirementsB64 *string `json:"requirementsb64"`
	EstimatedPay    *string `json:"estimatedPay"`
}

// Post is a submission that passed validation.
type Post struct {
	Session      string
	Title        string
	Description  string
	Requirements []string
	EstimatedPay string
}

// Validate checks presence and length. The first violation wins, in the
// order session, requirementsb64, title, estimatedPay, each requirement,
// description.
func Validate(s Submission) (Post, error) {
	if s.Session == nil {
		return Post{}, required("session")
	}
	if s.RequirementsB64 == nil {
		return Post{}, required("requirementsb64")
	}

	requirements, err := DecodeRequirements(*s.RequirementsB64)
	if errors.Is(err, ErrInvalidUTF8) {
		return Post{}, &FieldError{Field: "requirementsb64", Message: "Must decode to valid UTF-8"}
	}
	if err != nil {
		return Post{}, &FieldError{Field: "requirementsb64", Message: "Must be valid base64"}
	}

	if err := checkLength(s.Title, MaxTitleLength, "title"); err != nil {
		return Post{}, err
	}
	if err := checkLength(s.EstimatedPay, MaxEstimatedPayLength, "estimatedPay"); err != nil {
		return Post{}, err
	}
	for i := range requirements {
		field := fmt.Sprintf("requirementsb64[%d]", i)
		if err := checkLength(&requirements[i], MaxRequirementLength, field); err != nil {
			return Post{}, err
		}
	}
	if err := checkLength(s.Description, MaxDescriptionLength, "description"); err != nil {
		return Post{}, err
	}

	return Post{
		Session:      *s.Session,
		Title:        *s.Title,
		Description:  *s.Description,
		Requirements: requirements,
		EstimatedPay: *s.EstimatedPay,
	}, nil
}

// checkLength counts code points, not bytes.
func checkLength(v *string, max int, field string) error {
	if v == nil {
		return required(field)
	}
	if utf8.RuneCountInString(*v) > max {
		return &FieldError{
			Field:   field,
			Message: fmt.Sprintf("Must be shorter than %d characters", max),
		}
	}
	return nil
}

var (
	ErrInvalidBase64 = errors.New("requirements are not valid base64")
	ErrInvalidUTF8   = errors.New("requirements are not valid utf-8")
)

// DecodeRequirements reverses EncodeRequirements. It is as lenient as a
// browser's atob: ASCII whitespace is ignored and padding is optional.
func DecodeRequirements(b64 string) ([]string, error) {
	raw, err := decodeBase64(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	if !utf8.Valid(raw) {
		return nil, ErrInvalidUTF8
	}
	return strings.Split(string(raw), "\n"), nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)

	// Padding is only stripped from a complete final quantum.
	if len(s)%4 == 0 {
		s = strings.TrimSuffix(s, "=")
		s = strings.TrimSuffix(s, "=")
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// EncodeRequirements joins lines with "\n" and base64 encodes them. Lines
// must not contain newlines.
func EncodeRequirements(lines []string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(lines, "\n")))
}
