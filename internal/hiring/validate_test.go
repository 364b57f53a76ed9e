package hiring

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func validSubmission() Submission {
	return Submission{
		Session:         str("abc"),
		Title:           str("Backend Engineer"),
		Description:     str("Help us build"),
		RequirementsB64: str(base64.StdEncoding.EncodeToString([]byte("Must know SQL\nMust know networking"))),
		EstimatedPay:    str("$50/hr"),
	}
}

func requireFieldError(t *testing.T, err error, field, message string) {
	t.Helper()
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, field, fe.Field)
	require.Equal(t, message, fe.Message)
}

func TestValidate(t *testing.T) {
	p, err := Validate(validSubmission())
	require.NoError(t, err)
	require.Equal(t, "abc", p.Session)
	require.Equal(t, "Backend Engineer", p.Title)
	require.Equal(t, []string{"Must know SQL", "Must know networking"}, p.Requirements)
	require.Equal(t, "$50/hr", p.EstimatedPay)
	require.Equal(t, "Help us build", p.Description)
}

func TestValidateBoundaries(t *testing.T) {
	s := validSubmission()
	s.Title = str(strings.Repeat("t", MaxTitleLength))
	s.EstimatedPay = str(strings.Repeat("p", MaxEstimatedPayLength))
	s.Description = str(strings.Repeat("d", MaxDescriptionLength))
	s.RequirementsB64 = str(EncodeRequirements([]string{strings.Repeat("r", MaxRequirementLength)}))

	_, err := Validate(s)
	require.NoError(t, err)
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	s := validSubmission()
	s.Title = str(strings.Repeat("é", MaxTitleLength))

	_, err := Validate(s)
	require.NoError(t, err)
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*Submission)
		field string
	}{
		{"session", func(s *Submission) { s.Session = nil }, "session"},
		{"requirements", func(s *Submission) { s.RequirementsB64 = nil }, "requirementsb64"},
		{"title", func(s *Submission) { s.Title = nil }, "title"},
		{"estimated pay", func(s *Submission) { s.EstimatedPay = nil }, "estimatedPay"},
		{"description", func(s *Submission) { s.Description = nil }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.clear(&s)
			_, err := Validate(s)
			requireFieldError(t, err, tt.field, "This field is required")
		})
	}
}

func TestValidateTooLong(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		field  string
		max    int
	}{
		{"title", func(s *Submission) { s.Title = str(strings.Repeat("t", 51)) }, "title", 50},
		{"estimated pay", func(s *Submission) { s.EstimatedPay = str(strings.Repeat("p", 51)) }, "estimatedPay", 50},
		{"description", func(s *Submission) { s.Description = str(strings.Repeat("d", 501)) }, "description", 500},
		{"second requirement", func(s *Submission) {
			s.RequirementsB64 = str(EncodeRequirements([]string{"ok", strings.Repeat("r", 51)}))
		}, "requirementsb64[1]", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			_, err := Validate(s)
			requireFieldError(t, err, tt.field, fmt.Sprintf("Must be shorter than %d characters", tt.max))
		})
	}
}

func TestValidateFirstViolationWins(t *testing.T) {
	s := validSubmission()
	s.Title = str(strings.Repeat("t", 51))
	s.EstimatedPay = str(strings.Repeat("p", 51))
	s.Description = str(strings.Repeat("d", 501))
	s.RequirementsB64 = str(EncodeRequirements([]string{strings.Repeat("r", 51)}))

	_, err := Validate(s)
	requireFieldError(t, err, "title", "Must be shorter than 50 characters")

	s.Title = str("ok")
	_, err = Validate(s)
	requireFieldError(t, err, "estimatedPay", "Must be shorter than 50 characters")

	s.EstimatedPay = str("ok")
	_, err = Validate(s)
	requireFieldError(t, err, "requirementsb64[0]", "Must be shorter than 50 characters")

	s.RequirementsB64 = str(EncodeRequirements([]string{"ok"}))
	_, err = Validate(s)
	requireFieldError(t, err, "description", "Must be shorter than 500 characters")
}

func TestValidateBadBase64(t *testing.T) {
	s := validSubmission()
	s.RequirementsB64 = str("%%%not base64")

	_, err := Validate(s)
	requireFieldError(t, err, "requirementsb64", "Must be valid base64")
}

func TestDecodeRequirementsLenient(t *testing.T) {
	cases := map[string]string{
		"padded":     "TXVzdCBrbm93IFNRTA==",
		"unpadded":   "TXVzdCBrbm93IFNRTA",
		"whitespace": "TXVz dCBr\tbm93\nIFNRTA==",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeRequirements(in)
			require.NoError(t, err)
			require.Equal(t, []string{"Must know SQL"}, got)
		})
	}
}

func TestDecodeRequirementsRejects(t *testing.T) {
	for _, in := range []string{"Q", "QQ=", "QQ=A", "%%%%"} {
		_, err := DecodeRequirements(in)
		require.ErrorIs(t, err, ErrInvalidBase64, in)
	}

	_, err := DecodeRequirements("/w==")
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestValidateRequirementsNotUTF8(t *testing.T) {
	s := validSubmission()
	s.RequirementsB64 = str("/w==")

	_, err := Validate(s)
	requireFieldError(t, err, "requirementsb64", "Must decode to valid UTF-8")
}

func TestRequirementsRoundTrip(t *testing.T) {
	cases := [][]string{
		{"Must know SQL", "Must know networking"},
		{""},
		{"", ""},
		{"unicode ✓", "tabs\tare fine"},
	}
	for _, lines := range cases {
		got, err := DecodeRequirements(EncodeRequirements(lines))
		require.NoError(t, err)
		require.Equal(t, lines, got)
	}
}
