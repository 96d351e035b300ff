package errors

import (
	"strings"
	"testing"
)

func TestValidatePatternName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Granny Square", false},
		{"valid with punctuation", "Baby blanket (v2)", false},
		{"valid unicode", "Écharpe d'hiver", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatternName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePatternName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOwner(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"email", "knitter@example.com", false},
		{"plain id", "user_42", false},
		{"empty", "", true},
		{"spaces", "two words", true},
		{"path", "../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwner(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOwner(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"maker@example.com", false},
		{"a.b+yarn@studio.co.uk", false},
		{"maker", true},
		{"", true},
		{"maker@", true},
		{"maker@example.com/../x", true},
	}

	for _, tt := range tests {
		if err := ValidateEmail(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePatternID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "7d444840-9dc0-11d1-b245-5ffdce74fad2", false},
		{"ulid", "01ARZ3NDEKTSV4RRFFQ69G5FAV", false},
		{"object id", "65f1c0ffee0123456789abcd", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"query", "id?x=1", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatternID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePatternID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidatePatternID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
