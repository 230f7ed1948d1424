package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	validName    = "Ram Bahadur"
	validCRN     = "7802000050"
	validContact = "9812345678"
	validEmail   = "ram.bahadur@example.com"
)

func TestValidateMember_Valid(t *testing.T) {
	assert.Empty(t, ValidateMember(validName, validCRN, validContact, validEmail))
	assert.Empty(t, ValidateMember("  Sita   Devi Sharma ", " 7701000001 ", "9700000000", "s+tag@mail.example.org"))
}

func TestValidateMember_ReportsEveryField(t *testing.T) {
	errs := ValidateMember("", "", "", "")
	assert.Equal(t, []string{
		"Name is required",
		"CRN is required",
		"Contact number is required",
		"Email is required",
	}, errs)
}

func TestValidateMember_WhitespaceIsRequired(t *testing.T) {
	errs := ValidateMember("   ", "\t", " ", "  ")
	assert.Len(t, errs, 4)
	for _, e := range errs {
		assert.Contains(t, e, "required")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single token", input: "Ram", want: "Please enter your full name (first and last name)"},
		{name: "single token padded", input: "  Ram  ", want: "Please enter your full name (first and last name)"},
		{name: "digits", input: "Ram B4hadur", want: "Name should contain only letters and spaces"},
		{name: "punctuation", input: "Ram O'Neil", want: "Name should contain only letters and spaces"},
		{name: "several bad tokens reported once", input: "R1 B2 C3", want: "Name should contain only letters and spaces"},
		{name: "two tokens", input: "Ram Bahadur", want: ""},
		{name: "three tokens", input: "Ram Bahadur Thapa", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateName(tt.input))
		})
	}
}

func TestValidateCRN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "letters", input: "78O1000001", want: "CRN must contain only digits"},
		{name: "too short", input: "780100001", want: "CRN must be exactly 10 digits"},
		{name: "too long", input: "78010000011", want: "CRN must be exactly 10 digits"},
		{name: "year 76", input: "7601000001", want: "CRN must start with 77, 78, 79, 80, or 81"},
		{name: "year 82", input: "8201000001", want: "CRN must start with 77, 78, 79, 80, or 81"},
		{name: "year 77 section 02", input: "7702000001", want: "CRN for year 77 must have section code 01"},
		{name: "year 77 section 01", input: "7701000001", want: ""},
		{name: "section 05", input: "7905000001", want: "CRN section code must be 01, 02, 03, or 04 for years 78-81"},
		{name: "section 00", input: "8000000001", want: "CRN section code must be 01, 02, 03, or 04 for years 78-81"},
		{name: "year 81 section 04", input: "8104000010", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateCRN(tt.input))
		})
	}
}

func TestValidateCRN_RollBoundaries(t *testing.T) {
	rolls := []struct {
		roll     string
		short    bool // допустим для секций 01/03/04
		extended bool // допустим для секции 02
	}{
		{roll: "000000", short: false, extended: false},
		{roll: "000001", short: true, extended: true},
		{roll: "000049", short: true, extended: true},
		{roll: "000050", short: false, extended: true},
		{roll: "000097", short: false, extended: true},
		{roll: "000098", short: false, extended: false},
	}

	for _, section := range []string{"01", "02", "03", "04"} {
		for _, r := range rolls {
			crn := "79" + section + r.roll
			want := r.short
			if section == "02" {
				want = r.extended
			}
			got := validateCRN(crn)
			if want {
				assert.Empty(t, got, crn)
			} else {
				assert.Contains(t, got, "Roll number for section", crn)
			}
		}
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "9712345678", want: ""},
		{input: "9812345678", want: ""},
		{input: "9612345678", want: "Contact number must start with 97 or 98"},
		{input: "0123456789", want: "Contact number must start with 97 or 98"},
		{input: "981234567", want: "Contact number must be exactly 10 digits"},
		{input: "98123456789", want: "Contact number must be exactly 10 digits"},
		{input: "98-1234567", want: "Contact number must contain only digits"},
		{input: "+977981234", want: "Contact number must contain only digits"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, validateContact(tt.input))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "user@example.com", want: ""},
		{input: "first.last+tag%x@sub-domain.example.np", want: ""},
		{input: "userexample.com", want: "Please enter a valid email address"},
		{input: "user@examplecom", want: "Please enter a valid email address"},
		{input: "@example.com", want: "Email must have a valid local part and domain"},
		{input: "user.name@", want: "Email must have a valid local part and domain"},
		{input: "user.name@localhost", want: "Email domain must contain at least one dot"},
		{input: "us er@example.com", want: "Email local part can only contain letters, numbers, and ._%+-"},
		{input: "user@exa_mple.com", want: "Email domain can only contain letters, numbers, dots, and hyphens"},
		{input: "user@a@example.com", want: "Email domain can only contain letters, numbers, dots, and hyphens"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, validateEmail(tt.input))
		})
	}
}
