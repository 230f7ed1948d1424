package service

import (
	"strconv"
	"strings"
	"unicode"
)

// Допустимые коды года поступления в CRN
var crnYears = map[string]bool{"77": true, "78": true, "79": true, "80": true, "81": true}

// Допустимые коды секций для годов 78-81; для 77 допустима только секция 01
var crnSections = map[string]bool{"01": true, "02": true, "03": true, "04": true}

// crnRollLimit возвращает максимальный номер в журнале для секции
func crnRollLimit(section string) int {
	if section == "02" {
		return 97
	}
	return 49
}

// ValidateMember проверяет поля участника и возвращает все найденные ошибки.
// Пустой результат означает, что данные валидны. Проверки чисто синтаксические.
func ValidateMember(name, crn, contact, email string) []string {
	var errs []string
	errs = appendErr(errs, validateName(name))
	errs = appendErr(errs, validateCRN(crn))
	errs = appendErr(errs, validateContact(contact))
	errs = appendErr(errs, validateEmail(email))
	return errs
}

func appendErr(errs []string, msg string) []string {
	if msg == "" {
		return errs
	}
	return append(errs, msg)
}

func validateName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Name is required"
	}
	if len(parts) < 2 {
		return "Please enter your full name (first and last name)"
	}
	for _, part := range parts {
		if !isLetters(part) {
			return "Name should contain only letters and spaces"
		}
	}
	return ""
}

// validateCRN проверяет CRN по схеме: 2 цифры года, 2 цифры секции, 6 цифр номера
func validateCRN(crn string) string {
	crn = strings.TrimSpace(crn)
	switch {
	case crn == "":
		return "CRN is required"
	case !isDigits(crn):
		return "CRN must contain only digits"
	case len(crn) != 10:
		return "CRN must be exactly 10 digits"
	}

	year, section, roll := crn[:2], crn[2:4], crn[4:]
	if !crnYears[year] {
		return "CRN must start with 77, 78, 79, 80, or 81"
	}
	if year == "77" && section != "01" {
		return "CRN for year 77 must have section code 01"
	}
	if !crnSections[section] {
		return "CRN section code must be 01, 02, 03, or 04 for years 78-81"
	}

	// roll состоит только из цифр, Atoi не может вернуть ошибку
	n, _ := strconv.Atoi(roll)
	if limit := crnRollLimit(section); n < 1 || n > limit {
		if section == "02" {
			return "Roll number for section 02 must be between 001 and 097"
		}
		if section == "01" {
			return "Roll number for section 01 must be between 001 and 049"
		}
		return "Roll number for section 03 or 04 must be between 001 and 049"
	}
	return ""
}

func validateContact(contact string) string {
	contact = strings.TrimSpace(contact)
	switch {
	case contact == "":
		return "Contact number is required"
	case !isDigits(contact):
		return "Contact number must contain only digits"
	case len(contact) != 10:
		return "Contact number must be exactly 10 digits"
	case !strings.HasPrefix(contact, "97") && !strings.HasPrefix(contact, "98"):
		return "Contact number must start with 97 or 98"
	}
	return ""
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return "Please enter a valid email address"
	}

	local, domain, _ := strings.Cut(email, "@")
	switch {
	case local == "" || domain == "":
		return "Email must have a valid local part and domain"
	case !strings.Contains(domain, "."):
		return "Email domain must contain at least one dot"
	case !onlyChars(local, "._%+-"):
		return "Email local part can only contain letters, numbers, and ._%+-"
	case !onlyChars(domain, ".-"):
		return "Email domain can only contain letters, numbers, dots, and hyphens"
	}
	return ""
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// onlyChars проверяет, что строка состоит из ASCII букв, цифр и символов extra
func onlyChars(s, extra string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(extra, r):
		default:
			return false
		}
	}
	return true
}
