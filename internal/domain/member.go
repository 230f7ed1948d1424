package domain

import "strings"

// Member представляет участника, прошедшего полную валидацию
type Member struct {
	Name    string `json:"name"`
	CRN     string `json:"crn"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

// MemberInput представляет сырые данные одного слота формы (до валидации)
type MemberInput struct {
	Name    string `json:"name"`
	CRN     string `json:"crn"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

// IsBlank возвращает true если ни одно поле слота не заполнено
func (in MemberInput) IsBlank() bool {
	return strings.TrimSpace(in.Name) == "" &&
		strings.TrimSpace(in.CRN) == "" &&
		strings.TrimSpace(in.Contact) == "" &&
		strings.TrimSpace(in.Email) == ""
}

// Normalize возвращает Member с обрезанными пробелами во всех полях
func (in MemberInput) Normalize() Member {
	return Member{
		Name:    strings.Join(strings.Fields(in.Name), " "),
		CRN:     strings.TrimSpace(in.CRN),
		Contact: strings.TrimSpace(in.Contact),
		Email:   strings.TrimSpace(in.Email),
	}
}
