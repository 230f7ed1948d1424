package mailer

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

//go:embed templates/confirmation.txt
var defaultTemplate string

// TimestampLayout формат времени отправки в тексте письма
const TimestampLayout = "2006-01-02 15:04:05"

// Template текст письма-подтверждения
type Template struct {
	body *template.Template
}

type templateData struct {
	RecipientName  string
	TeamName       string
	SubmissionType domain.SubmissionType
	Timestamp      string
	TeamDetails    *domain.TeamDetails
}

// LoadTemplate читает шаблон из файла; пустой путь означает встроенный шаблон
func LoadTemplate(path string) (*Template, error) {
	text := defaultTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read email template: %w", err)
		}
		text = string(raw)
	}
	return ParseTemplate(text)
}

// ParseTemplate разбирает текст шаблона
func ParseTemplate(text string) (*Template, error) {
	body, err := template.New("confirmation").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	return &Template{body: body}, nil
}

// Render подставляет данные письма в шаблон
func (t *Template) Render(email domain.Email, at time.Time) (string, error) {
	data := templateData{
		RecipientName:  email.RecipientName,
		TeamName:       email.TeamName,
		SubmissionType: email.SubmissionType,
		Timestamp:      at.Format(TimestampLayout),
	}
	if email.SubmissionType == domain.SubmissionTeam {
		data.TeamDetails = email.TeamDetails
	}

	var buf bytes.Buffer
	if err := t.body.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}

// Subject возвращает тему письма по типу заявки
func Subject(email domain.Email) string {
	if email.SubmissionType == domain.SubmissionTeam {
		return fmt.Sprintf("Team Application Confirmed - %s | Knowledge Sharing Circle", email.TeamName)
	}
	return fmt.Sprintf("Application Confirmed - %s | Knowledge Sharing Circle", email.TeamName)
}
