package domain

import "fmt"

// DeliveryStatus уровень сообщения о доставке писем
type DeliveryStatus string

// Три уровня без промежуточных градаций
const (
	DeliveryAll  DeliveryStatus = "all"
	DeliverySome DeliveryStatus = "some"
	DeliveryNone DeliveryStatus = "none"
)

// DeliveryReport агрегирует результаты доставки по получателям
type DeliveryReport struct {
	Results   []bool         `json:"results"`
	Delivered int            `json:"delivered"`
	Total     int            `json:"total"`
	Status    DeliveryStatus `json:"status"`
	Message   string         `json:"message"`
}

// Summarize сводит результаты доставки к одному из трех уровней.
// Текст сообщения зависит от типа заявки, а не от числа получателей.
func Summarize(kind SubmissionType, results []bool) DeliveryReport {
	delivered := 0
	for _, ok := range results {
		if ok {
			delivered++
		}
	}

	report := DeliveryReport{
		Results:   results,
		Delivered: delivered,
		Total:     len(results),
	}

	team := kind == SubmissionTeam
	switch {
	case report.Total > 0 && delivered == report.Total:
		report.Status = DeliveryAll
		if team {
			report.Message = "Confirmation emails sent to all team members."
		} else {
			report.Message = "Confirmation email sent to your registered email address."
		}
	case delivered > 0:
		report.Status = DeliverySome
		report.Message = fmt.Sprintf("Confirmation emails sent to %d of %d team members. Some confirmation emails could not be sent.", delivered, report.Total)
	default:
		report.Status = DeliveryNone
		if team {
			report.Message = "Team application saved but confirmation emails could not be sent."
		} else {
			report.Message = "Application saved but confirmation email could not be sent."
		}
	}

	return report
}

// Email описывает одно письмо-подтверждение для транспорта
type Email struct {
	RecipientEmail string
	RecipientName  string
	TeamName       string // Выбранная команда клуба
	SubmissionType SubmissionType
	TeamDetails    *TeamDetails // Только для командных заявок
}

// TeamDetails детали команды для письма
type TeamDetails struct {
	TeamName    string
	MemberCount int
}
