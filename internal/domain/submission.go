package domain

import "time"

// SubmissionType определяет вид заявки
type SubmissionType string

// Виды заявок
const (
	SubmissionIndividual SubmissionType = "Individual"
	SubmissionTeam       SubmissionType = "Team"
)

// Collection определяет коллекцию хранилища, в которую попадает заявка
type Collection string

// Коллекции хранилища
const (
	CollectionIndividual Collection = "individual"
	CollectionTeam       Collection = "team"
)

// Submission это закрытый вариант: IndividualSubmission | TeamSubmission
type Submission interface {
	Type() SubmissionType
	Collection() Collection
	// Recipients возвращает получателей подтверждения в порядке ввода
	Recipients() []Member
	isSubmission()
}

// IndividualSubmission представляет индивидуальную заявку
type IndividualSubmission struct {
	ID           string    `json:"id"`
	Member       Member    `json:"member"`
	SelectedTeam string    `json:"selected_team"`
	Comments     string    `json:"comments,omitempty"`
	SubmittedBy  string    `json:"submitted_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Type возвращает SubmissionIndividual
func (s *IndividualSubmission) Type() SubmissionType { return SubmissionIndividual }

// Collection возвращает CollectionIndividual
func (s *IndividualSubmission) Collection() Collection { return CollectionIndividual }

// Recipients возвращает единственного получателя
func (s *IndividualSubmission) Recipients() []Member { return []Member{s.Member} }

func (s *IndividualSubmission) isSubmission() {}

// MinTeamMembers и MaxTeamMembers ограничивают размер команды
const (
	MinTeamMembers = 1
	MaxTeamMembers = 5
)

// TeamSubmission представляет командную заявку (от 1 до 5 участников)
type TeamSubmission struct {
	ID           string    `json:"id"`
	TeamName     string    `json:"team_name"`
	SelectedTeam string    `json:"selected_team"`
	Members      []Member  `json:"members"` // Порядок совпадает с порядком ввода
	Comments     string    `json:"comments,omitempty"`
	SubmittedBy  string    `json:"submitted_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Type возвращает SubmissionTeam
func (s *TeamSubmission) Type() SubmissionType { return SubmissionTeam }

// Collection возвращает CollectionTeam
func (s *TeamSubmission) Collection() Collection { return CollectionTeam }

// Recipients возвращает всех участников команды
func (s *TeamSubmission) Recipients() []Member { return s.Members }

func (s *TeamSubmission) isSubmission() {}

// SubmissionResult агрегированный результат отправки формы
type SubmissionResult struct {
	SubmissionID string         `json:"submission_id"`
	Type         SubmissionType `json:"submission_type"`
	Accepted     bool           `json:"accepted"`
	SelectedTeam string         `json:"selected_team"`
	TeamName     string         `json:"team_name,omitempty"`
	MemberCount  int            `json:"member_count"`
	Delivery     DeliveryReport `json:"delivery"`
}

// TeamStats содержит количество заявок по одной команде
type TeamStats struct {
	SelectedTeam    string `json:"selected_team"`
	Individuals     int    `json:"individuals"`
	Teams           int    `json:"teams"`
	TeamMemberTotal int    `json:"team_members"`
}

// Stats сводная статистика заявок
type Stats struct {
	TotalIndividuals int         `json:"total_individuals"`
	TotalTeams       int         `json:"total_teams"`
	PerTeam          []TeamStats `json:"per_team"`
}
