package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// SubmissionBuilder собирает провалидированные заявки из сырых данных формы
type SubmissionBuilder struct {
	now func() time.Time
}

// NewSubmissionBuilder создает новый SubmissionBuilder
func NewSubmissionBuilder() *SubmissionBuilder {
	return &SubmissionBuilder{now: time.Now}
}

// BuildIndividual собирает индивидуальную заявку из уже провалидированного участника
func (b *SubmissionBuilder) BuildIndividual(member domain.Member, selectedTeam, comments string) (*domain.IndividualSubmission, error) {
	selectedTeam = strings.TrimSpace(selectedTeam)
	if selectedTeam == "" {
		return nil, domain.ErrMissingTeamSelection
	}

	return &domain.IndividualSubmission{
		ID:           uuid.NewString(),
		Member:       member,
		SelectedTeam: selectedTeam,
		Comments:     strings.TrimSpace(comments),
		CreatedAt:    b.now().UTC(),
	}, nil
}

// BuildTeam собирает командную заявку из слотов формы.
// Пустые слоты отбрасываются, частично заполненные отклоняют всю заявку.
func (b *SubmissionBuilder) BuildTeam(teamName string, slots []domain.MemberInput, selectedTeam, comments string) (*domain.TeamSubmission, error) {
	selectedTeam = strings.TrimSpace(selectedTeam)
	if selectedTeam == "" {
		return nil, domain.ErrMissingTeamSelection
	}

	var errs []string
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		errs = append(errs, "Team name is required")
	}
	if len(slots) > domain.MaxTeamMembers {
		errs = append(errs, fmt.Sprintf("A team can have at most %d members", domain.MaxTeamMembers))
	}

	members := make([]domain.Member, 0, len(slots))
	partial := 0
	for i, slot := range slots {
		if slot.IsBlank() {
			continue
		}

		memberErrs := ValidateMember(slot.Name, slot.CRN, slot.Contact, slot.Email)
		if len(memberErrs) > 0 {
			partial++
			for _, e := range memberErrs {
				errs = append(errs, fmt.Sprintf("Member %d: %s", i+1, e))
			}
			continue
		}
		members = append(members, slot.Normalize())
	}

	if len(members) == 0 && partial == 0 {
		return nil, domain.ErrNoMembersProvided
	}

	if len(errs) > 0 {
		verr := domain.NewValidationError(errs)
		if partial > 0 {
			verr.Cause = domain.ErrIncompleteMemberData
		}
		return nil, verr
	}

	return &domain.TeamSubmission{
		ID:           uuid.NewString(),
		TeamName:     teamName,
		SelectedTeam: selectedTeam,
		Members:      members,
		Comments:     strings.TrimSpace(comments),
		CreatedAt:    b.now().UTC(),
	}, nil
}
