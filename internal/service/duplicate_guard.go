package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/repository"
)

// DuplicateGuard проверяет, отправлял ли пользователь форму ранее.
// Результат не кэшируется: каждый вызов обращается к хранилищу.
type DuplicateGuard struct {
	submissionRepo repository.SubmissionRepository
}

// NewDuplicateGuard создает новый DuplicateGuard
func NewDuplicateGuard(submissionRepo repository.SubmissionRepository) *DuplicateGuard {
	return &DuplicateGuard{submissionRepo: submissionRepo}
}

// HasSubmitted возвращает true если email уже есть в индивидуальных или командных заявках
func (g *DuplicateGuard) HasSubmitted(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}

	for _, collection := range []domain.Collection{domain.CollectionIndividual, domain.CollectionTeam} {
		exists, err := g.submissionRepo.Exists(ctx, collection, email)
		if err != nil {
			return false, fmt.Errorf("check %s submissions: %w", collection, err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
