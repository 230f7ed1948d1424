package service

import (
	"context"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/repository"
)

// StatsService handles submission statistics queries
type StatsService struct {
	submissionRepo repository.SubmissionRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(submissionRepo repository.SubmissionRepository) *StatsService {
	return &StatsService{submissionRepo: submissionRepo}
}

// GetStats returns submission counts per selected team
func (s *StatsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	return s.submissionRepo.Stats(ctx)
}
