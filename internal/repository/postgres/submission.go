package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// SubmissionRepository реализует repository.SubmissionRepository для PostgreSQL
type SubmissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository создает новый экземпляр SubmissionRepository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Append сохраняет заявку в соответствующую коллекцию
func (r *SubmissionRepository) Append(ctx context.Context, submission domain.Submission) error {
	switch s := submission.(type) {
	case *domain.IndividualSubmission:
		return r.appendIndividual(ctx, s)
	case *domain.TeamSubmission:
		return r.appendTeam(ctx, s)
	default:
		return fmt.Errorf("unsupported submission type %T", submission)
	}
}

func (r *SubmissionRepository) appendIndividual(ctx context.Context, s *domain.IndividualSubmission) error {
	query := `
		INSERT INTO individual_submissions
			(id, name, crn, contact, email, selected_team, comments, submitted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.Member.Name, s.Member.CRN, s.Member.Contact, s.Member.Email,
		s.SelectedTeam, s.Comments, s.SubmittedBy, s.CreatedAt,
	)
	return err
}

// appendTeam сохраняет команду и участников в одной транзакции
func (r *SubmissionRepository) appendTeam(ctx context.Context, s *domain.TeamSubmission) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	query := `
		INSERT INTO team_submissions (id, team_name, selected_team, comments, submitted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, query, s.ID, s.TeamName, s.SelectedTeam, s.Comments, s.SubmittedBy, s.CreatedAt); err != nil {
		return err
	}

	memberQuery := `
		INSERT INTO team_members (submission_id, position, name, crn, contact, email)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, m := range s.Members {
		if _, err := tx.Exec(ctx, memberQuery, s.ID, i+1, m.Name, m.CRN, m.Contact, m.Email); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Exists проверяет наличие email в коллекции (без учета регистра)
func (r *SubmissionRepository) Exists(ctx context.Context, collection domain.Collection, email string) (bool, error) {
	var query string
	switch collection {
	case domain.CollectionIndividual:
		query = `
			SELECT EXISTS(
				SELECT 1 FROM individual_submissions
				WHERE lower(email) = lower($1) OR lower(submitted_by) = lower($1)
			)
		`
	case domain.CollectionTeam:
		query = `
			SELECT EXISTS(
				SELECT 1 FROM team_submissions ts
				WHERE lower(ts.submitted_by) = lower($1)
				   OR EXISTS(
						SELECT 1 FROM team_members tm
						WHERE tm.submission_id = ts.id AND lower(tm.email) = lower($1)
				   )
			)
		`
	default:
		return false, fmt.Errorf("unknown collection %q", collection)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Stats возвращает количество заявок по командам клуба
func (r *SubmissionRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	query := `
		WITH ind AS (
			SELECT selected_team, COUNT(*) AS cnt
			FROM individual_submissions
			GROUP BY selected_team
		), tm AS (
			SELECT ts.selected_team, COUNT(DISTINCT ts.id) AS cnt, COUNT(m.position) AS members
			FROM team_submissions ts
			LEFT JOIN team_members m ON m.submission_id = ts.id
			GROUP BY ts.selected_team
		)
		SELECT COALESCE(ind.selected_team, tm.selected_team) AS selected_team,
		       COALESCE(ind.cnt, 0), COALESCE(tm.cnt, 0), COALESCE(tm.members, 0)
		FROM ind
		FULL OUTER JOIN tm ON tm.selected_team = ind.selected_team
		ORDER BY selected_team
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.Stats{PerTeam: []domain.TeamStats{}}
	for rows.Next() {
		var ts domain.TeamStats
		if err := rows.Scan(&ts.SelectedTeam, &ts.Individuals, &ts.Teams, &ts.TeamMemberTotal); err != nil {
			return nil, err
		}
		stats.TotalIndividuals += ts.Individuals
		stats.TotalTeams += ts.Teams
		stats.PerTeam = append(stats.PerTeam, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Ping проверяет подключение к БД
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close закрывает пул подключений
func (r *SubmissionRepository) Close() error {
	r.db.Close()
	return nil
}
