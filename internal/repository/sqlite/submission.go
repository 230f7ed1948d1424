package sqlite

import (
	"context"
	"fmt"
	"sort"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// SubmissionRepository реализует repository.SubmissionRepository поверх SQLite
type SubmissionRepository struct {
	db *gorm.DB
}

// New открывает SQLite базу по пути path и создает схему.
// Пустой path означает базу в памяти (для тестов и локального запуска).
func New(path string) (*SubmissionRepository, error) {
	dsn := "file::memory:"
	if path != "" {
		// WAL позволяет читать во время записи
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite допускает одного писателя; для базы в памяти одно соединение это одна база
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&individualRecord{}, &teamRecord{}, &teamMemberRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	return &SubmissionRepository{db: db}, nil
}

// Append сохраняет заявку в соответствующую таблицу
func (r *SubmissionRepository) Append(ctx context.Context, submission domain.Submission) error {
	switch s := submission.(type) {
	case *domain.IndividualSubmission:
		rec := individualRecord{
			ID:           s.ID,
			Name:         s.Member.Name,
			CRN:          s.Member.CRN,
			Contact:      s.Member.Contact,
			Email:        s.Member.Email,
			SelectedTeam: s.SelectedTeam,
			Comments:     s.Comments,
			SubmittedBy:  s.SubmittedBy,
			CreatedAt:    s.CreatedAt,
		}
		return r.db.WithContext(ctx).Create(&rec).Error
	case *domain.TeamSubmission:
		rec := teamRecord{
			ID:           s.ID,
			TeamName:     s.TeamName,
			SelectedTeam: s.SelectedTeam,
			Comments:     s.Comments,
			SubmittedBy:  s.SubmittedBy,
			CreatedAt:    s.CreatedAt,
		}
		for i, m := range s.Members {
			rec.Members = append(rec.Members, teamMemberRecord{
				SubmissionID: s.ID,
				Position:     i + 1,
				Name:         m.Name,
				CRN:          m.CRN,
				Contact:      m.Contact,
				Email:        m.Email,
			})
		}
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&rec).Error
		})
	default:
		return fmt.Errorf("unsupported submission type %T", submission)
	}
}

// Exists проверяет наличие email в коллекции (без учета регистра)
func (r *SubmissionRepository) Exists(ctx context.Context, collection domain.Collection, email string) (bool, error) {
	db := r.db.WithContext(ctx)

	var count int64
	switch collection {
	case domain.CollectionIndividual:
		err := db.Model(&individualRecord{}).
			Where("lower(email) = lower(?) OR lower(submitted_by) = lower(?)", email, email).
			Count(&count).Error
		if err != nil {
			return false, err
		}
	case domain.CollectionTeam:
		members := db.Model(&teamMemberRecord{}).
			Select("submission_id").
			Where("lower(email) = lower(?)", email)
		err := db.Model(&teamRecord{}).
			Where("lower(submitted_by) = lower(?) OR id IN (?)", email, members).
			Count(&count).Error
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown collection %q", collection)
	}

	return count > 0, nil
}

// Stats возвращает количество заявок по командам клуба
func (r *SubmissionRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	db := r.db.WithContext(ctx)

	var individuals []struct {
		SelectedTeam string
		Cnt          int
	}
	err := db.Model(&individualRecord{}).
		Select("selected_team, count(*) AS cnt").
		Group("selected_team").
		Scan(&individuals).Error
	if err != nil {
		return nil, err
	}

	var teams []struct {
		SelectedTeam string
		Cnt          int
		Members      int
	}
	err = db.Model(&teamRecord{}).
		Select("team_submissions.selected_team AS selected_team, count(DISTINCT team_submissions.id) AS cnt, count(team_members.position) AS members").
		Joins("LEFT JOIN team_members ON team_members.submission_id = team_submissions.id").
		Group("team_submissions.selected_team").
		Scan(&teams).Error
	if err != nil {
		return nil, err
	}

	perTeam := make(map[string]*domain.TeamStats)
	get := func(name string) *domain.TeamStats {
		ts, ok := perTeam[name]
		if !ok {
			ts = &domain.TeamStats{SelectedTeam: name}
			perTeam[name] = ts
		}
		return ts
	}

	stats := &domain.Stats{PerTeam: []domain.TeamStats{}}
	for _, row := range individuals {
		get(row.SelectedTeam).Individuals = row.Cnt
		stats.TotalIndividuals += row.Cnt
	}
	for _, row := range teams {
		ts := get(row.SelectedTeam)
		ts.Teams = row.Cnt
		ts.TeamMemberTotal = row.Members
		stats.TotalTeams += row.Cnt
	}

	for _, ts := range perTeam {
		stats.PerTeam = append(stats.PerTeam, *ts)
	}
	sort.Slice(stats.PerTeam, func(i, j int) bool {
		return stats.PerTeam[i].SelectedTeam < stats.PerTeam[j].SelectedTeam
	})

	return stats, nil
}

// Ping проверяет доступность базы
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close закрывает базу
func (r *SubmissionRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
