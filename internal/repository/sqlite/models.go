package sqlite

import "time"

// individualRecord строка таблицы individual_submissions
type individualRecord struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	CRN          string `gorm:"column:crn;not null"`
	Contact      string `gorm:"not null"`
	Email        string `gorm:"index;not null"`
	SelectedTeam string `gorm:"index;not null"`
	Comments     string
	SubmittedBy  string `gorm:"index"`
	CreatedAt    time.Time
}

func (individualRecord) TableName() string { return "individual_submissions" }

// teamRecord строка таблицы team_submissions
type teamRecord struct {
	ID           string `gorm:"primaryKey"`
	TeamName     string `gorm:"not null"`
	SelectedTeam string `gorm:"index;not null"`
	Comments     string
	SubmittedBy  string             `gorm:"index"`
	Members      []teamMemberRecord `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}

func (teamRecord) TableName() string { return "team_submissions" }

// teamMemberRecord строка таблицы team_members
type teamMemberRecord struct {
	SubmissionID string `gorm:"primaryKey"`
	Position     int    `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	CRN          string `gorm:"column:crn;not null"`
	Contact      string `gorm:"not null"`
	Email        string `gorm:"index;not null"`
}

func (teamMemberRecord) TableName() string { return "team_members" }
