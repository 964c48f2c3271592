package postgres

import (
	"database/sql"
	"time"
)

type contestTableModel struct {
	ID            string     `db:"public_id"`
	Name          string     `db:"name"`
	Season        string     `db:"season"`
	Slots         []byte     `db:"slots"`
	UseOncePolicy string     `db:"use_once_policy"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type contestInsertModel struct {
	ID            string `db:"public_id"`
	Name          string `db:"name"`
	Season        string `db:"season"`
	Slots         string `db:"slots"`
	UseOncePolicy string `db:"use_once_policy"`
}

type slotColumn struct {
	Name              string   `json:"name"`
	EligiblePositions []string `json:"eligiblePositions,omitempty"`
}

type participantTableModel struct {
	ID            int64      `db:"id"`
	ContestID     string     `db:"contest_public_id"`
	ParticipantID string     `db:"participant_id"`
	Label         string     `db:"label"`
	JoinedAt      time.Time  `db:"joined_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type participantInsertModel struct {
	ContestID     string    `db:"contest_public_id"`
	ParticipantID string    `db:"participant_id"`
	Label         string    `db:"label"`
	JoinedAt      time.Time `db:"joined_at"`
}

type playerTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	Name      string         `db:"name"`
	Position  string         `db:"position"`
	TeamCode  sql.NullString `db:"team_code"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID string  `db:"public_id"`
	Name     string  `db:"name"`
	Position string  `db:"position"`
	TeamCode *string `db:"team_code"`
}

type windowTableModel struct {
	ID         int64      `db:"id"`
	ContestID  string     `db:"contest_public_id"`
	Number     int        `db:"period_number"`
	OpensAt    time.Time  `db:"opens_at"`
	DeadlineAt *time.Time `db:"deadline_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type windowInsertModel struct {
	ContestID  string     `db:"contest_public_id"`
	Number     int        `db:"period_number"`
	OpensAt    time.Time  `db:"opens_at"`
	DeadlineAt *time.Time `db:"deadline_at"`
}
