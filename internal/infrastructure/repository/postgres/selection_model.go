package postgres

import "time"

type selectionTableModel struct {
	ID            int64      `db:"id"`
	ContestID     string     `db:"contest_public_id"`
	ParticipantID string     `db:"participant_id"`
	Period        int        `db:"period_number"`
	Slot          string     `db:"slot"`
	PlayerID      string     `db:"player_public_id"`
	CommittedAt   time.Time  `db:"committed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type selectionInsertModel struct {
	ContestID     string    `db:"contest_public_id"`
	ParticipantID string    `db:"participant_id"`
	Period        int       `db:"period_number"`
	Slot          string    `db:"slot"`
	PlayerID      string    `db:"player_public_id"`
	CommittedAt   time.Time `db:"committed_at"`
}

type scoringCoefficientsTableModel struct {
	ID           int64      `db:"id"`
	ContestID    string     `db:"contest_public_id"`
	Coefficients []byte     `db:"coefficients"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type scoringCoefficientsInsertModel struct {
	ContestID    string `db:"contest_public_id"`
	Coefficients string `db:"coefficients"`
}

type playerPeriodStatTableModel struct {
	ID         int64      `db:"id"`
	Season     string     `db:"season"`
	Period     int        `db:"period_number"`
	PlayerID   string     `db:"player_public_id"`
	Categories []byte     `db:"categories"`
	StatAt     time.Time  `db:"stat_updated_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type playerPeriodStatInsertModel struct {
	Season     string    `db:"season"`
	Period     int       `db:"period_number"`
	PlayerID   string    `db:"player_public_id"`
	Categories string    `db:"categories"`
	StatAt     time.Time `db:"stat_updated_at"`
}

type refreshRunTableModel struct {
	ID           string    `db:"public_id"`
	ContestID    string    `db:"contest_public_id"`
	Period       int       `db:"period_number"`
	Status       string    `db:"status"`
	Succeeded    int       `db:"succeeded"`
	Skipped      int       `db:"skipped"`
	Failed       int       `db:"failed"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	DurationMs   int64     `db:"duration_ms"`
	ErrorMessage string    `db:"error_message"`
	TraceID      string    `db:"trace_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type refreshRunInsertModel struct {
	ID           string    `db:"public_id"`
	ContestID    string    `db:"contest_public_id"`
	Period       int       `db:"period_number"`
	Status       string    `db:"status"`
	Succeeded    int       `db:"succeeded"`
	Skipped      int       `db:"skipped"`
	Failed       int       `db:"failed"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	DurationMs   int64     `db:"duration_ms"`
	ErrorMessage string    `db:"error_message"`
	TraceID      string    `db:"trace_id"`
}
