package participant

import "context"

type Repository interface {
	ListByContest(ctx context.Context, contestID string) ([]Participant, error)
	GetByID(ctx context.Context, contestID, participantID string) (Participant, bool, error)
	Upsert(ctx context.Context, item Participant) error
}
