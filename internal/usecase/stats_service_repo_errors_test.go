package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	contestmock "github.com/riskibarqy/weekly-picks/internal/mocks/domain/contest"
	playerstatsmock "github.com/riskibarqy/weekly-picks/internal/mocks/domain/playerstats"
	scoringmock "github.com/riskibarqy/weekly-picks/internal/mocks/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/platform/id"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStorageDown = errors.New("connection reset by peer")

func TestStatsService_IngestStats_StopsOnStorageError(t *testing.T) {
	t.Parallel()

	statsRepo := playerstatsmock.NewRepository(t)
	existing := playerstats.PeriodStat{
		Season: "2026", Period: 1, PlayerID: "qb-allen",
		Categories: map[scoring.Category]float64{scoring.PassYards: 250},
	}
	statsRepo.On("Get", mock.Anything, "2026", 1, "qb-allen").Return(existing, true, nil).Once()
	statsRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(item playerstats.PeriodStat) bool {
		return item.Categories[scoring.PassYards] == 250 && item.Categories[scoring.PassTouchdowns] == 1
	})).Return(errStorageDown).Once()

	svc := NewStatsService(nil, nil, nil, statsRepo, nil, nil, nil, id.NewUUIDGenerator(), nil, logging.NewNop(), StatsRefreshConfig{})
	svc.now = func() time.Time { return week1Open }

	result, err := svc.IngestStats(t.Context(), []playerstats.PeriodStat{
		{Season: "2026", Period: 1, PlayerID: "qb-allen", Categories: map[scoring.Category]float64{scoring.PassTouchdowns: 1}},
		{Season: "2026", Period: 1, PlayerID: "rb-henry", Categories: map[scoring.Category]float64{scoring.RushYards: 40}},
	})
	require.ErrorIs(t, err, errStorageDown)
	require.Zero(t, result.Merged)
}

func TestStatsService_Coefficients_RepositoryErrors(t *testing.T) {
	t.Parallel()

	contestRepo := contestmock.NewRepository(t)
	scoringRepo := scoringmock.NewRepository(t)

	contestRepo.On("GetByID", mock.Anything, "c1").Return(contest.Contest{ID: "c1", Season: "2026"}, true, nil).Twice()
	scoringRepo.On("GetActive", mock.Anything, "c1").Return(scoring.Coefficients{}, false, errStorageDown).Once()
	scoringRepo.On("UpsertActive", mock.Anything, "c1", scoring.DefaultCoefficients()).Return(errStorageDown).Once()

	svc := NewStatsService(contestRepo, nil, nil, nil, scoringRepo, nil, nil, id.NewUUIDGenerator(), nil, logging.NewNop(), StatsRefreshConfig{})

	_, err := svc.GetCoefficients(t.Context(), "c1")
	require.ErrorIs(t, err, errStorageDown)

	err = svc.UpsertCoefficients(t.Context(), "c1", scoring.DefaultCoefficients())
	require.ErrorIs(t, err, errStorageDown)
}
