package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kael/sitwell/internal/repository"
	"github.com/kael/sitwell/internal/repository/sqlite"
	"github.com/kael/sitwell/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.StatsRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStatsRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) day(offset int) time.Time {
	return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func (s *StatsRepositorySuite) TestIncrementCreatesAndAccumulates() {
	ctx := context.Background()
	day := s.day(0)

	s.Require().NoError(s.repo.IncrementDaily(ctx, day, 300, 0, 0))
	s.Require().NoError(s.repo.IncrementDaily(ctx, day, 0, 300, 0))
	s.Require().NoError(s.repo.IncrementDaily(ctx, day, 300, 0, 0))

	row, err := s.repo.GetDaily(ctx, day)
	s.Require().NoError(err)
	s.Equal("2026-03-10", row.Date)
	s.Equal(int64(600), row.CorrectSeconds)
	s.Equal(int64(300), row.IncorrectSeconds)
	s.Equal(int64(0), row.UnknownSeconds)
}

func (s *StatsRepositorySuite) TestGetDailyMissingDayIsZero() {
	row, err := s.repo.GetDaily(context.Background(), s.day(0))
	s.Require().NoError(err)
	s.Equal("2026-03-10", row.Date)
	s.Zero(row.CorrectSeconds)
	s.Zero(row.IncorrectSeconds)
	s.Zero(row.UnknownSeconds)
}

func (s *StatsRepositorySuite) TestSameDayDifferentTimesShareBucket() {
	ctx := context.Background()

	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.IncrementDaily(ctx, morning, 100, 0, 0))
	s.Require().NoError(s.repo.IncrementDaily(ctx, evening, 100, 0, 0))

	row, err := s.repo.GetDaily(ctx, morning)
	s.Require().NoError(err)
	s.Equal(int64(200), row.CorrectSeconds)
}

func (s *StatsRepositorySuite) TestListDailyZeroFillsWindow() {
	ctx := context.Background()

	s.Require().NoError(s.repo.IncrementDaily(ctx, s.day(-6), 100, 0, 0))
	s.Require().NoError(s.repo.IncrementDaily(ctx, s.day(-2), 0, 200, 0))
	s.Require().NoError(s.repo.IncrementDaily(ctx, s.day(0), 0, 0, 300))

	rows, err := s.repo.ListDaily(ctx, 7, s.day(0))
	s.Require().NoError(err)
	s.Require().Len(rows, 7)

	s.Equal("2026-03-04", rows[0].Date)
	s.Equal(int64(100), rows[0].CorrectSeconds)
	s.Equal("2026-03-05", rows[1].Date)
	s.Zero(rows[1].CorrectSeconds)
	s.Equal(int64(200), rows[4].IncorrectSeconds)
	s.Equal("2026-03-10", rows[6].Date)
	s.Equal(int64(300), rows[6].UnknownSeconds)
}

func (s *StatsRepositorySuite) TestListDailyExcludesOutsideWindow() {
	ctx := context.Background()

	s.Require().NoError(s.repo.IncrementDaily(ctx, s.day(-10), 999, 0, 0))
	s.Require().NoError(s.repo.IncrementDaily(ctx, s.day(0), 100, 0, 0))

	rows, err := s.repo.ListDaily(ctx, 3, s.day(0))
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	for _, row := range rows[:2] {
		s.Zero(row.CorrectSeconds)
	}
	s.Equal(int64(100), rows[2].CorrectSeconds)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
