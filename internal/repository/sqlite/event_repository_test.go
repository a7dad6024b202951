package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository"
	"github.com/kael/sitwell/internal/repository/sqlite"
	"github.com/kael/sitwell/internal/testutil"
)

type EventRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.EventRepository
}

func (s *EventRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewEventRepository(s.db)
}

func (s *EventRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *EventRepositorySuite) insert(at time.Time, status models.Status, source string, reasons ...models.Reason) int64 {
	ratio := 0.21
	id, err := s.repo.Insert(context.Background(), models.PostureEvent{
		CapturedAt: at,
		Status:     status,
		Reasons:    reasons,
		Source:     source,
		HeadRatio:  &ratio,
		Notified:   len(reasons) > 0,
	})
	s.Require().NoError(err)
	return id
}

func (s *EventRepositorySuite) TestInsertAndList() {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	id := s.insert(at, models.StatusIncorrect, models.EventSourceScheduled, models.ReasonHeadForward)

	events, err := s.repo.List(context.Background(), models.EventFilter{})
	s.Require().NoError(err)
	s.Require().Len(events, 1)

	event := events[0]
	s.Equal(id, event.ID)
	s.Equal(models.StatusIncorrect, event.Status)
	s.Equal([]models.Reason{models.ReasonHeadForward}, event.Reasons)
	s.Equal(models.EventSourceScheduled, event.Source)
	s.Require().NotNil(event.HeadRatio)
	s.InDelta(0.21, *event.HeadRatio, 1e-9)
	s.True(event.Notified)
	s.True(event.CapturedAt.Equal(at))
}

func (s *EventRepositorySuite) TestListOrderedNewestFirst() {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.insert(base, models.StatusCorrect, models.EventSourceScheduled)
	s.insert(base.Add(time.Hour), models.StatusIncorrect, models.EventSourceScheduled, models.ReasonHunchback)

	events, err := s.repo.List(context.Background(), models.EventFilter{})
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(models.StatusIncorrect, events[0].Status)
}

func (s *EventRepositorySuite) TestFilters() {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.insert(base, models.StatusCorrect, models.EventSourceScheduled)
	s.insert(base.Add(time.Minute), models.StatusIncorrect, models.EventSourceAPI, models.ReasonHeadTooClose)
	s.insert(base.AddDate(0, 0, 1), models.StatusIncorrect, models.EventSourceScheduled, models.ReasonHunchback)

	byStatus, err := s.repo.List(context.Background(), models.EventFilter{Status: "incorrect"})
	s.Require().NoError(err)
	s.Len(byStatus, 2)

	bySource, err := s.repo.List(context.Background(), models.EventFilter{Source: models.EventSourceAPI})
	s.Require().NoError(err)
	s.Len(bySource, 1)

	byDay, err := s.repo.List(context.Background(), models.EventFilter{Day: "2026-03-10"})
	s.Require().NoError(err)
	s.Len(byDay, 2)

	count, err := s.repo.Count(context.Background(), models.EventFilter{Status: "incorrect", Day: "2026-03-11"})
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *EventRepositorySuite) TestLimitAndOffset() {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.insert(base.Add(time.Duration(i)*time.Minute), models.StatusCorrect, models.EventSourceScheduled)
	}

	page, err := s.repo.List(context.Background(), models.EventFilter{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	// Newest first: offset 2 skips 09:04 and 09:03.
	s.True(page[0].CapturedAt.Equal(base.Add(2 * time.Minute)))
}

func (s *EventRepositorySuite) TestDeleteBefore() {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.insert(base.AddDate(0, 0, -10), models.StatusCorrect, models.EventSourceScheduled)
	s.insert(base.AddDate(0, 0, -8), models.StatusCorrect, models.EventSourceScheduled)
	s.insert(base, models.StatusCorrect, models.EventSourceScheduled)

	deleted, err := s.repo.DeleteBefore(context.Background(), base.AddDate(0, 0, -7))
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)

	count, err := s.repo.Count(context.Background(), models.EventFilter{})
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestEventRepositorySuite(t *testing.T) {
	suite.Run(t, new(EventRepositorySuite))
}
