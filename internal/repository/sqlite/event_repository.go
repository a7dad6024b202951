package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository implementation
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Insert(ctx context.Context, event models.PostureEvent) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("inserting posture event: status=%s, source=%s", event.Status, event.Source)

	reasons, err := json.Marshal(event.Reasons)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posture_events (captured_at, status, reasons, source, head_ratio, head_forward_ratio, trunk_lean_degrees, ear_span_ratio, notified)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, event.CapturedAt.UTC().Format(time.RFC3339Nano), string(event.Status), string(reasons), event.Source,
		event.HeadRatio, event.HeadForwardRatio, event.TrunkLeanDegrees, event.EarSpanRatio, event.Notified)
	if err != nil {
		log.Error("failed to insert posture event: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *eventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.PostureEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	query := sqlBuilder.
		Select("id", "captured_at", "status", "reasons", "source", "head_ratio", "head_forward_ratio", "trunk_lean_degrees", "ear_span_ratio", "notified").
		From("posture_events").
		OrderBy("captured_at DESC")
	query = applyEventFilter(query, filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query = query.Limit(uint64(limit))
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query posture events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.PostureEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			log.Error("failed to scan posture event row: %v", err)
			return nil, err
		}
		events = append(events, event)
	}
	log.Debug("found %d posture events", len(events))
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter models.EventFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	query := sqlBuilder.Select("COUNT(*)").From("posture_events")
	query = applyEventFilter(query, filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count posture events: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	res, err := r.db.ExecContext(ctx, `
DELETE FROM posture_events WHERE captured_at < ?
`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		log.Error("failed to delete old posture events: %v", err)
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Info("deleted %d posture events before %s", deleted, cutoff.Format(models.DayKeyLayout))
	}
	return deleted, nil
}

func applyEventFilter(query squirrel.SelectBuilder, filter models.EventFilter) squirrel.SelectBuilder {
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Source != "" {
		query = query.Where(squirrel.Eq{"source": filter.Source})
	}
	if filter.Day != "" {
		// captured_at is RFC3339, so a date prefix match selects the day.
		query = query.Where(squirrel.Like{"captured_at": filter.Day + "%"})
	}
	return query
}

func scanEvent(rows *sql.Rows) (models.PostureEvent, error) {
	var event models.PostureEvent
	var capturedAt, reasons string
	if err := rows.Scan(&event.ID, &capturedAt, &event.Status, &reasons, &event.Source,
		&event.HeadRatio, &event.HeadForwardRatio, &event.TrunkLeanDegrees, &event.EarSpanRatio, &event.Notified); err != nil {
		return models.PostureEvent{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, capturedAt); err == nil {
		event.CapturedAt = t
	}
	if err := json.Unmarshal([]byte(reasons), &event.Reasons); err != nil {
		event.Reasons = nil
	}
	return event, nil
}
