package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"matterplan/internal/model"
	repo "matterplan/internal/scheduling/repository"
)

const eventColumns = `id, assignee_id, title, date, start_time, end_time, external_id, created_at, updated_at`

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.AssigneeID, &e.Title, &e.Date, &e.StartTime, &e.EndTime,
		&e.ExternalID, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// CreateEvent inserts a new fixed event row.
func (r *implRepository) CreateEvent(ctx context.Context, opt repo.CreateEventOptions) (model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (id, assignee_id, title, date, start_time, end_time, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, eventColumns)

	id := uuid.Must(uuid.NewV7()).String()
	event, err := scanEvent(r.pool.QueryRow(ctx, query,
		id, opt.AssigneeID, opt.Title, opt.Date, opt.StartTime, opt.EndTime, opt.ExternalID))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateEvent"), err)
		return model.Event{}, repo.ErrFailedToInsert
	}
	return event, nil
}

// GetEvent returns zero-value Event (ID == "") when not found, no error.
func (r *implRepository) GetEvent(ctx context.Context, id string) (model.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Event{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetEvent"), err)
		return model.Event{}, repo.ErrFailedToGet
	}
	return event, nil
}

// UpdateEvent applies the non-nil fields.
func (r *implRepository) UpdateEvent(ctx context.Context, opt repo.UpdateEventOptions) (model.Event, error) {
	set := "updated_at = NOW()"
	args := []any{opt.ID}
	idx := 2

	if opt.Title != nil {
		set += fmt.Sprintf(", title = $%d", idx)
		args = append(args, *opt.Title)
		idx++
	}
	if opt.Date != nil {
		set += fmt.Sprintf(", date = $%d", idx)
		args = append(args, *opt.Date)
		idx++
	}
	if opt.StartTime != nil {
		set += fmt.Sprintf(", start_time = $%d", idx)
		args = append(args, *opt.StartTime)
		idx++
	}
	if opt.EndTime != nil {
		set += fmt.Sprintf(", end_time = $%d", idx)
		args = append(args, *opt.EndTime)
		idx++
	}

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $1 RETURNING %s`, set, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Event{}, repo.ErrNotFound
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateEvent"), err)
		return model.Event{}, repo.ErrFailedToUpdate
	}
	return event, nil
}

// DeleteEvent removes the event row.
func (r *implRepository) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteEvent"), err)
		return repo.ErrFailedToDelete
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ListEvents returns an assignee's events within [From, To] inclusive,
// ordered by date then start time.
func (r *implRepository) ListEvents(ctx context.Context, opt repo.ListEventsOptions) ([]model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE assignee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time`, eventColumns)

	rows, err := r.pool.Query(ctx, query, opt.AssigneeID, opt.From, opt.To)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListEvents"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, scanErr := scanEvent(rows)
		if scanErr != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListEvents"), scanErr)
			return nil, repo.ErrFailedToList
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// UpsertExternalEvent inserts or refreshes a mirrored external event,
// matched on (assignee_id, external_id).
func (r *implRepository) UpsertExternalEvent(ctx context.Context, opt repo.CreateEventOptions) (model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (id, assignee_id, title, date, start_time, end_time, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (assignee_id, external_id) WHERE external_id != ''
		DO UPDATE SET title = EXCLUDED.title, date = EXCLUDED.date,
		              start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
		              updated_at = NOW()
		RETURNING %s`, eventColumns)

	id := uuid.Must(uuid.NewV7()).String()
	event, err := scanEvent(r.pool.QueryRow(ctx, query,
		id, opt.AssigneeID, opt.Title, opt.Date, opt.StartTime, opt.EndTime, opt.ExternalID))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertExternalEvent"), err)
		return model.Event{}, repo.ErrFailedToInsert
	}
	return event, nil
}
