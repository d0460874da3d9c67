package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"matterplan/internal/model"
	repo "matterplan/internal/scheduling/repository"
)

const taskColumns = `id, assignee_id, title, due_date, estimated_duration, logged_duration,
	scheduled_date, scheduled_start_time, pinned, completed, version, created_at, updated_at`

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	var dueDate, scheduledDate *time.Time
	err := row.Scan(
		&t.ID, &t.AssigneeID, &t.Title, &dueDate, &t.EstimatedDuration, &t.LoggedDuration,
		&scheduledDate, &t.ScheduledStartTime, &t.Pinned, &t.Completed, &t.Version,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	if dueDate != nil {
		t.DueDate = *dueDate
	}
	t.ScheduledDate = scheduledDate
	return t, nil
}

// CreateTask inserts a new task row with version 1 and no schedule.
func (r *implRepository) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	query := fmt.Sprintf(`
		INSERT INTO tasks (id, assignee_id, title, due_date, estimated_duration, logged_duration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, taskColumns)

	var dueDate *time.Time
	if !opt.DueDate.IsZero() {
		d := opt.DueDate
		dueDate = &d
	}

	id := uuid.Must(uuid.NewV7()).String()
	task, err := scanTask(r.pool.QueryRow(ctx, query,
		id, opt.AssigneeID, opt.Title, dueDate, opt.EstimatedDurationMinutes, opt.LoggedDurationMinutes))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	return task, nil
}

// GetTask retrieves a task by ID. Returns zero-value Task (ID == "") when
// not found — do NOT return error for not-found.
func (r *implRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetTask"), err)
		return model.Task{}, repo.ErrFailedToGet
	}
	return task, nil
}

// UpdateTaskFields applies the non-nil fields and bumps the version once.
func (r *implRepository) UpdateTaskFields(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	set := "version = version + 1, updated_at = NOW()"
	args := []any{opt.ID}
	idx := 2

	if opt.Title != nil {
		set += fmt.Sprintf(", title = $%d", idx)
		args = append(args, *opt.Title)
		idx++
	}
	if opt.DueDate != nil {
		set += fmt.Sprintf(", due_date = $%d", idx)
		if opt.DueDate.IsZero() {
			args = append(args, nil)
		} else {
			args = append(args, *opt.DueDate)
		}
		idx++
	}
	if opt.EstimatedDurationMinutes != nil {
		set += fmt.Sprintf(", estimated_duration = $%d", idx)
		args = append(args, *opt.EstimatedDurationMinutes)
		idx++
	}
	if opt.LoggedDurationMinutes != nil {
		set += fmt.Sprintf(", logged_duration = $%d", idx)
		args = append(args, *opt.LoggedDurationMinutes)
		idx++
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $1 RETURNING %s`, set, taskColumns)

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, repo.ErrNotFound
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTaskFields"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}
	return task, nil
}

// WriteSchedule persists the placement with compare-and-swap semantics: the
// row is only written when its version still equals ExpectedVersion.
func (r *implRepository) WriteSchedule(ctx context.Context, opt repo.WriteScheduleOptions) (int64, error) {
	const query = `
		UPDATE tasks
		SET scheduled_date = $2, scheduled_start_time = $3, pinned = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $5
		RETURNING version`

	var newVersion int64
	err := r.pool.QueryRow(ctx, query,
		opt.TaskID, opt.ScheduledDate, opt.ScheduledStartTime, opt.Pinned, opt.ExpectedVersion,
	).Scan(&newVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the row is gone or another writer bumped the version.
		var exists bool
		if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, opt.TaskID).Scan(&exists); checkErr != nil {
			r.l.Errorf(ctx, "%s exists check: %v", r.dsn("WriteSchedule"), checkErr)
			return 0, repo.ErrFailedToUpdate
		}
		if !exists {
			return 0, repo.ErrNotFound
		}
		return 0, repo.ErrVersionConflict
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("WriteSchedule"), err)
		return 0, repo.ErrFailedToUpdate
	}
	return newVersion, nil
}

// CompleteTask marks the task done and bumps the version. The last schedule
// fields are kept for history; completed tasks no longer occupy time.
func (r *implRepository) CompleteTask(ctx context.Context, id string) (model.Task, error) {
	query := fmt.Sprintf(`
		UPDATE tasks SET completed = TRUE, version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, taskColumns)

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, repo.ErrNotFound
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CompleteTask"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}
	return task, nil
}

// DeleteTask removes the task row.
func (r *implRepository) DeleteTask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteTask"), err)
		return repo.ErrFailedToDelete
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ListScheduledTasks returns non-completed tasks scheduled on the given
// assignee/date, ordered by start time.
func (r *implRepository) ListScheduledTasks(ctx context.Context, opt repo.ListScheduledTasksOptions) ([]model.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE assignee_id = $1 AND scheduled_date = $2 AND NOT completed`, taskColumns)
	args := []any{opt.AssigneeID, opt.ScheduledDate}

	if opt.PinnedOnly {
		query += ` AND pinned`
	}
	if opt.ExcludeTaskID != "" {
		query += ` AND id != $3`
		args = append(args, opt.ExcludeTaskID)
	}
	query += ` ORDER BY scheduled_start_time`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListScheduledTasks"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListScheduledTasks"), scanErr)
			return nil, repo.ErrFailedToList
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
