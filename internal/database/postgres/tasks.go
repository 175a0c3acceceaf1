package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/visionise-api/internal/task"
)

// TaskRepository implements task.Repository
type TaskRepository struct {
	db *bun.DB
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	now := time.Now().UTC()
	row := &taskRow{
		ID:          uuid.New(),
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Progress:    float64(t.Progress),
		Priority:    t.Priority,
		Type:        t.Type,
		Assignee:    t.Assignee,
		Responsable: t.Responsable,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return row.toModel(), nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]task.Task, error) {
	var rows []taskRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, *rows[i].toModel())
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, upd task.Update) (*task.Task, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, task.ErrNotFound
	}

	q := r.db.NewUpdate().
		Model((*taskRow)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", uid).
		Returning("*")
	q = setColumn(q, "title", upd.Title)
	q = setColumn(q, "description", upd.Description)
	q = setColumn(q, "status", upd.Status)
	if upd.Progress != nil {
		q = q.Set("progress = ?", float64(*upd.Progress))
	}
	q = setColumn(q, "priority", upd.Priority)
	q = setColumn(q, "type", upd.Type)
	q = setColumn(q, "assignee", upd.Assignee)
	q = setColumn(q, "responsable", upd.Responsable)
	q = setColumn(q, "start_date", upd.StartDate)
	q = setColumn(q, "end_date", upd.EndDate)

	var rows []taskRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if len(rows) == 0 {
		return nil, task.ErrNotFound
	}

	return rows[0].toModel(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	uid, ok := parseID(id)
	if !ok {
		return nil
	}

	_, err := r.db.NewDelete().
		Model((*taskRow)(nil)).
		Where("id = ?", uid).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteByProject removes every task that references projectID
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*taskRow)(nil)).
		Where("project_id = ?", projectID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return res.RowsAffected()
}
