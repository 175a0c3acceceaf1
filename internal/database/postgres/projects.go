package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/visionise-api/internal/project"
)

// ProjectRepository implements project.Repository. Members live in the
// project_members table and are loaded through the has-many relation.
type ProjectRepository struct {
	db *bun.DB
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	now := time.Now().UTC()
	row := &projectRow{
		ID:               uuid.New(),
		Title:            p.Title,
		Description:      p.Description,
		OwnerID:          p.OwnerID,
		ManagementMethod: p.ManagementMethod,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
			return err
		}

		for _, userID := range p.Members {
			m := &memberRow{ProjectID: row.ID, UserID: userID, CreatedAt: now}
			if _, err := tx.NewInsert().Model(m).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
				return err
			}
			row.Members = append(row.Members, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	return row.toModel(), nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	var rows []projectRow
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Members", orderMembers).
		Where("p.owner_id = ?", ownerID).
		Order("p.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]project.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, *rows[i].toModel())
	}
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, project.ErrNotFound
	}

	row := new(projectRow)
	err := r.db.NewSelect().
		Model(row).
		Relation("Members", orderMembers).
		Where("p.id = ?", uid).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return row.toModel(), nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, upd project.Update) (*project.Project, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, project.ErrNotFound
	}

	q := r.db.NewUpdate().
		Model((*projectRow)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", uid)
	q = setColumn(q, "title", upd.Title)
	q = setColumn(q, "description", upd.Description)
	q = setColumn(q, "management_method", upd.ManagementMethod)
	q = setColumn(q, "start_date", upd.StartDate)
	q = setColumn(q, "end_date", upd.EndDate)

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, project.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	uid, ok := parseID(id)
	if !ok {
		return nil
	}

	// project_members rows go with the project through ON DELETE CASCADE
	_, err := r.db.NewDelete().
		Model((*projectRow)(nil)).
		Where("id = ?", uid).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember inserts the membership only when the project exists
func (r *ProjectRepository) AddMember(ctx context.Context, id, userID string) error {
	uid, ok := parseID(id)
	if !ok {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id)
		 SELECT id, ? FROM projects WHERE id = ?
		 ON CONFLICT DO NOTHING`,
		userID, uid)
	if err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, id, userID string) error {
	uid, ok := parseID(id)
	if !ok {
		return nil
	}

	_, err := r.db.NewDelete().
		Model((*memberRow)(nil)).
		Where("project_id = ?", uid).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	return nil
}

// BackfillManagementMethod sets method on projects that have none
func (r *ProjectRepository) BackfillManagementMethod(ctx context.Context, method string) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*projectRow)(nil)).
		Set("management_method = ?", method).
		Where("management_method = '' OR management_method IS NULL").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill management method: %w", err)
	}
	return res.RowsAffected()
}

func orderMembers(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("pm.created_at ASC")
}

func setColumn[T any](q *bun.UpdateQuery, column string, value *T) *bun.UpdateQuery {
	if value == nil {
		return q
	}
	return q.Set("? = ?", bun.Ident(column), *value)
}
