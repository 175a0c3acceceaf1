package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
	"github.com/redmonkez12/visionise-api/internal/user"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	FirstName    string    `bun:"first_name,notnull"`
	LastName     string    `bun:"last_name,notnull"`
	Profession   string    `bun:"profession,notnull"`
	BirthDate    string    `bun:"birth_date,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type projectRow struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID               uuid.UUID    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Title            string       `bun:"title,notnull"`
	Description      string       `bun:"description,notnull"`
	OwnerID          string       `bun:"owner_id,notnull"`
	ManagementMethod string       `bun:"management_method,notnull"`
	StartDate        string       `bun:"start_date,notnull"`
	EndDate          string       `bun:"end_date,notnull"`
	CreatedAt        time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	Members          []*memberRow `bun:"rel:has-many,join:id=project_id"`
}

type memberRow struct {
	bun.BaseModel `bun:"table:project_members,alias:pm"`

	ProjectID uuid.UUID `bun:"project_id,pk,type:uuid"`
	UserID    string    `bun:"user_id,pk"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type taskRow struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	ProjectID   string    `bun:"project_id,notnull"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
	Status      string    `bun:"status,notnull"`
	Progress    float64   `bun:"progress,notnull"`
	Priority    string    `bun:"priority,notnull"`
	Type        string    `bun:"type,notnull"`
	Assignee    string    `bun:"assignee,notnull"`
	Responsable string    `bun:"responsable,notnull"`
	StartDate   string    `bun:"start_date,notnull"`
	EndDate     string    `bun:"end_date,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *userRow) toModel() *user.User {
	return &user.User{
		ID:           r.ID.String(),
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Profession:   r.Profession,
		BirthDate:    r.BirthDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *projectRow) toModel() *project.Project {
	members := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, m.UserID)
	}
	return &project.Project{
		ID:               r.ID.String(),
		Title:            r.Title,
		Description:      r.Description,
		OwnerID:          r.OwnerID,
		Members:          members,
		ManagementMethod: r.ManagementMethod,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *taskRow) toModel() *task.Task {
	return &task.Task{
		ID:          r.ID.String(),
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Progress:    task.Progress(r.Progress),
		Priority:    r.Priority,
		Type:        r.Type,
		Assignee:    r.Assignee,
		Responsable: r.Responsable,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
