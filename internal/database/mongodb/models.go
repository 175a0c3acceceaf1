package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
	"github.com/redmonkez12/visionise-api/internal/user"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	FirstName    string             `bson:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty"`
	Profession   string             `bson:"profession,omitempty"`
	BirthDate    string             `bson:"birthDate,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type projectDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Description      string             `bson:"description,omitempty"`
	OwnerID          string             `bson:"ownerId"`
	Members          []string           `bson:"members"`
	ManagementMethod string             `bson:"managementMethod"`
	StartDate        string             `bson:"startDate,omitempty"`
	EndDate          string             `bson:"endDate,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID   string             `bson:"projectId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"`
	Progress    float64            `bson:"progress"`
	Priority    string             `bson:"priority"`
	Type        string             `bson:"type"`
	Assignee    string             `bson:"assignee,omitempty"`
	Responsable string             `bson:"responsable"`
	StartDate   string             `bson:"startDate,omitempty"`
	EndDate     string             `bson:"endDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toModel() *user.User {
	return &user.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Profession:   d.Profession,
		BirthDate:    d.BirthDate,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (d *projectDoc) toModel() *project.Project {
	members := d.Members
	if members == nil {
		members = []string{}
	}
	return &project.Project{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		Description:      d.Description,
		OwnerID:          d.OwnerID,
		Members:          members,
		ManagementMethod: d.ManagementMethod,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (d *taskDoc) toModel() *task.Task {
	return &task.Task{
		ID:          d.ID.Hex(),
		ProjectID:   d.ProjectID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Progress:    task.Progress(d.Progress),
		Priority:    d.Priority,
		Type:        d.Type,
		Assignee:    d.Assignee,
		Responsable: d.Responsable,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
