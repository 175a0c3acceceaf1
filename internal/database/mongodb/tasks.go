package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/redmonkez12/visionise-api/internal/task"
)

// TaskRepository implements task.Repository
type TaskRepository struct {
	coll *mongo.Collection
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	now := time.Now().UTC()
	doc := &taskDoc{
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

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	if oid, ok := insertedID(res); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]task.Task, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"projectId": projectID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, *docs[i].toModel())
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, upd task.Update) (*task.Task, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, task.ErrNotFound
	}

	set := setFields(bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}, map[string]*string{
		"title":       upd.Title,
		"description": upd.Description,
		"status":      upd.Status,
		"priority":    upd.Priority,
		"type":        upd.Type,
		"assignee":    upd.Assignee,
		"responsable": upd.Responsable,
		"startDate":   upd.StartDate,
		"endDate":     upd.EndDate,
	})
	if upd.Progress != nil {
		set = append(set, bson.E{Key: "progress", Value: float64(*upd.Progress)})
	}

	var doc taskDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return doc.toModel(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteByProject removes every task that references projectID
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return res.DeletedCount, nil
}
