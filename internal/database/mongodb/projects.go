package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/redmonkez12/visionise-api/internal/project"
)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	coll *mongo.Collection
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	now := time.Now().UTC()
	members := p.Members
	if members == nil {
		members = []string{}
	}
	doc := &projectDoc{
		Title:            p.Title,
		Description:      p.Description,
		OwnerID:          p.OwnerID,
		Members:          members,
		ManagementMethod: p.ManagementMethod,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	if oid, ok := insertedID(res); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	projects := make([]project.Project, 0, len(docs))
	for i := range docs {
		projects = append(projects, *docs[i].toModel())
	}
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, project.ErrNotFound
	}

	var doc projectDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, project.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return doc.toModel(), nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, upd project.Update) (*project.Project, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, project.ErrNotFound
	}

	set := setFields(bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}, map[string]*string{
		"title":            upd.Title,
		"description":      upd.Description,
		"managementMethod": upd.ManagementMethod,
		"startDate":        upd.StartDate,
		"endDate":          upd.EndDate,
	})

	var doc projectDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, project.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return doc.toModel(), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember uses $addToSet so a member is stored at most once
func (r *ProjectRepository) AddMember(ctx context.Context, id, userID string) error {
	return r.updateMembers(ctx, id, "$addToSet", userID)
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, id, userID string) error {
	return r.updateMembers(ctx, id, "$pull", userID)
}

func (r *ProjectRepository) updateMembers(ctx context.Context, id, op, userID string) error {
	oid, ok := parseID(id)
	if !ok {
		return nil
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.D{
		{Key: op, Value: bson.M{"members": userID}},
		{Key: "$set", Value: bson.M{"updatedAt": time.Now().UTC()}},
	})
	if err != nil {
		return fmt.Errorf("failed to update project members: %w", err)
	}
	return nil
}

// BackfillManagementMethod sets method on projects that have none
func (r *ProjectRepository) BackfillManagementMethod(ctx context.Context, method string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"managementMethod": bson.M{"$exists": false}},
			bson.M{"managementMethod": ""},
			bson.M{"managementMethod": nil},
		}},
		bson.M{"$set": bson.M{"managementMethod": method}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill management method: %w", err)
	}
	return res.ModifiedCount, nil
}

func insertedID(res *mongo.InsertOneResult) (primitive.ObjectID, bool) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	return oid, ok
}
