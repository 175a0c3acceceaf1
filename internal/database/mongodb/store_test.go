package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
	"github.com/redmonkez12/visionise-api/internal/user"
)

func newMockStore(mt *mtest.T) *Store {
	return &Store{client: mt.Client, db: mt.DB}
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create returns the generated id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		created, err := newMockStore(mt).Users().Create(ctx, &user.User{Email: "a@x.com", PasswordHash: "h"})
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(created.ID))
		assert.Equal(mt, "a@x.com", created.Email)
	})

	mt.Run("duplicate key maps to duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: visionise.users index: email_unique",
		}))

		_, err := newMockStore(mt).Users().Create(ctx, &user.User{Email: "a@x.com", PasswordHash: "h"})
		assert.ErrorIs(mt, err, user.ErrDuplicateEmail)
	})

	mt.Run("unknown email is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch))

		_, err := newMockStore(mt).Users().GetByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(mt, err, user.ErrNotFound)
	})

	mt.Run("found by email", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "email", Value: "a@x.com"},
			{Key: "passwordHash", Value: "h"},
			{Key: "firstName", Value: "Ada"},
		}))

		u, err := newMockStore(mt).Users().GetByEmail(ctx, "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), u.ID)
		assert.Equal(mt, "Ada", u.FirstName)
		assert.Equal(mt, "h", u.PasswordHash)
	})

	mt.Run("unparseable id never reaches the server", func(mt *mtest.T) {
		_, err := newMockStore(mt).Users().GetByID(ctx, "not-an-object-id")
		assert.ErrorIs(mt, err, user.ErrNotFound)
		assert.Empty(mt, mt.GetAllStartedEvents())
	})
}

func TestProjectRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create stores empty members", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		created, err := newMockStore(mt).Projects().Create(ctx, &project.Project{Title: "P", OwnerID: "u1", ManagementMethod: "Kanban"})
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(created.ID))
		assert.Equal(mt, []string{}, created.Members)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		members := evt.Command.Lookup("documents", "0", "members")
		assert.Equal(mt, bson.TypeArray, members.Type)
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, projectsCollection), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "A"}, {Key: "ownerId", Value: "u1"}, {Key: "createdAt", Value: now}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "B"}, {Key: "ownerId", Value: "u1"}, {Key: "members", Value: bson.A{"u2"}}},
		))

		projects, err := newMockStore(mt).Projects().ListByOwner(ctx, "u1")
		require.NoError(mt, err)
		require.Len(mt, projects, 2)
		assert.Equal(mt, first.Hex(), projects[0].ID)
		assert.Equal(mt, []string{}, projects[0].Members)
		assert.True(mt, now.Equal(projects[0].CreatedAt))
		assert.Equal(mt, []string{"u2"}, projects[1].Members)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "u1", evt.Command.Lookup("filter", "ownerId").StringValue())
		assert.Equal(mt, int32(1), evt.Command.Lookup("sort", "createdAt").Int32())
	})

	mt.Run("update of unknown id is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		title := "T"
		_, err := newMockStore(mt).Projects().Update(ctx, primitive.NewObjectID().Hex(), project.Update{Title: &title})
		assert.ErrorIs(mt, err, project.ErrNotFound)
	})

	mt.Run("update sets only present fields and returns the new document", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "New"},
			{Key: "description", Value: "kept"},
		}}))

		title := "New"
		updated, err := newMockStore(mt).Projects().Update(ctx, oid.Hex(), project.Update{Title: &title})
		require.NoError(mt, err)
		assert.Equal(mt, "New", updated.Title)
		assert.Equal(mt, "kept", updated.Description)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		set := evt.Command.Lookup("update", "$set").Document()
		assert.Equal(mt, "New", set.Lookup("title").StringValue())
		_, err = set.LookupErr("description")
		assert.Error(mt, err)
		assert.True(mt, evt.Command.Lookup("new").Boolean())
	})

	mt.Run("unparseable ids match nothing", func(mt *mtest.T) {
		repo := newMockStore(mt).Projects()

		_, err := repo.GetByID(ctx, "42")
		assert.ErrorIs(mt, err, project.ErrNotFound)
		_, err = repo.Update(ctx, "42", project.Update{})
		assert.ErrorIs(mt, err, project.ErrNotFound)
		assert.NoError(mt, repo.Delete(ctx, "42"))
		assert.NoError(mt, repo.AddMember(ctx, "42", "u1"))
		assert.NoError(mt, repo.RemoveMember(ctx, "42", "u1"))

		assert.Empty(mt, mt.GetAllStartedEvents())
	})

	mt.Run("members use set operators", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)
		repo := newMockStore(mt).Projects()

		require.NoError(mt, repo.AddMember(ctx, oid.Hex(), "u2"))
		require.NoError(mt, repo.AddMember(ctx, oid.Hex(), "u2"))
		require.NoError(mt, repo.RemoveMember(ctx, oid.Hex(), "u2"))

		for _, op := range []string{"$addToSet", "$addToSet", "$pull"} {
			evt := mt.GetStartedEvent()
			require.NotNil(mt, evt)
			assert.Equal(mt, "update", evt.CommandName)
			assert.Equal(mt, "u2", evt.Command.Lookup("updates", "0", "u", op, "members").StringValue())
			assert.Equal(mt, oid, evt.Command.Lookup("updates", "0", "q", "_id").ObjectID())
		}
	})

	mt.Run("backfill counts modified projects", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		n, err := newMockStore(mt).Projects().BackfillManagementMethod(ctx, project.DefaultManagementMethod)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, project.DefaultManagementMethod,
			evt.Command.Lookup("updates", "0", "u", "$set", "managementMethod").StringValue())
		assert.True(mt, evt.Command.Lookup("updates", "0", "multi").Boolean())
	})
}

func TestTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create keeps progress", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		created, err := newMockStore(mt).Tasks().Create(ctx, &task.Task{ProjectID: "p1", Title: "T", Progress: 40})
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(created.ID))
		assert.Equal(mt, task.Progress(40), created.Progress)
	})

	mt.Run("update of unknown id is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		status := "Completed"
		_, err := newMockStore(mt).Tasks().Update(ctx, primitive.NewObjectID().Hex(), task.Update{Status: &status})
		assert.ErrorIs(mt, err, task.ErrNotFound)
	})

	mt.Run("update writes progress as a number", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "T"},
			{Key: "progress", Value: 75.0},
		}}))

		progress := task.Progress(75)
		updated, err := newMockStore(mt).Tasks().Update(ctx, oid.Hex(), task.Update{Progress: &progress})
		require.NoError(mt, err)
		assert.Equal(mt, task.Progress(75), updated.Progress)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, 75.0, evt.Command.Lookup("update", "$set", "progress").Double())
	})

	mt.Run("delete by project reports the count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := newMockStore(mt).Tasks().DeleteByProject(ctx, "p1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("unparseable ids match nothing", func(mt *mtest.T) {
		repo := newMockStore(mt).Tasks()

		_, err := repo.Update(ctx, "nope", task.Update{})
		assert.ErrorIs(mt, err, task.ErrNotFound)
		assert.NoError(mt, repo.Delete(ctx, "nope"))
		assert.Empty(mt, mt.GetAllStartedEvents())
	})
}

func TestStore_Migrate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates the unique email index then backfills", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		require.NoError(mt, newMockStore(mt).Migrate(context.Background()))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)
		assert.Equal(mt, usersCollection, evt.Command.Lookup("createIndexes").StringValue())
		assert.Equal(mt, "email_unique", evt.Command.Lookup("indexes", "0", "name").StringValue())
		assert.True(mt, evt.Command.Lookup("indexes", "0", "unique").Boolean())

		names := []string{evt.CommandName}
		for _, e := range mt.GetAllStartedEvents() {
			names = append(names, e.CommandName)
		}
		assert.Equal(mt, []string{"createIndexes", "createIndexes", "createIndexes", "update"}, names)
	})

	mt.Run("index failure stops the migration", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error",
			Name:    "DuplicateKey",
		}))

		err := newMockStore(mt).Migrate(context.Background())
		assert.ErrorContains(mt, err, "email index")
	})
}

func TestSetFields(t *testing.T) {
	title := "T"
	set := setFields(bson.D{{Key: "updatedAt", Value: 1}}, map[string]*string{
		"title":       &title,
		"description": nil,
	})

	assert.Len(t, set, 2)
	assert.Equal(t, "updatedAt", set[0].Key)
	assert.Equal(t, bson.E{Key: "title", Value: "T"}, set[1])
}
