package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"contactdesk/internal/common"
)

var fixedNow = time.Date(2024, time.March, 13, 12, 30, 45, 123456789, time.UTC)

func newMockRepo(mt *mtest.T) *MongoSubmissionRepository {
	repo := NewSubmissionRepositoryFromCollection(mt.Coll)
	repo.now = func() time.Time { return fixedNow }
	return repo
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func submissionDoc(id primitive.ObjectID, name string, read bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: "someone@example.com"},
		{Key: "phone", Value: ""},
		{Key: "message", Value: "hello"},
		{Key: "read", Value: read},
		{Key: "status", Value: "new"},
		{Key: "ipAddress", Value: "unknown"},
		{Key: "userAgent", Value: "unknown"},
		{Key: "createdAt", Value: fixedNow.Truncate(time.Millisecond)},
		{Key: "updatedAt", Value: fixedNow.Truncate(time.Millisecond)},
	}
}

func TestMongoSubmissionRepository_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and timestamps", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s := &Submission{Name: "A", Email: "a@x.com", Message: "hi", Status: common.StatusNew}
		require.NoError(mt, repo.Insert(context.Background(), s))

		assert.False(mt, s.ID.IsZero())
		assert.Equal(mt, fixedNow.Truncate(time.Millisecond), s.CreatedAt)
		assert.Equal(mt, s.CreatedAt, s.UpdatedAt)
	})

	mt.Run("write error is a store error", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Insert(context.Background(), &Submission{Name: "A"})
		var se *common.StoreError
		require.True(mt, errors.As(err, &se))
		assert.Equal(mt, "insert", se.Op)
	})
}

func TestMongoSubmissionRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, submissionDoc(id, "Ada", true)))

		s, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, s.ID)
		assert.Equal(mt, "Ada", s.Name)
		assert.True(mt, s.Read)
		assert.Equal(mt, common.StatusNew, s.Status)
		assert.True(mt, fixedNow.Truncate(time.Millisecond).Equal(s.CreatedAt))
	})

	mt.Run("missing document", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, common.IsNotFound(err))
	})

	mt.Run("malformed id never hits the store", func(mt *mtest.T) {
		repo := newMockRepo(mt)

		_, err := repo.FindByID(context.Background(), "12345")
		assert.True(mt, common.IsNotFound(err))
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.False(mt, common.IsNotFound(err))
		var se *common.StoreError
		assert.True(mt, errors.As(err, &se))
	})
}

func TestMongoSubmissionRepository_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes the batch", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			submissionDoc(first, "Ada", false),
			submissionDoc(second, "Bob", true),
		))

		items, err := repo.Find(context.Background(), SubmissionFilter{Search: "a"}, FindOptions{
			SortBy: SortByName, Skip: 0, Limit: 10,
		})
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, first, items[0].ID)
		assert.Equal(mt, "Bob", items[1].Name)
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		items, err := repo.Find(context.Background(), SubmissionFilter{}, FindOptions{SortBy: SortByCreatedAt, Desc: true, Limit: 10})
		require.NoError(mt, err)
		assert.NotNil(mt, items)
		assert.Empty(mt, items)
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad sort", Name: "BadValue"}))

		_, err := repo.Find(context.Background(), SubmissionFilter{}, FindOptions{SortBy: SortByCreatedAt, Limit: 10})
		assert.Error(mt, err)
	})
}

func TestMongoSubmissionRepository_Counts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	countResponse := func(mt *mtest.T, n int32) bson.D {
		return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
	}

	mt.Run("count with filter", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(countResponse(mt, 7))

		n, err := repo.Count(context.Background(), SubmissionFilter{Read: common.ReadFilterUnread})
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), n)
	})

	mt.Run("count created since", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(countResponse(mt, 3))

		n, err := repo.CountCreatedSince(context.Background(), fixedNow.Add(-24*time.Hour))
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("count unread", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(countResponse(mt, 4))

		n, err := repo.CountUnread(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), n)
	})

	mt.Run("count failure", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 50, Message: "operation exceeded time limit", Name: "MaxTimeMSExpired"}))

		_, err := repo.Count(context.Background(), SubmissionFilter{})
		var se *common.StoreError
		assert.True(mt, errors.As(err, &se))
	})
}

func TestMongoSubmissionRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the updated document", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: submissionDoc(id, "Ada", true)}))

		read := true
		s, err := repo.Update(context.Background(), id.Hex(), FieldChanges{Read: &read})
		require.NoError(mt, err)
		assert.Equal(mt, id, s.ID)
		assert.True(mt, s.Read)
	})

	mt.Run("no matching document", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		read := true
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), FieldChanges{Read: &read})
		assert.True(mt, common.IsNotFound(err))
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := newMockRepo(mt)

		_, err := repo.Update(context.Background(), "zzz", FieldChanges{})
		assert.True(mt, common.IsNotFound(err))
	})
}

func TestMongoSubmissionRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("nothing deleted", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, common.IsNotFound(err))
	})
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter SubmissionFilter
		want   bson.M
	}{
		{"all", SubmissionFilter{Read: common.ReadFilterAll}, bson.M{}},
		{"zero value", SubmissionFilter{}, bson.M{}},
		{"read", SubmissionFilter{Read: common.ReadFilterRead}, bson.M{"read": true}},
		{"unread", SubmissionFilter{Read: common.ReadFilterUnread}, bson.M{"read": false}},
		{
			"search escapes regex metacharacters",
			SubmissionFilter{Search: "a.b*(c)"},
			bson.M{"$or": bson.A{
				bson.M{"name": primitive.Regex{Pattern: `a\.b\*\(c\)`, Options: "i"}},
				bson.M{"email": primitive.Regex{Pattern: `a\.b\*\(c\)`, Options: "i"}},
				bson.M{"message": primitive.Regex{Pattern: `a\.b\*\(c\)`, Options: "i"}},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildFilter(tc.filter))
		})
	}
}

func TestChangeSet(t *testing.T) {
	name := "Ada"
	read := true
	status := common.StatusClosed

	set := changeSet(FieldChanges{Name: &name, Read: &read, Status: &status})
	assert.Equal(t, bson.M{"name": "Ada", "read": true, "status": common.StatusClosed}, set)
	assert.Empty(t, changeSet(FieldChanges{}))
}
