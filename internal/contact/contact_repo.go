package contact

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contactdesk/internal/common"
	"contactdesk/internal/dbmongo"
)

//go:generate mockgen -source=contact_repo.go -destination=mock_contact_repo.go -package=contact

type SubmissionRepository interface {
	Insert(ctx context.Context, s *Submission) error
	FindByID(ctx context.Context, id string) (*Submission, error)
	Find(ctx context.Context, filter SubmissionFilter, opts FindOptions) ([]Submission, error)
	Count(ctx context.Context, filter SubmissionFilter) (int64, error)
	Update(ctx context.Context, id string, changes FieldChanges) (*Submission, error)
	Delete(ctx context.Context, id string) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type MongoSubmissionRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewSubmissionRepository(mc *dbmongo.MongoClient) *MongoSubmissionRepository {
	return NewSubmissionRepositoryFromCollection(mc.Submission)
}

func NewSubmissionRepositoryFromCollection(coll *mongo.Collection) *MongoSubmissionRepository {
	return &MongoSubmissionRepository{coll: coll, now: time.Now}
}

// timestamps are stored at the millisecond precision BSON dates keep
func (r *MongoSubmissionRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func (r *MongoSubmissionRepository) Insert(ctx context.Context, s *Submission) error {
	now := r.timestamp()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return common.WrapStore("insert", err)
	}
	return nil
}

func (r *MongoSubmissionRepository) FindByID(ctx context.Context, id string) (*Submission, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var s Submission
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapStore("find", err)
	}
	return &s, nil
}

func (r *MongoSubmissionRepository) Find(ctx context.Context, filter SubmissionFilter, opts FindOptions) ([]Submission, error) {
	dir := 1
	if opts.Desc {
		dir = -1
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: string(opts.SortBy), Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(opts.Skip).
		SetLimit(opts.Limit)

	cursor, err := r.coll.Find(ctx, buildFilter(filter), findOpts)
	if err != nil {
		return nil, common.WrapStore("list", err)
	}
	defer cursor.Close(ctx)

	items := make([]Submission, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, common.WrapStore("list", err)
	}
	return items, nil
}

func (r *MongoSubmissionRepository) Count(ctx context.Context, filter SubmissionFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, common.WrapStore("count", err)
	}
	return n, nil
}

// Update applies changes in one findAndModify and returns the document as
// it is afterwards. updatedAt is always refreshed.
func (r *MongoSubmissionRepository) Update(ctx context.Context, id string, changes FieldChanges) (*Submission, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := changeSet(changes)
	set["updatedAt"] = r.timestamp()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s Submission
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapStore("update", err)
	}
	return &s, nil
}

func (r *MongoSubmissionRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return common.WrapStore("delete", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *MongoSubmissionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, common.WrapStore("count", err)
	}
	return n, nil
}

func (r *MongoSubmissionRepository) CountUnread(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"read": false})
	if err != nil {
		return 0, common.WrapStore("count", err)
	}
	return n, nil
}

// a malformed id can never match a document, so it is reported as not found
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", id, common.ErrNotFound)
	}
	return oid, nil
}

// buildFilter turns a SubmissionFilter into the query document. The search
// term is matched literally, case-insensitively, against name, email and
// message.
func buildFilter(f SubmissionFilter) bson.M {
	filter := bson.M{}

	switch f.Read {
	case common.ReadFilterRead:
		filter["read"] = true
	case common.ReadFilterUnread:
		filter["read"] = false
	}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"message": pattern},
		}
	}
	return filter
}

func changeSet(c FieldChanges) bson.M {
	set := bson.M{}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.Email != nil {
		set["email"] = *c.Email
	}
	if c.Phone != nil {
		set["phone"] = *c.Phone
	}
	if c.Message != nil {
		set["message"] = *c.Message
	}
	if c.Read != nil {
		set["read"] = *c.Read
	}
	if c.Status != nil {
		set["status"] = *c.Status
	}
	return set
}
