package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/domain/repository"
)

const CollectionName = "users"

// UserRepository is a MongoDB implementation of UserRepository.
type UserRepository struct {
	coll *mongo.Collection
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique email index and the indexes backing the
// list query. It is idempotent.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{Keys: bson.D{{Key: "firstName", Value: 1}, {Key: "lastName", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	doc, err := toDocument(user)
	if err != nil {
		return nil, err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrEmailExists
		}
		return nil, err
	}
	return fromDocument(doc), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) List(ctx context.Context, query repository.ListQuery) ([]*entity.User, int64, error) {
	filter := searchFilter(query.Search)

	var (
		docs  []userDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.coll.Find(gctx, filter, findOptions(query))
		if err != nil {
			return err
		}
		return cursor.All(gctx, &docs)
	})
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, filter)
		total = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	users := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, fromDocument(d))
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch repository.UserPatch) (*entity.User, error) {
	return r.findOneAndSet(ctx, id, patchSet(patch))
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) (*entity.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"isActive": active, "updatedAt": at})
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}

	var doc userDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return fromDocument(doc), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return fromDocument(doc), nil
}

func (r *UserRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, entity.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, entity.ErrEmailExists
		}
		return nil, err
	}
	return fromDocument(doc), nil
}

// searchFilter matches search as a literal, case-insensitive substring of
// firstName, lastName or email.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"firstName": pattern},
		bson.M{"lastName": pattern},
		bson.M{"email": pattern},
	}}
}

func findOptions(query repository.ListQuery) *options.FindOptions {
	direction := 1
	if query.SortDesc {
		direction = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: query.SortBy, Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(int64(query.Skip())).
		SetLimit(int64(query.Limit))
}

func patchSet(patch repository.UserPatch) bson.M {
	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.FirstName != nil {
		set["firstName"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["lastName"] = *patch.LastName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Gender != nil {
		set["gender"] = *patch.Gender
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	return set
}
