package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/socialpet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ProfileUpdate carries the optional fields of a partial profile update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Username *string
	Avatar   *string
	Bio      *string
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	IsUsernameTaken(ctx context.Context, username string, exceptID primitive.ObjectID) (bool, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error)
	ToggleFollow(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.User, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(client *mongo.Client, db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{client: client, collection: db.Collection("users")}
}

// EnsureIndexes creates the unique indexes on email and username. Called once
// at startup; duplicate-key failures on insert map to the same conflict the
// pre-insert check reports.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// CreateUser inserts a new user document.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByEmail retrieves a user by email.
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByEmailOrUsername retrieves a user matching either field; used as the
// registration conflict check.
func (r *MongoUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"username": username}}})
}

// IsUsernameTaken reports whether another user than exceptID already holds
// the username.
func (r *MongoUserRepository) IsUsernameTaken(ctx context.Context, username string, exceptID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"username": username,
		"_id":      bson.M{"$ne": exceptID},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile applies a partial $set update and returns the updated user.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}

	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ToggleFollow flips the follow edge between actor and target. Both sides of
// the edge (actor.following, target.followers) are written inside a single
// session transaction so a partial update can never be observed. Returns the
// updated actor.
func (r *MongoUserRepository) ToggleFollow(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.User, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		actor, err := r.findOne(sc, bson.M{"_id": actorID})
		if err != nil {
			return nil, err
		}
		if _, err := r.findOne(sc, bson.M{"_id": targetID}); err != nil {
			return nil, err
		}

		edgeOp := "$addToSet"
		if actor.IsFollowing(targetID) {
			edgeOp = "$pull"
		}

		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": actorID},
			bson.M{edgeOp: bson.M{"following": targetID}}); err != nil {
			return nil, err
		}
		if _, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID},
			bson.M{edgeOp: bson.M{"followers": actorID}}); err != nil {
			return nil, err
		}

		return r.findOne(sc, bson.M{"_id": actorID})
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

// Summaries resolves a batch of user ids to their public summaries.
func (r *MongoUserRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1, "avatar": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.UserSummary
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = u
	}
	return summaries, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
