package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	GetPostsByCreator(ctx context.Context, creatorID string, limit int64) ([]models.Post, error)
	GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error)
	GetPostsAfter(ctx context.Context, cursor string, limit int64) ([]models.Post, error)
	SearchPosts(ctx context.Context, term string, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	SetLikes(ctx context.Context, id string, likes []string) (*models.Post, error)
	ToggleLike(ctx context.Context, id, userID string) (*models.Post, bool, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts"), now: time.Now}
}

// EnsureIndexes creates the caption text index used by search and the
// ordering indexes used by the feeds.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "caption", Value: "text"}}, Options: options.Index().SetName("caption_text")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "creator", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}
	return nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := r.now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		return nil, translateMongo(err)
	}
	return &post, nil
}

// GetPostsByIDs returns the posts that still exist among ids. Malformed and
// missing ids are skipped.
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, options.Find())
}

// GetPostsByCreator retrieves posts by a specific user, newest first
func (r *MongoPostRepository) GetPostsByCreator(ctx context.Context, creatorID string, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, bson.M{"creator": creatorID}, findOptions)
}

// GetRecentPosts returns the newest posts by creation time
func (r *MongoPostRepository) GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.D{}, findOptions)
}

// GetPostsAfter pages through posts by last update, newest first. With a
// cursor only posts strictly after the cursor post in that order are
// returned; ties on updatedAt are broken by id.
func (r *MongoPostRepository) GetPostsAfter(ctx context.Context, cursor string, limit int64) ([]models.Post, error) {
	filter := bson.M{}
	if cursor != "" {
		after, err := r.GetPostByID(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor %q: %w", cursor, err)
		}
		filter = bson.M{"$or": bson.A{
			bson.M{"updatedAt": bson.M{"$lt": after.UpdatedAt}},
			bson.M{"updatedAt": after.UpdatedAt, "_id": bson.M{"$lt": after.ID}},
		}}
	}

	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, filter, findOptions)
}

// SearchPosts runs a full-text search over captions
func (r *MongoPostRepository) SearchPosts(ctx context.Context, term string, limit int64) ([]models.Post, error) {
	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, bson.M{"$text": bson.M{"$search": term}}, findOptions)
}

// UpdatePost overwrites the editable fields of a post and returns the result
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"caption":   post.Caption,
			"imageUrl":  post.ImageURL,
			"imageId":   post.ImageID,
			"location":  post.Location,
			"tags":      tags,
			"updatedAt": r.now().UTC(),
		},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": post.ID}, update)
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLikes replaces the likers of a post wholesale. Concurrent writers
// overwrite each other.
func (r *MongoPostRepository) SetLikes(ctx context.Context, id string, likes []string) (*models.Post, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if likes == nil {
		likes = []string{}
	}
	update := bson.M{"$set": bson.M{"likes": likes, "updatedAt": r.now().UTC()}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": objID}, update)
}

// toggleAttempts bounds how often ToggleLike retries when a concurrent toggle
// by the same user flips the likers between its two updates.
const toggleAttempts = 3

// ToggleLike removes userID from the likers if present, otherwise adds it.
// Each branch is a single atomic update, so toggles by different users never
// overwrite each other. The returned bool is true when the post ends up liked.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Post, bool, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, false, err
	}

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		now := r.now().UTC()
		post, err := r.findOneAndUpdate(ctx,
			bson.M{"_id": objID, "likes": userID},
			bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now}},
		)
		if err == nil {
			return post, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}

		post, err = r.findOneAndUpdate(ctx,
			bson.M{"_id": objID, "likes": bson.M{"$ne": userID}},
			bson.M{"$addToSet": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now}},
		)
		if err == nil {
			return post, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}

		// Neither filter matched: the post is gone, or the same user's
		// concurrent toggle added the like in between.
		if _, err := r.GetPostByID(ctx, id); err != nil {
			return nil, false, err
		}
	}
	return nil, false, fmt.Errorf("toggle like on post %s: %w", id, ErrConflict)
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, findOptions *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, filter, update interface{}) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post); err != nil {
		return nil, translateMongo(err)
	}
	return &post, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}

func translateMongo(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
