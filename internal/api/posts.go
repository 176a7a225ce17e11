package api

import (
	"context"
	"fmt"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreatePost stores the image and then writes the post. If the write fails
// the uploaded image is deleted.
func (a *API) CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	const op = "CreatePost"
	if in.UserID == "" {
		return nil, a.invalid(op, "creator is required")
	}

	stored, err := a.storeImage(ctx, op, in.File)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Creator:  in.UserID,
		Caption:  in.Caption,
		ImageURL: stored.url,
		ImageID:  stored.file.ID,
		Location: in.Location,
		Tags:     SplitTags(in.Tags),
		Likes:    []string{},
	}
	if err := a.posts.CreatePost(ctx, post); err != nil {
		a.discardFile(ctx, op, stored.file.ID)
		return nil, a.fail(op, err)
	}
	return post, nil
}

// UpdatePost rewrites the editable fields of a post. The image is replaced
// only when a file is attached.
func (a *API) UpdatePost(ctx context.Context, in models.UpdatePost) (*models.Post, error) {
	const op = "UpdatePost"
	objID, err := primitive.ObjectIDFromHex(in.PostID)
	if err != nil {
		return nil, a.fail(op, fmt.Errorf("%w: %q", repositories.ErrInvalidID, in.PostID))
	}

	post := &models.Post{
		ID:       objID,
		Caption:  in.Caption,
		ImageID:  in.ImageID,
		ImageURL: in.ImageURL,
		Location: in.Location,
		Tags:     SplitTags(in.Tags),
	}

	var stored *storedFile
	if in.File != nil {
		if stored, err = a.storeImage(ctx, op, in.File); err != nil {
			return nil, err
		}
		post.ImageID = stored.file.ID
		post.ImageURL = stored.url
	}

	updated, err := a.posts.UpdatePost(ctx, post)
	if err != nil {
		if stored != nil {
			a.discardFile(ctx, op, stored.file.ID)
		}
		return nil, a.fail(op, err)
	}
	if stored != nil && in.ImageID != "" {
		a.discardFile(ctx, op, in.ImageID)
	}
	return updated, nil
}

// DeletePost removes a post, then its image and every save pointing at it.
func (a *API) DeletePost(ctx context.Context, postID, imageID string) error {
	const op = "DeletePost"
	if postID == "" || imageID == "" {
		return a.invalid(op, "post id and image id are required")
	}

	if err := a.posts.DeletePost(ctx, postID); err != nil {
		return a.fail(op, err)
	}
	a.discardFile(ctx, op, imageID)

	removed, err := a.saves.DeleteSavedPostsByPostID(context.WithoutCancel(ctx), postID)
	if err != nil {
		a.logger.Warn("failed to delete saves of post",
			zap.String("op", op),
			zap.String("post_id", postID),
			zap.Error(err),
		)
	} else if removed > 0 {
		a.logger.Debug("deleted saves of post", zap.String("post_id", postID), zap.Int64("count", removed))
	}
	return nil
}

func (a *API) GetPostByID(ctx context.Context, postID string) (*models.Post, error) {
	post, err := a.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, a.fail("GetPostByID", err)
	}
	return post, nil
}

// GetUserPosts lists the posts of one creator, newest first.
func (a *API) GetUserPosts(ctx context.Context, creatorID string) ([]models.Post, error) {
	if creatorID == "" {
		return []models.Post{}, nil
	}
	posts, err := a.posts.GetPostsByCreator(ctx, creatorID, 0)
	if err != nil {
		return nil, a.fail("GetUserPosts", err)
	}
	return posts, nil
}
