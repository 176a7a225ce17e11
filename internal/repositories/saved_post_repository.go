package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/snapgram/backend/internal/models"
	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for saved post operations
type SavedPostRepository interface {
	SavePost(ctx context.Context, savedPost *models.SavedPost) (*models.SavedPost, error)
	GetSavedPost(ctx context.Context, id string) (*models.SavedPost, error)
	DeleteSavedPost(ctx context.Context, id string) error
	GetSavedPostsByUser(ctx context.Context, userID string) ([]models.SavedPost, error)
	DeleteSavedPostsByPostID(ctx context.Context, postID string) (int64, error)
}

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// SavePost inserts the join record, or returns the existing one when the
// (user, post) pair is already saved.
func (r *PostgresSavedPostRepository) SavePost(ctx context.Context, savedPost *models.SavedPost) (*models.SavedPost, error) {
	existing, err := r.find(ctx, savedPost.UserID, savedPost.PostID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := translate(r.db.WithContext(ctx).Create(savedPost).Error); err != nil {
		// Lost a race against a concurrent save of the same pair.
		if errors.Is(err, ErrDuplicate) {
			return r.find(ctx, savedPost.UserID, savedPost.PostID)
		}
		return nil, err
	}
	return savedPost, nil
}

func (r *PostgresSavedPostRepository) find(ctx context.Context, userID, postID string) (*models.SavedPost, error) {
	var saved models.SavedPost
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&saved).Error
	if err != nil {
		return nil, translate(err)
	}
	return &saved, nil
}

// GetSavedPost returns one save record, whether or not its post still exists.
func (r *PostgresSavedPostRepository) GetSavedPost(ctx context.Context, id string) (*models.SavedPost, error) {
	var saved models.SavedPost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&saved).Error; err != nil {
		return nil, translate(err)
	}
	return &saved, nil
}

func (r *PostgresSavedPostRepository) DeleteSavedPost(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSavedPostRepository) GetSavedPostsByUser(ctx context.Context, userID string) ([]models.SavedPost, error) {
	saved := []models.SavedPost{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&saved).Error
	return saved, err
}

// DeleteSavedPostsByPostID removes every save of a post and reports how many
// records went away.
func (r *PostgresSavedPostRepository) DeleteSavedPostsByPostID(ctx context.Context, postID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.SavedPost{})
	return res.RowsAffected, res.Error
}
