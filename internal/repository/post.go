package repository

import (
	"context"

	"devconnect/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]*models.Post, error)
	// Save persists the post's likes and comments if nobody else saved it
	// since it was read. On success post.Version is advanced.
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, done := observe(ctx, "Create", "posts")
	defer func() { done(err) }()

	post.Version = 1
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, done := observe(ctx, "GetByID", "posts")
	defer func() { done(err) }()

	var p models.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "Post not found")
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context) (posts []*models.Post, err error) {
	ctx, done := observe(ctx, "List", "posts")
	defer func() { done(err) }()

	posts = []*models.Post{}
	if err := r.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) (err error) {
	ctx, done := observe(ctx, "Save", "posts")
	defer func() { done(err) }()

	row := *post
	row.Version = post.Version + 1
	if err := versionedUpdate(r.db.WithContext(ctx), &models.Post{}, &row, post.ID, post.Version, "Post",
		"likes", "comments"); err != nil {
		return err
	}
	post.Version = row.Version
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := observe(ctx, "Delete", "posts")
	defer func() { done(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post not found")
	}
	return nil
}
