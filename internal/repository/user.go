package repository

import (
	"context"
	"errors"

	"devconnect/internal/cache"
	"devconnect/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByEmail returns (nil, nil) when no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// DeleteAccount removes the user's posts, profile and the user itself in
	// one transaction.
	DeleteAccount(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, done := observe(ctx, "GetByID", "users")
	defer func() { done(err) }()

	return cache.Aside(ctx, cache.UserKey(id), cache.UserTTL, func(ctx context.Context) (*models.User, error) {
		var u models.User
		if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
			return nil, notFoundOr(err, "User not found")
		}
		return &u, nil
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, done := observe(ctx, "GetByEmail", "users")
	defer func() { done(err) }()

	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, done := observe(ctx, "Create", "users")
	defer func() { done(err) }()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) DeleteAccount(ctx context.Context, id uint) (err error) {
	ctx, done := observe(ctx, "DeleteAccount", "users")
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, id)
	return nil
}
