package repository

import (
	"context"

	"devconnect/internal/models"
	"devconnect/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles. Reads
// populate Profile.User with the owner's id, name and avatar.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	// Save persists every profile field if nobody else saved the profile
	// since it was read. On success profile.Version is advanced.
	Save(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

var profileColumns = []string{
	"company", "website", "location", "status", "skills", "bio",
	"github_username", "experience", "education", "social",
}

func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "avatar")
	})
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (profile *models.Profile, err error) {
	ctx, done := observe(ctx, "GetByUserID", "profiles")
	defer func() { done(err) }()

	var p models.Profile
	if err := withOwner(r.db.WithContext(ctx)).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, notFoundOr(err, "Profile not found")
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) (profiles []*models.Profile, err error) {
	ctx, done := observe(ctx, "List", "profiles")
	defer func() { done(err) }()

	profiles = []*models.Profile{}
	if err := withOwner(r.db.WithContext(ctx)).Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) (err error) {
	ctx, done := observe(ctx, "Create", "profiles")
	defer func() { done(err) }()

	profile.Version = 1
	row := *profile
	row.User = nil
	if err := r.db.WithContext(ctx).Omit("User").Create(&row).Error; err != nil {
		if isUniqueConstraintError(err) {
			observability.RecordStaleWrite("Profile")
			return models.NewStaleWriteError("Profile", ErrStaleWrite)
		}
		return models.NewInternalError(err)
	}
	profile.ID = row.ID
	profile.Date = row.Date
	return nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) (err error) {
	ctx, done := observe(ctx, "Save", "profiles")
	defer func() { done(err) }()

	row := *profile
	row.User = nil
	row.Version = profile.Version + 1
	if err := versionedUpdate(r.db.WithContext(ctx).Omit("User"), &models.Profile{}, &row, profile.ID, profile.Version, "Profile",
		profileColumns...); err != nil {
		return err
	}
	profile.Version = row.Version
	return nil
}
