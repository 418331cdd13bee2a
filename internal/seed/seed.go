package seed

import (
	"context"
	"fmt"
	"log"

	"devconnect/internal/models"
	"devconnect/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded user gets.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// Seed makes the generated content reproducible.
	Seed int64
}

// Result counts what was created.
type Result struct {
	Users    int
	Profiles int
	Posts    int
	Likes    int
	Comments int
}

// Seed populates the database with users, profiles, posts, likes and
// comments. Writes go through the repositories, so versioning and the
// one-like-per-user rule hold for seeded data too.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	var res Result
	log.Printf("🌱 Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := ClearAll(ctx, db); err != nil {
			return res, fmt.Errorf("clear data: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return res, fmt.Errorf("hash password: %w", err)
	}

	f := NewFactory(opts.Seed)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u := f.BuildUser(i, string(hash))
		if err := userRepo.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)

		if err := profileRepo.Create(ctx, f.BuildProfile(u.ID)); err != nil {
			return res, fmt.Errorf("create profile: %w", err)
		}
		res.Profiles++
	}
	res.Users = len(users)
	log.Printf("✓ %d users with profiles created", res.Users)

	if len(users) == 0 {
		return res, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		post := f.BuildPost(users[f.Intn(len(users))])
		if err := postRepo.Create(ctx, post); err != nil {
			return res, fmt.Errorf("create post: %w", err)
		}
		res.Posts++

		for _, u := range users {
			if f.Intn(3) == 0 && post.AddLike(u.ID) {
				res.Likes++
			}
		}
		for n := f.Intn(4); n > 0; n-- {
			post.AddComment(f.BuildComment(users[f.Intn(len(users))], post))
			res.Comments++
		}
		if len(post.Likes) > 0 || len(post.Comments) > 0 {
			if err := postRepo.Save(ctx, post); err != nil {
				return res, fmt.Errorf("save post engagement: %w", err)
			}
		}
	}
	log.Printf("✓ %d posts, %d likes, %d comments created", res.Posts, res.Likes, res.Comments)

	return res, nil
}

// ClearAll deletes every post, profile and user.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Post{}, &models.Profile{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
