// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"devconnect/internal/models"
	"devconnect/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Factory builds domain entities with fake but plausible content. It does
// not persist anything.
type Factory struct {
	fake *gofakeit.Faker
	now  time.Time
}

// NewFactory returns a Factory. The same seed yields the same content.
func NewFactory(seed int64) *Factory {
	return &Factory{fake: gofakeit.New(seed), now: time.Now().UTC()}
}

// BuildUser returns an unsaved user. passwordHash is stored as is; n keeps
// the email unique across a run.
func (f *Factory) BuildUser(n int, passwordHash string) *models.User {
	name := f.fake.Name()
	email := fmt.Sprintf("%s.%d@devconnect.test", strings.ToLower(f.fake.Username()), n)
	return &models.User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Avatar:   validation.GravatarURL(email),
	}
}

// BuildProfile returns an unsaved profile for userID with a few experience
// and education entries.
func (f *Factory) BuildProfile(userID uint) *models.Profile {
	skills := make([]string, 0, 4)
	for i := 0; i < 2+f.fake.Number(0, 3); i++ {
		skills = append(skills, f.fake.ProgrammingLanguage())
	}

	p := &models.Profile{
		UserID:         userID,
		Company:        f.fake.Company(),
		Website:        f.fake.URL(),
		Location:       f.fake.City(),
		Status:         f.fake.JobTitle(),
		Skills:         skills,
		Bio:            f.fake.Sentence(12),
		GithubUsername: strings.ToLower(f.fake.Username()),
		Experience:     []models.Experience{},
		Education:      []models.Education{},
		Social: models.Social{
			Twitter:  "https://twitter.com/" + strings.ToLower(f.fake.Username()),
			LinkedIn: "https://linkedin.com/in/" + strings.ToLower(f.fake.Username()),
		},
	}

	for i := 0; i < f.fake.Number(1, 3); i++ {
		from := f.pastDate(10 * 365)
		p.AddExperience(models.Experience{
			ID:          uuid.NewString(),
			Title:       f.fake.JobTitle(),
			Company:     f.fake.Company(),
			Location:    f.fake.City(),
			From:        from,
			Current:     i == 0,
			Description: f.fake.Sentence(8),
		})
	}

	from := f.pastDate(15 * 365)
	to := from.AddDate(4, 0, 0)
	p.AddEducation(models.Education{
		ID:           uuid.NewString(),
		School:       f.fake.Company() + " University",
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         from,
		To:           &to,
	})
	return p
}

// BuildPost returns an unsaved post by author, dated within the last 90 days.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	return &models.Post{
		UserID: author.ID,
		Text:   f.fake.Paragraph(1, 3, 12, " "),
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   f.pastDate(90).Truncate(time.Microsecond),
	}
}

// BuildComment returns a comment by author written after post.
func (f *Factory) BuildComment(author *models.User, post *models.Post) models.Comment {
	return models.Comment{
		ID:     uuid.NewString(),
		User:   author.ID,
		Text:   f.fake.Sentence(8),
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   post.Date.Add(time.Duration(f.fake.Number(1, 72)) * time.Hour),
	}
}

// Intn returns a pseudo-random int in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.fake.Number(0, n-1)
}

func (f *Factory) pastDate(maxDays int) time.Time {
	return f.now.Add(-time.Duration(f.fake.Number(0, maxDays*24)) * time.Hour)
}
