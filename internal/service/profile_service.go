package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnect/internal/github"
	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/validation"

	"github.com/google/uuid"
)

const errNoProfileYet = "Profile not found. Please create a profile first."

// RepoFetcher lists a GitHub user's newest public repositories.
type RepoFetcher interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	repos       RepoFetcher
}

// UpsertProfileInput carries the profile form. Status and Skills are always
// required; every other field overwrites the stored value only when present.
type UpsertProfileInput struct {
	UserID         uint    `json:"-"`
	Status         string  `json:"status" validate:"required"`
	Skills         string  `json:"skills" validate:"required"`
	Company        *string `json:"company"`
	Website        *string `json:"website" validate:"omitempty,url"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

type AddExperienceInput struct {
	UserID      uint   `json:"-"`
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,date"`
	To          string `json:"to" validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type AddEducationInput struct {
	UserID       uint   `json:"-"`
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required,date"`
	To           string `json:"to" validate:"omitempty,date"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository, repos RepoFetcher) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo, repos: repos}
}

// GetMyProfile returns the caller's profile.
func (s *ProfileService) GetMyProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if models.HasCode(err, models.CodeNotFound) {
		return nil, models.NewValidationError("There is no profile for this user")
	}
	return profile, err
}

// GetProfileByUserID returns another user's profile. A missing profile is a
// 400, matching the lookup-by-id contract clients already depend on.
func (s *ProfileService) GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if models.HasCode(err, models.CodeNotFound) {
		return nil, models.NewValidationError("Profile not found")
	}
	return profile, err
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// UpsertProfile creates the caller's profile or merges the provided fields
// into the existing one.
func (s *ProfileService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*models.Profile, error) {
	in.Status = strings.TrimSpace(in.Status)
	in.Skills = strings.TrimSpace(in.Skills)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	switch {
	case models.HasCode(err, models.CodeNotFound):
		profile = &models.Profile{
			UserID:     in.UserID,
			Experience: []models.Experience{},
			Education:  []models.Education{},
		}
		applyProfileInput(profile, in)
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
		return s.profileRepo.GetByUserID(ctx, in.UserID)
	case err != nil:
		return nil, err
	}

	applyProfileInput(profile, in)
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func applyProfileInput(p *models.Profile, in UpsertProfileInput) {
	p.Status = in.Status
	p.Skills = validation.SplitSkills(in.Skills)

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.GithubUsername, in.GithubUsername)
	set(&p.Social.YouTube, in.YouTube)
	set(&p.Social.Twitter, in.Twitter)
	set(&p.Social.Facebook, in.Facebook)
	set(&p.Social.LinkedIn, in.LinkedIn)
	set(&p.Social.Instagram, in.Instagram)
}

// parseSpan reads the from/to pair of an experience or education entry.
// Validation has already accepted both strings.
func parseSpan(from, to string) (time.Time, *time.Time) {
	start, _ := validation.ParseDate(from)
	if strings.TrimSpace(to) == "" {
		return start, nil
	}
	end, _ := validation.ParseDate(to)
	return start, &end
}

// existingProfile loads the caller's profile for a sub-list mutation.
func (s *ProfileService) existingProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if models.HasCode(err, models.CodeNotFound) {
		return nil, models.NewNotFoundError(errNoProfileYet)
	}
	return profile, err
}

func (s *ProfileService) AddExperience(ctx context.Context, in AddExperienceInput) (*models.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.existingProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	from, to := parseSpan(in.From, in.To)
	profile.AddExperience(models.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	})
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveExperience drops an experience entry. An unknown id leaves the
// profile untouched and is not an error.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID uint, expID string) (*models.Profile, error) {
	profile, err := s.existingProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.RemoveExperience(expID) {
		return profile, nil
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, in AddEducationInput) (*models.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.existingProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	from, to := parseSpan(in.From, in.To)
	profile.AddEducation(models.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	})
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveEducation drops an education entry. An unknown id is a no-op.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID uint, eduID string) (*models.Profile, error) {
	profile, err := s.existingProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.RemoveEducation(eduID) {
		return profile, nil
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteAccount removes the user together with their profile and posts.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.DeleteAccount(ctx, userID)
}

// GithubRepos lists the newest public repositories of a GitHub user.
func (s *ProfileService) GithubRepos(ctx context.Context, username string) ([]github.Repo, error) {
	repos, err := s.repos.Repos(ctx, username)
	if errors.Is(err, github.ErrNotFound) {
		return nil, models.NewNotFoundError("No Github profile found")
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return repos, nil
}
