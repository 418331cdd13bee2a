package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetMyProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.ListProfiles(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUserID handles GET /api/profile/user/:user_id
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id", fiber.StatusBadRequest, models.NewValidationError("Profile not found"))
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfileByUserID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req service.UpsertProfileInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)

	profile, err := s.profileService.UpsertProfile(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile. The user's posts and profile go
// with it.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.UserContext(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req service.AddExperienceInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)

	profile, err := s.profileService.AddExperience(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveExperience(c.UserContext(), currentUserID(c), c.Params("exp_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req service.AddEducationInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)

	profile, err := s.profileService.AddEducation(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveEducation(c.UserContext(), currentUserID(c), c.Params("edu_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetGithubRepos handles GET /api/profile/github/:username
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	repos, err := s.profileService.GithubRepos(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(repos)
}
