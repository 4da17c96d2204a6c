package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me
// @Summary Current user's profile
// @Description Returns the caller's profile.
// @Tags profile
// @Produce json
// @Security TokenAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.Mine(c.UserContext(), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
// @Summary Create or update profile
// @Description Creates the caller's profile or updates the supplied fields.
// @Tags profile
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [post]
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	var req service.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.Upsert(c.UserContext(), userID, req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile
// @Summary List profiles
// @Description Returns every profile with its owner's name and avatar.
// @Tags profile
// @Produce json
// @Success 200 {array} models.Profile
// @Router /profile [get]
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUserID handles GET /api/profile/user/:user_id
// @Summary Profile by user id
// @Description Returns the profile owned by a user.
// @Tags profile
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/user/{user_id} [get]
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return models.Respond(c, models.NewNotFoundError("No profile found"))
	}

	profile, err := s.profileService.ByUserID(c.UserContext(), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
// @Summary Delete account
// @Description Removes the caller's posts, profile and account.
// @Tags profile
// @Produce json
// @Security TokenAuth
// @Success 200 {object} object{msg=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	if err := s.profileService.DeleteAccount(c.UserContext(), userID); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User removed"})
}

// AddExperience handles PUT /api/profile/experience
// @Summary Add experience
// @Description Adds an experience entry on top of the list.
// @Tags profile
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.ExperienceInput true "Experience"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /profile/experience [put]
func (s *Server) AddExperience(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	var req service.ExperienceInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), userID, req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateExperience handles POST /api/profile/experience/:exp_id
// @Summary Replace experience
// @Description Replaces the experience entry with the given id.
// @Tags profile
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param exp_id path string true "Experience ID"
// @Param request body service.ExperienceInput true "Experience"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{exp_id} [post]
func (s *Server) UpdateExperience(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	var req service.ExperienceInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.UpdateExperience(c.UserContext(), userID, c.Params("exp_id"), req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteExperience handles DELETE /api/profile/experience/:exp_id
// @Summary Remove experience
// @Description Removes the experience entry with the given id.
// @Tags profile
// @Produce json
// @Security TokenAuth
// @Param exp_id path string true "Experience ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{exp_id} [delete]
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.DeleteExperience(c.UserContext(), userID, c.Params("exp_id"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
// @Summary Add education
// @Description Adds an education entry on top of the list.
// @Tags profile
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.EducationInput true "Education"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /profile/education [put]
func (s *Server) AddEducation(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	var req service.EducationInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), userID, req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateEducation handles POST /api/profile/education/:edu_id
// @Summary Replace education
// @Description Replaces the education entry with the given id.
// @Tags profile
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param edu_id path string true "Education ID"
// @Param request body service.EducationInput true "Education"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{edu_id} [post]
func (s *Server) UpdateEducation(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	var req service.EducationInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.UpdateEducation(c.UserContext(), userID, c.Params("edu_id"), req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteEducation handles DELETE /api/profile/education/:edu_id
// @Summary Remove education
// @Description Removes the education entry with the given id.
// @Tags profile
// @Produce json
// @Security TokenAuth
// @Param edu_id path string true "Education ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{edu_id} [delete]
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	profile, err := s.profileService.DeleteEducation(c.UserContext(), userID, c.Params("edu_id"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// GetGitHubRepos handles GET /api/profile/github/:username
// @Summary Recent GitHub repositories
// @Description Proxies the five oldest public repositories of a GitHub user, by creation date.
// @Tags profile
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} object
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/github/{username} [get]
func (s *Server) GetGitHubRepos(c *fiber.Ctx) error {
	repos, err := s.profileService.GitHubRepos(c.UserContext(), c.Params("username"))
	if err != nil {
		return models.Respond(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(repos)
}
