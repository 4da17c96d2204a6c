package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"devconnector/internal/github"
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	msgProfileNotFound = "No profile found"
	msgNoGitHubProfile = "No Github profile found"
	msgInvalidDate     = "Please enter a valid date"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	repos       github.RepoLister
}

// ProfileInput is the create-or-update payload. Empty fields are left untouched
// on an existing profile. Skills is a comma-separated list.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	repos github.RepoLister,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		repos:       repos,
	}
}

// Mine returns the caller's profile.
func (s *ProfileService) Mine(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// ByUserID returns a user's public profile.
func (s *ProfileService) ByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, models.NewNotFoundError(msgProfileNotFound)
	}
	return profile, err
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// Upsert creates the caller's profile or updates the supplied fields of it.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, in ProfileInput) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService", "Upsert",
		attribute.Int64("user.id", int64(userID)))
	defer func() { observability.EndSpan(span, err) }()

	in = trimProfileInput(in)
	if err := validation.Validate(
		validation.F("status", in.Status, validation.Required("Status is required")),
		validation.F("skills", validation.SplitSkills(in.Skills), validation.Required("Skills is required")),
	); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	fields, columns := profileFields(userID, in)
	if err := s.profileRepo.Upsert(ctx, fields, columns); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// profileFields maps the non-empty inputs onto a profile and lists their columns.
func profileFields(userID uint, in ProfileInput) (*models.Profile, []string) {
	p := &models.Profile{UserID: userID}
	var columns []string

	set := func(value string, column string, dst *string) {
		if value == "" {
			return
		}
		*dst = value
		columns = append(columns, column)
	}

	set(in.Company, "company", &p.Company)
	set(in.Website, "website", &p.Website)
	set(in.Location, "location", &p.Location)
	set(in.Bio, "bio", &p.Bio)
	set(in.Status, "status", &p.Status)
	set(in.GitHubUsername, "github_username", &p.GitHubUsername)

	if skills := validation.SplitSkills(in.Skills); len(skills) > 0 {
		p.Skills = skills
		columns = append(columns, "skills")
	}

	set(in.YouTube, "social_youtube", &p.Social.YouTube)
	set(in.Twitter, "social_twitter", &p.Social.Twitter)
	set(in.Facebook, "social_facebook", &p.Social.Facebook)
	set(in.LinkedIn, "social_linkedin", &p.Social.LinkedIn)
	set(in.Instagram, "social_instagram", &p.Social.Instagram)

	return p, columns
}

func trimProfileInput(in ProfileInput) ProfileInput {
	for _, f := range []*string{
		&in.Company, &in.Website, &in.Location, &in.Bio, &in.Status, &in.GitHubUsername,
		&in.Skills, &in.YouTube, &in.Twitter, &in.Facebook, &in.LinkedIn, &in.Instagram,
	} {
		*f = strings.TrimSpace(*f)
	}
	return in
}

// DeleteAccount removes the caller's posts, profile and account.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService", "DeleteAccount")
	defer func() { observability.EndSpan(span, err) }()

	return s.userRepo.DeleteAccount(ctx, userID)
}

func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (*models.Profile, error) {
	exp, err := experienceFrom(in)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.AddExperience(ctx, userID, exp); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpdateExperience replaces the entry expID with in.
func (s *ProfileService) UpdateExperience(ctx context.Context, userID uint, expID string, in ExperienceInput) (*models.Profile, error) {
	exp, err := experienceFrom(in)
	if err != nil {
		return nil, err
	}
	exp.ID = expID
	if err := s.profileRepo.UpdateExperience(ctx, userID, exp); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) DeleteExperience(ctx context.Context, userID uint, expID string) (*models.Profile, error) {
	if err := s.profileRepo.DeleteExperience(ctx, userID, expID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in EducationInput) (*models.Profile, error) {
	edu, err := educationFrom(in)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.AddEducation(ctx, userID, edu); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpdateEducation replaces the entry eduID with in.
func (s *ProfileService) UpdateEducation(ctx context.Context, userID uint, eduID string, in EducationInput) (*models.Profile, error) {
	edu, err := educationFrom(in)
	if err != nil {
		return nil, err
	}
	edu.ID = eduID
	if err := s.profileRepo.UpdateEducation(ctx, userID, edu); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) DeleteEducation(ctx context.Context, userID uint, eduID string) (*models.Profile, error) {
	if err := s.profileRepo.DeleteEducation(ctx, userID, eduID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// GitHubRepos returns the raw GitHub repository listing for username.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	repos, err := s.repos.Repos(ctx, username)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "github lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, models.NewNotFoundError(msgNoGitHubProfile)
	}
	return repos, nil
}

func experienceFrom(in ExperienceInput) (*models.Experience, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)

	if err := validation.Validate(
		validation.F("title", in.Title, validation.Required("Title is required")),
		validation.F("company", in.Company, validation.Required("Company is required")),
		validation.F("from", in.From, validation.Required("From date is required"), validation.Date(msgInvalidDate)),
		validation.F("to", in.To, validation.Date(msgInvalidDate)),
	); err != nil {
		return nil, err
	}

	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}
	return &models.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

func educationFrom(in EducationInput) (*models.Education, error) {
	in.School = strings.TrimSpace(in.School)
	in.Degree = strings.TrimSpace(in.Degree)
	in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)

	if err := validation.Validate(
		validation.F("school", in.School, validation.Required("School is required")),
		validation.F("degree", in.Degree, validation.Required("Degree is required")),
		validation.F("fieldofstudy", in.FieldOfStudy, validation.Required("Field of study is required")),
		validation.F("from", in.From, validation.Required("From date is required"), validation.Date(msgInvalidDate)),
		validation.F("to", in.To, validation.Date(msgInvalidDate)),
	); err != nil {
		return nil, err
	}

	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}
	return &models.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}, nil
}

func parseRange(fromStr, toStr string) (time.Time, *time.Time, error) {
	from, err := validation.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, nil, models.NewFieldValidationError([]models.FieldError{{Param: "from", Msg: msgInvalidDate}})
	}
	to, err := validation.ParseOptionalDate(toStr)
	if err != nil {
		return time.Time{}, nil, models.NewFieldValidationError([]models.FieldError{{Param: "to", Msg: msgInvalidDate}})
	}
	return from, to, nil
}
