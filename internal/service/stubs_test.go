package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	deleteAccountFn func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) DeleteAccount(ctx context.Context, userID uint) error {
	return s.deleteAccountFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ann", Avatar: "https://www.gravatar.com/avatar/a"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		deleteAccountFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn      func(context.Context, uint) (*models.Profile, error)
	listFn             func(context.Context) ([]models.Profile, error)
	upsertFn           func(context.Context, *models.Profile, []string) error
	addExperienceFn    func(context.Context, uint, *models.Experience) error
	updateExperienceFn func(context.Context, uint, *models.Experience) error
	deleteExperienceFn func(context.Context, uint, string) error
	addEducationFn     func(context.Context, uint, *models.Education) error
	updateEducationFn  func(context.Context, uint, *models.Education) error
	deleteEducationFn  func(context.Context, uint, string) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) List(ctx context.Context) ([]models.Profile, error) {
	return s.listFn(ctx)
}
func (s *profileRepoStub) Upsert(ctx context.Context, p *models.Profile, columns []string) error {
	return s.upsertFn(ctx, p, columns)
}
func (s *profileRepoStub) AddExperience(ctx context.Context, userID uint, e *models.Experience) error {
	return s.addExperienceFn(ctx, userID, e)
}
func (s *profileRepoStub) UpdateExperience(ctx context.Context, userID uint, e *models.Experience) error {
	return s.updateExperienceFn(ctx, userID, e)
}
func (s *profileRepoStub) DeleteExperience(ctx context.Context, userID uint, id string) error {
	return s.deleteExperienceFn(ctx, userID, id)
}
func (s *profileRepoStub) AddEducation(ctx context.Context, userID uint, e *models.Education) error {
	return s.addEducationFn(ctx, userID, e)
}
func (s *profileRepoStub) UpdateEducation(ctx context.Context, userID uint, e *models.Education) error {
	return s.updateEducationFn(ctx, userID, e)
}
func (s *profileRepoStub) DeleteEducation(ctx context.Context, userID uint, id string) error {
	return s.deleteEducationFn(ctx, userID, id)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID, Status: "Developer"}, nil
		},
		listFn:             func(_ context.Context) ([]models.Profile, error) { return []models.Profile{}, nil },
		upsertFn:           func(_ context.Context, _ *models.Profile, _ []string) error { return nil },
		addExperienceFn:    func(_ context.Context, _ uint, _ *models.Experience) error { return nil },
		updateExperienceFn: func(_ context.Context, _ uint, _ *models.Experience) error { return nil },
		deleteExperienceFn: func(_ context.Context, _ uint, _ string) error { return nil },
		addEducationFn:     func(_ context.Context, _ uint, _ *models.Education) error { return nil },
		updateEducationFn:  func(_ context.Context, _ uint, _ *models.Education) error { return nil },
		deleteEducationFn:  func(_ context.Context, _ uint, _ string) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context) ([]models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context) ([]models.Post, error) { return []models.Post{}, nil },
	}
}

type tokenStub struct {
	signed []uint
	err    error
}

func (s *tokenStub) Sign(userID uint) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.signed = append(s.signed, userID)
	return "token-for-user", nil
}

type repoListerFunc func(context.Context, string) (json.RawMessage, error)

func (f repoListerFunc) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	return f(ctx, username)
}

// assertAppError asserts that err is an AppError with the given code and message.
func assertAppError(t *testing.T, err error, code, msg string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

// fieldMessages returns the field error messages of err in order.
func fieldMessages(t *testing.T, err error) []string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	msgs := make([]string, 0, len(appErr.Errors))
	for _, e := range appErr.Errors {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}
