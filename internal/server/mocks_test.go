package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"devconnector/internal/auth"
	"devconnector/internal/config"
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteAccount(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *models.Profile, columns []string) error {
	args := m.Called(ctx, profile, columns)
	return args.Error(0)
}

func (m *MockProfileRepository) AddExperience(ctx context.Context, userID uint, exp *models.Experience) error {
	args := m.Called(ctx, userID, exp)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateExperience(ctx context.Context, userID uint, exp *models.Experience) error {
	args := m.Called(ctx, userID, exp)
	return args.Error(0)
}

func (m *MockProfileRepository) DeleteExperience(ctx context.Context, userID uint, expID string) error {
	args := m.Called(ctx, userID, expID)
	return args.Error(0)
}

func (m *MockProfileRepository) AddEducation(ctx context.Context, userID uint, edu *models.Education) error {
	args := m.Called(ctx, userID, edu)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateEducation(ctx context.Context, userID uint, edu *models.Education) error {
	args := m.Called(ctx, userID, edu)
	return args.Error(0)
}

func (m *MockProfileRepository) DeleteEducation(ctx context.Context, userID uint, eduID string) error {
	args := m.Called(ctx, userID, eduID)
	return args.Error(0)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post), args.Error(1)
}

// MockRepoLister is a mock of github.RepoLister
type MockRepoLister struct {
	mock.Mock
}

func (m *MockRepoLister) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type mocks struct {
	users    *MockUserRepository
	profiles *MockProfileRepository
	posts    *MockPostRepository
	repos    *MockRepoLister
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          "5000",
		Env:           "test",
		JWTSecret:     "test-secret-key-12345678901234567890123456789012",
		JWTExpiry:     3600,
		JWTIssuer:     "devconnector-api",
		JWTAudience:   "devconnector-client",
		GitHubTimeout: 2,
	}
}

// newMockServer wires a Server over testify mocks and returns the app with
// every route registered.
func newMockServer(t *testing.T) (*Server, *fiber.App, mocks) {
	t.Helper()
	m := mocks{
		users:    new(MockUserRepository),
		profiles: new(MockProfileRepository),
		posts:    new(MockPostRepository),
		repos:    new(MockRepoLister),
	}

	cfg := testConfig()
	tokens := auth.NewTokenIssuer(cfg)
	s := &Server{
		config:         cfg,
		tokens:         tokens,
		limiter:        middleware.NewRateLimiter(nil, false),
		userService:    service.NewUserService(m.users, tokens),
		profileService: service.NewProfileService(m.profiles, m.users, m.repos),
		postService:    service.NewPostService(m.posts, m.users),
	}

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	s.SetupRoutes(app)
	return s, app, m
}

func tokenFor(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	token, err := s.tokens.Sign(userID)
	require.NoError(t, err)
	return token
}

// doJSON sends body as JSON and returns the status and raw response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeError(t *testing.T, raw []byte) models.ErrorResponse {
	t.Helper()
	var e models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e
}

func decodeInto(t *testing.T, raw []byte, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}
