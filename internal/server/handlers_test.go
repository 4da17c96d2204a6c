package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devconnector/internal/models"
	"devconnector/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRoot(t *testing.T) {
	_, app, _ := newMockServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "API Running", string(body))
}

func TestUnknownRoute(t *testing.T) {
	_, app, _ := newMockServer(t)

	status, raw := doJSON(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, decodeError(t, raw).Msg)
}

func TestRegisterUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.users.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, nil)
		m.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).ID = 7
			}).
			Return(nil)

		status, raw := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
			"name":     "Ann",
			"email":    " Ann@Example.com ",
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, status, string(raw))

		var out struct {
			Token string `json:"token"`
		}
		decodeInto(t, raw, &out)
		claims, err := s.tokens.Parse(out.Token)
		require.NoError(t, err)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, uint(7), id)

		created := m.users.Calls[1].Arguments.Get(1).(*models.User)
		assert.Equal(t, "ann@example.com", created.Email)
		assert.Contains(t, created.Avatar, "https://www.gravatar.com/avatar/")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, app, m := newMockServer(t)
		m.users.On("GetByEmail", mock.Anything, "ann@example.com").Return(&models.User{ID: 1}, nil)

		status, raw := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
			"name":     "Ann",
			"email":    "ann@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		e := decodeError(t, raw)
		assert.Equal(t, "User already exists", e.Msg)
		assert.Equal(t, models.CodeConflict, e.Code)
		require.Len(t, e.Errors, 1)
		assert.Equal(t, "User already exists", e.Errors[0].Msg)
		m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Empty body", func(t *testing.T) {
		_, app, m := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodPost, "/api/users", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		e := decodeError(t, raw)
		require.Len(t, e.Errors, 3)
		assert.Equal(t, []string{"name", "email", "password"},
			[]string{e.Errors[0].Param, e.Errors[1].Param, e.Errors[2].Param})
		m.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Malformed body", func(t *testing.T) {
		_, app, _ := newMockServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 3, Name: "Ann", Email: "ann@example.com", Password: string(hash)}

	tests := []struct {
		name           string
		password       string
		found          *models.User
		expectedStatus int
		expectedMsg    string
	}{
		{"Success", "secret123", user, http.StatusOK, ""},
		{"Wrong password", "nope-nope", user, http.StatusBadRequest, "Invalid credentials"},
		{"Unknown email", "secret123", nil, http.StatusBadRequest, "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, app, m := newMockServer(t)
			if tt.found == nil {
				m.users.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, nil)
			} else {
				m.users.On("GetByEmail", mock.Anything, "ann@example.com").Return(tt.found, nil)
			}

			status, raw := doJSON(t, app, http.MethodPost, "/api/auth", "", map[string]string{
				"email":    "ann@example.com",
				"password": tt.password,
			})
			assert.Equal(t, tt.expectedStatus, status, string(raw))
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, decodeError(t, raw).Msg)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	s, app, m := newMockServer(t)
	m.users.On("GetByID", mock.Anything, uint(5)).
		Return(&models.User{ID: 5, Name: "Bob", Email: "bob@example.com", Password: "hash"}, nil)

	status, raw := doJSON(t, app, http.MethodGet, "/api/auth", tokenFor(t, s, 5), nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	var out map[string]any
	decodeInto(t, raw, &out)
	assert.Equal(t, "Bob", out["name"])
	assert.NotContains(t, out, "password")
}

func TestAuthRequiredRoutes(t *testing.T) {
	s, app, _ := newMockServer(t)

	valid := tokenFor(t, s, 5)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth"},
		{http.MethodGet, "/api/profile/me"},
		{http.MethodPost, "/api/profile"},
		{http.MethodDelete, "/api/profile"},
		{http.MethodPut, "/api/profile/experience"},
		{http.MethodDelete, "/api/profile/education/abc"},
		{http.MethodPost, "/api/post"},
		{http.MethodGet, "/api/post"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, raw := doJSON(t, app, r.method, r.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "No token, authorization denied", decodeError(t, raw).Msg)

			status, raw = doJSON(t, app, r.method, r.path, tampered, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Token is not valid", decodeError(t, raw).Msg)
		})
	}
}

func TestAuthUserID_WithoutAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := authUserID(c)
		return models.Respond(c, err)
	})

	status, raw := doJSON(t, app, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "No token, authorization denied", decodeError(t, raw).Msg)
}

func TestGetProfileByUserID(t *testing.T) {
	t.Run("Malformed id", func(t *testing.T) {
		_, app, m := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodGet, "/api/profile/user/not-a-number", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "No profile found", decodeError(t, raw).Msg)
		m.profiles.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("Missing profile", func(t *testing.T) {
		_, app, m := newMockServer(t)
		m.profiles.On("GetByUserID", mock.Anything, uint(9)).
			Return(nil, models.NewNotFoundError(repository.MsgNoProfile))

		status, raw := doJSON(t, app, http.MethodGet, "/api/profile/user/9", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "No profile found", decodeError(t, raw).Msg)
	})

	t.Run("Found", func(t *testing.T) {
		_, app, m := newMockServer(t)
		m.profiles.On("GetByUserID", mock.Anything, uint(9)).Return(&models.Profile{
			ID:     1,
			UserID: 9,
			User:   &models.UserSummary{ID: 9, Name: "Ann", Avatar: "a"},
			Status: "Developer",
			Skills: []string{"Go"},
		}, nil)

		status, raw := doJSON(t, app, http.MethodGet, "/api/profile/user/9", "", nil)
		require.Equal(t, http.StatusOK, status)

		var out models.Profile
		decodeInto(t, raw, &out)
		assert.Equal(t, "Developer", out.Status)
		require.NotNil(t, out.User)
		assert.Equal(t, "Ann", out.User.Name)
	})
}

func TestGetMyProfile_None(t *testing.T) {
	s, app, m := newMockServer(t)
	m.profiles.On("GetByUserID", mock.Anything, uint(4)).
		Return(nil, models.NewNotFoundError(repository.MsgNoProfile))

	status, raw := doJSON(t, app, http.MethodGet, "/api/profile/me", tokenFor(t, s, 4), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "There is no profile for this user", decodeError(t, raw).Msg)
}

func TestGetProfiles(t *testing.T) {
	_, app, m := newMockServer(t)
	m.profiles.On("List", mock.Anything).Return([]models.Profile{{ID: 1, Status: "Dev"}, {ID: 2, Status: "Ops"}}, nil)

	status, raw := doJSON(t, app, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, status)

	var out []models.Profile
	decodeInto(t, raw, &out)
	assert.Len(t, out, 2)
}

func TestUpsertProfile(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		s, app, m := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodPost, "/api/profile", tokenFor(t, s, 4), map[string]string{
			"status": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		e := decodeError(t, raw)
		require.Len(t, e.Errors, 2)
		assert.Equal(t, "Status is required", e.Errors[0].Msg)
		assert.Equal(t, "Skills is required", e.Errors[1].Msg)
		m.profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Sparse fields", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.users.On("GetByID", mock.Anything, uint(4)).Return(&models.User{ID: 4}, nil)
		m.profiles.On("Upsert", mock.Anything,
			mock.MatchedBy(func(p *models.Profile) bool {
				return p.UserID == 4 && p.Bio == "Hi" && assert.ObjectsAreEqual([]string{"Go", "SQL"}, p.Skills)
			}),
			[]string{"bio", "status", "skills"},
		).Return(nil)
		m.profiles.On("GetByUserID", mock.Anything, uint(4)).
			Return(&models.Profile{ID: 1, UserID: 4, Status: "Developer", Skills: []string{"Go", "SQL"}, Bio: "Hi"}, nil)

		status, raw := doJSON(t, app, http.MethodPost, "/api/profile", tokenFor(t, s, 4), map[string]string{
			"status": "Developer",
			"skills": "Go, SQL,",
			"bio":    "Hi",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
		m.profiles.AssertExpectations(t)
	})
}

func TestDeleteAccount(t *testing.T) {
	s, app, m := newMockServer(t)
	m.users.On("DeleteAccount", mock.Anything, uint(4)).Return(nil)

	status, raw := doJSON(t, app, http.MethodDelete, "/api/profile", tokenFor(t, s, 4), nil)
	require.Equal(t, http.StatusOK, status)

	var out map[string]string
	decodeInto(t, raw, &out)
	assert.Equal(t, "User removed", out["msg"])
	m.users.AssertExpectations(t)
}

func TestDeleteAccount_Failure(t *testing.T) {
	s, app, m := newMockServer(t)
	m.users.On("DeleteAccount", mock.Anything, uint(4)).
		Return(models.NewInternalError(errors.New("tx aborted")))

	status, raw := doJSON(t, app, http.MethodDelete, "/api/profile", tokenFor(t, s, 4), nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	e := decodeError(t, raw)
	assert.Equal(t, "Server Error", e.Msg)
	assert.NotContains(t, string(raw), "tx aborted")
}

func TestExperienceHandlers(t *testing.T) {
	t.Run("Missing title", func(t *testing.T) {
		s, app, m := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodPut, "/api/profile/experience", tokenFor(t, s, 4), map[string]any{
			"company": "Acme",
			"from":    "2020-01-01",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		e := decodeError(t, raw)
		require.Len(t, e.Errors, 1)
		assert.Equal(t, "title", e.Errors[0].Param)
		assert.Equal(t, "Title is required", e.Errors[0].Msg)
		m.profiles.AssertNotCalled(t, "AddExperience", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Add", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.profiles.On("AddExperience", mock.Anything, uint(4), mock.MatchedBy(func(e *models.Experience) bool {
			return e.Title == "Engineer" && e.Current && e.To == nil
		})).Return(nil)
		m.profiles.On("GetByUserID", mock.Anything, uint(4)).Return(&models.Profile{
			ID:         1,
			Experience: []models.Experience{{ID: "e1", Title: "Engineer"}},
		}, nil)

		status, raw := doJSON(t, app, http.MethodPut, "/api/profile/experience", tokenFor(t, s, 4), map[string]any{
			"title":   "Engineer",
			"company": "Acme",
			"from":    "2020-01-01",
			"current": true,
		})
		require.Equal(t, http.StatusOK, status, string(raw))

		var out models.Profile
		decodeInto(t, raw, &out)
		require.Len(t, out.Experience, 1)
		assert.Equal(t, "e1", out.Experience[0].ID)
	})

	t.Run("Update unknown id", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.profiles.On("UpdateExperience", mock.Anything, uint(4), mock.MatchedBy(func(e *models.Experience) bool {
			return e.ID == "missing"
		})).Return(models.NewNotFoundError(repository.MsgExperienceNotFound))

		status, raw := doJSON(t, app, http.MethodPost, "/api/profile/experience/missing", tokenFor(t, s, 4), map[string]any{
			"title":   "Engineer",
			"company": "Acme",
			"from":    "2020-01-01",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Experience not found", decodeError(t, raw).Msg)
	})

	t.Run("Delete", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.profiles.On("DeleteExperience", mock.Anything, uint(4), "e1").Return(nil)
		m.profiles.On("GetByUserID", mock.Anything, uint(4)).Return(&models.Profile{ID: 1}, nil)

		status, _ := doJSON(t, app, http.MethodDelete, "/api/profile/experience/e1", tokenFor(t, s, 4), nil)
		assert.Equal(t, http.StatusOK, status)
		m.profiles.AssertExpectations(t)
	})
}

func TestEducationHandlers(t *testing.T) {
	t.Run("Missing fields", func(t *testing.T) {
		s, app, _ := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodPut, "/api/profile/education", tokenFor(t, s, 4), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
		e := decodeError(t, raw)
		require.Len(t, e.Errors, 4)
		assert.Equal(t, "School is required", e.Errors[0].Msg)
	})

	t.Run("Add", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.profiles.On("AddEducation", mock.Anything, uint(4), mock.AnythingOfType("*models.Education")).Return(nil)
		m.profiles.On("GetByUserID", mock.Anything, uint(4)).Return(&models.Profile{
			ID:        1,
			Education: []models.Education{{ID: "d1", School: "MIT"}},
		}, nil)

		status, raw := doJSON(t, app, http.MethodPut, "/api/profile/education", tokenFor(t, s, 4), map[string]any{
			"school":       "MIT",
			"degree":       "BSc",
			"fieldofstudy": "CS",
			"from":         "2010-09-01",
			"to":           "2014-06-30",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
	})

	t.Run("Delete unknown id", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.profiles.On("DeleteEducation", mock.Anything, uint(4), "nope").
			Return(models.NewNotFoundError(repository.MsgEducationNotFound))

		status, raw := doJSON(t, app, http.MethodDelete, "/api/profile/education/nope", tokenFor(t, s, 4), nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Education not found", decodeError(t, raw).Msg)
	})
}

func TestGetGitHubRepos(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		_, app, m := newMockServer(t)
		m.repos.On("Repos", mock.Anything, "octocat").
			Return(json.RawMessage(`[{"name":"hello-world"}]`), nil)

		status, raw := doJSON(t, app, http.MethodGet, "/api/profile/github/octocat", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[{"name":"hello-world"}]`, string(raw))
	})

	t.Run("Upstream failure", func(t *testing.T) {
		_, app, m := newMockServer(t)
		m.repos.On("Repos", mock.Anything, "ghost").Return(nil, errors.New("status 404"))

		status, raw := doJSON(t, app, http.MethodGet, "/api/profile/github/ghost", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "No Github profile found", decodeError(t, raw).Msg)
	})
}

func TestPostHandlers(t *testing.T) {
	t.Run("Missing text", func(t *testing.T) {
		s, app, m := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodPost, "/api/post", tokenFor(t, s, 4), map[string]string{"text": " "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Text is required", decodeError(t, raw).Msg)
		m.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Create snapshots author", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.users.On("GetByID", mock.Anything, uint(4)).
			Return(&models.User{ID: 4, Name: "Ann", Avatar: "https://www.gravatar.com/avatar/a"}, nil)
		m.posts.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Post).ID = 11
			}).
			Return(nil)

		status, raw := doJSON(t, app, http.MethodPost, "/api/post", tokenFor(t, s, 4), map[string]string{"text": "Hello"})
		require.Equal(t, http.StatusOK, status, string(raw))

		var out models.Post
		decodeInto(t, raw, &out)
		assert.Equal(t, uint(11), out.ID)
		assert.Equal(t, uint(4), out.UserID)
		assert.Equal(t, "Ann", out.Name)
		assert.Equal(t, "https://www.gravatar.com/avatar/a", out.Avatar)
	})

	t.Run("Get malformed id", func(t *testing.T) {
		s, app, _ := newMockServer(t)

		status, raw := doJSON(t, app, http.MethodGet, "/api/post/abc", tokenFor(t, s, 4), nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Post not found", decodeError(t, raw).Msg)
	})

	t.Run("List", func(t *testing.T) {
		s, app, m := newMockServer(t)
		m.posts.On("List", mock.Anything).Return([]models.Post{{ID: 2}, {ID: 1}}, nil)

		status, raw := doJSON(t, app, http.MethodGet, "/api/post", tokenFor(t, s, 4), nil)
		require.Equal(t, http.StatusOK, status)

		var out []models.Post
		decodeInto(t, raw, &out)
		require.Len(t, out, 2)
		assert.Equal(t, uint(2), out[0].ID)
	})
}
