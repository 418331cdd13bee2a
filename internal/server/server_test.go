package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-1234"

// newIntegrationApp wires the real repositories against in-memory SQLite.
func newIntegrationApp(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	cfg := &config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		JWTTTL:       time.Hour,
		AuthHeader:   "x-auth-token",
		BcryptCost:   4,
		DBDriver:     database.DriverSQLite,
		DBSQLitePath: ":memory:",
		GithubAPIURL: "https://api.github.com",
	}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s
}

type apiResponse struct {
	status int
	body   []byte
}

func (r apiResponse) decode(t *testing.T, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), string(r.body))
}

func (r apiResponse) errorMessage(t *testing.T) string {
	t.Helper()
	var e models.ErrorResponse
	r.decode(t, &e)
	return e.Error
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) apiResponse {
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
		req.Header.Set("x-auth-token", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{status: resp.StatusCode, body: raw}
}

func register(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	var out struct {
		Token string `json:"token"`
	}
	resp.decode(t, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newIntegrationApp(t)

	token := register(t, app, "A", "a@x.com")

	resp := call(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "User already exists", resp.errorMessage(t))

	resp = call(t, app, http.MethodGet, "/api/auth", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var me map[string]interface{}
	resp.decode(t, &me)
	assert.Equal(t, "A", me["name"])
	assert.Contains(t, me["avatar"], "gravatar.com/avatar/")
	assert.NotContains(t, me, "password")

	resp = call(t, app, http.MethodPost, "/api/auth", "", map[string]string{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, resp.status)

	resp = call(t, app, http.MethodPost, "/api/auth", "", map[string]string{"email": "a@x.com", "password": "nope12"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "Invalid credentials", resp.errorMessage(t))
}

func TestRegisterValidationErrors(t *testing.T) {
	app, _ := newIntegrationApp(t)

	resp := call(t, app, http.MethodPost, "/api/users", "", map[string]string{"email": "bad"})
	require.Equal(t, http.StatusBadRequest, resp.status)
	var e models.ErrorResponse
	resp.decode(t, &e)
	assert.Equal(t, models.CodeValidation, e.Code)
	params := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors {
		params = append(params, f.Param)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, params)
}

func TestAuthGuard(t *testing.T) {
	app, _ := newIntegrationApp(t)

	resp := call(t, app, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "No token, authorization denied", resp.errorMessage(t))

	resp = call(t, app, http.MethodGet, "/api/posts", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "Token is not valid", resp.errorMessage(t))

	token := register(t, app, "A", "a@x.com")
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestPostLifecycle(t *testing.T) {
	app, _ := newIntegrationApp(t)
	alice := register(t, app, "Alice", "alice@x.com")
	bob := register(t, app, "Bob", "bob@x.com")

	resp := call(t, app, http.MethodPost, "/api/posts", alice, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	var created models.Post
	resp.decode(t, &created)
	assert.Equal(t, "Alice", created.Name)

	resp = call(t, app, http.MethodGet, "/api/posts/"+itoa(created.ID), bob, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var fetched models.Post
	resp.decode(t, &fetched)
	assert.Equal(t, created.Text, fetched.Text)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Avatar, fetched.Avatar)
	assert.True(t, created.Date.Equal(fetched.Date))

	likePath := "/api/posts/like/" + itoa(created.ID)
	resp = call(t, app, http.MethodPut, likePath, bob, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var likes []models.Like
	resp.decode(t, &likes)
	assert.Len(t, likes, 1)

	resp = call(t, app, http.MethodPut, likePath, bob, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "Post already liked", resp.errorMessage(t))

	resp = call(t, app, http.MethodPut, "/api/posts/unlike/"+itoa(created.ID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "Post has not yet been liked", resp.errorMessage(t))

	resp = call(t, app, http.MethodPost, "/api/posts/comment/"+itoa(created.ID), bob, map[string]string{"text": "nice"})
	require.Equal(t, http.StatusOK, resp.status)
	var comments []models.Comment
	resp.decode(t, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "Bob", comments[0].Name)

	commentPath := "/api/posts/comment/" + itoa(created.ID) + "/" + comments[0].ID
	resp = call(t, app, http.MethodDelete, commentPath, alice, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "User not authorized", resp.errorMessage(t))

	resp = call(t, app, http.MethodDelete, "/api/posts/comment/"+itoa(created.ID)+"/nope", bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "Comment does not exist", resp.errorMessage(t))

	resp = call(t, app, http.MethodDelete, commentPath, bob, nil)
	require.Equal(t, http.StatusOK, resp.status)
	resp.decode(t, &comments)
	assert.Empty(t, comments)

	resp = call(t, app, http.MethodDelete, "/api/posts/"+itoa(created.ID), bob, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = call(t, app, http.MethodDelete, "/api/posts/"+itoa(created.ID), alice, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var msg map[string]string
	resp.decode(t, &msg)
	assert.Equal(t, "Post removed", msg["msg"])

	resp = call(t, app, http.MethodGet, "/api/posts/"+itoa(created.ID), alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "Post not found", resp.errorMessage(t))
}

func TestGetPost_MalformedID(t *testing.T) {
	app, _ := newIntegrationApp(t)
	token := register(t, app, "A", "a@x.com")

	resp := call(t, app, http.MethodGet, "/api/posts/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "Post not found", resp.errorMessage(t))
}

func TestProfileLifecycle(t *testing.T) {
	app, _ := newIntegrationApp(t)
	token := register(t, app, "Ada", "ada@x.com")

	resp := call(t, app, http.MethodGet, "/api/profile/me", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "There is no profile for this user", resp.errorMessage(t))

	resp = call(t, app, http.MethodPut, "/api/profile/experience", token, map[string]string{
		"title": "Dev", "company": "Acme", "from": "2020-01-01",
	})
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "Profile not found. Please create a profile first.", resp.errorMessage(t))

	resp = call(t, app, http.MethodPost, "/api/profile", token, map[string]string{
		"status": "Developer", "skills": "js, node, html", "githubusername": "ada",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	var profile models.Profile
	resp.decode(t, &profile)
	assert.Equal(t, []string{"js", "node", "html"}, profile.Skills)
	require.NotNil(t, profile.User)
	assert.Equal(t, "Ada", profile.User.Name)

	resp = call(t, app, http.MethodPost, "/api/profile", token, map[string]string{
		"status": "Senior", "skills": "go", "company": "Acme",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	resp.decode(t, &profile)
	assert.Equal(t, "Senior", profile.Status)
	assert.Equal(t, "ada", profile.GithubUsername)
	assert.Equal(t, "Acme", profile.Company)

	resp = call(t, app, http.MethodPut, "/api/profile/experience", token, map[string]string{
		"title": "Dev", "company": "Acme", "from": "2020-01-01",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	resp.decode(t, &profile)
	require.Len(t, profile.Experience, 1)
	expID := profile.Experience[0].ID

	resp = call(t, app, http.MethodDelete, "/api/profile/experience/unknown", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	resp.decode(t, &profile)
	assert.Len(t, profile.Experience, 1)

	resp = call(t, app, http.MethodDelete, "/api/profile/experience/"+expID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	resp.decode(t, &profile)
	assert.Empty(t, profile.Experience)

	resp = call(t, app, http.MethodPut, "/api/profile/education", token, map[string]string{
		"school": "MIT", "degree": "BS", "fieldofstudy": "CS", "from": "2016-09-01",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	resp.decode(t, &profile)
	require.Len(t, profile.Education, 1)

	resp = call(t, app, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	var all []models.Profile
	resp.decode(t, &all)
	assert.Len(t, all, 1)

	resp = call(t, app, http.MethodGet, "/api/profile/user/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "Profile not found", resp.errorMessage(t))

	resp = call(t, app, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var msg map[string]string
	resp.decode(t, &msg)
	assert.Equal(t, "User deleted", msg["msg"])

	resp = call(t, app, http.MethodGet, "/api/profile", "", nil)
	resp.decode(t, &all)
	assert.Empty(t, all)
}

func TestHealthChecks(t *testing.T) {
	app, _ := newIntegrationApp(t)

	resp := call(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.status)

	resp = call(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	resp.decode(t, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "unavailable", body.Checks["redis"])
}
