package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"skillmap-backend/config"
	"skillmap-backend/routes"
	"skillmap-backend/store"
	"skillmap-backend/utils"
)

// captureMailer records the last reset code instead of sending email.
type captureMailer struct {
	lastTo   string
	lastCode string
}

func (m *captureMailer) SendResetCode(to, code string) error {
	m.lastTo = to
	m.lastCode = code
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *captureMailer) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:    "testsecret",
		ResetCodeTTL: 15 * time.Minute,
	}
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	mailer := &captureMailer{}
	app := fiber.New()
	routes.SetupRoutes(app, fs, cfg, store.NewMemoryResetCodeStore(), mailer, utils.InitLogger())
	return app, mailer
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &result))
	}
	return resp.StatusCode, result
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	status, result := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	token, ok := result["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func samplePathBody() map[string]interface{} {
	return map[string]interface{}{
		"topic":         "Go",
		"difficulty":    "beginner",
		"estimatedTime": "8 weeks",
		"description":   "Learn Go",
		"stages": []map[string]interface{}{
			{
				"title": "Basics",
				"resources": []map[string]interface{}{
					{"title": "Tour of Go", "url": "https://go.dev/tour", "type": "course"},
					{"title": "Effective Go", "url": "https://go.dev/doc/effective_go", "type": "documentation"},
				},
			},
			{
				"title": "Concurrency",
				"resources": []map[string]interface{}{
					{"title": "Concurrency talk", "url": "https://example.com", "type": "video"},
				},
			},
		},
	}
}
