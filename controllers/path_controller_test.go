package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/progress"},
		{http.MethodPost, "/api/user/progress"},
		{http.MethodPatch, "/api/user/progress/update"},
		{http.MethodDelete, "/api/user/progress/paths/x"},
		{http.MethodPost, "/api/generate-path"},
	} {
		status, _ := doRequest(t, app, tc.method, tc.path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, "%s %s", tc.method, tc.path)
	}
}

func TestGetProgressEmptyShape(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "fresh@example.com")

	status, result := doRequest(t, app, http.MethodGet, "/api/user/progress", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{}, result["learningPaths"])
	assert.Equal(t, []interface{}{}, result["completedResources"])
	assert.Equal(t, []interface{}{}, result["skillsLearned"])
	assert.Equal(t, float64(0), result["totalHoursSpent"])
	assert.Equal(t, float64(0), result["streakDays"])
}

func TestAddPathValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "add@example.com")

	status, _ := doRequest(t, app, http.MethodPost, "/api/user/progress", token, map[string]interface{}{
		"topic": "Go",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/user/progress", token, map[string]interface{}{
		"stages": []interface{}{},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAttachAndUpdateProgress(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "progress@example.com")

	status, _ := doRequest(t, app, http.MethodPost, "/api/user/progress", token, samplePathBody())
	require.Equal(t, fiber.StatusOK, status)

	status, result := doRequest(t, app, http.MethodGet, "/api/user/progress", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	paths := result["learningPaths"].([]interface{})
	require.Len(t, paths, 1)
	path := paths[0].(map[string]interface{})
	pathID := path["id"].(string)
	assert.Equal(t, float64(0), path["progress"])
	assert.Equal(t, true, path["isActive"])

	// Missing parameters are a client error before any tracker work.
	status, _ = doRequest(t, app, http.MethodPatch, "/api/user/progress/update", token, map[string]interface{}{
		"pathId": pathID, "stageIndex": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodPatch, "/api/user/progress/update", token, map[string]interface{}{
		"pathId": pathID, "stageIndex": 0, "resourceIndex": 0, "completed": true,
	})
	assert.Equal(t, fiber.StatusOK, status)

	status, result = doRequest(t, app, http.MethodGet, "/api/user/progress", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	path = result["learningPaths"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(33), path["progress"])
	assert.Equal(t, []interface{}{pathID + "-0-0"}, result["completedResources"])

	// Unknown path and out-of-range indexes are not found, not silent no-ops.
	status, _ = doRequest(t, app, http.MethodPatch, "/api/user/progress/update", token, map[string]interface{}{
		"pathId": "nope", "stageIndex": 0, "resourceIndex": 0, "completed": true,
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodPatch, "/api/user/progress/update", token, map[string]interface{}{
		"pathId": pathID, "stageIndex": 9, "resourceIndex": 0, "completed": true,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRemovePathEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "remove@example.com")

	status, _ := doRequest(t, app, http.MethodPost, "/api/user/progress", token, samplePathBody())
	require.Equal(t, fiber.StatusOK, status)

	_, result := doRequest(t, app, http.MethodGet, "/api/user/progress", token, nil)
	pathID := result["learningPaths"].([]interface{})[0].(map[string]interface{})["id"].(string)

	status, _ = doRequest(t, app, http.MethodPatch, "/api/user/progress/update", token, map[string]interface{}{
		"pathId": pathID, "stageIndex": 0, "resourceIndex": 0, "completed": true,
	})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/user/progress/paths/"+pathID, token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	_, result = doRequest(t, app, http.MethodGet, "/api/user/progress", token, nil)
	assert.Equal(t, []interface{}{}, result["learningPaths"])
	assert.Equal(t, []interface{}{}, result["completedResources"])

	status, _ = doRequest(t, app, http.MethodDelete, "/api/user/progress/paths/"+pathID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGeneratePathValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "gen@example.com")

	status, _ := doRequest(t, app, http.MethodPost, "/api/generate-path", token, map[string]interface{}{
		"difficulty": "beginner",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// No API key configured: the caller sees one generic retryable error.
	status, result := doRequest(t, app, http.MethodPost, "/api/generate-path", token, map[string]interface{}{
		"topic": "Go", "difficulty": "beginner",
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to generate learning path. Please try again.", result["message"])
}
