package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/config"
	"skillmap-backend/models"
)

func TestParsePath(t *testing.T) {
	raw := `{"topic":"Rust","difficulty":"beginner","estimatedTime":"6 weeks","description":"d","stages":[{"title":"s","description":"","resources":[{"title":"r","url":"https://example.com"}]}]}`

	path, err := parsePath(raw)
	require.NoError(t, err)
	assert.Equal(t, "Rust", path.Topic)
	assert.Len(t, path.Stages, 1)

	// Prose around the JSON object is tolerated.
	path, err = parsePath("Here is your path:\n" + raw + "\nEnjoy!")
	require.NoError(t, err)
	assert.Equal(t, "Rust", path.Topic)
}

func TestParsePathInvalid(t *testing.T) {
	_, err := parsePath("no json here")
	assert.ErrorIs(t, err, ErrGenerationFailed)

	// Valid JSON, invalid structure.
	_, err = parsePath(`{"topic":"Rust"}`)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Contains(t, req.Messages[1].Content, "Kubernetes")

		content := `{"topic":"Kubernetes","difficulty":"intermediate","estimatedTime":"10 weeks","description":"d","stages":[{"title":"s","resources":[{"title":"r","url":"https://example.com","type":"video"}]}]}`
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	defer server.Close()

	g := NewPathGenerator(&config.Config{OpenAIKey: "test-key", OpenAIModel: "gpt-4o-mini"})
	g.apiURL = server.URL

	path, err := g.Generate(models.GeneratePathRequest{Topic: "Kubernetes", Difficulty: "intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes", path.Topic)
}

func TestGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer server.Close()

	g := NewPathGenerator(&config.Config{OpenAIKey: "test-key", OpenAIModel: "gpt-4o-mini"})
	g.apiURL = server.URL

	_, err := g.Generate(models.GeneratePathRequest{Topic: "Kubernetes"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateWithoutKey(t *testing.T) {
	g := NewPathGenerator(&config.Config{})
	_, err := g.Generate(models.GeneratePathRequest{Topic: "Kubernetes"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
