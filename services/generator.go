package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"skillmap-backend/config"
	"skillmap-backend/models"
)

// ErrGenerationFailed is returned for every upstream failure so no provider
// detail reaches the caller.
var ErrGenerationFailed = errors.New("failed to generate learning path")

// PathGenerator calls the OpenAI chat-completions API to build a learning
// path for a topic.
type PathGenerator struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

func NewPathGenerator(cfg *config.Config) *PathGenerator {
	return &PathGenerator{
		apiKey:      cfg.OpenAIKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		model:       cfg.OpenAIModel,
		maxTokens:   2000,
		temperature: 0.7,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate builds the prompt, calls the model and parses the returned JSON
// into a LearningPath. Malformed or structurally invalid output yields
// ErrGenerationFailed.
func (g *PathGenerator) Generate(req models.GeneratePathRequest) (*models.LearningPath, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrGenerationFailed)
	}

	request := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert learning path designer. Create comprehensive, practical learning roadmaps with real, working resource links. Always respond with valid JSON only."},
			{Role: "user", Content: buildPrompt(req)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	httpReq, err := http.NewRequest("POST", g.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices returned", ErrGenerationFailed)
	}

	path, err := parsePath(response.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return path, nil
}

func buildPrompt(req models.GeneratePathRequest) string {
	timeCommitment := req.TimeCommitment
	if timeCommitment == "" {
		timeCommitment = "Flexible"
	}
	priorExperience := req.PriorExperience
	if priorExperience == "" {
		priorExperience = "None specified"
	}

	return fmt.Sprintf(`Generate a comprehensive learning path for: %q

Requirements:
- Difficulty level: %s
- Time commitment: %s
- Prior experience: %s

Please provide a JSON response with the following structure:
{
  "topic": "string",
  "difficulty": "%s",
  "estimatedTime": "string (e.g., '8-12 weeks')",
  "description": "Brief overview of what they'll learn",
  "stages": [
    {
      "title": "Stage title",
      "description": "What they'll learn in this stage",
      "resources": [
        {
          "title": "Resource name",
          "url": "actual working URL",
          "type": "video|article|course|documentation|practice",
          "duration": "estimated time"
        }
      ]
    }
  ]
}

Guidelines:
- Create 5-8 logical learning stages
- Include 2-4 high-quality, real resources per stage
- Use actual URLs from reputable sources (YouTube, freeCodeCamp, MDN, Coursera, etc.)
- Make it progressive - each stage builds on the previous
- Include hands-on practice opportunities
- Be specific and actionable

Focus on creating a realistic, achievable learning path with genuine, helpful resources.`,
		req.Topic, req.Difficulty, timeCommitment, priorExperience, req.Difficulty)
}

// parsePath decodes the model output, tolerating prose around the JSON object
// by falling back to the outermost braces.
func parsePath(content string) (*models.LearningPath, error) {
	var path models.LearningPath
	if err := json.Unmarshal([]byte(content), &path); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("%w: invalid JSON response", ErrGenerationFailed)
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &path); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON response", ErrGenerationFailed)
		}
	}

	if err := path.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid learning path structure", ErrGenerationFailed)
	}
	return &path, nil
}
