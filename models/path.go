package models

import (
	"errors"
	"time"
)

var ErrInvalidPath = errors.New("learning path must have a topic and stages")

// Difficulty levels a path can be generated for.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Resource types the generator is allowed to emit.
var ResourceTypes = []string{"video", "article", "course", "documentation", "practice"}

type Resource struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Completed bool   `json:"completed"`
}

type LearningStage struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Resources   []Resource `json:"resources"`
	Completed   bool       `json:"completed"`
}

// LearningPath is a generated curriculum. Stage order is meaningful and must be
// preserved on every read and write.
type LearningPath struct {
	ID             string          `json:"id,omitempty"`
	Topic          string          `json:"topic"`
	Difficulty     string          `json:"difficulty"`
	EstimatedTime  string          `json:"estimatedTime"`
	Description    string          `json:"description"`
	Stages         []LearningStage `json:"stages"`
	Progress       int             `json:"progress"`
	StartedAt      time.Time       `json:"startedAt,omitempty"`
	LastAccessedAt time.Time       `json:"lastAccessedAt,omitempty"`
	IsActive       bool            `json:"isActive"`
}

// Validate checks the minimal structure required to attach a path. A path with
// an empty (but present) stages list is accepted.
func (p *LearningPath) Validate() error {
	if p.Topic == "" || p.Stages == nil {
		return ErrInvalidPath
	}
	return nil
}

// TotalResources counts resources across all stages.
func (p *LearningPath) TotalResources() int {
	total := 0
	for i := range p.Stages {
		total += len(p.Stages[i].Resources)
	}
	return total
}

type GeneratePathRequest struct {
	Topic           string `json:"topic"`
	Difficulty      string `json:"difficulty"`
	TimeCommitment  string `json:"timeCommitment,omitempty"`
	PriorExperience string `json:"priorExperience,omitempty"`
}
