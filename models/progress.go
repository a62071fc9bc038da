package models

import "time"

// UserProgress is the per-user aggregate: attached learning paths plus the flat
// set of completed resource ids ("{pathId}-{stageIndex}-{resourceIndex}"). The
// two views must stay consistent; the tracker recomputes derived state after
// every mutation.
type UserProgress struct {
	UserID             string         `json:"userId"`
	LearningPaths      []LearningPath `json:"learningPaths"`
	CompletedResources []string       `json:"completedResources"`
	TotalHoursSpent    float64        `json:"totalHoursSpent"`
	SkillsLearned      []string       `json:"skillsLearned"`
	StreakDays         int            `json:"streakDays"`
	LastActivityAt     time.Time      `json:"lastActivityAt"`
}

// NewUserProgress returns the zero-valued record for a user. Slices are
// allocated so an empty record serializes as [] rather than null.
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:             userID,
		LearningPaths:      []LearningPath{},
		CompletedResources: []string{},
		SkillsLearned:      []string{},
		LastActivityAt:     time.Now().UTC(),
	}
}

// FindPath returns the attached path with the given id, or nil.
func (p *UserProgress) FindPath(pathID string) *LearningPath {
	for i := range p.LearningPaths {
		if p.LearningPaths[i].ID == pathID {
			return &p.LearningPaths[i]
		}
	}
	return nil
}
