package services

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"skillmap-backend/models"
	"skillmap-backend/store"
)

var (
	ErrProgressNotFound = errors.New("user progress not found")
	ErrPathNotFound     = errors.New("learning path not found")
	ErrResourceNotFound = errors.New("stage or resource not found")
)

// ProgressTracker owns every mutation of UserProgress. It re-reads the record
// from the store at the start of each operation and writes the whole record
// back, so the store stays the single source of truth. A mutex serializes
// mutations within this process; the store itself is last-writer-wins.
type ProgressTracker struct {
	mu    sync.Mutex
	store store.Store
}

func NewProgressTracker(s store.Store) *ProgressTracker {
	return &ProgressTracker{store: s}
}

// GetProgress returns the user's record, or a fresh zero-valued one when none
// exists yet. The fresh record is not persisted until the first mutation.
func (t *ProgressTracker) GetProgress(userID string) (*models.UserProgress, error) {
	progress, err := t.store.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return models.NewUserProgress(userID), nil
	}
	return progress, nil
}

// AttachPath validates the path, stamps it with an id and timestamps, and
// appends it to the user's record, creating the record if needed. Any
// completed flags the generator happened to set are cleared: an attached path
// starts at progress 0, and progress must always equal the completed ratio.
func (t *ProgressTracker) AttachPath(userID string, path models.LearningPath) error {
	if err := path.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	progress, err := t.GetProgress(userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	path.ID = fmt.Sprintf("%s-%s", userID, uuid.NewString())
	path.StartedAt = now
	path.LastAccessedAt = now
	path.IsActive = true
	path.Progress = 0
	for i := range path.Stages {
		path.Stages[i].Completed = false
		for j := range path.Stages[i].Resources {
			path.Stages[i].Resources[j].Completed = false
		}
	}

	progress.LearningPaths = append(progress.LearningPaths, path)
	touchActivity(progress, now)

	return t.store.SaveUserProgress(*progress)
}

// SetResourceCompletion toggles one resource's completed flag and keeps every
// derived view consistent: completedResources membership, the stage's
// completed flag, the path's progress percentage, and the activity timestamps.
// Validation happens before any mutation, so a failed call leaves the stored
// record untouched.
func (t *ProgressTracker) SetResourceCompletion(userID, pathID string, stageIndex, resourceIndex int, completed bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	progress, err := t.store.GetUserProgress(userID)
	if err != nil {
		return err
	}
	if progress == nil {
		return ErrProgressNotFound
	}

	path := progress.FindPath(pathID)
	if path == nil {
		return ErrPathNotFound
	}
	if stageIndex < 0 || stageIndex >= len(path.Stages) {
		return ErrResourceNotFound
	}
	stage := &path.Stages[stageIndex]
	if resourceIndex < 0 || resourceIndex >= len(stage.Resources) {
		return ErrResourceNotFound
	}

	stage.Resources[resourceIndex].Completed = completed

	resourceID := fmt.Sprintf("%s-%d-%d", pathID, stageIndex, resourceIndex)
	if completed {
		progress.CompletedResources = addUnique(progress.CompletedResources, resourceID)
	} else {
		progress.CompletedResources = remove(progress.CompletedResources, resourceID)
	}

	now := time.Now().UTC()
	recalcPath(path)
	if path.Progress == 100 {
		progress.SkillsLearned = addUnique(progress.SkillsLearned, path.Topic)
	}
	path.LastAccessedAt = now
	touchActivity(progress, now)

	return t.store.SaveUserProgress(*progress)
}

// RemovePath detaches a path and prunes every completedResources entry that
// belongs to it, so a later re-attach cannot inherit stale composite ids.
func (t *ProgressTracker) RemovePath(userID, pathID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	progress, err := t.store.GetUserProgress(userID)
	if err != nil {
		return err
	}
	if progress == nil {
		return ErrProgressNotFound
	}

	found := false
	paths := progress.LearningPaths[:0]
	for _, p := range progress.LearningPaths {
		if p.ID == pathID {
			found = true
			continue
		}
		paths = append(paths, p)
	}
	if !found {
		return ErrPathNotFound
	}
	progress.LearningPaths = paths

	prefix := pathID + "-"
	kept := progress.CompletedResources[:0]
	for _, id := range progress.CompletedResources {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			continue
		}
		kept = append(kept, id)
	}
	progress.CompletedResources = kept

	touchActivity(progress, time.Now().UTC())
	return t.store.SaveUserProgress(*progress)
}

// recalcPath recomputes all derived completion state of a path from its
// resource flags. A stage with no resources counts as completed; a path with
// no resources at all stays at progress 0.
func recalcPath(path *models.LearningPath) {
	total, done := 0, 0
	for i := range path.Stages {
		stage := &path.Stages[i]
		stageDone := true
		for j := range stage.Resources {
			total++
			if stage.Resources[j].Completed {
				done++
			} else {
				stageDone = false
			}
		}
		stage.Completed = stageDone
	}

	if total == 0 {
		path.Progress = 0
		return
	}
	// Round half away from zero, matching how the percentages were always
	// computed for these records.
	path.Progress = int(math.Round(float64(done) / float64(total) * 100))
}

// touchActivity updates lastActivityAt and the streak counter: a gap longer
// than 48 hours resets the streak to 1, a new calendar day inside the window
// extends it.
func touchActivity(progress *models.UserProgress, now time.Time) {
	last := progress.LastActivityAt
	switch {
	case progress.StreakDays == 0 || last.IsZero() || now.Sub(last) > 48*time.Hour:
		progress.StreakDays = 1
	case now.YearDay() != last.YearDay() || now.Year() != last.Year():
		progress.StreakDays++
	}
	progress.LastActivityAt = now
}

func addUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}

func remove(items []string, item string) []string {
	kept := items[:0]
	for _, existing := range items {
		if existing != item {
			kept = append(kept, existing)
		}
	}
	return kept
}
