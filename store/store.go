// Package store persists the "users" and "progress" collections. Every write
// is a whole-collection read-modify-write: an upsert replaces the record with
// the same key or appends it, and the last writer wins. The store gives no
// cross-call isolation — two callers racing on the same collection can drop
// one of the two updates. Callers must re-read at the start of every mutating
// operation and never cache records across requests.
package store

import "skillmap-backend/models"

// Store is the record store backing the auth handlers and the progress
// tracker. Find methods return (nil, nil) when nothing matches; errors are
// reserved for storage failures.
type Store interface {
	GetUsers() ([]models.User, error)
	SaveUser(user models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id string) (*models.User, error)

	GetAllProgress() ([]models.UserProgress, error)
	GetUserProgress(userID string) (*models.UserProgress, error)
	SaveUserProgress(progress models.UserProgress) error
}
