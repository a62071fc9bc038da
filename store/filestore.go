package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"skillmap-backend/models"
)

const (
	usersFile    = "users.json"
	progressFile = "progress.json"
)

// FileStore keeps each collection in a pretty-printed JSON file under dataDir.
// A single mutex serializes access within the process; concurrent processes
// sharing the same files still race (last writer wins).
type FileStore struct {
	mu      sync.Mutex
	dataDir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	fs := &FileStore{dataDir: dataDir}
	for _, name := range []string{usersFile, progressFile} {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to init %s: %w", name, err)
			}
		}
	}
	return fs, nil
}

func (fs *FileStore) GetUsers() ([]models.User, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var users []models.User
	if err := fs.read(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (fs *FileStore) SaveUser(user models.User) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var users []models.User
	if err := fs.read(usersFile, &users); err != nil {
		return err
	}

	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	return fs.write(usersFile, users)
}

func (fs *FileStore) FindUserByEmail(email string) (*models.User, error) {
	users, err := fs.GetUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (fs *FileStore) FindUserByID(id string) (*models.User, error) {
	users, err := fs.GetUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (fs *FileStore) GetAllProgress() ([]models.UserProgress, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var progress []models.UserProgress
	if err := fs.read(progressFile, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (fs *FileStore) GetUserProgress(userID string) (*models.UserProgress, error) {
	all, err := fs.GetAllProgress()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].UserID == userID {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (fs *FileStore) SaveUserProgress(progress models.UserProgress) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var all []models.UserProgress
	if err := fs.read(progressFile, &all); err != nil {
		return err
	}

	replaced := false
	for i := range all {
		if all[i].UserID == progress.UserID {
			all[i] = progress
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, progress)
	}
	return fs.write(progressFile, all)
}

func (fs *FileStore) read(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(fs.dataDir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (fs *FileStore) write(name string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(fs.dataDir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
