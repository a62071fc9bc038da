package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skillmap-backend/config"
	"skillmap-backend/models"
)

const (
	collectionUsers    = "users"
	collectionProgress = "progress"
)

// record is one document in a named collection.
type record struct {
	Collection string         `gorm:"primaryKey;size:32"`
	Key        string         `gorm:"primaryKey;size:128"`
	Data       datatypes.JSON `gorm:"not null"`
}

// GormStore keeps each record as a JSON document row, which preserves the
// record store contract while swapping the file backing for a database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// OpenPostgres connects using the configured credentials and returns a store
// backed by it.
func OpenPostgres(cfg *config.Config) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormStore(db)
}

func (gs *GormStore) GetUsers() ([]models.User, error) {
	users := []models.User{}
	err := gs.each(collectionUsers, func(data []byte) error {
		var u models.User
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (gs *GormStore) SaveUser(user models.User) error {
	return gs.upsert(collectionUsers, user.ID, user)
}

func (gs *GormStore) FindUserByEmail(email string) (*models.User, error) {
	users, err := gs.GetUsers()
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

func (gs *GormStore) FindUserByID(id string) (*models.User, error) {
	var u models.User
	found, err := gs.findOne(collectionUsers, id, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (gs *GormStore) GetAllProgress() ([]models.UserProgress, error) {
	all := []models.UserProgress{}
	err := gs.each(collectionProgress, func(data []byte) error {
		var p models.UserProgress
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		all = append(all, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (gs *GormStore) GetUserProgress(userID string) (*models.UserProgress, error) {
	var p models.UserProgress
	found, err := gs.findOne(collectionProgress, userID, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (gs *GormStore) SaveUserProgress(progress models.UserProgress) error {
	return gs.upsert(collectionProgress, progress.UserID, progress)
}

func (gs *GormStore) each(collection string, fn func(data []byte) error) error {
	var recs []record
	if err := gs.db.Where("collection = ?", collection).Order("key").Find(&recs).Error; err != nil {
		return fmt.Errorf("failed to read %s: %w", collection, err)
	}
	for _, rec := range recs {
		if err := fn(rec.Data); err != nil {
			return fmt.Errorf("failed to parse %s record %s: %w", collection, rec.Key, err)
		}
	}
	return nil
}

func (gs *GormStore) findOne(collection, key string, out interface{}) (bool, error) {
	var rec record
	err := gs.db.Where("collection = ? AND key = ?", collection, key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	if err := json.Unmarshal(rec.Data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s record %s: %w", collection, key, err)
	}
	return true, nil
}

func (gs *GormStore) upsert(collection, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	rec := record{Collection: collection, Key: key, Data: data}
	err = gs.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return nil
}
