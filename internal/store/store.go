package store

import (
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Entry is one persisted key-value pair
type Entry struct {
	Key   string `gorm:"primary_key"`
	Value string
}

// Store is the bot's key-value persistence gateway. It holds the next
// order number and snapshots of finalized orders between runs.
type Store struct {
	db *gorm.DB
}

// Open opens the store at path and migrates its schema
func Open(path string) (*Store, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.AutoMigrate(&Entry{})
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open database, for sharing one sqlite file
// with the ledger service
func NewWithDB(db *gorm.DB) *Store {
	db.AutoMigrate(&Entry{})
	return &Store{db: db}
}

// Load returns the value stored under key
func (s *Store) Load(key string) (string, bool) {
	var entry Entry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		return "", false
	}
	return entry.Value, true
}

// Save writes value under key, replacing any previous value
func (s *Store) Save(key, value string) error {
	var entry Entry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		return s.db.Create(&Entry{Key: key, Value: value}).Error
	}
	entry.Value = value
	return s.db.Save(&entry).Error
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
