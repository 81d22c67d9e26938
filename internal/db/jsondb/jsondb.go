// Package jsondb keeps user profiles in a JSON file. The file is read once
// on New and rewritten after every successful removal and on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/patric-chuzhbe/profiledel/internal/db/memorystorage"
	"github.com/patric-chuzhbe/profiledel/internal/models"
)

// JSONDB is a memorystorage.MemoryStorage backed by a JSON file.
type JSONDB struct {
	*memorystorage.MemoryStorage
	fileName string
	fileMu   sync.Mutex
}

type fileContent struct {
	Profiles []models.UserProfile `json:"profiles"`
}

// New loads fileName, creating an empty profile file when it does not exist.
func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{
		MemoryStorage: memorystorage.New(),
		fileName:      fileName,
	}

	content, err := readFile(fileName)
	if errors.Is(err, os.ErrNotExist) {
		return db, db.flush()
	}
	if err != nil {
		return nil, err
	}

	for _, profile := range content.Profiles {
		if err := db.MemoryStorage.AddProfile(context.Background(), profile); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// AddProfile stores profile and persists the file.
func (db *JSONDB) AddProfile(ctx context.Context, profile models.UserProfile) error {
	if err := db.MemoryStorage.AddProfile(ctx, profile); err != nil {
		return err
	}

	return db.flush()
}

// RemoveProfile deletes the profile and persists the file.
func (db *JSONDB) RemoveProfile(ctx context.Context, userID string) error {
	if err := db.MemoryStorage.RemoveProfile(ctx, userID); err != nil {
		return err
	}

	return db.flush()
}

func (db *JSONDB) Close() error {
	return db.flush()
}

func readFile(fileName string) (*fileContent, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content := &fileContent{}
	if err := json.NewDecoder(file).Decode(content); err != nil {
		return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/readFile(): error while `Decode()` calling: %w", err)
	}

	return content, nil
}

func (db *JSONDB) flush() error {
	db.fileMu.Lock()
	defer db.fileMu.Unlock()

	jsonData, err := json.MarshalIndent(fileContent{Profiles: db.Profiles()}, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	err = os.WriteFile(db.fileName, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}
