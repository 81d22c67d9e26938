// Package memorystorage keeps user profiles in process memory.
package memorystorage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/patric-chuzhbe/profiledel/internal/models"
)

// MemoryStorage is a concurrency-safe set of user profiles keyed by ID.
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
}

// New returns a MemoryStorage holding a profile for each of the given IDs.
func New(userIDs ...string) *MemoryStorage {
	storage := &MemoryStorage{
		profiles: map[string]models.UserProfile{},
	}
	now := time.Now().UTC()
	for _, userID := range userIDs {
		storage.profiles[userID] = models.UserProfile{ID: userID, CreatedAt: now}
	}

	return storage
}

// AddProfile stores profile, replacing any profile with the same ID.
func (s *MemoryStorage) AddProfile(ctx context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.ID] = profile

	return nil
}

// RemoveProfile deletes the profile or returns models.ErrProfileNotFound.
func (s *MemoryStorage) RemoveProfile(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; !ok {
		return models.ErrProfileNotFound
	}
	delete(s.profiles, userID)

	return nil
}

// HasProfile reports whether a profile with userID is stored.
func (s *MemoryStorage) HasProfile(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.profiles[userID]

	return ok, nil
}

// Profiles returns a snapshot of all stored profiles ordered by ID.
func (s *MemoryStorage) Profiles() []models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.UserProfile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		result = append(result, profile)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

func (s *MemoryStorage) Close() error {
	return nil
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
