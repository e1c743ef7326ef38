package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/regain/internal/training"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a process local store, used in development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]training.UserProfile
	systems  map[string]training.WeeklySystem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]training.UserProfile),
		systems:  make(map[string]training.WeeklySystem),
	}
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*training.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile [%s]: %w", userID, ErrNotFound)
	}
	profile.CurrentMilestones = profile.CurrentMilestones.Clone()
	return &profile, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, userID string, profile training.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile.CurrentMilestones = profile.CurrentMilestones.Clone()
	s.profiles[userID] = profile
	return nil
}

func (s *MemoryStore) GetTrainingSystem(_ context.Context, userID string) (*training.WeeklySystem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	system, ok := s.systems[userID]
	if !ok {
		return nil, fmt.Errorf("training system [%s]: %w", userID, ErrNotFound)
	}
	return &system, nil
}

func (s *MemoryStore) SaveTrainingSystem(_ context.Context, userID string, system training.WeeklySystem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.systems[userID] = system
	return nil
}
