package store

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/regain/internal/training"
)

const DefaultLRUSize = 1024

var _ Store = (*LRUStore)(nil)

// LRUStore keeps the recently used profiles and training systems in memory in
// front of another store. Writes go through to the inner store first.
type LRUStore struct {
	inner    Store
	profiles *lru.Cache[string, training.UserProfile]
	systems  *lru.Cache[string, training.WeeklySystem]
}

func NewLRUStore(inner Store, size int) (*LRUStore, error) {
	if inner == nil {
		return nil, errors.New("inner store is nil")
	}
	if size <= 0 {
		size = DefaultLRUSize
	}

	profiles, err := lru.New[string, training.UserProfile](size)
	if err != nil {
		return nil, fmt.Errorf("profiles cache: %w", err)
	}
	systems, err := lru.New[string, training.WeeklySystem](size)
	if err != nil {
		return nil, fmt.Errorf("systems cache: %w", err)
	}

	return &LRUStore{
		inner:    inner,
		profiles: profiles,
		systems:  systems,
	}, nil
}

func (s *LRUStore) GetProfile(ctx context.Context, userID string) (*training.UserProfile, error) {
	if profile, ok := s.profiles.Get(userID); ok {
		log.Tracef("lru store: profile [%s] cache hit", userID)
		profile.CurrentMilestones = profile.CurrentMilestones.Clone()
		return &profile, nil
	}

	profile, err := s.inner.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	cached := *profile
	cached.CurrentMilestones = profile.CurrentMilestones.Clone()
	s.profiles.Add(userID, cached)
	return profile, nil
}

func (s *LRUStore) SaveProfile(ctx context.Context, userID string, profile training.UserProfile) error {
	if err := s.inner.SaveProfile(ctx, userID, profile); err != nil {
		s.profiles.Remove(userID)
		return err
	}
	profile.CurrentMilestones = profile.CurrentMilestones.Clone()
	s.profiles.Add(userID, profile)
	return nil
}

func (s *LRUStore) GetTrainingSystem(ctx context.Context, userID string) (*training.WeeklySystem, error) {
	if system, ok := s.systems.Get(userID); ok {
		log.Tracef("lru store: training system [%s] cache hit", userID)
		return &system, nil
	}

	system, err := s.inner.GetTrainingSystem(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.systems.Add(userID, *system)
	return system, nil
}

func (s *LRUStore) SaveTrainingSystem(ctx context.Context, userID string, system training.WeeklySystem) error {
	if err := s.inner.SaveTrainingSystem(ctx, userID, system); err != nil {
		s.systems.Remove(userID)
		return err
	}
	s.systems.Add(userID, system)
	return nil
}

// Purge drops all cached entries.
func (s *LRUStore) Purge() {
	s.profiles.Purge()
	s.systems.Purge()
}
