package store

import (
	"context"
	"errors"

	"github.com/2beens/regain/internal/training"
)

var ErrNotFound = errors.New("not found")

// ProfileStore keeps the user profiles (onboarding answers and milestones).
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*training.UserProfile, error)
	SaveProfile(ctx context.Context, userID string, profile training.UserProfile) error
}

// TrainingSystemStore keeps the current weekly training system of each user.
type TrainingSystemStore interface {
	GetTrainingSystem(ctx context.Context, userID string) (*training.WeeklySystem, error)
	SaveTrainingSystem(ctx context.Context, userID string, system training.WeeklySystem) error
}

type Store interface {
	ProfileStore
	TrainingSystemStore
}
