package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/regain/internal/telemetry/tracing"
	"github.com/2beens/regain/internal/training"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS user_profile
(
    user_id    VARCHAR PRIMARY KEY,
    data       JSONB                    NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE TABLE IF NOT EXISTS training_system
(
    user_id    VARCHAR PRIMARY KEY,
    system_id  VARCHAR                  NOT NULL,
    data       JSONB                    NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL
);
`

var _ Store = (*PsqlStore)(nil)

type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db: db,
	}
}

// EnsureSchema creates the profile and training system tables if missing.
func (s *PsqlStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PsqlStore) GetProfile(ctx context.Context, userID string) (_ *training.UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.get_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	var data []byte
	err = s.db.QueryRow(
		ctx,
		`SELECT data FROM user_profile WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile [%s]: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("profile [query row]: %w", err)
	}

	var profile training.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("profile [unmarshal]: %w", err)
	}
	return &profile, nil
}

func (s *PsqlStore) SaveProfile(ctx context.Context, userID string, profile training.UserProfile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.save_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("profile [marshal]: %w", err)
	}

	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = s.db.Exec(
		ctx,
		`
			INSERT INTO user_profile (user_id, data, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		`,
		userID, data, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("profile [exec]: %w", err)
	}
	return nil
}

func (s *PsqlStore) GetTrainingSystem(ctx context.Context, userID string) (_ *training.WeeklySystem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.get_training_system")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	var data []byte
	err = s.db.QueryRow(
		ctx,
		`SELECT data FROM training_system WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("training system [%s]: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("training system [query row]: %w", err)
	}

	var system training.WeeklySystem
	if err := json.Unmarshal(data, &system); err != nil {
		return nil, fmt.Errorf("training system [unmarshal]: %w", err)
	}
	return &system, nil
}

func (s *PsqlStore) SaveTrainingSystem(ctx context.Context, userID string, system training.WeeklySystem) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.save_training_system")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	data, err := json.Marshal(system)
	if err != nil {
		return fmt.Errorf("training system [marshal]: %w", err)
	}

	createdAt := system.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(
		ctx,
		`
			INSERT INTO training_system (user_id, system_id, data, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET system_id = EXCLUDED.system_id, data = EXCLUDED.data, created_at = EXCLUDED.created_at
		`,
		userID, system.ID, data, createdAt,
	)
	if err != nil {
		return fmt.Errorf("training system [exec]: %w", err)
	}
	return nil
}
