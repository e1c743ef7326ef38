package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/regain/internal/telemetry/tracing"
	"github.com/2beens/regain/internal/training"
)

const (
	profileKeyPrefix = "regain||profile||"
	systemKeyPrefix  = "regain||system||"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (rs *RedisStore) GetProfile(ctx context.Context, userID string) (_ *training.UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.get_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	var profile training.UserProfile
	if err := rs.get(ctx, profileKeyPrefix+userID, &profile); err != nil {
		return nil, fmt.Errorf("profile [%s]: %w", userID, err)
	}
	return &profile, nil
}

func (rs *RedisStore) SaveProfile(ctx context.Context, userID string, profile training.UserProfile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.save_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	if err := rs.set(ctx, profileKeyPrefix+userID, profile); err != nil {
		return fmt.Errorf("save profile [%s]: %w", userID, err)
	}
	return nil
}

func (rs *RedisStore) GetTrainingSystem(ctx context.Context, userID string) (_ *training.WeeklySystem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.get_training_system")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	var system training.WeeklySystem
	if err := rs.get(ctx, systemKeyPrefix+userID, &system); err != nil {
		return nil, fmt.Errorf("training system [%s]: %w", userID, err)
	}
	return &system, nil
}

func (rs *RedisStore) SaveTrainingSystem(ctx context.Context, userID string, system training.WeeklySystem) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.save_training_system")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	if err := rs.set(ctx, systemKeyPrefix+userID, system); err != nil {
		return fmt.Errorf("save training system [%s]: %w", userID, err)
	}
	return nil
}

func (rs *RedisStore) get(ctx context.Context, key string, dest any) error {
	cmd := rs.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	data, err := cmd.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func (rs *RedisStore) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return rs.redisClient.Set(ctx, key, data, 0).Err()
}
