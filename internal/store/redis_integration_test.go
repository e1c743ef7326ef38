//go:build integration_test || all_tests

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	regaintesting "github.com/2beens/regain/pkg/testing"
)

func TestRedisStore_Integration(t *testing.T) {
	ctx, rdb := regaintesting.GetRedisClientAndCtx(t)
	rs := NewRedisStore(rdb)

	require.NoError(t, rdb.Del(ctx, "regain||profile||it-user").Err())

	_, err := rs.GetProfile(ctx, "it-user")
	require.ErrorIs(t, err, ErrNotFound)

	profile := testProfile("it-user")
	require.NoError(t, rs.SaveProfile(ctx, "it-user", profile))

	got, err := rs.GetProfile(ctx, "it-user")
	require.NoError(t, err)
	assert.Equal(t, profile.PreferredDisciplines, got.PreferredDisciplines)
	assert.Equal(t, 2, got.CurrentMilestones.Count("ex-squat", "var-air-squat"))

	require.NoError(t, rdb.Del(ctx, "regain||profile||it-user").Err())
}
