package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmesh/blogroll/pkg/domain"
)

func TestClickEvents(t *testing.T) {
	ctx := context.Background()
	stores := setupTestStores(t)

	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, stores.Recommendations.Save(ctx, makeRec(t, "1", "One", "https://example.com/1", base)))
	require.NoError(t, stores.Recommendations.Save(ctx, makeRec(t, "2", "Two", "https://example.com/2", base)))

	member := "member-1"
	require.NoError(t, stores.ClickEvents.Save(ctx, domain.NewClickEvent("1", &member)))
	require.NoError(t, stores.ClickEvents.Save(ctx, domain.NewClickEvent("1", nil)))
	require.NoError(t, stores.ClickEvents.Save(ctx, domain.NewClickEvent("2", nil)))

	t.Run("count all", func(t *testing.T) {
		count, err := stores.ClickEvents.GetCount(ctx, Options{})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("count filtered by recommendation", func(t *testing.T) {
		count, err := stores.ClickEvents.GetCount(ctx, Options{Filter: "recommendationId:1"})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("grouped by recommendation", func(t *testing.T) {
		groups, err := stores.ClickEvents.GetGroupedCount(ctx, "recommendationId", Options{})
		require.NoError(t, err)
		assert.Equal(t, []GroupCount{{Group: "1", Count: 2}, {Group: "2", Count: 1}}, groups)
	})

	t.Run("grouping by unknown field fails", func(t *testing.T) {
		_, err := stores.ClickEvents.GetGroupedCount(ctx, "secret", Options{})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestSubscribeEvents(t *testing.T) {
	ctx := context.Background()
	stores := setupTestStores(t)

	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, stores.Recommendations.Save(ctx, makeRec(t, "1", "One", "https://example.com/1", base)))

	ev, err := domain.NewSubscribeEvent("1", "member-1")
	require.NoError(t, err)
	require.NoError(t, stores.SubscribeEvents.Save(ctx, ev))

	count, err := stores.SubscribeEvents.GetCount(ctx, Options{Filter: "recommendationId:1"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	stores := setupTestStores(t)

	t.Run("unset key reads as empty", func(t *testing.T) {
		value, err := stores.Settings.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("bool round trip", func(t *testing.T) {
		enabled, err := stores.Settings.GetBool(ctx, SettingRecommendationsEnabled)
		require.NoError(t, err)
		assert.False(t, enabled)

		require.NoError(t, stores.Settings.SetBool(ctx, SettingRecommendationsEnabled, true))
		enabled, err = stores.Settings.GetBool(ctx, SettingRecommendationsEnabled)
		require.NoError(t, err)
		assert.True(t, enabled)
	})
}
