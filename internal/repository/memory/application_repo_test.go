package memory

import (
	"context"
	"testing"
	"time"

	"muzza-postulaciones/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestApplicationRepo(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	repo := newApplicationRepo(time.Hour, clock.Now)

	app := &domain.Application{ID: "app-1", State: domain.NewFormState(false)}
	require.NoError(t, repo.Create(ctx, app))

	t.Run("Should reject duplicate ids", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, app))
	})

	t.Run("Should return isolated copies", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "app-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		got.State.Sections[domain.SectionMotivation] = true

		again, err := repo.GetByID(ctx, "app-1")
		require.NoError(t, err)
		assert.False(t, again.State.Sections[domain.SectionMotivation])
	})

	t.Run("Should return nil for unknown ids", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Should refresh expiry on update", func(t *testing.T) {
		clock.t = clock.t.Add(50 * time.Minute)
		require.NoError(t, repo.Update(ctx, app))
		clock.t = clock.t.Add(50 * time.Minute)
		got, err := repo.GetByID(ctx, "app-1")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("Should expire idle sessions", func(t *testing.T) {
		clock.t = clock.t.Add(2 * time.Hour)
		got, err := repo.GetByID(ctx, "app-1")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, repo.Update(ctx, app), domain.ErrApplicationNotFound)
	})

	t.Run("Should evict expired entries and delete", func(t *testing.T) {
		other := &domain.Application{ID: "app-2", State: domain.NewFormState(false)}
		require.NoError(t, repo.Create(ctx, other))
		clock.t = clock.t.Add(2 * time.Hour)
		repo.evictExpired()
		assert.Empty(t, repo.entries)

		require.NoError(t, repo.Create(ctx, other))
		require.NoError(t, repo.Delete(ctx, "app-2"))
		got, _ := repo.GetByID(ctx, "app-2")
		assert.Nil(t, got)
	})
}
