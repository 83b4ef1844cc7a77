package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/repository"
	"github.com/straye-as/chirps-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDashboardRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "owner")
	anna := testutil.CreateTestUser(t, db, "anna")
	ben := testutil.CreateTestUser(t, db, "ben")
	cleo := testutil.CreateTestUser(t, db, "cleo")
	dan := testutil.CreateTestUser(t, db, "dan")

	first := testutil.CreateTestChirp(t, db, owner.ID, "first")
	second := testutil.CreateTestChirp(t, db, owner.ID, "second")
	foreign := testutil.CreateTestChirp(t, db, anna.ID, "not the owner's")

	// self engagement is never counted
	testutil.CreateTestReaction(t, db, first.ID, owner.ID, domain.ReactionLike)
	testutil.CreateTestComment(t, db, first.ID, owner.ID, "talking to myself")

	testutil.CreateTestReaction(t, db, first.ID, ben.ID, domain.ReactionLike)
	testutil.CreateTestReaction(t, db, second.ID, ben.ID, domain.ReactionLove)
	testutil.CreateTestReaction(t, db, first.ID, anna.ID, domain.ReactionWow)
	testutil.CreateTestReaction(t, db, first.ID, dan.ID, domain.ReactionSad)
	testutil.CreateTestReaction(t, db, second.ID, cleo.ID, domain.ReactionSad)
	testutil.CreateTestReaction(t, db, foreign.ID, ben.ID, domain.ReactionAngry)

	c1 := testutil.CreateTestComment(t, db, first.ID, cleo.ID, "c1")
	c2 := testutil.CreateTestComment(t, db, second.ID, cleo.ID, "c2")
	c3 := testutil.CreateTestComment(t, db, first.ID, anna.ID, "c3")
	testutil.CreateTestComment(t, db, foreign.ID, cleo.ID, "elsewhere")

	now := time.Now().UTC()
	testutil.SetCreatedAt(t, db, &domain.Comment{}, c1.ID, now.Add(-3*time.Hour))
	testutil.SetCreatedAt(t, db, &domain.Comment{}, c2.ID, now.Add(-2*time.Hour))
	testutil.SetCreatedAt(t, db, &domain.Comment{}, c3.ID, now.Add(-1*time.Hour))

	t.Run("totals", func(t *testing.T) {
		chirps, err := repo.CountChirps(ctx, owner.ID, repository.TimeRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), chirps)

		reactions, err := repo.CountReactionsReceived(ctx, owner.ID, repository.TimeRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), reactions)

		comments, err := repo.CountCommentsReceived(ctx, owner.ID, repository.TimeRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), comments)
	})

	t.Run("time range", func(t *testing.T) {
		from := now.Add(-150 * time.Minute)
		to := now.Add(-90 * time.Minute)

		comments, err := repo.CountCommentsReceived(ctx, owner.ID, repository.TimeRange{From: &from, To: &to})
		require.NoError(t, err)
		assert.Equal(t, int64(1), comments, "only c2 falls in the window")
	})

	t.Run("latest comments", func(t *testing.T) {
		latest, err := repo.LatestCommentsReceived(ctx, owner.ID, 2)
		require.NoError(t, err)
		require.Len(t, latest, 2)
		assert.Equal(t, c3.ID, latest[0].ID)
		assert.Equal(t, c2.ID, latest[1].ID)
		require.NotNil(t, latest[0].User)
		assert.Equal(t, "anna", latest[0].User.Name)
	})

	t.Run("top reactors", func(t *testing.T) {
		top, err := repo.TopReactors(ctx, owner.ID, 3)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "ben", top[0].Name)
		assert.Equal(t, int64(2), top[0].Total)
		// ties broken by name
		assert.Equal(t, "anna", top[1].Name)
		assert.Equal(t, "cleo", top[2].Name)
	})

	t.Run("top commenters", func(t *testing.T) {
		top, err := repo.TopCommenters(ctx, owner.ID, 3)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "cleo", top[0].Name)
		assert.Equal(t, int64(2), top[0].Total)
		assert.Equal(t, "anna", top[1].Name)
		assert.Equal(t, anna.ID, top[1].UserID)
	})
}
