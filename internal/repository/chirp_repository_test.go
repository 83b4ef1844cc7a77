package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/repository"
	"github.com/straye-as/chirps-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestChirpRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewChirpRepository(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "alice")

	chirp := &domain.Chirp{UserID: user.ID, Message: "hello world"}
	require.NoError(t, repo.Create(ctx, chirp))
	assert.NotEqual(t, uuid.Nil, chirp.ID)

	found, err := repo.GetByID(ctx, chirp.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello world", found.Message)
	assert.Nil(t, found.User)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestChirpRepository_GetByIDWithRelations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewChirpRepository(db)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	chirp := testutil.CreateTestChirp(t, db, alice.ID, "hello")

	testutil.CreateTestReaction(t, db, chirp.ID, bob.ID, domain.ReactionWow)
	older := testutil.CreateTestComment(t, db, chirp.ID, bob.ID, "first")
	newer := testutil.CreateTestComment(t, db, chirp.ID, alice.ID, "second")
	testutil.SetCreatedAt(t, db, &domain.Comment{}, older.ID, time.Now().Add(-time.Hour))

	found, err := repo.GetByIDWithRelations(ctx, chirp.ID)
	require.NoError(t, err)

	require.NotNil(t, found.User)
	assert.Equal(t, "alice", found.User.Name)
	require.Len(t, found.Reactions, 1)
	require.NotNil(t, found.Reactions[0].User)
	assert.Equal(t, "bob", found.Reactions[0].User.Name)
	require.Len(t, found.Comments, 2)
	assert.Equal(t, newer.ID, found.Comments[0].ID)
	assert.Equal(t, older.ID, found.Comments[1].ID)
	require.NotNil(t, found.Comments[1].User)
}

func TestChirpRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewChirpRepository(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		chirp := testutil.CreateTestChirp(t, db, user.ID, "chirp")
		testutil.SetCreatedAt(t, db, &domain.Chirp{}, chirp.ID, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, chirp.ID)
	}

	t.Run("newest first", func(t *testing.T) {
		chirps, total, err := repo.List(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, chirps, 2)
		assert.Equal(t, ids[4], chirps[0].ID)
		assert.Equal(t, ids[3], chirps[1].ID)
		require.NotNil(t, chirps[0].User)
	})

	t.Run("last page", func(t *testing.T) {
		chirps, _, err := repo.List(ctx, 3, 2)
		require.NoError(t, err)
		require.Len(t, chirps, 1)
		assert.Equal(t, ids[0], chirps[0].ID)
	})

	t.Run("past the end", func(t *testing.T) {
		chirps, total, err := repo.List(ctx, 10, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Empty(t, chirps)
	})
}

func TestChirpRepository_UpdateMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewChirpRepository(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "alice")
	chirp := testutil.CreateTestChirp(t, db, user.ID, "before")
	testutil.SetCreatedAt(t, db, &domain.Chirp{}, chirp.ID, time.Now().Add(-time.Hour))

	stored, err := repo.GetByID(ctx, chirp.ID)
	require.NoError(t, err)
	require.False(t, stored.IsEdited())

	require.NoError(t, repo.UpdateMessage(ctx, stored, "after"))

	found, err := repo.GetByID(ctx, chirp.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Message)
	assert.True(t, found.IsEdited())
}

func TestChirpRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewChirpRepository(db)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	chirp := testutil.CreateTestChirp(t, db, alice.ID, "doomed")
	other := testutil.CreateTestChirp(t, db, alice.ID, "survivor")

	testutil.CreateTestReaction(t, db, chirp.ID, bob.ID, domain.ReactionSad)
	testutil.CreateTestComment(t, db, chirp.ID, bob.ID, "bye")
	testutil.CreateTestNotification(t, db, alice.ID, bob.ID, chirp.ID, domain.NotificationTypeComment, false)
	testutil.CreateTestComment(t, db, other.ID, bob.ID, "still here")

	require.NoError(t, repo.Delete(ctx, chirp.ID))

	_, err := repo.GetByID(ctx, chirp.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reactions, comments, notifications int64
	db.Model(&domain.Reaction{}).Count(&reactions)
	db.Model(&domain.Comment{}).Count(&comments)
	db.Model(&domain.Notification{}).Count(&notifications)
	assert.Equal(t, int64(0), reactions)
	assert.Equal(t, int64(1), comments)
	assert.Equal(t, int64(0), notifications)

	assert.ErrorIs(t, repo.Delete(ctx, chirp.ID), gorm.ErrRecordNotFound)
}
