package service_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"github.com/straye-as/chirps-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChirpService_Create(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.chirpService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	ctx := userContext(alice)

	dto, err := svc.Create(ctx, &domain.CreateChirpRequest{Message: "  hello world  "})
	require.NoError(t, err)
	assert.Equal(t, "hello world", dto.Message)
	assert.Equal(t, alice.ID, dto.User.ID)
	assert.Equal(t, "alice", dto.User.Name)
	assert.Empty(t, dto.Reactions)
	assert.Empty(t, dto.Comments)
	assert.Len(t, dto.ReactionCounts, len(domain.ReactionTypes))
	assert.False(t, dto.Edited)
	assert.Contains(t, f.invalidator.invalidated(), alice.ID)

	t.Run("rejects blank and oversized messages", func(t *testing.T) {
		for _, msg := range []string{"", "   ", strings.Repeat("a", domain.MaxMessageLength+1)} {
			_, err := svc.Create(ctx, &domain.CreateChirpRequest{Message: msg})
			assert.ErrorIs(t, err, service.ErrInvalidMessage)
		}
	})

	t.Run("accepts exactly the maximum length in characters", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateChirpRequest{Message: strings.Repeat("å", domain.MaxMessageLength)})
		assert.NoError(t, err)
	})

	t.Run("system principal cannot post", func(t *testing.T) {
		_, err := svc.Create(systemContext(), &domain.CreateChirpRequest{Message: "hi"})
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}

func TestChirpService_List(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.chirpService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	bob := testutil.CreateTestUser(t, f.db, "bob")

	chirp := testutil.CreateTestChirp(t, f.db, alice.ID, "first")
	testutil.CreateTestChirp(t, f.db, bob.ID, "second")
	testutil.CreateTestReaction(t, f.db, chirp.ID, bob.ID, domain.ReactionLove)

	resp, err := svc.List(userContext(bob), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, 1, resp.TotalPages)

	chirps, ok := resp.Data.([]domain.ChirpDTO)
	require.True(t, ok)
	require.Len(t, chirps, 2)

	for _, c := range chirps {
		if c.ID == chirp.ID {
			assert.Equal(t, "love", c.MyReaction)
			assert.Equal(t, 1, c.ReactionCounts["love"])
		}
	}
}

func TestChirpService_GetByID(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.chirpService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	chirp := testutil.CreateTestChirp(t, f.db, alice.ID, "hi")

	dto, err := svc.GetByID(userContext(alice), chirp.ID)
	require.NoError(t, err)
	assert.Equal(t, chirp.ID, dto.ID)

	_, err = svc.GetByID(userContext(alice), uuid.New())
	assert.ErrorIs(t, err, service.ErrChirpNotFound)
}

func TestChirpService_Update(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.chirpService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	bob := testutil.CreateTestUser(t, f.db, "bob")
	chirp := testutil.CreateTestChirp(t, f.db, alice.ID, "before")

	t.Run("owner", func(t *testing.T) {
		dto, err := svc.Update(userContext(alice), chirp.ID, &domain.UpdateChirpRequest{Message: "after"})
		require.NoError(t, err)
		assert.Equal(t, "after", dto.Message)
	})

	t.Run("someone else", func(t *testing.T) {
		_, err := svc.Update(userContext(bob), chirp.ID, &domain.UpdateChirpRequest{Message: "hijack"})
		assert.ErrorIs(t, err, service.ErrNotChirpOwner)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Update(userContext(alice), uuid.New(), &domain.UpdateChirpRequest{Message: "x"})
		assert.ErrorIs(t, err, service.ErrChirpNotFound)
	})

	t.Run("invalid message", func(t *testing.T) {
		_, err := svc.Update(userContext(alice), chirp.ID, &domain.UpdateChirpRequest{Message: " "})
		assert.ErrorIs(t, err, service.ErrInvalidMessage)
	})
}

func TestChirpService_Delete(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.chirpService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	bob := testutil.CreateTestUser(t, f.db, "bob")
	chirp := testutil.CreateTestChirp(t, f.db, alice.ID, "bye")
	testutil.CreateTestComment(t, f.db, chirp.ID, bob.ID, "noo")

	assert.ErrorIs(t, svc.Delete(userContext(bob), chirp.ID), service.ErrNotChirpOwner)

	require.NoError(t, svc.Delete(userContext(alice), chirp.ID))
	assert.Contains(t, f.invalidator.invalidated(), alice.ID)

	_, err := svc.GetByID(userContext(alice), chirp.ID)
	assert.ErrorIs(t, err, service.ErrChirpNotFound)

	assert.ErrorIs(t, svc.Delete(userContext(alice), chirp.ID), service.ErrChirpNotFound)
}
