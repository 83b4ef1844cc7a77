package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/service"
	"github.com/straye-as/chirps-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Create(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.commentService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	bob := testutil.CreateTestUser(t, f.db, "bob")
	chirp := testutil.CreateTestChirp(t, f.db, alice.ID, "say something")

	dto, err := svc.Create(userContext(bob), chirp.ID, &domain.CreateCommentRequest{Content: " nice one "})
	require.NoError(t, err)
	assert.Equal(t, "nice one", dto.Content)
	assert.Equal(t, chirp.ID, dto.ChirpID)
	assert.Equal(t, "bob", dto.User.Name)
	assert.Equal(t, int64(1), f.countNotifications(t, alice.ID))
	assert.Contains(t, f.invalidator.invalidated(), alice.ID)

	t.Run("commenting on your own chirp does not notify", func(t *testing.T) {
		_, err := svc.Create(userContext(alice), chirp.ID, &domain.CreateCommentRequest{Content: "thanks"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.countNotifications(t, alice.ID))
	})

	t.Run("invalid content", func(t *testing.T) {
		_, err := svc.Create(userContext(bob), chirp.ID, &domain.CreateCommentRequest{Content: "  "})
		assert.ErrorIs(t, err, service.ErrInvalidMessage)
	})

	t.Run("unknown chirp", func(t *testing.T) {
		_, err := svc.Create(userContext(bob), uuid.New(), &domain.CreateCommentRequest{Content: "hello?"})
		assert.ErrorIs(t, err, service.ErrChirpNotFound)
	})
}

func TestCommentService_List(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.commentService()
	alice := testutil.CreateTestUser(t, f.db, "alice")
	chirp := testutil.CreateTestChirp(t, f.db, alice.ID, "hi")
	testutil.CreateTestComment(t, f.db, chirp.ID, alice.ID, "one")
	testutil.CreateTestComment(t, f.db, chirp.ID, alice.ID, "two")

	comments, err := svc.List(userContext(alice), chirp.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	_, err = svc.List(userContext(alice), uuid.New())
	assert.ErrorIs(t, err, service.ErrChirpNotFound)
}
