package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/http/handler"
	"github.com/straye-as/chirps-api/internal/repository"
	"github.com/straye-as/chirps-api/internal/service"
	"github.com/straye-as/chirps-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommentHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), nil, zap.NewNop())
	svc := service.NewCommentService(repository.NewCommentRepository(db), repository.NewChirpRepository(db), notifications, nil, zap.NewNop())
	h := handler.NewCommentHandler(svc, zap.NewNop())

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	chirp := testutil.CreateTestChirp(t, db, alice.ID, "talk to me")
	id := chirp.ID.String()
	path := "/api/v1/chirps/" + id + "/comments"

	t.Run("create", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, newRequest(t, userContext(bob), http.MethodPost, path, domain.CreateCommentRequest{Content: "hey"}, "chirpId", id))

		require.Equal(t, http.StatusCreated, w.Code)
		var resp domain.CommentResponse
		decode(t, w, &resp)
		assert.Equal(t, "hey", resp.Comment.Content)
		assert.Equal(t, "bob", resp.Comment.User.Name)
	})

	t.Run("missing content", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, newRequest(t, userContext(bob), http.MethodPost, path, domain.CreateCommentRequest{}, "chirpId", id))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, newRequest(t, userContext(alice), http.MethodGet, path, nil, "chirpId", id))

		require.Equal(t, http.StatusOK, w.Code)
		var resp domain.CommentsResponse
		decode(t, w, &resp)
		assert.Len(t, resp.Comments, 1)
	})
}
