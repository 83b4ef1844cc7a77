package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
	})
}

// newRequest builds a request carrying ctx, an optional JSON body and chi URL params given as key/value pairs
func newRequest(t *testing.T, ctx context.Context, method, target string, body interface{}, params ...string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}
