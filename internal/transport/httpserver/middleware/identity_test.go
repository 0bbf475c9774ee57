package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-go/internal/config"
	"fintrack-go/pkg/logger"
)

type fakeUserSaver struct {
	seen []string
}

func (s *fakeUserSaver) EnsureUser(_ context.Context, userID string) error {
	s.seen = append(s.seen, userID)
	return nil
}

func newTestIdentity(users *fakeUserSaver) *Identity {
	log := logger.New(io.Discard, slog.LevelError, "json")
	return NewIdentity(config.IdentityConfig{Header: "X-User-ID"}, users, log)
}

func captureUserHandler(gotUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := UserIDFromContext(r.Context()); ok {
			*gotUserID = userID
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestIdentityMissingHeaderRejected(t *testing.T) {
	users := &fakeUserSaver{}
	handler := newTestIdentity(users).Middleware(captureUserHandler(new(string)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bills", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing user identity")
	assert.Empty(t, users.seen)
}

func TestIdentityNonUUIDHeaderRejected(t *testing.T) {
	users := &fakeUserSaver{}
	handler := newTestIdentity(users).Middleware(captureUserHandler(new(string)))

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// users.id is a UUID column, so a malformed identity must be turned
	// away before EnsureUser tries to insert it
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid user identity")
	assert.Empty(t, users.seen)
}

func TestIdentityValidUUIDPassesThrough(t *testing.T) {
	const userID = "6f1c2a34-9d0b-4a57-8e21-3c9b5f7d1e02"

	users := &fakeUserSaver{}
	var gotUserID string
	handler := newTestIdentity(users).Middleware(captureUserHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, []string{userID}, users.seen)
}
