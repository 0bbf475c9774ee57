package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack-go/internal/config"
	"fintrack-go/pkg/logger"
)

type contextKey int

const userIDKey contextKey = iota

// UserSaver keeps the users table in sync with identities seen on
// the wire, so foreign keys resolve on first contact.
type UserSaver interface {
	EnsureUser(ctx context.Context, userID string) error
}

// Identity trusts the user id forwarded by the gateway in a header.
// Token verification happens upstream; this service only needs to know
// who the caller is.
type Identity struct {
	header        string
	defaultUserID string
	users         UserSaver
	log           logger.Logger
}

func NewIdentity(cfg config.IdentityConfig, users UserSaver, log logger.Logger) *Identity {
	header := strings.TrimSpace(cfg.Header)
	if header == "" {
		header = "X-User-ID"
	}
	return &Identity{
		header:        header,
		defaultUserID: strings.TrimSpace(cfg.DefaultUserID),
		users:         users,
		log:           log,
	}
}

func (i *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(i.header))
		if userID == "" {
			userID = i.defaultUserID
		}
		if userID == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing user identity"}}`))
			return
		}

		// The users table keys on UUID, so anything else is rejected here
		// instead of surfacing as an insert failure.
		if _, err := uuid.Parse(userID); err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"invalid user identity"}}`))
			return
		}

		if i.users != nil {
			if err := i.users.EnsureUser(r.Context(), userID); err != nil {
				i.log.InternalError("identity: ensure user failed", err, "user_id", userID)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"code":"internal_error","message":"internal error"}}`))
				return
			}
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
