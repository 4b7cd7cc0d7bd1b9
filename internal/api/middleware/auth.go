package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pencraft/internal/common"
	"pencraft/internal/common/security"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserCtxKey  contextKey = "user"
	TokenCtxKey contextKey = "token"
)

// TokenInfo identifies the session token presented with the request.
type TokenInfo struct {
	ID      string
	Expires time.Time
}

type Auth struct {
	users   repository.UserRepository
	revoker security.TokenRevoker
}

func NewAuth(users repository.UserRepository, revoker security.TokenRevoker) *Auth {
	return &Auth{users: users, revoker: revoker}
}

// Optional attaches the current user when jwtauth.Verifier found a valid,
// unrevoked token. Requests without one continue anonymously.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, claims, err := jwtauth.FromContext(ctx)
		if err != nil || token == nil {
			if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
				slog.DebugContext(ctx, "ignoring invalid token", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		// A revocation store outage demotes the request to anonymous.
		revoked, err := a.revoker.IsRevoked(ctx, token.JwtID())
		if err != nil {
			slog.WarnContext(ctx, "revocation check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if revoked {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := a.users.FindByID(ctx, userID)
		if errors.Is(err, common.ErrNotFound) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			common.RespondWithErr(w, r, err)
			return
		}

		ctx = context.WithValue(ctx, UserCtxKey, user)
		ctx = context.WithValue(ctx, TokenCtxKey, TokenInfo{ID: token.JwtID(), Expires: token.Expiration()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticator rejects requests that Optional did not attach a user to.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil || !user.IsAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserCtxKey).(*model.User)
	return user
}

func TokenFromContext(ctx context.Context) (TokenInfo, bool) {
	info, ok := ctx.Value(TokenCtxKey).(TokenInfo)
	return info, ok
}
