package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/expenso-dev/expenso/internal/domain"
	"github.com/expenso-dev/expenso/internal/jwt"
	"github.com/expenso-dev/expenso/internal/service"
	"github.com/expenso-dev/expenso/internal/utils"
)

// Key to store the session claims in the request context
type key int

const SessionClaimsKey key = 0

// Auth holds dependencies for the session middleware
type Auth struct {
	signer jwt.Signer
}

func NewAuth(signer jwt.Signer) *Auth {
	return &Auth{signer: signer}
}

// extractClaims resolves the bearer credential from the request. Browser
// clients carry it in the accessToken cookie, API clients in the
// Authorization header.
func (a *Auth) extractClaims(r *http.Request) (*domain.SessionClaims, error) {
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	claims, err := a.signer.DecodeClaims(tokenString)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

var errNoToken = errorString("no token")

type errorString string

func (e errorString) Error() string { return string(e) }

// NeedAuth returns middleware that requires a valid session.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.extractClaims(r)
			if err != nil {
				if err == errNoToken {
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
					return
				}
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that asks the guard whether the session's
// account currently holds one of the required roles. It must run inside
// NeedAuth. The role set is declared statically at the route.
func RequireRole(guard *service.Guard, required ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r)
			if claims == nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}

			if err := guard.Authorize(claims.AccountId, required); err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext retrieves the session claims from the context
func GetClaimsFromContext(r *http.Request) *domain.SessionClaims {
	claims, ok := r.Context().Value(SessionClaimsKey).(*domain.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
