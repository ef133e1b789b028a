package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/expenso-dev/expenso/internal/domain"
	internal_errors "github.com/expenso-dev/expenso/internal/errors"
	"github.com/expenso-dev/expenso/internal/logger"
)

// Signer issues and verifies the bearer tokens that represent a session.
type Signer interface {
	NewToken(account domain.Account) (string, error)
	DecodeClaims(jwtStr string) (domain.SessionClaims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// NewToken signs {uid, email, iat, exp} with HS256. Role is deliberately not
// a claim: the guard re-reads it from storage on every decision.
func (j *Jwt) NewToken(account domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	claims["uid"] = account.Id.String()
	claims["email"] = account.Email
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign session token", "error", err)
		return "", fmt.Errorf("can't create token")
	}

	return tokenString, nil
}

// DecodeClaims verifies signature, algorithm and expiry, then resolves the
// token back to an account id and email. Everything fails closed.
func (j *Jwt) DecodeClaims(jwtStr string) (domain.SessionClaims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("session token rejected", "error", err)
		return domain.SessionClaims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return domain.SessionClaims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.SessionClaims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
	}

	uidStr, ok := claims["uid"].(string)
	if !ok {
		return domain.SessionClaims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
	}
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return domain.SessionClaims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
	}
	email, ok := claims["email"].(string)
	if !ok {
		return domain.SessionClaims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
	}

	return domain.SessionClaims{AccountId: uid, Email: email}, nil
}
