package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	Auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenIssuer(secret []byte, exp time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Auth: jwtauth.New("HS256", secret, nil),
		exp:  exp,
	}
}

// GenerateToken returns a signed token for userID and the time it expires.
func (t *TokenIssuer) GenerateToken(userID int64) (string, time.Time, error) {
	issued := time.Now()
	expires := issued.Add(t.exp)
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     expires.Unix(),
		"iat":     issued.Unix(),
	}
	_, tokenString, err := t.Auth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expires, nil
}

// GetUserIDFromClaims reads the numeric user_id claim.
func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		return v.Int64()
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("user_id claim is not numeric: %w", err)
		}
		return id, nil
	default:
		return 0, errors.New("user_id claim is missing or not a number")
	}
}
