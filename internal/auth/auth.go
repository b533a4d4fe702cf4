// Package auth issues and verifies the per-seat bearer tokens that bind an
// HTTP or websocket caller to one seat in one match, and hashes the optional
// match password used to reissue tokens on reconnect.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeatClaims is the payload of a seat token. Subject carries the seat id;
// MatchID scopes the token to a single match.
type SeatClaims struct {
	MatchID string `json:"match"`
	jwt.RegisteredClaims
}

// IssueSeatToken signs a token granting control of seatID in matchID until
// ttl elapses.
func IssueSeatToken(secret []byte, matchID, seatID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SeatClaims{
		MatchID: matchID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   seatID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifySeatToken validates signature and expiry and returns the match and
// seat the token grants.
func VerifySeatToken(secret []byte, token string) (matchID, seatID uuid.UUID, err error) {
	var claims SeatClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !parsed.Valid {
		return uuid.Nil, uuid.Nil, fmt.Errorf("auth: invalid token")
	}
	matchID, err = uuid.Parse(claims.MatchID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("auth: bad match claim: %w", err)
	}
	seatID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("auth: bad subject claim: %w", err)
	}
	return matchID, seatID, nil
}

// HashPassword bcrypt-hashes a match password for storage.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches the stored hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
