package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("missing challenge link token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// GenerateLinkToken signs the candidate challenge-link token. The subject is
// the interview id; exp only bounds how long the link itself resolves — the
// stored record timestamps remain the authoritative time gates.
func GenerateLinkToken(interviewID, secret string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": interviewID,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	})
	return token.SignedString([]byte(secret))
}

// VerifyLinkToken fetches the token from the Authorization header or the
// token query parameter (links clicked from email cannot set headers),
// validates it, and returns the claims.
func VerifyLinkToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	tokenStr := ""
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		tokenStr = strings.TrimPrefix(authz, "Bearer ")
	} else {
		tokenStr = r.URL.Query().Get("token")
	}
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// InterviewIDFromClaims extracts the "sub" (interview id) claim.
func InterviewIDFromClaims(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidClaims
	}
	return sub, nil
}
