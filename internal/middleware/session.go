package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookie = "coffee_session"
	sessionKey    = "sessionId"
)

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Session makes sure every request carries a session id. The id travels in
// a signed cookie. A missing, expired or tampered cookie starts a new session
// rather than failing the request.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		sid := ""
		if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
			parsed, err := parseSessionToken(raw, key)
			if err != nil {
				slog.Debug("session cookie rejected", "error", err)
			}
			sid = parsed
		}
		if sid == "" {
			sid = uuid.NewString()
		}

		// refreshing on every request keeps active sessions alive
		token, err := signSessionToken(sid, key, ttl)
		if err != nil {
			slog.Error("session token signing failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)

		c.Set(sessionKey, sid)
		c.Next()
	}
}

// SessionID returns the id stored by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func signSessionToken(sid string, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parseSessionToken(raw string, key []byte) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", err
	}

	sid := strings.TrimSpace(claims.SessionID)
	if _, err := uuid.Parse(sid); err != nil {
		return "", errors.New("session id claim malformed")
	}
	return sid, nil
}
