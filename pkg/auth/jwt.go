package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/antibyte/englang/pkg/configuration"
	"github.com/antibyte/englang/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenLifetime = 24 * time.Hour

var (
	processSecret     string
	processSecretOnce sync.Once
)

// getJWTSecret returns [JWT] secret_key. Without one a random secret is
// generated for the lifetime of the process, so tokens do not survive a
// restart.
func getJWTSecret() string {
	if secret := configuration.GetString("JWT", "secret_key", ""); secret != "" {
		return secret
	}
	processSecretOnce.Do(func() {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Fatal(logger.AreaAuth, "cannot generate JWT secret: %v", err)
		}
		processSecret = hex.EncodeToString(buf)
		logger.AuthWarn("no JWT secret configured, using a random secret for this process")
	})
	return processSecret
}

func getTokenLifetime() time.Duration {
	return configuration.GetDuration("JWT", "token_lifetime", defaultTokenLifetime)
}

// UserClaims are the claims of a terminal or API token.
type UserClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for username. Every token carries a
// fresh session id.
func GenerateToken(username string) (string, error) {
	now := time.Now()
	sessionID := uuid.New().String()

	claims := UserClaims{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(getTokenLifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    configuration.GetString("JWT", "issuer", "englang"),
			Subject:   username,
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(getJWTSecret()))
	if err != nil {
		return "", fmt.Errorf("token could not be signed: %v", err)
	}
	logger.AuthInfo("token generated for %s (session %s)", username, sessionID)
	return signed, nil
}

// ValidateToken checks signature and expiry and returns the claims.
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing algorithm: %v", token.Header["alg"])
			}
			return []byte(getJWTSecret()), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok {
		return nil, fmt.Errorf("could not extract token claims")
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("token has no username")
	}
	return claims, nil
}

// TokenFromRequest extracts a bearer token from the Authorization header
// or, for WebSocket upgrades, from the token query parameter.
func TokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1], nil
		}
		return "", fmt.Errorf("invalid authorization header format")
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no token found in request")
}
