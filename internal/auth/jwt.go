package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medwaste/classify-be/internal/models"
)

var jwtKey = []byte("dev-secret")

// Init sets the token signing secret from configuration. It must run
// before any token is minted or validated; an empty secret keeps the dev
// default.
func Init(secret string) {
	if secret != "" {
		jwtKey = []byte(secret)
	}
}

// Claims defines the JWT claims structure. IsAdmin is true only for tokens
// minted for the synthesized administrator identity.
type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Identity rebuilds the principal a token was minted for.
func (c *Claims) Identity() models.Identity {
	return models.Identity{
		ID:              c.UserID,
		Email:           c.Email,
		IsAdministrator: c.IsAdmin,
	}
}

// identityKey is the context key for the authenticated identity.
type contextKey string

const identityKey = contextKey("identity")

// GenerateJWT creates a new JWT for a given identity.
func GenerateJWT(identity models.Identity) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID:  identity.ID,
		Email:   identity.Email,
		IsAdmin: identity.IsAdministrator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// TokenFromRequest extracts the session token from the Authorization header
// or, failing that, the token cookie. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

// IdentityFromContext returns the authenticated identity stored by
// JWTMiddleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// JWTMiddleware creates a middleware for protecting routes. The validated
// identity is passed down via the request context.
func JWTMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			claims, err := ValidateJWT(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdministrator guards routes that expose the unscoped record set.
// It must run after JWTMiddleware.
func RequireAdministrator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || RoleOf(identity) != RoleAdministrator {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
