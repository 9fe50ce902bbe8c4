package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"talentbridge/pkg/logger"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

// Auth validates HMAC-signed bearer tokens. The secret is injected at
// construction instead of read from the environment at request time.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Require authenticates any valid user and stores the subject and role in
// the request context.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := a.verify(r)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally demands the admin role.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := r.Context().Value(RoleKey).(string); role != "admin" {
			forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a *Auth) verify(r *http.Request) (userID, role string, err error) {
	// WebSocket clients pass the token in the query string because the
	// browser WebSocket API does not support custom headers.
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if tokenString == "" {
		return "", "", fmt.Errorf("no token provided")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		logger.Sugar.Debugf("Invalid token: %v", err)
		return "", "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("could not parse token claims")
	}
	userID, ok = claims["sub"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("subject claim is missing")
	}
	role, _ = claims["role"].(string)
	return userID, role, nil
}

// UserID returns the authenticated subject stored by Require.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSONError(w, http.StatusUnauthorized, "Unauthorized: "+msg)
}

func forbidden(w http.ResponseWriter, msg string) {
	writeJSONError(w, http.StatusForbidden, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
