package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"notie/internal/auth"
	"notie/internal/models"
	"notie/internal/storage"
)

// sessionCookie is the cookie carrying the signed session token.
const sessionCookie = "token"

const userContextKey = "notie.user"

// authenticate resolves the session cookie to a user, or a rejection reason.
// The store is only consulted after the signature and expiry check out.
func (s *Server) authenticate(c *gin.Context) (models.User, string, bool) {
	tokenString, err := c.Cookie(sessionCookie)
	if err != nil {
		return models.User{}, "not authorized, no token", false
	}

	userID, err := s.tokens.Verify(tokenString)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return models.User{}, "not authorized, token expired", false
	case err != nil:
		return models.User{}, "not authorized, token invalid", false
	}

	user, err := s.store.UserByID(c.Request.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, "not authorized, user not found", false
	}
	if err != nil {
		s.logger.Error("user lookup failed", "error", err)
		return models.User{}, "not authorized, token failed", false
	}

	// The resolved identity never carries password material.
	user.Password = ""
	return user, "", true
}

// requireAuth gates the /todos routes: it attaches the authenticated user to
// the request context or rejects with 401 before any handler runs.
func (s *Server) requireAuth(c *gin.Context) {
	user, reason, ok := s.authenticate(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": reason})
		return
	}
	c.Set(userContextKey, user)
	c.Next()
}

// currentUser returns the identity attached by requireAuth.
func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
