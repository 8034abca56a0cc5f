package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notie/internal/auth"
	"notie/internal/models"
	"notie/internal/storage"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates a new account with a bcrypt-hashed password.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		s.respondError(c, http.StatusBadRequest, "username, email and password are required", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while registering", err)
		return
	}

	_, err = s.store.CreateUser(c.Request.Context(), models.User{
		Username: username,
		Email:    email,
		Password: hash,
	})
	if errors.Is(err, storage.ErrDuplicateEmail) {
		s.respondError(c, http.StatusConflict, "email already registered", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while registering", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// handleLogin verifies credentials and sets the session cookie.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondError(c, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	user, err := s.store.UserByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while logging in", err)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.respondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while logging in", err)
		return
	}

	c.SetCookie(sessionCookie, tokenString, int(s.tokens.TTL().Seconds()), "/", "", false, true)
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "user": user})
}

// handleLogout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// handleIsLogin reports whether the session cookie resolves to a user. The
// client calls it on page load to decide between the login view and the list.
func (s *Server) handleIsLogin(c *gin.Context) {
	user, reason, ok := s.authenticate(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user is logged in", "user": user})
}
