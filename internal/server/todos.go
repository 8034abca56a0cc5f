package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notie/internal/models"
	"notie/internal/storage"
)

// todoRequest distinguishes absent fields from zero values: a nil pointer
// means "leave untouched", a present empty description means "clear it".
type todoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *bool   `json:"status"`
}

// handleAddTodo creates a task owned by the caller. Any owner or id supplied
// by the client is ignored.
func (s *Server) handleAddTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		s.respondError(c, http.StatusUnauthorized, "not authorized", nil)
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" {
		s.respondError(c, http.StatusBadRequest, "title is required", nil)
		return
	}

	description := ""
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}

	task, err := s.store.CreateTask(c.Request.Context(), models.Task{
		Title:       title,
		Description: description,
		Status:      false,
		Owner:       user.ID,
	})
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while adding todo", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// handleGetTodos returns every task owned by the caller, newest first.
func (s *Server) handleGetTodos(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		s.respondError(c, http.StatusUnauthorized, "not authorized", nil)
		return
	}

	tasks, err := s.store.ListTasks(c.Request.Context(), user.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while retrieving todos", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// handleUpdateTodo applies the fields present in the payload to the task
// matched by both identifier and owner.
func (s *Server) handleUpdateTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		s.respondError(c, http.StatusUnauthorized, "not authorized", nil)
		return
	}

	id := c.Param("id")
	if id == "" {
		s.respondError(c, http.StatusBadRequest, "todo id is required", nil)
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var patch storage.TaskPatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			s.respondError(c, http.StatusBadRequest, "title must not be empty", nil)
			return
		}
		patch.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		patch.Description = &description
	}
	patch.Status = req.Status

	task, err := s.store.UpdateTask(c.Request.Context(), id, user.ID, patch)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "todo not found", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while updating todo", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleDeleteTodo removes the task matched by both identifier and owner and
// returns the removed record as confirmation.
func (s *Server) handleDeleteTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		s.respondError(c, http.StatusUnauthorized, "not authorized", nil)
		return
	}

	id := c.Param("id")
	if id == "" {
		s.respondError(c, http.StatusBadRequest, "todo id is required", nil)
		return
	}

	task, err := s.store.DeleteTask(c.Request.Context(), id, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "todo not found", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "internal server error while deleting todo", err)
		return
	}
	c.JSON(http.StatusOK, task)
}
