package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"notie/internal/auth"
	"notie/internal/storage"
)

// Server provides the HTTP handlers for the Notie backend.
type Server struct {
	engine    *gin.Engine
	store     storage.Store
	tokens    *auth.Tokens
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store storage.Store, tokens *auth.Tokens, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/healthz"))

	srv := &Server{
		engine:    router,
		store:     store,
		tokens:    tokens,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the auth and todo handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	authGroup := s.engine.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/logout", s.handleLogout)
		authGroup.GET("/islogin", s.handleIsLogin)
	}

	todos := s.engine.Group("/todos", s.requireAuth)
	{
		todos.POST("/addTodo", s.handleAddTodo)
		todos.GET("/getTodo", s.handleGetTodos)
		todos.PUT("/updateTodo/:id", s.handleUpdateTodo)
		todos.DELETE("/deleteTodo/:id", s.handleDeleteTodo)

		// Hitting these without an identifier is a client error, not a
		// routing miss.
		todos.PUT("/updateTodo", s.handleMissingID)
		todos.DELETE("/deleteTodo", s.handleMissingID)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMissingID(c *gin.Context) {
	s.respondError(c, http.StatusBadRequest, "todo id is required", nil)
}

// respondError sends the JSON error envelope the client expects. Internal
// details stay in the server log and never reach the caller.
func (s *Server) respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"message": message})
}
