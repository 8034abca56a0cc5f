package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"notie/internal/auth"
	"notie/internal/server"
	"notie/internal/storage"
	"notie/internal/storage/memory"
	"notie/internal/storage/mongostore"
	"notie/internal/storage/sqlite"
	"notie/internal/util"
)

func main() {
	godotenv.Load()

	addrFlag := flag.String("addr", util.EnvOrDefault("NOTIE_ADDR", ":8080"), "HTTP listen address")
	mongoFlag := flag.String("mongo-uri", util.EnvOrDefault("MONGO_URI", ""), "MongoDB connection string; empty selects sqlite")
	mongoDBFlag := flag.String("mongo-db", util.EnvOrDefault("MONGO_DB", "notie"), "MongoDB database name")
	dbFlag := flag.String("db", util.EnvOrDefault("NOTIE_DB_PATH", "data/notie.db"), "Path to sqlite database file")
	memoryFlag := flag.Bool("memory", false, "Use the in-memory store (development only)")
	staticFlag := flag.String("static", util.EnvOrDefault("NOTIE_STATIC_DIR", "web"), "Directory with the client view")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Warn("JWT_SECRET not set; using an insecure development secret")
		secret = "notie-dev-secret"
	}
	ttl := util.EnvDurationOrDefault("TOKEN_TTL", 24*time.Hour)
	tokens := auth.NewTokens(secret, ttl)

	store, err := openStore(*memoryFlag, *mongoFlag, *mongoDBFlag, *dbFlag, logger)
	if err != nil {
		logger.Error("unable to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error("failed to close store", slog.String("error", err.Error()))
		}
	}()

	srv := server.New(store, tokens, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// openStore picks the configured storage backend. MongoDB is the primary
// deployment target; sqlite covers single-binary setups and the in-memory
// store exists for development.
func openStore(useMemory bool, mongoURI, mongoDB, dbPath string, logger *slog.Logger) (storage.Store, error) {
	switch {
	case useMemory:
		logger.Warn("using in-memory store; data will not survive a restart")
		return memory.New(), nil
	case mongoURI != "":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("using mongodb store", slog.String("db", mongoDB))
		return mongostore.Open(ctx, mongoURI, mongoDB, logger)
	default:
		logger.Info("using sqlite store", slog.String("path", dbPath))
		return sqlite.Open(dbPath, logger)
	}
}
