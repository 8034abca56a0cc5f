package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notie/internal/auth"
	"notie/internal/models"
	"notie/internal/storage/memory"
)

const testSecret = "test-secret"

type testEnv struct {
	srv    *Server
	store  *memory.Store
	tokens *auth.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	tokens := auth.NewTokens(testSecret, time.Hour)
	return &testEnv{
		srv:    New(store, tokens, logger, ""),
		store:  store,
		tokens: tokens,
	}
}

// createUser inserts an account directly into the store; the stored password
// hash only matters for the login tests, which use registerUser instead.
func (e *testEnv) createUser(t *testing.T, username, email string) models.User {
	t.Helper()
	user, err := e.store.CreateUser(context.Background(), models.User{
		Username: username,
		Email:    email,
		Password: "unused-hash",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) cookieFor(t *testing.T, user models.User) *http.Cookie {
	t.Helper()
	tokenString, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: tokenString}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func decodeTasks(t *testing.T, w *httptest.ResponseRecorder) []models.Task {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	return tasks
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}
