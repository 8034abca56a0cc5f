package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, env *testEnv, username, email, password string) {
	t.Helper()
	w := env.do(t, http.MethodPost, "/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

func login(t *testing.T, env *testEnv, email, password string) *http.Cookie {
	t.Helper()
	w := env.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookie {
			require.True(t, cookie.HttpOnly)
			require.NotEmpty(t, cookie.Value)
			return cookie
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	registerUser(t, env, "alice", "alice@example.com", "hunter2")

	// Duplicate email is a conflict.
	w := env.do(t, http.MethodPost, "/auth/register", map[string]any{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// Wrong password and unknown email both read as invalid credentials.
	w = env.do(t, http.MethodPost, "/auth/login", map[string]any{"email": "alice@example.com", "password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid credentials", decodeMessage(t, w))

	w = env.do(t, http.MethodPost, "/auth/login", map[string]any{"email": "nobody@example.com", "password": "hunter2"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid credentials", decodeMessage(t, w))

	cookie := login(t, env, "alice@example.com", "hunter2")

	// The session cookie unlocks the protected routes.
	w = env.do(t, http.MethodGet, "/todos/getTodo", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []map[string]any{
		{"email": "a@example.com", "password": "x"},
		{"username": "a", "password": "x"},
		{"username": "a", "email": "a@example.com"},
	} {
		w := env.do(t, http.MethodPost, "/auth/register", body, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestIsLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/auth/islogin", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var rejected struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejected))
	require.False(t, rejected.Success)
	require.Equal(t, "not authorized, no token", rejected.Message)

	registerUser(t, env, "alice", "alice@example.com", "hunter2")
	cookie := login(t, env, "alice@example.com", "hunter2")

	w = env.do(t, http.MethodGet, "/auth/islogin", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var accepted struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		User    struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.True(t, accepted.Success)
	require.Equal(t, "alice", accepted.User.Username)
	require.NotEmpty(t, accepted.User.ID)

	// Password material never appears in any auth response.
	require.False(t, strings.Contains(w.Body.String(), "password"))
	require.False(t, strings.Contains(w.Body.String(), "hunter2"))
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "alice@example.com", "hunter2")
	cookie := login(t, env, "alice@example.com", "hunter2")

	w := env.do(t, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Less(t, cleared.MaxAge, 0)
}
