package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	member := seedMember(t, st, mgr, "alice")

	resp := doJSON(t, app, "POST", "/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Login successful.", body["message"])
	assert.NotEmpty(t, body["session_key"])
	assert.Equal(t, float64(member.ID), body["member_id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "active", body["status"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	seedMember(t, st, mgr, "alice")

	// Wrong password and unknown username answer identically.
	for _, creds := range []map[string]string{
		{"username": "alice", "password": "not-the-password"},
		{"username": "nobody", "password": "secret123"},
	} {
		resp := doJSON(t, app, "POST", "/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "Invalid credentials", body["detail"])
		resp.Body.Close()
	}
}

func TestLoginMissingFields(t *testing.T) {
	app, _, _ := newTestEnv(t)

	resp := doJSON(t, app, "POST", "/login", "", map[string]string{"username": "alice"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogoutRevokesSession(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	seedMember(t, st, mgr, "alice")
	token := login(t, app, "alice")

	resp := doJSON(t, app, "POST", "/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Logged out.", body["message"])
	resp.Body.Close()

	// The revoked token no longer authenticates.
	resp = doJSON(t, app, "GET", "/w/b/me", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", decode(t, resp)["detail"])
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app, _, _ := newTestEnv(t)

	resp := doJSON(t, app, "GET", "/w/b/me", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/w/1/b/me", "garbage-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
