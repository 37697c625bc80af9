package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/models"
)

func TestMyWorkspacesFiltersBoards(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	token := login(t, app, "alice")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)
	visible := st.SeedBoard(ws.ID, "Sprint 12")
	st.SeedBoardMember(visible.ID, alice.ID, models.RoleMember)
	st.SeedBoard(ws.ID, "Management Only") // no membership for alice

	resp := doJSON(t, app, "GET", "/w/b/me", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "success", body["status"])
	workspaces := body["workspaces"].([]any)
	require.Len(t, workspaces, 1)

	entry := workspaces[0].(map[string]any)
	boards := entry["boards"].([]any)
	require.Len(t, boards, 1)
	assert.Equal(t, "Sprint 12", boards[0].(map[string]any)["title"])
}

func TestWorkspaceBoardsAccess(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	seedMember(t, st, mgr, "ben")
	aliceToken := login(t, app, "alice")
	benToken := login(t, app, "ben")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)

	resp := doJSON(t, app, "GET", "/w/"+itoa(ws.ID)+"/b/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Ben is authenticated but not a workspace member.
	resp = doJSON(t, app, "GET", "/w/"+itoa(ws.ID)+"/b/me", benToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Unknown workspace reports 404, not 403.
	resp = doJSON(t, app, "GET", "/w/999/b/me", benToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddWorkspaceMembers(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	seedMember(t, st, mgr, "ben")
	seedMember(t, st, mgr, "cara")
	token := login(t, app, "alice")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)

	resp := doJSON(t, app, "POST", "/w/"+itoa(ws.ID)+"/members/add", token, map[string]any{
		"usernames": []string{"ben", "cara", "ghost"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	// Unknown usernames are skipped, not an error.
	assert.Equal(t, float64(2), body["added"])

	benToken := login(t, app, "ben")
	resp2 := doJSON(t, app, "GET", "/w/"+itoa(ws.ID)+"/b/me", benToken, nil)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestAddWorkspaceMembersRequiresMembership(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	seedMember(t, st, mgr, "ben")
	benToken := login(t, app, "ben")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)

	resp := doJSON(t, app, "POST", "/w/"+itoa(ws.ID)+"/members/add", benToken, map[string]any{
		"usernames": []string{"ben"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
