package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/models"
)

func TestCreateBoardGrantsCreatorAdmin(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	token := login(t, app, "alice")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)

	resp := doJSON(t, app, "POST", "/w/"+itoa(ws.ID)+"/b/add", token, map[string]any{
		"name":        "Sprint 12",
		"description": "two week iteration",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	board := body["board"].(map[string]any)
	boardID := int(board["id"].(float64))
	assert.Equal(t, "Sprint 12", board["title"])

	// The creator can immediately perform admin-only mutations.
	resp = doJSON(t, app, "PUT", boardPath(ws.ID, boardID)+"/update", token, map[string]any{
		"title": "Sprint 13",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateBoardRequiresWorkspaceMembership(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	seedMember(t, st, mgr, "ben")
	benToken := login(t, app, "ben")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)

	resp := doJSON(t, app, "POST", "/w/"+itoa(ws.ID)+"/b/add", benToken, map[string]any{
		"name": "Rogue Board",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetBoardAccessMatrix(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	seedMember(t, st, mgr, "ben")
	aliceToken := login(t, app, "alice")
	benToken := login(t, app, "ben")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)
	board := st.SeedBoard(ws.ID, "Sprint 12")
	st.SeedBoardMember(board.ID, alice.ID, models.RoleMember)

	resp := doJSON(t, app, "GET", boardPath(ws.ID, board.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Authenticated non-member of an existing board.
	resp = doJSON(t, app, "GET", boardPath(ws.ID, board.ID), benToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Board id outside the workspace answers 404 before membership.
	resp = doJSON(t, app, "GET", boardPath(ws.ID, 999), benToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBoardMutationsRequireAdminRole(t *testing.T) {
	app, st, mgr := newTestEnv(t)
	alice := seedMember(t, st, mgr, "alice")
	ben := seedMember(t, st, mgr, "ben")
	aliceToken := login(t, app, "alice")
	benToken := login(t, app, "ben")

	ws := st.SeedWorkspace("engineering", "engineering", alice.ID)
	st.SeedWorkspaceMember(ws.ID, alice.ID)
	st.SeedWorkspaceMember(ws.ID, ben.ID)
	board := st.SeedBoard(ws.ID, "Sprint 12")
	st.SeedBoardMember(board.ID, alice.ID, models.RoleAdmin)
	st.SeedBoardMember(board.ID, ben.ID, models.RoleMember)

	// A plain member can read but not mutate board identity.
	resp := doJSON(t, app, "PUT", boardPath(ws.ID, board.ID)+"/update", benToken, map[string]any{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "DELETE", boardPath(ws.ID, board.ID)+"/delete", benToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The admin succeeds.
	resp = doJSON(t, app, "PUT", boardPath(ws.ID, board.ID)+"/update", aliceToken, map[string]any{
		"title": "Sprint 12.1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Sprint 12.1", body["board"].(map[string]any)["title"])
	resp.Body.Close()

	resp = doJSON(t, app, "DELETE", boardPath(ws.ID, board.ID)+"/delete", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Deleting again answers 404.
	resp = doJSON(t, app, "DELETE", boardPath(ws.ID, board.ID)+"/delete", aliceToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func boardPath(workspaceID, boardID int) string {
	return "/w/" + itoa(workspaceID) + "/b/" + itoa(boardID)
}
