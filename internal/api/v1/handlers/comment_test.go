package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListComments(t *testing.T) {
	env, wsID, boardID := taskBoard(t)
	taskID := createTask(t, env, wsID, boardID, "Discuss me")

	resp := doJSON(t, env.app, "POST", taskPath(wsID, boardID, taskID)+"/comments", env.tokens["ben"], map[string]any{
		"content": "I can pick this up.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comment := decode(t, resp)["comment"].(map[string]any)
	assert.Equal(t, "I can pick this up.", comment["content"])
	// The author is the session owner, not a client-supplied field.
	assert.Equal(t, "ben", comment["author"])
	resp.Body.Close()

	resp = doJSON(t, env.app, "GET", taskPath(wsID, boardID, taskID)+"/comments", env.tokens["alice"], nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, float64(1), body["total"])
}

func TestCreateCommentMissingTaskBeatsMembership(t *testing.T) {
	env, wsID, boardID := taskBoard(t)
	seedMember(t, env.store, env.sessions, "cara")
	caraToken := login(t, env.app, "cara")

	// Cara is not a board member, yet a missing task still answers 404:
	// the task lookup runs before the membership gate on this path.
	resp := doJSON(t, env.app, "POST", taskPath(wsID, boardID, 999)+"/comments", caraToken, map[string]any{
		"content": "hello?",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCommentExistingTaskNonMember(t *testing.T) {
	env, wsID, boardID := taskBoard(t)
	taskID := createTask(t, env, wsID, boardID, "Members only")
	seedMember(t, env.store, env.sessions, "cara")
	caraToken := login(t, env.app, "cara")

	resp := doJSON(t, env.app, "POST", taskPath(wsID, boardID, taskID)+"/comments", caraToken, map[string]any{
		"content": "let me in",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateComment(t *testing.T) {
	env, wsID, boardID := taskBoard(t)
	taskID := createTask(t, env, wsID, boardID, "Discuss me")
	commentID := createComment(t, env, wsID, boardID, taskID)

	resp := doJSON(t, env.app, "PUT", commentPath(wsID, boardID, taskID, commentID)+"/update", env.tokens["ben"], map[string]any{
		"content": "edited",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comment := decode(t, resp)["comment"].(map[string]any)
	assert.Equal(t, "edited", comment["content"])
}

func TestDeleteCommentNotIdempotent(t *testing.T) {
	env, wsID, boardID := taskBoard(t)
	taskID := createTask(t, env, wsID, boardID, "Discuss me")
	commentID := createComment(t, env, wsID, boardID, taskID)

	resp := doJSON(t, env.app, "DELETE", commentPath(wsID, boardID, taskID, commentID)+"/delete", env.tokens["alice"], nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, "DELETE", commentPath(wsID, boardID, taskID, commentID)+"/delete", env.tokens["alice"], nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCommentWrongTask(t *testing.T) {
	env, wsID, boardID := taskBoard(t)
	taskID := createTask(t, env, wsID, boardID, "Discuss me")
	otherID := createTask(t, env, wsID, boardID, "Unrelated")
	commentID := createComment(t, env, wsID, boardID, taskID)

	// A comment is only addressable through its own task.
	resp := doJSON(t, env.app, "GET", commentPath(wsID, boardID, otherID, commentID), env.tokens["alice"], nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func createComment(t *testing.T, env *appEnv, wsID, boardID, taskID int) int {
	t.Helper()
	resp := doJSON(t, env.app, "POST", taskPath(wsID, boardID, taskID)+"/comments", env.tokens["ben"], map[string]any{
		"content": "first",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comment := decode(t, resp)["comment"].(map[string]any)
	return int(comment["id"].(float64))
}

func commentPath(workspaceID, boardID, taskID, commentID int) string {
	return taskPath(workspaceID, boardID, taskID) + "/comments/" + itoa(commentID)
}
