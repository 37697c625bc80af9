package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/repository"
	"taskmaster/internal/store"
	"taskmaster/internal/store/postgres"
	"taskmaster/pkg/logger"
)

var testDB *sql.DB

// TestMain starts a throwaway Postgres container. Without a Docker
// daemon the whole suite is skipped.
func TestMain(m *testing.M) {
	logger.InitTestLoggers()

	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Println("Docker not available, skipping postgres store tests")
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=taskmaster",
			"POSTGRES_PASSWORD=taskmaster",
			"POSTGRES_DB=taskmaster_test",
		},
	}, func(cfg *docker.HostConfig) {
		cfg.AutoRemove = true
		cfg.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=taskmaster password=taskmaster dbname=taskmaster_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		var err error
		testDB, err = sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		return testDB.Ping()
	}); err != nil {
		log.Fatalf("Could not connect to postgres container: %v", err)
	}

	repository.CreateTableIfNotExists(testDB)

	code := m.Run()

	_ = pool.Purge(resource)
	os.Exit(code)
}

func newMemberRow(t *testing.T, st *postgres.Store, username string) models.Member {
	t.Helper()
	member, err := st.CreateMember(context.Background(), models.Member{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    username,
		Handle:       "@" + username,
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2Fs$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Status:       models.MemberActive,
	})
	require.NoError(t, err)
	return member
}

func newWorkspaceRow(t *testing.T, slug string, members ...models.Member) int {
	t.Helper()
	var workspaceID int
	require.NoError(t, testDB.QueryRow(
		`INSERT INTO workspace (name, slug, created_by) VALUES ($1, $2, $3) RETURNING id`,
		slug, slug, members[0].ID,
	).Scan(&workspaceID))
	for _, m := range members {
		_, err := testDB.Exec(
			`INSERT INTO workspace_member (workspace_id, member_id) VALUES ($1, $2)`,
			workspaceID, m.ID)
		require.NoError(t, err)
	}
	return workspaceID
}

func TestMemberConflictAndPatch(t *testing.T) {
	st := postgres.New(testDB)
	ctx := context.Background()

	member := newMemberRow(t, st, "pg_alice")

	// Duplicate username trips the unique constraint.
	_, err := st.CreateMember(ctx, models.Member{
		Username: "pg_alice", Email: "other@example.com", FirstName: "Other",
		Handle: "@other", PasswordHash: "x", Status: models.MemberActive,
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	firstName := "Alicia"
	updated, err := st.UpdateMember(ctx, member.ID, store.MemberPatch{FirstName: &firstName})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "pg_alice", updated.Username)

	require.NoError(t, st.UpdateMemberStatus(ctx, member.ID, models.MemberSuspended))
	got, err := st.GetMemberByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberSuspended, got.Status)

	require.NoError(t, st.DeleteMember(ctx, member.ID))
	assert.ErrorIs(t, st.DeleteMember(ctx, member.ID), apperr.ErrNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	st := postgres.New(testDB)
	ctx := context.Background()

	member := newMemberRow(t, st, "pg_session")
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.CreateSession(ctx, models.Session{
		Token:     "pg-test-token",
		MemberID:  member.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}))

	sess, err := st.GetSession(ctx, "pg-test-token")
	require.NoError(t, err)
	assert.Equal(t, member.ID, sess.MemberID)

	require.NoError(t, st.DeleteSession(ctx, "pg-test-token"))
	assert.ErrorIs(t, st.DeleteSession(ctx, "pg-test-token"), apperr.ErrNotFound)
}

func TestBoardCreateGrantsAdmin(t *testing.T) {
	st := postgres.New(testDB)
	ctx := context.Background()

	alice := newMemberRow(t, st, "pg_board_alice")
	ben := newMemberRow(t, st, "pg_board_ben")
	workspaceID := newWorkspaceRow(t, "pg-boards", alice, ben)

	board, err := st.CreateBoard(ctx, models.Board{WorkspaceID: workspaceID, Title: "Sprint 1"}, alice.ID)
	require.NoError(t, err)

	role, err := st.BoardRole(ctx, board.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	// No membership row means an empty role, not an error.
	role, err = st.BoardRole(ctx, board.ID, ben.ID)
	require.NoError(t, err)
	assert.Empty(t, role)

	// Board lookups are scoped to the workspace.
	_, err = st.GetBoard(ctx, workspaceID+1000, board.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	boards, err := st.ListVisibleBoards(ctx, workspaceID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, boards, 1)

	boards, err = st.ListVisibleBoards(ctx, workspaceID, ben.ID)
	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestTaskEnumJoinsAndCascade(t *testing.T) {
	st := postgres.New(testDB)
	ctx := context.Background()

	alice := newMemberRow(t, st, "pg_task_alice")
	workspaceID := newWorkspaceRow(t, "pg-tasks", alice)
	board, err := st.CreateBoard(ctx, models.Board{WorkspaceID: workspaceID, Title: "Tasks"}, alice.ID)
	require.NoError(t, err)

	statusID, err := st.StatusID(ctx, "To Do")
	require.NoError(t, err)
	priorityID, err := st.PriorityID(ctx, "High")
	require.NoError(t, err)

	_, err = st.StatusID(ctx, "Parked")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	task, err := st.CreateTask(ctx, models.Task{
		BoardID: board.ID,
		Title:   "Ship it",
		Points:  5,
		Creator: "pg_task_alice",
	}, statusID, priorityID)
	require.NoError(t, err)
	assert.Equal(t, "To Do", task.Status)
	assert.Equal(t, "High", task.Priority)
	assert.Equal(t, "pg_task_alice", task.Creator)

	doneID, err := st.StatusID(ctx, "Done")
	require.NoError(t, err)
	updated, err := st.UpdateTask(ctx, board.ID, task.ID, store.TaskPatch{StatusID: &doneID})
	require.NoError(t, err)
	assert.Equal(t, "Done", updated.Status)
	assert.Equal(t, "Ship it", updated.Title)

	comment, err := st.CreateComment(ctx, models.Comment{
		TaskID: task.ID, Author: "pg_task_alice", Content: "done?",
	})
	require.NoError(t, err)
	assert.Equal(t, "pg_task_alice", comment.Author)

	// Deleting the task removes its comments too.
	require.NoError(t, st.DeleteTask(ctx, board.ID, task.ID))
	assert.ErrorIs(t, st.DeleteTask(ctx, board.ID, task.ID), apperr.ErrNotFound)
	_, err = st.GetComment(ctx, task.ID, comment.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddWorkspaceMembersSkipsUnknown(t *testing.T) {
	st := postgres.New(testDB)
	ctx := context.Background()

	alice := newMemberRow(t, st, "pg_bulk_alice")
	ben := newMemberRow(t, st, "pg_bulk_ben")
	workspaceID := newWorkspaceRow(t, "pg-bulk", alice)

	added, err := st.AddWorkspaceMembers(ctx, workspaceID, []string{"pg_bulk_ben", "pg_ghost"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	ok, err := st.IsWorkspaceMember(ctx, workspaceID, ben.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-adding is a no-op, not a conflict.
	added, err = st.AddWorkspaceMembers(ctx, workspaceID, []string{"pg_bulk_ben"})
	require.NoError(t, err)
	assert.Zero(t, added)
}
