// Package store defines the persistence ports the services depend on.
// internal/store/postgres implements them against the relational store;
// internal/store/memory backs the unit tests.
package store

import (
	"context"
	"time"

	"taskmaster/internal/models"
)

// MemberPatch carries a partial member update. A nil field means "leave
// unchanged"; it is distinct from an explicit empty value.
type MemberPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Username    *string
	Handle      *string
	NewPassword *string // already hashed by the caller
}

type BoardPatch struct {
	Title       *string
	Description *string
}

type TaskPatch struct {
	Title       *string
	Description *string
	Points      *int
	StatusID    *int
	PriorityID  *int
	Assignee    *string
	DueDate     *time.Time
}

type MemberStore interface {
	CreateMember(ctx context.Context, m models.Member) (models.Member, error)
	GetMemberByID(ctx context.Context, id int) (models.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (models.Member, error)
	UpdateMember(ctx context.Context, id int, patch MemberPatch) (models.Member, error)
	UpdateMemberStatus(ctx context.Context, id int, status string) error
	DeleteMember(ctx context.Context, id int) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type WorkspaceStore interface {
	GetWorkspace(ctx context.Context, id int) (models.Workspace, error)
	ListMemberWorkspaces(ctx context.Context, memberID int) ([]models.Workspace, error)
	IsWorkspaceMember(ctx context.Context, workspaceID, memberID int) (bool, error)
	AddWorkspaceMembers(ctx context.Context, workspaceID int, usernames []string) (int, error)
}

type BoardStore interface {
	// CreateBoard inserts the board and grants the creator the admin
	// role on it in the same transaction.
	CreateBoard(ctx context.Context, b models.Board, creatorID int) (models.Board, error)
	GetBoard(ctx context.Context, workspaceID, boardID int) (models.Board, error)
	// ListVisibleBoards returns only the workspace's boards the member
	// holds a board membership on.
	ListVisibleBoards(ctx context.Context, workspaceID, memberID int) ([]models.Board, error)
	// BoardRole returns the member's role on the board, or "" when the
	// member has no membership.
	BoardRole(ctx context.Context, boardID, memberID int) (string, error)
	UpdateBoard(ctx context.Context, workspaceID, boardID int, patch BoardPatch) (models.Board, error)
	DeleteBoard(ctx context.Context, workspaceID, boardID int) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, t models.Task, statusID, priorityID int) (models.Task, error)
	GetTask(ctx context.Context, boardID, taskID int) (models.Task, error)
	ListTasks(ctx context.Context, boardID int) ([]models.Task, error)
	UpdateTask(ctx context.Context, boardID, taskID int, patch TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, boardID, taskID int) error
	TaskExists(ctx context.Context, boardID, taskID int) (bool, error)
	SetTaskCategories(ctx context.Context, boardID, taskID int, categoryIDs []int) error
	ListTaskCategories(ctx context.Context, taskID int) ([]models.Category, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c models.Comment) (models.Comment, error)
	GetComment(ctx context.Context, taskID, commentID int) (models.Comment, error)
	ListComments(ctx context.Context, taskID int) ([]models.Comment, error)
	UpdateComment(ctx context.Context, taskID, commentID int, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, taskID, commentID int) error
}

type ReferenceStore interface {
	ListStatuses(ctx context.Context) ([]models.TaskStatus, error)
	ListPriorities(ctx context.Context) ([]models.TaskPriority, error)
	// StatusID and PriorityID resolve enumeration names to their ids,
	// returning apperr.ErrNotFound for unknown values.
	StatusID(ctx context.Context, name string) (int, error)
	PriorityID(ctx context.Context, level string) (int, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, id int, value, color *string) (models.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// Store aggregates every port. The Postgres and memory implementations
// both satisfy it.
type Store interface {
	MemberStore
	SessionStore
	WorkspaceStore
	BoardStore
	TaskStore
	CommentStore
	ReferenceStore
}
