package models

import "time"

// Member statuses. Suspended members keep their rows but cannot log in.
const (
	MemberActive    = "active"
	MemberSuspended = "suspended"
)

// Board membership roles. Admin is required for board update/delete;
// plain membership is enough for read and task/comment create.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Member struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     *string   `json:"last_name,omitempty"`
	Handle       string    `json:"handle"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Session struct {
	Token     string    `json:"-"`
	MemberID  int       `json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Workspace struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   int       `json:"created_by"`
	CreatedOn   time.Time `json:"created_on"`
}

type Board struct {
	ID          int     `json:"id"`
	WorkspaceID int     `json:"workspaceId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

type BoardMembership struct {
	BoardID  int    `json:"board_id"`
	MemberID int    `json:"member_id"`
	Role     string `json:"role"`
}

type Task struct {
	ID          int        `json:"id"`
	BoardID     int        `json:"board_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Creator     string     `json:"creator"`
	Assignee    *string    `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedOn   time.Time  `json:"created_on"`
}

type Comment struct {
	ID        int       `json:"id"`
	TaskID    int       `json:"task_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskStatus and TaskPriority are reference enumerations. Tasks carry
// foreign keys into them; free-text values are rejected.
type TaskStatus struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TaskPriority struct {
	ID    int    `json:"id"`
	Level string `json:"level"`
	Color string `json:"color"`
}

type Category struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// WorkspaceBoards pairs a workspace with the boards inside it that a
// particular member may see.
type WorkspaceBoards struct {
	Workspace Workspace `json:"workspace"`
	Boards    []Board   `json:"boards"`
}
