// Package memory is an in-memory store used by unit tests. It mirrors
// the semantics of the Postgres store, including the not-found and
// conflict cases.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskmaster/internal/apperr"
	"taskmaster/internal/models"
	"taskmaster/internal/store"
)

type Store struct {
	mu sync.RWMutex

	members   map[int]models.Member
	sessions  map[string]models.Session
	wss       map[int]models.Workspace
	wsMembers map[int]map[int]bool // workspace id -> member id
	boards    map[int]models.Board
	bMembers  map[int]map[int]string // board id -> member id -> role
	tasks     map[int]models.Task
	comments  map[int]models.Comment
	taskCats  map[int]map[int]bool // task id -> category id

	statuses   []models.TaskStatus
	priorities []models.TaskPriority
	categories map[int]models.Category

	nextMember, nextWS, nextBoard, nextTask, nextComment, nextCategory int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	s := &Store{
		members:      map[int]models.Member{},
		sessions:     map[string]models.Session{},
		wss:          map[int]models.Workspace{},
		wsMembers:    map[int]map[int]bool{},
		boards:       map[int]models.Board{},
		bMembers:     map[int]map[int]string{},
		tasks:        map[int]models.Task{},
		comments:     map[int]models.Comment{},
		taskCats:     map[int]map[int]bool{},
		categories:   map[int]models.Category{},
		nextMember:   1,
		nextWS:       1,
		nextBoard:    1,
		nextTask:     1,
		nextComment:  1,
		nextCategory: 1,
	}
	// Same reference rows the SQL seed installs.
	s.statuses = []models.TaskStatus{
		{ID: 1, Name: "To Do", Color: "#94a3b8"},
		{ID: 2, Name: "In Progress", Color: "#3b82f6"},
		{ID: 3, Name: "Done", Color: "#22c55e"},
	}
	s.priorities = []models.TaskPriority{
		{ID: 1, Level: "Low", Color: "secondary"},
		{ID: 2, Level: "Medium", Color: "default"},
		{ID: 3, Level: "High", Color: "destructive"},
	}
	return s
}

// ---- seeding helpers for tests ----

func (s *Store) SeedWorkspace(name, slug string, createdBy int) models.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := models.Workspace{ID: s.nextWS, Name: name, Slug: slug, CreatedBy: createdBy, CreatedOn: time.Now()}
	s.nextWS++
	s.wss[ws.ID] = ws
	s.wsMembers[ws.ID] = map[int]bool{}
	return ws
}

func (s *Store) SeedWorkspaceMember(workspaceID, memberID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wsMembers[workspaceID] == nil {
		s.wsMembers[workspaceID] = map[int]bool{}
	}
	s.wsMembers[workspaceID][memberID] = true
}

func (s *Store) SeedBoardMember(boardID, memberID int, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bMembers[boardID] == nil {
		s.bMembers[boardID] = map[int]string{}
	}
	s.bMembers[boardID][memberID] = role
}

func (s *Store) SeedBoard(workspaceID int, title string) models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := models.Board{ID: s.nextBoard, WorkspaceID: workspaceID, Title: title}
	s.nextBoard++
	s.boards[b.ID] = b
	s.bMembers[b.ID] = map[int]string{}
	return b
}

// ---- MemberStore ----

func (s *Store) CreateMember(_ context.Context, m models.Member) (models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.Username == m.Username {
			return models.Member{}, fmt.Errorf("username %q: %w", m.Username, apperr.ErrConflict)
		}
	}
	m.ID = s.nextMember
	s.nextMember++
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.members[m.ID] = m
	return m, nil
}

func (s *Store) GetMemberByID(_ context.Context, id int) (models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return models.Member{}, apperr.ErrNotFound
	}
	return m, nil
}

func (s *Store) GetMemberByUsername(_ context.Context, username string) (models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.Username == username {
			return m, nil
		}
	}
	return models.Member{}, apperr.ErrNotFound
}

func (s *Store) UpdateMember(_ context.Context, id int, patch store.MemberPatch) (models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return models.Member{}, apperr.ErrNotFound
	}
	if patch.Username != nil {
		for otherID, other := range s.members {
			if otherID != id && other.Username == *patch.Username {
				return models.Member{}, fmt.Errorf("username %q: %w", *patch.Username, apperr.ErrConflict)
			}
		}
		m.Username = *patch.Username
	}
	if patch.FirstName != nil {
		m.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		m.LastName = patch.LastName
	}
	if patch.Email != nil {
		m.Email = *patch.Email
	}
	if patch.Handle != nil {
		m.Handle = *patch.Handle
	}
	if patch.NewPassword != nil {
		m.PasswordHash = *patch.NewPassword
	}
	m.UpdatedAt = time.Now()
	s.members[id] = m
	return m, nil
}

func (s *Store) UpdateMemberStatus(_ context.Context, id int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return apperr.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	s.members[id] = m
	return nil
}

func (s *Store) DeleteMember(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.members, id)
	for token, sess := range s.sessions {
		if sess.MemberID == id {
			delete(s.sessions, token)
		}
	}
	return nil
}

// ---- SessionStore ----

func (s *Store) CreateSession(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, token string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return models.Session{}, apperr.ErrNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}

// ---- WorkspaceStore ----

func (s *Store) GetWorkspace(_ context.Context, id int) (models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.wss[id]
	if !ok {
		return models.Workspace{}, fmt.Errorf("workspace %d: %w", id, apperr.ErrNotFound)
	}
	return ws, nil
}

func (s *Store) ListMemberWorkspaces(_ context.Context, memberID int) ([]models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Workspace
	for wsID, members := range s.wsMembers {
		if members[memberID] {
			out = append(out, s.wss[wsID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) IsWorkspaceMember(_ context.Context, workspaceID, memberID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wsMembers[workspaceID][memberID], nil
}

func (s *Store) AddWorkspaceMembers(_ context.Context, workspaceID int, usernames []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wss[workspaceID]; !ok {
		return 0, fmt.Errorf("workspace %d: %w", workspaceID, apperr.ErrNotFound)
	}
	if s.wsMembers[workspaceID] == nil {
		s.wsMembers[workspaceID] = map[int]bool{}
	}
	added := 0
	for _, username := range usernames {
		for _, m := range s.members {
			if m.Username == username && !s.wsMembers[workspaceID][m.ID] {
				s.wsMembers[workspaceID][m.ID] = true
				added++
			}
		}
	}
	return added, nil
}

// ---- BoardStore ----

func (s *Store) CreateBoard(_ context.Context, b models.Board, creatorID int) (models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wss[b.WorkspaceID]; !ok {
		return models.Board{}, fmt.Errorf("workspace %d: %w", b.WorkspaceID, apperr.ErrNotFound)
	}
	b.ID = s.nextBoard
	s.nextBoard++
	s.boards[b.ID] = b
	s.bMembers[b.ID] = map[int]string{creatorID: models.RoleAdmin}
	return b, nil
}

func (s *Store) GetBoard(_ context.Context, workspaceID, boardID int) (models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[boardID]
	if !ok || b.WorkspaceID != workspaceID {
		return models.Board{}, fmt.Errorf("board %d in workspace %d: %w", boardID, workspaceID, apperr.ErrNotFound)
	}
	return b, nil
}

func (s *Store) ListVisibleBoards(_ context.Context, workspaceID, memberID int) ([]models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Board
	for _, b := range s.boards {
		if b.WorkspaceID == workspaceID && s.bMembers[b.ID][memberID] != "" {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) BoardRole(_ context.Context, boardID, memberID int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bMembers[boardID][memberID], nil
}

func (s *Store) UpdateBoard(_ context.Context, workspaceID, boardID int, patch store.BoardPatch) (models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	if !ok || b.WorkspaceID != workspaceID {
		return models.Board{}, fmt.Errorf("board %d in workspace %d: %w", boardID, workspaceID, apperr.ErrNotFound)
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = patch.Description
	}
	s.boards[boardID] = b
	return b, nil
}

func (s *Store) DeleteBoard(_ context.Context, workspaceID, boardID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	if !ok || b.WorkspaceID != workspaceID {
		return fmt.Errorf("board %d in workspace %d: %w", boardID, workspaceID, apperr.ErrNotFound)
	}
	delete(s.boards, boardID)
	delete(s.bMembers, boardID)
	for tid, t := range s.tasks {
		if t.BoardID == boardID {
			delete(s.tasks, tid)
			delete(s.taskCats, tid)
			for cid, c := range s.comments {
				if c.TaskID == tid {
					delete(s.comments, cid)
				}
			}
		}
	}
	return nil
}

// ---- TaskStore ----

func (s *Store) CreateTask(_ context.Context, t models.Task, statusID, priorityID int) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[t.BoardID]; !ok {
		return models.Task{}, fmt.Errorf("board %d: %w", t.BoardID, apperr.ErrNotFound)
	}
	t.Status = s.statusName(statusID)
	t.Priority = s.priorityLevel(priorityID)
	t.ID = s.nextTask
	s.nextTask++
	t.CreatedOn = time.Now()
	s.tasks[t.ID] = t
	return t, nil
}

func (s *Store) GetTask(_ context.Context, boardID, taskID int) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok || t.BoardID != boardID {
		return models.Task{}, fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}
	return t, nil
}

func (s *Store) ListTasks(_ context.Context, boardID int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.BoardID == boardID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateTask(_ context.Context, boardID, taskID int, patch store.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok || t.BoardID != boardID {
		return models.Task{}, fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Points != nil {
		t.Points = *patch.Points
	}
	if patch.StatusID != nil {
		t.Status = s.statusName(*patch.StatusID)
	}
	if patch.PriorityID != nil {
		t.Priority = s.priorityLevel(*patch.PriorityID)
	}
	if patch.Assignee != nil {
		t.Assignee = patch.Assignee
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	s.tasks[taskID] = t
	return t, nil
}

func (s *Store) DeleteTask(_ context.Context, boardID, taskID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok || t.BoardID != boardID {
		return fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}
	delete(s.tasks, taskID)
	delete(s.taskCats, taskID)
	for cid, c := range s.comments {
		if c.TaskID == taskID {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *Store) TaskExists(_ context.Context, boardID, taskID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	return ok && t.BoardID == boardID, nil
}

func (s *Store) SetTaskCategories(_ context.Context, boardID, taskID int, categoryIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok || t.BoardID != boardID {
		return fmt.Errorf("task %d on board %d: %w", taskID, boardID, apperr.ErrNotFound)
	}
	next := map[int]bool{}
	for _, id := range categoryIDs {
		if _, ok := s.categories[id]; !ok {
			return fmt.Errorf("unknown category %d: %w", id, apperr.ErrValidation)
		}
		next[id] = true
	}
	s.taskCats[taskID] = next
	return nil
}

func (s *Store) ListTaskCategories(_ context.Context, taskID int) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for id := range s.taskCats[taskID] {
		out = append(out, s.categories[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- CommentStore ----

func (s *Store) CreateComment(_ context.Context, c models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[c.TaskID]; !ok {
		return models.Comment{}, fmt.Errorf("task %d: %w", c.TaskID, apperr.ErrNotFound)
	}
	c.ID = s.nextComment
	s.nextComment++
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.comments[c.ID] = c
	return c, nil
}

func (s *Store) GetComment(_ context.Context, taskID, commentID int) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[commentID]
	if !ok || c.TaskID != taskID {
		return models.Comment{}, fmt.Errorf("comment %d on task %d: %w", commentID, taskID, apperr.ErrNotFound)
	}
	return c, nil
}

func (s *Store) ListComments(_ context.Context, taskID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateComment(_ context.Context, taskID, commentID int, content string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok || c.TaskID != taskID {
		return models.Comment{}, fmt.Errorf("comment %d on task %d: %w", commentID, taskID, apperr.ErrNotFound)
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	s.comments[commentID] = c
	return c, nil
}

func (s *Store) DeleteComment(_ context.Context, taskID, commentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok || c.TaskID != taskID {
		return fmt.Errorf("comment %d on task %d: %w", commentID, taskID, apperr.ErrNotFound)
	}
	delete(s.comments, commentID)
	return nil
}

// ---- ReferenceStore ----

func (s *Store) ListStatuses(_ context.Context) ([]models.TaskStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TaskStatus(nil), s.statuses...), nil
}

func (s *Store) ListPriorities(_ context.Context) ([]models.TaskPriority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TaskPriority(nil), s.priorities...), nil
}

func (s *Store) StatusID(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.statuses {
		if st.Name == name {
			return st.ID, nil
		}
	}
	return 0, fmt.Errorf("status %q: %w", name, apperr.ErrNotFound)
}

func (s *Store) PriorityID(_ context.Context, level string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.priorities {
		if p.Level == level {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("priority %q: %w", level, apperr.ErrNotFound)
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextCategory
	s.nextCategory++
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, id int, value, color *string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	if value != nil {
		c.Value = *value
	}
	if color != nil {
		c.Color = *color
	}
	s.categories[id] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	delete(s.categories, id)
	for tid := range s.taskCats {
		delete(s.taskCats[tid], id)
	}
	return nil
}

func (s *Store) statusName(id int) string {
	for _, st := range s.statuses {
		if st.ID == id {
			return st.Name
		}
	}
	return ""
}

func (s *Store) priorityLevel(id int) string {
	for _, p := range s.priorities {
		if p.ID == id {
			return p.Level
		}
	}
	return ""
}
