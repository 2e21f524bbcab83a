package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// userRecord is a stored account: the public user plus the bcrypt hash.
type userRecord struct {
	domain.User
	PasswordHash string
}

type resetCode struct {
	Code      string
	ExpiresAt time.Time
}

// Store is the dev server's in-memory state. It stands in for the real
// backend's database so the stub runs with zero external services; all
// state is lost on restart, which is the point of a dev fixture.
type Store struct {
	mu sync.RWMutex

	users         map[int64]*userRecord
	projects      map[int64]*domain.Project
	tasks         map[int64]*domain.Task
	members       map[int64]*domain.ProjectMember
	invitations   map[int64]*domain.Invitation
	comments      map[int64]*domain.Comment
	notifications map[int64]*domain.Notification
	resetCodes    map[string]resetCode

	nextID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*userRecord),
		projects:      make(map[int64]*domain.Project),
		tasks:         make(map[int64]*domain.Task),
		members:       make(map[int64]*domain.ProjectMember),
		invitations:   make(map[int64]*domain.Invitation),
		comments:      make(map[int64]*domain.Comment),
		notifications: make(map[int64]*domain.Notification),
		resetCodes:    make(map[string]resetCode),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ── Users ────────────────────────────────────────────────────────────────

// CreateUser stores a new account. Username and email must be unique.
func (s *Store) CreateUser(username, email, passwordHash string, role domain.Role) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username || (email != "" && u.Email == email) {
			return nil, domain.ErrUserExists
		}
	}
	rec := &userRecord{
		User:         domain.User{ID: s.id(), Username: username, Email: email, Role: role},
		PasswordHash: passwordHash,
	}
	s.users[rec.ID] = rec
	u := rec.User
	return &u, nil
}

// FindUserByUsername returns the stored record including the hash.
func (s *Store) FindUserByUsername(username string) (*userRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			rec := *u
			return &rec, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// FindUserByEmail returns the stored record including the hash.
func (s *Store) FindUserByEmail(email string) (*userRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			rec := *u
			return &rec, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetUser returns the public view of one account.
func (s *Store) GetUser(id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := rec.User
	return &u, nil
}

// ListUsers returns every account, id-ascending.
func (s *Store) ListUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SearchUsers matches username or email, case-insensitive substring.
func (s *Store) SearchUsers(query string) []domain.User {
	q := strings.ToLower(query)
	out := make([]domain.User, 0)
	for _, u := range s.ListUsers() {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// UpdateUser replaces the profile fields of an account.
func (s *Store) UpdateUser(id int64, username, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if username != "" {
		rec.Username = username
	}
	if email != "" {
		rec.Email = email
	}
	u := rec.User
	return &u, nil
}

// UpdatePassword swaps the stored hash.
func (s *Store) UpdatePassword(id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.PasswordHash = passwordHash
	return nil
}

// ── Password reset codes ─────────────────────────────────────────────────

// SetResetCode stores a one-time code for an email address.
func (s *Store) SetResetCode(email, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCodes[email] = resetCode{Code: code, ExpiresAt: time.Now().Add(ttl)}
}

// ConsumeResetCode validates and burns a reset code.
func (s *Store) ConsumeResetCode(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc, ok := s.resetCodes[email]
	if !ok || rc.Code != code || time.Now().After(rc.ExpiresAt) {
		return domain.ErrInvalidResetToken
	}
	delete(s.resetCodes, email)
	return nil
}

// ── Projects ─────────────────────────────────────────────────────────────

// CreateProject stores a new project managed by managerID. The creator is
// also recorded as a MANAGER member.
func (s *Store) CreateProject(name, description string, managerID int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	manager, ok := s.users[managerID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	p := &domain.Project{
		ID:          s.id(),
		Name:        name,
		Description: description,
		ManagerID:   managerID,
		ManagerName: manager.Username,
		Status:      domain.ProjectPending,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	s.projects[p.ID] = p
	s.members[s.id()] = &domain.ProjectMember{
		ID:        s.nextID,
		ProjectID: p.ID,
		UserID:    managerID,
		Role:      domain.RoleManager,
	}
	out := *p
	return &out, nil
}

// GetProject returns one project with its derived counts.
func (s *Store) GetProject(id int64) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProjectLocked(id)
}

func (s *Store) getProjectLocked(id int64) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	out := *p
	for _, t := range s.tasks {
		if t.ProjectID == id {
			out.TaskCount++
		}
	}
	for _, m := range s.members {
		if m.ProjectID == id {
			out.MemberCount++
		}
	}
	return &out, nil
}

// ListProjectsForUser returns projects the user manages or belongs to.
func (s *Store) ListProjectsForUser(userID int64) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool)
	out := make([]domain.Project, 0)
	for _, p := range s.projects {
		if p.ManagerID == userID {
			seen[p.ID] = true
		}
	}
	for _, m := range s.members {
		if m.UserID == userID {
			seen[m.ProjectID] = true
		}
	}
	for id := range seen {
		p, err := s.getProjectLocked(id)
		if err == nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateProject replaces the writable fields.
func (s *Store) UpdateProject(id int64, name, description string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = now()
	out := *p
	return &out, nil
}

// SetProjectStatus moves a project to status.
func (s *Store) SetProjectStatus(id int64, status domain.ProjectStatus) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Status = status
	p.UpdatedAt = now()
	out := *p
	return &out, nil
}

// ── Membership ───────────────────────────────────────────────────────────

// IsMember reports whether userID belongs to projectID (manager included).
func (s *Store) IsMember(projectID, userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isMemberLocked(projectID, userID)
}

func (s *Store) isMemberLocked(projectID, userID int64) bool {
	if p, ok := s.projects[projectID]; ok && p.ManagerID == userID {
		return true
	}
	for _, m := range s.members {
		if m.ProjectID == projectID && m.UserID == userID {
			return true
		}
	}
	return false
}

// AddMember attaches a user to a project as a MEMBER.
func (s *Store) AddMember(projectID, userID int64) (*domain.ProjectMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if s.isMemberLocked(projectID, userID) {
		return nil, domain.ErrInvalidInput
	}
	m := &domain.ProjectMember{
		ID:        s.id(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      domain.RoleMember,
		UserName:  u.Username,
		UserEmail: u.Email,
	}
	s.members[m.ID] = m
	out := *m
	return &out, nil
}

// RemoveMember detaches a user from a project.
func (s *Store) RemoveMember(projectID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.members {
		if m.ProjectID == projectID && m.UserID == userID {
			delete(s.members, id)
			return nil
		}
	}
	return domain.ErrNotProjectMember
}

// ListMembersByProject returns the membership records of a project,
// decorated with user and project names.
func (s *Store) ListMembersByProject(projectID int64) []domain.ProjectMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProjectMember, 0)
	for _, m := range s.members {
		if m.ProjectID != projectID {
			continue
		}
		mm := *m
		if u, ok := s.users[m.UserID]; ok {
			mm.UserName = u.Username
			mm.UserEmail = u.Email
		}
		if p, ok := s.projects[m.ProjectID]; ok {
			mm.ProjectName = p.Name
		}
		out = append(out, mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListMembershipsByUser returns the memberships of one user.
func (s *Store) ListMembershipsByUser(userID int64) []domain.ProjectMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProjectMember, 0)
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		mm := *m
		if p, ok := s.projects[m.ProjectID]; ok {
			mm.ProjectName = p.Name
		}
		out = append(out, mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── Tasks ────────────────────────────────────────────────────────────────

// CreateTask stores a task in a project. New tasks start PENDING.
func (s *Store) CreateTask(title, description string, priority domain.TaskPriority, projectID, assigneeID int64, dueDate string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}
	t := &domain.Task{
		ID:          s.id(),
		Title:       title,
		Description: description,
		Status:      domain.TaskPending,
		Priority:    priority,
		ProjectID:   projectID,
		ProjectName: p.Name,
		DueDate:     dueDate,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	if assigneeID != 0 {
		u, ok := s.users[assigneeID]
		if !ok {
			return nil, domain.ErrUserNotFound
		}
		if !s.isMemberLocked(projectID, assigneeID) {
			return nil, domain.ErrNotProjectMember
		}
		t.AssignedUserID = assigneeID
		t.AssignedUserName = u.Username
	}
	s.tasks[t.ID] = t
	out := *t
	return &out, nil
}

// GetTask returns one task.
func (s *Store) GetTask(id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

// ListTasksForUser returns tasks in projects the user can see.
func (s *Store) ListTasksForUser(userID int64) []domain.Task {
	visible := make(map[int64]bool)
	for _, p := range s.ListProjectsForUser(userID) {
		visible[p.ID] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if visible[t.ProjectID] {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListTasksByProject returns the tasks of one project.
func (s *Store) ListTasksByProject(projectID int64) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateTask replaces a task's writable fields.
func (s *Store) UpdateTask(id int64, title, description string, priority domain.TaskPriority, dueDate string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Title = title
	t.Description = description
	if priority != "" {
		t.Priority = priority
	}
	if dueDate != "" {
		t.DueDate = dueDate
	}
	t.UpdatedAt = now()
	out := *t
	return &out, nil
}

// SetTaskStatus moves a task to status. Only the assigned user may do it.
func (s *Store) SetTaskStatus(id, requesterID int64, status domain.TaskStatus) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if t.AssignedUserID == 0 || t.AssignedUserID != requesterID {
		return nil, domain.ErrForbidden
	}
	t.Status = status
	t.UpdatedAt = now()
	out := *t
	return &out, nil
}

// ReassignTask hands a task to another project member and resets its
// status to PENDING.
func (s *Store) ReassignTask(id, newAssigneeID int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	u, ok := s.users[newAssigneeID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if !s.isMemberLocked(t.ProjectID, newAssigneeID) {
		return nil, domain.ErrNotProjectMember
	}
	t.AssignedUserID = newAssigneeID
	t.AssignedUserName = u.Username
	t.Status = domain.TaskPending
	t.UpdatedAt = now()
	out := *t
	return &out, nil
}

// DeleteTask removes a task and its comments.
func (s *Store) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// ── Invitations ──────────────────────────────────────────────────────────

// CreateInvitation invites a user to a project.
func (s *Store) CreateInvitation(projectID, invitedUserID int64) (*domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if _, ok := s.users[invitedUserID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if s.isMemberLocked(projectID, invitedUserID) {
		return nil, domain.ErrInvalidInput
	}
	inv := &domain.Invitation{
		ID:            s.id(),
		ProjectID:     projectID,
		InvitedUserID: invitedUserID,
		Status:        domain.InvitationPending,
		ProjectName:   p.Name,
	}
	s.invitations[inv.ID] = inv
	out := *inv
	return &out, nil
}

// PendingInvitationsForUser returns the user's open invitations.
func (s *Store) PendingInvitationsForUser(userID int64) []domain.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Invitation, 0)
	for _, inv := range s.invitations {
		if inv.InvitedUserID == userID && inv.Status == domain.InvitationPending {
			ii := *inv
			if p, ok := s.projects[inv.ProjectID]; ok {
				ii.ProjectName = p.Name
			}
			out = append(out, ii)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RespondInvitation resolves a pending invitation. Accepting adds the
// invited user as a project member.
func (s *Store) RespondInvitation(id, requesterID int64, status domain.InvitationStatus) (*domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	if inv.InvitedUserID != requesterID {
		return nil, domain.ErrForbidden
	}
	if inv.Status != domain.InvitationPending {
		return nil, domain.ErrAlreadyResponded
	}
	inv.Status = status
	if status == domain.InvitationAccepted && !s.isMemberLocked(inv.ProjectID, inv.InvitedUserID) {
		m := &domain.ProjectMember{
			ID:        s.id(),
			ProjectID: inv.ProjectID,
			UserID:    inv.InvitedUserID,
			Role:      domain.RoleMember,
		}
		s.members[m.ID] = m
	}
	out := *inv
	return &out, nil
}

// ── Comments ─────────────────────────────────────────────────────────────

// AddComment attaches a comment to a project or task.
func (s *Store) AddComment(message string, userID, projectID, taskID int64) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectID != 0 {
		if _, ok := s.projects[projectID]; !ok {
			return nil, domain.ErrProjectNotFound
		}
	}
	if taskID != 0 {
		if _, ok := s.tasks[taskID]; !ok {
			return nil, domain.ErrTaskNotFound
		}
	}
	c := &domain.Comment{
		ID:        s.id(),
		Message:   message,
		UserID:    userID,
		ProjectID: projectID,
		TaskID:    taskID,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	if u, ok := s.users[userID]; ok {
		c.AuthorName = u.Username
	}
	s.comments[c.ID] = c
	out := *c
	return &out, nil
}

// GetComment returns one comment.
func (s *Store) GetComment(id int64) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

// ListProjectComments returns the comments attached to a project.
func (s *Store) ListProjectComments(projectID int64) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Comment, 0)
	for _, c := range s.comments {
		if c.ProjectID == projectID && c.TaskID == 0 {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListTaskComments returns the comments attached to a task.
func (s *Store) ListTaskComments(taskID int64) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Comment, 0)
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateComment rewrites a comment's message. Author only.
func (s *Store) UpdateComment(id, requesterID int64, message string) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	if c.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	c.Message = message
	c.UpdatedAt = now()
	out := *c
	return &out, nil
}

// DeleteComment removes a comment. Author or project manager.
func (s *Store) DeleteComment(id, requesterID int64, requesterRole domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	if c.UserID != requesterID && requesterRole != domain.RoleManager {
		return domain.ErrForbidden
	}
	delete(s.comments, id)
	return nil
}

// ── Notifications ────────────────────────────────────────────────────────

// AddNotification stores a notification and returns it with id and
// timestamp assigned.
func (s *Store) AddNotification(n domain.Notification) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id()
	n.CreatedAt = time.Now().UTC()
	stored := n
	s.notifications[n.ID] = &stored
	return n
}

// UnreadForUser returns the user's unread notifications, newest first.
func (s *Store) UnreadForUser(userID int64) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientID == userID && !n.Read {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// MarkNotificationRead flags one notification as read.
func (s *Store) MarkNotificationRead(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}
