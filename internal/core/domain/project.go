package domain

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "PENDING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectOnHold     ProjectStatus = "ON_HOLD"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
	ProjectRejected   ProjectStatus = "REJECTED"
)

// ValidProjectStatus reports whether s is a known project status. The
// backend sets statuses directly; there is no transition machine.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectOnHold,
		ProjectCompleted, ProjectCancelled, ProjectRejected:
		return true
	}
	return false
}

// Project is a TaskBuddy project as exchanged over the wire.
type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ManagerID   int64         `json:"managerId"`
	ManagerName string        `json:"managerName,omitempty"`
	Status      ProjectStatus `json:"status"`
	Role        string        `json:"role,omitempty"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	UpdatedAt   string        `json:"updatedAt,omitempty"`
	TaskCount   int           `json:"taskCount"`
	MemberCount int           `json:"memberCount"`
}

// ProjectMember links a user to a project together with the role the user
// holds inside that project.
type ProjectMember struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"projectId"`
	UserID      int64  `json:"userId"`
	Role        Role   `json:"role"`
	ProjectName string `json:"projectName,omitempty"`
	UserName    string `json:"userName,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
}

// InvitationStatus is the response state of a project invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
)

// Invitation invites a user to join a project. Accepting one makes the
// invited user a project member.
type Invitation struct {
	ID            int64            `json:"id"`
	ProjectID     int64            `json:"projectId"`
	InvitedUserID int64            `json:"invitedUserId"`
	Status        InvitationStatus `json:"status"`
	ProjectName   string           `json:"projectName,omitempty"`
}
