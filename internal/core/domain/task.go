package domain

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskAccepted   TaskStatus = "ACCEPTED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskRejected   TaskStatus = "REJECTED"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskAccepted, TaskInProgress, TaskCompleted, TaskRejected:
		return true
	}
	return false
}

// TaskPriority is the urgency bucket of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Task is a unit of work inside a project. A task may be unassigned;
// only the assigned user may change its status, and reassignment resets
// the status to PENDING.
type Task struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Status           TaskStatus   `json:"status"`
	Priority         TaskPriority `json:"priority"`
	AssignedUserID   int64        `json:"assignedUserId,omitempty"`
	AssignedUserName string       `json:"assignedUserName,omitempty"`
	ProjectID        int64        `json:"projectId"`
	ProjectName      string       `json:"projectName,omitempty"`
	DueDate          string       `json:"dueDate,omitempty"`
	CreatedAt        string       `json:"createdAt,omitempty"`
	UpdatedAt        string       `json:"updatedAt,omitempty"`
}

// Comment is a message attached to either a project or a task (exactly one
// of ProjectID / TaskID is set).
type Comment struct {
	ID         int64  `json:"id"`
	Message    string `json:"message"`
	UserID     int64  `json:"userId"`
	TaskID     int64  `json:"taskId,omitempty"`
	ProjectID  int64  `json:"projectId,omitempty"`
	AuthorName string `json:"authorName,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}
