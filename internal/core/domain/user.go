package domain

// Role is the product-wide role of a TaskBuddy user.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleMember
}

// Session is the locally known identity of the signed-in actor. It carries
// no credential; a session is only meaningful while a bearer token is also
// present in persisted storage.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// User is a TaskBuddy account as returned by user-facing endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// AuthResult is the payload of a successful login: the bearer token plus
// the identity fields a local session is derived from.
type AuthResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
