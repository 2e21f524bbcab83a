package ports

// Storage keys for the persisted credential and identity. The session
// service writes them and the HTTP transport reads the token back on every
// outbound request; both sides must agree on these exact names, so they
// live here and nowhere else.
const (
	KeyToken    = "tb_token"
	KeyIdentity = "tb_user"
)

// CredentialStore is the persisted key-value storage shared by the session
// service and the HTTP transport.
type CredentialStore interface {
	// Get returns the value for key, or "" when absent.
	Get(key string) string
	Set(key, value string) error
	Delete(key string) error
	// ClearAuth removes the token and identity together. The two keys are
	// never cleared independently; a partial clear is a correctness bug.
	ClearAuth() error
}
