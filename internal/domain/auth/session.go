package auth

// Role is carried in the session token; issuance lives outside this service.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session identifies the acting principal. It is built by the auth middleware
// and threaded explicitly through usecase calls; there is no ambient global
// session state.
type Session struct {
	UserID string
	Role   Role
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
