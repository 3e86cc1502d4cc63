package models

// Roles carried in backend-issued tokens.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// Identity is the signed-in user a request acts for.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	Token    string `json:"-"`
}

// Authenticated reports whether a user is signed in.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}
