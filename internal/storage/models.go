package storage

// Role values allowed for a user record.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// KnownRole reports whether role is one of the supported role values.
func KnownRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// UserRecord is a row of the credential store.
type UserRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// LinkRecord is a row of the link table.
type LinkRecord struct {
	Code      string `json:"short_code"`
	Original  string `json:"original_url"`
	CreatedBy string `json:"created_by"`
	Visits    int64  `json:"visits"`
}
