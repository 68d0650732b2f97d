package domain

// Role is the account role assigned by the backend.
type Role string

const (
	RoleStudent     Role = "STUDENT"
	RoleTeacher     Role = "TEACHER"
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
)

// Valid reports whether r is one of the roles the backend knows about.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleCoordinator:
		return true
	default:
		return false
	}
}

// User is the denormalized profile returned by the backend and cached
// alongside the session tokens.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CPF          string `json:"CPF,omitempty"`
	Phone        string `json:"phone,omitempty"`
	EnrollmentID *int64 `json:"enrollmentId,omitempty"`
	GitHub       string `json:"github,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
	XP           int    `json:"xp"`
	Level        int    `json:"level"`
	CreatedAt    string `json:"createdAt"`
}

// UsersPage is one page of the user listing endpoints.
type UsersPage struct {
	Pages int    `json:"pages"`
	Users []User `json:"users"`
}

// RegisterRequest carries the fields accepted by both POST /auth/register
// and POST /users.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CPF          string `json:"CPF,omitempty"`
	Phone        string `json:"phone,omitempty"`
	EnrollmentID *int64 `json:"enrollmentId,omitempty"`
	GitHub       string `json:"github,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name         *string `json:"name,omitempty"`
	CPF          *string `json:"CPF,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	EnrollmentID *int64  `json:"enrollmentId,omitempty"`
	GitHub       *string `json:"github,omitempty"`
	LinkedIn     *string `json:"linkedin,omitempty"`
	Role         *Role   `json:"role,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}
