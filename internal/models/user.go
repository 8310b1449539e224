package models

type UserRole string

const (
	UserRoleFan   UserRole = "FAN"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Role  UserRole `json:"role"`
}
