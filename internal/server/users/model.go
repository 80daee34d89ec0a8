package users

import "time"

// Roles a user account can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
