package model

import "time"

// DefaultUserType is assigned when registration does not name one.
const DefaultUserType = "user"

type User struct {
	ID           string
	Username     string // email address, unique
	FirstName    string
	LastName     string
	PasswordHash string
	UserType     string
	CreatedAt    time.Time
}

// NewUser is the registration candidate handed to the user directory.
// Password is plaintext and never stored.
type NewUser struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	UserType  string
}

// PublicUser is the externally visible view of a User.
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

// Public strips the password hash and creation timestamp.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  u.UserType,
	}
}
