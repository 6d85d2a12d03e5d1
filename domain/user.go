package domain

import "time"

// User represents a registered account. PasswordHash is a bcrypt digest and
// is never serialized.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}
