package domain

import "time"

// Task represents a to-do item owned by exactly one user.
type Task struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether the task belongs to the given user.
func (t *Task) OwnedBy(user *User) bool {
	return t != nil && user != nil && t.AuthorID == user.ID
}
