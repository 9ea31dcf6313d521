package api

import "time"

type Profile struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
}

type LoginResult struct {
	UserInfo Profile `json:"userInfo"`
	Token    string  `json:"token"`
}

type Task struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"taskName"`
	Status    string    `json:"taskStatus"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Password  string `json:"password"`
}

// TaskUpdate is a partial update; nil fields are not sent.
type TaskUpdate struct {
	Name   *string `json:"taskName,omitempty"`
	Status *string `json:"taskStatus,omitempty"`
}
