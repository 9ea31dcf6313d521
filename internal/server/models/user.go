package models

import "time"

// User is an account record. PasswordHash never leaves the server.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Gender       string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a user.
type Profile struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Gender:    u.Gender,
	}
}
