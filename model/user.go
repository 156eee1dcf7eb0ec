package model

import "time"

// User is the stored account record. PasswordHash never leaves the process.
type User struct {
	UserID       string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	XP           int32     `json:"xp"`
	Level        int32     `json:"level"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserFilter selects a single user; the first non-empty field wins.
type UserFilter struct {
	UserID string
	Email  string
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserResponse struct {
	User UserProfile `json:"user"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.UserID, Username: u.Username, Email: u.Email}
}

func (u User) Profile() UserProfile {
	return UserProfile{ID: u.UserID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

// UserCSV is one row of the seed file.
type UserCSV struct {
	Username string `csv:"username"`
	Email    string `csv:"email"`
	Password string `csv:"password"`
}
