package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Session is what a successful login, register or refresh produces.
// RefreshToken is only ever written to the session cookie.
type Session struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"-"`
	User         UserSummary `json:"user"`
}

type SessionResponse struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"accessToken"`
	User        UserSummary `json:"user"`
}

type RefreshResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
