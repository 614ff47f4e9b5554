package auth

import "time"

// SessionRequest carries only an email address. No password is checked: any
// well-formed address gets a session, so the route must only be reachable
// through the company SSO proxy, which authenticates the caller first.
type SessionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}
