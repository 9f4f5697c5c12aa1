package domain

import "time"

// Session is the explicit authentication context threaded through handlers and
// controllers. The zero value is an anonymous session.
type Session struct {
	Token     string
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// Anonymous is the session of a caller that presented no valid token.
var Anonymous = Session{}

// IsAuthenticated reports whether the session carries a live token.
func (s Session) IsAuthenticated(now time.Time) bool {
	if s.Token == "" || s.Username == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session role grants access to the admin console.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
