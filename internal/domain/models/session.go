package models

import "time"

// Session is the explicit per-login state handed to route guards.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Workplace string    `json:"workplace,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// IsPortalUser reports whether the session belongs to a non-admin user.
func (s *Session) IsPortalUser() bool {
	return s != nil && s.Role != "" && s.Role != RoleAdmin
}

// UserDashboard is the greeting data of the user area.
type UserDashboard struct {
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Title     string `json:"title"`
	Email     string `json:"email"`
	Workplace string `json:"workplace"`
}
