// ABOUTME: User entity and authentication result
// ABOUTME: Display helpers mirror the fallbacks used by the admin layout

package domain

import (
	"strings"
)

// User is the administrator profile returned by login or /auth/profile.
type User struct {
	DNI       int64  `json:"dni" yaml:"dni"`
	FirstName string `json:"firstName" yaml:"first_name"`
	LastName  string `json:"lastName" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Gender    bool   `json:"gender" yaml:"gender"`
}

// Credentials are the login form values.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the mapped login/refresh response. User is nil when the API omits it.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// FullName returns "First Last", falling back to the first name, then the e-mail local part.
func (u *User) FullName() string {
	if u == nil {
		return "User"
	}
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case u.Email != "":
		local, _, _ := strings.Cut(u.Email, "@")
		return local
	}
	return "User"
}

// Initials returns two upper-case letters for the avatar badge.
func (u *User) Initials() string {
	if u == nil {
		return "US"
	}
	first := []rune(strings.TrimSpace(u.FirstName))
	last := []rune(strings.TrimSpace(u.LastName))
	switch {
	case len(first) > 0 && len(last) > 0:
		return strings.ToUpper(string(first[0]) + string(last[0]))
	case len(first) > 0:
		return strings.ToUpper(string(first[:min(2, len(first))]))
	case u.Email != "":
		email := []rune(u.Email)
		return strings.ToUpper(string(email[:min(2, len(email))]))
	}
	return "US"
}
