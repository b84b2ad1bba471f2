// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 64
	MaxEmailLen    = 254
)

var (
	ErrIdentityEmpty   = errors.New("user identity empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrEmailTooLong    = errors.New("email too long")
	ErrUserIDTooLong   = errors.New("user id too long")
)

type ConnectionID string

// Identity is what a client claims about itself on join. The hub never verifies it.
type Identity struct {
	UserID   string `json:"userId,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

func (u Identity) IsZero() bool {
	return u.UserID == "" && u.Email == "" && u.Username == ""
}

// DisplayName is the attribution used on messages and notices.
func (u Identity) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	case u.UserID != "":
		return u.UserID
	}
	return "Anonymous"
}

// Normalize trims the identity and checks it against the length limits.
func (u Identity) Normalize() (Identity, error) {
	out := Identity{
		UserID:   strings.TrimSpace(u.UserID),
		Email:    strings.TrimSpace(u.Email),
		Username: strings.TrimSpace(u.Username),
	}
	if out.IsZero() {
		return Identity{}, ErrIdentityEmpty
	}
	if len(out.Username) > MaxUsernameLen {
		return Identity{}, ErrUsernameTooLong
	}
	if len(out.Email) > MaxEmailLen {
		return Identity{}, ErrEmailTooLong
	}
	if len(out.UserID) > MaxUserIDLen {
		return Identity{}, ErrUserIDTooLong
	}
	return out, nil
}
