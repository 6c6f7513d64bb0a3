package model

import "strings"

type User struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"is_admin,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
	UpdatedAt string     `json:"updated_at,omitempty"`
}

// AuthState is the snapshot of a visitor's authentication handed to views.
// It is a value: changing it does not change the session.
type AuthState struct {
	Authenticated bool
	User          User
	IsAdmin       bool
}

func NewAuthState(authenticated bool, user *User, adminEmail string) AuthState {
	if !authenticated || user == nil {
		return AuthState{}
	}

	return AuthState{
		Authenticated: true,
		User:          *user,
		IsAdmin:       user.IsAdmin || (adminEmail != "" && strings.EqualFold(user.Email, adminEmail)),
	}
}

type SignupForm struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
