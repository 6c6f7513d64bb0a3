package authService

import "errors"

var ErrNoUser = errors.New("profile response has no user")
