package model

import "net/http"

type DialogAction int

const (
	DefaultAction DialogAction = iota
	ExpectingEmail
	ExpectingPassword
)

// Session is the server-side record kept per visitor (browser cookie or chat).
type Session struct {
	Action         DialogAction   `json:"action"`
	PendingEmail   string         `json:"pending_email,omitempty"`
	Authenticated  bool           `json:"authenticated"`
	User           *User          `json:"user,omitempty"`
	BackendCookies BackendCookies `json:"backend_cookies,omitempty"`
}

// BackendCookies is the visitor's cookie-based session with the backend.
type BackendCookies map[string]string

func (c BackendCookies) HTTPCookies() []*http.Cookie {
	res := make([]*http.Cookie, 0, len(c))
	for name, value := range c {
		res = append(res, &http.Cookie{Name: name, Value: value})
	}
	return res
}

// Merge applies Set-Cookie results and reports whether anything changed.
// Expired or emptied cookies are dropped.
func (c BackendCookies) Merge(cookies []*http.Cookie) (changed bool) {
	for _, cookie := range cookies {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			if _, ok := c[cookie.Name]; ok {
				delete(c, cookie.Name)
				changed = true
			}
			continue
		}
		if c[cookie.Name] != cookie.Value {
			c[cookie.Name] = cookie.Value
			changed = true
		}
	}
	return changed
}
