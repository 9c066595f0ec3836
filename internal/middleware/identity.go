package middleware

// identity.go holds the helpers that tell middleware and handlers who is
// calling: the booking session addressed by the route, or the staff member
// authenticated by JWTAuth.

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxStaff = "staff"
	ctxRole  = "role"
)

// sessionID returns the booking session addressed by the route, or "none"
// for routes that do not carry one.
func sessionID(c echo.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return "none"
}

// StaffFrom returns the staff login name stored by JWTAuth.  It is empty on
// routes that are not authenticated.
func StaffFrom(c echo.Context) string {
	s, _ := c.Get(ctxStaff).(string)
	return s
}
