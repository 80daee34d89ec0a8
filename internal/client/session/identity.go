// Package session owns the client-side authentication state: the login state
// machine, decoding of server-issued tokens into identities, role routing,
// and persistence of the current session between runs.
package session

// Known roles. Role strings are always stored lower-cased; anything else is
// routed to the configured fallback.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Identity is the decoded, normalized user record derived from a session
// token. It is never stored independently of the token it came from.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the live pairing of a bearer token and its decoded Identity.
// A session is either fully present or fully absent: no partial state is
// ever considered valid for routing decisions.
type Session struct {
	Token    string
	Identity Identity
}

// RouteTarget names a top-level view of the application.
type RouteTarget string

const (
	RouteLogin            RouteTarget = "login"
	RouteStudentDashboard RouteTarget = "student-dashboard"
	RouteTeacherDashboard RouteTarget = "teacher-dashboard"
	RouteAdminDashboard   RouteTarget = "admin-dashboard"
)
