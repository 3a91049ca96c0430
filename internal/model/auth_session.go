package model

import "time"

// Session kinds. A session created by the registration begin-step can
// only be consumed by the registration finish-step, and likewise for
// login.
const (
	SessionKindRegister = "register"
	SessionKindLogin    = "login"
)

// AuthSession is an ephemeral challenge/response session created by a
// begin-step and consumed exactly once by the matching finish-step.
// UserID is set only for login sessions; DisplayName only for
// registration sessions (the user does not exist yet at begin time,
// so the requested name rides along on the session).
type AuthSession struct {
	ID          string    // auth_sessions.id (UUID)
	Kind        string    // auth_sessions.kind (register|login)
	UserID      string    // auth_sessions.user_id (empty for register)
	DisplayName string    // auth_sessions.display_name (empty for login)
	Challenge   string    // auth_sessions.challenge (single-use random hex)
	Consumed    bool      // auth_sessions.consumed
	CreatedAt   time.Time // auth_sessions.created_at
}
