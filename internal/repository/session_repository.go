package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ecomove/ecomove/internal/model"
)

// sessionTTL bounds how long a begin-step's challenge stays valid.
// Expiry is an added failure mode on top of the single-consumption
// rule; it never changes the consumption semantics.
const sessionTTL = 10 * time.Minute

// sessionExpired reports whether a session created at createdAt is
// past its TTL at now.
func sessionExpired(createdAt, now time.Time) bool {
	return now.After(createdAt.Add(sessionTTL))
}

// SessionRepo persists the ephemeral begin/finish auth sessions and
// runs the finish-steps. A finish-step is one transaction: session
// consumption, credential verification and every row the step creates
// commit together or not at all.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a fresh unconsumed session and returns its id.
// userID is only set for login sessions, displayName only for
// registration sessions.
func (r *SessionRepo) Create(ctx context.Context, kind, userID, displayName, challenge string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_sessions (id, kind, user_id, display_name, challenge) VALUES (?,?,?,?,?)",
		id, kind, nullIfEmpty(userID), nullIfEmpty(displayName), challenge)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishRegistration runs the whole registration finish-step in one
// transaction: the session is consumed, the credential verified
// against its challenge, and the user, its default economy row and the
// bearer token hash are written together. Any failure rolls the step
// back, so a wrong credential leaves the session unconsumed and a
// persistence failure never leaves a user without an economy row.
// Returns the display name carried by the session.
func (r *SessionRepo) FinishRegistration(ctx context.Context, sessionID, userID, tokenHash string, verify func(challenge string) error) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	s, err := consumeSessionTx(ctx, tx, sessionID, model.SessionKindRegister)
	if err != nil {
		return "", err
	}
	if err := verify(s.Challenge); err != nil {
		return "", err
	}
	if err := insertUser(ctx, tx, userID, s.DisplayName); err != nil {
		return "", err
	}
	if err := insertEconomyDefault(ctx, tx, userID); err != nil {
		return "", err
	}
	if err := insertToken(ctx, tx, userID, tokenHash); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return s.DisplayName, nil
}

// FinishLogin consumes a login session and stores a fresh token hash
// in the same transaction. Fails with ErrNotFound when the session's
// user no longer exists. Returns the owning user id.
func (r *SessionRepo) FinishLogin(ctx context.Context, sessionID, tokenHash string, verify func(challenge string) error) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	s, err := consumeSessionTx(ctx, tx, sessionID, model.SessionKindLogin)
	if err != nil {
		return "", err
	}
	if err := verify(s.Challenge); err != nil {
		return "", err
	}
	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? LIMIT 1", s.UserID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if err := insertToken(ctx, tx, s.UserID, tokenHash); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return s.UserID, nil
}

// consumeSessionTx flips a session from created to consumed inside the
// caller's transaction and returns it. The transition is guarded so a
// session can only ever produce one user/token pair: an unknown id, a
// kind mismatch or a prior consumption all fail with ErrInvalidSession,
// and a session past its TTL fails with ErrSessionExpired. The caller
// decides whether the flip commits; rolling back (e.g. on a credential
// mismatch) leaves the session consumable.
func consumeSessionTx(ctx context.Context, tx *sql.Tx, id, kind string) (model.AuthSession, error) {
	var (
		s           model.AuthSession
		userID      sql.NullString
		displayName sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, kind, user_id, display_name, challenge, consumed, created_at
		 FROM auth_sessions WHERE id=? LIMIT 1 FOR UPDATE`,
		id).Scan(&s.ID, &s.Kind, &userID, &displayName, &s.Challenge, &s.Consumed, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AuthSession{}, ErrInvalidSession
	}
	if err != nil {
		return model.AuthSession{}, err
	}
	if s.Kind != kind || s.Consumed {
		return model.AuthSession{}, ErrInvalidSession
	}
	if sessionExpired(s.CreatedAt, time.Now().UTC()) {
		return model.AuthSession{}, ErrSessionExpired
	}
	if _, err := tx.ExecContext(ctx, "UPDATE auth_sessions SET consumed=1 WHERE id=?", id); err != nil {
		return model.AuthSession{}, err
	}
	s.UserID = userID.String
	s.DisplayName = displayName.String
	s.Consumed = true
	return s, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
