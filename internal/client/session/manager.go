package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dropwatch/internal/common"
)

// State is the position of the login sub-flow state machine.
type State int

const (
	StateStart State = iota
	StateAwaitingOTP
	StateAwaitingPassword
	StateLoggedIn
)

// ErrStaleResponse marks a network completion that arrived after the user
// had already left the state that issued it. Last state wins: the result is
// dropped instead of reactivating the abandoned state.
var ErrStaleResponse = errors.New("stale response ignored")

// AuthAPI is the slice of the backend the manager needs. Implemented by
// apiclient.Client.
type AuthAPI interface {
	StartOTPLogin(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	LoginPassword(ctx context.Context, email, password string) (string, error)
}

// Config carries the deployment-specific knobs of the login flow.
type Config struct {
	// AllowedEmailDomain is the suffix an email must carry to be accepted
	// for registration or OTP login, e.g. "@gmail.com".
	AllowedEmailDomain string
	// FallbackRoute receives identities whose role is absent or
	// unrecognized. Source revisions disagreed on this behavior, so it is
	// configuration; the default sends the user back to the login view.
	FallbackRoute RouteTarget
}

func (c *Config) applyDefaults() {
	if c.AllowedEmailDomain == "" {
		c.AllowedEmailDomain = "@gmail.com"
	}
	if c.FallbackRoute == "" {
		c.FallbackRoute = RouteLogin
	}
}

// Manager owns the authentication state machine and the persisted session.
// All methods are safe for concurrent use; network calls run outside the
// lock and their results are dropped if the state changed in the meantime.
type Manager struct {
	cfg   Config
	api   AuthAPI
	store *Store

	mu      sync.Mutex
	state   State
	gen     uint64 // bumped on every explicit state transition
	session *Session
}

func NewManager(cfg Config, api AuthAPI, store *Store) *Manager {
	cfg.applyDefaults()
	return &Manager{cfg: cfg, api: api, store: store}
}

// State returns the current machine state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the live session, or nil when logged out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// ValidateEmail reports whether the email belongs to the allowed domain.
// Pure predicate, no side effects.
func (m *Manager) ValidateEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), m.cfg.AllowedEmailDomain)
}

// RequestOTP asks the backend to dispatch a one-time passcode to email and,
// on success, moves the machine to StateAwaitingOTP. The OTP delivery itself
// is out-of-band and is not re-verified here. Failures surface the server's
// message and leave the state unchanged; there is no retry.
func (m *Manager) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if !m.ValidateEmail(email) {
		return fmt.Errorf("%w: only %s accounts are allowed", common.ErrValidation, m.cfg.AllowedEmailDomain)
	}

	gen := m.snapshotGen()
	if err := m.api.StartOTPLogin(ctx, email); err != nil {
		return err
	}
	return m.transition(gen, StateAwaitingOTP)
}

// BeginPassword moves the machine to StateAwaitingPassword. Purely local:
// choosing the password method involves no network call.
func (m *Manager) BeginPassword() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = StateAwaitingPassword
}

// Back returns to StateStart from either awaiting state. In-flight network
// calls are not cancelled, but their responses will be ignored.
func (m *Manager) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAwaitingOTP || m.state == StateAwaitingPassword {
		m.gen++
		m.state = StateStart
	}
}

// VerifyOTP submits the passcode. On failure the machine stays in
// StateAwaitingOTP so the user may retry; no client-side lockout is
// enforced. On success the returned token completes the login.
func (m *Manager) VerifyOTP(ctx context.Context, email, otp string) (*Session, error) {
	if m.State() != StateAwaitingOTP {
		return nil, fmt.Errorf("%w: no OTP was requested", common.ErrValidation)
	}
	if otp == "" {
		return nil, fmt.Errorf("%w: OTP is required", common.ErrValidation)
	}

	gen := m.snapshotGen()
	token, err := m.api.VerifyOTP(ctx, email, otp)
	if err != nil {
		return nil, err
	}
	return m.completeLogin(gen, token)
}

// LoginWithPassword authenticates with email and password. Same success and
// failure handling as VerifyOTP.
func (m *Manager) LoginWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	gen := m.snapshotGen()
	token, err := m.api.LoginPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.completeLogin(gen, token)
}

// CompleteLogin decodes the token into an identity, persists the session
// atomically, and moves the machine to StateLoggedIn. A token that yields no
// usable identity is fatal to the attempt: no session is created.
func (m *Manager) CompleteLogin(token string) (*Session, error) {
	return m.completeLogin(m.snapshotGen(), token)
}

func (m *Manager) completeLogin(gen uint64, token string) (*Session, error) {
	identity, err := DecodeIdentity(token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return nil, ErrStaleResponse
	}

	if m.store != nil {
		raw, err := json.Marshal(identity)
		if err != nil {
			return nil, fmt.Errorf("encoding identity: %w", err)
		}
		if err := m.store.Save(token, raw); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
	}

	m.gen++
	m.state = StateLoggedIn
	m.session = &Session{Token: token, Identity: identity}
	return m.session, nil
}

// RestoreSession re-reads a previously persisted session at startup. It
// returns nil unless both token and identity are present and the token still
// decodes; any partial leftovers are cleared so the all-or-nothing invariant
// holds for the next run.
func (m *Manager) RestoreSession() *Session {
	if m.store == nil {
		return nil
	}

	token, errT := m.store.LoadToken()
	raw, errU := m.store.LoadUser()
	if errT != nil || errU != nil {
		_ = m.store.Clear()
		return nil
	}

	var identity Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		_ = m.store.Clear()
		return nil
	}
	if _, err := DecodeIdentity(token); err != nil {
		_ = m.store.Clear()
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = StateLoggedIn
	m.session = &Session{Token: token, Identity: identity}
	return m.session
}

// Logout clears the persisted and in-memory session. Idempotent: logging out
// without a session is a no-op, not an error.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store != nil {
		_ = m.store.Clear()
	}
	m.gen++
	m.state = StateStart
	m.session = nil
}

// RouteForRole maps a normalized role to its dashboard. Unrecognized roles
// go to the configured fallback instead of crashing routing.
func (m *Manager) RouteForRole(role string) RouteTarget {
	switch role {
	case RoleStudent:
		return RouteStudentDashboard
	case RoleTeacher:
		return RouteTeacherDashboard
	case RoleAdmin:
		return RouteAdminDashboard
	default:
		return m.cfg.FallbackRoute
	}
}

func (m *Manager) snapshotGen() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

func (m *Manager) transition(gen uint64, next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return ErrStaleResponse
	}
	m.gen++
	m.state = next
	return nil
}
