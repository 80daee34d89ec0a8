// Package cli implements the interactive terminal client: a REPL whose
// available commands depend on the authenticated role, mirroring the
// role-specific dashboards of the web front end.
package cli

import (
	"bufio"
	"context"
	"os"

	"dropwatch/internal/client/aggregate"
	"dropwatch/internal/client/api"
	"dropwatch/internal/client/config"
	"dropwatch/internal/client/session"
	"dropwatch/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger

	api     *api.Client
	session *session.Manager
	store   *session.Store
	tiers   aggregate.TierSet

	reader *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := session.OpenStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		log:    log,
		store:  store,
		tiers:  aggregate.DefaultTiers,
		reader: bufio.NewReader(os.Stdin),
	}

	a.api = api.New(cfg.ServerBaseURL, api.WithAuthExpiredHook(a.onAuthExpired))
	a.session = session.NewManager(session.Config{
		AllowedEmailDomain: cfg.AllowedEmailDomain,
		FallbackRoute:      session.RouteTarget(cfg.FallbackRoute),
	}, a.api, store)

	// Restoring must happen before any route decision.
	if sess := a.session.RestoreSession(); sess != nil {
		a.api.SetToken(sess.Token)
	}

	return a, nil
}

// onAuthExpired runs when the backend rejects the current token on any call:
// the session is torn down so the next prompt is the login view again.
func (a *App) onAuthExpired() {
	a.session.Logout()
	a.api.ClearToken()
	printlnFn("Session expired, please log in again.")
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) LoggedIn() bool {
	return a.session.Current() != nil
}

// Route reports which dashboard the current identity lands on.
func (a *App) Route() session.RouteTarget {
	sess := a.session.Current()
	if sess == nil {
		return session.RouteLogin
	}
	return a.session.RouteForRole(sess.Identity.Role)
}

func (a *App) status() string {
	sess := a.session.Current()
	if sess == nil {
		return ""
	}
	return sess.Identity.Email + " [" + sess.Identity.Role + "]"
}

// requestCtx bounds one API call with the configured timeout.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
