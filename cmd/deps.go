// ABOUTME: Builds the client, session, repositories and guard for a command run
// ABOUTME: Also maps failures to exit codes shared by every command

package cmd

import (
	"errors"
	"io"
	"strings"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/client"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/config"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/guard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/repository"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/session"
)

// Exit codes
const (
	exitOK               = 0
	exitError            = 1
	exitUsage            = 2
	exitNotAuthenticated = 3
)

const loginHint = "not logged in, run 'siria-admin login' first"

type deps struct {
	cfg       *config.Config
	format    output.Format
	session   *session.Manager
	products  *repository.ProductRepository
	auth      *repository.AuthRepository
	refresher *session.Refresher
	guard     *guard.Guard
}

func newDeps() (*deps, error) {
	format, err := OutputFormat()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(GetAPIURL(), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store session.Storage = session.NewFileStorage(cfg.ConfigDir)
	if ephemeral || cfg.ConfigDir == "" {
		store = session.NewMemoryStorage()
	}
	sess := session.NewManager(store)

	// Refresh calls are anonymous and must not recurse into the refresh handler.
	anon := client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout))
	refresher := session.NewRefresher(sess, repository.NewAuthRepository(anon))

	opts := []client.Option{
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithTokenSource(sess),
	}
	if cfg.AutoRefresh {
		opts = append(opts, client.WithUnauthorizedHandler(refresher.RenewToken))
	}
	api := client.New(cfg.APIURL, opts...)

	policy := repository.ShapePolicyEmpty
	if cfg.StrictShapes {
		policy = repository.ShapePolicyStrict
	}

	return &deps{
		cfg:       cfg,
		format:    format,
		session:   sess,
		products:  repository.NewProductRepository(api, repository.WithShapePolicy(policy)),
		auth:      repository.NewAuthRepository(api),
		refresher: refresher,
		guard:     guard.New(sess),
	}, nil
}

// setup builds deps, reporting configuration problems as usage errors.
func setup(w io.Writer) (*deps, int) {
	d, err := newDeps()
	if err != nil {
		f := output.Text
		if jsonOutput {
			f = output.JSON
		}
		output.WriteError(w, f, err.Error(), exitUsage)
		return nil, exitUsage
	}
	return d, exitOK
}

// requireAuth runs the guard for a protected command.
func (d *deps) requireAuth(w io.Writer) (guard.Decision, int) {
	decision := d.guard.Check()
	if !decision.Allowed {
		output.WriteError(w, d.format, loginHint, exitNotAuthenticated)
		return decision, exitNotAuthenticated
	}
	return decision, exitOK
}

// fail prints err and returns its exit code.
func (d *deps) fail(w io.Writer, err error) int {
	code := exitCode(err)
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		msg = loginHint
	case code == exitNotAuthenticated:
		msg += " (try 'siria-admin refresh' or 'siria-admin login')"
	}
	output.WriteError(w, d.format, msg, code)
	return code
}

// exitCode maps a failure to the documented exit codes
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case domain.ReauthRequired(err):
		return exitNotAuthenticated
	case errors.Is(err, domain.ErrValidation):
		return exitUsage
	default:
		return exitError
	}
}
