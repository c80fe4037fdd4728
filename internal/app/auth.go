package app

import (
	"context"
	"io"

	"github.com/oshokin/fbauth/internal/client/identity"
	"github.com/oshokin/fbauth/internal/config"
	"github.com/oshokin/fbauth/internal/logger"
	"github.com/oshokin/fbauth/internal/service/auth"
	"github.com/oshokin/fbauth/internal/session"
)

// workflow bundles what every auth command needs.
type workflow struct {
	service   auth.Service
	presenter *Presenter
}

// newWorkflow builds the identity client, the session store and the presenter from cfg.
func newWorkflow(ctx context.Context, cfg *config.Config, out io.Writer) *workflow {
	identityClient, err := identity.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize identity client: %v", err)
	}

	store := session.NewFileStore(cfg.SessionFile)

	return &workflow{
		service:   auth.NewService(identityClient, store),
		presenter: NewPresenter(out, readTheme(ctx, store), cfg.Color),
	}
}

// readTheme returns the persisted theme, falling back to the store's default when it cannot be read.
func readTheme(ctx context.Context, store session.Store) session.Theme {
	theme, err := store.GetTheme()
	if err != nil {
		logger.Warnf(ctx, "Failed to read theme preference, using %s: %v", theme, err)
	}

	return theme
}

// ExecuteRegisterCommand creates an account and stores its session token.
func ExecuteRegisterCommand(ctx context.Context, cfg *config.Config, out io.Writer, email, password string) error {
	return newWorkflow(ctx, cfg, out).register(ctx, email, password)
}

// ExecuteLoginCommand signs in and stores the session token.
func ExecuteLoginCommand(ctx context.Context, cfg *config.Config, out io.Writer, email, password string) error {
	return newWorkflow(ctx, cfg, out).login(ctx, email, password)
}

// ExecuteProfileCommand fetches the account behind the stored session token.
func ExecuteProfileCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	return newWorkflow(ctx, cfg, out).profile(ctx)
}

// ExecuteLogoutCommand discards the stored session token.
func ExecuteLogoutCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	return newWorkflow(ctx, cfg, out).logout(ctx)
}

func (w *workflow) register(ctx context.Context, email, password string) error {
	result := w.presenter.Run("Registering", func() auth.Result {
		return w.service.Register(ctx, email, password)
	})

	return outcome(w.presenter.Render(result, messageRegistered))
}

func (w *workflow) login(ctx context.Context, email, password string) error {
	result := w.presenter.Run("Logging in", func() auth.Result {
		return w.service.Login(ctx, email, password)
	})

	return outcome(w.presenter.Render(result, messageLoggedIn))
}

func (w *workflow) profile(ctx context.Context) error {
	result := w.presenter.Run("Fetching profile", func() auth.Result {
		return w.service.FetchProfile(ctx)
	})

	return outcome(w.presenter.RenderProfile(result))
}

func (w *workflow) logout(ctx context.Context) error {
	return outcome(w.presenter.Render(w.service.Logout(ctx), messageLoggedOut))
}

func outcome(ok bool) error {
	if !ok {
		return ErrOperationFailed
	}

	return nil
}
