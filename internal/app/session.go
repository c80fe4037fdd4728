package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"

	"github.com/oshokin/fbauth/internal/config"
	"github.com/oshokin/fbauth/internal/logger"
	"github.com/oshokin/fbauth/internal/session"
	"github.com/oshokin/fbauth/internal/version"
)

// tokenClaims is the subset of idToken claims shown by the status command.
type tokenClaims struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ExecuteThemeCommand sets the theme, or flips it when value is empty.
func ExecuteThemeCommand(ctx context.Context, cfg *config.Config, out io.Writer, value string) error {
	store := session.NewFileStore(cfg.SessionFile)

	current, err := store.GetTheme()
	if err != nil {
		logger.Warnf(ctx, "Failed to read theme preference: %v", err)
	}

	next := current.Toggle()

	if value != "" {
		next, err = session.ParseTheme(value)
		if err != nil {
			NewPresenter(out, current, cfg.Color).Failure(err)

			return ErrOperationFailed
		}
	}

	presenter := NewPresenter(out, next, cfg.Color)

	if err = store.SetTheme(next); err != nil {
		presenter.Failure(fmt.Errorf("failed to save theme: %w", err))

		return ErrOperationFailed
	}

	logger.Debugf(ctx, "Theme changed from %s to %s", current, next)
	presenter.Success(fmt.Sprintf("Theme set to %s.", next))

	return nil
}

// ExecuteStatusCommand reports whether a session token is stored and what it says about the account.
// The token signature is not verified; the claims are only displayed.
func ExecuteStatusCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store := session.NewFileStore(cfg.SessionFile)

	return reportStatus(ctx, cfg, store, store.Path(), out)
}

// reportStatus writes the status fields for the session kept in store at path.
func reportStatus(ctx context.Context, cfg *config.Config, store session.Store, path string, out io.Writer) error {
	theme := readTheme(ctx, store)
	presenter := NewPresenter(out, theme, cfg.Color)

	token, ok, err := store.GetToken()
	if err != nil {
		presenter.Failure(fmt.Errorf("failed to read session: %w", err))

		return ErrOperationFailed
	}

	presenter.Field("Session file", path)
	presenter.Field("Theme", string(theme))

	if !ok {
		presenter.Field("Status", "not logged in")

		return nil
	}

	presenter.Field("Status", "logged in")

	var claims tokenClaims
	if _, _, err = jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		logger.Debugf(ctx, "Session token is not a readable JWT: %v", err)

		return nil
	}

	if claims.Email != "" {
		presenter.Field("Email", claims.Email)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	if userID != "" {
		presenter.Field("User ID", userID)
	}

	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time

		label := "Token expires"
		if expiresAt.Before(time.Now()) {
			label = "Token expired"
		}

		presenter.Field(label, humanize.Time(expiresAt))
	}

	return nil
}

// ExecuteInitCommand stores the API key in the configuration file.
func ExecuteInitCommand(ctx context.Context, cfg *config.Config, out io.Writer, apiKey string) error {
	presenter := NewPresenter(out, session.ThemeDark, cfg.Color)

	cfg.APIKey = apiKey
	if err := config.SaveAPIKey(cfg); err != nil {
		logger.Errorf(ctx, "Failed to save API key: %v", err)
		presenter.Failure(err)

		return ErrOperationFailed
	}

	presenter.Success("API key saved.")

	return nil
}

// ExecuteVersionCommand prints build metadata.
func ExecuteVersionCommand(out io.Writer) {
	_, _ = fmt.Fprintln(out, version.Full())
}
