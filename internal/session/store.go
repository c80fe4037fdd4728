package session

//go:generate $MOCKGEN -source=store.go -destination=mocks/store_mock.go

import (
	"errors"
	"fmt"
	"strings"
)

// Theme is the display theme preference.
type Theme string

const (
	// ThemeDark is the default theme.
	ThemeDark Theme = "dark"
	// ThemeLight is the alternative theme.
	ThemeLight Theme = "light"
)

const (
	// tokenKey is the session file key holding the idToken.
	tokenKey = "fb_idToken"
	// themeKey is the session file key holding the theme preference.
	themeKey = "fb_theme"
)

// ErrUnknownTheme indicates a theme name other than dark or light.
var ErrUnknownTheme = errors.New("unknown theme")

// Store persists the session token and the theme preference.
// Implementations are not safe for concurrent use.
type Store interface {
	// GetToken returns the current token and whether one is present.
	GetToken() (string, bool, error)
	// SaveToken replaces the current token.
	SaveToken(token string) error
	// ClearToken removes the current token; clearing an absent token is not an error.
	ClearToken() error
	// GetTheme returns the persisted theme, ThemeDark when none is stored.
	GetTheme() (Theme, error)
	// SetTheme persists the theme.
	SetTheme(theme Theme) error
}

// ParseTheme converts a case-insensitive theme name into a Theme.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("%w: expected 'dark' or 'light', got '%s'", ErrUnknownTheme, value)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}

	return ThemeLight
}

// normalizeTheme maps anything unrecognised to the default.
func normalizeTheme(value string) Theme {
	theme, err := ParseTheme(value)
	if err != nil {
		return ThemeDark
	}

	return theme
}
