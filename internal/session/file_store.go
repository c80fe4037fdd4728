package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/fbauth/internal/constants"
)

// FileStore keeps the session in a YAML file.
// Every write replaces the file atomically, so a crash never leaves a half-written token behind.
type FileStore struct {
	// path is the location of the session file.
	path string
}

// record is the on-disk layout of the session file.
type record struct {
	// Token is the current idToken.
	Token string `yaml:"fb_idToken,omitempty"`
	// Theme is the theme preference.
	Theme string `yaml:"fb_theme,omitempty"`
}

// NewFileStore creates a store backed by the file at path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the session file.
func (s *FileStore) Path() string {
	return s.path
}

// GetToken returns the current token and whether one is present.
func (s *FileStore) GetToken() (string, bool, error) {
	rec, err := s.load()
	if err != nil {
		return "", false, err
	}

	return rec.Token, rec.Token != "", nil
}

// SaveToken replaces the current token.
func (s *FileStore) SaveToken(token string) error {
	rec, err := s.load()
	if err != nil {
		return err
	}

	rec.Token = token

	return s.save(rec)
}

// ClearToken removes the current token; clearing an absent token is not an error.
func (s *FileStore) ClearToken() error {
	rec, err := s.load()
	if err != nil {
		return err
	}

	if rec.Token == "" {
		return nil
	}

	rec.Token = ""

	return s.save(rec)
}

// GetTheme returns the persisted theme, ThemeDark when none is stored.
func (s *FileStore) GetTheme() (Theme, error) {
	rec, err := s.load()
	if err != nil {
		return ThemeDark, err
	}

	return normalizeTheme(rec.Theme), nil
}

// SetTheme persists the theme.
func (s *FileStore) SetTheme(theme Theme) error {
	parsed, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}

	rec, err := s.load()
	if err != nil {
		return err
	}

	rec.Theme = string(parsed)

	return s.save(rec)
}

// load reads the session file; a missing file is an empty session.
func (s *FileStore) load() (*record, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &record{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var rec record
	if err = yaml.Unmarshal(content, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &rec, nil
}

// save writes the record to a temporary file next to the session file and renames it into place.
func (s *FileStore) save(rec *record) error {
	content, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(s.path)+".*"+constants.ExtensionTemp)
	if err != nil {
		return fmt.Errorf("failed to create temporary session file: %w", err)
	}

	tempPath := tempFile.Name()

	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tempPath)
	}()

	if err = tempFile.Chmod(constants.PrivateFilePermissions); err != nil {
		tempFile.Close() //nolint:errcheck,gosec // The chmod error is the one worth reporting.

		return fmt.Errorf("failed to set session file permissions: %w", err)
	}

	if _, err = tempFile.Write(content); err != nil {
		tempFile.Close() //nolint:errcheck,gosec // The write error is the one worth reporting.

		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err = tempFile.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err = os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}
