package session

// MemoryStore keeps the session in memory, mirroring the two keys of the session file.
// The zero value is an empty store ready to use.
type MemoryStore struct {
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// GetToken returns the current token and whether one is present.
func (s *MemoryStore) GetToken() (string, bool, error) {
	token, ok := s.values[tokenKey]

	return token, ok && token != "", nil
}

// SaveToken replaces the current token.
func (s *MemoryStore) SaveToken(token string) error {
	s.set(tokenKey, token)

	return nil
}

// ClearToken removes the current token.
func (s *MemoryStore) ClearToken() error {
	delete(s.values, tokenKey)

	return nil
}

// GetTheme returns the stored theme, ThemeDark when none is stored.
func (s *MemoryStore) GetTheme() (Theme, error) {
	return normalizeTheme(s.values[themeKey]), nil
}

// SetTheme stores the theme.
func (s *MemoryStore) SetTheme(theme Theme) error {
	parsed, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}

	s.set(themeKey, string(parsed))

	return nil
}

func (s *MemoryStore) set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}

	s.values[key] = value
}
