package history

import (
	"fmt"

	"github.com/doeshing/guruji/internal/domain"
)

// Theme returns the stored preference, or light when absent or unreadable.
func (s *Service) Theme() domain.Theme {
	raw, ok, err := s.store.Get(s.themeKey)
	if err != nil {
		s.logger.Warn("read theme failed", map[string]interface{}{"error": err.Error()})
		return domain.ThemeLight
	}
	if !ok {
		return domain.ThemeLight
	}
	theme, valid := domain.ParseTheme(raw)
	if !valid {
		return domain.ThemeLight
	}
	return theme
}

// SetTheme stores theme. An invalid value is rejected; a write failure is only logged.
func (s *Service) SetTheme(theme domain.Theme) error {
	parsed, ok := domain.ParseTheme(string(theme))
	if !ok {
		return fmt.Errorf("invalid theme %q (use %s or %s)", theme, domain.ThemeLight, domain.ThemeDark)
	}
	if err := s.store.Set(s.themeKey, string(parsed)); err != nil {
		s.logger.Warn("save theme failed", map[string]interface{}{"theme": string(parsed), "error": err.Error()})
	}
	return nil
}

// ToggleTheme flips the stored preference and returns the new value.
func (s *Service) ToggleTheme() domain.Theme {
	next := s.Theme().Toggle()
	_ = s.SetTheme(next)
	return next
}
