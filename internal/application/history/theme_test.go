package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/guruji/internal/domain"
)

func TestThemeDefaultsToLight(t *testing.T) {
	svc := newTestService(newMemoryStore())
	assert.Equal(t, domain.ThemeLight, svc.Theme())

	store := newMemoryStore()
	store.data[domain.DefaultThemeKey] = "purple"
	assert.Equal(t, domain.ThemeLight, newTestService(store).Theme())

	failing := newMemoryStore()
	failing.failGet = true
	assert.Equal(t, domain.ThemeLight, newTestService(failing).Theme())
}

func TestToggleThemePersists(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	assert.Equal(t, domain.ThemeDark, svc.ToggleTheme())
	assert.Equal(t, "dark", store.data[domain.DefaultThemeKey])
	assert.Equal(t, domain.ThemeDark, newTestService(store).Theme())

	assert.Equal(t, domain.ThemeLight, svc.ToggleTheme())
}

func TestSetTheme(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	require.NoError(t, svc.SetTheme(domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, svc.Theme())
	assert.Error(t, svc.SetTheme("blue"))
	assert.Equal(t, domain.ThemeDark, svc.Theme())

	store.failSet = true
	assert.NoError(t, svc.SetTheme(domain.ThemeLight), "persistence failure is only logged")
}
