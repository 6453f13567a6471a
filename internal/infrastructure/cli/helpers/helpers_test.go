package helpers

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/guruji/internal/domain"
)

func TestReadSource(t *testing.T) {
	code, err := ReadSource("", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", code)

	code, err = ReadSource(StdinArg, strings.NewReader("dash"))
	require.NoError(t, err)
	assert.Equal(t, "dash", code)

	path := filepath.Join(t.TempDir(), "main.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int main() {}"), 0o600))
	code, err = ReadSource(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "int main() {}", code)

	_, err = ReadSource(filepath.Join(t.TempDir(), "missing.js"), nil)
	assert.Error(t, err)
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		paths []string
		want  domain.Language
	}{
		{"flag wins", "java", []string{"main.py"}, domain.LanguageJava},
		{"extension", "", []string{"main.py"}, domain.LanguagePython},
		{"first known extension", "", []string{"notes.txt", "b.cc"}, domain.LanguageCPP},
		{"stdin", "", []string{StdinArg}, ""},
		{"unknown", "", []string{"README"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLanguage(tt.flag, tt.paths...))
		})
	}
}

func TestRendererPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, domain.ThemeDark, false)

	require.NoError(t, r.Render("# Title\n\n**bold**\n\n"))
	assert.Equal(t, "# Title\n\n**bold**\n", buf.String())
}

func TestRendererStyled(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{out: &buf, theme: domain.ThemeLight, wrap: DefaultWordWrap}

	require.NoError(t, r.Render("guruji"))
	assert.Contains(t, buf.String(), "guruji")
	assert.NotEqual(t, "guruji\n", buf.String())
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, styles.DarkStyle, StyleFor(domain.ThemeDark))
	assert.Equal(t, styles.LightStyle, StyleFor(domain.ThemeLight))
	assert.Equal(t, styles.LightStyle, StyleFor(""))
}

func TestSpinnerIsInertOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "working")

	s.Start()
	s.Stop()
	s.Stop()
	assert.Empty(t, buf.String())
}

func TestPromptForConfirmation(t *testing.T) {
	var out bytes.Buffer

	assert.True(t, PromptForConfirmation(&out, bufio.NewReader(strings.NewReader("yes\n")), "Proceed?"))
	assert.False(t, PromptForConfirmation(&out, bufio.NewReader(strings.NewReader("\n")), "Proceed?"))
	assert.True(t, PromptForYesNo(&out, bufio.NewReader(strings.NewReader("")), "Proceed?", true))
	assert.Contains(t, out.String(), "Proceed? [y/N]: ")
}

func TestNestedMapHelpers(t *testing.T) {
	root := map[string]interface{}{
		"api": map[string]interface{}{"timeout": 60},
	}

	value, ok := TraverseNestedMap(root, []string{"api", "timeout"})
	require.True(t, ok)
	assert.Equal(t, 60, value)

	_, ok = TraverseNestedMap(root, []string{"api", "missing"})
	assert.False(t, ok)

	require.True(t, SetNestedMapValue(root, []string{"server", "addr"}, ParseYAMLValue("0.0.0.0:9000")))
	value, ok = TraverseNestedMap(root, []string{"server", "addr"})
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:9000", value)

	assert.False(t, SetNestedMapValue(root, nil, 1))
	assert.Equal(t, []interface{}{"a", "b"}, ParseYAMLValue("[a, b]"))
}

func TestConfigMapRoundTripKeepsKey(t *testing.T) {
	cfg := domain.Config{
		API: domain.APISettings{PrimaryModel: "gemini-1.5-flash", APIKey: "secret"},
	}

	cfgMap, err := ConfigToMap(cfg)
	require.NoError(t, err)
	require.True(t, SetNestedMapValue(cfgMap, []string{"api", "primary_model"}, "gemini-1.5-pro"))

	updated, err := MapToConfig(cfgMap, cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", updated.API.PrimaryModel)
	assert.Equal(t, "secret", updated.API.APIKey)
}
