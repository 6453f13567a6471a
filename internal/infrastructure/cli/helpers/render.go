package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"golang.org/x/term"

	"github.com/doeshing/guruji/internal/domain"
)

// DefaultWordWrap is the column width used for rendered markdown.
const DefaultWordWrap = 80

// Renderer prints analysis results as terminal markdown.
type Renderer struct {
	out   io.Writer
	theme domain.Theme
	plain bool
	wrap  int
}

// NewRenderer renders with the glamour style matching theme. Output is plain when
// raw is set or out is not a terminal.
func NewRenderer(out io.Writer, theme domain.Theme, raw bool) *Renderer {
	return &Renderer{
		out:   out,
		theme: theme,
		plain: raw || !IsTerminal(out),
		wrap:  DefaultWordWrap,
	}
}

// Render writes markdown to the output.
func (r *Renderer) Render(markdown string) error {
	if r.plain {
		_, err := fmt.Fprintln(r.out, strings.TrimRight(markdown, "\n"))
		return err
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(StyleFor(r.theme)),
		glamour.WithWordWrap(r.wrap),
	)
	if err != nil {
		return fmt.Errorf("failed to build markdown renderer: %w", err)
	}

	rendered, err := tr.Render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = fmt.Fprint(r.out, rendered)
	return err
}

// StyleFor maps the persisted theme to a glamour standard style.
func StyleFor(theme domain.Theme) string {
	if theme == domain.ThemeDark {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
