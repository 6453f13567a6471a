package helpers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/doeshing/guruji/internal/domain"
)

// StdinArg selects standard input as the source.
const StdinArg = "-"

// ReadSource reads code from path, or from stdin when path is empty or "-".
func ReadSource(path string, stdin io.Reader) (string, error) {
	if path == "" || path == StdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// ResolveLanguage prefers the explicit flag, then the file extension. It returns ""
// when neither is known so the analysis default applies.
func ResolveLanguage(flag string, paths ...string) domain.Language {
	if flag != "" {
		return domain.Language(flag)
	}
	for _, path := range paths {
		if path == "" || path == StdinArg {
			continue
		}
		if lang, ok := domain.LanguageFromExtension(filepath.Ext(path)); ok {
			return lang
		}
	}
	return ""
}
