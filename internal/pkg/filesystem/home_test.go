package filesystem

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := map[string]string{
		"":                  "",
		"/abs/path":         "/abs/path",
		"~":                 "/home/tester",
		"~/.guruji/kv.db":   filepath.Join("/home/tester", ".guruji", "kv.db"),
		"relative/../local": "local",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
