package doctor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/doeshing/guruji/internal/domain"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type stubStore struct{ err error }

func (s stubStore) Get(string) (string, bool, error) { return "", false, s.err }
func (s stubStore) Set(string, string) error         { return nil }
func (s stubStore) Delete(string) error              { return nil }
func (s stubStore) Close() error                     { return nil }

type stubHistory struct{ entries []domain.HistoryEntry }

func (h stubHistory) Insert(domain.HistoryEntryInput) (string, error) { return "", nil }
func (h stubHistory) List() []domain.HistoryEntry                     { return h.entries }
func (h stubHistory) Search(string) []domain.HistoryEntry             { return nil }
func (h stubHistory) Get(string) (domain.HistoryEntry, bool)          { return domain.HistoryEntry{}, false }
func (h stubHistory) Delete(string) error                             { return nil }
func (h stubHistory) Clear() error                                    { return nil }
func (h stubHistory) Export(io.Writer) error                          { return nil }
func (h stubHistory) Import(io.Reader) (int, error)                   { return 0, nil }

type stubConnection struct {
	err   error
	calls int
}

func (c *stubConnection) TestConnection(context.Context) (string, error) {
	c.calls++
	return "hi", c.err
}

func configWithKey(key string) domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		API:                 domain.APISettings{APIKey: key, KeyEnvVar: "GEMINI_API_KEY"},
		Storage:             domain.StorageSettings{Backend: "sqlite", HistoryKey: "h"},
	}
}

func findCheck(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("check %q not found in %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestRunHealthy(t *testing.T) {
	conn := &stubConnection{}
	svc := &Service{
		ConfigProvider: stubConfig{cfg: configWithKey("AIzaSyExampleKey1234")},
		Store:          stubStore{},
		History:        stubHistory{entries: make([]domain.HistoryEntry, 3)},
		Connection:     conn,
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status() != domain.HealthOK {
		t.Fatalf("expected ok report, got %+v", report.Checks)
	}
	if got := findCheck(t, report, "History").Details; got != "3 of 50 entries" {
		t.Fatalf("history details = %q", got)
	}
	if got := findCheck(t, report, "API key").Details; got != "found (AIza…1234)" {
		t.Fatalf("key details = %q", got)
	}
	if conn.calls != 1 {
		t.Fatalf("expected one connectivity call, got %d", conn.calls)
	}
}

func TestRunConnectivityFailureIsOnlyWarning(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubConfig{cfg: configWithKey("AIzaSyExampleKey1234")},
		Connection:     &stubConnection{err: &domain.ProviderError{Category: domain.CategoryNetwork, Err: errors.New("dial")}},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	check := findCheck(t, report, "Connectivity")
	if check.Status != domain.HealthWarn {
		t.Fatalf("connectivity status = %s, want warn", check.Status)
	}
	if report.Status() != domain.HealthWarn {
		t.Fatalf("report status = %s, want warn", report.Status())
	}
}

func TestRunMissingKeySkipsConnectivity(t *testing.T) {
	conn := &stubConnection{}
	svc := &Service{ConfigProvider: stubConfig{cfg: configWithKey("")}, Connection: conn}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findCheck(t, report, "API key").Status != domain.HealthWarn {
		t.Fatal("missing key should warn")
	}
	if conn.calls != 0 {
		t.Fatal("connectivity check should be skipped without a key")
	}
}

func TestRunStorageFailure(t *testing.T) {
	svc := &Service{
		ConfigProvider:   stubConfig{cfg: configWithKey("k")},
		Store:            stubStore{err: errors.New("database is locked")},
		SkipConnectivity: true,
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findCheck(t, report, "Storage").Status != domain.HealthError {
		t.Fatal("unreadable storage should be an error")
	}
	if findCheck(t, report, "Connectivity").Details != "skipped" {
		t.Fatal("connectivity should be skipped")
	}
}

func TestRunConfigFailure(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfig{err: errors.New("yaml: line 3")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Status() != domain.HealthError {
		t.Fatalf("report status = %s", report.Status())
	}
}
