// Package history implements the History Store: a capped, newest-first list of
// past analyses persisted in a key-value store, plus the theme preference.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/pkg/logger"
	"github.com/doeshing/guruji/internal/ports"
)

// Options holds the immutable configuration of a Service.
type Options struct {
	HistoryKey string
	ThemeKey   string
	Limit      int
	Now        func() time.Time
	NewID      func() string
}

// Service is the History Store. mu serialises read-modify-write cycles so
// concurrent analyses cannot overwrite each other's entries.
type Service struct {
	mu         sync.Mutex
	store      ports.KeyValueStore
	historyKey string
	themeKey   string
	limit      int
	now        func() time.Time
	newID      func() string
	logger     ports.Logger
	metrics    ports.MetricsRecorder
}

// NewService builds a Service over store. Zero options fall back to the defaults.
func NewService(store ports.KeyValueStore, opts Options, log ports.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Service{
		store:      store,
		historyKey: opts.HistoryKey,
		themeKey:   opts.ThemeKey,
		limit:      opts.Limit,
		now:        opts.Now,
		newID:      opts.NewID,
		logger:     log,
	}
	if s.historyKey == "" {
		s.historyKey = domain.DefaultHistoryKey
	}
	if s.themeKey == "" {
		s.themeKey = domain.DefaultThemeKey
	}
	if s.limit <= 0 {
		s.limit = domain.DefaultHistoryLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newTimeOrderedID
	}
	return s
}

// WithMetrics attaches a recorder for the history size gauge.
func (s *Service) WithMetrics(m ports.MetricsRecorder) *Service {
	s.metrics = m
	return s
}

// Insert assigns id and timestamp, prepends the entry, trims to the cap and persists.
// On persistence failure it returns "" and the error; the caller decides how loud to be.
func (s *Service) Insert(input domain.HistoryEntryInput) (string, error) {
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyIntermediate
	}
	entry := domain.HistoryEntry{
		ID:         s.newID(),
		Timestamp:  s.now().UTC(),
		Code:       input.Code,
		Language:   input.Language,
		Mode:       input.Mode,
		Difficulty: difficulty,
		Result:     input.Result,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		s.logger.Error("read history before insert", err, map[string]interface{}{"mode": entry.Mode})
		return "", fmt.Errorf("save history: %w", err)
	}
	entries := append([]domain.HistoryEntry{entry}, current...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	if err := s.persist(entries); err != nil {
		s.logger.Error("save history entry", err, map[string]interface{}{"mode": entry.Mode})
		return "", fmt.Errorf("save history: %w", err)
	}
	return entry.ID, nil
}

// List returns all entries newest first. Missing or corrupt data yields an empty list.
func (s *Service) List() []domain.HistoryEntry {
	entries, err := s.load()
	if err != nil {
		s.logger.Warn("read history failed, treating as empty", map[string]interface{}{"error": err.Error()})
		return []domain.HistoryEntry{}
	}
	return entries
}

// load reads the stored collection. A store error is returned as is; a missing
// or corrupt payload counts as empty.
func (s *Service) load() ([]domain.HistoryEntry, error) {
	raw, ok, err := s.store.Get(s.historyKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []domain.HistoryEntry{}, nil
	}
	entries, err := decodeEntries([]byte(raw))
	if err != nil {
		s.logger.Warn("stored history is corrupt, treating as empty", map[string]interface{}{"error": err.Error()})
		return []domain.HistoryEntry{}, nil
	}
	return entries, nil
}

// Search filters List by a case-insensitive term over code, mode and language.
func (s *Service) Search(term string) []domain.HistoryEntry {
	matches := []domain.HistoryEntry{}
	for _, entry := range s.List() {
		if entry.Matches(term) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Get looks up a single entry.
func (s *Service) Get(id string) (domain.HistoryEntry, bool) {
	for _, entry := range s.List() {
		if entry.ID == id {
			return entry, true
		}
	}
	return domain.HistoryEntry{}, false
}

// Delete removes the entry with id. Unknown ids are a successful no-op.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return fmt.Errorf("delete history entry %s: %w", id, err)
	}
	if !containsID(entries, id) {
		return nil
	}
	kept := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if err := s.persist(kept); err != nil {
		return fmt.Errorf("delete history entry %s: %w", id, err)
	}
	return nil
}

// Clear removes the whole collection.
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(s.historyKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.observeSize(0)
	return nil
}

// Export writes the collection as a pretty-printed JSON array.
func (s *Service) Export(w io.Writer) error {
	data, err := json.MarshalIndent(s.List(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportFileName is the suggested name of an export taken at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("code-guruji-history-%s.json", t.Format(domain.ExportDateFormat))
}

// Import replaces the whole collection with the entries read from r and returns
// their count. Nothing is written unless the document validates. The cap is not
// applied to imports.
func (s *Service) Import(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	entries, err := decodeEntries(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(entries); err != nil {
		return 0, fmt.Errorf("save imported history: %w", err)
	}
	return len(entries), nil
}

func (s *Service) persist(entries []domain.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.store.Set(s.historyKey, string(data)); err != nil {
		return err
	}
	s.observeSize(len(entries))
	return nil
}

func containsID(entries []domain.HistoryEntry, id string) bool {
	for _, entry := range entries {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) observeSize(n int) {
	if s.metrics != nil {
		s.metrics.SetHistorySize(n)
	}
}

// decodeEntries is the validating parse shared by storage reads and imports.
func decodeEntries(data []byte) ([]domain.HistoryEntry, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: root value must be an array", domain.ErrImportFormat)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: root value must be an array", domain.ErrImportFormat)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}

	entries := make([]domain.HistoryEntry, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if trimmed := bytes.TrimSpace(item); len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: entry %d is not an object", domain.ErrImportFormat, i)
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", domain.ErrImportFormat, i, err)
		}
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", domain.ErrImportFormat, i)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrImportFormat, entry.ID)
		}
		seen[entry.ID] = struct{}{}
		if entry.Difficulty == "" {
			entry.Difficulty = domain.DifficultyIntermediate
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// newTimeOrderedID returns a UUIDv7; its string form sorts by creation time.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
