package history_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/guruji/internal/application/history"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/storage"
)

type memoryStore struct {
	data    map[string]string
	failSet bool
	failGet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(key string) (string, bool, error) {
	if m.failGet {
		return "", false, errors.New("read failed")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(key, value string) error {
	if m.failSet {
		return errors.New("quota exceeded")
	}
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryStore) Close() error { return nil }

type sizeRecorder struct{ last int }

func (r *sizeRecorder) ObserveAttempt(string, string, error) {}
func (r *sizeRecorder) ObserveAnalysis(domain.Mode, error)   {}
func (r *sizeRecorder) SetHistorySize(n int)                 { r.last = n }

func newTestService(store *memoryStore) *history.Service {
	counter := 0
	base := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	return history.NewService(store, history.Options{
		Now: func() time.Time { return base.Add(time.Duration(counter) * time.Minute) },
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%03d", counter)
		},
	}, nil)
}

func sampleInput(code string) domain.HistoryEntryInput {
	return domain.HistoryEntryInput{
		Code:       code,
		Language:   domain.LanguagePython,
		Mode:       domain.ModeBugs,
		Difficulty: domain.DifficultyIntermediate,
		Result:     "result for " + code,
	}
}

func TestInsertPrependsAndAssignsIdentity(t *testing.T) {
	svc := newTestService(newMemoryStore())

	first, err := svc.Insert(sampleInput("a"))
	require.NoError(t, err)
	second, err := svc.Insert(sampleInput("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	entries := svc.List()
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].ID)
	assert.Equal(t, "b", entries[0].Code)
	assert.Equal(t, "a", entries[1].Code)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestInsertDefaultsDifficulty(t *testing.T) {
	svc := newTestService(newMemoryStore())
	input := sampleInput("x")
	input.Difficulty = ""

	_, err := svc.Insert(input)
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyIntermediate, svc.List()[0].Difficulty)
}

func TestInsertCapsAtLimit(t *testing.T) {
	svc := newTestService(newMemoryStore())
	for i := 0; i < domain.DefaultHistoryLimit+1; i++ {
		_, err := svc.Insert(sampleInput(fmt.Sprintf("snippet-%d", i)))
		require.NoError(t, err)
	}

	entries := svc.List()
	require.Len(t, entries, domain.DefaultHistoryLimit)
	assert.Equal(t, fmt.Sprintf("snippet-%d", domain.DefaultHistoryLimit), entries[0].Code)
	for _, entry := range entries {
		assert.NotEqual(t, "snippet-0", entry.Code, "oldest entry should have been dropped")
	}
}

func TestInsertHonorsCustomLimit(t *testing.T) {
	svc := history.NewService(newMemoryStore(), history.Options{Limit: 2}, nil)
	for i := 0; i < 5; i++ {
		_, err := svc.Insert(sampleInput(fmt.Sprint(i)))
		require.NoError(t, err)
	}
	assert.Len(t, svc.List(), 2)
}

func TestInsertPersistenceFailure(t *testing.T) {
	store := newMemoryStore()
	store.failSet = true
	svc := newTestService(store)

	id, err := svc.Insert(sampleInput("a"))
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Empty(t, svc.List())
}

func TestListTreatsCorruptDataAsEmpty(t *testing.T) {
	tests := map[string]string{
		"not json":   "{{{",
		"object":     `{"id":"x"}`,
		"bad member": `[1, 2]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			store.data[domain.DefaultHistoryKey] = raw
			svc := newTestService(store)
			assert.Empty(t, svc.List())

			_, err := svc.Insert(sampleInput("fresh"))
			require.NoError(t, err)
			assert.Len(t, svc.List(), 1)
		})
	}
}

func TestListReadFailureIsEmpty(t *testing.T) {
	store := newMemoryStore()
	store.failGet = true
	assert.Empty(t, newTestService(store).List())
}

func TestMutationsAbortOnReadFailure(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	for _, code := range []string{"a", "b", "c"} {
		_, err := svc.Insert(sampleInput(code))
		require.NoError(t, err)
	}
	saved := store.data[domain.DefaultHistoryKey]

	store.failGet = true
	require.Error(t, svc.Delete("no-such-id"))
	id, err := svc.Insert(sampleInput("d"))
	require.Error(t, err)
	assert.Empty(t, id)
	store.failGet = false

	assert.Equal(t, saved, store.data[domain.DefaultHistoryKey])
	assert.Len(t, svc.List(), 3)
}

func TestDeleteUnknownIDLeavesStoreUntouched(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	_, err := svc.Insert(sampleInput("a"))
	require.NoError(t, err)

	store.failSet = true
	require.NoError(t, svc.Delete("missing"))
	assert.Len(t, svc.List(), 1)
}

func TestConcurrentInsertsKeepEveryEntry(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())
	svc := history.NewService(store, history.Options{Limit: 1000}, nil)

	const writers = 100
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := svc.Insert(sampleInput(fmt.Sprintf("snippet %d", n))); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	entries := svc.List()
	require.Len(t, entries, writers)
	seen := map[string]bool{}
	for _, entry := range entries {
		seen[entry.ID] = true
	}
	assert.Len(t, seen, writers)
}

func TestSearch(t *testing.T) {
	svc := newTestService(newMemoryStore())
	_, err := svc.Insert(domain.HistoryEntryInput{Code: "def add(a, b): return a - b", Language: domain.LanguagePython, Mode: domain.ModeBugs})
	require.NoError(t, err)
	_, err = svc.Insert(domain.HistoryEntryInput{Code: "const x = 1;", Language: domain.LanguageJavaScript, Mode: domain.ModeReview})
	require.NoError(t, err)

	assert.Len(t, svc.Search("PYTHON"), 1)
	assert.Len(t, svc.Search("review"), 1)
	assert.Len(t, svc.Search("ADD("), 1)
	assert.Len(t, svc.Search(""), 2)
	assert.Empty(t, svc.Search("rust"))
}

func TestGetDeleteClear(t *testing.T) {
	recorder := &sizeRecorder{}
	svc := newTestService(newMemoryStore()).WithMetrics(recorder)
	id, err := svc.Insert(sampleInput("a"))
	require.NoError(t, err)
	_, err = svc.Insert(sampleInput("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, recorder.last)

	entry, ok := svc.Get(id)
	require.True(t, ok)
	assert.Equal(t, "a", entry.Code)

	require.NoError(t, svc.Delete("missing"))
	assert.Len(t, svc.List(), 2)

	require.NoError(t, svc.Delete(id))
	_, ok = svc.Get(id)
	assert.False(t, ok)
	assert.Len(t, svc.List(), 1)

	require.NoError(t, svc.Clear())
	assert.Empty(t, svc.List())
	assert.Equal(t, 0, recorder.last)
}

func TestExportImportRoundTrip(t *testing.T) {
	source := newTestService(newMemoryStore())
	for _, code := range []string{"one", "two", "three"} {
		_, err := source.Insert(sampleInput(code))
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, source.Export(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {"), "export should be indented with two spaces")

	target := newTestService(newMemoryStore())
	_, err := target.Insert(sampleInput("to be replaced"))
	require.NoError(t, err)

	count, err := target.Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	if diff := cmp.Diff(source.List(), target.List()); diff != "" {
		t.Fatalf("imported history mismatch (-want +got):\n%s", diff)
	}
}

func TestImportDoesNotApplyCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 60; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id":"e%d","timestamp":"2024-01-01T00:00:00Z","code":"c","language":"python","mode":"review","difficulty":"beginner","result":"r"}`, i)
	}
	sb.WriteString("]")

	svc := newTestService(newMemoryStore())
	count, err := svc.Import(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, 60, count)
	assert.Len(t, svc.List(), 60)
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"object root":  `{"id":"a"}`,
		"null":         `null`,
		"not json":     `hello`,
		"scalar items": `[1]`,
		"missing id":   `[{"code":"x"}]`,
		"duplicate id": `[{"id":"a"},{"id":"a"}]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			svc := newTestService(store)
			_, err := svc.Insert(sampleInput("keep me"))
			require.NoError(t, err)

			_, err = svc.Import(strings.NewReader(doc))
			require.ErrorIs(t, err, domain.ErrImportFormat)

			entries := svc.List()
			require.Len(t, entries, 1, "failed import must leave history untouched")
			assert.Equal(t, "keep me", entries[0].Code)
		})
	}
}

func TestImportDefaultsMissingDifficulty(t *testing.T) {
	svc := newTestService(newMemoryStore())
	_, err := svc.Import(strings.NewReader(`[{"id":"legacy","code":"x","mode":"explain","language":"java"}]`))
	require.NoError(t, err)

	entry, ok := svc.Get("legacy")
	require.True(t, ok)
	assert.Equal(t, domain.DifficultyIntermediate, entry.Difficulty)
}

func TestExportFileName(t *testing.T) {
	got := history.ExportFileName(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "code-guruji-history-2024-03-09.json", got)
}

func TestCompareEntryRoundTrip(t *testing.T) {
	svc := newTestService(newMemoryStore())
	req := domain.AnalysisRequest{
		Mode:       domain.ModeCompare,
		Code:       "A",
		SecondCode: "B",
		Language:   domain.LanguageJavaScript,
		Difficulty: domain.DifficultyBeginner,
	}
	id, err := svc.Insert(domain.NewHistoryEntryInput(req, "A is simpler"))
	require.NoError(t, err)

	entry, ok := svc.Get(id)
	require.True(t, ok)
	assert.Equal(t, "A\n\n--- COMPARISON ---\n\nB", entry.Code)
	first, second := domain.SplitComparison(entry.Code)
	assert.Equal(t, "A", first)
	assert.Equal(t, "B", second)
}
