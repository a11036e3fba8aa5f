package transmem_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/transmem"
	"github.com/ZaguanLabs/transmem/cache"
	"github.com/ZaguanLabs/transmem/provider"
	"github.com/ZaguanLabs/transmem/store"
)

// newTestEngine builds an engine over a fresh temp database and the mock
// provider.
func newTestEngine(t *testing.T, opts ...transmem.EngineOption) (*transmem.Engine, *store.Store, *provider.Mock) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	mock := provider.NewMock()
	return transmem.NewEngine(st, mock, opts...), st, mock
}

// writeDoc materializes document content under dir so the file hash can be
// computed.
func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranslateDocument(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	dir := t.TempDir()

	content := "Hello world. This is a test.\nNew line here."
	path := writeDoc(t, dir, "doc.txt", content)

	got, err := engine.TranslateDocument(context.Background(), path, content, "en-fr", nil)
	if err != nil {
		t.Fatalf("TranslateDocument failed: %v", err)
	}

	want := "Bonjour le monde.\nCeci est un test.\nNouvelle ligne ici."
	if got != want {
		t.Errorf("TranslateDocument = %q, want %q", got, want)
	}

	// One provider call per segment.
	if mock.Calls() != 3 {
		t.Errorf("Provider calls = %d, want 3", mock.Calls())
	}
}

func TestTranslateDocument_UnsupportedPair(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.txt", "Hello world.")

	_, err := engine.TranslateDocument(context.Background(), path, "Hello world.", "en-de", nil)

	var pairErr *transmem.UnsupportedPairError
	if !errors.As(err, &pairErr) {
		t.Fatalf("Expected UnsupportedPairError, got: %v", err)
	}
	if mock.Calls() != 0 {
		t.Errorf("Provider called on unsupported pair: %d calls", mock.Calls())
	}
}

func TestTranslateDocument_MissingFile(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.TranslateDocument(context.Background(),
		filepath.Join(t.TempDir(), "nope.txt"), "Hello world.", "en-fr", nil)
	if err == nil {
		t.Fatal("Expected error for unreadable file")
	}
}

func TestTranslateDocument_DuplicateReturnsStoredTranslation(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	dir := t.TempDir()

	content := "Hello world. This is a test."
	path := writeDoc(t, dir, "doc.txt", content)
	ctx := context.Background()

	first, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil)
	if err != nil {
		t.Fatalf("first translation failed: %v", err)
	}
	calls := mock.Calls()

	// Re-submitting the same content, even under another name, returns the
	// stored translation without any provider traffic.
	copyPath := writeDoc(t, dir, "copy.txt", content)
	second, err := engine.TranslateDocument(ctx, copyPath, content, "en-fr", nil)
	if err != nil {
		t.Fatalf("duplicate translation failed: %v", err)
	}

	if second != first {
		t.Errorf("Duplicate returned %q, want stored %q", second, first)
	}
	if mock.Calls() != calls {
		t.Errorf("Provider calls grew from %d to %d on duplicate", calls, mock.Calls())
	}
}

func TestTranslateDocument_FreshnessWindow(t *testing.T) {
	base := time.Now()
	clock := base
	engine, _, mock := newTestEngine(t, transmem.WithClock(func() time.Time { return clock }))
	dir := t.TempDir()

	content := "Hello world. This is a test."
	path := writeDoc(t, dir, "doc.txt", content)
	ctx := context.Background()

	if _, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil); err != nil {
		t.Fatalf("first translation failed: %v", err)
	}
	if len(engine.History(ctx)) != 1 {
		t.Fatalf("History = %d entries, want 1", len(engine.History(ctx)))
	}

	// Inside the window the stored translation is returned.
	clock = base.Add(23 * time.Hour)
	if _, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil); err != nil {
		t.Fatalf("in-window translation failed: %v", err)
	}
	if got := len(engine.History(ctx)); got != 1 {
		t.Errorf("In-window resubmission created a version: history = %d", got)
	}

	// Past the window the document is translated again and a new version
	// stored. The segments are still reused from memory, so the provider
	// stays idle.
	calls := mock.Calls()
	clock = base.Add(25 * time.Hour)
	if _, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil); err != nil {
		t.Fatalf("post-window translation failed: %v", err)
	}
	if got := len(engine.History(ctx)); got != 2 {
		t.Errorf("History = %d entries after re-translation, want 2", got)
	}
	if mock.Calls() != calls {
		t.Errorf("Provider calls grew from %d to %d despite full segment reuse", calls, mock.Calls())
	}
}

func TestTranslateDocument_FreshnessPerPair(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	dir := t.TempDir()

	content := "Hello world. This is a test."
	path := writeDoc(t, dir, "doc.txt", content)
	ctx := context.Background()

	if _, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil); err != nil {
		t.Fatalf("en-fr translation failed: %v", err)
	}

	// A fresh en-fr translation does not satisfy an en-es request.
	if _, err := engine.TranslateDocument(ctx, path, content, "en-es", nil); err != nil {
		t.Fatalf("en-es translation failed: %v", err)
	}
	if got := len(engine.History(ctx)); got != 2 {
		t.Errorf("History = %d entries, want one per pair", got)
	}
}

func TestTranslateDocument_SegmentReuseAcrossDocuments(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	dir := t.TempDir()
	ctx := context.Background()

	oldContent := "The quick brown fox jumps over the dog."
	oldPath := writeDoc(t, dir, "old.txt", oldContent)
	first, err := engine.TranslateDocument(ctx, oldPath, oldContent, "en-fr", nil)
	if err != nil {
		t.Fatalf("first translation failed: %v", err)
	}
	calls := mock.Calls()

	// A near-identical segment in a new document reuses the stored
	// translation verbatim.
	newContent := "The quick brown fox jumps over the dog!"
	newPath := writeDoc(t, dir, "new.txt", newContent)
	second, err := engine.TranslateDocument(ctx, newPath, newContent, "en-fr", nil)
	if err != nil {
		t.Fatalf("second translation failed: %v", err)
	}

	if second != first {
		t.Errorf("Near-duplicate segment not reused: got %q, want %q", second, first)
	}
	if mock.Calls() != calls {
		t.Errorf("Provider calls grew from %d to %d despite reuse", calls, mock.Calls())
	}
}

func TestTranslateDocument_WithinDocumentReuse(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	dir := t.TempDir()

	// The same sentence twice: the second occurrence reuses the first's
	// translation stored earlier in the same run.
	content := "The quick brown fox jumps over the dog. The quick brown fox jumps over the dog."
	path := writeDoc(t, dir, "doc.txt", content)

	got, err := engine.TranslateDocument(context.Background(), path, content, "en-fr", nil)
	if err != nil {
		t.Fatalf("TranslateDocument failed: %v", err)
	}

	if mock.Calls() != 1 {
		t.Errorf("Provider calls = %d, want 1 for repeated segment", mock.Calls())
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || lines[0] != lines[1] {
		t.Errorf("Repeated segment translated differently: %q", got)
	}
}

func TestTranslateDocument_Progress(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	dir := t.TempDir()

	content := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."
	path := writeDoc(t, dir, "doc.txt", content)

	var percents []int
	_, err := engine.TranslateDocument(context.Background(), path, content, "en-fr",
		transmem.ProgressFunc(func(percent int) { percents = append(percents, percent) }))
	if err != nil {
		t.Fatalf("TranslateDocument failed: %v", err)
	}

	want := []int{25, 50, 75, 100}
	if !reflect.DeepEqual(percents, want) {
		t.Errorf("Progress = %v, want %v", percents, want)
	}
}

func TestTranslateDocument_PreservesUntranslatableSegments(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	dir := t.TempDir()

	// The divider becomes its own segment and passes through untranslated.
	content := "---\nHello world. This is a test."
	path := writeDoc(t, dir, "doc.txt", content)

	got, err := engine.TranslateDocument(context.Background(), path, content, "en-fr", nil)
	if err != nil {
		t.Fatalf("TranslateDocument failed: %v", err)
	}

	if !strings.HasPrefix(got, "---\n") {
		t.Errorf("Symbol-only segment dropped or altered: %q", got)
	}
	if mock.Calls() != 2 {
		t.Errorf("Provider calls = %d, want 2 (symbol segment passes through)", mock.Calls())
	}
}

func TestTranslateDocument_ProviderFailure(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	mock.Err = &transmem.ProviderError{Message: "service unavailable", Retryable: true}
	dir := t.TempDir()

	content := "Hello world. This is a test."
	path := writeDoc(t, dir, "doc.txt", content)
	ctx := context.Background()

	_, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil)
	if err == nil {
		t.Fatal("Expected provider failure to propagate")
	}
	var provErr *transmem.ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("Expected ProviderError in chain, got: %v", err)
	}

	// No document translation was persisted.
	if got := len(engine.History(ctx)); got != 0 {
		t.Errorf("History = %d entries after failed run, want 0", got)
	}
}

func TestTranslateSegment_Passthrough(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	ctx := context.Background()

	for _, input := range []string{"", "   ", "...", "--- !!! ---"} {
		res, err := engine.TranslateSegment(ctx, input, "en-fr")
		if err != nil {
			t.Fatalf("TranslateSegment(%q) failed: %v", input, err)
		}
		if res.Outcome != transmem.OutcomeUnchanged {
			t.Errorf("TranslateSegment(%q) outcome = %q, want unchanged", input, res.Outcome)
		}
		if res.Text != input {
			t.Errorf("TranslateSegment(%q) = %q, want input back", input, res.Text)
		}
	}

	if mock.Calls() != 0 {
		t.Errorf("Provider called for untranslatable input: %d calls", mock.Calls())
	}

	// Passthroughs perform zero store writes.
	if stats := engine.Statistics(ctx); stats != (transmem.Stats{}) {
		t.Errorf("Passthrough wrote to the store: %+v", stats)
	}
}

func TestTranslateSegment_ReuseShortCircuit(t *testing.T) {
	engine, st, mock := newTestEngine(t)
	ctx := context.Background()

	if _, err := st.StoreTranslation(ctx, 0, "fr-en", "Bonjour le monde", []transmem.SegmentPair{
		{Source: "Hello world", Translated: "Bonjour le monde"},
	}); err != nil {
		t.Fatalf("seed translation: %v", err)
	}

	// Near-identical text reuses the stored translation verbatim.
	res, err := engine.TranslateSegment(ctx, "Hello world.", "fr-en")
	if err != nil {
		t.Fatalf("TranslateSegment failed: %v", err)
	}
	if res.Text != "Bonjour le monde" {
		t.Errorf("Text = %q, want stored translation", res.Text)
	}
	if res.Outcome != transmem.OutcomeReused {
		t.Errorf("Outcome = %q, want reused", res.Outcome)
	}
	if mock.Calls() != 0 {
		t.Errorf("Provider invoked despite reuse: %d calls", mock.Calls())
	}
}

func TestTranslateSegment_ReuseCutoffInclusive(t *testing.T) {
	engine, st, mock := newTestEngine(t)
	ctx := context.Background()

	// Seed a segment whose similarity to the query is exactly 0.95.
	stored := "abcdefghijklmnopqrst"
	if _, err := st.StoreTranslation(ctx, 0, "en-fr", "stocké", []transmem.SegmentPair{
		{Source: stored, Translated: "stocké"},
	}); err != nil {
		t.Fatalf("seed translation: %v", err)
	}

	query := "abcdefghijklmnopqrsu"
	if got := transmem.Ratio(query, stored); got != 0.95 {
		t.Fatalf("test fixture drifted: Ratio = %v, want 0.95", got)
	}

	res, err := engine.TranslateSegment(ctx, query, "en-fr")
	if err != nil {
		t.Fatalf("TranslateSegment failed: %v", err)
	}
	if res.Outcome != transmem.OutcomeReused {
		t.Errorf("Outcome = %q, want reused at exactly the cutoff", res.Outcome)
	}
	if res.Text != "stocké" {
		t.Errorf("Text = %q, want stored translation", res.Text)
	}
	if mock.Calls() != 0 {
		t.Errorf("Provider called despite cutoff-equal match: %d calls", mock.Calls())
	}
}

func TestTranslateSegment_BelowCutoffCallsProvider(t *testing.T) {
	engine, st, mock := newTestEngine(t)
	ctx := context.Background()

	// 18 of 19 characters match: 2*18/38 is just under the 0.95 cutoff,
	// though comfortably inside the 0.9 match list.
	stored := "abcdefghijklmnopqrs"
	query := "abcdefghijklmnopqrt"
	if _, err := st.StoreTranslation(ctx, 0, "en-fr", "stocké", []transmem.SegmentPair{
		{Source: stored, Translated: "stocké"},
	}); err != nil {
		t.Fatalf("seed translation: %v", err)
	}
	if got := transmem.Ratio(query, stored); got >= 0.95 || got < 0.9 {
		t.Fatalf("test fixture drifted: Ratio = %v, want just under 0.95", got)
	}

	res, err := engine.TranslateSegment(ctx, query, "en-fr")
	if err != nil {
		t.Fatalf("TranslateSegment failed: %v", err)
	}
	if res.Outcome != transmem.OutcomeTranslated {
		t.Errorf("Outcome = %q, want translated", res.Outcome)
	}
	if mock.Calls() != 1 {
		t.Errorf("Provider calls = %d, want 1", mock.Calls())
	}
}

func TestTranslateSegment_ShortSegmentSkipsLookup(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	ctx := context.Background()

	// Below the minimum lookup length every call goes to the provider,
	// even for identical repeats.
	for i := 0; i < 2; i++ {
		if _, err := engine.TranslateSegment(ctx, "Hi there", "en-fr"); err != nil {
			t.Fatalf("TranslateSegment failed: %v", err)
		}
	}
	if mock.Calls() != 2 {
		t.Errorf("Provider calls = %d, want 2 for short segments", mock.Calls())
	}
}

func TestTranslateSegment_CacheHit(t *testing.T) {
	mem := cache.NewMemory(time.Hour)
	engine, _, mock := newTestEngine(t, transmem.WithCache(mem))
	ctx := context.Background()

	if _, err := engine.TranslateSegment(ctx, "The quick brown fox.", "en-fr"); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if mem.Len() != 1 {
		t.Errorf("Cache entries = %d, want 1", mem.Len())
	}

	res, err := engine.TranslateSegment(ctx, "The quick brown fox.", "en-fr")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if res.Outcome != transmem.OutcomeReused {
		t.Errorf("Outcome = %q, want reused from cache", res.Outcome)
	}
	if mock.Calls() != 1 {
		t.Errorf("Provider calls = %d, want 1", mock.Calls())
	}
}

func TestTranslateText_CleansProviderOutput(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	mock.Translations["Sample sentence for testing."] = "Translation:  Phrase d'exemple  pour le test ."

	res, err := engine.TranslateText(context.Background(), "Sample sentence for testing.", "en-fr")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if res.Text != "Phrase d'exemple pour le test." {
		t.Errorf("Text = %q, want cleaned output", res.Text)
	}
}

func TestTranslateText_DegradesOnProviderFailure(t *testing.T) {
	engine, _, mock := newTestEngine(t)
	mock.Err = &transmem.ProviderError{Message: "service unavailable"}

	input := "Sample sentence for testing."
	res, err := engine.TranslateText(context.Background(), input, "en-fr")
	if err != nil {
		t.Fatalf("Ad-hoc translation should not propagate provider errors, got: %v", err)
	}
	if res.Outcome != transmem.OutcomeUnchanged {
		t.Errorf("Outcome = %q, want unchanged", res.Outcome)
	}
	if res.Text != input {
		t.Errorf("Text = %q, want original input", res.Text)
	}
	if res.Reason == "" {
		t.Error("Expected degrade reason to be recorded")
	}
}

func TestTranslateText_UnsupportedPairStillFails(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.TranslateText(context.Background(), "Hello world.", "en-de")
	var pairErr *transmem.UnsupportedPairError
	if !errors.As(err, &pairErr) {
		t.Fatalf("Expected UnsupportedPairError, got: %v", err)
	}
}

func TestTranslateText_LongInputSplits(t *testing.T) {
	engine, _, mock := newTestEngine(t)

	// Over the ad-hoc length limit the text is segmented; the repeated
	// sentence is translated once and reused for the rest.
	long := strings.TrimSpace(strings.Repeat("This is sentence number one. ", 25))
	res, err := engine.TranslateText(context.Background(), long, "en-fr")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	lines := strings.Split(res.Text, "\n")
	if len(lines) != 25 {
		t.Fatalf("Split output has %d lines, want 25", len(lines))
	}
	for _, line := range lines[1:] {
		if line != lines[0] {
			t.Fatalf("Repeated sentence translated inconsistently: %q vs %q", line, lines[0])
		}
	}
	if mock.Calls() != 1 {
		t.Errorf("Provider calls = %d, want 1", mock.Calls())
	}
}

func TestEngine_Statistics(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	dir := t.TempDir()
	ctx := context.Background()

	content := "Hello world. This is a test."
	path := writeDoc(t, dir, "doc.txt", content)
	if _, err := engine.TranslateDocument(ctx, path, content, "en-fr", nil); err != nil {
		t.Fatalf("TranslateDocument failed: %v", err)
	}

	stats := engine.Statistics(ctx)
	if stats.TotalDocuments != 1 {
		t.Errorf("TotalDocuments = %d, want 1", stats.TotalDocuments)
	}
	// Two per-segment rows plus the document-level row.
	if stats.TotalTranslations != 3 {
		t.Errorf("TotalTranslations = %d, want 3", stats.TotalTranslations)
	}
	if stats.ReuseRate <= 0 {
		t.Errorf("ReuseRate = %v, want > 0 after segment re-storage", stats.ReuseRate)
	}
}

func TestTranslateDocuments_Parallel(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	dir := t.TempDir()

	contents := []string{
		"Hello world.",
		"This is a test.",
		"New line here.",
	}
	want := []string{
		"Bonjour le monde.",
		"Ceci est un test.",
		"Nouvelle ligne ici.",
	}

	jobs := make([]transmem.DocumentJob, len(contents))
	for i, c := range contents {
		path := writeDoc(t, dir, fmt.Sprintf("doc%d.txt", i), c)
		jobs[i] = transmem.DocumentJob{Path: path, Content: c, Pair: "en-fr"}
	}

	results := engine.TranslateDocuments(context.Background(), jobs, 2)

	if len(results) != len(jobs) {
		t.Fatalf("Results = %d, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Errorf("Job %d failed: %v", i, res.Err)
			continue
		}
		if res.Job.Path != jobs[i].Path {
			t.Errorf("Result %d out of order: %q", i, res.Job.Path)
		}
		if res.Text != want[i] {
			t.Errorf("Job %d text = %q, want %q", i, res.Text, want[i])
		}
	}
}

func TestTranslateDocuments_Empty(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	if results := engine.TranslateDocuments(context.Background(), nil, 4); len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}
