package transmem

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Default policy values. All of them are tunable per engine through the
// corresponding options; the defaults match the behavior the translation
// memory was tuned against.
const (
	// DefaultReuseCutoff is the similarity at which a stored segment is
	// returned verbatim instead of invoking the provider. The cutoff is
	// inclusive: a score of exactly DefaultReuseCutoff triggers reuse.
	DefaultReuseCutoff = 0.95

	// DefaultMatchThreshold is the minimum similarity for a stored segment
	// to appear in a match list at all.
	DefaultMatchThreshold = 0.9

	// DefaultDocumentThreshold is the minimum similarity for a stored
	// document to count as a near-duplicate.
	DefaultDocumentThreshold = 0.8

	// DefaultFreshness is how recent an existing translation must be for a
	// re-submitted document to reuse it without re-translating.
	DefaultFreshness = 24 * time.Hour

	// DefaultMinLookupLength is the segment length (in runes) below which
	// the similarity lookup is skipped; very short segments are cheaper to
	// translate than to match.
	DefaultMinLookupLength = 10

	// maxAdhocLength is the ad-hoc text length (in runes) above which
	// TranslateText splits the input into segments.
	maxAdhocLength = 512
)

// Provider is the external translation capability. It may be slow and may
// fail; the engine invokes it only when no sufficiently similar segment is
// stored.
type Provider interface {
	Translate(ctx context.Context, text, pair string) (string, error)
}

// SegmentCache is an optional exact-hash cache consulted before the store's
// similarity search. Implementations live in the cache subpackage.
type SegmentCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// DocumentInput describes a document being registered.
type DocumentInput struct {
	FileName    string
	FileHash    string
	ContentHash string
	Location    string
	Kind        string
	Metadata    map[string]string
}

// TranslationStore is the persistence contract the engine drives. The store
// subpackage provides the SQLite implementation.
//
// Mutating operations are transactional and return errors; read-only
// aggregate operations degrade to empty results on failure, so callers
// treat an empty result as "no matches found", never as fatal.
type TranslationStore interface {
	RegisterDocument(ctx context.Context, doc DocumentInput) (id int64, existed bool, err error)
	FindSimilarDocuments(ctx context.Context, content string, threshold float64) []DocumentMatch
	FindMatchingSegments(ctx context.Context, segment, pair string, threshold float64) []SegmentMatch
	StoreTranslation(ctx context.Context, documentID int64, pair, content string, segments []SegmentPair) (int64, error)
	DocumentHistory(ctx context.Context, documentID int64) []Translation
	SetDocumentStatus(ctx context.Context, documentID int64, status DocumentStatus) error
	Statistics(ctx context.Context) Stats
	History(ctx context.Context) []HistoryEntry
	Close() error
}

// Engine is the reuse orchestrator: it decides per segment whether to reuse
// a stored translation or invoke the provider, and writes results back
// through the store.
type Engine struct {
	store    TranslationStore
	provider Provider
	cache    SegmentCache
	logger   *slog.Logger

	reuseCutoff    float64
	matchThreshold float64
	docThreshold   float64
	freshness      time.Duration
	minLookup      int
	now            func() time.Time
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithCache sets an exact-hash segment cache consulted before the store.
func WithCache(cache SegmentCache) EngineOption {
	return func(e *Engine) { e.cache = cache }
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReuseCutoff overrides the inclusive similarity cutoff for verbatim
// segment reuse.
func WithReuseCutoff(cutoff float64) EngineOption {
	return func(e *Engine) { e.reuseCutoff = cutoff }
}

// WithMatchThreshold overrides the minimum similarity for segment matches.
func WithMatchThreshold(threshold float64) EngineOption {
	return func(e *Engine) { e.matchThreshold = threshold }
}

// WithDocumentThreshold overrides the minimum similarity for document
// near-duplicate detection.
func WithDocumentThreshold(threshold float64) EngineOption {
	return func(e *Engine) { e.docThreshold = threshold }
}

// WithFreshness overrides the window within which an existing translation
// of a re-submitted document is reused.
func WithFreshness(window time.Duration) EngineOption {
	return func(e *Engine) { e.freshness = window }
}

// WithMinLookupLength overrides the segment length below which the
// similarity lookup is skipped.
func WithMinLookupLength(runes int) EngineOption {
	return func(e *Engine) { e.minLookup = runes }
}

// WithClock overrides the engine's time source. Tests use this to exercise
// the freshness window without sleeping.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine over the given store and provider.
func NewEngine(store TranslationStore, provider Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		store:          store,
		provider:       provider,
		logger:         slog.Default(),
		reuseCutoff:    DefaultReuseCutoff,
		matchThreshold: DefaultMatchThreshold,
		docThreshold:   DefaultDocumentThreshold,
		freshness:      DefaultFreshness,
		minLookup:      DefaultMinLookupLength,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TranslateSegment translates a single segment, reusing a stored translation
// when one is similar enough. Empty or symbol-only input is returned
// unchanged without touching the store. Provider and store failures
// propagate; use TranslateText for the degrading ad-hoc entry point.
func (e *Engine) TranslateSegment(ctx context.Context, text, pair string) (SegmentResult, error) {
	if err := ValidatePair(pair); err != nil {
		return SegmentResult{}, err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !HasTranslatableText(trimmed) {
		return SegmentResult{Text: text, Outcome: OutcomeUnchanged, Reason: "no translatable text"}, nil
	}
	return e.translateSegment(ctx, trimmed, pair)
}

// TranslateText is the ad-hoc entry point. It behaves like TranslateSegment
// but degrades gracefully: when the provider or the store fails, the
// original text comes back with OutcomeUnchanged and the failure reason
// instead of an error. Unsupported pairs still fail fast. Text longer than
// the segment-size limit is split and translated segment by segment.
func (e *Engine) TranslateText(ctx context.Context, text, pair string) (SegmentResult, error) {
	if err := ValidatePair(pair); err != nil {
		return SegmentResult{}, err
	}
	if strings.TrimSpace(text) == "" || !HasTranslatableText(text) {
		return SegmentResult{Text: text, Outcome: OutcomeUnchanged, Reason: "no translatable text"}, nil
	}

	if utf8.RuneCountInString(text) <= maxAdhocLength {
		return e.adhocSegment(ctx, text, pair), nil
	}

	segments := Split(text)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		res := e.adhocSegment(ctx, seg, pair)
		out = append(out, res.Text)
	}
	return SegmentResult{Text: strings.Join(out, "\n"), Outcome: OutcomeTranslated}, nil
}

// adhocSegment runs the strict segment path and converts failures into an
// unchanged result carrying the original text.
func (e *Engine) adhocSegment(ctx context.Context, text, pair string) SegmentResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !HasTranslatableText(trimmed) {
		return SegmentResult{Text: text, Outcome: OutcomeUnchanged, Reason: "no translatable text"}
	}
	res, err := e.translateSegment(ctx, trimmed, pair)
	if err != nil {
		e.logger.Warn("ad-hoc translation degraded to original text",
			"pair", pair, "error", err)
		return SegmentResult{Text: text, Outcome: OutcomeUnchanged, Reason: err.Error()}
	}
	return res
}

// translateSegment implements the reuse-or-translate decision for one
// trimmed, translatable segment. Errors propagate to the caller.
func (e *Engine) translateSegment(ctx context.Context, seg, pair string) (SegmentResult, error) {
	if utf8.RuneCountInString(seg) >= e.minLookup {
		if e.cache != nil {
			if hit, ok := e.cache.Get(CacheKey(SegmentHash(seg), pair)); ok {
				return SegmentResult{Text: hit, Outcome: OutcomeReused}, nil
			}
		}
		matches := e.store.FindMatchingSegments(ctx, seg, pair, e.matchThreshold)
		if len(matches) > 0 && matches[0].Similarity >= e.reuseCutoff {
			e.logger.Debug("reusing stored segment",
				"pair", pair, "similarity", matches[0].Similarity)
			return SegmentResult{Text: matches[0].Translated, Outcome: OutcomeReused}, nil
		}
	}

	raw, err := e.provider.Translate(ctx, seg, pair)
	if err != nil {
		return SegmentResult{}, fmt.Errorf("translate segment: %w", err)
	}
	cleaned := CleanTranslation(raw)

	if _, err := e.store.StoreTranslation(ctx, 0, pair, cleaned, []SegmentPair{{Source: seg, Translated: cleaned}}); err != nil {
		return SegmentResult{}, err
	}
	if e.cache != nil {
		if err := e.cache.Set(CacheKey(SegmentHash(seg), pair), cleaned); err != nil {
			e.logger.Warn("segment cache set failed", "error", err)
		}
	}
	return SegmentResult{Text: cleaned, Outcome: OutcomeTranslated}, nil
}

// TranslateDocument translates a whole document: registers it (dedup by
// hash), short-circuits to a recent stored translation when the document is
// already known, otherwise splits the content into segments, translates each
// in source order via the reuse-or-translate path, and persists the joined
// result as a new translation version together with all segment pairs.
//
// The observer, if non-nil, receives integer percent progress after each
// segment. Provider failures abort the call: no translation row is written,
// though the document registration and any segments already added to the
// translation memory remain.
func (e *Engine) TranslateDocument(ctx context.Context, path, content, pair string, observer ProgressObserver) (string, error) {
	if err := ValidatePair(pair); err != nil {
		return "", err
	}

	fileHash, err := FileHash(path)
	if err != nil {
		return "", fmt.Errorf("hash file %s: %w", path, err)
	}

	docID, existed, err := e.store.RegisterDocument(ctx, DocumentInput{
		FileName:    filepath.Base(path),
		FileHash:    fileHash,
		ContentHash: ContentHash(content),
		Location:    path,
		Kind:        strings.TrimPrefix(filepath.Ext(path), "."),
	})
	if err != nil {
		return "", err
	}

	if existed {
		if prior := e.freshTranslation(ctx, docID, pair); prior != "" {
			e.logger.Info("reusing recent document translation",
				"document", docID, "pair", pair)
			return prior, nil
		}
	}

	if similar := e.store.FindSimilarDocuments(ctx, content, e.docThreshold); len(similar) > 0 {
		e.logger.Info("similar documents in memory",
			"document", docID, "count", len(similar), "best", similar[0].Score)
	}

	segments := Split(content)
	total := len(segments)
	translated := make([]string, 0, total)
	segPairs := make([]SegmentPair, 0, total)

	for i, seg := range segments {
		out := seg
		if HasTranslatableText(seg) {
			res, err := e.translateSegment(ctx, seg, pair)
			if err != nil {
				return "", fmt.Errorf("document %s segment %d: %w", path, i+1, err)
			}
			out = res.Text
		}
		translated = append(translated, out)
		segPairs = append(segPairs, SegmentPair{Source: seg, Translated: out})

		if observer != nil && total > 0 {
			observer.OnProgress((i + 1) * 100 / total)
		}
	}

	joined := strings.Join(translated, "\n")
	if _, err := e.store.StoreTranslation(ctx, docID, pair, joined, segPairs); err != nil {
		return "", err
	}
	if err := e.store.SetDocumentStatus(ctx, docID, StatusTranslated); err != nil {
		// The translation itself is persisted; a failed status flip is not
		// worth failing the call over.
		e.logger.Warn("set document status failed", "document", docID, "error", err)
	}

	return joined, nil
}

// freshTranslation returns a stored translation of the document for the
// pair when one exists inside the freshness window, otherwise "".
func (e *Engine) freshTranslation(ctx context.Context, docID int64, pair string) string {
	for _, tr := range e.store.DocumentHistory(ctx, docID) {
		if tr.LangPair != pair {
			continue
		}
		if e.now().Sub(tr.Date) < e.freshness {
			return tr.Content
		}
	}
	return ""
}

// Statistics returns aggregate translation-memory counters.
func (e *Engine) Statistics(ctx context.Context) Stats {
	return e.store.Statistics(ctx)
}

// History returns the reverse-chronological translation history.
func (e *Engine) History(ctx context.Context) []HistoryEntry {
	return e.store.History(ctx)
}

// Close releases the engine's persistent resources. Failures are logged,
// not returned; closing twice is safe.
func (e *Engine) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("close store", "error", err)
	}
}
