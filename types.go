package transmem

import "time"

// DocumentStatus tracks a document's lifecycle in the translation memory.
type DocumentStatus string

const (
	// StatusPending marks a document registered but not yet translated.
	StatusPending DocumentStatus = "pending"
	// StatusTranslated marks a document with at least one stored translation.
	StatusTranslated DocumentStatus = "translated"
	// StatusRevised marks a document whose latest translation was reviewed.
	StatusRevised DocumentStatus = "revised"
)

// Document is a unique source artifact registered in the translation memory.
// FileHash and ContentHash together form the dedup key: a document matching
// either hash of an existing row is the same document.
type Document struct {
	ID          int64
	FileName    string
	FileHash    string
	ContentHash string
	Location    string // original path the content was read from
	UploadDate  time.Time
	Kind        string // file extension tag, e.g. "md", "txt"
	Status      DocumentStatus
	Metadata    map[string]string
}

// Translation is one versioned result of translating a document into one
// language pair. Versions are scoped per document, append-only, and never
// renumbered; the current translation is implicitly the highest version.
type Translation struct {
	ID         int64
	DocumentID int64 // 0 for ad-hoc translations with no owning document
	LangPair   string
	Content    string
	Date       time.Time
	Version    int
	Revised    bool
	RevisedBy  string
	RevisedAt  time.Time
	Comments   string
	Score      int
}

// Segment pairs a unit of source text with its translation in one language
// pair. Rows are append-only: repeated storage of the same source hash
// creates a new row whose usage count is one above the stored maximum.
type Segment struct {
	ID         int64
	Source     string
	Translated string
	LangPair   string
	UsageCount int
	LastUsed   time.Time
	Confidence float64
	Hash       string
	DocumentID int64 // 0 when the segment has no owning document
}

// SegmentPair is a (source, translated) pair handed to the store alongside
// a full document translation.
type SegmentPair struct {
	Source     string
	Translated string
}

// SegmentMatch is one similarity-ranked candidate from the translation
// memory.
type SegmentMatch struct {
	Source     string
	Translated string
	Similarity float64
	Confidence float64
}

// DocumentMatch is one similarity-ranked document from a document-level
// dedup scan.
type DocumentMatch struct {
	DocumentID int64
	Score      float64
}

// HistoryEntry is one row of the translation history view, joining a
// translation with its document.
type HistoryEntry struct {
	FileName string
	Date     time.Time
	LangPair string
	Status   string // "revised" or "not revised"
	Revisor  string // "-" when unset
	Score    string // "-" when unset
}

// Stats aggregates translation-memory counters. ReuseRate counts segment
// rows with a usage count above one against all segment rows; it is zero
// when no segments exist.
type Stats struct {
	TotalDocuments    int
	TotalTranslations int
	RevisionRate      float64 // percent
	ReuseRate         float64 // percent
}

// Outcome classifies the result of a segment translation.
type Outcome string

const (
	// OutcomeTranslated means the external provider produced the text.
	OutcomeTranslated Outcome = "translated"
	// OutcomeReused means a stored segment was returned verbatim without
	// invoking the provider.
	OutcomeReused Outcome = "reused"
	// OutcomeUnchanged means the input was returned as-is (empty or
	// symbol-only input, or a degraded ad-hoc failure).
	OutcomeUnchanged Outcome = "unchanged"
)

// SegmentResult is the outcome-typed result of a segment translation.
type SegmentResult struct {
	Text    string
	Outcome Outcome
	Reason  string // set for OutcomeUnchanged
}

// ProgressObserver receives integer percent progress while a document is
// translated. Reports are 1-based and monotonic: a 4-segment document
// observes 25, 50, 75, 100. A nil observer is the default, not an error.
type ProgressObserver interface {
	OnProgress(percent int)
}

// ProgressFunc adapts a plain function to ProgressObserver.
type ProgressFunc func(percent int)

// OnProgress implements ProgressObserver.
func (f ProgressFunc) OnProgress(percent int) { f(percent) }
