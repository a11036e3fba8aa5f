package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/ZaguanLabs/transmem"
)

// segmentScanLimit bounds the similarity scan to the most recently used
// segments for a language pair.
const segmentScanLimit = 100

// FindMatchingSegments scores a segment against the most recently used
// stored segments for the language pair and returns the ones at or above
// threshold, sorted descending by similarity. Ties keep store order. The
// call is a pure read: usage counters change only when segments are stored.
// Failures degrade to an empty result.
func (s *Store) FindMatchingSegments(ctx context.Context, segment, pair string, threshold float64) []transmem.SegmentMatch {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_text, translated_text, confidence_score FROM segments
         WHERE lang_pair = ?
         ORDER BY last_used DESC, id DESC LIMIT ?`, pair, segmentScanLimit)
	if err != nil {
		s.logger.Warn("segment match scan failed", "pair", pair, "error", err)
		return nil
	}
	defer rows.Close()

	var matches []transmem.SegmentMatch
	for rows.Next() {
		var source, translated string
		var confidence sql.NullFloat64
		if err := rows.Scan(&source, &translated, &confidence); err != nil {
			s.logger.Warn("segment match scan failed", "pair", pair, "error", err)
			return nil
		}
		score := transmem.Ratio(segment, source)
		if score >= threshold {
			matches = append(matches, transmem.SegmentMatch{
				Source:     source,
				Translated: translated,
				Similarity: score,
				Confidence: confidence.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("segment match scan failed", "pair", pair, "error", err)
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}
