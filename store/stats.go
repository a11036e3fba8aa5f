package store

import (
	"context"

	"github.com/ZaguanLabs/transmem"
)

// Statistics aggregates translation-memory counters. The reuse rate counts
// segment rows whose usage count exceeds one against all segment rows;
// because segments are append-only, this counts reused sources, not the sum
// of their counters. Failures degrade to zeroed statistics.
func (s *Store) Statistics(ctx context.Context) transmem.Stats {
	var stats transmem.Stats

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM documents`, &stats.TotalDocuments},
		{`SELECT COUNT(*) FROM translations`, &stats.TotalTranslations},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			s.logger.Warn("statistics query failed", "error", err)
			return transmem.Stats{}
		}
	}

	var revised int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM translations WHERE is_revised = TRUE`).Scan(&revised); err != nil {
		s.logger.Warn("statistics query failed", "error", err)
		return transmem.Stats{}
	}
	if stats.TotalTranslations > 0 {
		stats.RevisionRate = float64(revised) / float64(stats.TotalTranslations) * 100
	}

	var reused, total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM segments WHERE usage_count > 1`).Scan(&reused); err != nil {
		s.logger.Warn("statistics query failed", "error", err)
		return transmem.Stats{}
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM segments`).Scan(&total); err != nil {
		s.logger.Warn("statistics query failed", "error", err)
		return transmem.Stats{}
	}
	if total > 0 {
		stats.ReuseRate = float64(reused) / float64(total) * 100
	}

	return stats
}
