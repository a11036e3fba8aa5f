package store

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/ZaguanLabs/transmem"
)

// StoreTranslation persists a translation and its segment pairs in one
// transaction. The version is computed and inserted in a single statement
// (1 + the document's highest stored version) so two concurrent writers
// cannot claim the same number. documentID 0 stores an ad-hoc translation
// with no owning document; such rows always carry version 1.
//
// Each segment row's usage count is computed as 1 + the highest stored
// usage count for the same source hash. Rows are append-only: the counter
// spreads across rows rather than incrementing one in place.
func (s *Store) StoreTranslation(ctx context.Context, documentID int64, pair, content string, segments []transmem.SegmentPair) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &transmem.StoreError{Op: "store translation", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	var docVal any
	if documentID != 0 {
		docVal = documentID
	}

	timestamp := now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO translations (
            document_id, lang_pair, translated_content, translation_date,
            is_revised, version
        ) VALUES (?, ?, ?, ?, FALSE,
            (SELECT COALESCE(MAX(version), 0) + 1
             FROM translations WHERE document_id = ?))`,
		docVal, pair, content, timestamp, docVal,
	)
	if err != nil {
		return 0, &transmem.StoreError{Op: "store translation", Cause: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &transmem.StoreError{Op: "store translation", Cause: err}
	}

	for _, seg := range segments {
		hash := transmem.SegmentHash(seg.Source)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO segments (
                source_text, translated_text, lang_pair, hash,
                usage_count, last_used, confidence_score, document_id
            ) VALUES (?, ?, ?, ?,
                (SELECT COALESCE(MAX(usage_count), 0) + 1
                 FROM segments WHERE hash = ?),
                ?, 1.0, ?)`,
			seg.Source, seg.Translated, pair, hash, hash, timestamp, docVal,
		); err != nil {
			return 0, &transmem.StoreError{Op: "store translation", Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &transmem.StoreError{Op: "store translation", Cause: err}
	}

	s.logger.Info("translation stored",
		"id", id, "document", documentID, "pair", pair, "segments", len(segments))
	return id, nil
}

// DocumentHistory returns a document's translations, newest first.
// Failures degrade to an empty result.
func (s *Store) DocumentHistory(ctx context.Context, documentID int64) []transmem.Translation {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lang_pair, translated_content, translation_date, version,
                is_revised, revised_by, revision_date, revision_comments, quality_score
         FROM translations WHERE document_id = ?
         ORDER BY translation_date DESC, id DESC`, documentID)
	if err != nil {
		s.logger.Warn("document history read failed", "document", documentID, "error", err)
		return nil
	}
	defer rows.Close()

	var history []transmem.Translation
	for rows.Next() {
		var tr transmem.Translation
		var date string
		var revisedBy, revisedAt, comments sql.NullString
		var score sql.NullInt64
		if err := rows.Scan(&tr.ID, &tr.LangPair, &tr.Content, &date, &tr.Version,
			&tr.Revised, &revisedBy, &revisedAt, &comments, &score); err != nil {
			s.logger.Warn("document history read failed", "document", documentID, "error", err)
			return nil
		}
		tr.DocumentID = documentID
		tr.Date = parseTime(date)
		tr.RevisedBy = revisedBy.String
		if revisedAt.Valid {
			tr.RevisedAt = parseTime(revisedAt.String)
		}
		tr.Comments = comments.String
		tr.Score = int(score.Int64)
		history = append(history, tr)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("document history read failed", "document", documentID, "error", err)
		return nil
	}
	return history
}

// History returns the full translation history joined with document names,
// newest first. Failures degrade to an empty result.
func (s *Store) History(ctx context.Context) []transmem.HistoryEntry {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.file_name, t.translation_date, t.lang_pair,
                CASE WHEN t.is_revised THEN 'revised' ELSE 'not revised' END,
                t.revised_by, t.quality_score
         FROM translations t
         JOIN documents d ON t.document_id = d.id
         ORDER BY t.translation_date DESC, t.id DESC`)
	if err != nil {
		s.logger.Warn("history read failed", "error", err)
		return nil
	}
	defer rows.Close()

	var entries []transmem.HistoryEntry
	for rows.Next() {
		var e transmem.HistoryEntry
		var date string
		var revisor sql.NullString
		var score sql.NullInt64
		if err := rows.Scan(&e.FileName, &date, &e.LangPair, &e.Status, &revisor, &score); err != nil {
			s.logger.Warn("history read failed", "error", err)
			return nil
		}
		e.Date = parseTime(date)
		e.Revisor = "-"
		if revisor.Valid && revisor.String != "" {
			e.Revisor = revisor.String
		}
		e.Score = "-"
		if score.Valid {
			e.Score = strconv.FormatInt(score.Int64, 10)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("history read failed", "error", err)
		return nil
	}
	return entries
}

// MarkRevised records a reviewer's sign-off on a translation, mutating the
// revision fields in place. The reviewer role is external to the engine;
// the store only exposes the write.
func (s *Store) MarkRevised(ctx context.Context, translationID int64, revisor, comments string, score int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE translations
         SET is_revised = TRUE, revised_by = ?, revision_date = ?,
             revision_comments = ?, quality_score = ?
         WHERE id = ?`,
		revisor, now(), comments, score, translationID)
	if err != nil {
		return &transmem.StoreError{Op: "mark revised", Cause: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &transmem.StoreError{Op: "mark revised", Cause: err}
	}
	if affected == 0 {
		return transmem.ErrNotFound
	}
	return nil
}
