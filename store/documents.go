package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ZaguanLabs/transmem"
)

// similarDocumentScanLimit bounds the synchronous similarity scan to the
// most recently uploaded documents.
const similarDocumentScanLimit = 50

// RegisterDocument records a document unless an identical one is already
// stored. The dedup key is either hash: a row matching the content hash or
// the file hash is the same document, and its id is returned with existed
// set to true. New documents start in StatusPending.
func (s *Store) RegisterDocument(ctx context.Context, doc transmem.DocumentInput) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, &transmem.StoreError{Op: "register document", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE content_hash = ? OR file_hash = ?`,
		doc.ContentHash, doc.FileHash,
	).Scan(&existing)
	switch {
	case err == nil:
		return existing, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, &transmem.StoreError{Op: "register document", Cause: err}
	}

	var metadata any
	if len(doc.Metadata) > 0 {
		encoded, err := json.Marshal(doc.Metadata)
		if err != nil {
			return 0, false, &transmem.StoreError{Op: "register document", Cause: fmt.Errorf("marshal metadata: %w", err)}
		}
		metadata = string(encoded)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (
            file_name, file_hash, content_hash, original_path,
            upload_date, file_type, status, metadata
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.FileName, doc.FileHash, doc.ContentHash, doc.Location,
		now(), doc.Kind, string(transmem.StatusPending), metadata,
	)
	if err != nil {
		return 0, false, &transmem.StoreError{Op: "register document", Cause: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, &transmem.StoreError{Op: "register document", Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, &transmem.StoreError{Op: "register document", Cause: err}
	}

	s.logger.Info("document registered", "id", id, "name", doc.FileName)
	return id, false, nil
}

// GetDocumentInfo returns a registered document by id, or
// transmem.ErrNotFound.
func (s *Store) GetDocumentInfo(ctx context.Context, id int64) (*transmem.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, file_hash, content_hash, original_path,
                upload_date, file_type, status, metadata
         FROM documents WHERE id = ?`, id)

	var doc transmem.Document
	var status, uploaded string
	var metadata sql.NullString
	err := row.Scan(&doc.ID, &doc.FileName, &doc.FileHash, &doc.ContentHash,
		&doc.Location, &uploaded, &doc.Kind, &status, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transmem.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}

	doc.UploadDate = parseTime(uploaded)
	doc.Status = transmem.DocumentStatus(status)
	doc.Metadata = map[string]string{}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("decode document %d metadata: %w", id, err)
		}
	}
	return &doc, nil
}

// SetDocumentStatus advances a document's lifecycle status.
func (s *Store) SetDocumentStatus(ctx context.Context, id int64, status transmem.DocumentStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return &transmem.StoreError{Op: "set document status", Cause: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &transmem.StoreError{Op: "set document status", Cause: err}
	}
	if affected == 0 {
		return transmem.ErrNotFound
	}
	return nil
}

// FindSimilarDocuments scores content against the most recently uploaded
// documents, re-reading each from its stored location. Documents whose
// location is no longer readable are silently skipped. The result is sorted
// descending by score; failures degrade to an empty result.
func (s *Store) FindSimilarDocuments(ctx context.Context, content string, threshold float64) []transmem.DocumentMatch {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original_path FROM documents
         ORDER BY upload_date DESC, id DESC LIMIT ?`, similarDocumentScanLimit)
	if err != nil {
		s.logger.Warn("similar document scan failed", "error", err)
		return nil
	}
	defer rows.Close()

	type candidate struct {
		id   int64
		path string
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.path); err != nil {
			s.logger.Warn("similar document scan failed", "error", err)
			return nil
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("similar document scan failed", "error", err)
		return nil
	}

	var matches []transmem.DocumentMatch
	for _, c := range candidates {
		data, err := os.ReadFile(c.path)
		if err != nil {
			// Stale or moved paths are expected; skip them.
			continue
		}
		score := transmem.Ratio(content, string(data))
		if score >= threshold {
			matches = append(matches, transmem.DocumentMatch{DocumentID: c.id, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
