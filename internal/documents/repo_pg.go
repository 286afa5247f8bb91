package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, type, file_name, file_id, uploaded_at, status, analysis_result, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, type, file_name, file_id, uploaded_at, status, analysis_result, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	resultJSON, err := marshalResult(doc.AnalysisResult)
	if err != nil {
		return err
	}
	// A typed-nil []byte is not an untyped driver NULL; pass nil explicitly.
	var resultArg any
	if resultJSON != nil {
		resultArg = resultJSON
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.Type,
		doc.FileName,
		doc.FileID,
		doc.UploadedAt,
		doc.Status,
		resultArg,
		doc.CreatedAt,
	)
	return err
}

// Get fetches a document by ID regardless of owner. Used by the analysis
// worker, which runs without a caller identity.
func (r *PGRepo) Get(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, documentID))
}

// GetByUser fetches a document by ID scoped to its owner. A document owned by
// another user yields ErrNotFound, same as an absent one.
func (r *PGRepo) GetByUser(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

// ListByUser lists a user's documents newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SetAnalysisResult stores a completed analysis. The status guard keeps
// terminal documents terminal.
func (r *PGRepo) SetAnalysisResult(ctx context.Context, documentID string, result *AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("analysis result is required")
	}
	resultJSON, err := marshalResult(result)
	if err != nil {
		return err
	}

	const query = `
UPDATE documents
SET status = $1, analysis_result = $2
WHERE id = $3 AND status = $4`
	_, err = r.DB.ExecContext(ctx, query, StatusCompleted, resultJSON, documentID, StatusProcessing)
	return err
}

// MarkFailed transitions a processing document to failed with no result.
func (r *PGRepo) MarkFailed(ctx context.Context, documentID string) error {
	const query = `
UPDATE documents
SET status = $1, analysis_result = NULL
WHERE id = $2 AND status = $3`
	_, err := r.DB.ExecContext(ctx, query, StatusFailed, documentID, StatusProcessing)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Document, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var resultJSON []byte
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Type,
		&doc.FileName,
		&doc.FileID,
		&doc.UploadedAt,
		&doc.Status,
		&resultJSON,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	if len(resultJSON) > 0 {
		var result AnalysisResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return Document{}, fmt.Errorf("decode analysis result: %w", err)
		}
		doc.AnalysisResult = &result
	}
	return doc, nil
}

func marshalResult(result *AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode analysis result: %w", err)
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)
