package deadlines

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const deadlineColumns = `id, user_id, document_id, title, description, due_date, importance, completed, reminder_sent, created_at`

// Create inserts a new deadline.
func (r *PGRepo) Create(ctx context.Context, d Deadline) error {
	const query = `
INSERT INTO deadlines (id, user_id, document_id, title, description, due_date, importance, completed, reminder_sent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var documentID sql.NullString
	if d.DocumentID != "" {
		documentID = sql.NullString{String: d.DocumentID, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		d.ID,
		d.UserID,
		documentID,
		d.Title,
		d.Description,
		d.DueDate,
		d.Importance,
		d.Completed,
		d.ReminderSent,
		d.CreatedAt,
	)
	return err
}

// GetByUser fetches a deadline by ID scoped to its owner.
func (r *PGRepo) GetByUser(ctx context.Context, userID, deadlineID string) (Deadline, error) {
	const query = `
SELECT ` + deadlineColumns + `
FROM deadlines
WHERE user_id = $1 AND id = $2
LIMIT 1`

	d, err := scanDeadline(r.DB.QueryRowContext(ctx, query, userID, deadlineID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Deadline{}, ErrNotFound
		}
		return Deadline{}, err
	}
	return d, nil
}

// ListByUser lists a user's deadlines newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Deadline, error) {
	const query = `
SELECT ` + deadlineColumns + `
FROM deadlines
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetCompleted updates the completion flag of an owned deadline.
func (r *PGRepo) SetCompleted(ctx context.Context, userID, deadlineID string, completed bool) error {
	const query = `
UPDATE deadlines
SET completed = $1
WHERE user_id = $2 AND id = $3`

	res, err := r.DB.ExecContext(ctx, query, completed, userID, deadlineID)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owned deadline.
func (r *PGRepo) Delete(ctx context.Context, userID, deadlineID string) error {
	const query = `
DELETE FROM deadlines
WHERE user_id = $1 AND id = $2`

	res, err := r.DB.ExecContext(ctx, query, userID, deadlineID)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeadline(row rowScanner) (Deadline, error) {
	var d Deadline
	var documentID sql.NullString
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&documentID,
		&d.Title,
		&d.Description,
		&d.DueDate,
		&d.Importance,
		&d.Completed,
		&d.ReminderSent,
		&d.CreatedAt,
	); err != nil {
		return Deadline{}, err
	}
	if documentID.Valid {
		d.DocumentID = documentID.String
	}
	return d, nil
}

var _ Repo = (*PGRepo)(nil)
