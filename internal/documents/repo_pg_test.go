package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsProcessingDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	doc := Document{
		ID:         "doc-1",
		UserID:     "guest:abc",
		Type:       TypeI94,
		FileName:   "i94.pdf",
		FileID:     "hash/key_i94.pdf",
		UploadedAt: now,
		Status:     StatusProcessing,
		CreatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.Type,
			doc.FileName,
			doc.FileID,
			doc.UploadedAt,
			doc.Status,
			nil, // analysis_result
			doc.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetAnalysisResultGuardsOnProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	result := &AnalysisResult{
		Summary:   "An I-94 record.",
		KeyDates:  []KeyDate{{Label: "Admit until", Date: "2026-10-01", Importance: ImportanceCritical}},
		NextSteps: []string{"Check your status"},
		Warnings:  []string{},
		Details:   map[string]any{"admissionNumber": "123"},
	}

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusCompleted, sqlmock.AnyArg(), "doc-1", StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetAnalysisResult(context.Background(), "doc-1", result); err != nil {
		t.Fatalf("SetAnalysisResult: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedClearsResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusFailed, "doc-1", StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "doc-1"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUserMapsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("guest:abc", "missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "type", "file_name", "file_id", "uploaded_at", "status", "analysis_result", "created_at",
		}))

	_, err = repo.GetByUser(context.Background(), "guest:abc", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesAnalysisResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	resultJSON := `{"summary":"done","keyDates":[],"nextSteps":[],"warnings":[],"details":{}}`

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "type", "file_name", "file_id", "uploaded_at", "status", "analysis_result", "created_at",
		}).AddRow("doc-1", "guest:abc", TypeI20, "i20.pdf", "hash/key", now, StatusCompleted, []byte(resultJSON), now))

	doc, err := repo.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.AnalysisResult == nil || doc.AnalysisResult.Summary != "done" {
		t.Fatalf("expected decoded analysis result, got %+v", doc.AnalysisResult)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
