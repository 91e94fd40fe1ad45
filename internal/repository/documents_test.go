package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupMock(t *testing.T) (*PostgresDocumentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresDocumentRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestCreate_Success(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	body := []byte(`{"patients":[]}`)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (id, body) VALUES ($1, $2)`)).
		WithArgs("KL-1", body).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "KL-1", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreate_Error(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WillReturnError(errors.New("insert fail"))

	err := repo.Create(context.Background(), "KL-1", []byte(`{}`))
	if err == nil || !regexp.MustCompile(`Create failed`).MatchString(err.Error()) {
		t.Errorf("expected Create failed error, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	body := []byte(`{"patients":[{"id":"p1"}]}`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE id = $1`)).
		WithArgs("KL-1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(body))

	got, err := repo.Get(context.Background(), "KL-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("body = %s; want %s", got, body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE id = $1`)).
		WithArgs("KL-404").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err := repo.Get(context.Background(), "KL-404")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestReplace_Success(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	body := []byte(`{"patients":[]}`)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET body = $2, updated_at = now() WHERE id = $1`)).
		WithArgs("KL-1", body).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Replace(context.Background(), "KL-1", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestReplace_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents`)).
		WithArgs("KL-404", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Replace(context.Background(), "KL-404", []byte(`{}`))
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestReplace_Error(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents`)).
		WillReturnError(errors.New("update fail"))

	err := repo.Replace(context.Background(), "KL-1", []byte(`{}`))
	if err == nil || !regexp.MustCompile(`Replace failed`).MatchString(err.Error()) {
		t.Errorf("expected Replace failed error, got %v", err)
	}
}
