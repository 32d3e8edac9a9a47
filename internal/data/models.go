// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aoideee/library-service/internal/metrics"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Books BookModel // Handles all database operations for the books table
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sqlx.DB) Models {
	return Models{
		Books: BookModel{DB: db, Now: time.Now},
	}
}

// BookModel is the gateway to the books table. It owns the mapping between
// Book and its row representation, and runs every operation as a single
// statement on the shared connection pool.
type BookModel struct {
	DB  *sqlx.DB
	Now func() time.Time // clock used to stamp updates; time.Now when nil
}

// bookRow mirrors one row of the books table.
type bookRow struct {
	ID              int64        `db:"id"`
	Title           string       `db:"title"`
	Author          string       `db:"author"`
	RecordTimestamp sql.NullTime `db:"record_timestamp"`
}

func (r bookRow) book() *Book {
	b := &Book{ID: r.ID, Title: r.Title, Author: r.Author}
	if r.RecordTimestamp.Valid {
		ts := NewTimestamp(r.RecordTimestamp.Time)
		b.PostedTime = &ts
	}
	return b
}

// nullTime converts t for the zone-less record_timestamp column. The value
// is normalised to UTC first, otherwise the column would keep the wall
// clock of the caller's offset and shift the instant.
func nullTime(t *Timestamp) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: NewTimestamp(t.Time).Time, Valid: true}
}

func (m BookModel) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// observe records the outcome of one statement. It is deferred with a
// pointer to the caller's named error so it sees the final value.
func observe(operation string, start time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = KindOf(*err).String()
	}
	metrics.RecordQuery(operation, outcome, time.Since(start))
}

// Insert adds book to the table and returns the stored row. The id is the
// caller's; posted_time is stored as given, in UTC, or NULL.
// Returns a KindConflict error if the id is already taken.
func (m BookModel) Insert(ctx context.Context, book *Book) (_ *Book, err error) {
	defer observe("insert", time.Now(), &err)

	query := `
		INSERT INTO books (id, title, author, record_timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, author, record_timestamp`

	var row bookRow
	err = m.DB.GetContext(ctx, &row, query, book.ID, book.Title, book.Author, nullTime(book.PostedTime))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ConflictError("a book with this id already exists", err)
		}
		return nil, StorageError(err)
	}

	return row.book(), nil
}

// BulkInsert adds every book in one statement by unnesting parallel id,
// title and author arrays. The statement either inserts all rows or none.
// Returns the number of rows inserted.
func (m BookModel) BulkInsert(ctx context.Context, books []*Book) (_ int64, err error) {
	if len(books) == 0 {
		return 0, nil
	}
	defer observe("bulk_insert", time.Now(), &err)

	ids := make([]int64, 0, len(books))
	titles := make([]string, 0, len(books))
	authors := make([]string, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
		titles = append(titles, book.Title)
		authors = append(authors, book.Author)
	}

	query := `
		INSERT INTO books (id, title, author)
		SELECT * FROM unnest($1::int4[], $2::text[], $3::text[])`

	result, err := m.DB.ExecContext(ctx, query, pq.Array(ids), pq.Array(titles), pq.Array(authors))
	if err != nil {
		return 0, StorageError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, StorageError(err)
	}
	return n, nil
}

// GetAll returns every book in storage order. An empty table is reported
// as a KindNotFound error rather than an empty slice.
func (m BookModel) GetAll(ctx context.Context) (_ []*Book, err error) {
	defer observe("get_all", time.Now(), &err)

	query := `SELECT id, title, author, record_timestamp FROM books`

	var rows []bookRow
	if err = m.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, StorageError(err)
	}
	if len(rows) == 0 {
		return nil, NotFoundError("the library has no books")
	}

	books := make([]*Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.book())
	}
	return books, nil
}

// Get retrieves a single book by its id.
// Returns a KindNotFound error if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (_ *Book, err error) {
	defer observe("get", time.Now(), &err)

	query := `
		SELECT id, title, author, record_timestamp
		FROM books
		WHERE id = $1`

	var row bookRow
	err = m.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, NotFoundError("book not found")
		default:
			return nil, StorageError(err)
		}
	}
	return row.book(), nil
}

// Update replaces the title and author of the book with the given id and
// stamps its posted_time with the current time.
// Returns a KindNotFound error if no row was affected.
func (m BookModel) Update(ctx context.Context, id int64, input *UpdateBookInput) (_ *Book, err error) {
	defer observe("update", time.Now(), &err)

	stamped := NewTimestamp(m.now())

	query := `
		UPDATE books
		SET title = $2, author = $3, record_timestamp = $4
		WHERE id = $1`

	result, err := m.DB.ExecContext(ctx, query, id, input.Title, input.Author, stamped.Time)
	if err != nil {
		return nil, StorageError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, StorageError(err)
	}
	if rowsAffected == 0 {
		return nil, NotFoundError("book not found")
	}

	return &Book{
		ID:         id,
		Title:      input.Title,
		Author:     input.Author,
		PostedTime: &stamped,
	}, nil
}

// Delete removes the book with the given id from the database.
// Returns a KindNotFound error if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id int64) (err error) {
	defer observe("delete", time.Now(), &err)

	query := `DELETE FROM books WHERE id = $1`

	// Exec returns a Result that tells us how many rows were affected.
	result, err := m.DB.ExecContext(ctx, query, id)
	if err != nil {
		return StorageError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return StorageError(err)
	}

	// If no rows were deleted, the book didn't exist.
	if rowsAffected == 0 {
		return NotFoundError("book not found")
	}

	return nil
}
