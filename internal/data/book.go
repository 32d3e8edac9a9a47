// Package data provides the data models and database interaction logic
// for the library service.
package data

import (
	"fmt"
	"math"

	"github.com/aoideee/library-service/internal/validator"
)

const (
	maxFieldBytes = 500
	maxBulkBooks  = 1000
)

// Book represents a single book record. The id is chosen by the caller.
type Book struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	PostedTime *Timestamp `json:"posted_time"` // nil until set on insert or update
}

// Equal reports whether b and other are the same book. Only the id counts.
func (b Book) Equal(other Book) bool {
	return b.ID == other.ID
}

// CreateBookInput holds the fields a client supplies when adding a book,
// either alone or as one element of a bulk insert.
type CreateBookInput struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	PostedTime *Timestamp `json:"posted_time"`
}

// Book converts the input to a domain value.
func (in CreateBookInput) Book() *Book {
	return &Book{
		ID:         in.ID,
		Title:      in.Title,
		Author:     in.Author,
		PostedTime: in.PostedTime,
	}
}

// UpdateBookInput holds the replacement fields for PUT /library/:id.
// ID and PostedTime are accepted so clients can send a whole book back;
// ID must then match the path and PostedTime is ignored, since the
// gateway stamps the update time itself.
type UpdateBookInput struct {
	ID         *int64     `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	PostedTime *Timestamp `json:"posted_time"`
}

// ValidateBook checks the fields required to insert book.
func ValidateBook(v *validator.Validator, book *Book) {
	validateBook(v, "", book)
}

func validateBook(v *validator.Validator, prefix string, book *Book) {
	v.Check(book.ID >= 1, prefix+"id", "must be a positive integer")
	v.Check(book.ID <= math.MaxInt32, prefix+"id", fmt.Sprintf("must not be greater than %d", math.MaxInt32))
	validateText(v, prefix, book.Title, book.Author)
}

func validateText(v *validator.Validator, prefix, title, author string) {
	v.Check(validator.NotBlank(title), prefix+"title", "must be provided")
	v.Check(validator.MaxBytes(title, maxFieldBytes), prefix+"title", fmt.Sprintf("must not be more than %d bytes long", maxFieldBytes))

	v.Check(validator.NotBlank(author), prefix+"author", "must be provided")
	v.Check(validator.MaxBytes(author, maxFieldBytes), prefix+"author", fmt.Sprintf("must not be more than %d bytes long", maxFieldBytes))
}

// ValidateBooks checks a bulk-insert batch: it must be non-empty and
// bounded, every book must be valid, and ids must be unique within the batch.
func ValidateBooks(v *validator.Validator, books []*Book) {
	v.Check(len(books) > 0, "books", "must contain at least one book")
	v.Check(len(books) <= maxBulkBooks, "books", fmt.Sprintf("must not contain more than %d books", maxBulkBooks))

	ids := make([]int64, 0, len(books))
	for i, book := range books {
		validateBook(v, fmt.Sprintf("books[%d].", i), book)
		ids = append(ids, book.ID)
	}
	v.Check(validator.Unique(ids), "books", "must not contain duplicate ids")
}

// ValidateUpdate checks the replacement fields for the book with the given id.
func ValidateUpdate(v *validator.Validator, id int64, input *UpdateBookInput) {
	if input.ID != nil {
		v.Check(*input.ID == id, "id", "must match the id in the URL")
	}
	validateText(v, "", input.Title, input.Author)
}
