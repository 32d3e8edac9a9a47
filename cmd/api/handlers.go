// cmd/api/handlers.go
// This file contains all HTTP request handlers for the library resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models, and makes at most one model call.
package main

import (
	"fmt"
	"net/http"

	"github.com/aoideee/library-service/internal/data"
	"github.com/aoideee/library-service/internal/validator"
)

// probeHandler handles GET /probe and reports that the service is alive.
func (app *applicationDependencies) probeHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"probe": app.config.Probe}, nil)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}

// createBookHandler handles POST /library/.
// It validates the book in the body, inserts it under the caller's id, and
// responds 201 with the stored book as a bare object. A taken id yields 409.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateBookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
		return
	}

	book := input.Book()

	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	inserted, err := app.models.Books.Insert(r.Context(), book)
	if err != nil {
		app.libraryErrorResponse(w, r, err)
		return
	}

	// Point the client at the new resource.
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/library/%d", inserted.ID))

	err = app.writeJSON(w, http.StatusCreated, inserted, headers)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}

// bulkInsertBooksHandler handles POST /library/bulk.
// The body is a JSON array of books; they are inserted all-or-nothing.
func (app *applicationDependencies) bulkInsertBooksHandler(w http.ResponseWriter, r *http.Request) {
	var input []data.CreateBookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
		return
	}

	books := make([]*data.Book, 0, len(input))
	for _, in := range input {
		books = append(books, in.Book())
	}

	v := validator.New()
	if data.ValidateBooks(v, books); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	n, err := app.models.Books.BulkInsert(r.Context(), books)
	if err != nil {
		app.libraryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"inserted": n, "message": "books successfully inserted"}, nil)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}

// listBooksHandler handles GET /library.
// The body is a bare array of books. An empty library is reported as 404,
// not as an empty list.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.libraryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, books, nil)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}

// showBookHandler handles GET /library/:id.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		app.libraryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, book, nil)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}

// updateBookHandler handles PUT /library/:id.
// It replaces the title and author in a single statement; the model stamps
// posted_time. Responds 404 if the book does not exist.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input data.UpdateBookInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
		return
	}

	v := validator.New()
	if data.ValidateUpdate(v, id, &input); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	book, err := app.models.Books.Update(r.Context(), id, &input)
	if err != nil {
		app.libraryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, book, nil)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}

// deleteBookHandler handles DELETE /library/:id.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(r.Context(), id)
	if err != nil {
		app.libraryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		app.libraryErrorResponse(w, r, data.TransportError(err))
	}
}
