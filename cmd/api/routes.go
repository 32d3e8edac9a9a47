// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/library-service/internal/metrics"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	metrics → recoverPanic → enableCORS → rateLimit → router
//
// Current endpoints:
//
//	GET    /probe          – liveness check
//	POST   /library/       – add a book
//	POST   /library/bulk   – add a batch of books in one statement
//	GET    /library        – list all books
//	GET    /library/:id    – retrieve a single book by ID
//	PUT    /library/:id    – replace a book's title and author
//	DELETE /library/:id    – delete a book by ID
//	GET    /metrics        – Prometheus metrics
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/probe", app.probeHandler)

	// Book routes
	router.HandlerFunc(http.MethodPost, "/library/", app.createBookHandler)
	router.HandlerFunc(http.MethodPost, "/library/bulk", app.bulkInsertBooksHandler)
	router.HandlerFunc(http.MethodGet, "/library", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/library/:id", app.showBookHandler)
	router.HandlerFunc(http.MethodPut, "/library/:id", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/library/:id", app.deleteBookHandler)

	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	return metrics.InstrumentHandler(app.recoverPanic(app.enableCORS(app.rateLimit(router))))
}
