package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/service"
	"github.com/sakif/crudauth/internal/validate"
)

// BookHandler serves /api/books. Every route sits behind RequireAuth.
type BookHandler struct {
	books  *service.BookService
	logger *slog.Logger
}

func NewBookHandler(books *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{books: books, logger: logger}
}

// HandleList supports ?limit= and ?offset=. Missing values use the
// repository defaults; non-numeric values are a 400.
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}

	books, err := h.books.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Book
	if err := decode(w, r, service.NewBookSchema, &in); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.books.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.BookPatch
	if err := decode(w, r, service.BookPatchSchema, &patch); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.books.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// HandleDelete answers 204 No Content on success.
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &validate.Errors{Messages: []string{key + " must be an integer number"}}
	}
	return n, nil
}
