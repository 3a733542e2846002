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

// ItemHandler serves the item collection.
//
//	POST   /api/add-item          → create, 201
//	GET    /api/all               → list in insertion order
//	GET    /api/get-item/{id}     → one item, 404 if absent
//	PUT    /api/update-item/{id}  → partial update, 404 if absent
//	DELETE /api/delete-item/{id}  → true / false
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.NewItem
	if err := decode(w, r, service.NewItemSchema, &in); err != nil {
		writeError(w, err)
		return
	}

	it, err := h.items.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch model.ItemPatch
	if err := decode(w, r, service.ItemPatchSchema, &patch); err != nil {
		writeError(w, err)
		return
	}

	it, err := h.items.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// HandleDelete answers with a bare JSON boolean: whether anything was
// removed. An unknown id is false, not 404.
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ok, err := h.items.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// itemID parses the {id} URL parameter. Item ids are integers; anything
// else is a 400 with the usual violation list.
func itemID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, &validate.Errors{Messages: []string{"id must be an integer number"}}
	}
	return id, nil
}
