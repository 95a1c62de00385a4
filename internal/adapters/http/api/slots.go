package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/arena/internal/domain/model"
)

// SlotHandler serves single slot reads and writes.
type SlotHandler struct {
	deps Dependencies
}

// NewSlotHandler creates a new slot handler.
func NewSlotHandler(deps Dependencies) *SlotHandler {
	return &SlotHandler{deps: deps}
}

// HandleGetSlot handles GET /slots/{group}/{index}.
func (h *SlotHandler) HandleGetSlot(w http.ResponseWriter, r *http.Request) {
	key, err := slotKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_key", err)
		return
	}
	view, err := h.deps.Slot(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePutSlot handles PUT /slots/{group}/{index} with a draft body.
// Absent fields take their defaults; the slot is replaced wholesale.
func (h *SlotHandler) HandlePutSlot(w http.ResponseWriter, r *http.Request) {
	key, err := slotKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_key", err)
		return
	}

	var draft model.Draft
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	view, err := h.deps.Save(r.Context(), key, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDeleteSlot handles DELETE /slots/{group}/{index}.
func (h *SlotHandler) HandleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	key, err := slotKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_key", err)
		return
	}
	if err := h.deps.Delete(r.Context(), key); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func slotKey(r *http.Request) (model.SlotKey, error) {
	group := chi.URLParam(r, "group")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if group == "" || err != nil {
		return model.SlotKey{}, fmt.Errorf("%w: %q/%q", ErrInvalidKey, group, chi.URLParam(r, "index"))
	}
	return model.SlotKey{Group: group, Index: index}, nil
}
