package api

import (
	"net/http"
	"strconv"
)

// BoardHandler serves whole-board reads and the wipe action.
type BoardHandler struct {
	deps Dependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps Dependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// HandleGetBoard handles GET /board.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Board(r.Context()))
}

// HandleGetRanks handles GET /ranks.
func (h *BoardHandler) HandleGetRanks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Ranks(r.Context()))
}

// HandleReset handles POST /reset?confirm=true. It deletes the persisted
// board and answers with the now empty board.
func (h *BoardHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !ok {
		writeError(w, http.StatusBadRequest, "confirm_required", ErrConfirmRequired)
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Board(r.Context()))
}
