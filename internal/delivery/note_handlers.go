package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type NoteHandler struct {
	notes ports.NoteService
	log   *logger.ZapLogger
}

func NewNoteHandler(notes ports.NoteService, log *logger.ZapLogger) *NoteHandler {
	return &NoteHandler{
		notes: notes,
		log:   log,
	}
}

// List returns the caller's notes, newest first.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	notes, err := h.notes.List(r.Context(), user.ID)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "note list failed", Error: err})
		http.Error(w, "failed to list notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []ports.Note{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	note, err := h.notes.Get(r.Context(), user.ID, id)
	if errors.Is(err, ports.ErrNotFound) {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "note get failed", Error: err})
		http.Error(w, "failed to fetch note", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(note)
}
