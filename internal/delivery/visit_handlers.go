package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/vetwriter/vetwriter/internal/ports"
)

const maxUploadBytes = 32 << 20

type VisitHandler struct {
	intake ports.IntakeService
	log    *logger.ZapLogger
}

func NewVisitHandler(intake ports.IntakeService, log *logger.ZapLogger) *VisitHandler {
	return &VisitHandler{
		intake: intake,
		log:    log,
	}
}

// Intake accepts the recorded visit audio and answers with the job id.
// The note itself appears later through the listing endpoints.
func (h *VisitHandler) Intake(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "missing audio: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	patientName := r.URL.Query().Get("patientName")
	if patientName == "" {
		patientName = r.FormValue("patientName")
	}

	jobID, err := h.intake.Submit(
		r.Context(),
		user.ID,
		patientName,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		var unavailable *ports.QueueUnavailableError
		switch {
		case errors.As(err, &unavailable):
			h.log.Log(logger.LogEntry{Level: "error", Message: "intake queue unavailable", Error: err})
			http.Error(w, "queue unavailable, retry later", http.StatusServiceUnavailable)
		case errors.Is(err, ports.ErrUnauthorized):
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		default:
			h.log.Log(logger.LogEntry{Level: "error", Message: "intake failed", Error: err})
			http.Error(w, "failed to accept recording", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"jobId": jobID})
}
