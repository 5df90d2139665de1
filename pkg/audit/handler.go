package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/avtale/avtale/internal/rest"
	log "github.com/sirupsen/logrus"
)

const defaultRecentLimit = 20

type EntryDTO struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Handler struct {
	recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// GetRecent godoc
//
//	@Summary		Get recent audit entries
//	@Description	Returns the most recent audit entries, newest first
//	@Tags			audit
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum number of entries to return (default 20)"
//	@Success		200		{array}		EntryDTO
//	@Failure		400		{object}	rest.ErrorResponse
//	@Failure		403		{string}	string	"Forbidden"
//	@Failure		500		{string}	string	"Internal Server Error"
//	@Router			/api/admin/audit [get]
//	@Security		BearerAuth
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Request to get recent audit entries")
	limit := defaultRecentLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid limit",
				Details: "limit must be a positive integer",
			})
			if encodeErr != nil {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
			}
			return
		}
		limit = parsed
	}

	entries, err := h.recorder.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		ID:         entry.ID.String(),
		Actor:      entry.Actor,
		Action:     entry.Action,
		Subject:    entry.Subject,
		Detail:     entry.Detail,
		OccurredAt: entry.OccurredAt,
	}
}
