package http

import (
	"encoding/json"
	"net/http"
	"time"

	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

type auditEvent struct {
	Seq       int64           `json:"seq"`
	Type      string          `json:"typ"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// GET /admin/events?q=AttemptSubmitted&limit=100
// Searches the event_log written alongside every submission.
func AuditSearchHandler(repo *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, err := repo.Search(r.Context(), r.URL.Query().Get("q"), parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			respondError(w, r, err)
			return
		}
		out := make([]auditEvent, 0, len(evs))
		for _, e := range evs {
			data := json.RawMessage(e.DataJSON)
			if !json.Valid(data) {
				data, _ = json.Marshal(e.DataJSON)
			}
			out = append(out, auditEvent{
				Seq:       e.Seq,
				Type:      e.Type,
				Key:       e.Key,
				Data:      data,
				CreatedAt: time.UnixMilli(e.CreatedAt).UTC(),
			})
		}
		respondJSON(w, http.StatusOK, out)
	}
}
