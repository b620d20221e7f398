package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/domain"
)

func writeJSON(log *zap.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && log != nil {
		log.Warn("response encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(log *zap.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(log, w, r, status, map[string]string{"error": msg})
}

// decodeBody rejects unknown fields and trailing data so malformed portal
// payloads fail loudly instead of half-applying.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}

var errTrailingData = trailingDataError{}

type trailingDataError struct{}

func (trailingDataError) Error() string { return "body must contain only one JSON object" }

// teamAndDate validates the two query parameters shared by the read views.
func teamAndDate(r *http.Request) (domain.Team, string, string) {
	team := domain.Team(r.URL.Query().Get("team"))
	if !team.Valid() {
		return "", "", "unknown team"
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", "date must be formatted 2006-01-02"
	}

	return team, date, ""
}
