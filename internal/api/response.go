package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/model"
)

type successBody struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

type errorBody struct {
	Error   string         `json:"error"`
	Details []engine.Issue `json:"details,omitempty"`
	Success bool           `json:"success"`
}

// resultBody is the per-stage response payload.
type resultBody struct {
	Status     string  `json:"status"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func newResult[S model.Status](r model.ConditionResult[S]) resultBody {
	return resultBody{
		Status:     string(r.Status),
		Label:      r.Status.Label(),
		Confidence: r.Confidence,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successBody{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string, details ...engine.Issue) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// writeFailure maps an engine or storage error onto a status code.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "Invalid input data", verr.Issues...)
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, common.UserMessage(err))
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		common.LogError(ctx, err, "Request failed", nil)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
