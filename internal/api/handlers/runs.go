package handlers

import (
	"delivery-day-simulator/internal/api/dto"
	"delivery-day-simulator/internal/domain"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type RunHandler struct {
	Day *DayState
}

// Run re-simulates the day from the repositories and serves the new result.
// The body is optional; an empty body keeps the configured fleet.
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RunRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	opts := RunOptions{
		RunID:       strings.TrimSpace(req.RunID),
		ReturnToHub: req.ReturnToHub,
	}

	res, err := h.Day.Refresh(r.Context(), opts)
	if err != nil {
		status := statusForRunError(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("run day failed")
			writeError(w, r, status, "internal server error")
			return
		}
		writeError(w, r, status, err.Error())
		return
	}

	writeJSON(w, r, http.StatusCreated, toSummaryResponse(res))
}

// statusForRunError maps fatal planning errors to 422 and the rest to 500.
func statusForRunError(err error) int {
	switch {
	case errors.Is(err, domain.ErrConstraintConflict),
		errors.Is(err, domain.ErrDeadlineMiss),
		errors.Is(err, domain.ErrLookup):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
