package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/score"
	"github.com/AdamBeresnev/super8/internal/service"
	"github.com/AdamBeresnev/super8/internal/snapshot"
	"github.com/AdamBeresnev/super8/internal/tournament"
)

var (
	badRequestErrors = []error{
		score.ErrInvalidScore,
		score.ErrTieBreakRequired,
		score.ErrMatchIncomplete,
		score.ErrInsufficientLead,
		tournament.ErrInvalidGroup,
		bracket.ErrParticipantsUndetermined,
		bracket.ErrParticipantMismatch,
		snapshot.ErrDeserialization,
		service.ErrEmptyName,
	}
	notFoundErrors = []error{
		tournament.ErrMatchNotFound,
		bracket.ErrUnknownStage,
	}
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	http.Error(w, msg, http.StatusNotFound)
}

func Forbidden(w http.ResponseWriter, msg string, err error) {
	slog.Warn("forbidden", "message", msg, "error", err)
	http.Error(w, msg, http.StatusForbidden)
}

// DomainError answers with the status matching err. The message of
// validation errors is shown to the user as is.
func DomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrReadOnly):
		Forbidden(w, err.Error(), err)
	case isAny(err, badRequestErrors):
		BadRequest(w, err.Error(), err)
	case isAny(err, notFoundErrors):
		NotFound(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
