package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/score"
	"github.com/AdamBeresnev/super8/internal/service"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"read only", service.ErrReadOnly, http.StatusForbidden, service.ErrReadOnly.Error()},
		{"tie break", score.ErrTieBreakRequired, http.StatusBadRequest, score.ErrTieBreakRequired.Error()},
		{"wrapped invalid score", fmt.Errorf("%w: maximum is 15 games", score.ErrInvalidScore), http.StatusBadRequest, "invalid score: maximum is 15 games"},
		{"wrong players", bracket.ErrParticipantMismatch, http.StatusBadRequest, bracket.ErrParticipantMismatch.Error()},
		{"unknown match", fmt.Errorf("%w: m9", tournament.ErrMatchNotFound), http.StatusNotFound, "match not found: m9"},
		{"unknown stage", bracket.ErrUnknownStage, http.StatusNotFound, bracket.ErrUnknownStage.Error()},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DomainError(rec, "failed to save", tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody+"\n", rec.Body.String())
		})
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"id": "p1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"p1"}`, rec.Body.String())
}
