package attendance

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"intelliface/backend/foundation/web"
	engine "intelliface/backend/internal/attendance"
)

func TestEngineError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", engine.ErrInvalidInput, http.StatusBadRequest},
		{"not enrolled", engine.ErrNotEnrolled, http.StatusBadRequest},
		{"no location assigned", engine.ErrNoLocationAssigned, http.StatusBadRequest},
		{"already checked in", engine.ErrAlreadyCheckedIn, http.StatusBadRequest},
		{"already checked out", engine.ErrAlreadyCheckedOut, http.StatusBadRequest},
		{"face mismatch", engine.ErrFaceMismatch, http.StatusBadRequest},
		{"outside geofence", engine.ErrOutsideGeofence, http.StatusForbidden},
		{"no check-in found", engine.ErrNoCheckInFound, http.StatusNotFound},
		{"verification unavailable", engine.ErrVerificationUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, web.StatusOf(engineError(tt.err)))
		})
	}
}

func TestEngineError_WrappedSentinel(t *testing.T) {
	err := errors.Wrap(engine.ErrVerificationUnavailable, "calling /verify_face")
	assert.Equal(t, http.StatusServiceUnavailable, web.StatusOf(engineError(err)))
}

func TestEngineError_UnknownErrorPassesThrough(t *testing.T) {
	err := errors.New("db connection lost")
	assert.Equal(t, http.StatusInternalServerError, web.StatusOf(engineError(err)))
}
