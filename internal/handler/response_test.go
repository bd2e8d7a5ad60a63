package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/devbada/hogumeter-sub001/internal/meter"
	"github.com/devbada/hogumeter-sub001/internal/repository"
	"github.com/devbada/hogumeter-sub001/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrNoActiveTrip, http.StatusNotFound},
		{service.ErrInvalidDeviceID, http.StatusBadRequest},
		{service.ErrInvalidTripID, http.StatusBadRequest},
		{service.ErrInvalidLocation, http.StatusBadRequest},
		{service.ErrInvalidFix, http.StatusBadRequest},
		{service.ErrInvalidPromptAction, http.StatusBadRequest},
		{service.ErrInvalidRegionCode, http.StatusBadRequest},
		{service.ErrInvalidTariff, http.StatusBadRequest},
		{service.ErrInvalidPage, http.StatusBadRequest},
		{service.ErrTripAlreadyActive, http.StatusConflict},
		{service.ErrTripNotReset, http.StatusConflict},
		{service.ErrTripStillRunning, http.StatusConflict},
		{meter.ErrNoPromptPending, http.StatusConflict},
		{service.ErrHomeRegionProtected, http.StatusForbidden},
		{meter.ErrNoTariffAvailable, http.StatusServiceUnavailable},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.err.Error(), func(t *testing.T) {
			t.Parallel()

			if got := mapErrorToHTTPStatus(tc.err); got != tc.want {
				t.Errorf("expected status %d for %v, got %d", tc.want, tc.err, got)
			}
		})
	}
}

func TestMapErrorToHTTPStatus_Wrapped(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading schedule: %w", repository.ErrNotFound)
	if got := mapErrorToHTTPStatus(wrapped); got != http.StatusNotFound {
		t.Errorf("expected wrapped ErrNotFound to map to 404, got %d", got)
	}
}
