package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/edulabs/lab-room-booking/internal/repository"
	"github.com/edulabs/lab-room-booking/internal/schedule"
	"github.com/edulabs/lab-room-booking/internal/series"
)

// ListMyBookings handles GET /v1/my-bookings.  Flat reservation rows are
// folded into the grouped listing: multi-day series collapse into one
// item, active entries come before history, and history reads most
// recent first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	requester, err := h.resolveRequester(c)
	if err != nil {
		if errors.Is(err, repository.ErrRequesterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "requester not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	details, err := h.ReservationRepo.ListByRequester(c.Request().Context(), requester.ID)
	if err != nil {
		log.Error().Err(err).Uint64("requester_id", requester.ID).Msg("my-bookings: listing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	entries := make([]series.Entry, 0, len(details))
	for _, d := range details {
		subject := repository.SubjectPlaceholder
		if d.SubjectLabel != nil && *d.SubjectLabel != "" {
			subject = *d.SubjectLabel
		}
		entries = append(entries, series.Entry{
			ID:           d.ID,
			SeriesID:     d.SeriesID,
			Status:       d.Status,
			StartsAt:     d.StartsAt,
			EndsAt:       d.EndsAt,
			RoomID:       d.RoomID,
			RoomName:     d.RoomName,
			SubjectLabel: subject,
			Shift:        schedule.Classify(d.StartsAt),
		})
	}

	items := series.Build(entries, time.Now().UTC())
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}
