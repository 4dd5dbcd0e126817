package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/edulabs/lab-room-booking/internal/repository"
	"github.com/edulabs/lab-room-booking/internal/schedule"
)

// ListRoomMonth handles GET /v1/rooms/:id/reservations?month=&year=.
// It returns every reservation starting within the requested calendar
// month, with the shift name derived from the start hour.  A read
// failure degrades to an empty list rather than a 5xx: the calendar
// screens treat "no data" and "nothing booked" the same way, and an
// availability outage must not block the booking form from rendering.
func (h *BookingHandler) ListRoomMonth(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be between 1 and 12"})
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}

	entries, err := h.ReservationRepo.ListForMonth(c.Request().Context(), roomID, year, time.Month(month))
	if err != nil {
		log.Error().Err(err).Uint64("room_id", roomID).Int("year", year).Int("month", month).
			Msg("availability: month listing failed")
		entries = []repository.MonthEntry{}
	}
	for i := range entries {
		entries[i].Shift = schedule.Classify(entries[i].StartsAt)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": entries})
}
