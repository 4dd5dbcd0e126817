package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/edulabs/lab-room-booking/internal/middleware"
	"github.com/edulabs/lab-room-booking/internal/model"
	"github.com/edulabs/lab-room-booking/internal/queue"
	"github.com/edulabs/lab-room-booking/internal/repository"
	"github.com/edulabs/lab-room-booking/internal/schedule"
	queue_publisher "github.com/edulabs/lab-room-booking/internal/service"
)

const dateLayout = "2006-01-02"

// CreateBooking handles POST /v1/bookings.  It expands the requested date
// range into one reservation per weekday of the chosen shift and inserts
// them all in a single transaction.  Admin requesters get confirmed rows
// immediately; everyone else submits a pending request.  A conflict on
// any day rolls back the whole request, so a multi-day series is never
// half-created.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	requester, err := h.resolveRequester(c)
	if err != nil {
		if errors.Is(err, repository.ErrRequesterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "requester not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		RoomID  uint64  `json:"room_id"`
		Shift   string  `json:"shift"`
		From    string  `json:"from"`
		To      string  `json:"to"`
		Subject *string `json:"subject,omitempty"`
		Note    *string `json:"note,omitempty"`
		ClassID *uint64 `json:"class_id,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	if body.From == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from date is required"})
	}
	from, err := time.ParseInLocation(dateLayout, body.From, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to := from // a missing "to" means a single-day booking
	if body.To != "" {
		if to, err = time.ParseInLocation(dateLayout, body.To, time.UTC); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
	}

	slots, err := schedule.Expand(from, to, body.Shift)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidShift):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown shift"})
		case errors.Is(err, schedule.ErrNoValidDays):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "selected range contains only weekend days"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to expand date range"})
	}

	status := model.StatusPending
	if requester.IsAdmin {
		status = model.StatusConfirmed
	}

	// A shared series id links the rows of a multi-day request; single-day
	// bookings stay unlinked.
	var seriesID *string
	if len(slots) > 1 {
		sid := uuid.NewString()
		seriesID = &sid
	}

	rows := make([]model.Reservation, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, model.Reservation{
			RoomID:       body.RoomID,
			RequesterID:  requester.ID,
			StartsAt:     s.StartsAt,
			EndsAt:       s.EndsAt,
			Status:       status,
			Note:         body.Note,
			SubjectLabel: body.Subject,
			SeriesID:     seriesID,
			ClassID:      body.ClassID,
		})
	}

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.ReservationRepo.CreateBatchTx(ctx, tx, rows); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "this room is already booked in that window"})
		}
		log.Error().Err(err).Uint64("room_id", body.RoomID).Msg("booking: insert failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Stale month views must not keep showing the slot as free.
	starts := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		starts = append(starts, r.StartsAt)
	}
	middleware.InvalidateCalendar(ctx, h.Cache, h.CachePrefix, body.RoomID, starts...)

	roomName := ""
	if room, err := h.RoomRepo.GetByID(ctx, body.RoomID); err == nil {
		roomName = room.Name
	}
	sid := ""
	if seriesID != nil {
		sid = *seriesID
	}
	_ = queue_publisher.PublishBookingEvent(ctx, queue.BookingEvent{
		Action:      queue.ActionCreated,
		SeriesID:    sid,
		RoomID:      body.RoomID,
		RoomName:    roomName,
		RequesterID: requester.ID,
		Shift:       body.Shift,
		Status:      status,
		FirstDay:    slots[0].Day.Format(dateLayout),
		LastDay:     slots[len(slots)-1].Day.Format(dateLayout),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})

	message := "booking request submitted for approval"
	if requester.IsAdmin {
		message = "booking confirmed"
	}
	resp := echo.Map{
		"message":      message,
		"status":       status,
		"reservations": len(rows),
	}
	if seriesID != nil {
		resp["series_id"] = *seriesID
	}
	return c.JSON(http.StatusCreated, resp)
}
