package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/edulabs/lab-room-booking/internal/middleware"
	"github.com/edulabs/lab-room-booking/internal/model"
	"github.com/edulabs/lab-room-booking/internal/queue"
	"github.com/edulabs/lab-room-booking/internal/repository"
	"github.com/edulabs/lab-room-booking/internal/schedule"
	queue_publisher "github.com/edulabs/lab-room-booking/internal/service"
)

// ApproveReservation handles POST /v1/reservations/:id/approve.  Only a
// requester whose profile carries the admin flag may approve; the check
// runs before any row is locked so a forbidden caller never takes locks.
func (h *BookingHandler) ApproveReservation(c echo.Context) error {
	return h.decideReservation(c, true)
}

// RejectReservation handles POST /v1/reservations/:id/reject.  Rejection
// deletes the pending row, freeing the slot; the published event is the
// remaining record of the decision.
func (h *BookingHandler) RejectReservation(c echo.Context) error {
	return h.decideReservation(c, false)
}

// decideReservation is the shared approve/reject path.  Both decisions
// lock the row, check it is still pending, mutate, commit, then
// invalidate the affected calendar month and publish the decision event.
func (h *BookingHandler) decideReservation(c echo.Context, approve bool) error {
	requester, err := h.resolveRequester(c)
	if err != nil {
		if errors.Is(err, repository.ErrRequesterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "requester not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !requester.IsAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
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

	// Snapshot before mutating; rejection deletes the row, so this is the
	// only chance to capture what the event and cache invalidation need.
	res, err := h.ReservationRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		log.Error().Err(err).Uint64("reservation_id", id).Msg("approval: lock failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	action := queue.ActionApproved
	if approve {
		err = h.ReservationRepo.ApproveTx(ctx, tx, id)
	} else {
		action = queue.ActionRejected
		err = h.ReservationRepo.RejectTx(ctx, tx, id)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidStateTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is no longer pending"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		log.Error().Err(err).Uint64("reservation_id", id).Str("action", action).Msg("approval: decision failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	middleware.InvalidateCalendar(ctx, h.Cache, h.CachePrefix, res.RoomID, res.StartsAt)

	roomName := ""
	if room, err := h.RoomRepo.GetByID(ctx, res.RoomID); err == nil {
		roomName = room.Name
	}
	sid := ""
	if res.SeriesID != nil {
		sid = *res.SeriesID
	}
	status := model.StatusConfirmed
	if !approve {
		status = "" // the row no longer exists
	}
	day := res.StartsAt.UTC().Format(dateLayout)
	_ = queue_publisher.PublishBookingEvent(ctx, queue.BookingEvent{
		Action:       action,
		Reservations: []uint64{id},
		SeriesID:     sid,
		RoomID:       res.RoomID,
		RoomName:     roomName,
		RequesterID:  res.RequesterID,
		Shift:        schedule.Classify(res.StartsAt),
		Status:       status,
		FirstDay:     day,
		LastDay:      day,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	})

	if approve {
		return c.JSON(http.StatusOK, echo.Map{"message": "reservation approved", "status": model.StatusConfirmed})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation rejected"})
}
