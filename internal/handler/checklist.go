package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
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

// ListPendingReports handles GET /v1/pending-reports: confirmed
// reservations whose start time has passed and that therefore still owe
// a checklist.  Admins see everyone's, other requesters only their own.
func (h *BookingHandler) ListPendingReports(c echo.Context) error {
	requester, err := h.resolveRequester(c)
	if err != nil {
		if errors.Is(err, repository.ErrRequesterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "requester not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	scope := requester.ID
	if requester.IsAdmin {
		scope = 0 // all requesters
	}
	details, err := h.ReservationRepo.ListPendingReports(c.Request().Context(), scope, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Uint64("requester_id", requester.ID).Msg("pending-reports: listing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_reports": details})
}

// validateItems checks the tagged item outcomes: "ok" stands alone,
// "damaged" needs at least one recognized reason.
func validateItems(items []model.ChecklistItem) error {
	valid := map[string]bool{
		model.ReasonBroken:  true,
		model.ReasonMissing: true,
		model.ReasonDirty:   true,
		model.ReasonWorn:    true,
	}
	for i, it := range items {
		switch it.Outcome {
		case model.ItemOK:
		case model.ItemDamaged:
			if len(it.Reasons) == 0 {
				return fmt.Errorf("item %d: damaged outcome requires at least one reason", i)
			}
			for _, r := range it.Reasons {
				if !valid[r] {
					return fmt.Errorf("item %d: unknown damage reason %q", i, r)
				}
			}
		default:
			return fmt.Errorf("item %d: unknown outcome %q", i, it.Outcome)
		}
	}
	return nil
}

// SubmitChecklist handles POST /v1/checklists.  The submission targets
// either one reservation (reservation_id) or a whole series (series_id):
// a reservation id closes exactly that row, a series id fans out to
// every still-confirmed member.  Each closed member gets a completed
// checklist row and moves to CONCLUDED, all inside one transaction.
func (h *BookingHandler) SubmitChecklist(c echo.Context) error {
	requester, err := h.resolveRequester(c)
	if err != nil {
		if errors.Is(err, repository.ErrRequesterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "requester not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		ReservationID uint64                `json:"reservation_id"`
		SeriesID      string                `json:"series_id"`
		MaterialOK    bool                  `json:"material_ok"`
		CleanlinessOK bool                  `json:"cleanliness_ok"`
		Note          *string               `json:"note,omitempty"`
		Subject       *string               `json:"subject,omitempty"`
		Items         []model.ChecklistItem `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ReservationID == 0 && body.SeriesID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id or series_id is required"})
	}
	if body.ReservationID != 0 && body.SeriesID != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id and series_id are mutually exclusive"})
	}
	if err := validateItems(body.Items); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
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

	// A series id fans out to every still-confirmed member; a reservation
	// id closes only that row and it must itself be confirmed.
	var members []model.Reservation
	if body.SeriesID != "" {
		members, err = h.ReservationRepo.ConfirmedBySeriesTx(ctx, tx, body.SeriesID)
		if err != nil {
			log.Error().Err(err).Str("series_id", body.SeriesID).Msg("checklist: series lock failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	} else {
		target, err := h.ReservationRepo.GetForUpdateTx(ctx, tx, body.ReservationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
			}
			log.Error().Err(err).Uint64("reservation_id", body.ReservationID).Msg("checklist: lock failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if target.Status == model.StatusConfirmed {
			members = []model.Reservation{target}
		}
	}
	if len(members) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrNothingToClose.Error()})
	}
	if members[0].RequesterID != requester.ID && !requester.IsAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}

	recordedAt := time.Now().UTC()
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		cl := model.Checklist{
			ReservationID: m.ID,
			MaterialOK:    body.MaterialOK,
			CleanlinessOK: body.CleanlinessOK,
			Note:          body.Note,
			SubjectLabel:  body.Subject,
			Items:         body.Items,
			RecordedAt:    recordedAt,
		}
		if err := h.ChecklistRepo.UpsertCompletedTx(ctx, tx, &cl); err != nil {
			log.Error().Err(err).Uint64("reservation_id", m.ID).Msg("checklist: upsert failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := h.ReservationRepo.ConcludeTx(ctx, tx, m.ID); err != nil {
			if errors.Is(err, repository.ErrInvalidStateTransition) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not in a closable state"})
			}
			log.Error().Err(err).Uint64("reservation_id", m.ID).Msg("checklist: conclude failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		ids = append(ids, m.ID)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	lead := members[0]
	starts := make([]time.Time, 0, len(members))
	for _, m := range members {
		starts = append(starts, m.StartsAt)
	}
	middleware.InvalidateCalendar(ctx, h.Cache, h.CachePrefix, lead.RoomID, starts...)

	roomName := ""
	if room, err := h.RoomRepo.GetByID(ctx, lead.RoomID); err == nil {
		roomName = room.Name
	}
	sid := body.SeriesID
	if sid == "" && lead.SeriesID != nil {
		sid = *lead.SeriesID
	}
	_ = queue_publisher.PublishBookingEvent(ctx, queue.BookingEvent{
		Action:       queue.ActionConcluded,
		Reservations: ids,
		SeriesID:     sid,
		RoomID:       lead.RoomID,
		RoomName:     roomName,
		RequesterID:  lead.RequesterID,
		Shift:        schedule.Classify(lead.StartsAt),
		Status:       model.StatusConcluded,
		FirstDay:     members[0].StartsAt.UTC().Format(dateLayout),
		LastDay:      members[len(members)-1].StartsAt.UTC().Format(dateLayout),
		OccurredAt:   recordedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "checklist recorded",
		"concluded": ids,
	})
}
