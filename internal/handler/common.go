package handler // handler defines http handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edulabs/lab-room-booking/internal/repository"
)

// BookingHandler bundles the repositories and side-channel clients needed
// by the booking core: creating reservations, the availability calendar,
// approval decisions, the grouped bookings listing and checklist
// completion.  JWT authentication has already run by the time any method
// here executes; methods may still return 401 when the external identity
// cannot be extracted from the context.
type BookingHandler struct {
	UserRepo        *repository.UserRepo        // resolves requesters and their admin flag
	RoomRepo        *repository.RoomRepo        // room names for responses and events
	ReservationRepo *repository.ReservationRepo // reservations and their lifecycle
	ChecklistRepo   *repository.ChecklistRepo   // post-use inspection records
	Cache           *redis.Client               // calendar cache; may be nil
	CachePrefix     string                      // key namespace for calendar entries
}

// NewBookingHandler constructs a BookingHandler with the provided
// dependencies.  Repositories must be non-nil; the Redis client may be
// nil, which disables cache invalidation alongside the cache itself.
func NewBookingHandler(userRepo *repository.UserRepo, roomRepo *repository.RoomRepo, reservationRepo *repository.ReservationRepo, checklistRepo *repository.ChecklistRepo, rdb *redis.Client, cachePrefix string) *BookingHandler {
	if userRepo == nil || roomRepo == nil || reservationRepo == nil || checklistRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		UserRepo:        userRepo,
		RoomRepo:        roomRepo,
		ReservationRepo: reservationRepo,
		ChecklistRepo:   checklistRepo,
		Cache:           rdb,
		CachePrefix:     cachePrefix,
	}
}

// getExternalID extracts the identity-provider subject stored by the JWT
// middleware.
func getExternalID(c echo.Context) (string, error) {
	if s, ok := c.Get("external_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("missing external_id in context")
}

// resolveRequester maps the authenticated external identity to its
// requester row, including the profile admin flag.  Every write path goes
// through this single lookup so the "is this user an admin" question has
// exactly one answer.
func (h *BookingHandler) resolveRequester(c echo.Context) (repository.Requester, error) {
	ext, err := getExternalID(c)
	if err != nil {
		return repository.Requester{}, err
	}
	return h.UserRepo.GetByExternalID(c.Request().Context(), ext)
}
