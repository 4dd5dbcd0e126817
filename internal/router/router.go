package router // package router defines how HTTP routes are registered for the API

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edulabs/lab-room-booking/internal/config"
	"github.com/edulabs/lab-room-booking/internal/handler"
	"github.com/edulabs/lab-room-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// calendarKeyFunc derives the response-cache key for the monthly
// availability view.  Requests with an unparsable room id or an
// out-of-range month are left uncached ("" skips the cache) so the
// handler's validation errors never get stored.
func calendarKeyFunc(prefix string) middleware.KeyFunc {
	return func(c echo.Context) string {
		roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || roomID == 0 {
			return ""
		}
		month, err := strconv.Atoi(c.QueryParam("month"))
		if err != nil || month < 1 || month > 12 {
			return ""
		}
		year, err := strconv.Atoi(c.QueryParam("year"))
		if err != nil || year < 1 {
			return ""
		}
		return middleware.CalendarKey(prefix, roomID, year, time.Month(month))
	}
}

// RegisterBooking registers the booking API under /v1.  Every route
// requires a valid JWT from the identity provider carrying either the
// ADMIN or MEMBER role; finer-grained authorization (who may approve,
// whose checklist counts) is decided inside the handlers against the
// requester's profile row.  The availability read sits behind the Redis
// response cache; writes go through the shared token-bucket limiter.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MEMBER"),
		middleware.NewTokenBucket(rlCfg, rdb),
	)

	// Availability calendar, cached per room and month.
	g.GET("/rooms/:id/reservations", h.ListRoomMonth,
		middleware.NewResponseCache(cacheCfg, rdb, calendarKeyFunc(cacheCfg.Prefix)))

	// Booking lifecycle.
	g.POST("/bookings", h.CreateBooking)
	g.POST("/reservations/:id/approve", h.ApproveReservation)
	g.POST("/reservations/:id/reject", h.RejectReservation)

	// Requester-facing listings.
	g.GET("/my-bookings", h.ListMyBookings)
	g.GET("/pending-reports", h.ListPendingReports)

	// Post-use inspection.
	g.POST("/checklists", h.SubmitChecklist)
}
