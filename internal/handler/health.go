package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and monitoring
// systems.  It returns a plain text "ok" with a 200 status and touches
// no dependencies, so it stays green even when MySQL or Redis are down.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
