package middleware

// identity.go provides the helper used by rate limiting and caching to key
// requests by caller.  The external identity is what JWTAuth stored from
// the token subject; unauthenticated requests key as "guest".

import "github.com/labstack/echo/v4"

// externalID returns the authenticated caller's external identity or
// "guest" when the request carries no (valid) token.
func externalID(c echo.Context) string {
	if v := c.Get("external_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "guest"
}
