package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health answers liveness probes.  It deliberately touches no
// dependency: a degraded Redis or broker must not fail the probe, and
// the memory-store mode has no database to check at all.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
