package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/savpro/sav-tracker/internal/lifecycle"
    "github.com/savpro/sav-tracker/internal/repository"
)

// reqCtx bounds a storage call to the request with a 5 second timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// storeErr translates repository and lifecycle sentinel errors into the
// HTTP responses of the error taxonomy: 404 unknown id, 409 state
// conflicts (duplicate email, claim/resolve races, client in use), 403
// ownership denials, 500 for anything else.  The conflict responses
// carry a message telling the client the state changed under it so it
// refreshes instead of retrying blindly.
func storeErr(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrEmailExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
    case errors.Is(err, repository.ErrClientInUse):
        return c.JSON(http.StatusConflict, echo.Map{"error": "client has declarations attached"})
    case errors.Is(err, lifecycle.ErrNotAssigned):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    case errors.Is(err, lifecycle.ErrAlreadyTaken):
        return c.JSON(http.StatusConflict, echo.Map{"error": "declaration already taken"})
    case errors.Is(err, lifecycle.ErrNotInProgress):
        return c.JSON(http.StatusConflict, echo.Map{"error": "declaration is not in progress"})
    case errors.Is(err, lifecycle.ErrNotEditable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "declaration is no longer editable"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "state changed, refresh and retry"})
    }
    c.Logger().Errorf("store error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
