package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/savpro/sav-tracker/internal/repository"
)

// CategoryHandler serves the read-only product category catalog.
type CategoryHandler struct {
    Categories repository.CategoryStore
}

func NewCategoryHandler(cat repository.CategoryStore) *CategoryHandler {
    return &CategoryHandler{Categories: cat}
}

// List returns all categories ordered by name.  Public reference data;
// responses are cacheable (the router wraps this route in the Redis
// response cache when one is configured).
func (h *CategoryHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    cats, err := h.Categories.List(ctx)
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, cats)
}
