package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/savpro/sav-tracker/internal/middleware"
    "github.com/savpro/sav-tracker/internal/model"
    "github.com/savpro/sav-tracker/internal/policy"
    "github.com/savpro/sav-tracker/internal/repository"
)

// ClientHandler serves the client registry: commercials manage their
// own customers, admins may list all of them read-only.
type ClientHandler struct {
    Clients repository.ClientStore
}

func NewClientHandler(cl repository.ClientStore) *ClientHandler {
    return &ClientHandler{Clients: cl}
}

type clientReq struct {
    Name    string `json:"name"`
    Email   string `json:"email"`
    Phone   string `json:"phone"`
    Address string `json:"address"`
}

// List returns the caller's clients; admins see the whole registry.
func (h *ClientHandler) List(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    var (
        clients []model.Client
        err     error
    )
    if policy.CanListAllClients(actor) {
        clients, err = h.Clients.ListAll(ctx)
    } else {
        clients, err = h.Clients.ListByCommercial(ctx, actor.ID)
    }
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, clients)
}

// Get returns a single client.  Clients outside the caller's
// visibility read as 404 so one commercial cannot probe another's
// customer list.
func (h *ClientHandler) Get(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    cl, err := h.Clients.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanViewClient(actor, cl) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }
    return c.JSON(http.StatusOK, cl)
}

// Create registers a new client owned by the calling commercial.
func (h *ClientHandler) Create(c echo.Context) error {
    actor := middleware.Caller(c)
    if !policy.CanCreateClient(actor) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "commercial role required"})
    }
    var req clientReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    cl := model.Client{
        Name:         req.Name,
        Email:        strings.TrimSpace(req.Email),
        Phone:        strings.TrimSpace(req.Phone),
        Address:      strings.TrimSpace(req.Address),
        CommercialID: actor.ID,
    }
    if err := h.Clients.Create(ctx, &cl); err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusCreated, cl)
}

// Update overwrites the contact fields of an owned client.
func (h *ClientHandler) Update(c echo.Context) error {
    actor := middleware.Caller(c)
    var req clientReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    cl, err := h.Clients.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanMutateClient(actor, cl) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    }
    cl.Name = req.Name
    cl.Email = strings.TrimSpace(req.Email)
    cl.Phone = strings.TrimSpace(req.Phone)
    cl.Address = strings.TrimSpace(req.Address)
    if err := h.Clients.Update(ctx, &cl); err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, cl)
}

// Delete removes an owned client, refusing while declarations still
// reference it.
func (h *ClientHandler) Delete(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    cl, err := h.Clients.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanMutateClient(actor, cl) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    }
    if err := h.Clients.Delete(ctx, cl.ID); err != nil {
        return storeErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
