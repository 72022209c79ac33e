package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/savpro/sav-tracker/internal/middleware"
    "github.com/savpro/sav-tracker/internal/model"
    "github.com/savpro/sav-tracker/internal/policy"
    "github.com/savpro/sav-tracker/internal/queue"
    "github.com/savpro/sav-tracker/internal/repository"
)

// DeclarationHandler serves the declaration ledger: creation and
// correction by commercials, take/remarks/resolve by technicians,
// listing scoped by the authorization gate.  Publish, when set, is
// invoked after each successful lifecycle transition; failures are
// logged by the publisher and never fail the request.
type DeclarationHandler struct {
    Store   repository.Store
    Publish func(ctx context.Context, ev queue.DeclarationEvent) error
}

func NewDeclarationHandler(store repository.Store) *DeclarationHandler {
    return &DeclarationHandler{Store: store}
}

type declarationReq struct {
    CategoryID   string            `json:"category_id"`
    ClientID     string            `json:"client_id"`
    ProductName  string            `json:"product_name"`
    Reference    string            `json:"reference"`
    SerialNumber string            `json:"serial_number"`
    Description  string            `json:"description"`
    PhotoURL     *string           `json:"photo_url"`
    Accessories  []model.Accessory `json:"accessories"`
}

type remarksReq struct {
    TechnicianRemarks string `json:"technician_remarks"`
}

type resolveReq struct {
    Remarks *string `json:"remarks"`
}

// List returns the declarations visible to the caller: commercials see
// their own, technicians and admins see all, newest first.
func (h *DeclarationHandler) List(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    var (
        decls []model.Declaration
        err   error
    )
    if policy.CanListAllDeclarations(actor) {
        decls, err = h.Store.Declarations.ListAll(ctx)
    } else {
        decls, err = h.Store.Declarations.ListByCommercial(ctx, actor.ID)
    }
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, decls)
}

// Get returns a single declaration.  Declarations outside the caller's
// visibility read as 404 to hide their existence.
func (h *DeclarationHandler) Get(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Store.Declarations.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanViewDeclaration(actor, d) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }
    return c.JSON(http.StatusOK, d)
}

// Create opens a new declaration.  Status is forced to new regardless
// of input; the referenced category must exist and the referenced
// client must belong to the calling commercial.
func (h *DeclarationHandler) Create(c echo.Context) error {
    actor := middleware.Caller(c)
    if !policy.CanCreateDeclaration(actor) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "commercial role required"})
    }
    req, ok := h.bindAndValidate(c, actor)
    if !ok {
        return nil
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    d := model.Declaration{
        CommercialID: actor.ID,
        ClientID:     req.ClientID,
        CategoryID:   req.CategoryID,
        ProductName:  req.ProductName,
        Reference:    strings.TrimSpace(req.Reference),
        SerialNumber: strings.TrimSpace(req.SerialNumber),
        Description:  strings.TrimSpace(req.Description),
        PhotoURL:     req.PhotoURL,
        Accessories:  req.Accessories,
    }
    if err := h.Store.Declarations.Create(ctx, &d); err != nil {
        return storeErr(c, err)
    }
    h.publish(queue.EventDeclarationCreated, d)
    return c.JSON(http.StatusCreated, d)
}

// Update is the commercial correction path on core fields, permitted
// only while the declaration is still new.
func (h *DeclarationHandler) Update(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Store.Declarations.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanEditDeclaration(actor, d) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    }
    req, ok := h.bindAndValidate(c, actor)
    if !ok {
        return nil
    }

    d.CategoryID = req.CategoryID
    d.ClientID = req.ClientID
    d.ProductName = req.ProductName
    d.Reference = strings.TrimSpace(req.Reference)
    d.SerialNumber = strings.TrimSpace(req.SerialNumber)
    d.Description = strings.TrimSpace(req.Description)
    d.PhotoURL = req.PhotoURL
    d.Accessories = req.Accessories
    if err := h.Store.Declarations.UpdateCore(ctx, &d); err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// Delete removes an owned declaration at any status.
func (h *DeclarationHandler) Delete(c echo.Context) error {
    actor := middleware.Caller(c)
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Store.Declarations.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanDeleteDeclaration(actor, d) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    }
    if err := h.Store.Declarations.Delete(ctx, d.ID); err != nil {
        return storeErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Take claims a new declaration for the calling technician.  The store
// applies the status precondition atomically, so for any number of
// concurrent callers exactly one receives 200; the rest get 409.
func (h *DeclarationHandler) Take(c echo.Context) error {
    actor := middleware.Caller(c)
    if !policy.CanTakeDeclaration(actor) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "technician role required"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Store.Declarations.Take(ctx, c.Param("id"), actor.ID, time.Now())
    if err != nil {
        return storeErr(c, err)
    }
    h.publish(queue.EventDeclarationTaken, d)
    return c.JSON(http.StatusOK, d)
}

// Resolve closes an in_progress declaration.  Only the assigned
// technician may resolve; optional remarks overwrite the stored ones.
func (h *DeclarationHandler) Resolve(c echo.Context) error {
    actor := middleware.Caller(c)
    var req resolveReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Store.Declarations.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if d.TechnicianID != nil && !policy.CanWorkDeclaration(actor, d) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    }
    d, err = h.Store.Declarations.Resolve(ctx, d.ID, actor.ID, req.Remarks, time.Now())
    if err != nil {
        return storeErr(c, err)
    }
    h.publish(queue.EventDeclarationResolved, d)
    return c.JSON(http.StatusOK, d)
}

// UpdateRemarks overwrites the technician remarks while the
// declaration is in progress.  Full overwrite, not append.
func (h *DeclarationHandler) UpdateRemarks(c echo.Context) error {
    actor := middleware.Caller(c)
    var req remarksReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Store.Declarations.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if d.TechnicianID != nil && !policy.CanWorkDeclaration(actor, d) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours to modify"})
    }
    d, err = h.Store.Declarations.SetRemarks(ctx, d.ID, actor.ID, req.TechnicianRemarks)
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// bindAndValidate parses a create/update body and checks references:
// the category must exist and the client must be owned by the caller.
// When it returns false the error response has already been written.
func (h *DeclarationHandler) bindAndValidate(c echo.Context, actor policy.Actor) (declarationReq, bool) {
    var req declarationReq
    if err := c.Bind(&req); err != nil {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
        return req, false
    }
    req.ProductName = strings.TrimSpace(req.ProductName)
    if req.CategoryID == "" || req.ClientID == "" || req.ProductName == "" {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id, client_id and product_name required"})
        return req, false
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Store.Categories.GetByID(ctx, req.CategoryID); err != nil {
        if err == repository.ErrNotFound {
            _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
        } else {
            _ = storeErr(c, err)
        }
        return req, false
    }
    cl, err := h.Store.Clients.GetByID(ctx, req.ClientID)
    if err != nil || cl.CommercialID != actor.ID {
        if err != nil && err != repository.ErrNotFound {
            _ = storeErr(c, err)
        } else {
            _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown client"})
        }
        return req, false
    }

    if req.Accessories == nil {
        req.Accessories = []model.Accessory{}
    }
    for i := range req.Accessories {
        if req.Accessories[i].ID == "" {
            req.Accessories[i].ID = uuid.NewString()
        }
    }
    return req, true
}

// publish fires a lifecycle event without blocking the request.
func (h *DeclarationHandler) publish(eventType string, d model.Declaration) {
    if h.Publish == nil {
        return
    }
    ev := queue.DeclarationEvent{
        Type:           eventType,
        DeclarationID:  d.ID,
        CommercialID:   d.CommercialID,
        CommercialName: d.CommercialName,
        ClientName:     d.ClientName,
        ProductName:    d.ProductName,
        Status:         d.Status,
        OccurredAt:     time.Now().UTC().Format(time.RFC3339),
    }
    if d.TechnicianID != nil {
        ev.TechnicianID = *d.TechnicianID
    }
    if d.TechnicianName != nil {
        ev.TechnicianName = *d.TechnicianName
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = h.Publish(ctx, ev)
    }()
}
