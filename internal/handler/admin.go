package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/savpro/sav-tracker/internal/middleware"
    "github.com/savpro/sav-tracker/internal/model"
    "github.com/savpro/sav-tracker/internal/policy"
    "github.com/savpro/sav-tracker/internal/repository"
)

// AdminHandler covers the account review desk: listing accounts,
// approving or rejecting registrations, changing roles, and the
// dashboard stats.
type AdminHandler struct {
    Store repository.Store
}

func NewAdminHandler(store repository.Store) *AdminHandler {
    return &AdminHandler{Store: store}
}

type userStatusReq struct {
    Status string `json:"status"`
}

type userRoleReq struct {
    Role string `json:"role"`
}

// ListUsers returns every account, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Store.Users.List(ctx)
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, users)
}

// ListPending returns accounts awaiting review.
func (h *AdminHandler) ListPending(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Store.Users.ListByStatus(ctx, model.UserPending)
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, users)
}

// UpdateUserStatus approves or rejects an account.  Admin accounts are
// immutable through this endpoint.
func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
    var req userStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Status != model.UserActive && req.Status != model.UserRejected {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or rejected"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    target, err := h.Store.Users.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanChangeUser(middleware.Caller(c), target) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "admin accounts cannot be modified"})
    }
    u, err := h.Store.Users.UpdateStatus(ctx, target.ID, req.Status)
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// UpdateUserRole reassigns a non-admin account between the commercial
// and technician roles.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
    var req userRoleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !model.ValidRegistrationRole(req.Role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be commercial or technician"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    target, err := h.Store.Users.GetByID(ctx, c.Param("id"))
    if err != nil {
        return storeErr(c, err)
    }
    if !policy.CanChangeUser(middleware.Caller(c), target) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "admin accounts cannot be modified"})
    }
    u, err := h.Store.Users.UpdateRole(ctx, target.ID, req.Role)
    if err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// Stats aggregates the dashboard counters: users broken down by
// approval status and by role, plus declarations by lifecycle status.
func (h *AdminHandler) Stats(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Store.Users.List(ctx)
    if err != nil {
        return storeErr(c, err)
    }
    decls, err := h.Store.Declarations.ListAll(ctx)
    if err != nil {
        return storeErr(c, err)
    }

    var pending, active, rejected int
    var commercials, technicians, admins int
    for _, u := range users {
        switch u.Status {
        case model.UserPending:
            pending++
        case model.UserActive:
            active++
        case model.UserRejected:
            rejected++
        }
        switch u.Role {
        case model.RoleCommercial:
            commercials++
        case model.RoleTechnician:
            technicians++
        case model.RoleAdmin:
            admins++
        }
    }
    var newCount, inProgress, resolved int
    for _, d := range decls {
        switch d.Status {
        case model.StatusNew:
            newCount++
        case model.StatusInProgress:
            inProgress++
        case model.StatusResolved:
            resolved++
        }
    }
    return c.JSON(http.StatusOK, echo.Map{
        "total_users":    len(users),
        "pending_users":  pending,
        "active_users":   active,
        "rejected_users": rejected,
        "commercials":    commercials,
        "technicians":    technicians,
        "admins":         admins,

        "total_declarations": len(decls),
        "new_declarations":   newCount,
        "in_progress":        inProgress,
        "resolved":           resolved,
    })
}
