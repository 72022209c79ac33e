package handler

import (
    "net/http" // HTTP status codes and primitives
    "net/mail" // email syntax validation
    "strings"  // string manipulation utilities

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/savpro/sav-tracker/internal/config"     // app configuration
    "github.com/savpro/sav-tracker/internal/model"      // domain entities
    "github.com/savpro/sav-tracker/internal/repository" // storage interfaces
    "github.com/savpro/sav-tracker/internal/utils"      // hashing and token issuing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg   config.Config
    Users repository.UserStore
}

func NewAuthHandler(cfg config.Config, u repository.UserStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    Name     string `json:"name"`
    Role     string `json:"role"` // commercial | technician
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Register: create a pending account. No token is issued; the account
// must be approved by an admin before login succeeds.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Name = strings.TrimSpace(req.Name)
    if req.Email == "" || req.Password == "" || req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and name required"})
    }
    if _, err := mail.ParseAddress(req.Email); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
    }
    if len(req.Password) < 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
    }
    role := strings.ToLower(strings.TrimSpace(req.Role))
    if !model.ValidRegistrationRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be commercial or technician"})
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u := model.User{
        Email:        req.Email,
        PasswordHash: hash,
        Name:         req.Name,
        Role:         role,
        Status:       model.UserPending,
    }
    if err := h.Users.Create(ctx, &u); err != nil {
        return storeErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

// Login: verify credentials, enforce the approval gate and return the
// session credential.  A wrong password and an unknown email produce
// the same 401; a correct password on a non-active account produces a
// distinct 403 so the client can show the awaiting-review screen.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    switch u.Status {
    case model.UserActive:
        // proceed
    case model.UserPending:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "account awaiting admin review"})
    default:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "account rejected"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Name, u.Role, h.Cfg.TokenTTLHours)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "token":   access.Token,
        "expires": access.Exp,
        "user":    u,
    })
}

// Me: simple protected endpoint echoing the token identity.
func (h *AuthHandler) Me(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "user_id": c.Get("user_id"),
        "email":   c.Get("email"),
        "name":    c.Get("name"),
        "role":    c.Get("role"),
    })
}
