package handler

import (
    "net/http"
    "path/filepath"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/savpro/sav-tracker/internal/service"
)

const maxUploadBytes = 10 << 20 // 10MB

var allowedPhotoExt = map[string]bool{
    ".jpeg": true,
    ".jpg":  true,
    ".png":  true,
    ".gif":  true,
    ".webp": true,
}

// UploadHandler accepts declaration photos as multipart form data and
// stores them through the configured Uploader.
type UploadHandler struct {
    Uploader service.Uploader
}

func NewUploadHandler(up service.Uploader) *UploadHandler {
    return &UploadHandler{Uploader: up}
}

// Photo receives a single "photo" file part, checks extension and
// size, stores it and returns the public URL.  Disk uploads come back
// site-relative ("/uploads/..."), so they are resolved against the
// request host before responding.
func (h *UploadHandler) Photo(c echo.Context) error {
    fh, err := c.FormFile("photo")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo file required"})
    }
    if fh.Size > maxUploadBytes {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds 10MB limit"})
    }
    ext := strings.ToLower(filepath.Ext(fh.Filename))
    if !allowedPhotoExt[ext] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "only jpeg, jpg, png, gif and webp images are allowed"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    url, err := h.Uploader.Upload(ctx, fh)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
    }
    if strings.HasPrefix(url, "/") {
        url = requestBase(c) + url
    }
    return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// requestBase reconstructs the external base URL, honouring proxy
// headers when present.
func requestBase(c echo.Context) string {
    scheme := c.Request().Header.Get("X-Forwarded-Proto")
    if scheme == "" {
        scheme = c.Scheme()
    }
    host := c.Request().Header.Get("X-Forwarded-Host")
    if host == "" {
        host = c.Request().Host
    }
    return scheme + "://" + host
}
