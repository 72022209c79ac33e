package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(_ context.Context, _ *multipart.FileHeader) (string, error) {
	return f.url, f.err
}

func multipartCtx(t *testing.T, e *echo.Echo, field, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadPhoto(t *testing.T) {
	e := echo.New()

	t.Run("disk url resolved against request host", func(t *testing.T) {
		h := NewUploadHandler(&fakeUploader{url: "/uploads/abc.jpg"})
		c, rec := multipartCtx(t, e, "photo", "machine.jpg", []byte("fake-image"))
		c.Request().Host = "sav.example.com"
		c.Request().Header.Set("X-Forwarded-Proto", "https")
		require.NoError(t, h.Photo(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://sav.example.com/uploads/abc.jpg", decodeMap(t, rec)["url"])
	})

	t.Run("absolute urls pass through untouched", func(t *testing.T) {
		h := NewUploadHandler(&fakeUploader{url: "https://bucket.s3.eu-west-3.amazonaws.com/abc.png"})
		c, rec := multipartCtx(t, e, "photo", "machine.png", []byte("fake-image"))
		require.NoError(t, h.Photo(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://bucket.s3.eu-west-3.amazonaws.com/abc.png", decodeMap(t, rec)["url"])
	})

	t.Run("missing file part", func(t *testing.T) {
		h := NewUploadHandler(&fakeUploader{url: "/uploads/x.jpg"})
		c, rec := multipartCtx(t, e, "document", "machine.jpg", []byte("fake-image"))
		require.NoError(t, h.Photo(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("extension allow-list", func(t *testing.T) {
		h := NewUploadHandler(&fakeUploader{url: "/uploads/x"})
		for _, name := range []string{"report.pdf", "script.sh", "archive.zip", "noext"} {
			c, rec := multipartCtx(t, e, "photo", name, []byte("data"))
			require.NoError(t, h.Photo(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		}
		for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp"} {
			c, rec := multipartCtx(t, e, "photo", name, []byte("data"))
			require.NoError(t, h.Photo(c))
			assert.Equal(t, http.StatusOK, rec.Code, name)
		}
	})
}
