package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savpro/sav-tracker/internal/model"
	"github.com/savpro/sav-tracker/internal/repository"
	"github.com/savpro/sav-tracker/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, repository.Store) {
	t.Helper()
	s := repository.NewMemory().Stores()
	return NewAuthHandler(testConfig(), s.Users), s
}

func registerBody(email, role string) string {
	return fmt.Sprintf(`{"email":%q,"password":"secret1","name":"Jean","role":%q}`, email, role)
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	e := echo.New()
	h, s := newAuthHandler(t)

	c, rec := jsonCtx(t, e, http.MethodPost, "/api/auth/register", registerBody("jean@example.com", "commercial"), nil)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeMap(t, rec)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "pending", user["status"])
	assert.Equal(t, "commercial", user["role"])
	assert.NotContains(t, user, "password_hash", "password hash never leaves the API")
	assert.NotContains(t, body, "token", "registration issues no session")

	stored, err := s.Users.GetByEmail(context.Background(), "jean@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.UserPending, stored.Status)
}

func TestRegisterValidation(t *testing.T) {
	e := echo.New()
	h, _ := newAuthHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"email":"a@b.com"}`},
		{"bad email", registerBody("not-an-email", "commercial")},
		{"short password", `{"email":"a@b.com","password":"abc","name":"A","role":"commercial"}`},
		{"admin role refused", registerBody("a@b.com", "admin")},
		{"unknown role", registerBody("a@b.com", "manager")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonCtx(t, e, http.MethodPost, "/api/auth/register", tt.body, nil)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := echo.New()
	h, _ := newAuthHandler(t)

	c, rec := jsonCtx(t, e, http.MethodPost, "/api/auth/register", registerBody("dup@example.com", "commercial"), nil)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// same address, different case
	c, rec = jsonCtx(t, e, http.MethodPost, "/api/auth/register", registerBody("Dup@Example.com", "technician"), nil)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginApprovalGate(t *testing.T) {
	e := echo.New()
	h, s := newAuthHandler(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)
	u := model.User{Email: "gate@example.com", Name: "G", Role: model.RoleCommercial, Status: model.UserPending, PasswordHash: hash}
	require.NoError(t, s.Users.Create(ctx, &u))

	login := `{"email":"gate@example.com","password":"secret1"}`

	// pending: correct password still refused with 403
	c, rec := jsonCtx(t, e, http.MethodPost, "/api/auth/login", login, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["error"], "awaiting")

	// approved: login succeeds and returns a token
	_, err = s.Users.UpdateStatus(ctx, u.ID, model.UserActive)
	require.NoError(t, err)
	c, rec = jsonCtx(t, e, http.MethodPost, "/api/auth/login", login, nil)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.NotEmpty(t, body["token"])

	// rejected: refused again
	_, err = s.Users.UpdateStatus(ctx, u.ID, model.UserRejected)
	require.NoError(t, err)
	c, rec = jsonCtx(t, e, http.MethodPost, "/api/auth/login", login, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["error"], "rejected")
}

func TestLoginInvalidCredentials(t *testing.T) {
	e := echo.New()
	h, s := newAuthHandler(t)

	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)
	u := model.User{Email: "real@example.com", Name: "R", Role: model.RoleTechnician, Status: model.UserActive, PasswordHash: hash}
	require.NoError(t, s.Users.Create(context.Background(), &u))

	// unknown email and wrong password are indistinguishable
	for _, body := range []string{
		`{"email":"ghost@example.com","password":"secret1"}`,
		`{"email":"real@example.com","password":"wrong"}`,
	} {
		c, rec := jsonCtx(t, e, http.MethodPost, "/api/auth/login", body, nil)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", decodeMap(t, rec)["error"])
	}
}
