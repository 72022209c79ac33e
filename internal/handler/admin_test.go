package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savpro/sav-tracker/internal/model"
	"github.com/savpro/sav-tracker/internal/policy"
	"github.com/savpro/sav-tracker/internal/repository"
)

func TestAdminUserReview(t *testing.T) {
	e := echo.New()
	s := repository.NewMemory().Stores()
	h := NewAdminHandler(s)
	ctx := context.Background()

	adm := activeUser(t, s, "adm@example.com", "Ada", model.RoleAdmin)
	admin := policy.Actor{ID: adm.ID, Role: adm.Role}

	pending := model.User{Email: "p@example.com", Name: "P", Role: model.RoleCommercial, Status: model.UserPending, PasswordHash: "x"}
	require.NoError(t, s.Users.Create(ctx, &pending))

	t.Run("pending list", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodGet, "/api/admin/users/pending", "", &admin)
		require.NoError(t, h.ListPending(c))
		require.Equal(t, http.StatusOK, rec.Code)
		var users []model.User
		require.NoError(t, jsonDecode(rec, &users))
		require.Len(t, users, 1)
		assert.Equal(t, pending.ID, users[0].ID)
	})

	t.Run("approve", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPut, "/status", `{"status":"active"}`, &admin, "id", pending.ID)
		require.NoError(t, h.UpdateUserStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "active", decodeMap(t, rec)["status"])
	})

	t.Run("invalid status value", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPut, "/status", `{"status":"pending"}`, &admin, "id", pending.ID)
		require.NoError(t, h.UpdateUserStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin account is immutable", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPut, "/status", `{"status":"rejected"}`, &admin, "id", adm.ID)
		require.NoError(t, h.UpdateUserStatus(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		c, rec = jsonCtx(t, e, http.MethodPut, "/role", `{"role":"technician"}`, &admin, "id", adm.ID)
		require.NoError(t, h.UpdateUserRole(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role change", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPut, "/role", `{"role":"technician"}`, &admin, "id", pending.ID)
		require.NoError(t, h.UpdateUserRole(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "technician", decodeMap(t, rec)["role"])

		// promoting to admin through this endpoint is refused
		c, rec = jsonCtx(t, e, http.MethodPut, "/role", `{"role":"admin"}`, &admin, "id", pending.ID)
		require.NoError(t, h.UpdateUserRole(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPut, "/status", `{"status":"active"}`, &admin, "id", "ghost")
		require.NoError(t, h.UpdateUserStatus(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminStats(t *testing.T) {
	e := echo.New()
	s := repository.NewMemory().Stores()
	h := NewAdminHandler(s)
	ctx := context.Background()

	adm := activeUser(t, s, "adm@example.com", "Ada", model.RoleAdmin)
	admin := policy.Actor{ID: adm.ID, Role: adm.Role}
	com := activeUser(t, s, "com@example.com", "Claire", model.RoleCommercial)
	tech := activeUser(t, s, "tech@example.com", "Tina", model.RoleTechnician)
	pending := model.User{Email: "p@example.com", Name: "P", Role: model.RoleCommercial, Status: model.UserPending, PasswordHash: "x"}
	require.NoError(t, s.Users.Create(ctx, &pending))
	rejected := model.User{Email: "r@example.com", Name: "R", Role: model.RoleTechnician, Status: model.UserRejected, PasswordHash: "x"}
	require.NoError(t, s.Users.Create(ctx, &rejected))

	cl := ownedClient(t, s, com.ID, "Durand SARL")
	newDecl(t, s, com.ID, cl.ID)
	d2 := newDecl(t, s, com.ID, cl.ID)
	d3 := newDecl(t, s, com.ID, cl.ID)
	_, err := s.Declarations.Take(ctx, d2.ID, tech.ID, time.Now())
	require.NoError(t, err)
	_, err = s.Declarations.Take(ctx, d3.ID, tech.ID, time.Now())
	require.NoError(t, err)
	_, err = s.Declarations.Resolve(ctx, d3.ID, tech.ID, nil, time.Now())
	require.NoError(t, err)

	c, rec := jsonCtx(t, e, http.MethodGet, "/api/admin/stats", "", &admin)
	require.NoError(t, h.Stats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeMap(t, rec)
	assert.EqualValues(t, 5, stats["total_users"])
	assert.EqualValues(t, 1, stats["pending_users"])
	assert.EqualValues(t, 3, stats["active_users"])
	assert.EqualValues(t, 1, stats["rejected_users"])
	assert.EqualValues(t, 2, stats["commercials"])
	assert.EqualValues(t, 2, stats["technicians"])
	assert.EqualValues(t, 1, stats["admins"])
	assert.EqualValues(t, 3, stats["total_declarations"])
	assert.EqualValues(t, 1, stats["new_declarations"])
	assert.EqualValues(t, 1, stats["in_progress"])
	assert.EqualValues(t, 1, stats["resolved"])
}
