package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savpro/sav-tracker/internal/model"
	"github.com/savpro/sav-tracker/internal/policy"
	"github.com/savpro/sav-tracker/internal/repository"
)

func TestClientCRUD(t *testing.T) {
	e := echo.New()
	s := repository.NewMemory().Stores()
	h := NewClientHandler(s.Clients)

	com := activeUser(t, s, "com@example.com", "Claire", model.RoleCommercial)
	com2 := activeUser(t, s, "com2@example.com", "Omar", model.RoleCommercial)
	owner := policy.Actor{ID: com.ID, Role: com.Role}
	stranger := policy.Actor{ID: com2.ID, Role: com2.Role}
	admin := policy.Actor{ID: "adm", Role: model.RoleAdmin}

	var clientID string

	t.Run("create", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPost, "/api/clients", `{"name":"Durand SARL","email":"contact@durand.fr","phone":"0102030405"}`, &owner)
		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeMap(t, rec)
		clientID = body["id"].(string)
		assert.Equal(t, com.ID, body["commercial_id"], "ownership comes from the token, not the body")
	})

	t.Run("admin cannot create", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPost, "/api/clients", `{"name":"X"}`, &admin)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner and admin read, stranger gets 404", func(t *testing.T) {
		for _, a := range []policy.Actor{owner, admin} {
			c, rec := jsonCtx(t, e, http.MethodGet, "/api/clients/"+clientID, "", &a, "id", clientID)
			require.NoError(t, h.Get(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
		c, rec := jsonCtx(t, e, http.MethodGet, "/api/clients/"+clientID, "", &stranger, "id", clientID)
		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update by owner only", func(t *testing.T) {
		c, rec := jsonCtx(t, e, http.MethodPut, "/api/clients/"+clientID, `{"name":"Durand & Fils"}`, &owner, "id", clientID)
		require.NoError(t, h.Update(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Durand & Fils", decodeMap(t, rec)["name"])

		c, rec = jsonCtx(t, e, http.MethodPut, "/api/clients/"+clientID, `{"name":"Hijacked"}`, &stranger, "id", clientID)
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		// admins are read-only on clients
		c, rec = jsonCtx(t, e, http.MethodPut, "/api/clients/"+clientID, `{"name":"Hijacked"}`, &admin, "id", clientID)
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("list scoping", func(t *testing.T) {
		ownedClient(t, s, com2.ID, "Petit SA")

		c, rec := jsonCtx(t, e, http.MethodGet, "/api/clients", "", &owner)
		require.NoError(t, h.List(c))
		var mine []model.Client
		require.NoError(t, jsonDecode(rec, &mine))
		require.Len(t, mine, 1)
		assert.Equal(t, com.ID, mine[0].CommercialID)

		c, rec = jsonCtx(t, e, http.MethodGet, "/api/clients", "", &admin)
		require.NoError(t, h.List(c))
		var all []model.Client
		require.NoError(t, jsonDecode(rec, &all))
		assert.Len(t, all, 2)
	})

	t.Run("delete blocked while declarations reference the client", func(t *testing.T) {
		newDecl(t, s, com.ID, clientID)
		c, rec := jsonCtx(t, e, http.MethodDelete, "/api/clients/"+clientID, "", &owner, "id", clientID)
		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
