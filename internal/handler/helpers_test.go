package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/savpro/sav-tracker/internal/config"
	"github.com/savpro/sav-tracker/internal/model"
	"github.com/savpro/sav-tracker/internal/policy"
	"github.com/savpro/sav-tracker/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Env:           "test",
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		BcryptCost:    4,
	}
}

// jsonCtx builds an echo context carrying a JSON body, the optional
// caller identity and path parameters, mirroring what the JWT
// middleware injects on real requests.
func jsonCtx(t *testing.T, e *echo.Echo, method, target, body string, actor *policy.Actor, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set("user_id", actor.ID)
		c.Set("role", actor.Role)
	}
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func jsonDecode(rec *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func activeUser(t *testing.T, s repository.Store, email, name, role string) model.User {
	t.Helper()
	u := model.User{Email: email, Name: name, Role: role, Status: model.UserActive, PasswordHash: "x"}
	require.NoError(t, s.Users.Create(context.Background(), &u))
	return u
}

func ownedClient(t *testing.T, s repository.Store, commercialID, name string) model.Client {
	t.Helper()
	c := model.Client{Name: name, CommercialID: commercialID}
	require.NoError(t, s.Clients.Create(context.Background(), &c))
	return c
}

func newDecl(t *testing.T, s repository.Store, commercialID, clientID string) model.Declaration {
	t.Helper()
	d := model.Declaration{
		CommercialID: commercialID,
		ClientID:     clientID,
		CategoryID:   "1",
		ProductName:  "Washing machine",
	}
	require.NoError(t, s.Declarations.Create(context.Background(), &d))
	return d
}
