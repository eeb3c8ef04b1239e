package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/ticketing/internal/utils"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, headers map[string]string, setup func(echo.Context)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	err := mw(okHandler)(c)
	require.NoError(t, err)
	return rec, c
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _ := doRequest(t, JWTAuth("secret"), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthBadToken(t *testing.T) {
	rec, _ := doRequest(t, JWTAuth("secret"), map[string]string{"Authorization": "Bearer nonsense"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other", 5, "USER", 5)
	require.NoError(t, err)
	rec, _ := doRequest(t, JWTAuth("secret"), map[string]string{"Authorization": "Bearer " + at.Token}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 5, "ADMIN", 5)
	require.NoError(t, err)
	rec, c := doRequest(t, JWTAuth("secret"), map[string]string{"Authorization": "Bearer " + at.Token}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, c.Get("user_id"))
	assert.Equal(t, "ADMIN", c.Get("role"))
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	rec, c := doRequest(t, OptionalAuth("secret"), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("user_id"))
}

func TestOptionalAuthInvalidTokenStillPasses(t *testing.T) {
	rec, c := doRequest(t, OptionalAuth("secret"), map[string]string{"Authorization": "Bearer junk"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("user_id"))
}

func TestOptionalAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 9, "USER", 5)
	require.NoError(t, err)
	rec, c := doRequest(t, OptionalAuth("secret"), map[string]string{"Authorization": "Bearer " + at.Token}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 9, c.Get("user_id"))
}

func TestRequireRole(t *testing.T) {
	rec, _ := doRequest(t, RequireRole("ADMIN"), nil, func(c echo.Context) {
		c.Set("role", "ADMIN")
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, RequireRole("ADMIN"), nil, func(c echo.Context) {
		c.Set("role", "USER")
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doRequest(t, RequireRole("ADMIN"), nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuestID(t *testing.T) {
	e := echo.New()

	newCtx := func(val string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if val != "" {
			req.Header.Set(GuestIDHeader, val)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	assert.Equal(t, "guest-1.a_b", GuestID(newCtx("guest-1.a_b")))
	assert.Empty(t, GuestID(newCtx("")))
	assert.Empty(t, GuestID(newCtx("has spaces")))
	assert.Empty(t, GuestID(newCtx("päätös")))
}
