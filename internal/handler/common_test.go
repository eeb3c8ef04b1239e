package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/ticketing/internal/middleware"
)

func newTestContext(t *testing.T, headers map[string]string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserIDAcceptsClaimTypes(t *testing.T) {
	for name, v := range map[string]interface{}{
		"float64": float64(7),
		"uint64":  uint64(7),
		"int":     7,
		"int64":   int64(7),
		"string":  "7",
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestContext(t, nil)
			c.Set("user_id", v)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.EqualValues(t, 7, got)
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	c := newTestContext(t, nil)
	_, err := getUserID(c)
	assert.Error(t, err)
}

func TestRequestActorPrefersUser(t *testing.T) {
	c := newTestContext(t, map[string]string{middleware.GuestIDHeader: "g-123"})
	c.Set("user_id", float64(11))
	actor := requestActor(c)
	assert.EqualValues(t, 11, actor.UserID)
	assert.Empty(t, actor.GuestID)
}

func TestRequestActorGuest(t *testing.T) {
	c := newTestContext(t, map[string]string{middleware.GuestIDHeader: "g-123"})
	actor := requestActor(c)
	assert.Zero(t, actor.UserID)
	assert.Equal(t, "g-123", actor.GuestID)
	assert.False(t, actor.IsZero())
}

func TestRequestActorAnonymous(t *testing.T) {
	c := newTestContext(t, nil)
	assert.True(t, requestActor(c).IsZero())
}

func TestDedupIDs(t *testing.T) {
	assert.Equal(t, []uint64{3, 1, 2}, dedupIDs([]uint64{3, 1, 3, 0, 2, 1}))
	assert.Empty(t, dedupIDs([]uint64{0, 0}))
}

func TestCountIDs(t *testing.T) {
	order, counts := countIDs([]uint64{5, 2, 5, 5, 0, 2})
	assert.Equal(t, []uint64{5, 2}, order)
	assert.Equal(t, uint32(3), counts[5])
	assert.Equal(t, uint32(2), counts[2])
}
