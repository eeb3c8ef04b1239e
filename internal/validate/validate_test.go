package validate

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Rows  uint32 `validate:"required,min=1,max=100"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sampleRequest{Email: "a@b.example", Rows: 10}))
}

func TestValidateFailsWithBadRequest(t *testing.T) {
	v := New()
	err := v.Validate(sampleRequest{Email: "not-an-email", Rows: 0})
	require.Error(t, err)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
