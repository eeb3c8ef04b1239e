// Package validate adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request structs.
package validate

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator wraps a single validator.Validate instance. The instance
// caches struct metadata, so one shared Validator serves the whole
// server.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator ready to be assigned to echo.Echo.Validator.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate checks struct tags and converts failures into a 400 HTTP
// error so echo's error handler reports them uniformly.
func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
