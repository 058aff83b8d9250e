package handler

import (
	"errors"
	"net/http"

	"taxwizard/internal/service"
	"taxwizard/internal/wizard"
	"taxwizard/pkg/response"

	"github.com/gin-gonic/gin"
)

// CountrySelectionPath is where clients are sent when a session has no country yet
const CountrySelectionPath = "/api/catalog/countries"

const (
	msgFormNotFound    = "Form not found"
	msgCountryNotFound = "Country not found"
	msgSessionNotFound = "Session not found"
	msgInternal        = "Internal server error"
)

type redirectHint struct {
	Redirect string `json:"redirect"`
}

type missingFieldsDetail struct {
	Step   string   `json:"step"`
	Fields []string `json:"fields"`
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, err error) {
	var validation *service.ValidationError
	var missing *wizard.MissingFieldsError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, validation.Message))
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, response.ErrorWithData(http.StatusBadRequest, missing.Error(),
			missingFieldsDetail{Step: missing.Step, Fields: missing.Fields}))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrFormNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, msgFormNotFound))
	case errors.Is(err, service.ErrCountryNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, msgCountryNotFound))
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, msgSessionNotFound))
	case errors.Is(err, wizard.ErrNoCountrySelected):
		c.JSON(http.StatusConflict, response.ErrorWithData(http.StatusConflict, err.Error(),
			redirectHint{Redirect: CountrySelectionPath}))
	default:
		// detail stays in the access log
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, msgInternal))
	}
}

func badPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
