package handler

import (
	"net/http"
	"strconv"

	"taxwizard/internal/service"
	"taxwizard/pkg/response"

	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	wizardService service.WizardService
}

func NewWizardHandler(wizardService service.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: wizardService}
}

// RegisterRoutes binds the guided form-filling endpoints
func (h *WizardHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/wizard/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.PUT("/:id/country", h.SelectCountry)
		sessions.PUT("/:id/language", h.SelectLanguage)
		sessions.PUT("/:id/fields", h.SetFields)
		sessions.POST("/:id/next", h.Next)
		sessions.POST("/:id/previous", h.Previous)
		sessions.GET("/:id/summary", h.Summary)
		sessions.POST("/:id/save", h.Save)
		sessions.POST("/:id/submit", h.Submit)
		sessions.DELETE("/:id", h.DeleteSession)
	}
}

// CreateSession starts a wizard session
// @Summary      Start wizard session
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSessionRequest  false  "Owner, language and optional country"
// @Success      201      {object}  response.Response{data=service.SessionView}
// @Failure      400      {object}  response.Response
// @Router       /api/wizard/sessions [post]
func (h *WizardHandler) CreateSession(c *gin.Context) {
	var req service.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badPayload(c, err)
			return
		}
	}

	view, err := h.wizardService.CreateSession(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, view))
}

// GetSession returns the session with its localized steps
// @Summary      Get wizard session
// @Description  Answers 409 with a redirect hint while no country is selected
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=service.SessionView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/wizard/sessions/{id} [get]
func (h *WizardHandler) GetSession(c *gin.Context) {
	view, err := h.wizardService.GetSession(c.Request.Context(), c.Param("id"))
	h.respond(c, view, err)
}

// SelectCountry sets the session country and resets the step position
// @Summary      Select country
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Session ID"
// @Param        payload  body      service.SelectCountryRequest  true  "Country"
// @Success      200      {object}  response.Response{data=service.SessionView}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/sessions/{id}/country [put]
func (h *WizardHandler) SelectCountry(c *gin.Context) {
	var req service.SelectCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	view, err := h.wizardService.SelectCountry(c.Request.Context(), c.Param("id"), req)
	h.respond(c, view, err)
}

// SelectLanguage switches the display language
// @Summary      Select language
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Session ID"
// @Param        payload  body      service.SelectLanguageRequest  true  "Language"
// @Success      200      {object}  response.Response{data=service.SessionView}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/sessions/{id}/language [put]
func (h *WizardHandler) SelectLanguage(c *gin.Context) {
	var req service.SelectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	view, err := h.wizardService.SelectLanguage(c.Request.Context(), c.Param("id"), req)
	h.respond(c, view, err)
}

// SetFields records field values
// @Summary      Set field values
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Session ID"
// @Param        payload  body      service.SetFieldsRequest  true  "Field values"
// @Success      200      {object}  response.Response{data=service.SessionView}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/wizard/sessions/{id}/fields [put]
func (h *WizardHandler) SetFields(c *gin.Context) {
	var req service.SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	view, err := h.wizardService.SetFields(c.Request.Context(), c.Param("id"), req)
	h.respond(c, view, err)
}

// Next moves to the following step
// @Summary      Next step
// @Description  With validate=true the move is refused while required fields of the current step are empty
// @Tags         wizard
// @Produce      json
// @Param        id        path      string  true   "Session ID"
// @Param        validate  query     bool    false  "Check required fields"
// @Success      200       {object}  response.Response{data=service.SessionView}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /api/wizard/sessions/{id}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	validate, _ := strconv.ParseBool(c.Query("validate"))
	view, err := h.wizardService.Next(c.Request.Context(), c.Param("id"), validate)
	h.respond(c, view, err)
}

// Previous moves to the preceding step
// @Summary      Previous step
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=service.SessionView}
// @Failure      409  {object}  response.Response
// @Router       /api/wizard/sessions/{id}/previous [post]
func (h *WizardHandler) Previous(c *gin.Context) {
	view, err := h.wizardService.Previous(c.Request.Context(), c.Param("id"))
	h.respond(c, view, err)
}

// Summary returns the review page
// @Summary      Review summary
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=wizard.Summary}
// @Failure      409  {object}  response.Response
// @Router       /api/wizard/sessions/{id}/summary [get]
func (h *WizardHandler) Summary(c *gin.Context) {
	summary, err := h.wizardService.Summary(c.Request.Context(), c.Param("id"))
	h.respond(c, summary, err)
}

// Save stores the session as a draft form
// @Summary      Save draft
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=model.TaxForm}
// @Failure      409  {object}  response.Response
// @Router       /api/wizard/sessions/{id}/save [post]
func (h *WizardHandler) Save(c *gin.Context) {
	form, err := h.wizardService.Save(c.Request.Context(), c.Param("id"))
	h.respond(c, form, err)
}

// Submit stores the session as a completed form
// @Summary      Submit form
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=model.TaxForm}
// @Failure      409  {object}  response.Response
// @Router       /api/wizard/sessions/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	form, err := h.wizardService.Submit(c.Request.Context(), c.Param("id"))
	h.respond(c, form, err)
}

// DeleteSession discards a session; saved forms are kept
// @Summary      Discard session
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=handler.DeleteResult}
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/sessions/{id} [delete]
func (h *WizardHandler) DeleteSession(c *gin.Context) {
	if err := h.wizardService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, DeleteResult{Success: true}))
}

func (h *WizardHandler) respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
