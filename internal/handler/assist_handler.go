package handler

import (
	"errors"
	"net/http"

	"taxwizard/internal/service"
	"taxwizard/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	msgAssistFailed      = "Failed to generate AI assistance. Please make sure GOOGLE_AI_API_KEY is configured."
	msgSuggestionsFailed = "Failed to generate suggestions"
)

type AssistHandler struct {
	assistService service.AssistService
}

func NewAssistHandler(assistService service.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

// RegisterRoutes binds the AI assistance endpoints
func (h *AssistHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	{
		ai.POST("/assist", h.Assist)
		ai.GET("/history/:formId", h.History)
		ai.POST("/suggestions", h.Suggestions)
	}
	router.GET("/health", h.Health)
}

// Assist answers a tax question
// @Summary      Ask the AI assistant
// @Description  question, countryCode, formType and language are required; with formId the exchange is logged
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AssistRequest  true  "Question and context"
// @Success      200      {object}  service.AssistResponse
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ai/assist [post]
func (h *AssistHandler) Assist(c *gin.Context) {
	var req service.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, service.MsgAssistMissingFields))
		return
	}

	res, err := h.assistService.Assist(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err, msgAssistFailed)
		return
	}
	c.JSON(http.StatusOK, res)
}

// History lists the logged exchanges of a form
// @Summary      AI assistance history
// @Tags         ai
// @Produce      json
// @Param        formId  path      string  true  "Form ID"
// @Success      200     {array}   model.AiAssistanceRequest
// @Failure      500     {object}  response.Response
// @Router       /api/ai/history/{formId} [get]
func (h *AssistHandler) History(c *gin.Context) {
	rows, err := h.assistService.History(c.Request.Context(), c.Param("formId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Suggestions proposes deductions for the given form data
// @Summary      Deduction suggestions
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SuggestionsRequest  true  "Form data and context"
// @Success      200      {object}  service.SuggestionsResponse
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ai/suggestions [post]
func (h *AssistHandler) Suggestions(c *gin.Context) {
	var req service.SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, service.MsgSuggestionsMissingFields))
		return
	}

	res, err := h.assistService.Suggestions(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err, msgSuggestionsFailed)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Health reports liveness and whether AI assistance is configured
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  service.HealthStatus
// @Router       /api/health [get]
func (h *AssistHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistService.Health())
}

// upstreamError keeps validation errors as 400 and hides everything else behind msg.
func (h *AssistHandler) upstreamError(c *gin.Context, err error, msg string) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, validation.Message))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, msg))
}
