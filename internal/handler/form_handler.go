package handler

import (
	"net/http"

	"taxwizard/internal/service"

	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	formService service.FormService
}

func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// RegisterRoutes binds the tax form endpoints under router
func (h *FormHandler) RegisterRoutes(router *gin.RouterGroup) {
	forms := router.Group("/forms")
	{
		forms.POST("", h.CreateForm)
		forms.GET("/user/:userId", h.ListFormsByUser)
		forms.GET("/:id", h.GetForm)
		forms.PATCH("/:id", h.UpdateForm)
		forms.DELETE("/:id", h.DeleteForm)
	}
}

// CreateForm stores a new tax form
// @Summary      Create tax form
// @Description  Validates and stores a draft, completed or submitted tax form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTaxFormRequest  true  "Tax form"
// @Success      200      {object}  model.TaxForm
// @Failure      400      {object}  response.Response
// @Router       /api/forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	var req service.CreateTaxFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	form, err := h.formService.CreateForm(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// GetForm returns one tax form
// @Summary      Get tax form
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  model.TaxForm
// @Failure      404  {object}  response.Response
// @Router       /api/forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	form, err := h.formService.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// ListFormsByUser returns the forms of one owner
// @Summary      List tax forms by owner
// @Tags         forms
// @Produce      json
// @Param        userId  path      string  true  "Owner ID"
// @Success      200     {array}   model.TaxForm
// @Failure      500     {object}  response.Response
// @Router       /api/forms/user/{userId} [get]
func (h *FormHandler) ListFormsByUser(c *gin.Context) {
	forms, err := h.formService.ListFormsByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forms)
}

// UpdateForm applies a partial update
// @Summary      Update tax form
// @Description  Shallow merge: omitted fields keep their value, formData is replaced as a whole
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Form ID"
// @Param        payload  body      service.UpdateTaxFormRequest  true  "Fields to change"
// @Success      200      {object}  model.TaxForm
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/forms/{id} [patch]
func (h *FormHandler) UpdateForm(c *gin.Context) {
	var req service.UpdateTaxFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	form, err := h.formService.UpdateForm(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// DeleteForm removes a tax form
// @Summary      Delete tax form
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  handler.DeleteResult
// @Failure      404  {object}  response.Response
// @Router       /api/forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	if err := h.formService.DeleteForm(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResult{Success: true})
}

type DeleteResult struct {
	Success bool `json:"success"`
}
