package handler

import (
	"net/http"

	"taxwizard/internal/i18n"
	"taxwizard/internal/service"
	"taxwizard/pkg/response"

	"github.com/gin-gonic/gin"
)

type CountryHandler struct {
	countryService service.CountryService
}

func NewCountryHandler(countryService service.CountryService) *CountryHandler {
	return &CountryHandler{countryService: countryService}
}

// RegisterRoutes binds the country config, catalog and translation endpoints
func (h *CountryHandler) RegisterRoutes(router *gin.RouterGroup) {
	countries := router.Group("/countries")
	{
		countries.GET("", h.ListConfigs)
		countries.GET("/:code", h.GetConfig)
		countries.POST("", h.CreateConfig)
	}

	catalog := router.Group("/catalog/countries")
	{
		catalog.GET("", h.ListCatalog)
		catalog.GET("/:code", h.GetCatalogEntry)
	}

	text := router.Group("/i18n")
	{
		text.GET("/languages", h.ListLanguages)
		text.GET("/:language", h.GetTranslations)
	}
}

// ListConfigs returns the seeded country configurations
// @Summary      List country configurations
// @Tags         countries
// @Produce      json
// @Success      200  {array}   model.CountryConfig
// @Failure      500  {object}  response.Response
// @Router       /api/countries [get]
func (h *CountryHandler) ListConfigs(c *gin.Context) {
	configs, err := h.countryService.ListConfigs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// GetConfig returns one country configuration
// @Summary      Get country configuration
// @Tags         countries
// @Produce      json
// @Param        code  path      string  true  "Country code"
// @Success      200   {object}  model.CountryConfig
// @Failure      404   {object}  response.Response
// @Router       /api/countries/{code} [get]
func (h *CountryHandler) GetConfig(c *gin.Context) {
	cfg, err := h.countryService.GetConfig(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// CreateConfig adds a country configuration
// @Summary      Create country configuration
// @Tags         countries
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCountryConfigRequest  true  "Country configuration"
// @Success      201      {object}  model.CountryConfig
// @Failure      400      {object}  response.Response
// @Router       /api/countries [post]
func (h *CountryHandler) CreateConfig(c *gin.Context) {
	var req service.CreateCountryConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	cfg, err := h.countryService.CreateConfig(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// ListCatalog returns the country selection list
// @Summary      List selectable countries
// @Tags         catalog
// @Produce      json
// @Param        language  query     string  false  "Display language"  default(en)
// @Success      200       {object}  response.Response{data=[]service.CatalogEntry}
// @Router       /api/catalog/countries [get]
func (h *CountryHandler) ListCatalog(c *gin.Context) {
	lang := c.DefaultQuery("language", i18n.DefaultLanguage)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.countryService.ListCatalog(lang)))
}

// GetCatalogEntry returns one selectable country
// @Summary      Get selectable country
// @Tags         catalog
// @Produce      json
// @Param        code      path      string  true   "Country code"
// @Param        language  query     string  false  "Display language"  default(en)
// @Success      200       {object}  response.Response{data=service.CatalogEntry}
// @Failure      404       {object}  response.Response
// @Router       /api/catalog/countries/{code} [get]
func (h *CountryHandler) GetCatalogEntry(c *gin.Context) {
	entry, err := h.countryService.GetCatalogEntry(c.Param("code"), c.DefaultQuery("language", i18n.DefaultLanguage))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ListLanguages returns the supported languages
// @Summary      List languages
// @Tags         i18n
// @Produce      json
// @Success      200  {object}  response.Response{data=[]i18n.Language}
// @Router       /api/i18n/languages [get]
func (h *CountryHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.countryService.Languages()))
}

// GetTranslations returns the full translation table of a language
// @Summary      Get translations
// @Description  Keys missing in the language fall back to English
// @Tags         i18n
// @Produce      json
// @Param        language  path      string  true  "Language code"
// @Success      200       {object}  response.Response{data=map[string]string}
// @Failure      400       {object}  response.Response
// @Router       /api/i18n/{language} [get]
func (h *CountryHandler) GetTranslations(c *gin.Context) {
	table, err := h.countryService.Translations(c.Param("language"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, table))
}
