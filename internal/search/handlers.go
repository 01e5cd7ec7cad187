package search

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for search operations.
type Handlers struct {
	controller *Controller
}

// NewHandlers creates new search handlers.
func NewHandlers(controller *Controller) *Handlers {
	return &Handlers{controller: controller}
}

// RegisterRoutes registers the search routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.StartSearch)
	g.POST("/search/reset", h.ResetSearch)
	g.GET("/search/state", h.GetState)
	g.GET("/search/validate", h.ValidateKey)
}

// searchRequest is the body of POST /search.
type searchRequest struct {
	Query string `json:"query"`
}

// StartSearch kicks off a new search for the given query. The call returns
// immediately; results are observed via GET /search/state or the websocket
// stream.
// POST /api/v1/search
func (h *Handlers) StartSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	h.controller.Search(req.Query)

	return c.JSON(http.StatusAccepted, h.controller.State())
}

// ResetSearch aborts any in-flight search and clears results.
// POST /api/v1/search/reset
func (h *Handlers) ResetSearch(c echo.Context) error {
	h.controller.Reset()
	return c.NoContent(http.StatusNoContent)
}

// GetState returns the current observable search state.
// GET /api/v1/search/state
func (h *Handlers) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.State())
}

// ValidateKey probes the provider credential and reports the outcome.
// GET /api/v1/search/validate
func (h *Handlers) ValidateKey(c echo.Context) error {
	valid := h.controller.ValidateKey(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]bool{"apiKeyValid": valid})
}
