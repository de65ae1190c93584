package http

import (
	"errors"
	"net/http"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/api/service"
	"stocksense-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolio holdings.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/holdings", h.AddHolding)
	g.GET("/holdings", h.ListHoldings)
	g.DELETE("/holdings/:id", h.DeleteHolding)
}

// AddHolding godoc
// @Summary Record a new holding
// @Description Adds a stock position to the requester's portfolio
// @Tags portfolio
// @Accept  json
// @Produce  json
// @Param   holding  body    dto.CreateHoldingRequest   true    "Holding to record"
// @Success 201 {object} dto.HoldingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/holdings [post]
func (h *PortfolioHandler) AddHolding(c echo.Context) error {
	var req dto.CreateHoldingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	holding, err := h.portfolioService.AddHolding(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to manage your portfolio"})
		case errors.Is(err, service.ErrInvalidHolding):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to add holding", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, holding)
}

// ListHoldings godoc
// @Summary List holdings with valuation
// @Description Returns the requester's holdings, each valued against current prices, plus the portfolio summary
// @Tags portfolio
// @Produce  json
// @Param   user_id  query   string  true    "Requesting user"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/holdings [get]
func (h *PortfolioHandler) ListHoldings(c echo.Context) error {
	portfolio, err := h.portfolioService.ListHoldings(c.Request().Context(), c.QueryParam("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to manage your portfolio"})
		}
		h.logger.Error("Failed to list holdings", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, portfolio)
}

// DeleteHolding godoc
// @Summary Delete a holding
// @Description Removes a holding owned by the requester
// @Tags portfolio
// @Produce  json
// @Param   id       path    string  true    "Holding ID"
// @Param   user_id  query   string  true    "Requesting user"
// @Success 204 {object} nil
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/holdings/{id} [delete]
func (h *PortfolioHandler) DeleteHolding(c echo.Context) error {
	err := h.portfolioService.DeleteHolding(c.Request().Context(), c.Param("id"), c.QueryParam("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to manage your portfolio"})
		case errors.Is(err, service.ErrHoldingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to delete holding", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}
