package http

import (
	"errors"
	"net/http"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/api/service"
	"stocksense-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CallbackTokenHeader carries the shared secret for callback authentication
// when one is configured.
const CallbackTokenHeader = "X-Callback-Token"

// AnalysisHandler handles HTTP requests for the analysis lifecycle.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	callbackToken   string
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler. callbackToken may be
// empty, which leaves the callback endpoint open.
func NewAnalysisHandler(analysisService service.AnalysisService, callbackToken string, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		callbackToken:   callbackToken,
		logger:          logger,
	}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.SubmitAnalysis)
	g.GET("", h.ListAnalyses)
	g.GET("/:id", h.GetAnalysis)
	g.POST("/callback", h.AnalysisCallback)
}

// SubmitAnalysis godoc
// @Summary Submit an analysis command
// @Description Parses a free-text command and dispatches the analysis to the external system
// @Tags analyses
// @Accept  json
// @Produce  json
// @Param   command  body    dto.SubmitAnalysisRequest   true    "Command to run"
// @Success 200 {object} dto.SubmitAnalysisResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analyses [post]
func (h *AnalysisHandler) SubmitAnalysis(c echo.Context) error {
	var req dto.SubmitAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.analysisService.Submit(c.Request().Context(), req.CommandText, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to run analysis"})
		case errors.Is(err, service.ErrMissingSymbol):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please include a stock symbol in your command"})
		case errors.Is(err, service.ErrNoWebhookConfigured):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No webhook URL configured"})
		case errors.Is(err, service.ErrWebhookDelivery):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to trigger analysis webhook"})
		}
		h.logger.Error("Failed to submit analysis", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// AnalysisCallback godoc
// @Summary Receive an analysis result callback
// @Description Applies the asynchronous result or failure reported by the external analysis system
// @Tags analyses
// @Accept  json
// @Produce  json
// @Param   callback  body    dto.CallbackRequest   true    "Analysis outcome"
// @Success 200 {object} dto.CallbackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analyses/callback [post]
func (h *AnalysisHandler) AnalysisCallback(c echo.Context) error {
	if h.callbackToken != "" && c.Request().Header.Get(CallbackTokenHeader) != h.callbackToken {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid callback token"})
	}

	var req dto.CallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if req.AnalysisID == "" || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields: analysis_id, status"})
	}

	if err := h.analysisService.ApplyCallback(c.Request().Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCallbackStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrAnalysisNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrAnalysisFinalized):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to apply callback", logger.ErrorField(err), logger.Field("analysis_id", req.AnalysisID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, dto.CallbackResponse{
		Success: true,
		Message: "Analysis result received and updated",
	})
}

// ListAnalyses godoc
// @Summary List recent analyses
// @Description Returns the requester's most recent analyses, newest first
// @Tags analyses
// @Produce  json
// @Param   user_id  query   string  true    "Requesting user"
// @Success 200 {array} dto.AnalysisResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analyses [get]
func (h *AnalysisHandler) ListAnalyses(c echo.Context) error {
	userID := c.QueryParam("user_id")

	analyses, err := h.analysisService.List(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to view analyses"})
		}
		h.logger.Error("Failed to list analyses", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, analyses)
}

// GetAnalysis godoc
// @Summary Get one analysis
// @Description Returns a single analysis record owned by the requester
// @Tags analyses
// @Produce  json
// @Param   id       path    string  true    "Analysis ID"
// @Param   user_id  query   string  true    "Requesting user"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c echo.Context) error {
	analysis, err := h.analysisService.Get(c.Request().Context(), c.Param("id"), c.QueryParam("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to view analyses"})
		case errors.Is(err, service.ErrAnalysisNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get analysis", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, analysis)
}
