package http

import (
	"errors"
	"net/http"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/api/service"
	"stocksense-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests for user delivery settings.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *logger.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

// RegisterRoutes registers the profile routes to the Echo group.
func (h *ProfileHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:user_id", h.GetProfile)
	g.PUT("/:user_id", h.UpdateProfile)
}

// GetProfile godoc
// @Summary Get delivery settings
// @Tags profiles
// @Produce  json
// @Param   user_id  path    string  true    "User ID"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profiles/{user_id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileService.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to view your profile"})
		case errors.Is(err, service.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get profile", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update delivery settings
// @Description Upserts the webhook URL and Telegram chat used for this user's analyses
// @Tags profiles
// @Accept  json
// @Produce  json
// @Param   user_id  path    string                    true    "User ID"
// @Param   profile  body    dto.UpdateProfileRequest  true    "Settings"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profiles/{user_id} [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	profile, err := h.profileService.Update(c.Request().Context(), c.Param("user_id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to update your profile"})
		}
		h.logger.Error("Failed to update profile", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, profile)
}
