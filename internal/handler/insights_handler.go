package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lifelog/internal/errors"
	"lifelog/internal/service"
)

// InsightsHandler handles the insights endpoint.
type InsightsHandler struct {
	insightsService service.InsightsService
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(insightsService service.InsightsService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

// InsightsRequest represents the insights query parameters.
type InsightsRequest struct {
	Metric   string `query:"metric" validate:"required,oneof=timePerTitle timePerTitleStacked"`
	Start    string `query:"start" validate:"omitempty"`
	End      string `query:"end" validate:"omitempty"`
	Interval string `query:"interval" validate:"omitempty,oneof=daily weekly monthly"`
	Search   string `query:"search" validate:"omitempty"`
}

// GetInsights godoc
// @Summary Get activity insights and analytics data
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Param metric query string true "Metric type" Enums(timePerTitle, timePerTitleStacked)
// @Param start query string false "Range start (YYYY-MM-DD or RFC3339; default 30 days ago)"
// @Param end query string false "Range end (YYYY-MM-DD or RFC3339; default now)"
// @Param interval query string false "Bucket interval for the stacked metric" Enums(daily, weekly, monthly)
// @Param search query string false "Keyword search over title and description"
// @Success 200 {object} service.TimePerTitleInsights
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /insights [get]
func (h *InsightsHandler) GetInsights(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req InsightsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	insights, err := h.insightsService.GetInsights(c.Request().Context(), userID, service.InsightsQuery{
		Metric:   req.Metric,
		Start:    req.Start,
		End:      req.End,
		Interval: req.Interval,
		Search:   req.Search,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, insights)
}
