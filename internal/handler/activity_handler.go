package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lifelog/internal/errors"
	"lifelog/internal/model"
	"lifelog/internal/service"
)

// ActivityHandler handles activity journal endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// CreateActivityRequest represents a new activity submission.
type CreateActivityRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty"`
	Duration    int    `json:"duration" validate:"required,min=1"`
	Timestamp   string `json:"timestamp" validate:"omitempty"`
}

// UpdateActivityRequest represents a partial activity update. Pointer fields
// distinguish "absent" from "set to zero value".
type UpdateActivityRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Duration    *int    `json:"duration" validate:"omitempty,min=1"`
	Timestamp   *string `json:"timestamp"`
}

// ListActivitiesResponse pairs a page of activities with the total match count.
type ListActivitiesResponse struct {
	Activities []model.Activity `json:"activities"`
	Total      int64            `json:"total"`
}

// parseTimestamp accepts an RFC3339 instant or a bare calendar date.
func parseTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func invalidTimestampError() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid timestamp",
		Code:  "INVALID_TIMESTAMP",
	})
}

func parseActivityID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid activity ID",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// Create godoc
// @Summary Create a new activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateActivityRequest true "Activity data"
// @Success 201 {object} model.Activity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activities [post]
func (h *ActivityHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.CreateActivityInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
	}
	if req.Timestamp != "" {
		ts, ok := parseTimestamp(req.Timestamp)
		if !ok {
			return invalidTimestampError()
		}
		input.Timestamp = &ts
	}

	activity, err := h.activityService.Create(c.Request().Context(), userID, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, activity)
}

// List godoc
// @Summary List activities for the current user
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param search query string false "Keyword search over title and description"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} ListActivitiesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activities [get]
func (h *ActivityHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	search := c.QueryParam("search")
	limit := service.DefaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	activities, total, err := h.activityService.List(c.Request().Context(), userID, search, limit, offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListActivitiesResponse{
		Activities: activities,
		Total:      total,
	})
}

// Today godoc
// @Summary List today's activities
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Activity
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activities/today [get]
func (h *ActivityHandler) Today(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	activities, err := h.activityService.TodayActivities(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, activities)
}

// Suggestions godoc
// @Summary Get activity title suggestions
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title filter"
// @Success 200 {array} repository.TitleCount
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activities/suggestions [get]
func (h *ActivityHandler) Suggestions(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	suggestions, err := h.activityService.TitleSuggestions(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, suggestions)
}

// GetOne godoc
// @Summary Get a specific activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} model.Activity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /activities/{id} [get]
func (h *ActivityHandler) GetOne(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := parseActivityID(c)
	if err != nil {
		return err
	}

	activity, err := h.activityService.GetOne(c.Request().Context(), id, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, activity)
}

// Update godoc
// @Summary Update an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body UpdateActivityRequest true "Fields to update"
// @Success 200 {object} model.Activity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /activities/{id} [patch]
func (h *ActivityHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := parseActivityID(c)
	if err != nil {
		return err
	}

	var req UpdateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.UpdateActivityInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
	}
	if req.Timestamp != nil {
		ts, ok := parseTimestamp(*req.Timestamp)
		if !ok {
			return invalidTimestampError()
		}
		input.Timestamp = &ts
	}

	activity, err := h.activityService.Update(c.Request().Context(), id, userID, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, activity)
}

// Delete godoc
// @Summary Delete an activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} service.DeleteActivityResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := parseActivityID(c)
	if err != nil {
		return err
	}

	result, err := h.activityService.Delete(c.Request().Context(), id, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, result)
}
