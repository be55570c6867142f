package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

// ActivityHandler receives client-side activity and lists the trail.
type ActivityHandler struct {
	service  ports.ActivityService
	recorder ports.ActivityRecorder
}

func NewActivityHandler(service ports.ActivityService, recorder ports.ActivityRecorder) *ActivityHandler {
	return &ActivityHandler{service: service, recorder: recorder}
}

// Create handles POST /api/logs. The entry is recorded asynchronously.
//
// @Summary      Record an activity
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        body  body      createActivityRequest  true  "Activity"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/logs [post]
func (h *ActivityHandler) Create(c echo.Context) error {
	var req createActivityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	action := domain.ActivityAction(strings.ToUpper(strings.TrimSpace(req.Action)))
	if !action.IsKnown() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}

	h.recorder.Enqueue(activityFor(c, action, req.Description, req.DecreeID, req.Metadata))
	return c.JSON(http.StatusAccepted, acceptedResponse{Success: true})
}

// List handles GET /api/logs.
//
// @Summary      List recent activity
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Param        action  query     string  false  "Restrict to one action"
// @Param        limit   query     int     false  "Number of entries (default 100, max 500)"
// @Success      200     {object}  activityListResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/logs [get]
func (h *ActivityHandler) List(c echo.Context) error {
	logs, err := h.service.List(c.Request().Context(), c.QueryParam("action"), queryInt(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityListResponse{Logs: logs})
}
