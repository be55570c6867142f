package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

// AssignmentHandler serves the public consultation endpoints.
type AssignmentHandler struct {
	service ports.AssignmentService
	urls    urlBuilder
}

func NewAssignmentHandler(service ports.AssignmentService, urls urlBuilder) *AssignmentHandler {
	return &AssignmentHandler{service: service, urls: urls}
}

// List handles GET /api/affectations.
//
// @Summary      List published assignments
// @Tags         affectations
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (default 50, max 100)"
// @Success      200    {object}  assignmentListResponse
// @Router       /api/affectations [get]
func (h *AssignmentHandler) List(c echo.Context) error {
	res, err := h.service.ListPublished(c.Request().Context(), queryInt(c, "page", 0), queryInt(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.page(res))
}

// Search handles GET /api/affectations/search.
//
// @Summary      Search published assignments
// @Description  q matches names, places and diploma; the other filters are combined with it.
// @Tags         affectations
// @Produce      json
// @Param        q              query     string  false  "Free text"
// @Param        nom            query     string  false  "Last name"
// @Param        prenoms        query     string  false  "First names"
// @Param        dateNaissance  query     string  false  "Birth year (YYYY) or date"
// @Param        lieuNaissance  query     string  false  "Birth place"
// @Param        diplome        query     string  false  "Diploma"
// @Param        institution    query     string  false  "Assignment institution"
// @Param        page           query     int     false  "Page (1-based)"
// @Param        limit          query     int     false  "Page size (default 10, max 100)"
// @Success      200            {object}  assignmentListResponse
// @Failure      400            {object}  errorResponse
// @Router       /api/affectations/search [get]
func (h *AssignmentHandler) Search(c echo.Context) error {
	res, err := h.service.Search(c.Request().Context(), ports.SearchAssignmentsInput{
		Query:       c.QueryParam("q"),
		LastName:    c.QueryParam("nom"),
		FirstNames:  c.QueryParam("prenoms"),
		BirthDate:   c.QueryParam("dateNaissance"),
		BirthPlace:  c.QueryParam("lieuNaissance"),
		Diploma:     c.QueryParam("diplome"),
		Institution: c.QueryParam("institution"),
		Page:        queryInt(c, "page", 0),
		Limit:       queryInt(c, "limit", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.page(res))
}

// Fields handles GET /api/affectations/fields.
//
// @Summary      Autocomplete values of a field
// @Tags         affectations
// @Produce      json
// @Param        field  query     string  true   "lieuNaissance, institutionAffectation or diplome"
// @Param        q      query     string  false  "Substring filter"
// @Success      200    {object}  fieldValuesResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/affectations/fields [get]
func (h *AssignmentHandler) Fields(c echo.Context) error {
	field := strings.TrimSpace(c.QueryParam("field"))
	if field == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "field is required")
	}

	values, err := h.service.FieldValues(c.Request().Context(), field, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fieldValuesResponse{Field: field, Values: values})
}

func (h *AssignmentHandler) page(res *ports.AssignmentPage) assignmentListResponse {
	return assignmentListResponse{
		Assignments: toAssignmentResponses(res.Items, h.urls, true),
		Total:       res.Total,
		Pages:       res.TotalPages,
		CurrentPage: res.Page,
	}
}
