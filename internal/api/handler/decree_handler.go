package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/api/metrics"
	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

// DecreeHandler handles HTTP requests for decree administration and PDF downloads.
type DecreeHandler struct {
	service  ports.DecreeService
	activity ports.ActivityRecorder
	urls     urlBuilder
}

func NewDecreeHandler(service ports.DecreeService, activity ports.ActivityRecorder, urls urlBuilder) *DecreeHandler {
	return &DecreeHandler{service: service, activity: activity, urls: urls}
}

// Import handles POST /api/decrets/import.
//
// @Summary      Import a decree
// @Description  Uploads the roster (xlsx or csv) and the signed PDF. Row errors are returned with 422.
// @Tags         decrets
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        numero       formData  string  true   "Decree number"
// @Param        titre        formData  string  true   "Decree title"
// @Param        description  formData  string  false  "Description"
// @Param        excelFile    formData  file    true   "Roster (.xlsx, .xls or .csv)"
// @Param        pdfFile      formData  file    true   "Signed decree (.pdf)"
// @Success      201          {object}  importResponse
// @Failure      400          {object}  errorResponse
// @Failure      409          {object}  errorResponse
// @Failure      422          {object}  map[string]any
// @Router       /api/decrets/import [post]
func (h *DecreeHandler) Import(c echo.Context) error {
	rosterFile, closeRoster, err := formFile(c, "excelFile")
	if err != nil {
		return err
	}
	defer closeRoster()

	pdfFile, closePDF, err := formFile(c, "pdfFile")
	if err != nil {
		return err
	}
	defer closePDF()

	result, err := h.service.Import(c.Request().Context(), ports.ImportDecreeInput{
		Number:      c.FormValue("numero"),
		Title:       c.FormValue("titre"),
		Description: c.FormValue("description"),
		Roster:      rosterFile,
		PDF:         pdfFile,
	})
	if err != nil {
		metrics.DecreeImportsTotal.WithLabelValues(importResult(err)).Inc()
		return err
	}

	metrics.DecreeImportsTotal.WithLabelValues("success").Inc()
	metrics.AssignmentsImportedTotal.Add(float64(len(result.Rows)))
	h.activity.Enqueue(activityFor(c, domain.ActionImport,
		fmt.Sprintf("Import du décret %s (%d affectations)", result.Decree.Number, len(result.Rows)),
		result.Decree.ID, map[string]any{"numero": result.Decree.Number, "rows": len(result.Rows)}))

	return c.JSON(http.StatusCreated, importResponse{
		Success: true,
		Decree:  toDecreeResponse(result.Decree, h.urls),
		Data:    result.Rows,
		Errors:  []roster.RowError{},
	})
}

// formFile opens a multipart file field. A missing field yields a zero
// UploadedFile, which the service rejects.
func formFile(c echo.Context, field string) (ports.UploadedFile, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return ports.UploadedFile{}, func() {}, nil
		}
		return ports.UploadedFile{}, func() {}, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return ports.UploadedFile{}, func() {}, err
	}
	return uploadedFile(fh, f), func() { _ = f.Close() }, nil
}

func uploadedFile(fh *multipart.FileHeader, f io.Reader) ports.UploadedFile {
	return ports.UploadedFile{Name: fh.Filename, Size: fh.Size, Content: f}
}

func isValidationError(err error) bool {
	var ve *roster.ValidationError
	return errors.As(err, &ve)
}

func importResult(err error) string {
	switch {
	case isValidationError(err):
		return "invalid_roster"
	case errors.Is(err, domain.ErrDuplicateDecree):
		return "duplicate"
	case errors.Is(err, domain.ErrImportInProgress):
		return "in_progress"
	case errors.Is(err, domain.ErrInvalidUpload):
		return "invalid_upload"
	}
	return "error"
}

// List handles GET /api/decrets.
//
// @Summary      List decrees
// @Tags         decrets
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (default 50, max 100)"
// @Param        search  query     string  false  "Matches number, title or description"
// @Param        status  query     string  false  "all, publie, brouillon or archive"
// @Success      200     {object}  decreeListResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/decrets [get]
func (h *DecreeHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), ports.ListDecreesInput{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Page:   queryInt(c, "page", 0),
		Limit:  queryInt(c, "limit", 0),
	})
	if err != nil {
		return err
	}

	items := make([]decreeSummaryResponse, 0, len(res.Items))
	for i := range res.Items {
		s := &res.Items[i]
		items = append(items, decreeSummaryResponse{
			decreeResponse:  toDecreeResponse(&s.Decree, h.urls),
			AssignmentCount: s.AssignmentCount,
			Institutions:    s.Institutions,
		})
	}

	return c.JSON(http.StatusOK, decreeListResponse{
		Decrees:     items,
		Total:       res.Total,
		Pages:       res.TotalPages,
		CurrentPage: res.Page,
	})
}

// Get handles GET /api/decrets/:id.
//
// @Summary      Get a decree with its assignments
// @Tags         decrets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Decree id"
// @Success      200  {object}  decreeDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/decrets/{id} [get]
func (h *DecreeHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, decreeDetailResponse{
		decreeResponse:  toDecreeResponse(detail.Decree, h.urls),
		AssignmentCount: detail.AssignmentCount,
		Assignments:     toAssignmentResponses(detail.Decree.Assignments, h.urls, false),
	})
}

// Update handles PUT /api/decrets/:id.
//
// @Summary      Update a decree's title and description
// @Tags         decrets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Decree id"
// @Param        body  body      updateDecreeRequest  true  "New details"
// @Success      200   {object}  decreeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/decrets/{id} [put]
func (h *DecreeHandler) Update(c echo.Context) error {
	var req updateDecreeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.Update(c.Request().Context(), c.Param("id"), req.Title, req.Description)
	if err != nil {
		return err
	}

	h.activity.Enqueue(activityFor(c, domain.ActionModification,
		"Modification du décret "+d.Number, d.ID, nil))
	return c.JSON(http.StatusOK, toDecreeResponse(d, h.urls))
}

// Publish handles POST /api/decrets/:id/publish.
//
// @Summary      Publish a decree
// @Tags         decrets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Decree id"
// @Success      200  {object}  transitionResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/decrets/{id}/publish [post]
func (h *DecreeHandler) Publish(c echo.Context) error {
	d, err := h.service.Publish(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.DecreeTransitionsTotal.WithLabelValues(string(d.Status)).Inc()
	h.activity.Enqueue(activityFor(c, domain.ActionPublication,
		"Publication du décret "+d.Number, d.ID, nil))
	return c.JSON(http.StatusOK, transitionResponse{Success: true, Decree: toDecreeResponse(d, h.urls)})
}

// Archive handles POST /api/decrets/:id/archive.
//
// @Summary      Archive a published decree
// @Tags         decrets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Decree id"
// @Success      200  {object}  transitionResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/decrets/{id}/archive [post]
func (h *DecreeHandler) Archive(c echo.Context) error {
	d, err := h.service.Archive(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.DecreeTransitionsTotal.WithLabelValues(string(d.Status)).Inc()
	h.activity.Enqueue(activityFor(c, domain.ActionArchiving,
		"Archivage du décret "+d.Number, d.ID, nil))
	return c.JSON(http.StatusOK, transitionResponse{Success: true, Decree: toDecreeResponse(d, h.urls)})
}

// Delete handles DELETE /api/decrets/:id.
//
// @Summary      Delete a decree, its assignments and its files
// @Tags         decrets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Decree id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/decrets/{id} [delete]
func (h *DecreeHandler) Delete(c echo.Context) error {
	d, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.activity.Enqueue(activityFor(c, domain.ActionDeletion,
		"Suppression du décret "+d.Number, "", map[string]any{"numero": d.Number}))
	return c.JSON(http.StatusOK, messageResponse{Message: "decree deleted"})
}

// Download handles GET /api/decrets/:id/download. Administrators may
// download decrees in any status; the public only published ones.
//
// @Summary      Download the signed PDF of a decree
// @Tags         decrets
// @Produce      application/pdf
// @Param        id   path  string  true  "Decree id"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorResponse
// @Router       /api/decrets/{id}/download [get]
func (h *DecreeHandler) Download(c echo.Context) error {
	admin := isAdmin(c)
	pdf, err := h.service.OpenPDF(c.Request().Context(), c.Param("id"), admin)
	if err != nil {
		return err
	}
	return h.streamPDF(c, pdf, admin)
}

// DownloadByNumber handles GET /api/decrets/download-by-number?numero=.
//
// @Summary      Download the signed PDF of a published decree by number
// @Tags         decrets
// @Produce      application/pdf
// @Param        numero  query  string  true  "Decree number"
// @Success      200     {file}  binary
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/decrets/download-by-number [get]
func (h *DecreeHandler) DownloadByNumber(c echo.Context) error {
	number := strings.TrimSpace(c.QueryParam("numero"))
	if number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "numero is required")
	}

	pdf, err := h.service.OpenPDFByNumber(c.Request().Context(), number)
	if err != nil {
		return err
	}
	return h.streamPDF(c, pdf, false)
}

func (h *DecreeHandler) streamPDF(c echo.Context, pdf *ports.DecreePDF, admin bool) error {
	defer pdf.Content.Close()

	audience := "public"
	if admin {
		audience = "admin"
	}
	metrics.PDFDownloadsTotal.WithLabelValues(audience).Inc()
	h.activity.Enqueue(activityFor(c, domain.ActionDownload,
		"Téléchargement du décret "+pdf.Decree.Number, pdf.Decree.ID,
		map[string]any{"numero": pdf.Decree.Number}))

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", pdf.FileName))
	if pdf.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(pdf.Size, 10))
	}
	return c.Stream(http.StatusOK, "application/pdf", pdf.Content)
}
