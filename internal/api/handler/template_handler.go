package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TemplateDownload handles GET /api/templates/download.
//
// @Summary      Download the roster import template
// @Tags         templates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/templates/download [get]
func TemplateDownload(c echo.Context) error {
	var buf bytes.Buffer
	if err := roster.Template(&buf); err != nil {
		return fmt.Errorf("build template: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", roster.TemplateFileName))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
