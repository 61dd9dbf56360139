package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams the fixed portfolio reports as downloads
type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// download renders into a buffer first so a failure can still produce a JSON error
func (h *ExportHandler) download(w http.ResponseWriter, r *http.Request, filename, contentType string, render func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := render(r.Context(), &buf); err != nil {
		handleServiceError(w, h.logger, err, "export "+filename)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ProjectsCSV godoc
// @Summary Export projects as CSV
// @Description Ordered by location then project name
// @Tags Export
// @Produce text/csv
// @Success 200 {file} file
// @Failure 500 {object} domain.ErrorResponse
// @Router /export/projects-csv [get]
func (h *ExportHandler) ProjectsCSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "projects.csv", "text/csv", h.exportService.WriteProjectsCSV)
}

// PeopleCSV godoc
// @Summary Export people as CSV
// @Description Total allocation counts active assignments only
// @Tags Export
// @Produce text/csv
// @Success 200 {file} file
// @Failure 500 {object} domain.ErrorResponse
// @Router /export/people-csv [get]
func (h *ExportHandler) PeopleCSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "people.csv", "text/csv", h.exportService.WritePeopleCSV)
}

// ProjectsXLSX godoc
// @Summary Export projects as an Excel workbook
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} domain.ErrorResponse
// @Router /export/projects-xlsx [get]
func (h *ExportHandler) ProjectsXLSX(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "projects.xlsx", xlsxContentType, h.exportService.WriteProjectsXLSX)
}

// Snapshot godoc
// @Summary Archive both CSV reports to storage
// @Tags Export
// @Produce json
// @Success 201 {object} domain.ExportSnapshotDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /export/snapshots [post]
func (h *ExportHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.exportService.Snapshot(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "store export snapshot")
		return
	}

	respondJSON(w, http.StatusCreated, snapshot)
}
