// Package handler implements the JSON HTTP surface.
//
// Handlers are thin: they decode requests, call into the session, and
// encode responses. All report semantics live in the service, editor,
// and document packages.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mwhitfield/snagbook/internal/domain"
	"github.com/mwhitfield/snagbook/internal/editor"
	"github.com/mwhitfield/snagbook/internal/service"
)

// maxUploadBytes bounds a whole multipart upload request.
const maxUploadBytes = 64 << 20 // 64MB

// =============================================================================
// Handler Definition
// =============================================================================

// ReportHandler serves the report collection API.
type ReportHandler struct {
	session *service.Session
	logger  *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(session *service.Session, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		session: session,
		logger:  logger,
	}
}

// RegisterRoutes registers all report routes on the mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports", h.List)
	mux.HandleFunc("POST /api/reports", h.Create)
	mux.HandleFunc("GET /api/reports/{id}", h.Get)
	mux.HandleFunc("PATCH /api/reports/{id}", h.UpdateFields)
	mux.HandleFunc("PUT /api/reports/{id}/status", h.SetStatus)
	mux.HandleFunc("POST /api/reports/{id}/save", h.Save)
	mux.HandleFunc("GET /api/reports/{id}/export", h.Export)
	mux.HandleFunc("PUT /api/reports/{id}/cover-photo", h.SetCoverPhoto)
	mux.HandleFunc("DELETE /api/reports/{id}/cover-photo", h.RemoveCoverPhoto)

	mux.HandleFunc("POST /api/reports/{id}/rooms/{roomID}/snags", h.AddSnag)
	mux.HandleFunc("PATCH /api/reports/{id}/rooms/{roomID}/snags/{snagID}", h.UpdateSnag)
	mux.HandleFunc("DELETE /api/reports/{id}/rooms/{roomID}/snags/{snagID}", h.DeleteSnag)
	mux.HandleFunc("POST /api/reports/{id}/rooms/{roomID}/snags/{snagID}/photos", h.UploadPhotos)
	mux.HandleFunc("DELETE /api/reports/{id}/rooms/{roomID}/snags/{snagID}/photos/{photoID}", h.RemovePhoto)

	mux.HandleFunc("GET /api/templates", h.Templates)
}

// =============================================================================
// Collection Endpoints
// =============================================================================

// List returns the saved-report projections in collection order.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	saved := h.session.ListReports(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": saved})
}

// Create adds a fresh report with the default room set.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	report, err := h.session.CreateReport(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// Get returns a full report tree.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.session.GetReport(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// updateReportRequest carries a partial report-field update. Absent
// fields are left unchanged.
type updateReportRequest struct {
	Address        *string `json:"address"`
	Developer      *string `json:"developer"`
	Client         *string `json:"client"`
	PlotNumber     *string `json:"plotNumber"`
	InspectionDate *string `json:"inspectionDate"`
}

// UpdateFields applies a partial update to a report's scalar fields.
func (h *ReportHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.update_report", "Invalid JSON body"))
		return
	}

	report, err := h.session.UpdateFields(r.Context(), id, editor.FieldPatch{
		Address:        req.Address,
		Developer:      req.Developer,
		Client:         req.Client,
		PlotNumber:     req.PlotNumber,
		InspectionDate: req.InspectionDate,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SetStatus changes a report's lifecycle status.
func (h *ReportHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.set_status", "Invalid JSON body"))
		return
	}

	report, err := h.session.SetStatus(r.Context(), id, domain.ReportStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Save commits the report, advancing LastModified.
func (h *ReportHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.session.Save(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export generates and downloads the report PDF.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.session.Export(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// =============================================================================
// Snag Endpoints
// =============================================================================

// AddSnag appends an empty snag to a room.
func (h *ReportHandler) AddSnag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	roomID, ok := h.pathUUID(w, r, "roomID")
	if !ok {
		return
	}

	report, snagID, err := h.session.AddSnag(r.Context(), id, roomID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"snagId": snagID,
		"report": report,
	})
}

// updateSnagRequest carries a partial snag update. Absent fields are
// left unchanged.
type updateSnagRequest struct {
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// UpdateSnag applies a partial update to a snag.
func (h *ReportHandler) UpdateSnag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	roomID, ok := h.pathUUID(w, r, "roomID")
	if !ok {
		return
	}
	snagID, ok := h.pathUUID(w, r, "snagID")
	if !ok {
		return
	}

	var req updateSnagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.update_snag", "Invalid JSON body"))
		return
	}

	patch := editor.SnagPatch{
		Location:    req.Location,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := domain.SnagPriority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		st := domain.SnagStatus(*req.Status)
		patch.Status = &st
	}

	report, err := h.session.UpdateSnag(r.Context(), id, roomID, snagID, patch)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteSnag removes a snag and its photos.
func (h *ReportHandler) DeleteSnag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	roomID, ok := h.pathUUID(w, r, "roomID")
	if !ok {
		return
	}
	snagID, ok := h.pathUUID(w, r, "snagID")
	if !ok {
		return
	}

	report, err := h.session.DeleteSnag(r.Context(), id, roomID, snagID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// RemovePhoto detaches a photo from a snag.
func (h *ReportHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	roomID, ok := h.pathUUID(w, r, "roomID")
	if !ok {
		return
	}
	snagID, ok := h.pathUUID(w, r, "snagID")
	if !ok {
		return
	}
	photoID, ok := h.pathUUID(w, r, "photoID")
	if !ok {
		return
	}

	report, err := h.session.RemovePhoto(r.Context(), id, roomID, snagID, photoID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// Template Catalog
// =============================================================================

// Templates returns the snag description template catalog grouped by
// category, in display order.
func (h *ReportHandler) Templates(w http.ResponseWriter, r *http.Request) {
	type category struct {
		Key       string   `json:"key"`
		Label     string   `json:"label"`
		Templates []string `json:"templates"`
	}

	out := make([]category, 0, len(domain.TemplateCategories))
	for _, key := range domain.TemplateCategories {
		out = append(out, category{
			Key:       key,
			Label:     domain.TemplateCategoryLabel(key),
			Templates: domain.TemplatesFor(key),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": out})
}

// =============================================================================
// Helpers
// =============================================================================

// pathUUID parses a UUID path segment, writing a 400 response on failure.
func (h *ReportHandler) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.parse_id", fmt.Sprintf("Invalid %s: %q", name, raw)))
		return uuid.Nil, false
	}
	return id, true
}

