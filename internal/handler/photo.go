package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/mwhitfield/snagbook/internal/domain"
	"github.com/mwhitfield/snagbook/internal/ingest"
)

// =============================================================================
// Photo Upload Endpoints
// =============================================================================

// photoResult reports the outcome of one uploaded file.
type photoResult struct {
	Filename string `json:"filename"`
	PhotoID  string `json:"photoId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UploadPhotos attaches a batch of images to a snag.
//
// Each file is processed independently: a corrupt upload fails on its
// own, the rest of the batch still lands. The response carries one
// result per file in upload order, so the client can tell the user
// exactly which photos made it.
func (h *ReportHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
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

	files, ok := h.readUpload(w, r, "photos")
	if !ok {
		return
	}

	results, err := h.session.AttachPhotos(r.Context(), id, roomID, snagID, files)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": toPhotoResults(results),
	})
}

// SetCoverPhoto replaces the report's cover photo with an uploaded image.
func (h *ReportHandler) SetCoverPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	files, ok := h.readUpload(w, r, "photo")
	if !ok {
		return
	}
	if len(files) != 1 {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.set_cover_photo", "Cover photo upload takes exactly one file"))
		return
	}

	report, err := h.session.SetCoverPhoto(r.Context(), id, files[0])
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// RemoveCoverPhoto discards the report's cover photo.
func (h *ReportHandler) RemoveCoverPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.session.RemoveCoverPhoto(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// Upload Helpers
// =============================================================================

// readUpload parses the multipart form and loads the named file field
// into ingest files. Writes the error response itself on failure.
func (h *ReportHandler) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]ingest.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, "handler.read_upload", "Upload too large or malformed"))
		return nil, false
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.read_upload", "No files in field "+field))
		return nil, false
	}

	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		data, err := readFileHeader(fh)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Internal(err, "handler.read_upload", "Failed to read uploaded file"))
			return nil, false
		}
		files = append(files, ingest.File{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, true
}

// readFileHeader loads one multipart file into memory.
func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// toPhotoResults converts ingest results into the response shape.
func toPhotoResults(results []ingest.Result) []photoResult {
	out := make([]photoResult, len(results))
	for i, res := range results {
		out[i] = photoResult{Filename: res.Filename}
		if res.Err != nil {
			out[i].Error = domain.ErrorMessage(res.Err)
		} else {
			out[i].PhotoID = res.Photo.ID.String()
		}
	}
	return out
}
