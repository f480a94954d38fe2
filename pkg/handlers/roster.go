package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/services"
)

// MaxUploadBytes caps a roster upload. Real exports are a few kilobytes.
const MaxUploadBytes = 1 << 20

// RosterHandler serves the roster and the import endpoint.
type RosterHandler struct {
	importService services.ImportService
	rosterService services.RosterService
	logger        *zap.Logger
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(importService services.ImportService, rosterService services.RosterService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{
		importService: importService,
		rosterService: rosterService,
		logger:        logger,
	}
}

// RegisterRoutes registers the roster handler's routes on the given mux.
func (h *RosterHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/roster", h.Get)
	mux.HandleFunc("DELETE /api/roster", h.Clear)
	mux.HandleFunc("POST /api/roster/import", h.Import)
}

// Get handles GET /api/roster.
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	view := h.rosterService.View(r.Context())
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: view}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Clear handles DELETE /api/roster.
func (h *RosterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.rosterService.Clear(r.Context()); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/roster/import.
// The CSV arrives either as the "file" field of a multipart form or as the
// raw request body, with the original name in ?filename=.
func (h *RosterHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	content, fileName, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			if err := ErrorResponse(w, http.StatusRequestEntityTooLarge, "file_too_large", "Roster files must be under 1 MB"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Debug("Unreadable upload", zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_upload", "Could not read the uploaded file"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.importService.Import(r.Context(), content, fileName)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func readUpload(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return content, header.Filename, nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return content, strings.TrimSpace(r.URL.Query().Get("filename")), nil
}
