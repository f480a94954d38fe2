package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/services"
)

// InsightsHandler serves start/sit insights.
type InsightsHandler struct {
	insightService services.InsightService
	logger         *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insightService services.InsightService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{insightService: insightService, logger: logger}
}

// RegisterRoutes registers the insights handler's routes on the given mux.
func (h *InsightsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/insights", h.Get)
}

// Get handles GET /api/insights.
// An unreachable insight service still answers 200; the body carries
// status "unavailable" and an empty list.
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.insightService.Generate(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// NewsHandler serves player news.
type NewsHandler struct {
	newsService services.NewsService
	logger      *zap.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService services.NewsService, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news handler's routes on the given mux.
func (h *NewsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/news", h.Get)
}

// Get handles GET /api/news[?player=].
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := strings.TrimSpace(r.URL.Query().Get("player"))

	result, err := h.newsService.Articles(r.Context(), player)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
