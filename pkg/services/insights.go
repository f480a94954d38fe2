package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/insights"
	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/remote"
)

const insightsLabel = "insights"

// InsightFetcher fetches insights for a roster.
type InsightFetcher interface {
	Fetch(ctx context.Context, players []models.PlayerRecord) ([]models.InsightRecord, error)
}

var _ InsightFetcher = (*insights.Client)(nil)

// InsightService produces start/sit insights for the current roster.
type InsightService interface {
	// Generate requests fresh insights. When the insight service cannot be
	// reached or answers with garbage the result has status "unavailable"
	// and no players; that is not an error. A response that was superseded
	// by a newer request or a roster change returns apperrors.ErrStaleResponse.
	Generate(ctx context.Context) (*models.InsightResult, error)

	// Close stops listening for roster changes.
	Close()
}

type insightService struct {
	store       RosterStore
	fetcher     InsightFetcher
	tracker     remote.RequestTracker
	metrics     *metrics.Metrics
	logger      *zap.Logger
	unsubscribe func()
}

// NewInsightService creates an insight service. Any roster change makes
// in-flight requests stale. m may be nil.
func NewInsightService(store RosterStore, fetcher InsightFetcher, m *metrics.Metrics, logger *zap.Logger) InsightService {
	s := &insightService{
		store:   store,
		fetcher: fetcher,
		metrics: m,
		logger:  logger.Named("insight-service"),
	}
	s.unsubscribe = store.Subscribe(func(models.RosterSnapshot) {
		s.tracker.Invalidate()
	})
	return s
}

var _ InsightService = (*insightService)(nil)

func (s *insightService) Generate(ctx context.Context) (*models.InsightResult, error) {
	// Take the token before reading the roster so a change landing in
	// between invalidates this request.
	token := s.tracker.Begin()
	players := s.store.Current()

	records, err := s.fetcher.Fetch(ctx, players)

	if !s.tracker.IsCurrent(token) {
		s.metrics.StaleResponse(insightsLabel)
		s.logger.Debug("Discarding superseded insight response", zap.String("request_id", token))
		return nil, apperrors.ErrStaleResponse
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("Insights unavailable",
			zap.String("request_id", token),
			zap.Error(err))
		return &models.InsightResult{
			RequestID: token,
			Status:    models.RemoteStatusUnavailable,
			Players:   []models.InsightRecord{},
		}, nil
	}

	return &models.InsightResult{
		RequestID: token,
		Status:    models.RemoteStatusOK,
		Players:   records,
	}, nil
}

func (s *insightService) Close() {
	s.unsubscribe()
}
