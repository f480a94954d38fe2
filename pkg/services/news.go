package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/news"
	"github.com/brandonnguyen11/rosterAI/pkg/remote"
)

const newsLabel = "news"

// NewsFetcher fetches articles for a roster.
type NewsFetcher interface {
	Fetch(ctx context.Context, players []models.PlayerRecord) ([]models.NewsArticle, error)
}

var _ NewsFetcher = (*news.Client)(nil)

// NewsService fetches news for the current roster.
type NewsService interface {
	// Articles fetches articles for every rostered player. A non-empty player
	// narrows the result to articles naming that player. Unavailability and
	// staleness behave as in InsightService.Generate.
	Articles(ctx context.Context, player string) (*models.NewsResult, error)

	// Close stops listening for roster changes.
	Close()
}

type newsService struct {
	store       RosterStore
	fetcher     NewsFetcher
	tracker     remote.RequestTracker
	metrics     *metrics.Metrics
	logger      *zap.Logger
	unsubscribe func()
}

// NewNewsService creates a news service. m may be nil.
func NewNewsService(store RosterStore, fetcher NewsFetcher, m *metrics.Metrics, logger *zap.Logger) NewsService {
	s := &newsService{
		store:   store,
		fetcher: fetcher,
		metrics: m,
		logger:  logger.Named("news-service"),
	}
	s.unsubscribe = store.Subscribe(func(models.RosterSnapshot) {
		s.tracker.Invalidate()
	})
	return s
}

var _ NewsService = (*newsService)(nil)

func (s *newsService) Articles(ctx context.Context, player string) (*models.NewsResult, error) {
	// Take the token before reading the roster so a change landing in
	// between invalidates this request.
	token := s.tracker.Begin()
	players := s.store.Current()

	articles, err := s.fetcher.Fetch(ctx, players)

	if !s.tracker.IsCurrent(token) {
		s.metrics.StaleResponse(newsLabel)
		s.logger.Debug("Discarding superseded news response", zap.String("request_id", token))
		return nil, apperrors.ErrStaleResponse
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("News unavailable",
			zap.String("request_id", token),
			zap.Error(err))
		return &models.NewsResult{
			RequestID: token,
			Status:    models.RemoteStatusUnavailable,
			Articles:  []models.NewsArticle{},
		}, nil
	}

	if player != "" {
		articles = news.FilterForPlayer(articles, player)
	}

	return &models.NewsResult{
		RequestID: token,
		Status:    models.RemoteStatusOK,
		Articles:  articles,
	}, nil
}

func (s *newsService) Close() {
	s.unsubscribe()
}
