package news

import (
	"context"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/remote"
)

// Endpoint is the news service path, relative to its base URL.
const Endpoint = "articles"

// Poster is the part of remote.Client the news client needs.
type Poster interface {
	PostJSON(ctx context.Context, endpoint string, payload any) ([]byte, error)
}

var _ Poster = (*remote.Client)(nil)

// Client fetches news articles for a roster.
type Client struct {
	poster Poster
	logger *zap.Logger
}

func NewClient(poster Poster, logger *zap.Logger) *Client {
	return &Client{
		poster: poster,
		logger: logger.Named("news"),
	}
}

// Fetch asks the news service for articles about the named players on the
// roster. Failures return an empty slice and an error wrapping
// apperrors.ErrRemoteUnavailable.
func (c *Client) Fetch(ctx context.Context, players []models.PlayerRecord) ([]models.NewsArticle, error) {
	payload := BuildPayload(players)
	if len(payload) == 0 {
		return []models.NewsArticle{}, nil
	}

	body, err := c.poster.PostJSON(ctx, Endpoint, payload)
	if err != nil {
		return []models.NewsArticle{}, err
	}

	articles, err := Reconcile(body)
	if err != nil {
		c.logger.Warn("Discarding malformed news response", zap.Error(err))
		return []models.NewsArticle{}, err
	}

	c.logger.Debug("Fetched news",
		zap.Int("players", len(payload)),
		zap.Int("articles", len(articles)))
	return articles, nil
}
