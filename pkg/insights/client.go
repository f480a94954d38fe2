package insights

import (
	"context"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/remote"
)

// Endpoint is the insight service path, relative to its base URL.
const Endpoint = "generate_insights"

// Poster is the part of remote.Client the insight client needs.
type Poster interface {
	PostJSON(ctx context.Context, endpoint string, payload any) ([]byte, error)
}

var _ Poster = (*remote.Client)(nil)

// Client fetches start/sit insights for a roster.
type Client struct {
	poster Poster
	logger *zap.Logger
}

func NewClient(poster Poster, logger *zap.Logger) *Client {
	return &Client{
		poster: poster,
		logger: logger.Named("insights"),
	}
}

// Fetch sends the named players on the roster to the insight service and
// reconciles the reply. A roster with no named players returns an empty
// result without a remote call. Any failure returns an empty slice and an
// error wrapping apperrors.ErrRemoteUnavailable.
func (c *Client) Fetch(ctx context.Context, players []models.PlayerRecord) ([]models.InsightRecord, error) {
	payload := BuildPayload(players)
	if len(payload) == 0 {
		return []models.InsightRecord{}, nil
	}

	body, err := c.poster.PostJSON(ctx, Endpoint, payload)
	if err != nil {
		return []models.InsightRecord{}, err
	}

	records, err := Reconcile(body)
	if err != nil {
		c.logger.Warn("Discarding malformed insight response", zap.Error(err))
		return []models.InsightRecord{}, err
	}

	c.logger.Debug("Fetched insights",
		zap.Int("requested", len(payload)),
		zap.Int("received", len(records)))
	return records, nil
}
