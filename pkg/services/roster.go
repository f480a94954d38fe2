package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
)

// RosterStore is the part of roster.Store the services depend on.
type RosterStore interface {
	ReplaceAll(ctx context.Context, records []models.PlayerRecord, fileName string) error
	Clear(ctx context.Context) error
	Current() []models.PlayerRecord
	Snapshot() models.RosterSnapshot
	Subscribe(fn roster.Listener) (unsubscribe func())
}

var _ RosterStore = (*roster.Store)(nil)

// RosterService serves the classified roster.
type RosterService interface {
	// View returns the current roster partitioned, summarized and grouped.
	View(ctx context.Context) *models.RosterView

	// Clear removes the stored roster.
	Clear(ctx context.Context) error
}

type rosterService struct {
	store   RosterStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRosterService creates a roster service. m may be nil.
func NewRosterService(store RosterStore, m *metrics.Metrics, logger *zap.Logger) RosterService {
	return &rosterService{
		store:   store,
		metrics: m,
		logger:  logger.Named("roster-service"),
	}
}

var _ RosterService = (*rosterService)(nil)

func (s *rosterService) View(ctx context.Context) *models.RosterView {
	return BuildRosterView(s.store.Snapshot())
}

func (s *rosterService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.metrics.SetRosterSize(0, 0)
	return nil
}

// BuildRosterView classifies a snapshot. Every list in the result is non-nil.
func BuildRosterView(snap models.RosterSnapshot) *models.RosterView {
	players := snap.Players
	if players == nil {
		players = []models.PlayerRecord{}
	}
	partition := roster.Partition(players)
	return &models.RosterView{
		FileName:  snap.FileName,
		UpdatedAt: snap.UpdatedAt,
		Players:   players,
		Active:    partition.Active,
		Bench:     partition.Bench,
		Summary:   roster.Summarize(players),
		Groups:    roster.GroupByPosition(players),
	}
}
