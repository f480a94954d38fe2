package services

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/csvimport"
	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/normalize"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
)

// ImportService runs the CSV import pipeline: parse, normalize, replace the
// stored roster.
type ImportService interface {
	// Import replaces the roster with the contents of a CSV export.
	// Only one import runs at a time; a concurrent call fails with
	// apperrors.ErrImportInProgress without touching the roster.
	Import(ctx context.Context, content []byte, fileName string) (*models.ImportResult, error)
}

type importService struct {
	store      RosterStore
	normalizer *normalize.Normalizer
	metrics    *metrics.Metrics
	logger     *zap.Logger

	mu sync.Mutex
}

// NewImportService creates an import service. m may be nil.
func NewImportService(store RosterStore, normalizer *normalize.Normalizer, m *metrics.Metrics, logger *zap.Logger) ImportService {
	return &importService{
		store:      store,
		normalizer: normalizer,
		metrics:    m,
		logger:     logger.Named("import"),
	}
}

var _ ImportService = (*importService)(nil)

func (s *importService) Import(ctx context.Context, content []byte, fileName string) (*models.ImportResult, error) {
	if !s.mu.TryLock() {
		s.metrics.Import(metrics.ImportRejected)
		return nil, apperrors.ErrImportInProgress
	}
	defer s.mu.Unlock()

	fileName = cleanFileName(fileName)

	if len(bytes.TrimSpace(content)) == 0 {
		s.metrics.Import(metrics.ImportParseErr)
		return nil, apperrors.ErrEmptyUpload
	}

	rows, err := csvimport.Parse(content)
	if err != nil {
		s.logger.Info("Rejected roster file",
			zap.String("file_name", fileName),
			zap.Error(err))
		s.metrics.Import(metrics.ImportParseErr)
		return nil, err
	}

	records := s.normalizer.NormalizeAll(rows)

	if err := s.store.ReplaceAll(ctx, records, fileName); err != nil {
		if !errors.Is(err, apperrors.ErrPersistence) {
			s.logger.Error("Unexpected roster store error", zap.Error(err))
		}
		s.metrics.Import(metrics.ImportStoreErr)
		return nil, err
	}

	result := &models.ImportResult{
		FileName: fileName,
		Summary:  roster.Summarize(records),
	}
	for _, r := range records {
		if !r.HasName() {
			result.UnnamedPlayers++
		}
		if r.ProjectedPoints == nil {
			result.MissingProjections++
		}
	}

	s.metrics.Import(metrics.ImportSucceeded)
	s.metrics.SetRosterSize(result.Summary.ActiveCount, result.Summary.BenchCount)
	s.logger.Info("Imported roster",
		zap.String("file_name", fileName),
		zap.Int("players", result.Summary.Total),
		zap.Int("bench", result.Summary.BenchCount),
		zap.Int("unnamed", result.UnnamedPlayers))

	return result, nil
}

// cleanFileName keeps only the base name of an uploaded file. Clients may send
// a full path, sometimes with Windows separators.
func cleanFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
