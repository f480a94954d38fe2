// Package normalize maps heterogeneous roster exports onto models.PlayerRecord.
package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/csvimport"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
)

// Normalizer resolves RawRows to PlayerRecords using an ordered alias table.
// Normalization never fails: missing or malformed data resolves to defaults.
type Normalizer struct {
	aliases []FieldAliases
	folded  map[Field][]string
	logger  *zap.Logger
}

// NewNormalizer creates a Normalizer over the built-in alias table plus any extras.
func NewNormalizer(extra map[Field][]string, logger *zap.Logger) *Normalizer {
	aliases := mergeAliases(DefaultAliases(), extra)

	folded := make(map[Field][]string, len(aliases))
	for _, fa := range aliases {
		keys := make([]string, len(fa.Aliases))
		for i, a := range fa.Aliases {
			keys[i] = foldHeader(a)
		}
		folded[fa.Field] = keys
	}

	return &Normalizer{
		aliases: aliases,
		folded:  folded,
		logger:  logger.Named("normalize"),
	}
}

// Aliases returns the effective alias table.
func (n *Normalizer) Aliases() []FieldAliases {
	out := make([]FieldAliases, len(n.aliases))
	for i, fa := range n.aliases {
		out[i] = FieldAliases{Field: fa.Field, Aliases: append([]string{}, fa.Aliases...)}
	}
	return out
}

// NormalizeAll normalizes rows in order. The result has exactly one record per row.
func (n *Normalizer) NormalizeAll(rows []csvimport.RawRow) []models.PlayerRecord {
	records := make([]models.PlayerRecord, len(rows))
	defaulted := 0
	for i, row := range rows {
		records[i] = n.Normalize(row)
		if !records[i].HasName() {
			defaulted++
		}
	}

	if defaulted > 0 {
		n.logger.Debug("Rows without a player name were given the default name",
			zap.Int("rows", len(rows)),
			zap.Int("defaulted", defaulted))
	}
	return records
}

// Normalize produces one PlayerRecord from one row.
func (n *Normalizer) Normalize(row csvimport.RawRow) models.PlayerRecord {
	cells := indexRow(row)

	record := models.PlayerRecord{
		PlayerName: models.DefaultPlayerName,
		Team:       models.DefaultTeam,
		Position:   models.PositionUnknown,
		Opponent:   models.DefaultOpponent,
	}

	if v, ok := n.lookup(cells, FieldPlayerName); ok {
		record.PlayerName = v
	}
	if v, ok := n.lookup(cells, FieldTeam); ok {
		record.Team = models.CanonicalTeam(v)
	}
	if v, ok := n.lookup(cells, FieldPosition); ok {
		record.Position = models.CanonicalPosition(v)
	}
	if v, ok := n.lookup(cells, FieldSlot); ok {
		record.Slot = strings.ToUpper(v)
	}
	if v, ok := n.lookup(cells, FieldOpponent); ok {
		record.Opponent = v
	}
	if v, ok := n.lookup(cells, FieldProjectedPoints); ok {
		record.ProjectedPoints = parseProjection(v)
	}

	return record
}

// lookup returns the first present, non-empty, trimmed cell among field's aliases.
func (n *Normalizer) lookup(cells map[string]string, field Field) (string, bool) {
	for _, key := range n.folded[field] {
		if v, ok := cells[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// indexRow keys a row by folded header with trimmed values. When two headers
// fold to the same key, a non-empty value beats an empty one; between two
// non-empty values the lexically smaller raw header wins so results do not
// depend on map iteration order.
func indexRow(row csvimport.RawRow) map[string]string {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	cells := make(map[string]string, len(row))
	for _, h := range headers {
		key := foldHeader(h)
		value := strings.TrimSpace(row[h])
		if existing, ok := cells[key]; ok && existing != "" {
			continue
		}
		cells[key] = value
	}
	return cells
}

// parseProjection parses a projected point total. Returns nil for anything
// that is not a finite number; zero is a legitimate projection and is kept.
func parseProjection(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
