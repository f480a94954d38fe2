package roster

import (
	"sort"

	"github.com/brandonnguyen11/rosterAI/pkg/models"
)

// Partition splits a roster into active and bench, each in roster order.
// Only Slot == "BEN" is bench; IR, bye and empty slots count as active.
func Partition(players []models.PlayerRecord) models.RosterPartition {
	p := models.RosterPartition{
		Active: make([]models.PlayerRecord, 0, len(players)),
		Bench:  make([]models.PlayerRecord, 0),
	}
	for _, player := range players {
		if player.IsBench() {
			p.Bench = append(p.Bench, player)
		} else {
			p.Active = append(p.Active, player)
		}
	}
	return p
}

// Summarize counts the roster.
func Summarize(players []models.PlayerRecord) models.RosterSummary {
	s := models.RosterSummary{Total: len(players)}
	for _, player := range players {
		if player.IsBench() {
			s.BenchCount++
		} else {
			s.ActiveCount++
		}
	}
	return s
}

// GroupByPosition buckets the roster by canonical position in display order,
// with PositionUnknown last. Empty positions are omitted. Within a group players
// are ordered by projection, highest first, with missing projections after
// every projected player; roster order breaks ties.
func GroupByPosition(players []models.PlayerRecord) []models.PositionGroup {
	buckets := make(map[string][]models.PlayerRecord)
	for _, player := range players {
		pos := models.CanonicalPosition(player.Position)
		buckets[pos] = append(buckets[pos], player)
	}

	order := append(append([]string{}, models.Positions...), models.PositionUnknown)
	groups := make([]models.PositionGroup, 0, len(buckets))
	for _, pos := range order {
		members := buckets[pos]
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return projectionLess(members[j].ProjectedPoints, members[i].ProjectedPoints)
		})
		groups = append(groups, models.PositionGroup{
			Position: pos,
			Color:    ColorFor(pos),
			Players:  members,
		})
	}
	return groups
}

// projectionLess orders nil before any number, then numbers ascending.
func projectionLess(a, b *float64) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return *a < *b
	}
}
