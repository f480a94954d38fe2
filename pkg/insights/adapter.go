// Package insights builds requests for the start/sit insight service and
// turns its loosely shaped responses into typed records.
package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/jsonutil"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
)

// BuildPayload projects the roster onto the request shape, in roster order.
// Players that came in without a name are left out so placeholder rows never
// reach the service.
func BuildPayload(players []models.PlayerRecord) []models.InsightRequestItem {
	payload := make([]models.InsightRequestItem, 0, len(players))
	for _, p := range players {
		if !p.HasName() {
			continue
		}
		payload = append(payload, models.InsightRequestItem{
			Name:     p.PlayerName,
			Team:     p.Team,
			Position: p.Position,
			Opponent: p.Opponent,
		})
	}
	return payload
}

// responsePlayer is one element of the "players" array. Every field is raw
// because the service is inconsistent about types.
type responsePlayer struct {
	PlayerName     json.RawMessage `json:"playerName"`
	Name           json.RawMessage `json:"name"`
	Team           json.RawMessage `json:"team"`
	Pos            json.RawMessage `json:"pos"`
	Position       json.RawMessage `json:"position"`
	Opponent       json.RawMessage `json:"opponent"`
	Opp            json.RawMessage `json:"opp"`
	Recommendation json.RawMessage `json:"recommendation"`
	Confidence     json.RawMessage `json:"confidence"`
	Insights       json.RawMessage `json:"insights"`
}

// Reconcile parses an insight service response body. A body that is not a
// JSON object with a "players" array yields an empty slice and an error
// wrapping apperrors.ErrRemoteUnavailable. Elements that are not objects are
// skipped; the rest are normalized field by field.
func Reconcile(body []byte) ([]models.InsightRecord, error) {
	var envelope struct {
		Players json.RawMessage `json:"players"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return []models.InsightRecord{}, fmt.Errorf("%w: insight response is not a JSON object: %v", apperrors.ErrRemoteUnavailable, err)
	}

	raw := bytes.TrimSpace(envelope.Players)
	if len(raw) == 0 || raw[0] != '[' {
		return []models.InsightRecord{}, fmt.Errorf("%w: insight response has no players array", apperrors.ErrRemoteUnavailable)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return []models.InsightRecord{}, fmt.Errorf("%w: insight players array is malformed: %v", apperrors.ErrRemoteUnavailable, err)
	}

	records := make([]models.InsightRecord, 0, len(elements))
	for _, el := range elements {
		el = bytes.TrimSpace(el)
		if len(el) == 0 || el[0] != '{' {
			continue
		}
		var p responsePlayer
		if err := json.Unmarshal(el, &p); err != nil {
			continue
		}
		records = append(records, reconcilePlayer(p))
	}
	return records, nil
}

func reconcilePlayer(p responsePlayer) models.InsightRecord {
	name := firstString(p.PlayerName, p.Name)
	if name == "" {
		name = models.DefaultPlayerName
	}

	team := models.CanonicalTeam(firstString(p.Team))
	opponent := firstString(p.Opponent, p.Opp)
	if opponent == "" {
		opponent = models.DefaultOpponent
	}

	return models.InsightRecord{
		PlayerName:     name,
		Team:           team,
		Position:       models.CanonicalPosition(firstString(p.Pos, p.Position)),
		Opponent:       opponent,
		Recommendation: reconcileRecommendation(jsonutil.FlexibleStringValue(p.Recommendation)),
		Confidence:     ClampConfidence(p.Confidence),
		Insights:       jsonutil.FlexibleStringSlice(p.Insights),
		TeamColor:      roster.TeamColorFor(team),
	}
}

// reconcileRecommendation keeps START or SIT verbatim and turns anything
// else, including lowercase variants, into SIT.
func reconcileRecommendation(value string) string {
	if value == models.RecommendationStart {
		return models.RecommendationStart
	}
	return models.RecommendationSit
}

// ClampConfidence reads a confidence value and clamps it to
// [MinConfidence, MaxConfidence]. Missing or non-numeric values become
// MinConfidence.
func ClampConfidence(raw json.RawMessage) int {
	v, ok := jsonutil.FlexibleIntValue(raw)
	if !ok {
		return models.MinConfidence
	}
	return max(models.MinConfidence, min(models.MaxConfidence, v))
}

func firstString(values ...json.RawMessage) string {
	for _, v := range values {
		if s := strings.TrimSpace(jsonutil.FlexibleStringValue(v)); s != "" {
			return s
		}
	}
	return ""
}
