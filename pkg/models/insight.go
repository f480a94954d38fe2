package models

// Recommendation values. Anything else coming back from the insight service is
// reconciled to RecommendationSit.
const (
	RecommendationStart = "START"
	RecommendationSit   = "SIT"
)

// Confidence bounds for insight records.
const (
	MinConfidence = 0
	MaxConfidence = 100
)

// InsightRequestItem is one player in the payload sent to the insight service.
type InsightRequestItem struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Opponent string `json:"opponent"`
}

// InsightRecord is a reconciled start/sit recommendation for one player.
// Never persisted; regenerated on every request.
type InsightRecord struct {
	PlayerName     string   `json:"playerName"`
	Team           string   `json:"team"`
	Position       string   `json:"position"`
	Opponent       string   `json:"opponent"`
	Recommendation string   `json:"recommendation"`
	Confidence     int      `json:"confidence"`
	Insights       []string `json:"insights"`
	TeamColor      string   `json:"teamColor"`
}

// Remote result status values.
const (
	RemoteStatusOK          = "ok"
	RemoteStatusUnavailable = "unavailable"
)

// InsightResult is what callers render: either fresh insights or an explicit
// empty state with Status == RemoteStatusUnavailable.
type InsightResult struct {
	RequestID string          `json:"requestId"`
	Status    string          `json:"status"`
	Players   []InsightRecord `json:"players"`
}
