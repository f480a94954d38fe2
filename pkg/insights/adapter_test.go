package insights

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
)

func samplePlayers() []models.PlayerRecord {
	return []models.PlayerRecord{
		{PlayerName: "Josh Allen", Team: "BUF", Position: "QB", Slot: "QB", Opponent: "MIA"},
		{PlayerName: models.DefaultPlayerName, Team: models.DefaultTeam, Position: models.PositionUnknown, Opponent: models.DefaultOpponent},
		{PlayerName: "Derrick Henry", Team: "BAL", Position: "RB", Slot: "BEN", Opponent: "CIN"},
		{PlayerName: "", Team: "KC", Position: "TE"},
	}
}

func TestBuildPayload_ExcludesUnnamedPlayers(t *testing.T) {
	payload := BuildPayload(samplePlayers())

	require.Len(t, payload, 2)
	assert.Equal(t, models.InsightRequestItem{Name: "Josh Allen", Team: "BUF", Position: "QB", Opponent: "MIA"}, payload[0])
	assert.Equal(t, "Derrick Henry", payload[1].Name, "roster order preserved, bench included")
}

func TestBuildPayload_WireShape(t *testing.T) {
	data, err := json.Marshal(BuildPayload(samplePlayers()[:1]))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Josh Allen","team":"BUF","position":"QB","opponent":"MIA"}]`, string(data))
}

func TestBuildPayload_Empty(t *testing.T) {
	assert.Empty(t, BuildPayload(nil))
	assert.NotNil(t, BuildPayload(nil))
}

func TestReconcile_WellFormed(t *testing.T) {
	body := []byte(`{"players":[{
		"playerName":"Josh Allen","team":"BUF","pos":"QB","opponent":"MIA",
		"recommendation":"START","confidence":87,
		"insights":["Favorable matchup","Rushing floor"]
	}]}`)

	records, err := Reconcile(body)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.InsightRecord{
		PlayerName:     "Josh Allen",
		Team:           "BUF",
		Position:       "QB",
		Opponent:       "MIA",
		Recommendation: models.RecommendationStart,
		Confidence:     87,
		Insights:       []string{"Favorable matchup", "Rushing floor"},
		TeamColor:      roster.TeamColorFor("BUF"),
	}, records[0])
}

func TestReconcile_PlayersNotAnArray(t *testing.T) {
	records, err := Reconcile([]byte(`{"players": "not an array"}`))

	assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestReconcile_MalformedBodies(t *testing.T) {
	bodies := map[string]string{
		"empty":          ``,
		"not json":       `<html>502 Bad Gateway</html>`,
		"missing key":    `{"results":[]}`,
		"null players":   `{"players":null}`,
		"object players": `{"players":{"name":"Josh Allen"}}`,
		"top-level list": `[{"playerName":"Josh Allen"}]`,
		"truncated":      `{"players":[{"playerName":"Jo`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			records, err := Reconcile([]byte(body))
			assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
			assert.Empty(t, records)
		})
	}
}

func TestReconcile_ConfidenceClamped(t *testing.T) {
	body := []byte(`{"players":[
		{"playerName":"A","confidence":150},
		{"playerName":"B","confidence":-20},
		{"playerName":"C","confidence":"64"},
		{"playerName":"D","confidence":"very"},
		{"playerName":"E"},
		{"playerName":"F","confidence":99.6}
	]}`)

	records, err := Reconcile(body)
	require.NoError(t, err)
	require.Len(t, records, 6)

	got := make([]int, len(records))
	for i, r := range records {
		got[i] = r.Confidence
	}
	assert.Equal(t, []int{100, 0, 64, 0, 0, 100}, got)
}

func TestReconcile_RecommendationDefaultsToSit(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"START"`, models.RecommendationStart},
		{`"SIT"`, models.RecommendationSit},
		{`"start"`, models.RecommendationSit},
		{`" START"`, models.RecommendationSit},
		{`"FLEX"`, models.RecommendationSit},
		{`""`, models.RecommendationSit},
		{`null`, models.RecommendationSit},
		{`1`, models.RecommendationSit},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			records, err := Reconcile([]byte(`{"players":[{"playerName":"A","recommendation":` + tt.raw + `}]}`))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Recommendation)
		})
	}
}

func TestReconcile_LenientElements(t *testing.T) {
	body := []byte(`{"players":[
		"Josh Allen",
		42,
		null,
		{"name":"Travis Kelce","team":"kc","position":"te","opp":"DEN","insights":"Red zone target"},
		{"team":"Kansas City Chiefs","pos":"DST"}
	]}`)

	records, err := Reconcile(body)
	require.NoError(t, err)
	require.Len(t, records, 2, "non-object elements skipped")

	kelce := records[0]
	assert.Equal(t, "Travis Kelce", kelce.PlayerName)
	assert.Equal(t, "KC", kelce.Team)
	assert.Equal(t, "TE", kelce.Position)
	assert.Equal(t, "DEN", kelce.Opponent)
	assert.Equal(t, []string{"Red zone target"}, kelce.Insights)

	defense := records[1]
	assert.Equal(t, models.DefaultPlayerName, defense.PlayerName)
	assert.Equal(t, "KC", defense.Team)
	assert.Equal(t, models.PositionDEF, defense.Position)
	assert.Equal(t, models.DefaultOpponent, defense.Opponent)
	assert.Equal(t, []string{}, defense.Insights)
}

func TestReconcile_UnknownTeamGetsFallbackColor(t *testing.T) {
	records, err := Reconcile([]byte(`{"players":[{"playerName":"A","team":"???"}]}`))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTeam, records[0].Team)
	assert.Equal(t, roster.DefaultTeamColor, records[0].TeamColor)
}

type stubPoster struct {
	body     []byte
	err      error
	calls    int
	endpoint string
	payload  any
}

func (s *stubPoster) PostJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	s.calls++
	s.endpoint = endpoint
	s.payload = payload
	return s.body, s.err
}

func TestClient_Fetch(t *testing.T) {
	poster := &stubPoster{body: []byte(`{"players":[{"playerName":"Josh Allen","recommendation":"START","confidence":80}]}`)}
	client := NewClient(poster, zap.NewNop())

	records, err := client.Fetch(context.Background(), samplePlayers())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Endpoint, poster.endpoint)
	assert.Len(t, poster.payload, 2)
}

func TestClient_Fetch_NoNamedPlayersSkipsRemote(t *testing.T) {
	poster := &stubPoster{}
	client := NewClient(poster, zap.NewNop())

	records, err := client.Fetch(context.Background(), []models.PlayerRecord{{PlayerName: models.DefaultPlayerName}})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, poster.calls)
}

func TestClient_Fetch_Failures(t *testing.T) {
	remoteErr := errors.Join(apperrors.ErrRemoteUnavailable, errors.New("connection refused"))

	tests := []struct {
		name   string
		poster *stubPoster
	}{
		{"transport error", &stubPoster{err: remoteErr}},
		{"malformed body", &stubPoster{body: []byte(`{"players":"nope"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NewClient(tt.poster, zap.NewNop()).Fetch(context.Background(), samplePlayers())
			assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}
