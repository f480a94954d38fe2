package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/events"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/repositories"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
	"github.com/brandonnguyen11/rosterAI/pkg/services"
)

func TestRosterEventsHandler_PushesSnapshotAndUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := roster.NewStore(repositories.NewMemoryKeyValueStore(), "rosterai", zap.NewNop())
	require.NoError(t, store.ReplaceAll(ctx, []models.PlayerRecord{{PlayerName: "Josh Allen", Slot: "QB"}}, "a.csv"))

	hub := events.NewHub(nil, zap.NewNop())
	defer hub.Close()
	unsubscribe := store.Subscribe(func(s models.RosterSnapshot) {
		hub.BroadcastRoster(services.BuildRosterView(s))
	})
	defer unsubscribe()

	rosterService := services.NewRosterService(store, nil, zap.NewNop())
	mux := http.NewServeMux()
	NewRosterEventsHandler(ctx, hub, rosterService, []string{"*"}, zap.NewNop()).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/roster/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first events.Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, events.TypeRosterSnapshot, first.Type)
	require.NotNil(t, first.Roster)
	assert.Equal(t, "a.csv", first.Roster.FileName)
	assert.Len(t, first.Roster.Active, 1)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, store.ReplaceAll(ctx, []models.PlayerRecord{
		{PlayerName: "Derrick Henry", Slot: "BEN"},
		{PlayerName: "Saquon Barkley", Slot: "RB"},
	}, "b.csv"))

	var update events.Message
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, events.TypeRosterUpdated, update.Type)
	assert.Equal(t, "b.csv", update.Roster.FileName)
	assert.Equal(t, models.RosterSummary{Total: 2, ActiveCount: 1, BenchCount: 1}, update.Roster.Summary)

	require.NoError(t, store.Clear(ctx))

	var cleared events.Message
	require.NoError(t, conn.ReadJSON(&cleared))
	assert.Empty(t, cleared.Roster.Players)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	withOrigin := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/roster/events", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	restricted := originChecker([]string{"https://app.rosterai.dev"})
	assert.True(t, restricted(withOrigin("https://app.rosterai.dev")))
	assert.False(t, restricted(withOrigin("https://evil.example")))
	assert.True(t, restricted(withOrigin("")), "native clients send no Origin")

	assert.True(t, originChecker([]string{"*"})(withOrigin("https://anything.example")))
	assert.True(t, originChecker(nil)(withOrigin("https://anything.example")))
}
