package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
)

// fakeInsightFetcher returns canned results. When gate is set, Fetch signals
// started and waits for gate before returning.
type fakeInsightFetcher struct {
	records []models.InsightRecord
	err     error
	started chan struct{}
	gate    chan struct{}
	seen    [][]models.PlayerRecord
}

func (f *fakeInsightFetcher) Fetch(ctx context.Context, players []models.PlayerRecord) ([]models.InsightRecord, error) {
	f.seen = append(f.seen, players)
	if f.gate != nil {
		close(f.started)
		<-f.gate
	}
	if f.err != nil {
		return []models.InsightRecord{}, f.err
	}
	return f.records, nil
}

type fakeNewsFetcher struct {
	articles []models.NewsArticle
	err      error
}

func (f *fakeNewsFetcher) Fetch(ctx context.Context, players []models.PlayerRecord) ([]models.NewsArticle, error) {
	if f.err != nil {
		return []models.NewsArticle{}, f.err
	}
	return f.articles, nil
}

// racingStore commits a replacement roster right after the first Current
// read, as if an import landed while a request was being prepared.
type racingStore struct {
	*roster.Store
	t           *testing.T
	replacement []models.PlayerRecord
	raced       bool
}

func (r *racingStore) Current() []models.PlayerRecord {
	players := r.Store.Current()
	if !r.raced {
		r.raced = true
		require.NoError(r.t, r.Store.ReplaceAll(context.Background(), r.replacement, "b.csv"))
	}
	return players
}

var errRemote = fmt.Errorf("%w: connection refused", apperrors.ErrRemoteUnavailable)

func TestInsightService_Generate(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.ReplaceAll(context.Background(), []models.PlayerRecord{{PlayerName: "Josh Allen"}}, "a.csv"))

	fetcher := &fakeInsightFetcher{records: []models.InsightRecord{
		{PlayerName: "Josh Allen", Recommendation: models.RecommendationStart, Confidence: 80, Insights: []string{}},
	}}
	svc := NewInsightService(store, fetcher, nil, zap.NewNop())
	defer svc.Close()

	result, err := svc.Generate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.RemoteStatusOK, result.Status)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, fetcher.records, result.Players)
	require.Len(t, fetcher.seen, 1)
	assert.Equal(t, "Josh Allen", fetcher.seen[0][0].PlayerName)
}

func TestInsightService_UnavailableIsEmptyResult(t *testing.T) {
	svc := NewInsightService(newTestStore(), &fakeInsightFetcher{err: errRemote}, nil, zap.NewNop())
	defer svc.Close()

	result, err := svc.Generate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.RemoteStatusUnavailable, result.Status)
	assert.NotNil(t, result.Players)
	assert.Empty(t, result.Players)
}

func TestInsightService_EachCallIsFresh(t *testing.T) {
	fetcher := &fakeInsightFetcher{records: []models.InsightRecord{{PlayerName: "Josh Allen"}}}
	svc := NewInsightService(newTestStore(), fetcher, nil, zap.NewNop())
	defer svc.Close()

	first, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Players, 1)

	fetcher.err = errRemote
	second, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Players, "a failed call never reuses earlier insights")
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestInsightService_RosterChangeMakesResponseStale(t *testing.T) {
	store := newTestStore()
	fetcher := &fakeInsightFetcher{
		records: []models.InsightRecord{{PlayerName: "Old Roster Player"}},
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	svc := NewInsightService(store, fetcher, nil, zap.NewNop())
	defer svc.Close()

	type outcome struct {
		result *models.InsightResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := svc.Generate(context.Background())
		done <- outcome{r, err}
	}()

	<-fetcher.started
	require.NoError(t, store.ReplaceAll(context.Background(), []models.PlayerRecord{{PlayerName: "New"}}, "new.csv"))
	close(fetcher.gate)

	got := <-done
	assert.ErrorIs(t, got.err, apperrors.ErrStaleResponse)
	assert.Nil(t, got.result)
}

func TestInsightService_RosterReplacedWhileReadingIsStale(t *testing.T) {
	store := &racingStore{
		Store:       newTestStore(),
		t:           t,
		replacement: []models.PlayerRecord{{PlayerName: "B Player"}},
	}
	require.NoError(t, store.Store.ReplaceAll(context.Background(), []models.PlayerRecord{{PlayerName: "A Player"}}, "a.csv"))

	fetcher := &fakeInsightFetcher{records: []models.InsightRecord{{PlayerName: "A Player", Insights: []string{}}}}
	svc := NewInsightService(store, fetcher, nil, zap.NewNop())
	defer svc.Close()

	result, err := svc.Generate(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrStaleResponse)
	assert.Nil(t, result)
	assert.Equal(t, "B Player", store.Store.Current()[0].PlayerName)
}

func TestNewsService_RosterReplacedWhileReadingIsStale(t *testing.T) {
	store := &racingStore{
		Store:       newTestStore(),
		t:           t,
		replacement: []models.PlayerRecord{{PlayerName: "B Player"}},
	}
	require.NoError(t, store.Store.ReplaceAll(context.Background(), []models.PlayerRecord{{PlayerName: "A Player"}}, "a.csv"))

	svc := NewNewsService(store, &fakeNewsFetcher{articles: []models.NewsArticle{{PlayerName: "A Player"}}}, nil, zap.NewNop())
	defer svc.Close()

	result, err := svc.Articles(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrStaleResponse)
	assert.Nil(t, result)
}

func TestInsightService_ClosedServiceIgnoresRosterChanges(t *testing.T) {
	store := newTestStore()
	svc := NewInsightService(store, &fakeInsightFetcher{}, nil, zap.NewNop())
	svc.Close()
	svc.Close()

	require.NoError(t, store.Clear(context.Background()))
}

func TestInsightService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewInsightService(newTestStore(), &fakeInsightFetcher{err: errRemote}, nil, zap.NewNop())
	defer svc.Close()

	_, err := svc.Generate(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewsService_Articles(t *testing.T) {
	fetcher := &fakeNewsFetcher{articles: []models.NewsArticle{
		{PlayerName: "Josh Allen", ArticleTitle: "Allen throws four touchdowns"},
		{PlayerName: "Derrick Henry", ArticleTitle: "Henry over 150 yards"},
	}}
	svc := NewNewsService(newTestStore(), fetcher, nil, zap.NewNop())
	defer svc.Close()

	all, err := svc.Articles(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.RemoteStatusOK, all.Status)
	assert.Len(t, all.Articles, 2)

	one, err := svc.Articles(context.Background(), "derrick henry")
	require.NoError(t, err)
	require.Len(t, one.Articles, 1)
	assert.Equal(t, "Derrick Henry", one.Articles[0].PlayerName)

	none, err := svc.Articles(context.Background(), "Patrick Mahomes")
	require.NoError(t, err)
	assert.NotNil(t, none.Articles)
	assert.Empty(t, none.Articles)
}

func TestNewsService_Unavailable(t *testing.T) {
	svc := NewNewsService(newTestStore(), &fakeNewsFetcher{err: errRemote}, nil, zap.NewNop())
	defer svc.Close()

	result, err := svc.Articles(context.Background(), "Josh Allen")

	require.NoError(t, err)
	assert.Equal(t, models.RemoteStatusUnavailable, result.Status)
	assert.Empty(t, result.Articles)
}

func TestRosterService_View(t *testing.T) {
	store := newTestStore()
	_, err := newTestImportService(store, nil).Import(context.Background(), []byte(espnExport), "espn.csv")
	require.NoError(t, err)

	view := NewRosterService(store, nil, zap.NewNop()).View(context.Background())

	assert.Equal(t, "espn.csv", view.FileName)
	assert.Len(t, view.Players, 3)
	require.Len(t, view.Active, 2)
	assert.Equal(t, "Josh Allen", view.Active[0].PlayerName)
	assert.Equal(t, models.DefaultPlayerName, view.Active[1].PlayerName)
	require.Len(t, view.Bench, 1)
	assert.Equal(t, "Derrick Henry", view.Bench[0].PlayerName)
	assert.Equal(t, models.RosterSummary{Total: 3, ActiveCount: 2, BenchCount: 1}, view.Summary)
	assert.Len(t, view.Groups, 3)
}

func TestRosterService_EmptyView(t *testing.T) {
	view := NewRosterService(newTestStore(), nil, zap.NewNop()).View(context.Background())

	assert.NotNil(t, view.Players)
	assert.NotNil(t, view.Active)
	assert.NotNil(t, view.Bench)
	assert.NotNil(t, view.Groups)
	assert.Zero(t, view.Summary.Total)
}

func TestRosterService_Clear(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.ReplaceAll(context.Background(), []models.PlayerRecord{{PlayerName: "A"}}, "a.csv"))
	svc := NewRosterService(store, nil, zap.NewNop())

	require.NoError(t, svc.Clear(context.Background()))
	require.NoError(t, svc.Clear(context.Background()))
	assert.Empty(t, svc.View(context.Background()).Players)
}
