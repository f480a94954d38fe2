package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/normalize"
	"github.com/brandonnguyen11/rosterAI/pkg/repositories"
	"github.com/brandonnguyen11/rosterAI/pkg/roster"
	"github.com/brandonnguyen11/rosterAI/pkg/services"
)

const testExport = "Player,Team,Pos,Slot,Opp,Proj\n" +
	"Josh Allen,BUF,QB,QB,MIA,24.3\n" +
	"Derrick Henry,BAL,RB,BEN,,\n" +
	",,,,,abc\n"

// mockImportService returns a fixed error.
type mockImportService struct {
	err error
}

func (m *mockImportService) Import(ctx context.Context, content []byte, fileName string) (*models.ImportResult, error) {
	return nil, m.err
}

// mockRosterService fails Clear with a fixed error.
type mockRosterService struct {
	clearErr error
}

func (m *mockRosterService) View(ctx context.Context) *models.RosterView {
	return services.BuildRosterView(models.RosterSnapshot{})
}

func (m *mockRosterService) Clear(ctx context.Context) error {
	return m.clearErr
}

func newRosterTestHandler() (*RosterHandler, *roster.Store) {
	store := roster.NewStore(repositories.NewMemoryKeyValueStore(), "rosterai", zap.NewNop())
	importService := services.NewImportService(store, normalize.NewNormalizer(nil, zap.NewNop()), nil, zap.NewNop())
	rosterService := services.NewRosterService(store, nil, zap.NewNop())
	return NewRosterHandler(importService, rosterService, zap.NewNop()), store
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, into))
}

func TestRosterHandler_ImportRawBodyThenGet(t *testing.T) {
	handler, _ := newRosterTestHandler()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import?filename=espn_week7.csv", strings.NewReader(testExport))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.ImportResult
	decodeData(t, rec, &result)
	assert.Equal(t, "espn_week7.csv", result.FileName)
	assert.Equal(t, 3, result.Summary.Total)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/roster", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view models.RosterView
	decodeData(t, rec, &view)
	assert.Equal(t, "espn_week7.csv", view.FileName)
	require.Len(t, view.Active, 2)
	assert.Equal(t, "Josh Allen", view.Active[0].PlayerName)
	assert.Equal(t, "Unknown Player", view.Active[1].PlayerName)
	require.Len(t, view.Bench, 1)
	assert.Equal(t, "Derrick Henry", view.Bench[0].PlayerName)
	assert.Equal(t, models.RosterSummary{Total: 3, ActiveCount: 2, BenchCount: 1}, view.Summary)
}

func TestRosterHandler_ImportMultipart(t *testing.T) {
	handler, store := newRosterTestHandler()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "yahoo.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(testExport))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.Import(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "yahoo.csv", store.FileName())
	assert.Len(t, store.Current(), 3)
}

func TestRosterHandler_ImportMultipartMissingFile(t *testing.T) {
	handler, _ := newRosterTestHandler()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "roster"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.Import(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_upload")
}

func TestRosterHandler_ImportTooLarge(t *testing.T) {
	handler, store := newRosterTestHandler()

	big := testExport + strings.Repeat("Filler Player,BUF,WR,WR,MIA,1\n", MaxUploadBytes/20)
	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", strings.NewReader(big))
	rec := httptest.NewRecorder()
	handler.Import(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, store.Current())
}

func TestRosterHandler_ImportErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty upload", apperrors.ErrEmptyUpload, http.StatusBadRequest, "empty_upload"},
		{"parse error", errors.Join(apperrors.ErrParse, errors.New("no header")), http.StatusBadRequest, "parse_error"},
		{"import in progress", apperrors.ErrImportInProgress, http.StatusConflict, "import_in_progress"},
		{"persistence", errors.Join(apperrors.ErrPersistence, errors.New("disk full")), http.StatusInternalServerError, "persistence_error"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRosterHandler(&mockImportService{err: tt.err}, &mockRosterService{}, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/roster/import", strings.NewReader(testExport))
			rec := httptest.NewRecorder()
			handler.Import(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestRosterHandler_EmptyBodyIsRejected(t *testing.T) {
	handler, _ := newRosterTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", strings.NewReader(""))
	rec := httptest.NewRecorder()
	handler.Import(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_upload")
}

func TestRosterHandler_Clear(t *testing.T) {
	handler, store := newRosterTestHandler()
	require.NoError(t, store.ReplaceAll(context.Background(), []models.PlayerRecord{{PlayerName: "A"}}, "a.csv"))

	rec := httptest.NewRecorder()
	handler.Clear(rec, httptest.NewRequest(http.MethodDelete, "/api/roster", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.Current())
}

func TestRosterHandler_ClearFailure(t *testing.T) {
	handler := NewRosterHandler(&mockImportService{}, &mockRosterService{clearErr: errors.Join(apperrors.ErrPersistence, errors.New("disk full"))}, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Clear(rec, httptest.NewRequest(http.MethodDelete, "/api/roster", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRosterHandler_GetEmptyRoster(t *testing.T) {
	handler, _ := newRosterTestHandler()

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/roster", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":[]`)
	assert.Contains(t, rec.Body.String(), `"bench":[]`)
}
