package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
	"github.com/brandonnguyen11/rosterAI/pkg/repositories"
)

// Storage keys, relative to the store namespace.
const (
	KeyRosterData     = "rosterData"
	KeyRosterFileName = "rosterFileName"
)

// Listener receives the full roster after every successful replace or clear.
// Listeners run synchronously while the store holds its write lock, so they
// must not block or call back into ReplaceAll or Clear.
type Listener func(models.RosterSnapshot)

// Store is the single authoritative roster. Writes go to durable storage
// first and are published to readers only once they have succeeded, so a
// failed write leaves the previous roster in place.
type Store struct {
	kv      repositories.KeyValueStore
	dataKey string
	fileKey string
	logger  *zap.Logger
	now     func() time.Time

	writeMu  sync.Mutex
	snapshot atomic.Pointer[models.RosterSnapshot]

	listenersMu sync.RWMutex
	listeners   map[string]Listener
}

// NewStore creates an empty store over kv. Call LoadPersisted to pick up a
// roster saved by a previous process.
func NewStore(kv repositories.KeyValueStore, namespace string, logger *zap.Logger) *Store {
	s := &Store{
		kv:        kv,
		dataKey:   repositories.NamespacedKey(namespace, KeyRosterData),
		fileKey:   repositories.NamespacedKey(namespace, KeyRosterFileName),
		logger:    logger.Named("roster"),
		now:       time.Now,
		listeners: make(map[string]Listener),
	}
	s.snapshot.Store(&models.RosterSnapshot{Players: []models.PlayerRecord{}})
	return s
}

// ReplaceAll swaps in a new roster and the name of the file it came from.
// Both are written in one atomic storage call. On failure the error wraps
// apperrors.ErrPersistence and readers keep seeing the previous roster.
func (s *Store) ReplaceAll(ctx context.Context, records []models.PlayerRecord, fileName string) error {
	players := sanitize(records)
	data, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("%w: failed to encode roster: %w", apperrors.ErrPersistence, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err = s.kv.SetMany(ctx, map[string]string{
		s.dataKey: string(data),
		s.fileKey: fileName,
	})
	if err != nil {
		s.logger.Error("Failed to persist roster; keeping previous roster",
			zap.Int("players", len(players)),
			zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	snap := &models.RosterSnapshot{
		Players:   players,
		FileName:  fileName,
		UpdatedAt: s.now(),
	}
	s.snapshot.Store(snap)

	s.logger.Info("Roster replaced",
		zap.Int("players", len(players)),
		zap.String("file_name", fileName))

	s.notify(*snap)
	return nil
}

// LoadPersisted reads the stored roster into memory and returns it. A missing
// or corrupt payload loads as an empty roster; only a failing storage read is
// an error (wrapping apperrors.ErrPersistence).
func (s *Store) LoadPersisted(ctx context.Context) ([]models.PlayerRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, found, err := s.kv.Get(ctx, s.dataKey)
	if err != nil {
		return []models.PlayerRecord{}, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	empty := &models.RosterSnapshot{Players: []models.PlayerRecord{}}
	if !found {
		s.logger.Debug("No stored roster")
		s.snapshot.Store(empty)
		return []models.PlayerRecord{}, nil
	}

	var records []models.PlayerRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		s.logger.Warn("Stored roster is corrupt; starting empty",
			zap.Int("bytes", len(data)),
			zap.Error(err))
		s.snapshot.Store(empty)
		return []models.PlayerRecord{}, nil
	}

	fileName, _, err := s.kv.Get(ctx, s.fileKey)
	if err != nil {
		s.logger.Warn("Failed to read stored roster file name", zap.Error(err))
		fileName = ""
	}

	players := sanitize(records)
	s.snapshot.Store(&models.RosterSnapshot{
		Players:   players,
		FileName:  fileName,
		UpdatedAt: s.now(),
	})

	s.logger.Info("Loaded stored roster",
		zap.Int("players", len(players)),
		zap.String("file_name", fileName))
	return slices.Clone(players), nil
}

// Clear removes the roster from memory and storage. Clearing an empty roster
// succeeds.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.kv.Delete(ctx, s.dataKey, s.fileKey); err != nil {
		s.logger.Error("Failed to clear stored roster", zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	snap := &models.RosterSnapshot{
		Players:   []models.PlayerRecord{},
		UpdatedAt: s.now(),
	}
	s.snapshot.Store(snap)
	s.logger.Info("Roster cleared")

	s.notify(*snap)
	return nil
}

// Current returns a copy of the in-memory roster.
func (s *Store) Current() []models.PlayerRecord {
	return slices.Clone(s.snapshot.Load().Players)
}

// Snapshot returns a copy of the in-memory roster with its metadata.
func (s *Store) Snapshot() models.RosterSnapshot {
	snap := *s.snapshot.Load()
	snap.Players = slices.Clone(snap.Players)
	return snap
}

// FileName returns the name of the file the current roster was imported from.
func (s *Store) FileName() string {
	return s.snapshot.Load().FileName
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. The returned function is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := uuid.NewString()

	s.listenersMu.Lock()
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Store) notify(snap models.RosterSnapshot) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		copied := snap
		copied.Players = slices.Clone(snap.Players)
		fn(copied)
	}
}

// sanitize copies records and re-applies the record invariants, so a roster
// written by an older build or edited by hand still satisfies them.
func sanitize(records []models.PlayerRecord) []models.PlayerRecord {
	out := make([]models.PlayerRecord, len(records))
	for i, r := range records {
		r.PlayerName = strings.TrimSpace(r.PlayerName)
		if r.PlayerName == "" {
			r.PlayerName = models.DefaultPlayerName
		}
		r.Team = models.CanonicalTeam(r.Team)
		r.Position = models.CanonicalPosition(r.Position)
		r.Slot = strings.ToUpper(strings.TrimSpace(r.Slot))
		r.Opponent = strings.TrimSpace(r.Opponent)
		if r.Opponent == "" {
			r.Opponent = models.DefaultOpponent
		}
		out[i] = r
	}
	return out
}
