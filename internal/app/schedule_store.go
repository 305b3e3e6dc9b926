package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"mrt6.timetable.org/internal/config"
	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/publish"
	"mrt6.timetable.org/internal/timetable"
	"mrt6.timetable.org/timetabledb"
)

// Source loads every available timetable, keyed by variant
type Source interface {
	Load(ctx context.Context) (map[string]*timetable.Timetable, error)
}

// JSONSource reads the published JSON files. Variants whose file is missing
// are skipped
type JSONSource struct {
	Dir      string
	Variants []config.VariantConfig
	Logger   *slog.Logger
}

func (s JSONSource) Load(ctx context.Context) (map[string]*timetable.Timetable, error) {
	out := make(map[string]*timetable.Timetable, len(s.Variants))
	for _, v := range s.Variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.Dir, v.Output)
		tt, err := publish.ReadJSON(path, v.Key, s.Logger)
		if errors.Is(err, os.ErrNotExist) {
			logging.LogWarning(s.Logger, "timetable file missing", nil,
				slog.String("variant", v.Key),
				slog.String("path", path))
			continue
		}
		if err != nil {
			return nil, err
		}
		out[v.Key] = tt
	}
	return out, nil
}

// DBSource reads every variant archived in the timetable database
type DBSource struct {
	Client *timetabledb.Client
}

func (s DBSource) Load(ctx context.Context) (map[string]*timetable.Timetable, error) {
	variants, err := s.Client.Variants(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*timetable.Timetable, len(variants))
	for _, v := range variants {
		tt, err := s.Client.LoadTimetable(ctx, v)
		if err != nil {
			return nil, err
		}
		out[v] = tt
	}
	return out, nil
}

// ScheduleStore holds the timetables served by the API and can refresh them
// from their source in the background
type ScheduleStore struct {
	source       Source
	logger       *slog.Logger
	mu           sync.RWMutex
	timetables   map[string]*timetable.Timetable
	lastUpdated  time.Time
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewScheduleStore loads the source once and, when reloadInterval is positive,
// reloads it on that interval until Shutdown
func NewScheduleStore(ctx context.Context, source Source, reloadInterval time.Duration, logger *slog.Logger) (*ScheduleStore, error) {
	store := &ScheduleStore{
		source:       source,
		logger:       logger,
		timetables:   map[string]*timetable.Timetable{},
		shutdownChan: make(chan struct{}),
	}
	if err := store.Reload(ctx); err != nil {
		return nil, fmt.Errorf("loading timetables: %w", err)
	}

	if reloadInterval > 0 {
		store.wg.Add(1)
		go store.reloadPeriodically(reloadInterval)
	}
	return store, nil
}

// NewStaticScheduleStore serves a fixed set of timetables
func NewStaticScheduleStore(timetables ...*timetable.Timetable) *ScheduleStore {
	store := &ScheduleStore{
		timetables:   make(map[string]*timetable.Timetable, len(timetables)),
		lastUpdated:  time.Now(),
		shutdownChan: make(chan struct{}),
	}
	for _, tt := range timetables {
		store.timetables[tt.Variant] = tt
	}
	return store
}

// Reload replaces the held timetables with a fresh load from the source.
// On failure the previous timetables are kept
func (s *ScheduleStore) Reload(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	loaded, err := s.source.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.timetables = loaded
	s.lastUpdated = time.Now()
	s.mu.Unlock()

	logging.LogOperation(s.logger, "timetables_loaded",
		slog.Int("variants", len(loaded)),
		slog.String("component", "schedule_store"))
	return nil
}

func (s *ScheduleStore) reloadPeriodically(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := s.Reload(ctx)
			cancel()
			if err != nil {
				logging.LogError(s.logger, "timetable reload failed", err,
					slog.String("component", "schedule_store"))
			}
		case <-s.shutdownChan:
			return
		}
	}
}

// Shutdown stops background reloads. It is safe to call more than once
func (s *ScheduleStore) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
		s.wg.Wait()
	})
}

// Get returns the timetable of a variant
func (s *ScheduleStore) Get(variant string) (*timetable.Timetable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tt, ok := s.timetables[variant]
	return tt, ok
}

// Variants lists the held variants in name order
func (s *ScheduleStore) Variants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.timetables))
	for k := range s.timetables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LastUpdated is when the timetables were last loaded
func (s *ScheduleStore) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}
