package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrt6.timetable.org/internal/appconf"
	"mrt6.timetable.org/internal/config"
	"mrt6.timetable.org/internal/publish"
	"mrt6.timetable.org/internal/timetable"
	"mrt6.timetable.org/timetabledb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTimetable(variant string, first string) *timetable.Timetable {
	tt := timetable.NewTimetable(variant, []string{"North", "South"}, []string{"South", "North"})
	tt.SetTimes("North", "South", []timetable.TimeValue{timetable.MustParseTime(first)})
	tt.SetTimes("South", "South", []timetable.TimeValue{timetable.MustParseTime(first).Add(300)})
	tt.SetTimes("South", "North", []timetable.TimeValue{timetable.MustParseTime(first).Add(600)})
	tt.SetTimes("North", "North", []timetable.TimeValue{timetable.MustParseTime(first).Add(900)})
	return tt
}

// countingSource returns a new first departure on every load
type countingSource struct {
	loads atomic.Int32
	fail  atomic.Bool
}

func (s *countingSource) Load(ctx context.Context) (map[string]*timetable.Timetable, error) {
	if s.fail.Load() {
		return nil, errors.New("source unavailable")
	}
	n := s.loads.Add(1)
	first := timetable.NewTimeValue(7, int(n), 0).FormatShort()
	return map[string]*timetable.Timetable{"weekdays": sampleTimetable("weekdays", first)}, nil
}

func TestJSONSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, publish.WriteJSON(filepath.Join(dir, "mrt-6.json"), sampleTimetable("weekdays", "07:10"), discardLogger()))

	source := JSONSource{
		Dir: dir,
		Variants: []config.VariantConfig{
			{Key: "weekdays", Output: "mrt-6.json"},
			{Key: "friday", Output: "mrt-6-fri.json"},
		},
		Logger: discardLogger(),
	}

	store, err := NewScheduleStore(context.Background(), source, 0, discardLogger())
	require.NoError(t, err)
	defer store.Shutdown()

	assert.Equal(t, []string{"weekdays"}, store.Variants())
	tt, ok := store.Get("weekdays")
	require.True(t, ok)
	assert.Equal(t, "weekdays", tt.Variant)
	assert.Equal(t, []timetable.TimeValue{timetable.MustParseTime("07:10")}, tt.Times("North", "South"))

	_, ok = store.Get("friday")
	assert.False(t, ok)
	assert.False(t, store.LastUpdated().IsZero())
}

func TestDBSource(t *testing.T) {
	client, err := timetabledb.NewClient(timetabledb.NewConfig(":memory:", appconf.Test, false), discardLogger())
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	for _, v := range []string{"weekdays", "saturday"} {
		_, err := client.StoreTimetable(ctx, sampleTimetable(v, "07:10"))
		require.NoError(t, err)
	}

	store, err := NewScheduleStore(ctx, DBSource{Client: client}, 0, discardLogger())
	require.NoError(t, err)
	defer store.Shutdown()

	assert.Equal(t, []string{"saturday", "weekdays"}, store.Variants())
	tt, ok := store.Get("saturday")
	require.True(t, ok)
	assert.Equal(t, []string{"North", "South"}, tt.Stations)
}

func TestScheduleStoreReload(t *testing.T) {
	source := &countingSource{}
	store, err := NewScheduleStore(context.Background(), source, 0, discardLogger())
	require.NoError(t, err)
	defer store.Shutdown()

	tt, _ := store.Get("weekdays")
	assert.Equal(t, timetable.MustParseTime("07:01"), tt.Times("North", "South")[0])

	require.NoError(t, store.Reload(context.Background()))
	tt, _ = store.Get("weekdays")
	assert.Equal(t, timetable.MustParseTime("07:02"), tt.Times("North", "South")[0])

	source.fail.Store(true)
	assert.Error(t, store.Reload(context.Background()))
	tt, _ = store.Get("weekdays")
	assert.Equal(t, timetable.MustParseTime("07:02"), tt.Times("North", "South")[0], "previous timetables are kept")
}

func TestNewScheduleStoreFailsOnInitialLoad(t *testing.T) {
	source := &countingSource{}
	source.fail.Store(true)

	store, err := NewScheduleStore(context.Background(), source, 0, discardLogger())
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestScheduleStorePeriodicReload(t *testing.T) {
	source := &countingSource{}
	store, err := NewScheduleStore(context.Background(), source, 10*time.Millisecond, discardLogger())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return source.loads.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		store.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown took too long")
	}

	// Second call must not panic or hang.
	store.Shutdown()
}

func TestScheduleStoreConcurrentAccess(t *testing.T) {
	source := &countingSource{}
	store, err := NewScheduleStore(context.Background(), source, 0, discardLogger())
	require.NoError(t, err)
	defer store.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tt, ok := store.Get("weekdays")
				if assert.True(t, ok) {
					assert.NotEmpty(t, tt.Times("North", "South"))
				}
				_ = store.Variants()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			assert.NoError(t, store.Reload(context.Background()))
		}
	}()
	wg.Wait()
}

func TestStaticScheduleStore(t *testing.T) {
	store := NewStaticScheduleStore(sampleTimetable("friday", "15:00"))
	defer store.Shutdown()

	assert.Equal(t, []string{"friday"}, store.Variants())
	assert.NoError(t, store.Reload(context.Background()))
	_, ok := store.Get("friday")
	assert.True(t, ok)
}
