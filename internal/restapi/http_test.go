package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"mrt6.timetable.org/internal/app"
	"mrt6.timetable.org/internal/appconf"
	"mrt6.timetable.org/internal/config"
	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/models"
	"mrt6.timetable.org/internal/timetable"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestApi builds an API over the shipped line with every variant
// generated. The clock reads Monday 2024-06-03 07:15 in Dhaka
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	logger := discardLogger()

	cfg, err := config.LoadLineConfig("../../data/mrt6.yml")
	require.NoError(t, err)
	line, policy, defaults, err := cfg.Build()
	require.NoError(t, err)
	loc, err := cfg.Location()
	require.NoError(t, err)

	variants, err := config.LoadSlotDocument("../../data/timetable-config.md", cfg, defaults, logger)
	require.NoError(t, err)

	gen := &timetable.Generator{Line: line, Policy: policy, Logger: logger}
	var tts []*timetable.Timetable
	for _, result := range gen.Generate(context.Background(), variants) {
		require.NoError(t, result.Err, result.Variant)
		tts = append(tts, result.Timetable)
	}

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.EnvFlagToEnvironment("test"),
			ApiKeys:   []string{"TEST"},
			RateLimit: 100,
		},
		Logger:     logger,
		LineConfig: cfg,
		Line:       line,
		Policy:     policy,
		Location:   loc,
		Schedules:  app.NewStaticScheduleStore(tts...),
		Clock: func() time.Time {
			return time.Date(2024, time.June, 3, 7, 15, 0, 0, loc)
		},
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// entryOf digs data.entry out of a decoded response
func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok)
	return entry
}

// directionTimes returns the times listed for terminus in an entry's directions
func directionTimes(t *testing.T, entry map[string]interface{}, terminus string) []string {
	t.Helper()
	directions, ok := entry["directions"].([]interface{})
	require.True(t, ok)
	for _, d := range directions {
		dir := d.(map[string]interface{})
		if dir["terminus"] != terminus {
			continue
		}
		var out []string
		for _, v := range dir["times"].([]interface{}) {
			out = append(out, v.(string))
		}
		return out
	}
	t.Fatalf("direction %q not in response", terminus)
	return nil
}
