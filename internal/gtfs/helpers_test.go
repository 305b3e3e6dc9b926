package gtfs

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var feedFiles = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"DMTCL,Dhaka Mass Transit,https://dmtcl.gov.bd,Asia/Dhaka\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
		"MRT6,DMTCL,6,MRT Line-6,1\n" +
		"BUS,DMTCL,B,Feeder bus,3\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"UN,Uttara North,23.8759,90.3795\n" +
		"UC,Uttara Center,23.8689,90.3822\n" +
		"US,Uttara South,23.8628,90.3869\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"ALL,1,1,1,1,1,1,1,20260101,20261231\n",
	"trips.txt": "route_id,service_id,trip_id\n" +
		"MRT6,ALL,south-1\n" +
		"MRT6,ALL,south-short\n" +
		"MRT6,ALL,north-1\n" +
		"BUS,ALL,bus-1\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"south-1,07:10:00,07:10:00,UN,1\n" +
		"south-1,07:11:40,07:12:10,UC,2\n" +
		"south-1,07:14:00,07:14:00,US,3\n" +
		"south-short,07:20:00,07:20:00,UC,1\n" +
		"south-short,07:21:50,07:21:50,US,2\n" +
		"north-1,08:00:00,08:00:00,US,1\n" +
		"north-1,08:01:50,08:02:20,UC,2\n" +
		"north-1,08:04:00,08:04:00,UN,3\n" +
		"bus-1,09:00:00,09:00:00,UN,1\n" +
		"bus-1,09:30:00,09:30:00,US,2\n",
}

func buildFeed(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range feedFiles {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeFeed(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, buildFeed(t), 0o600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
