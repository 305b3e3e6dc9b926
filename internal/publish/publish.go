// Package publish writes generated timetables as the JSON files consumed by the
// web front end, and reads them back for the query service.
package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/timetable"
)

// WriteJSON writes the timetable to path with two-space indentation. The file
// is written to a temporary sibling and renamed into place, so readers never
// see a partial timetable
func WriteJSON(path string, tt *timetable.Timetable, logger *slog.Logger) (err error) {
	compact, err := tt.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", tt.Variant, err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return fmt.Errorf("indenting %s: %w", tt.Variant, err)
	}
	out.WriteByte('\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(out.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}

	logging.LogOperation(logger, "timetable_written",
		slog.String("variant", tt.Variant),
		slog.String("path", path),
		slog.Int("bytes", out.Len()))
	return nil
}

// ReadJSON loads a timetable file written by WriteJSON
func ReadJSON(path, variant string, logger *slog.Logger) (tt *timetable.Timetable, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close timetable file")

	tt = &timetable.Timetable{}
	if err := json.NewDecoder(f).Decode(tt); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	tt.Variant = variant
	return tt, nil
}
