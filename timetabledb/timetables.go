package timetabledb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/timetable"
)

// ErrVariantNotFound is returned when no timetable is stored for a variant
var ErrVariantNotFound = errors.New("variant not found")

// StoreTimetable replaces the stored rows of the timetable's variant. It
// reports false without writing when the stored content is already identical.
func (c *Client) StoreTimetable(ctx context.Context, tt *timetable.Timetable) (stored bool, err error) {
	hash, err := contentHash(tt)
	if err != nil {
		return false, err
	}

	var existing string
	err = c.DB.QueryRowContext(ctx, "SELECT content_hash FROM variants WHERE variant = ?", tt.Variant).Scan(&existing)
	switch {
	case err == nil && existing == hash:
		logging.LogOperation(c.logger, "timetable_unchanged_skipping_store",
			slog.String("variant", tt.Variant))
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("error reading stored hash: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "store_timetable")

	for _, table := range []string{"variants", "stations", "directions", "departures"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE variant = ?", tt.Variant); err != nil {
			return false, fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO variants (variant, content_hash, stored_at) VALUES (?, ?, ?)",
		tt.Variant, hash, time.Now().Unix()); err != nil {
		return false, fmt.Errorf("error inserting variant: %w", err)
	}
	if err := insertNames(ctx, tx, "INSERT INTO stations (variant, position, name) VALUES (?, ?, ?)", tt.Variant, tt.Stations); err != nil {
		return false, fmt.Errorf("error inserting stations: %w", err)
	}
	if err := insertNames(ctx, tx, "INSERT INTO directions (variant, position, terminus) VALUES (?, ?, ?)", tt.Variant, tt.Directions); err != nil {
		return false, fmt.Errorf("error inserting directions: %w", err)
	}
	if err := insertDepartures(ctx, tx, tt); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(c.logger, "timetable_stored",
		slog.String("variant", tt.Variant),
		slog.Int("stations", len(tt.Stations)))
	return true, nil
}

func insertNames(ctx context.Context, tx *sql.Tx, query, variant string, names []string) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for i, name := range names {
		if _, err := stmt.ExecContext(ctx, variant, i, name); err != nil {
			return err
		}
	}
	return nil
}

func insertDepartures(ctx context.Context, tx *sql.Tx, tt *timetable.Timetable) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO departures (variant, station, terminus, seq, elapsed)
		VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, station := range tt.Stations {
		for _, terminus := range tt.Directions {
			for seq, v := range tt.Times(station, terminus) {
				if _, err := stmt.ExecContext(ctx, tt.Variant, station, terminus, seq, v.Seconds()); err != nil {
					return fmt.Errorf("error inserting departure: %w", err)
				}
			}
		}
	}
	return nil
}

// LoadTimetable reads a stored variant back into a timetable
func (c *Client) LoadTimetable(ctx context.Context, variant string) (*timetable.Timetable, error) {
	var hash string
	err := c.DB.QueryRowContext(ctx, "SELECT content_hash FROM variants WHERE variant = ?", variant).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, variant)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading variant: %w", err)
	}

	stations, err := c.names(ctx, "SELECT name FROM stations WHERE variant = ? ORDER BY position", variant)
	if err != nil {
		return nil, err
	}
	directions, err := c.names(ctx, "SELECT terminus FROM directions WHERE variant = ? ORDER BY position", variant)
	if err != nil {
		return nil, err
	}

	rows, err := c.DB.QueryContext(ctx,
		"SELECT station, terminus, elapsed FROM departures WHERE variant = ? ORDER BY station, terminus, seq",
		variant)
	if err != nil {
		return nil, fmt.Errorf("error querying departures: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "departure_rows")

	times := make(map[[2]string][]timetable.TimeValue)
	for rows.Next() {
		var (
			station, terminus string
			elapsed           int
		)
		if err := rows.Scan(&station, &terminus, &elapsed); err != nil {
			return nil, fmt.Errorf("error scanning departure: %w", err)
		}
		key := [2]string{station, terminus}
		times[key] = append(times[key], timetable.TimeValue(elapsed))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tt := timetable.NewTimetable(variant, stations, directions)
	for _, station := range stations {
		for _, terminus := range directions {
			tt.SetTimes(station, terminus, times[[2]string{station, terminus}])
		}
	}
	return tt, nil
}

func (c *Client) names(ctx context.Context, query, variant string) ([]string, error) {
	rows, err := c.DB.QueryContext(ctx, query, variant)
	if err != nil {
		return nil, fmt.Errorf("error querying names: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "name_rows")

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Variants lists the stored variants in name order
func (c *Client) Variants(ctx context.Context) ([]string, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT variant FROM variants ORDER BY variant")
	if err != nil {
		return nil, fmt.Errorf("error querying variants: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "variant_rows")

	var variants []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func contentHash(tt *timetable.Timetable) (string, error) {
	b, err := tt.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("error encoding timetable: %w", err)
	}
	sum := sha256.Sum256(append([]byte(tt.Variant+"\n"), b...))
	return hex.EncodeToString(sum[:]), nil
}
