package timetabledb

import (
	"database/sql"
	"fmt"
	"log/slog"

	"mrt6.timetable.org/internal/logging"
)

// Client archives generated timetables in SQLite
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database and applies the schema
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	if config.verbose {
		logging.LogOperation(logger, "timetable_db_ready", slog.String("path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("closing timetable database: %w", err)
	}
	return nil
}
