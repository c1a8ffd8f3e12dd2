package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/fsops"
	"github.com/quantmind-br/gerard/internal/security"
	"github.com/spf13/afero"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a launch record does not exist
	ErrNotFound = errors.New("launch not found")
	// ErrUnavailable wraps every failure to open the database
	ErrUnavailable = errors.New("history database unavailable")
)

const schemaVersion = 1

// DB represents the database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
	now   func() time.Time
}

// New creates a new database instance with separate read/write pools. The
// parent directory is created when missing. Failures wrap ErrUnavailable.
func New(ctx context.Context, dbPath string) (*DB, error) {
	db, err := open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return db, nil
}

func open(ctx context.Context, dbPath string) (*DB, error) {
	if err := fsops.EnsureDir(afero.NewOsFs(), filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	// Read pool: Can have multiple connections
	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
		now:   time.Now,
	}

	// Initialize schema
	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// initSchema creates the schema if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS launches (
    launch_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    desktop_file TEXT,
    exec TEXT NOT NULL,
    launched_at DATETIME NOT NULL,
    metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_launches_name ON launches(name);
CREATE INDEX IF NOT EXISTS idx_launches_launched_at ON launches(launched_at);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	_, err := db.write.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_migrations (version, description) VALUES (?, ?)",
		schemaVersion, "create launches table")
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return nil
}

// Launch is one recorded activation
type Launch struct {
	LaunchID    string                 `json:"launch_id"`
	Name        string                 `json:"name"`
	DesktopFile string                 `json:"desktop_file,omitempty"`
	Exec        string                 `json:"exec"`
	LaunchedAt  time.Time              `json:"launched_at"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Create creates a new launch record. An empty LaunchID gets a fresh UUID
// and a zero LaunchedAt gets the current time.
func (db *DB) Create(ctx context.Context, launch *Launch) error {
	if launch.LaunchID == "" {
		launch.LaunchID = uuid.NewString()
	}
	if launch.LaunchedAt.IsZero() {
		launch.LaunchedAt = db.now()
	}

	metadataJSON, err := json.Marshal(launch.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
INSERT INTO launches (launch_id, name, desktop_file, exec, launched_at, metadata)
VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = db.write.ExecContext(ctx, query,
		launch.LaunchID,
		launch.Name,
		launch.DesktopFile,
		launch.Exec,
		launch.LaunchedAt.UTC(),
		string(metadataJSON),
	)

	if err != nil {
		return fmt.Errorf("insert launch: %w", err)
	}

	return nil
}

// Record stores a successful activation of entry
func (db *DB) Record(ctx context.Context, entry *core.Entry) error {
	target := entry.Target()

	metadata := map[string]interface{}{}
	if target.Terminal {
		metadata["terminal"] = true
	}
	if target.WorkDir != "" {
		metadata["work_dir"] = target.WorkDir
	}
	if cats := entry.Categories(); len(cats) > 0 {
		metadata["categories"] = cats
	}

	return db.Create(ctx, &Launch{
		Name:        security.SanitizeString(entry.Name()),
		DesktopFile: target.DesktopFile,
		Exec:        target.Exec,
		Metadata:    metadata,
	})
}

// Get retrieves a launch record by ID
func (db *DB) Get(ctx context.Context, launchID string) (*Launch, error) {
	query := `
SELECT launch_id, name, desktop_file, exec, launched_at, metadata
FROM launches WHERE launch_id = ?
	`

	launch, err := scanLaunch(db.read.QueryRowContext(ctx, query, launchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, launchID)
	}
	if err != nil {
		return nil, fmt.Errorf("query launch: %w", err)
	}

	return launch, nil
}

// List retrieves the most recent launch records, newest first. A limit of
// zero or less returns every record.
func (db *DB) List(ctx context.Context, limit int) ([]Launch, error) {
	query := `
SELECT launch_id, name, desktop_file, exec, launched_at, metadata
FROM launches ORDER BY launched_at DESC, rowid DESC LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.read.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	var launches []Launch
	for rows.Next() {
		launch, err := scanLaunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		launches = append(launches, *launch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return launches, nil
}

// Usage is how often an application was launched
type Usage struct {
	Name       string    `json:"name"`
	Count      int       `json:"count"`
	LastLaunch time.Time `json:"last_launch"`
}

// MostLaunched returns launch counts per name, most launched first
func (db *DB) MostLaunched(ctx context.Context, limit int) ([]Usage, error) {
	query := `
SELECT name, COUNT(*) AS launches, MAX(launched_at) AS last
FROM launches GROUP BY name ORDER BY launches DESC, last DESC LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.read.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var usage []Usage
	for rows.Next() {
		var u Usage
		var last string
		if err := rows.Scan(&u.Name, &u.Count, &last); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.LastLaunch = parseTimestamp(last)
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return usage, nil
}

// Delete removes a launch record
func (db *DB) Delete(ctx context.Context, launchID string) error {
	query := "DELETE FROM launches WHERE launch_id = ?"

	result, err := db.write.ExecContext(ctx, query, launchID)
	if err != nil {
		return fmt.Errorf("delete launch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, launchID)
	}

	return nil
}

// Clear removes every launch record and returns how many were deleted
func (db *DB) Clear(ctx context.Context) (int64, error) {
	result, err := db.write.ExecContext(ctx, "DELETE FROM launches")
	if err != nil {
		return 0, fmt.Errorf("clear launches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	return rows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLaunch(row rowScanner) (*Launch, error) {
	var launch Launch
	var desktopFile, metadataJSON sql.NullString

	err := row.Scan(
		&launch.LaunchID,
		&launch.Name,
		&desktopFile,
		&launch.Exec,
		&launch.LaunchedAt,
		&metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	launch.DesktopFile = desktopFile.String
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &launch.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	return &launch, nil
}

// layouts for DATETIME text read without column type information
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
