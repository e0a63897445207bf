package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/orgscan/orgscan/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "orgscan.db"

// CollectionDB stores finished collection runs.
//
// Design decision: one database file for all targets rather than a file
// per domain. Cross-run queries ("every tech-stack item we ever saw for
// this domain") stay plain SQL, and backup is a single file copy.
type CollectionDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures CollectionDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// missing. When false, a missing file is an error.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: collection
	// writes and report reads can overlap.
	EnableWAL bool
}

// DefaultOptions returns the recommended database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the collection database in dbDir.
func Open(dbDir string, opts Options) (*CollectionDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; a single connection avoids lock errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CollectionDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CollectionDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file location.
func (cdb *CollectionDB) Path() string {
	return cdb.dbPath
}

// createTables creates the schema if it does not exist.
func (cdb *CollectionDB) createTables() error {
	schema := `
	-- Collections store one finished run per row, full result as JSON.
	CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		company_name TEXT NOT NULL,
		thesis TEXT,
		depth TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		evidence_count INTEGER NOT NULL,
		coverage REAL NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_collections_domain ON collections(domain);
	CREATE INDEX IF NOT EXISTS idx_collections_started ON collections(started_at);

	-- Evidence rows are denormalized for cross-run SQL queries.
	CREATE TABLE IF NOT EXISTS evidence (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		value TEXT NOT NULL,
		source_url TEXT NOT NULL,
		confidence REAL NOT NULL,
		score REAL NOT NULL,
		phase TEXT,
		tool TEXT,
		collected_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evidence_collection ON evidence(collection_id);
	CREATE INDEX IF NOT EXISTS idx_evidence_category ON evidence(category);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// CollectionRecord is a stored run's header row.
type CollectionRecord struct {
	ID            int64
	Domain        string
	CompanyName   string
	Thesis        string
	Depth         string
	StartedAt     time.Time
	FinishedAt    time.Time
	EvidenceCount int
	Coverage      float64
}

// SaveCollection stores a finished run and its evidence rows in one
// transaction. Returns the new collection's row ID.
func (cdb *CollectionDB) SaveCollection(ctx context.Context, result *model.CollectionResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO collections (domain, company_name, thesis, depth, started_at, finished_at, evidence_count, coverage, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Request.Domain,
		result.Request.CompanyName,
		result.Request.Thesis,
		result.Request.Depth,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
		len(result.Evidence),
		result.Summary.CoveragePercentage,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert collection: %w", err)
	}
	collectionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read collection id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO evidence (collection_id, category, value, source_url, confidence, score, phase, tool, collected_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare evidence insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range result.Evidence {
		if _, err := stmt.ExecContext(ctx,
			collectionID,
			item.Type,
			item.Value,
			item.SourceURL,
			item.Confidence,
			item.Score,
			item.Phase,
			item.Tool,
			item.CollectedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return 0, fmt.Errorf("failed to insert evidence row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit collection: %w", err)
	}
	return collectionID, nil
}

// GetCollection loads a stored run by ID. Returns nil when the ID does
// not exist.
func (cdb *CollectionDB) GetCollection(ctx context.Context, id int64) (*model.CollectionResult, error) {
	var resultJSON string
	err := cdb.db.QueryRowContext(ctx,
		`SELECT result_json FROM collections WHERE id = ?`, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	var result model.CollectionResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse stored result: %w", err)
	}
	return &result, nil
}

// ListCollections returns run headers for a domain, newest first. An
// empty domain lists every run.
func (cdb *CollectionDB) ListCollections(ctx context.Context, domain string, limit int) ([]CollectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, domain, company_name, thesis, depth, started_at, finished_at, evidence_count, coverage
	FROM collections`
	args := []any{}
	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var records []CollectionRecord
	for rows.Next() {
		var r CollectionRecord
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Domain, &r.CompanyName, &r.Thesis, &r.Depth,
			&started, &finished, &r.EvidenceCount, &r.Coverage); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		r.FinishedAt = parseTimestamp(finished)
		records = append(records, r)
	}
	return records, rows.Err()
}

// EvidenceByCategory returns every stored evidence value for a domain and
// category across all runs, most recent runs first.
func (cdb *CollectionDB) EvidenceByCategory(ctx context.Context, domain, category string) ([]model.EvidenceItem, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT e.category, e.value, e.source_url, e.confidence, e.score, e.phase, e.tool, e.collected_at
	FROM evidence e
	JOIN collections c ON c.id = e.collection_id
	WHERE c.domain = ? AND e.category = ?
	ORDER BY c.started_at DESC, e.score DESC`, domain, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	var items []model.EvidenceItem
	for rows.Next() {
		var it model.EvidenceItem
		var collected string
		if err := rows.Scan(&it.Type, &it.Value, &it.SourceURL, &it.Confidence,
			&it.Score, &it.Phase, &it.Tool, &collected); err != nil {
			return nil, fmt.Errorf("failed to scan evidence row: %w", err)
		}
		it.CollectedAt = parseTimestamp(collected)
		items = append(items, it)
	}
	return items, rows.Err()
}

// parseTimestamp handles the formats SQLite returns for stored datetimes.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
