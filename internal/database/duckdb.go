package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/nyctaxi/trip-ingestion/internal/schema"
)

const (
	TripTableName  = "raw_taxi_trips"
	AuditTableName = "import_audit"

	FILE_STATUS_DONE = "DONE"
)

// duckdbTypes maps a field's declared semantic type to its DuckDB column
// type.
var duckdbTypes = map[schema.SemanticType]string{
	schema.TypeInteger: "INTEGER",
	schema.TypeFloat:   "DOUBLE",
	schema.TypeString:  "VARCHAR",
	schema.TypeBoolean: "BOOLEAN",
}

// ConnectDB opens (creating if needed) the DuckDB database file. The handle
// is owned by a single ingestion run; DuckDB refuses a second writer on the
// same file, which enforces the one-ingestion-process-per-database rule at
// open time.
func ConnectDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database %s: %w", path, err)
	}
	return db, nil
}

// DBManager is the SQL surface the ingestion service depends on.
type DBManager interface {
	EnsureTripTable(fields []schema.FieldDescriptor) error
	EnsureAuditTable() error
	ParquetColumns(path string) ([]string, error)
	IsFileImported(fileName string) (bool, error)
	IngestParquet(path, fileName, checksum string, items []schema.ProjectionItem) (int64, error)
}

type DuckDBManager struct {
	db  *sql.DB
	ctx context.Context
}

func NewDuckDBManager(ctx context.Context, db *sql.DB) *DuckDBManager {
	return &DuckDBManager{db: db, ctx: ctx}
}

// EnsureTripTable creates the trip table if it does not exist yet. The
// column list is exactly the canonical fields plus the trailing provenance
// column. An existing table is left untouched whatever its shape; a shape
// mismatch only surfaces later as insert failures.
func (m *DuckDBManager) EnsureTripTable(fields []schema.FieldDescriptor) error {
	query, err := buildCreateTripTableSQL(TripTableName, fields)
	if err != nil {
		return err
	}
	if _, err := m.db.ExecContext(m.ctx, query); err != nil {
		return fmt.Errorf("error creating %s table: %w", TripTableName, err)
	}
	return nil
}

func buildCreateTripTableSQL(tableName string, fields []schema.FieldDescriptor) (string, error) {
	defs := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		columnType, ok := duckdbTypes[f.Type]
		if !ok {
			return "", fmt.Errorf("field %s has no column type for semantic type %d", f.Name, f.Type)
		}
		defs = append(defs, fmt.Sprintf("%s %s", f.Name, columnType))
	}
	defs = append(defs, schema.SourceFileColumn+" VARCHAR")

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", tableName, strings.Join(defs, ", ")), nil
}

// EnsureAuditTable creates the per-file audit table if absent. The audit
// trail is observability only: the import ledger reads the trip table's
// provenance column, never this table.
func (m *DuckDBManager) EnsureAuditTable() error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		source_file VARCHAR NOT NULL,
		checksum VARCHAR,
		row_count BIGINT NOT NULL,
		status VARCHAR NOT NULL,
		imported_at TIMESTAMP DEFAULT now()
	);`, AuditTableName)

	if _, err := m.db.ExecContext(m.ctx, query); err != nil {
		return fmt.Errorf("error creating %s table: %w", AuditTableName, err)
	}
	return nil
}

// ParquetColumns discovers a parquet file's column names with a zero-row
// projection, without materializing any row data in the host process.
func (m *DuckDBManager) ParquetColumns(path string) ([]string, error) {
	query := fmt.Sprintf("SELECT * FROM read_parquet(%s) LIMIT 0;", schema.QuoteLiteral(path))
	rows, err := m.db.QueryContext(m.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error reading parquet schema of %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error listing columns of %s: %w", path, err)
	}
	return columns, nil
}

// IsFileImported reports whether rows from fileName are already present in
// the trip table. The check reads the ingested data itself, so a failed
// query must surface as an error: "unknown" can never be treated as "not
// imported".
func (m *DuckDBManager) IsFileImported(fileName string) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?;", TripTableName, schema.SourceFileColumn)

	var count int64
	if err := m.db.QueryRowContext(m.ctx, query, fileName).Scan(&count); err != nil {
		return false, fmt.Errorf("error querying imported files: %w", err)
	}
	return count > 0, nil
}

// IngestParquet bulk-loads one parquet file with a single INSERT ... SELECT
// pushed down to the engine, and records the audit row in the same
// transaction. Either the file's rows and its audit entry both land, or
// neither does, so a failed load leaves the file cleanly retryable.
func (m *DuckDBManager) IngestParquet(path, fileName, checksum string, items []schema.ProjectionItem) (int64, error) {
	insertSQL := buildInsertParquetSQL(TripTableName, path, items)

	tx, err := m.db.BeginTx(m.ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error beginning transaction for %s: %w", fileName, err)
	}

	result, err := tx.ExecContext(m.ctx, insertSQL)
	if err != nil {
		rollback(tx, fileName)
		return 0, fmt.Errorf("error bulk loading %s: %w", fileName, err)
	}

	rowCount, err := result.RowsAffected()
	if err != nil {
		rollback(tx, fileName)
		return 0, fmt.Errorf("error counting loaded rows for %s: %w", fileName, err)
	}

	auditSQL := fmt.Sprintf("INSERT INTO %s (source_file, checksum, row_count, status) VALUES (?, ?, ?, ?);", AuditTableName)
	if _, err := tx.ExecContext(m.ctx, auditSQL, fileName, checksum, rowCount, FILE_STATUS_DONE); err != nil {
		rollback(tx, fileName)
		return 0, fmt.Errorf("error recording audit row for %s: %w", fileName, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing import of %s: %w", fileName, err)
	}
	return rowCount, nil
}

func buildInsertParquetSQL(tableName, path string, items []schema.ProjectionItem) string {
	exprs := make([]string, len(items))
	for i, item := range items {
		exprs[i] = item.SelectExpr()
	}
	return fmt.Sprintf("INSERT INTO %s SELECT %s FROM read_parquet(%s);",
		tableName, strings.Join(exprs, ", "), schema.QuoteLiteral(path))
}

func rollback(tx *sql.Tx, fileName string) {
	if err := tx.Rollback(); err != nil {
		log.Printf("Error rolling back transaction for %s: %v", fileName, err)
	}
}
