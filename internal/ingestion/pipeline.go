package ingestion

import (
	"log"

	"github.com/nyctaxi/trip-ingestion/internal/database"
	"github.com/nyctaxi/trip-ingestion/internal/models"
	"github.com/nyctaxi/trip-ingestion/internal/schema"
	"github.com/nyctaxi/trip-ingestion/pkg/checksum"
)

// FilePipeline defines the interface for per-file ingestion.
type FilePipeline interface {
	IngestFile(file models.FileInfo, mapping schema.FieldMapping) (int64, error)
}

// Pipeline ingests a single parquet file into the trip table: it discovers
// the file's columns, resolves the canonical projection and pushes one bulk
// INSERT ... SELECT down to the engine.
type Pipeline struct {
	dbManager database.DBManager
	fields    []schema.FieldDescriptor
}

// NewPipeline creates a Pipeline over the given DBManager and canonical
// field registry.
func NewPipeline(dbManager database.DBManager, fields []schema.FieldDescriptor) *Pipeline {
	return &Pipeline{dbManager: dbManager, fields: fields}
}

// IngestFile loads one file and returns the number of rows ingested. Errors
// are typed by stage (discovery vs bulk load) so the caller can report what
// failed; in either case the file is left un-ingested and stays eligible for
// the next run.
func (p *Pipeline) IngestFile(file models.FileInfo, mapping schema.FieldMapping) (int64, error) {
	columns, err := p.dbManager.ParquetColumns(file.Path)
	if err != nil {
		return 0, &models.DiscoveryError{File: file.Path, Err: err}
	}

	items, err := schema.ResolveProjection(p.fields, columns, mapping, file.Name)
	if err != nil {
		return 0, err
	}

	// The checksum only feeds the audit trail; a file we can read through
	// the engine but not hash is still worth ingesting.
	fileChecksum, err := checksum.GetFileChecksum(file.Path)
	if err != nil {
		log.Printf("WARN: could not checksum %s: %v", file.Path, err)
		fileChecksum = ""
	}

	rows, err := p.dbManager.IngestParquet(file.Path, file.Name, fileChecksum, items)
	if err != nil {
		return 0, &models.IngestionError{File: file.Path, Err: err}
	}
	return rows, nil
}
