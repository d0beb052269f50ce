package ingestion

import (
	"log"
	"time"

	"github.com/nyctaxi/trip-ingestion/internal/config"
	"github.com/nyctaxi/trip-ingestion/internal/database"
	"github.com/nyctaxi/trip-ingestion/internal/models"
	"github.com/nyctaxi/trip-ingestion/internal/schema"
)

type IngestionService struct {
	dbManager     database.DBManager
	fileProcessor Processor
	pipeline      FilePipeline
	config        config.Config
}

func NewIngestionService(dbManager database.DBManager, processor Processor, pipeline FilePipeline, cfg config.Config) *IngestionService {
	return &IngestionService{
		dbManager:     dbManager,
		fileProcessor: processor,
		pipeline:      pipeline,
		config:        cfg,
	}
}

// Execute orchestrates one ingestion run over dataDir.
//
// Files are processed strictly one at a time on one connection. This is
// load-bearing: the ledger's check-then-insert is only correct while no
// other writer can insert rows for the same file in between, so at most one
// ingestion process may run against a database at a time.
func (s *IngestionService) Execute(dataDir string) error {
	fields := schema.TripFields()

	// Step 0: Validate the registry and precompute the field mapping.
	// A malformed registry aborts here, before any file is touched.
	mapping, err := schema.BuildFieldMapping(fields)
	if err != nil {
		return err
	}

	// Step 1: Provision the trip and audit tables. Both statements are
	// idempotent and safe to issue on every run.
	if err := s.dbManager.EnsureTripTable(fields); err != nil {
		return err
	}
	if err := s.dbManager.EnsureAuditTable(); err != nil {
		return err
	}

	// Step 2: Discover candidate files.
	files, err := s.fileProcessor.ScanForFiles(dataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Println("No parquet files found in the data directory.")
		time.Sleep(time.Duration(s.config.EmptyScanWaitSecs) * time.Second)
		return nil
	}

	// Step 3: Per file, consult the ledger and ingest what it has not seen.
	// A per-file failure is logged and the run moves on; a failing ledger
	// check aborts the whole run, since there is no safe way to decide
	// whether importing would duplicate data.
	for _, file := range files {
		imported, err := s.dbManager.IsFileImported(file.Name)
		if err != nil {
			return &models.LedgerCheckError{File: file.Name, Err: err}
		}
		if imported {
			log.Printf("Skipping %s, already imported.", file.Name)
			continue
		}

		log.Printf("Processing %s...", file.Name)
		rows, err := s.pipeline.IngestFile(file, mapping)
		if err != nil {
			log.Printf("Failed to ingest %s: %v", file.Path, err)
			continue
		}
		log.Printf("Imported %s (%d rows).", file.Name, rows)
	}

	log.Println("Ingestion run finished.")
	return nil
}
