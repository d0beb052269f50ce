package ingestion

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nyctaxi/trip-ingestion/internal/models"
)

// Processor defines the interface for source file discovery.
type Processor interface {
	ScanForFiles(rootPath string) ([]models.FileInfo, error)
}

// FileProcessor discovers the parquet trip files eligible for ingestion.
type FileProcessor struct{}

// NewFileProcessor creates a new FileProcessor.
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// ScanForFiles walks rootPath and returns every parquet file found, sorted
// by file name. The bare file name is the provenance key, so two files with
// the same name are the same file as far as the ledger is concerned.
func (fp *FileProcessor) ScanForFiles(rootPath string) ([]models.FileInfo, error) {
	var fileInfos []models.FileInfo
	log.Printf("Scanning for parquet files in: %s", rootPath)

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err // Propagate errors from walking the path
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".parquet") {
			return nil
		}
		fileInfos = append(fileInfos, models.FileInfo{Path: path, Name: info.Name()})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", rootPath, err)
	}

	sort.Slice(fileInfos, func(i, j int) bool { return fileInfos[i].Name < fileInfos[j].Name })

	log.Printf("Found %d parquet files.", len(fileInfos))
	return fileInfos, nil
}
