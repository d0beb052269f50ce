package models

import "fmt"

// ConfigurationError reports a malformed canonical schema: duplicate names
// or aliases, a reserved name, or a default that does not match its field's
// declared type. Fatal at startup, before any file is touched.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("schema configuration error: %s", e.Detail)
}

// DiscoveryError reports a failure to read a source file's column list.
// The file is skipped and the run continues.
type DiscoveryError struct {
	File string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("could not discover columns of %s: %v", e.File, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// IngestionError reports a failed bulk load for one file. The file is left
// un-ingested and stays eligible for the next run.
type IngestionError struct {
	File string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("bulk load of %s failed: %v", e.File, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// LedgerCheckError reports that the import ledger itself could not be
// queried. Callers must abort the run: without a working ledger there is no
// safe answer to "was this file imported already".
type LedgerCheckError struct {
	File string
	Err  error
}

func (e *LedgerCheckError) Error() string {
	return fmt.Sprintf("ledger check for %s failed: %v", e.File, e.Err)
}

func (e *LedgerCheckError) Unwrap() error { return e.Err }
