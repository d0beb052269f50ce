package models

// FileInfo identifies one candidate source file. Name is the bare file name
// and doubles as the provenance key stored with every ingested row.
type FileInfo struct {
	Path string
	Name string
}
