package schema

import "fmt"

// FieldMapping resolves any known source column name, canonical or alias, to
// its canonical field name. Unknown names are simply absent from the map.
type FieldMapping map[string]string

// BuildFieldMapping validates the registry and precomputes the
// name-resolution table: every canonical name maps to itself and every alias
// to its owning field. Built once per run and reused for every file.
func BuildFieldMapping(fields []FieldDescriptor) (FieldMapping, error) {
	if err := Validate(fields); err != nil {
		return nil, err
	}

	mapping := make(FieldMapping, len(fields))
	for _, f := range fields {
		mapping[f.Name] = f.Name
		for _, alias := range f.Aliases {
			mapping[alias] = f.Name
		}
	}
	return mapping, nil
}

// ProjectionItem is one column of the ingestion projection: a source column
// whose nulls are replaced by the field's default, or the bare default when
// the source file lacks the field entirely. DefaultLiteral is pre-rendered
// once per field, so per-row work stays inside the engine.
type ProjectionItem struct {
	SourceColumn   string // empty when the field is absent from the source
	CanonicalName  string
	DefaultLiteral string
}

// SelectExpr renders the item as a SQL select-list expression.
func (p ProjectionItem) SelectExpr() string {
	if p.SourceColumn == "" {
		return fmt.Sprintf("%s AS %s", p.DefaultLiteral, p.CanonicalName)
	}
	if p.DefaultLiteral == "NULL" {
		// COALESCE(col, NULL) is just col.
		return fmt.Sprintf("%s AS %s", QuoteIdent(p.SourceColumn), p.CanonicalName)
	}
	return fmt.Sprintf("COALESCE(%s, %s) AS %s", QuoteIdent(p.SourceColumn), p.DefaultLiteral, p.CanonicalName)
}

// ResolveProjection computes, in registry order, the projection that maps
// one source file's columns onto the canonical schema. A field whose name or
// alias appears in sourceColumns projects the source value with the default
// substituted for nulls; an absent field projects the default alone. Source
// columns matching no field are dropped, which keeps richer future files
// ingestable. A final synthetic item binds fileName to the provenance
// column.
func ResolveProjection(fields []FieldDescriptor, sourceColumns []string, mapping FieldMapping, fileName string) ([]ProjectionItem, error) {
	bySource := make(map[string]string, len(sourceColumns))
	for _, col := range sourceColumns {
		if canonical, ok := mapping[col]; ok {
			bySource[canonical] = col
		}
	}

	items := make([]ProjectionItem, 0, len(fields)+1)
	for _, f := range fields {
		lit, err := f.DefaultLiteral()
		if err != nil {
			return nil, err
		}
		items = append(items, ProjectionItem{
			SourceColumn:   bySource[f.Name],
			CanonicalName:  f.Name,
			DefaultLiteral: lit,
		})
	}

	items = append(items, ProjectionItem{
		CanonicalName:  SourceFileColumn,
		DefaultLiteral: QuoteLiteral(fileName),
	})
	return items, nil
}
