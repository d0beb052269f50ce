package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyctaxi/trip-ingestion/internal/models"
)

// SemanticType is the declared type of a canonical field. SQL column types
// and default literals are chosen by this declaration, never by inspecting
// runtime values.
type SemanticType int

const (
	TypeInteger SemanticType = iota
	TypeFloat
	TypeString
	TypeBoolean
)

// SourceFileColumn is the provenance column appended to every ingested row.
// It doubles as the import ledger key, so it is reserved: no canonical field
// or alias may claim it.
const SourceFileColumn = "source_file"

// FieldDescriptor describes one canonical trip field: its normalized name,
// its declared type, the default substituted when a source file lacks the
// field (or holds null in it), and the historical source column names that
// denote the same field.
type FieldDescriptor struct {
	Name    string
	Type    SemanticType
	Default any
	Aliases []string
}

// TripFields returns the canonical trip record schema in table column order.
// Raw files name these fields inconsistently across vintages (VendorID vs
// vendor_id and friends); the alias lists absorb the known variations.
// The list must stay identical across runs: the table DDL and every
// projection are derived from it.
func TripFields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "vendor_id", Type: TypeInteger, Default: 0, Aliases: []string{"VendorID"}},
		{Name: "tpep_pickup_datetime", Type: TypeString, Default: ""},
		{Name: "tpep_dropoff_datetime", Type: TypeString, Default: ""},
		{Name: "passenger_count", Type: TypeInteger, Default: 0},
		{Name: "trip_distance", Type: TypeFloat, Default: 0.0},
		{Name: "ratecode_id", Type: TypeInteger, Default: 0, Aliases: []string{"RatecodeID"}},
		{Name: "store_and_fwd_flag", Type: TypeString, Default: ""},
		{Name: "pu_location_id", Type: TypeInteger, Default: 0, Aliases: []string{"PULocationID"}},
		{Name: "do_location_id", Type: TypeInteger, Default: 0, Aliases: []string{"DOLocationID"}},
		{Name: "payment_type", Type: TypeInteger, Default: 0},
		{Name: "fare_amount", Type: TypeFloat, Default: 0.0},
		{Name: "extra", Type: TypeFloat, Default: 0.0},
		{Name: "mta_tax", Type: TypeFloat, Default: 0.0},
		{Name: "tip_amount", Type: TypeFloat, Default: 0.0},
		{Name: "tolls_amount", Type: TypeFloat, Default: 0.0},
		{Name: "improvement_surcharge", Type: TypeFloat, Default: 0.0},
		{Name: "total_amount", Type: TypeFloat, Default: 0.0},
		{Name: "congestion_surcharge", Type: TypeFloat, Default: 0.0},
		{Name: "airport_fee", Type: TypeFloat, Default: 0.0, Aliases: []string{"Airport_fee"}},
	}
}

// Validate checks the registry invariants: canonical names and all alias
// sets are pairwise disjoint, nothing claims the provenance column, and
// every default matches its field's declared type.
func Validate(fields []FieldDescriptor) error {
	seen := make(map[string]string, len(fields))
	claim := func(name, owner string) error {
		if prev, ok := seen[name]; ok {
			return &models.ConfigurationError{
				Detail: fmt.Sprintf("column name %q claimed by both %s and %s", name, prev, owner),
			}
		}
		seen[name] = owner
		return nil
	}

	for _, f := range fields {
		if err := claim(f.Name, f.Name); err != nil {
			return err
		}
		for _, alias := range f.Aliases {
			if err := claim(alias, f.Name); err != nil {
				return err
			}
		}
		if _, err := f.DefaultLiteral(); err != nil {
			return err
		}
	}

	if owner, ok := seen[SourceFileColumn]; ok {
		return &models.ConfigurationError{
			Detail: fmt.Sprintf("%q is reserved for provenance but claimed by %s", SourceFileColumn, owner),
		}
	}
	return nil
}

// DefaultLiteral renders the field's default as a SQL literal. The rendering
// rule is keyed on the declared semantic type. An empty string default means
// "no sensible default" and renders as NULL, matching the raw data where
// missing text fields are simply absent.
func (f FieldDescriptor) DefaultLiteral() (string, error) {
	switch f.Type {
	case TypeInteger:
		v, ok := f.Default.(int)
		if !ok {
			return "", typeMismatch(f, "integer")
		}
		return strconv.Itoa(v), nil
	case TypeFloat:
		v, ok := f.Default.(float64)
		if !ok {
			return "", typeMismatch(f, "float")
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case TypeBoolean:
		v, ok := f.Default.(bool)
		if !ok {
			return "", typeMismatch(f, "boolean")
		}
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case TypeString:
		v, ok := f.Default.(string)
		if !ok {
			return "", typeMismatch(f, "string")
		}
		if v == "" {
			return "NULL", nil
		}
		return QuoteLiteral(v), nil
	}
	return "", &models.ConfigurationError{
		Detail: fmt.Sprintf("field %s has unknown semantic type %d", f.Name, f.Type),
	}
}

func typeMismatch(f FieldDescriptor, want string) error {
	return &models.ConfigurationError{
		Detail: fmt.Sprintf("default %v of field %s is not a %s", f.Default, f.Name, want),
	}
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdent double-quotes a source column identifier, which may carry
// arbitrary casing and punctuation from the raw files.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
