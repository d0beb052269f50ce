package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFieldMapping(t *testing.T) {
	mapping, err := BuildFieldMapping(TripFields())

	assert.NoError(t, err)
	assert.Equal(t, "vendor_id", mapping["vendor_id"])
	assert.Equal(t, "vendor_id", mapping["VendorID"])
	assert.Equal(t, "ratecode_id", mapping["RatecodeID"])
	assert.Equal(t, "pu_location_id", mapping["PULocationID"])
	assert.Equal(t, "do_location_id", mapping["DOLocationID"])
	assert.Equal(t, "airport_fee", mapping["Airport_fee"])

	_, known := mapping["mystery_column"]
	assert.False(t, known)
}

func TestBuildFieldMapping_InvalidRegistry(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "a", Type: TypeInteger, Default: 0, Aliases: []string{"x"}},
		{Name: "b", Type: TypeInteger, Default: 0, Aliases: []string{"x"}},
	}

	_, err := BuildFieldMapping(fields)

	assert.Error(t, err)
}

func TestResolveProjection(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "vendor_id", Type: TypeInteger, Default: 0, Aliases: []string{"VendorID"}},
		{Name: "pickup_time", Type: TypeString, Default: ""},
		{Name: "trip_distance", Type: TypeFloat, Default: 0.0},
	}
	mapping, err := BuildFieldMapping(fields)
	assert.NoError(t, err)

	t.Run("aliases resolve and absent fields default", func(t *testing.T) {
		source := []string{"VendorID", "trip_distance", "mystery_column"}

		items, err := ResolveProjection(fields, source, mapping, "trips.parquet")

		assert.NoError(t, err)
		assert.Len(t, items, 4)
		assert.Equal(t, `COALESCE("VendorID", 0) AS vendor_id`, items[0].SelectExpr())
		assert.Equal(t, "NULL AS pickup_time", items[1].SelectExpr())
		assert.Equal(t, `COALESCE("trip_distance", 0) AS trip_distance`, items[2].SelectExpr())
		assert.Equal(t, "'trips.parquet' AS source_file", items[3].SelectExpr())
	})

	t.Run("unknown columns are dropped", func(t *testing.T) {
		items, err := ResolveProjection(fields, []string{"mystery_column"}, mapping, "trips.parquet")

		assert.NoError(t, err)
		for _, item := range items {
			assert.NotEqual(t, "mystery_column", item.SourceColumn)
		}
	})

	t.Run("present string column with NULL default projects the bare column", func(t *testing.T) {
		items, err := ResolveProjection(fields, []string{"pickup_time"}, mapping, "trips.parquet")

		assert.NoError(t, err)
		assert.Equal(t, `"pickup_time" AS pickup_time`, items[1].SelectExpr())
	})

	t.Run("canonical names resolve like aliases", func(t *testing.T) {
		items, err := ResolveProjection(fields, []string{"vendor_id"}, mapping, "trips.parquet")

		assert.NoError(t, err)
		assert.Equal(t, `COALESCE("vendor_id", 0) AS vendor_id`, items[0].SelectExpr())
	})

	t.Run("file name literal is quoted", func(t *testing.T) {
		items, err := ResolveProjection(fields, nil, mapping, "o'brien.parquet")

		assert.NoError(t, err)
		last := items[len(items)-1]
		assert.Equal(t, "'o''brien.parquet' AS source_file", last.SelectExpr())
	})
}
