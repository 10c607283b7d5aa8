package usecase

import (
	"time"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

// Options holds the distinct values of each categorical column, keyed by
// column name, in first-seen dataset order.
type Options map[string][]string

// Dataset is the immutable, process-lifetime handle to the full ESG record set.
type Dataset struct {
	records  []entity.Record
	options  Options
	loadedAt time.Time
}

// NewDataset copies records into a new Dataset and precomputes the
// selection options.
func NewDataset(records []entity.Record, loadedAt time.Time) *Dataset {
	rs := make([]entity.Record, len(records))
	copy(rs, records)

	opts := make(Options, len(entity.CategoricalColumns))
	for _, column := range entity.CategoricalColumns {
		opts[column] = distinctValues(rs, column)
	}
	return &Dataset{records: rs, options: opts, loadedAt: loadedAt}
}

// Records returns the full record set. Callers must not modify the returned slice.
func (d *Dataset) Records() []entity.Record {
	return d.records
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.records)
}

// LoadedAt returns when the dataset was loaded.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Options returns a copy of the distinct values per categorical column.
func (d *Dataset) Options() Options {
	out := make(Options, len(d.options))
	for column, values := range d.options {
		out[column] = append([]string(nil), values...)
	}
	return out
}

func distinctValues(records []entity.Record, column string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v, _ := r.Value(column)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
