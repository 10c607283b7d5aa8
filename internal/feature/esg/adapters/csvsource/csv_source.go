// Package csvsource reads the ESG dataset from a local CSV file in the export format.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"
)

// ErrMissingColumn is returned when the CSV header lacks a schema column.
var ErrMissingColumn = errors.New("missing column")

// Source reads records from a CSV file. It serves both as the ingest source
// and as a read-only record repository for running without a database.
type Source struct {
	path string
}

var (
	_ usecase.SourceRepository = (*Source)(nil)
	_ usecase.RecordRepository = (*Source)(nil)
)

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) FetchAll(ctx context.Context) ([]entity.Record, error) {
	return s.FindAll(ctx)
}

func (s *Source) FindAll(ctx context.Context) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset csv: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close csv file", "path", s.path, "error", err)
		}
	}()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return records, nil
}

// ReadRecords parses CSV data whose header names the seven schema columns in any order.
// Extra columns are ignored. An empty score cell is a missing score (nil).
func ReadRecords(r io.Reader) ([]entity.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, c := range entity.Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%q: %w", c, ErrMissingColumn)
		}
	}

	cell := func(row []string, column string) string {
		i := idx[column]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	score := func(row []string, column string, line int) (*float64, error) {
		v := cell(row, column)
		if v == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse %s %q: %w", line, column, v, err)
		}
		return &f, nil
	}

	var out []entity.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		esg, err := score(row, entity.ColumnTotalESGScore, line)
		if err != nil {
			return nil, err
		}
		gov, err := score(row, entity.ColumnGovernanceScore, line)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Record{
			Company:         cell(row, entity.ColumnCompany),
			Ticker:          cell(row, entity.ColumnTicker),
			PeerGroupRoot:   cell(row, entity.ColumnPeerGroupRoot),
			Region:          cell(row, entity.ColumnRegion),
			Country:         cell(row, entity.ColumnCountry),
			TotalESGScore:   esg,
			GovernanceScore: gov,
		})
	}
	return out, nil
}
