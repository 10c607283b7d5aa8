package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"esg_dashboard/internal/feature/esg/domain/entity"

	"github.com/xuri/excelize/v2"
)

// Export file names offered to the browser.
const (
	CSVFileName  = "filtered_esg.csv"
	XLSXFileName = "filtered_esg.xlsx"
	xlsxSheet    = "filtered_esg"
)

// FormatScore renders a score the way the CSV export writes it.
// A missing score is an empty cell.
func FormatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// scoreCell is the XLSX cell value of a score; a missing score stays blank.
func scoreCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// row returns the record's cells in entity.Columns order.
func row(r entity.Record) []string {
	return []string{
		r.Company,
		r.Ticker,
		r.PeerGroupRoot,
		r.Region,
		r.Country,
		FormatScore(r.TotalESGScore),
		FormatScore(r.GovernanceScore),
	}
}

// WriteCSV writes the header row and one row per record, without an index column.
// An empty slice produces a header-only file.
func WriteCSV(w io.Writer, records []entity.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entity.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the records to a single-sheet workbook with the same layout as WriteCSV.
func WriteXLSX(w io.Writer, records []entity.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(entity.Columns))
	for _, c := range entity.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(entity.Columns))
	if err := f.SetColWidth(xlsxSheet, "A", last, 18); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Company, r.Ticker, r.PeerGroupRoot, r.Region, r.Country,
			scoreCell(r.TotalESGScore), scoreCell(r.GovernanceScore),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
