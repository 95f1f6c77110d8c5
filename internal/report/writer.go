package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Columns is the report header.
var Columns = []string{
	"US State",
	"Total number of leads",
	"Lead with most revenue",
	"Total revenue",
	"Median revenue",
}

// SheetName is the worksheet holding the XLSX report.
const SheetName = "Report"

// WriteCSV writes rows to outputPath, replacing any existing file.
func WriteCSV(rows []Row, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrapf(err, "report: create csv %s", outputPath)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, r := range rows {
		if err := w.Write(csvRow(r)); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return f.Close()
}

func csvRow(r Row) []string {
	return []string{
		r.State,
		strconv.Itoa(r.LeadCount),
		r.TopLead,
		formatNumber(r.TopRevenue),
		formatNumber(r.MedianRevenue),
	}
}

// formatNumber prints v without an exponent and without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteXLSX writes rows to a single-sheet workbook at outputPath.
// Counts and revenues are stored as numeric cells.
func WriteXLSX(rows []Row, outputPath string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.State)
		row.AddCell().SetInt(r.LeadCount)
		row.AddCell().SetString(r.TopLead)
		row.AddCell().SetFloat(r.TopRevenue)
		row.AddCell().SetFloat(r.MedianRevenue)
	}

	if err := f.Save(outputPath); err != nil {
		return eris.Wrapf(err, "report: save xlsx %s", outputPath)
	}
	return nil
}
