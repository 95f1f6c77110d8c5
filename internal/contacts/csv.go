package contacts

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Input CSV columns.
const (
	ColName    = "Contact Name"
	ColEmails  = "Contact Emails"
	ColPhones  = "Contact Phones"
	ColCompany = "Company"
	ColFounded = "custom.Company Founded"
	ColRevenue = "custom.Company Revenue"
	ColState   = "Company US State"
)

var requiredCols = []string{ColName, ColEmails, ColPhones, ColCompany, ColFounded, ColRevenue, ColState}

// ReadCSV reads the raw contact records from csvPath. A leading UTF-8 byte
// order mark is ignored so spreadsheet exports match the header names.
func ReadCSV(csvPath string) ([]Record, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, eris.Wrapf(err, "contacts: open csv %s", csvPath)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "contacts: read csv")
	}
	if len(rows) == 0 {
		return nil, eris.New("contacts: csv has no header")
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		colIdx[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredCols {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("contacts: missing required column %q", col)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, Record{
			Name:    getCol(row, colIdx, ColName),
			Emails:  getCol(row, colIdx, ColEmails),
			Phones:  getCol(row, colIdx, ColPhones),
			Company: getCol(row, colIdx, ColCompany),
			Founded: getCol(row, colIdx, ColFounded),
			Revenue: getCol(row, colIdx, ColRevenue),
			State:   getCol(row, colIdx, ColState),
		})
	}
	return records, nil
}

// ParseCSV reads csvPath and returns the cleaned contacts, dropping records
// with no way to identify or reach the person.
func ParseCSV(csvPath string) ([]Contact, error) {
	records, err := ReadCSV(csvPath)
	if err != nil {
		return nil, err
	}

	var out []Contact
	for i, r := range records {
		c, ok := Clean(r)
		if !ok {
			zap.L().Debug("contacts: dropping unreachable record",
				zap.Int("row", i+2),
				zap.String("company", r.Company),
			)
			continue
		}
		out = append(out, c)
	}

	zap.L().Info("contacts: parsed csv",
		zap.String("path", csvPath),
		zap.Int("rows", len(records)),
		zap.Int("kept", len(out)),
		zap.Int("dropped", len(records)-len(out)),
	)
	return out, nil
}

// Companies returns the distinct company names of cs in first-seen order.
func Companies(cs []Contact) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cs {
		if seen[c.Company] {
			continue
		}
		seen[c.Company] = true
		out = append(out, c.Company)
	}
	return out
}

func getCol(row []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
