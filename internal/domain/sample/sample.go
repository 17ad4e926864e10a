// Package sample builds the example CSV payloads offered next to each upload form.
package sample

import (
	"fmt"
	"strings"

	"github.com/okian/compdash/internal/domain/schema"
)

// File names other parts of the dashboard link to.
const (
	ProviderFilename = "provider-upload-sample.csv"
	MarketFilename   = "market-upload-sample.csv"
)

// Separators of the produced CSV. Values are never quoted.
const (
	fieldSep = ","
	rowSep   = "\n"
)

// Dataset is a static header+rows sample.
type Dataset struct {
	Name     string
	Filename string
	Columns  []string
	Rows     [][]string
}

var providerRows = [][]string{
	{"Jane Smith", "Cardiology", "Medicine", "1.0", "0.8", "0.1", "0.1", "0.0", "420000", "85000", "15000", "5000", "9200", "1450", "productivity"},
	{"Raj Patel", "Family Medicine", "Primary Care", "0.9", "0.9", "0.0", "0.0", "0.0", "245000", "30000", "12000", "0", "5100", "2100", "salary_plus_incentive"},
}

var marketRows = [][]string{
	{"Cardiology", "Physician", "National", "520000", "610000", "720000", "850000", "7800", "9100", "10800", "12600"},
	{"Family Medicine", "Physician", "Midwest", "255000", "290000", "335000", "390000", "4300", "5000", "5900", "6800"},
}

var (
	provider = Dataset{
		Name:     "provider",
		Filename: ProviderFilename,
		Columns:  schema.ProviderExpectedColumns,
		Rows:     providerRows,
	}
	market = Dataset{
		Name:     "market",
		Filename: MarketFilename,
		Columns:  schema.MarketExpectedColumns,
		Rows:     marketRows,
	}
)

// ProviderSampleCSV and MarketSampleCSV are built once at startup.
var (
	ProviderSampleCSV = provider.CSV()
	MarketSampleCSV   = market.CSV()
)

// Header joins columns with commas.
func Header(columns []string) string {
	return strings.Join(columns, fieldSep)
}

// BuildCSV joins the header and rows with newlines; there is no trailing newline.
func BuildCSV(columns []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Header(columns))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, fieldSep))
	}
	return strings.Join(lines, rowSep)
}

// CSV renders d.
func (d Dataset) CSV() string {
	return BuildCSV(d.Columns, d.Rows)
}

// CheckArity reports the first row whose field count differs from the header.
func (d Dataset) CheckArity() error {
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("%s row %d has %d fields, header has %d: %w",
				d.Name, i+1, len(row), len(d.Columns), ErrArity)
		}
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate the static samples.
func (d Dataset) clone() Dataset {
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return Dataset{
		Name:     d.Name,
		Filename: d.Filename,
		Columns:  append([]string(nil), d.Columns...),
		Rows:     rows,
	}
}

// Provider returns the provider sample.
func Provider() Dataset { return provider.clone() }

// Market returns the market sample.
func Market() Dataset { return market.clone() }

// All returns every sample in display order.
func All() []Dataset {
	return []Dataset{Provider(), Market()}
}

// Lookup resolves a sample by short name ("provider") or file name.
func Lookup(name string) (Dataset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, d := range []Dataset{provider, market} {
		if key == d.Name || key == d.Filename {
			return d.clone(), nil
		}
	}
	return Dataset{}, fmt.Errorf("%q: %w", name, ErrUnknownDataset)
}
