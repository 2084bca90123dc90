// Package export encodes report results for files and stdout.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/processor"
	"shenanigigs/services/analytics/internal/queries"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatXLSX}

// TimestampLayout renders job_posted_date in CSV and XLSX output.
const TimestampLayout = "2006-01-02 15:04:05"

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown format %q, want one of %v", s, Formats), nil)
}

type document struct {
	Report      queries.Report `json:"report" yaml:"report"`
	Description string         `json:"description" yaml:"description"`
	Rows        any            `json:"rows" yaml:"rows"`
}

func documents(results []processor.Result) []document {
	docs := make([]document, 0, len(results))
	for _, res := range results {
		docs = append(docs, document{
			Report:      res.Report,
			Description: res.Report.Description(),
			Rows:        res.Rows,
		})
	}
	return docs
}

// Write encodes results to w. CSV holds exactly one report; the other formats
// hold any number, in the order given.
func Write(w io.Writer, format Format, results []processor.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatYAML:
		return WriteYAML(w, results)
	case FormatCSV:
		if len(results) != 1 {
			return errors.InvalidInput(fmt.Sprintf("csv output holds one report, got %d", len(results)), nil)
		}
		return WriteCSV(w, results[0])
	case FormatXLSX:
		return WriteXLSX(w, results)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown format %q", format), nil)
	}
}

func WriteJSON(w io.Writer, results []processor.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(documents(results)); err != nil {
		return errors.Internal("encoding json", err)
	}
	return nil
}

func WriteYAML(w io.Writer, results []processor.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(documents(results)); err != nil {
		return errors.Internal("encoding yaml", err)
	}
	if err := enc.Close(); err != nil {
		return errors.Internal("encoding yaml", err)
	}
	return nil
}

func WriteCSV(w io.Writer, res processor.Result) error {
	t, err := tableOf(res)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return errors.Internal("writing csv header", err)
	}
	for _, row := range t.rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return errors.Internal("writing csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Internal("flushing csv", err)
	}
	return nil
}

// WriteXLSX writes one sheet per report, named after the report.
func WriteXLSX(w io.Writer, results []processor.Result) error {
	if len(results) == 0 {
		return errors.InvalidInput("xlsx output needs at least one report", nil)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, res := range results {
		t, err := tableOf(res)
		if err != nil {
			return err
		}

		sheet := string(res.Report)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return errors.Internal("naming sheet", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return errors.Internal("creating sheet", err)
		}

		if err := writeSheet(f, sheet, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return errors.Internal("xlsx write", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t table) error {
	for col, h := range t.header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Internal("writing xlsx header", err)
		}
	}

	for r, row := range t.rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet, cell, xlsxValue(v)); err != nil {
				return errors.Internal("writing xlsx cell", err)
			}
		}
	}

	return sizeColumns(f, sheet, len(t.header))
}

func sizeColumns(f *excelize.File, sheet string, n int) error {
	last, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return errors.Internal("sizing xlsx columns", err)
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return errors.Internal("sizing xlsx columns", err)
	}
	return nil
}

// xlsxValue keeps numbers numeric and renders the rest as text.
func xlsxValue(v any) any {
	switch v := v.(type) {
	case int64, int, float64:
		return v
	default:
		return formatCell(v)
	}
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format(TimestampLayout)
	default:
		return fmt.Sprint(v)
	}
}
