package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

// maxSheetRows bounds how many rows are pulled out of a legacy .xls sheet.
const maxSheetRows = 100000

// ReadFile reads every row of a tabular export file. The access-control
// vendor has shipped the same data as CSV, legacy BIFF .xls, .xlsx, and
// xz-compressed CSV over the years, so the container format is sniffed from
// the file extension.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRows(f, filepath.Base(path))
}

// ReadRows reads all rows from reader, using filename only to decide the
// container format.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xz":
		xzReader, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		inner := strings.TrimSuffix(filename, filepath.Ext(filename))
		return ReadRows(xzReader, inner)
	case ".xls", ".xsl":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		if workbook.NumSheets() > 1 {
			return nil, fmt.Errorf("multiple worksheets found; export a file with a single sheet")
		}
		rows := workbook.ReadAllCells(maxSheetRows)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case ".xlsx":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("file is empty")
		}
		return rows, nil
	}
}

// HeaderIndex maps normalized header names to their column positions.
func HeaderIndex(header []string) map[string]int {
	index := map[string]int{}
	for i, name := range header {
		index[NormalizeHeader(name)] = i
	}
	return index
}

func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// CellValue returns the trimmed cell at idx, tolerating short rows.
func CellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
