package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/brunooviedo/estadodecuenta/internal/config"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Grid is the sheet content as rows of cell text. Rows may be ragged.
type Grid [][]string

// LoadOptions controls how the raw bytes become a Grid.
type LoadOptions struct {
	Engine      config.Engine
	SheetName   string
	HeaderSkip  int
	ColumnRange string
}

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectEngine sniffs the payload, falling back to the file extension for csv.
func DetectEngine(data []byte, filename string) (config.Engine, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return config.EngineXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return config.EngineXLS, nil
	case strings.EqualFold(filepath.Ext(filename), ".csv"):
		return config.EngineCSV, nil
	}
	return "", &UnreadableDocumentError{Err: errors.New("unrecognized spreadsheet format")}
}

// LoadGrid decodes data into a Grid, then drops the header rows and slices the column range.
// It returns the engine that was actually used.
func LoadGrid(data []byte, filename string, opts LoadOptions) (Grid, config.Engine, error) {
	if len(data) == 0 {
		return nil, "", &UnreadableDocumentError{Err: errors.New("empty file")}
	}

	engine := opts.Engine
	if engine == "" || engine == config.EngineAuto {
		detected, err := DetectEngine(data, filename)
		if err != nil {
			return nil, "", err
		}
		engine = detected
	}

	var rows [][]string
	var err error
	switch engine {
	case config.EngineXLSX:
		rows, err = readXLSX(data, opts.SheetName)
	case config.EngineXLS:
		rows, err = readXLS(data, opts.SheetName)
	case config.EngineCSV:
		rows, err = readCSV(data)
	default:
		return nil, engine, fmt.Errorf("unsupported engine %q", engine)
	}
	if err != nil {
		return nil, engine, &UnreadableDocumentError{Engine: string(engine), Err: err}
	}

	var span *config.ColumnSpan
	if opts.ColumnRange != "" {
		s, err := config.ParseColumnRange(opts.ColumnRange)
		if err != nil {
			return nil, engine, err
		}
		span = &s
	}

	return window(rows, opts.HeaderSkip, span), engine, nil
}

func window(rows [][]string, skip int, span *config.ColumnSpan) Grid {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(rows) {
		return Grid{}
	}
	rows = rows[skip:]

	grid := make(Grid, 0, len(rows))
	for _, row := range rows {
		if span == nil {
			grid = append(grid, row)
			continue
		}
		if span.Start >= len(row) {
			grid = append(grid, []string{})
			continue
		}
		end := span.End + 1
		if end > len(row) {
			end = len(row)
		}
		grid = append(grid, row[span.Start:end])
	}
	return grid
}

func readXLSX(data []byte, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	name := sheets[0]
	if sheetName != "" {
		if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", sheetName)
		}
		name = sheetName
	}
	return f.GetRows(name, excelize.Options{RawCellValue: true})
}

func readXLS(data []byte, sheetName string) (rows [][]string, err error) {
	// the xls decoder panics on some truncated streams
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("corrupt xls stream: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, errors.New("the xls file has no sheets")
	}

	idx := 0
	if sheetName != "" {
		idx = -1
		for i := range sheets {
			if sheets[i].GetName() == sheetName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", sheetName)
		}
	}

	sheet, err := workbook.GetSheet(idx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %d: %w", idx, err)
	}
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// readCSV accepts UTF-8 exports as-is and decodes anything else as ISO-8859-1.
func readCSV(data []byte) ([][]string, error) {
	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	reader := csv.NewReader(src)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("csv file has no rows")
	}
	return records, nil
}
