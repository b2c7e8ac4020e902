// Package excel reads and writes xlsx workbooks: processed risk-base tables
// and policy matrix sheets.
package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

const (
	// ResultSheet is the sheet that holds an exported risk base.
	ResultSheet = "Base de Riesgo"
	// MatrixSheet is the sheet that holds an exported policy matrix.
	MatrixSheet = "Matriz"
)

// Workbook reads and writes xlsx files. An empty sheet name reads the
// first sheet of the file.
type Workbook struct {
	sheet string
}

// NewWorkbook creates a workbook accessor bound to a sheet name
func NewWorkbook(sheet string) *Workbook {
	return &Workbook{sheet: sheet}
}

// ReadSheet reads the bound sheet. Cell values are read raw so numbers keep
// the digits they were written with; short rows are padded to the header.
func (w *Workbook) ReadSheet(filename string) (tabular.Sheet, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return tabular.Sheet{}, fmt.Errorf("failed to open Excel file %s: %w", filename, err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return tabular.Sheet{}, fmt.Errorf("no sheets found in Excel file %s", filename)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return tabular.Sheet{}, fmt.Errorf("failed to get rows from sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return tabular.Sheet{}, fmt.Errorf("sheet %q has no header row", sheet)
	}

	header := rows[0]
	data := rows[1:]
	for i, row := range data {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			data[i] = padded
		}
	}
	return tabular.Sheet{Header: header, Rows: data}, nil
}

// LoadInventory loads an inventory extract from an xlsx file
func (w *Workbook) LoadInventory(filename string) (*entities.Dataset, error) {
	sheet, err := w.ReadSheet(filename)
	if err != nil {
		return nil, err
	}
	ds, err := tabular.DecodeInventory(sheet)
	if err != nil {
		return nil, fmt.Errorf("inventory workbook %s: %w", filename, err)
	}
	return ds, nil
}

// LoadMatrix loads policy entries from an xlsx file
func (w *Workbook) LoadMatrix(filename string) ([]*entities.MatrixEntry, error) {
	sheet, err := w.ReadSheet(filename)
	if err != nil {
		return nil, err
	}
	entries, err := tabular.DecodeMatrix(sheet)
	if err != nil {
		return nil, fmt.Errorf("matrix workbook %s: %w", filename, err)
	}
	return entries, nil
}

// WriteTable saves a processed table. Integers are written as numbers,
// decimals as their exact text, dates as DD/MM/YYYY text, nulls as empty
// cells.
func (w *Workbook) WriteTable(filename string, table repositories.ResultTable) error {
	rows := table.Rows()
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		out[i] = cells
	}
	return w.write(filename, table.Header(), out)
}

// WriteMatrix saves policy entries with factor_prov in the 0-100 scale.
func (w *Workbook) WriteMatrix(filename string, entries []*entities.MatrixEntry) error {
	s := tabular.EncodeMatrix(entries)
	out := make([][]any, len(s.Rows))
	for i, row := range s.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return w.write(filename, s.Header, out)
}

func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(entities.DateLayout)
	default:
		return x
	}
}

func (w *Workbook) write(filename string, header []string, rows [][]any) error {
	sheet := w.sheet
	if sheet == "" {
		sheet = ResultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}
	if err := sw.SetColWidth(1, max(len(header), 1), 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file %s: %w", filename, err)
	}
	return nil
}
