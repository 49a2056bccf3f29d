package xltrans

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelizeWorkbook implements Workbook using excelize.
type ExcelizeWorkbook struct {
	file       *excelize.File
	wrapStyles map[int]int // base styleID → styleID with wrap + top alignment

	mu sync.Mutex
}

// NewExcelizeWorkbook wraps an already opened excelize file.
func NewExcelizeWorkbook(f *excelize.File) *ExcelizeWorkbook {
	return &ExcelizeWorkbook{
		file:       f,
		wrapStyles: make(map[int]int),
	}
}

// OpenWorkbook opens an xlsx file.
func OpenWorkbook(path string) (*ExcelizeWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DocumentIOError{Op: "open", Path: path, Err: err}
	}
	return NewExcelizeWorkbook(f), nil
}

// OpenWorkbookReader opens an xlsx document from r.
func OpenWorkbookReader(r io.Reader) (*ExcelizeWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &DocumentIOError{Op: "open", Err: err}
	}
	return NewExcelizeWorkbook(f), nil
}

// SheetNames returns all sheet names in workbook order.
func (wb *ExcelizeWorkbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

// Sheet returns the named sheet or an error wrapping ErrSheetNotFound.
func (wb *ExcelizeWorkbook) Sheet(name string) (Sheet, error) {
	idx, err := wb.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q: %w", name, ErrSheetNotFound)
	}
	return &excelizeSheet{wb: wb, name: name}, nil
}

// Write writes the workbook to the given writer.
func (wb *ExcelizeWorkbook) Write(w io.Writer) error {
	return wb.file.Write(w)
}

// Close closes the underlying excelize file.
func (wb *ExcelizeWorkbook) Close() error {
	return wb.file.Close()
}

// File returns the underlying excelize file for advanced operations.
func (wb *ExcelizeWorkbook) File() *excelize.File {
	return wb.file
}

// wrapTopStyle returns a style derived from base with text wrapping and top
// vertical alignment. Font, fill, border and number format are kept.
func (wb *ExcelizeWorkbook) wrapTopStyle(base int) (int, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if id, ok := wb.wrapStyles[base]; ok {
		return id, nil
	}
	style, err := wb.file.GetStyle(base)
	if err != nil {
		return 0, fmt.Errorf("read style %d: %w", base, err)
	}
	if style == nil {
		style = &excelize.Style{}
	}
	if style.Alignment == nil {
		style.Alignment = &excelize.Alignment{}
	}
	style.Alignment.WrapText = true
	style.Alignment.Vertical = "top"

	id, err := wb.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create wrap style: %w", err)
	}
	wb.wrapStyles[base] = id
	return id, nil
}

// excelizeSheet implements Sheet for one worksheet of an ExcelizeWorkbook.
type excelizeSheet struct {
	wb   *ExcelizeWorkbook
	name string
}

func (s *excelizeSheet) Name() string { return s.name }

func (s *excelizeSheet) file() *excelize.File { return s.wb.file }

// Dimensions returns the data extent widened by every merged region.
func (s *excelizeSheet) Dimensions() (int, int, error) {
	rows, err := s.file().GetRows(s.name)
	if err != nil {
		return 0, 0, fmt.Errorf("read rows from sheet %q: %w", s.name, err)
	}
	maxRow, maxCol := 0, 0
	for i, row := range rows {
		for j := len(row) - 1; j >= 0; j-- {
			if row[j] != "" {
				maxRow = i + 1
				if j+1 > maxCol {
					maxCol = j + 1
				}
				break
			}
		}
	}

	regions, err := s.MergedRegions()
	if err != nil {
		return 0, 0, err
	}
	for _, r := range regions {
		if r.Last.Row > maxRow {
			maxRow = r.Last.Row
		}
		if r.Last.Col > maxCol {
			maxCol = r.Last.Col
		}
	}
	return maxRow, maxCol, nil
}

// MergedRegions returns the sheet's merged ranges in workbook order.
func (s *excelizeSheet) MergedRegions() ([]AreaRef, error) {
	merges, err := s.file().GetMergeCells(s.name)
	if err != nil {
		return nil, fmt.Errorf("read merged cells from sheet %q: %w", s.name, err)
	}
	regions := make([]AreaRef, 0, len(merges))
	for _, m := range merges {
		area, err := ParseAreaRef(m.GetStartAxis() + ":" + m.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merged range in sheet %q: %w", s.name, err)
		}
		area.First.Sheet = s.name
		area.Last.Sheet = s.name
		regions = append(regions, area)
	}
	return regions, nil
}

// Value reads and classifies the value at ref.
func (s *excelizeSheet) Value(ref CellRef) (CellValue, error) {
	cell := ref.CellName()
	f := s.file()

	formula, err := f.GetCellFormula(s.name, cell)
	if err != nil {
		return Blank, fmt.Errorf("read formula %s!%s: %w", s.name, cell, err)
	}
	if formula != "" {
		return CellValue{Kind: KindFormula, Text: formula}, nil
	}

	cellType, err := f.GetCellType(s.name, cell)
	if err != nil {
		return Blank, fmt.Errorf("read type %s!%s: %w", s.name, cell, err)
	}
	raw, err := f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Blank, fmt.Errorf("read value %s!%s: %w", s.name, cell, err)
	}
	return classify(cellType, raw), nil
}

func classify(cellType excelize.CellType, raw string) CellValue {
	if raw == "" {
		return Blank
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return TextValue(raw)
	case excelize.CellTypeBool:
		return CellValue{Kind: KindBool, Text: raw}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Cells without a type attribute hold numbers.
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return CellValue{Kind: KindOther, Text: raw}
		}
		return CellValue{Kind: KindNumber, Text: raw, Number: n}
	default:
		return CellValue{Kind: KindOther, Text: raw}
	}
}

// SetText overwrites the value at ref with a string, preserving its style.
func (s *excelizeSheet) SetText(ref CellRef, text string) error {
	cell := ref.CellName()
	if err := s.file().SetCellStr(s.name, cell, text); err != nil {
		return fmt.Errorf("write %s!%s: %w", s.name, cell, err)
	}
	return nil
}

// SetWrapTop enables wrapping and top vertical alignment at ref.
func (s *excelizeSheet) SetWrapTop(ref CellRef) error {
	cell := ref.CellName()
	base, err := s.file().GetCellStyle(s.name, cell)
	if err != nil {
		return fmt.Errorf("read style %s!%s: %w", s.name, cell, err)
	}
	id, err := s.wb.wrapTopStyle(base)
	if err != nil {
		return err
	}
	if err := s.file().SetCellStyle(s.name, cell, cell, id); err != nil {
		return fmt.Errorf("set style %s!%s: %w", s.name, cell, err)
	}
	return nil
}

// ColumnWidth returns the width of a 1-based column.
func (s *excelizeSheet) ColumnWidth(col int) (float64, error) {
	return s.file().GetColWidth(s.name, ColToName(col))
}

// SetColumnWidth sets the width of a 1-based column.
func (s *excelizeSheet) SetColumnWidth(col int, width float64) error {
	name := ColToName(col)
	if err := s.file().SetColWidth(s.name, name, name, width); err != nil {
		return fmt.Errorf("set width of column %s in sheet %q: %w", name, s.name, err)
	}
	return nil
}
