package xltrans

import "io"

// Sheet abstracts the cell grid of one worksheet. Coordinates are 1-based.
type Sheet interface {
	Name() string

	// Dimensions returns the last used row and column, merged regions included.
	Dimensions() (maxRow, maxCol int, err error)
	MergedRegions() ([]AreaRef, error)

	// Cell access
	Value(ref CellRef) (CellValue, error)
	SetText(ref CellRef, text string) error
	SetWrapTop(ref CellRef) error

	// Column layout
	ColumnWidth(col int) (float64, error)
	SetColumnWidth(col int, width float64) error
}

// Workbook abstracts workbook I/O.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (Sheet, error)

	Write(w io.Writer) error
	Close() error
}
