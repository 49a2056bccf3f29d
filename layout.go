package xltrans

import "sort"

const (
	// DefaultMaxColumnWidth caps a recomputed column width.
	DefaultMaxColumnWidth = 50.0

	// columnPadding is added to the longest line for cell margins.
	columnPadding = 2
)

// LayoutPlanner recomputes column widths from the text a sheet holds.
type LayoutPlanner struct {
	maxWidth float64
}

// NewLayoutPlanner creates a planner clamping widths to maxWidth.
// A non-positive maxWidth selects DefaultMaxColumnWidth.
func NewLayoutPlanner(maxWidth float64) *LayoutPlanner {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxColumnWidth
	}
	return &LayoutPlanner{maxWidth: maxWidth}
}

// Plan returns the new width of every column holding text. For each column
// only master and unmerged coordinates are considered; the width is the
// longest single line plus padding, clamped to the maximum. Columns without
// text are absent from the result.
func (p *LayoutPlanner) Plan(sheet Sheet, idx *RegionIndex) (map[int]float64, error) {
	maxRow, maxCol, err := sheet.Dimensions()
	if err != nil {
		return nil, err
	}

	widths := make(map[int]float64)
	for col := 1; col <= maxCol; col++ {
		maxLength := 0
		for row := 1; row <= maxRow; row++ {
			ref := NewCellRef(sheet.Name(), row, col)
			if !idx.IsMaster(ref) {
				continue
			}
			value, err := sheet.Value(ref)
			if err != nil {
				return nil, err
			}
			if !value.IsText() {
				continue
			}
			if n := LongestLine(value.Text); n > maxLength {
				maxLength = n
			}
		}
		if maxLength > 0 {
			widths[col] = p.width(maxLength)
		}
	}
	return widths, nil
}

func (p *LayoutPlanner) width(maxLength int) float64 {
	w := float64(maxLength + columnPadding)
	if w > p.maxWidth {
		return p.maxWidth
	}
	return w
}

// Apply writes planned widths to the sheet in column order.
func (p *LayoutPlanner) Apply(sheet Sheet, widths map[int]float64) error {
	cols := make([]int, 0, len(widths))
	for col := range widths {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	for _, col := range cols {
		if err := sheet.SetColumnWidth(col, widths[col]); err != nil {
			return err
		}
	}
	return nil
}
