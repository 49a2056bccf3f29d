package xltrans

import (
	"fmt"
	"strings"
)

// Describe opens a workbook and returns a human-readable tree showing each
// selected sheet, its merged regions and the cells that would be translated.
// Nothing is translated. Useful as a dry run before a long translation job.
func Describe(path string, opts ...Option) (string, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	filter, err := CompileCellFilter(o.cellFilter)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workbook: %s\n", path)

	p := &Pipeline{opts: o}
	names, missing := p.selectSheets(wb)
	for _, name := range names {
		sheet, err := wb.Sheet(name)
		if err != nil {
			return "", err
		}
		if err := describeSheet(&b, sheet, filter); err != nil {
			return "", fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	for _, name := range missing {
		fmt.Fprintf(&b, "%s (missing)\n", name)
	}
	return b.String(), nil
}

// describeSheet writes one sheet's subtree.
func describeSheet(b *strings.Builder, sheet Sheet, filter *CellFilter) error {
	maxRow, maxCol, err := sheet.Dimensions()
	if err != nil {
		return err
	}
	regions, err := sheet.MergedRegions()
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "%s %s\n", sheet.Name(), Size{Width: maxCol, Height: maxRow})

	if len(regions) > 0 {
		b.WriteString("  Merged:\n")
		for _, r := range regions {
			fmt.Fprintf(b, "    %s:%s %s\n", r.First.CellName(), r.Last.CellName(), r.Size())
		}
	}

	idx := BuildRegionIndex(regions)
	var lines []string
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			ref := NewCellRef(sheet.Name(), row, col)
			if !idx.IsMaster(ref) {
				continue
			}
			value, err := sheet.Value(ref)
			if err != nil {
				return err
			}
			if !value.Qualifies() {
				continue
			}
			line := fmt.Sprintf("    %s: %s", ref.CellName(), oneLine(value.Text))
			ok, err := filter.Accept(ref, value.Text)
			if err != nil {
				return err
			}
			if !ok {
				line += " (filtered)"
			}
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		b.WriteString("  Candidates:\n")
		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", `\n`)
}
