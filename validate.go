package xltrans

import (
	"fmt"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // The run will fail
	SeverityWarning                 // The run may produce unexpected results
)

// ValidationIssue represents a single problem found during validation.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	if v.CellRef.Row == 0 {
		return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef.Sheet, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// Validate checks a workbook and run options without translating anything.
// It reports an unparsable cell filter, selected sheets that do not exist,
// and coordinates claimed by more than one merged region (whose master is
// then decided by region order). A non-nil error means the workbook could
// not be opened or read.
func Validate(path string, opts ...Option) ([]ValidationIssue, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var issues []ValidationIssue
	if _, err := CompileCellFilter(o.cellFilter); err != nil {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("invalid cell filter: %v", err),
		})
	}

	p := &Pipeline{opts: o}
	names, missing := p.selectSheets(wb)
	for _, name := range missing {
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			CellRef:  CellRef{Sheet: name},
			Message:  "sheet not found; it will be skipped",
		})
	}

	for _, name := range names {
		sheet, err := wb.Sheet(name)
		if err != nil {
			return nil, err
		}
		regions, err := sheet.MergedRegions()
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		issues = append(issues, overlapIssues(name, BuildRegionIndex(regions))...)
	}
	return issues, nil
}

func overlapIssues(sheet string, idx *RegionIndex) []ValidationIssue {
	var issues []ValidationIssue
	for _, ov := range idx.Overlaps() {
		ranges := make([]string, len(ov.Regions))
		for i, r := range ov.Regions {
			ranges[i] = r.First.CellName() + ":" + r.Last.CellName()
		}
		master, _ := idx.MasterOf(ov.Ref)
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			CellRef:  NewCellRef(sheet, ov.Ref.Row, ov.Ref.Col),
			Message: fmt.Sprintf("covered by overlapping merged regions %s; master resolves to %s",
				strings.Join(ranges, ", "), master.CellName()),
		})
	}
	return issues
}
