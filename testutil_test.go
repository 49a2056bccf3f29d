package xltrans

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// testdataDir returns the path to testdata directory, creating it if needed.
func testdataDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("testdata")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

// fakeTranslator maps text through a dictionary and records every call.
type fakeTranslator struct {
	dict  map[string]string
	fail  map[string]error
	calls []string
}

func newFakeTranslator(dict map[string]string) *fakeTranslator {
	return &fakeTranslator{dict: dict, fail: make(map[string]error)}
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	f.calls = append(f.calls, text)
	if err, ok := f.fail[text]; ok {
		return "", err
	}
	if v, ok := f.dict[text]; ok {
		return v, nil
	}
	return "", errors.New("unknown text")
}

func (f *fakeTranslator) count(text string) int {
	n := 0
	for _, c := range f.calls {
		if c == text {
			n++
		}
	}
	return n
}

// memSheet is an in-memory Sheet. Unlike excelize it stores values at
// non-master coordinates of merged regions, so tests can observe that they
// are never read or written.
type memSheet struct {
	name    string
	values  map[CellRef]CellValue
	regions []AreaRef
	widths  map[int]float64
	wrapped map[CellRef]bool
	reads   map[CellRef]int
	writes  map[CellRef]int
}

func newMemSheet(name string) *memSheet {
	return &memSheet{
		name:    name,
		values:  make(map[CellRef]CellValue),
		widths:  make(map[int]float64),
		wrapped: make(map[CellRef]bool),
		reads:   make(map[CellRef]int),
		writes:  make(map[CellRef]int),
	}
}

// set stores a value at an "A1" style coordinate; strings become text.
func (s *memSheet) set(cell string, v any) *memSheet {
	ref, err := ParseCellRef(cell)
	if err != nil {
		panic(err)
	}
	switch val := v.(type) {
	case string:
		s.values[ref.Coord()] = TextValue(val)
	case float64:
		s.values[ref.Coord()] = CellValue{Kind: KindNumber, Number: val}
	case CellValue:
		s.values[ref.Coord()] = val
	default:
		panic("unsupported value")
	}
	return s
}

func (s *memSheet) merge(area string) *memSheet {
	a, err := ParseAreaRef(area)
	if err != nil {
		panic(err)
	}
	s.regions = append(s.regions, a)
	return s
}

func (s *memSheet) text(cell string) string {
	ref, _ := ParseCellRef(cell)
	return s.values[ref.Coord()].Text
}

func (s *memSheet) touched(cell string) bool {
	ref, _ := ParseCellRef(cell)
	return s.reads[ref.Coord()] > 0 || s.writes[ref.Coord()] > 0 || s.wrapped[ref.Coord()]
}

func (s *memSheet) Name() string { return s.name }

func (s *memSheet) Dimensions() (int, int, error) {
	maxRow, maxCol := 0, 0
	for ref, v := range s.values {
		if v.Kind == KindBlank {
			continue
		}
		maxRow = max(maxRow, ref.Row)
		maxCol = max(maxCol, ref.Col)
	}
	for _, r := range s.regions {
		maxRow = max(maxRow, r.Last.Row)
		maxCol = max(maxCol, r.Last.Col)
	}
	return maxRow, maxCol, nil
}

func (s *memSheet) MergedRegions() ([]AreaRef, error) { return s.regions, nil }

func (s *memSheet) Value(ref CellRef) (CellValue, error) {
	s.reads[ref.Coord()]++
	v, ok := s.values[ref.Coord()]
	if !ok {
		return Blank, nil
	}
	return v, nil
}

func (s *memSheet) SetText(ref CellRef, text string) error {
	s.writes[ref.Coord()]++
	s.values[ref.Coord()] = TextValue(text)
	return nil
}

func (s *memSheet) SetWrapTop(ref CellRef) error {
	s.wrapped[ref.Coord()] = true
	return nil
}

func (s *memSheet) ColumnWidth(col int) (float64, error) {
	if w, ok := s.widths[col]; ok {
		return w, nil
	}
	return 9.140625, nil
}

func (s *memSheet) SetColumnWidth(col int, width float64) error {
	s.widths[col] = width
	return nil
}

// memWorkbook is an in-memory Workbook over memSheets.
type memWorkbook struct {
	sheets []*memSheet
}

func (wb *memWorkbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

func (wb *memWorkbook) Sheet(name string) (Sheet, error) {
	for _, s := range wb.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, ErrSheetNotFound
}

func (wb *memWorkbook) Write(io.Writer) error { return nil }
func (wb *memWorkbook) Close() error          { return nil }

// createExampleWorkbook creates the canonical example workbook.
// Layout (Sheet1):
//
//	A1:B2 merged, A1: "测试"     C1: "Hello"
func createExampleWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "测试"))
	require.NoError(t, f.MergeCell(sheet, "A1", "B2"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "Hello"))
	return f
}

// workbookBytes serialises f.
func workbookBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// saveWorkbook writes f into testdata and returns its path.
func saveWorkbook(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	path := filepath.Join(testdataDir(t), name)
	require.NoError(t, f.SaveAs(path))
	t.Cleanup(func() { os.Remove(path) })
	return path
}

// openOutput parses a translated workbook.
func openOutput(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	out, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })
	return out
}

// noSleep records requested delays without waiting.
type noSleep struct {
	calls int
}

func (n *noSleep) sleep(ctx context.Context, d time.Duration) error {
	n.calls++
	return ctx.Err()
}
