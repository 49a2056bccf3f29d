package xltrans

import (
	"context"
	"errors"
	"fmt"
)

// SheetReport is the outcome of processing one sheet.
type SheetReport struct {
	WalkResult
	Regions int             // merged regions in the sheet
	Widths  map[int]float64 // column → width written by the layout pass
}

// Report is the outcome of one pipeline run.
type Report struct {
	Sheets        []SheetReport
	MissingSheets []string // selected names absent from the workbook
	CacheSize     int      // unique translations
	CacheHits     int
	CacheMisses   int
}

// Translated returns the number of annotated cells across all sheets.
func (r *Report) Translated() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Translated
	}
	return n
}

// Failed returns the number of cells left untranslated because of errors.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Failed
	}
	return n
}

// Failures returns every per-cell failure in processing order.
func (r *Report) Failures() []CellFailure {
	var out []CellFailure
	for _, s := range r.Sheets {
		out = append(out, s.Failures...)
	}
	return out
}

// Pipeline runs RegionIndex, CellWalker and LayoutPlanner over the selected
// sheets of a workbook.
type Pipeline struct {
	opts       *Options
	translator Translator
	filter     *CellFilter
}

// NewPipeline creates a pipeline translating through t.
func NewPipeline(t Translator, opts ...Option) (*Pipeline, error) {
	if t == nil {
		return nil, errors.New("nil translator")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	filter, err := CompileCellFilter(o.cellFilter)
	if err != nil {
		return nil, err
	}
	return &Pipeline{opts: o, translator: t, filter: filter}, nil
}

// Run processes the selected sheets of wb in place. A fresh TranslationCache
// is shared by every sheet of the run. Per-cell translation failures are
// reported in the Report; the returned error is reserved for workbook
// failures and cancellation.
func (p *Pipeline) Run(ctx context.Context, wb Workbook) (*Report, error) {
	cache := NewTranslationCache(p.translator, p.opts.sourceLang, p.opts.targetLang, p.opts.cacheOptions()...)
	walker := NewCellWalker(p.filter, p.opts.logger, p.opts.listeners...)
	planner := NewLayoutPlanner(p.opts.maxColumnWidth)
	ls := listeners(p.opts.listeners)

	names, missing := p.selectSheets(wb)
	report := &Report{MissingSheets: missing}
	for _, name := range missing {
		p.opts.logger.Warn().Str("sheet", name).Msg("sheet not found, skipping")
	}

	for _, name := range names {
		p.opts.logger.Info().Str("sheet", name).Msg("processing sheet")
		ls.sheetStarted(name)

		sheet, err := wb.Sheet(name)
		if err != nil {
			return report, err
		}
		sr, err := p.runSheet(ctx, sheet, walker, planner, cache)
		report.Sheets = append(report.Sheets, sr)
		if err != nil {
			return report, fmt.Errorf("sheet %q: %w", name, err)
		}

		p.opts.logger.Info().
			Str("sheet", name).
			Int("translated", sr.Translated).
			Int("failed", sr.Failed).
			Int("columns", len(sr.Widths)).
			Msg("sheet done")
		ls.sheetFinished(sr)
	}

	report.CacheSize = cache.Len()
	report.CacheHits = cache.Hits()
	report.CacheMisses = cache.Misses()
	return report, nil
}

func (p *Pipeline) runSheet(ctx context.Context, sheet Sheet, walker *CellWalker, planner *LayoutPlanner, cache *TranslationCache) (SheetReport, error) {
	sr := SheetReport{WalkResult: WalkResult{Sheet: sheet.Name()}}

	regions, err := sheet.MergedRegions()
	if err != nil {
		return sr, err
	}
	sr.Regions = len(regions)
	idx := BuildRegionIndex(regions)

	walk, err := walker.Walk(ctx, sheet, idx, cache)
	sr.WalkResult = walk
	if err != nil {
		return sr, err
	}

	widths, err := planner.Plan(sheet, idx)
	if err != nil {
		return sr, err
	}
	if err := planner.Apply(sheet, widths); err != nil {
		return sr, err
	}
	sr.Widths = widths
	return sr, nil
}

// selectSheets returns the sheets to process and the selected names that do
// not exist in wb.
func (p *Pipeline) selectSheets(wb Workbook) (names, missing []string) {
	all := wb.SheetNames()
	if p.opts.sheets == nil {
		return all, nil
	}
	present := make(map[string]bool, len(all))
	for _, name := range all {
		present[name] = true
	}
	for _, name := range p.opts.sheets {
		if present[name] {
			names = append(names, name)
		} else {
			missing = append(missing, name)
		}
	}
	return names, missing
}
