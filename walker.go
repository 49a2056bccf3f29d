package xltrans

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// WalkResult summarises one translation pass over a sheet.
type WalkResult struct {
	Sheet      string
	Visited    int // coordinates read
	Skipped    int // non-master coordinates inside merged regions
	Candidates int // text cells with CJK ideographs
	Filtered   int // candidates rejected by the cell filter
	Translated int
	Failed     int
	Failures   []CellFailure // in traversal order
}

// CellWalker performs the row-major translation pass over one sheet.
type CellWalker struct {
	filter    *CellFilter
	listeners listeners
	logger    zerolog.Logger
}

// NewCellWalker creates a walker. filter may be nil.
func NewCellWalker(filter *CellFilter, logger zerolog.Logger, ls ...Listener) *CellWalker {
	return &CellWalker{filter: filter, listeners: ls, logger: logger}
}

// Walk visits rows 1..maxRow and columns 1..maxCol. Coordinates inside a
// merged region other than its master are skipped without being read.
// Qualifying cells are replaced with their bilingual text and set to wrap
// with top alignment. Translation failures leave the cell untouched and are
// collected; workbook errors and cancellation stop the walk.
func (w *CellWalker) Walk(ctx context.Context, sheet Sheet, idx *RegionIndex, cache *TranslationCache) (WalkResult, error) {
	result := WalkResult{Sheet: sheet.Name()}

	maxRow, maxCol, err := sheet.Dimensions()
	if err != nil {
		return result, err
	}

	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			ref := NewCellRef(sheet.Name(), row, col)
			if !idx.IsMaster(ref) {
				result.Skipped++
				continue
			}
			if err := w.visit(ctx, sheet, ref, cache, &result); err != nil {
				return result, err
			}
		}
	}
	return result, nil
}

func (w *CellWalker) visit(ctx context.Context, sheet Sheet, ref CellRef, cache *TranslationCache, result *WalkResult) error {
	result.Visited++
	value, err := sheet.Value(ref)
	if err != nil {
		return err
	}
	if !value.Qualifies() {
		return nil
	}
	result.Candidates++

	ok, err := w.filter.Accept(ref, value.Text)
	if err != nil {
		return err
	}
	if !ok {
		result.Filtered++
		return nil
	}

	bilingual, err := cache.Translate(ctx, value.Text)
	if err != nil {
		var te *TranslationError
		if !errors.As(err, &te) {
			return err
		}
		result.Failed++
		result.Failures = append(result.Failures, CellFailure{Ref: ref, Err: te})
		w.logger.Warn().
			Str("cell", ref.String()).
			Str("text", te.Text).
			Err(te.Err).
			Msg("translation failed, keeping original")
		w.listeners.cellFailed(ref, te)
		return nil
	}

	if err := sheet.SetText(ref, bilingual); err != nil {
		return fmt.Errorf("annotate %s: %w", ref, err)
	}
	if err := sheet.SetWrapTop(ref); err != nil {
		return fmt.Errorf("annotate %s: %w", ref, err)
	}
	result.Translated++
	w.logger.Debug().Str("cell", ref.String()).Msg("translated")
	w.listeners.cellTranslated(ref, value.Text, bilingual)
	return nil
}
