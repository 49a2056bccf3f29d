package xltrans

// Listener is notified as the walker annotates cells. Implement it for
// progress reporting, auditing or logging.
type Listener interface {
	// CellTranslated is called after ref has been rewritten.
	CellTranslated(ref CellRef, original, bilingual string)

	// CellFailed is called when ref kept its value because translation failed.
	CellFailed(ref CellRef, err *TranslationError)
}

// SheetListener is optionally implemented by a Listener that also wants
// sheet boundaries.
type SheetListener interface {
	SheetStarted(name string)
	SheetFinished(result SheetReport)
}

type listeners []Listener

func (ls listeners) cellTranslated(ref CellRef, original, bilingual string) {
	for _, l := range ls {
		l.CellTranslated(ref, original, bilingual)
	}
}

func (ls listeners) cellFailed(ref CellRef, err *TranslationError) {
	for _, l := range ls {
		l.CellFailed(ref, err)
	}
}

func (ls listeners) sheetStarted(name string) {
	for _, l := range ls {
		if sl, ok := l.(SheetListener); ok {
			sl.SheetStarted(name)
		}
	}
}

func (ls listeners) sheetFinished(result SheetReport) {
	for _, l := range ls {
		if sl, ok := l.(SheetListener); ok {
			sl.SheetFinished(result)
		}
	}
}
