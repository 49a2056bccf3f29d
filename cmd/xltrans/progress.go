package main

import (
	"fmt"
	"io"

	"github.com/javajack/xltrans"
	"github.com/schollz/progressbar/v3"
)

// progressListener shows a spinner with the number of cells processed in
// the current sheet. The candidate count is unknown up front.
type progressListener struct {
	bar *progressbar.ProgressBar
}

func newProgressListener(w io.Writer) *progressListener {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("[cyan]starting[reset]"),
	)
	return &progressListener{bar: bar}
}

func (p *progressListener) SheetStarted(name string) {
	p.bar.Reset()
	p.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", name))
}

func (p *progressListener) SheetFinished(xltrans.SheetReport) {}

func (p *progressListener) CellTranslated(xltrans.CellRef, string, string) {
	p.bar.Add(1)
}

func (p *progressListener) CellFailed(xltrans.CellRef, *xltrans.TranslationError) {
	p.bar.Add(1)
}

func (p *progressListener) Finish() {
	p.bar.Finish()
}
