// Package xltrans annotates the Chinese text of xlsx workbooks with
// translations, keeping merged regions intact and re-flowing column widths.
package xltrans

import (
	"bytes"
	"context"
	"io"
	"os"
)

// TranslateFile translates every sheet of inputPath and writes the result to
// outputPath. Nothing is written when the input cannot be opened.
func TranslateFile(ctx context.Context, inputPath, outputPath string, t Translator, opts ...Option) (*Report, error) {
	p, err := NewPipeline(t, opts...)
	if err != nil {
		return nil, err
	}
	return p.TranslateFile(ctx, inputPath, outputPath)
}

// TranslateSheets translates only the named sheets, in the given order.
// Unknown names are skipped and listed in Report.MissingSheets.
func TranslateSheets(ctx context.Context, inputPath, outputPath string, sheets []string, t Translator, opts ...Option) (*Report, error) {
	allOpts := append(append([]Option(nil), opts...), WithSheets(sheets...))
	return TranslateFile(ctx, inputPath, outputPath, t, allOpts...)
}

// TranslateReader reads a workbook from r and writes the translated workbook to w.
func TranslateReader(ctx context.Context, r io.Reader, w io.Writer, t Translator, opts ...Option) (*Report, error) {
	p, err := NewPipeline(t, opts...)
	if err != nil {
		return nil, err
	}
	return p.TranslateWriter(ctx, r, w)
}

// TranslateBytes translates a workbook held in memory.
func TranslateBytes(ctx context.Context, data []byte, t Translator, opts ...Option) ([]byte, *Report, error) {
	var buf bytes.Buffer
	report, err := TranslateReader(ctx, bytes.NewReader(data), &buf, t, opts...)
	if err != nil {
		return nil, report, err
	}
	return buf.Bytes(), report, nil
}

// TranslateFile opens inputPath, runs the pipeline and saves to outputPath.
// A partially written output file is removed.
func (p *Pipeline) TranslateFile(ctx context.Context, inputPath, outputPath string) (*Report, error) {
	wb, err := OpenWorkbook(inputPath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	p.opts.logger.Info().Str("path", inputPath).Msg("workbook loaded")
	report, err := p.Run(ctx, wb)
	if err != nil {
		return report, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return report, &DocumentIOError{Op: "save", Path: outputPath, Err: err}
	}
	if err := wb.Write(out); err != nil {
		out.Close()
		os.Remove(outputPath)
		return report, &DocumentIOError{Op: "save", Path: outputPath, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return report, &DocumentIOError{Op: "save", Path: outputPath, Err: err}
	}
	p.opts.logger.Info().
		Str("path", outputPath).
		Int("sheets", len(report.Sheets)).
		Int("unique_translations", report.CacheSize).
		Msg("workbook saved")
	return report, nil
}

// TranslateWriter reads a workbook from r, runs the pipeline and writes to w.
func (p *Pipeline) TranslateWriter(ctx context.Context, r io.Reader, w io.Writer) (*Report, error) {
	wb, err := OpenWorkbookReader(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	report, err := p.Run(ctx, wb)
	if err != nil {
		return report, err
	}
	if err := wb.Write(w); err != nil {
		return report, &DocumentIOError{Op: "save", Err: err}
	}
	return report, nil
}
