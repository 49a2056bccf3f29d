// Package main provides the CLI entry point for xltrans.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/javajack/xltrans"
	"github.com/javajack/xltrans/config"
	"github.com/javajack/xltrans/translator"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// flags shared by translate, describe and validate
type runFlags struct {
	configPath string
	sourceLang string
	targetLang string
	delay      time.Duration
	timeout    time.Duration
	sheets     []string
	maxWidth   float64
	filter     string
	glossary   string
	engine     string
	verbose    bool
	noProgress bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xltrans",
		Short: "Annotate Chinese text in xlsx workbooks with translations",
		Long: `xltrans finds cells containing Chinese text and rewrites each one as
two lines: the translation followed by the original. Merged regions are kept
intact (only the top-left cell of a region is touched) and column widths are
recomputed to fit the new text.

Commands:
  translate   Translate a workbook
  describe    Show sheets, merged regions and cells that would be translated
  validate    Check a workbook and options without translating
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newDescribeCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("[ERROR]"), err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xltrans version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "Config file (default: ./"+config.FileName+" if present)")
	fs.StringVar(&f.sourceLang, "source", "", "Source locale (default zh-cn)")
	fs.StringVar(&f.targetLang, "target", "", "Target locale (default en)")
	fs.StringSliceVarP(&f.sheets, "sheet", "s", nil, "Sheet to process; repeat for several (default: all sheets)")
	fs.StringVar(&f.filter, "filter", "", `Cell filter expression, e.g. 'row > 1 && sheet != "Notes"'`)
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
}

func addTranslateFlags(cmd *cobra.Command, f *runFlags) {
	fs := cmd.Flags()
	fs.DurationVar(&f.delay, "delay", 0, "Pause after each translator call (default 100ms)")
	fs.DurationVar(&f.timeout, "timeout", 0, "Timeout for each translator call (default: none)")
	fs.Float64Var(&f.maxWidth, "max-width", 0, "Maximum column width (default 50)")
	fs.StringVar(&f.glossary, "glossary", "", "YAML glossary consulted before the translation engine")
	fs.StringVar(&f.engine, "engine", "", "Translation engine: google or glossary (default google)")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable the progress indicator")
}

// loadConfig merges the config file with flags that were explicitly set.
func loadConfig(cmd *cobra.Command, f *runFlags) (*config.File, error) {
	var cfg *config.File
	var err error
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.SourceLang = f.sourceLang
	}
	if changed("target") {
		cfg.TargetLang = f.targetLang
	}
	if changed("sheet") {
		cfg.Sheets = f.sheets
	}
	if changed("filter") {
		cfg.Filter = f.filter
	}
	if changed("delay") {
		d := f.delay
		cfg.Delay = &d
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("max-width") {
		cfg.MaxWidth = f.maxWidth
	}
	if changed("glossary") {
		cfg.Glossary = f.glossary
	}
	if changed("engine") {
		cfg.Engine = f.engine
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func pipelineOptions(cfg *config.File, logger zerolog.Logger) []xltrans.Option {
	opts := []xltrans.Option{
		xltrans.WithSourceLang(cfg.SourceLang),
		xltrans.WithTargetLang(cfg.TargetLang),
		xltrans.WithCallTimeout(cfg.Timeout),
		xltrans.WithMaxColumnWidth(cfg.MaxWidth),
		xltrans.WithCellFilter(cfg.Filter),
		xltrans.WithLogger(logger),
	}
	if cfg.Delay != nil {
		opts = append(opts, xltrans.WithDelay(*cfg.Delay))
	}
	if cfg.Sheets != nil {
		opts = append(opts, xltrans.WithSheets(cfg.Sheets...))
	}
	return opts
}

func buildTranslator(cfg *config.File) (xltrans.Translator, error) {
	var engine translator.Backend
	if cfg.Engine == config.EngineGoogle {
		engine = translator.NewGoogle()
	}
	if cfg.Glossary == "" {
		return engine, nil
	}
	g, err := translator.LoadGlossary(cfg.Glossary, engine)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newTranslateCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "translate <input.xlsx> <output.xlsx>",
		Short: "Translate a workbook",
		Long: `Translate every sheet (or the sheets named with --sheet) of the input
workbook and save the annotated copy. Cells whose translation fails keep their
original value and are listed at the end; the output is still written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			t, err := buildTranslator(cfg)
			if err != nil {
				return err
			}

			logger := newLogger(f.verbose)
			opts := pipelineOptions(cfg, logger)
			if !f.noProgress {
				progress := newProgressListener(os.Stderr)
				defer progress.Finish()
				opts = append(opts, xltrans.WithListener(progress))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			report, err := xltrans.TranslateFile(ctx, args[0], args[1], t, opts...)
			if report != nil {
				printSummary(report)
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", green("[OK]"), args[1])
			return nil
		},
	}
	addRunFlags(cmd, &f)
	addTranslateFlags(cmd, &f)
	return cmd
}

func printSummary(r *xltrans.Report) {
	fmt.Println()
	fmt.Println(bold("Summary"))
	for _, s := range r.Sheets {
		fmt.Printf("  %-24s translated %s, failed %s, columns resized %d\n",
			s.Sheet, green(s.Translated), failedCount(s.Failed), len(s.Widths))
	}
	for _, name := range r.MissingSheets {
		fmt.Printf("  %-24s %s\n", name, yellow("not found"))
	}
	fmt.Printf("  unique translations: %d (cache hits %d)\n", r.CacheSize, r.CacheHits)
	for _, fail := range r.Failures() {
		fmt.Printf("  %s %s\n", yellow("[WARN]"), fail)
	}
}

func failedCount(n int) string {
	if n == 0 {
		return fmt.Sprint(n)
	}
	return red(n)
}

func newDescribeCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "describe <input.xlsx>",
		Short: "Show sheets, merged regions and translation candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			out, err := xltrans.Describe(args[0], pipelineOptions(cfg, newLogger(f.verbose))...)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	addRunFlags(cmd, &f)
	return cmd
}

func newValidateCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "validate <input.xlsx>",
		Short: "Check a workbook and options without translating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			issues, err := xltrans.Validate(args[0], pipelineOptions(cfg, newLogger(f.verbose))...)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Printf("%s no issues found\n", green("[OK]"))
				return nil
			}
			errCount := 0
			for _, issue := range issues {
				if issue.Severity == xltrans.SeverityError {
					errCount++
					fmt.Println(red(issue.String()))
				} else {
					fmt.Println(yellow(issue.String()))
				}
			}
			if errCount > 0 {
				return fmt.Errorf("%d error(s) found", errCount)
			}
			return nil
		},
	}
	addRunFlags(cmd, &f)
	return cmd
}
