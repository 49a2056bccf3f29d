package xltrans

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Default locales, matching the codes accepted by the Google backend.
const (
	DefaultSourceLang = "zh-cn"
	DefaultTargetLang = "en"
)

// Options holds configuration for a Pipeline.
type Options struct {
	sourceLang     string
	targetLang     string
	delay          time.Duration
	callTimeout    time.Duration
	sheets         []string
	maxColumnWidth float64
	cellFilter     string
	listeners      []Listener
	logger         zerolog.Logger
	sleep          func(ctx context.Context, d time.Duration) error
}

func defaultOptions() *Options {
	return &Options{
		sourceLang:     DefaultSourceLang,
		targetLang:     DefaultTargetLang,
		delay:          DefaultDelay,
		maxColumnWidth: DefaultMaxColumnWidth,
		logger:         zerolog.Nop(),
	}
}

// Option configures a Pipeline.
type Option func(*Options)

// WithSourceLang sets the locale of the text being translated (default: "zh-cn").
func WithSourceLang(lang string) Option {
	return func(o *Options) { o.sourceLang = lang }
}

// WithTargetLang sets the locale translations are produced in (default: "en").
func WithTargetLang(lang string) Option {
	return func(o *Options) { o.targetLang = lang }
}

// WithDelay sets the pause after every translator call (default: 100ms).
func WithDelay(d time.Duration) Option {
	return func(o *Options) { o.delay = d }
}

// WithCallTimeout bounds each translator call (default: unbounded).
func WithCallTimeout(d time.Duration) Option {
	return func(o *Options) { o.callTimeout = d }
}

// WithSheets restricts the run to the named sheets, processed in the given
// order. Names missing from the workbook are logged and skipped.
func WithSheets(names ...string) Option {
	return func(o *Options) {
		o.sheets = make([]string, len(names))
		copy(o.sheets, names)
	}
}

// WithMaxColumnWidth sets the ceiling for recomputed column widths (default: 50).
func WithMaxColumnWidth(w float64) Option {
	return func(o *Options) { o.maxColumnWidth = w }
}

// WithCellFilter sets an expression deciding which qualifying cells are
// translated. See CellEnv for the available variables.
func WithCellFilter(expression string) Option {
	return func(o *Options) { o.cellFilter = expression }
}

// WithListener adds a listener notified for every translated or failed cell.
func WithListener(l Listener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}

// WithLogger sets the logger (default: disabled).
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Options) { o.sleep = fn }
}

func (o *Options) cacheOptions() []CacheOption {
	opts := []CacheOption{
		WithCacheDelay(o.delay),
		WithCacheCallTimeout(o.callTimeout),
	}
	if o.sleep != nil {
		opts = append(opts, WithSleep(o.sleep))
	}
	return opts
}
