package xltrans

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultDelay is the pause after every translator call that misses the cache.
const DefaultDelay = 100 * time.Millisecond

// Translator is the external translation service.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text, sourceLang, targetLang string) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return f(ctx, text, sourceLang, targetLang)
}

// TranslationCache deduplicates translator calls within one run and composes
// bilingual text. It is owned by a single pipeline run and is not safe for
// concurrent use.
type TranslationCache struct {
	translator  Translator
	sourceLang  string
	targetLang  string
	delay       time.Duration
	callTimeout time.Duration
	sleep       func(ctx context.Context, d time.Duration) error

	entries  map[string]string
	hits     int
	misses   int
	failures int
}

// CacheOption configures a TranslationCache.
type CacheOption func(*TranslationCache)

// WithCacheDelay sets the pause after each cache miss (default: 100ms).
func WithCacheDelay(d time.Duration) CacheOption {
	return func(c *TranslationCache) { c.delay = d }
}

// WithCacheCallTimeout bounds each translator call. Zero means no bound.
func WithCacheCallTimeout(d time.Duration) CacheOption {
	return func(c *TranslationCache) { c.callTimeout = d }
}

// WithSleep replaces the function used to wait after a cache miss.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) CacheOption {
	return func(c *TranslationCache) { c.sleep = fn }
}

// NewTranslationCache creates an empty cache in front of t.
func NewTranslationCache(t Translator, sourceLang, targetLang string, opts ...CacheOption) *TranslationCache {
	c := &TranslationCache{
		translator: t,
		sourceLang: sourceLang,
		targetLang: targetLang,
		delay:      DefaultDelay,
		sleep:      sleepContext,
		entries:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate returns the bilingual form of raw: the translation on the first
// line and the trimmed original on the second. Failures are returned as
// *TranslationError and are not cached, so the same text is attempted again
// on its next occurrence. Cancellation of ctx is returned as ctx.Err().
func (c *TranslationCache) Translate(ctx context.Context, raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if bilingual, ok := c.entries[text]; ok {
		c.hits++
		return bilingual, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.misses++
	translated, err := c.call(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		c.failures++
		return "", &TranslationError{Text: text, Source: c.sourceLang, Target: c.targetLang, Err: err}
	}

	bilingual := Compose(translated, text)
	c.entries[text] = bilingual

	if c.delay > 0 {
		if err := c.sleep(ctx, c.delay); err != nil {
			return "", err
		}
	}
	return bilingual, nil
}

func (c *TranslationCache) call(ctx context.Context, text string) (string, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}
	translated, err := c.translator.Translate(ctx, text, c.sourceLang, c.targetLang)
	if err != nil {
		return "", err
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return "", ErrEmptyTranslation
	}
	return translated, nil
}

// Lookup returns the cached bilingual text for raw without calling the translator.
func (c *TranslationCache) Lookup(raw string) (string, bool) {
	bilingual, ok := c.entries[strings.TrimSpace(raw)]
	return bilingual, ok
}

// Len returns the number of unique translations held.
func (c *TranslationCache) Len() int { return len(c.entries) }

// Hits returns how many lookups were served without calling the translator.
func (c *TranslationCache) Hits() int { return c.hits }

// Misses returns how many times the translator was called.
func (c *TranslationCache) Misses() int { return c.misses }

// Failures returns how many translator calls failed.
func (c *TranslationCache) Failures() int { return c.failures }

// Compose builds the two-line bilingual annotation.
func Compose(translated, original string) string {
	return translated + "\n" + original
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTranslationError reports whether err is a recoverable per-cell failure.
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}
