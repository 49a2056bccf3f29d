// Package translator provides translation backends for xltrans.
package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bregydoc/gtranslate"
	"golang.org/x/text/language"
)

// Google translates through the public Google Translate web endpoint.
type Google struct {
	// Tries is how many attempts gtranslate makes per text (default 1).
	Tries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// NewGoogle creates a Google backend with a single attempt per call.
func NewGoogle() *Google {
	return &Google{Tries: 1}
}

// Translate sends text to Google. The underlying client does not take a
// context, so a cancelled ctx abandons the in-flight request.
func (g *Google) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	from, err := NormalizeLang(sourceLang)
	if err != nil {
		return "", err
	}
	to, err := NormalizeLang(targetLang)
	if err != nil {
		return "", err
	}

	tries := g.Tries
	if tries < 1 {
		tries = 1
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		s, err := gtranslate.TranslateWithParams(text, gtranslate.TranslationParams{
			From:  from,
			To:    to,
			Tries: tries,
			Delay: g.RetryDelay,
		})
		done <- result{text: s, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("google translate: %w", r.err)
		}
		return r.text, nil
	}
}

// NormalizeLang converts a locale such as "zh-cn" or "zh_CN" into the
// canonical BCP 47 form ("zh-CN"). "auto" is passed through.
func NormalizeLang(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if strings.EqualFold(lang, "auto") {
		return "auto", nil
	}
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("unsupported locale %q: %w", lang, err)
	}
	return tag.String(), nil
}
