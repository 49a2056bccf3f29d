package translator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoEntry is returned by a Glossary without fallback for unknown text.
var ErrNoEntry = errors.New("no glossary entry")

// Backend is the interface every translator in this package implements.
type Backend interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// GlossaryFile is the YAML layout of a glossary:
//
//	source_lang: zh-cn
//	target_lang: en
//	entries:
//	  测试: Test
//	  合计: Total
type GlossaryFile struct {
	SourceLang string            `yaml:"source_lang,omitempty"`
	TargetLang string            `yaml:"target_lang,omitempty"`
	Entries    map[string]string `yaml:"entries"`
}

// Glossary translates by exact match on trimmed text, delegating unknown
// text to an optional fallback backend.
type Glossary struct {
	sourceLang string
	targetLang string
	entries    map[string]string
	fallback   Backend
}

// NewGlossary creates a glossary from entries. fallback may be nil.
func NewGlossary(entries map[string]string, fallback Backend) *Glossary {
	g := &Glossary{
		entries:  make(map[string]string, len(entries)),
		fallback: fallback,
	}
	for k, v := range entries {
		g.entries[strings.TrimSpace(k)] = v
	}
	return g
}

// LoadGlossary reads a GlossaryFile from path.
func LoadGlossary(path string, fallback Backend) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var gf GlossaryFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	g := NewGlossary(gf.Entries, fallback)
	g.sourceLang = gf.SourceLang
	g.targetLang = gf.TargetLang
	return g, nil
}

// Len returns the number of entries.
func (g *Glossary) Len() int {
	return len(g.entries)
}

// Translate looks text up. Entries are only used when the requested locale
// pair matches the pair declared by the glossary, if any.
func (g *Glossary) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if g.matches(sourceLang, targetLang) {
		if v, ok := g.entries[strings.TrimSpace(text)]; ok {
			return v, nil
		}
	}
	if g.fallback != nil {
		return g.fallback.Translate(ctx, text, sourceLang, targetLang)
	}
	return "", fmt.Errorf("%w: %q", ErrNoEntry, text)
}

func (g *Glossary) matches(sourceLang, targetLang string) bool {
	if g.sourceLang != "" && !sameLang(g.sourceLang, sourceLang) {
		return false
	}
	if g.targetLang != "" && !sameLang(g.targetLang, targetLang) {
		return false
	}
	return true
}

func sameLang(a, b string) bool {
	na, errA := NormalizeLang(a)
	nb, errB := NormalizeLang(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return na == nb
}
