// Package config loads .xltrans.yaml configuration files.
//
// The file supplies defaults for the xltrans command. Flags given on the
// command line take precedence over values read from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".xltrans.yaml"

// Engine names.
const (
	EngineGoogle   = "google"
	EngineGlossary = "glossary"
)

// File is the top-level .xltrans.yaml structure.
type File struct {
	// SourceLang is the locale of the original text (default "zh-cn").
	SourceLang string `yaml:"source_lang,omitempty"`
	// TargetLang is the locale translations are produced in (default "en").
	TargetLang string `yaml:"target_lang,omitempty"`
	// Delay is the pause after each translator call, e.g. "100ms" (default 100ms).
	Delay *time.Duration `yaml:"delay,omitempty"`
	// Timeout bounds each translator call, e.g. "30s" (default unbounded).
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Sheets restricts processing to these sheets, in order.
	Sheets []string `yaml:"sheets,omitempty"`
	// MaxWidth caps recomputed column widths (default 50).
	MaxWidth float64 `yaml:"max_width,omitempty"`
	// Filter is a cell filter expression, e.g. `row > 1`.
	Filter string `yaml:"filter,omitempty"`
	// Glossary is a YAML glossary path, relative to the config file.
	Glossary string `yaml:"glossary,omitempty"`
	// Engine is "google" (default) or "glossary" (glossary only, no network).
	Engine string `yaml:"engine,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

// Load loads FileName from dir. Returns Default() if no file exists.
func Load(dir string) (*File, error) {
	f, err := LoadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return f, err
}

// LoadFile loads and validates a config file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.applyDefaults()

	if f.Glossary != "" && !filepath.IsAbs(f.Glossary) {
		f.Glossary = filepath.Join(filepath.Dir(path), f.Glossary)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.SourceLang == "" {
		f.SourceLang = "zh-cn"
	}
	if f.TargetLang == "" {
		f.TargetLang = "en"
	}
	if f.Delay == nil {
		d := 100 * time.Millisecond
		f.Delay = &d
	}
	if f.MaxWidth == 0 {
		f.MaxWidth = 50
	}
	if f.Engine == "" {
		f.Engine = EngineGoogle
	}
}

// Validate checks field values.
func (f *File) Validate() error {
	switch f.Engine {
	case EngineGoogle:
	case EngineGlossary:
		if f.Glossary == "" {
			return fmt.Errorf("engine %q requires a glossary", f.Engine)
		}
	default:
		return fmt.Errorf("unknown engine %q (must be %s or %s)", f.Engine, EngineGoogle, EngineGlossary)
	}
	if f.Delay != nil && *f.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if f.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if f.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative")
	}
	return nil
}
