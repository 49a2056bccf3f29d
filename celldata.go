package xltrans

import (
	"strings"
	"unicode/utf8"
)

// CellKind represents the type of data in a cell.
type CellKind int

const (
	KindBlank CellKind = iota
	KindText
	KindNumber
	KindBool
	KindFormula
	KindOther
)

// String returns a human-readable name for the CellKind.
func (k CellKind) String() string {
	switch k {
	case KindBlank:
		return "Blank"
	case KindText:
		return "Text"
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	case KindFormula:
		return "Formula"
	case KindOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// CellValue is the value stored at one coordinate. Text holds the string
// content for KindText, the formula for KindFormula and the raw stored value
// for every other kind.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Blank is the value of an empty cell.
var Blank = CellValue{Kind: KindBlank}

// TextValue creates a KindText value.
func TextValue(s string) CellValue {
	return CellValue{Kind: KindText, Text: s}
}

// IsText reports whether the value is a translation-eligible string.
func (v CellValue) IsText() bool {
	return v.Kind == KindText
}

// ContainsCJK reports whether s has at least one rune in the CJK Unified
// Ideographs block (U+4E00 to U+9FFF).
func ContainsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// Qualifies reports whether the value is text containing CJK ideographs.
func (v CellValue) Qualifies() bool {
	return v.Kind == KindText && ContainsCJK(v.Text)
}

// LongestLine returns the length in runes of the longest "\n"-separated line.
func LongestLine(s string) int {
	longest := 0
	for _, line := range strings.Split(s, "\n") {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	return longest
}
