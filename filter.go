package xltrans

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CellEnv is the environment a cell filter expression is evaluated against.
//
//	sheet == "Summary" && row > 1
//	col != 3 && !(text startsWith "注")
type CellEnv struct {
	Sheet string `expr:"sheet"`
	Row   int    `expr:"row"`
	Col   int    `expr:"col"`
	Cell  string `expr:"cell"` // e.g. "B7"
	Text  string `expr:"text"` // trimmed cell text
}

// CellFilter decides whether a qualifying cell is translated.
type CellFilter struct {
	source  string
	program *vm.Program
}

// CompileCellFilter compiles a boolean expression over CellEnv.
// An empty expression yields a nil filter that accepts every cell.
func CompileCellFilter(expression string) (*CellFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.Env(CellEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile cell filter %q: %w", expression, err)
	}
	return &CellFilter{source: expression, program: program}, nil
}

// Accept evaluates the filter for the cell at ref holding text.
func (f *CellFilter) Accept(ref CellRef, text string) (bool, error) {
	if f == nil {
		return true, nil
	}
	env := CellEnv{
		Sheet: ref.Sheet,
		Row:   ref.Row,
		Col:   ref.Col,
		Cell:  ref.CellName(),
		Text:  strings.TrimSpace(text),
	}
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate cell filter %q at %s: %w", f.source, ref, err)
	}
	ok, _ := result.(bool)
	return ok, nil
}

// String returns the filter's source expression.
func (f *CellFilter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}
