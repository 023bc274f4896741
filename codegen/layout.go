package codegen

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tinybflang/tinybf/ast"
	"github.com/tinybflang/tinybf/tinybferr"
)

// Reserved scratch cells, fixed for the lifetime of a generated program.
// Cell 0 is the home position and is never assigned to a user variable.
const (
	tempA = 1
	tempB = 2
	// firstFreeCell is the first cell vended to a user variable or a
	// macro-local scratch allocation.
	firstFreeCell = 3
)

// layout owns the mapping variable-name -> cell-index and vends fresh
// scratch cells. Cell indices assigned to variables are permanent for the
// life of the program; scratch cells are never reused, which is safe
// and simple given the 30000-cell tape.
type layout struct {
	cellMap  map[string]int
	varTypes map[string]ast.VarType
	nextCell int
	log      zerolog.Logger
}

func newLayout(log zerolog.Logger) *layout {
	return &layout{
		cellMap:  make(map[string]int),
		varTypes: make(map[string]ast.VarType),
		nextCell: firstFreeCell,
		log:      log,
	}
}

// allocScratch vends a fresh cell never assigned to a user variable and
// never handed out again.
func (l *layout) allocScratch() int {
	c := l.nextCell
	l.nextCell++
	l.log.Debug().Int("cell", c).Msg("scratch cell allocated")
	return c
}

// ensureCell idempotently allocates (or looks up) the cell backing name.
// The first allocation zero-clears the cell via e. A later call with a
// conflicting VarType is a SemanticError.
func (l *layout) ensureCell(e *Emitter, name string, t ast.VarType, line int) (int, error) {
	if cell, ok := l.cellMap[name]; ok {
		if l.varTypes[name] != t {
			return 0, &tinybferr.SemanticError{
				Msg:  fmt.Sprintf("variable %q redeclared as %s, was %s", name, t, l.varTypes[name]),
				Line: line,
			}
		}
		return cell, nil
	}
	cell := l.allocScratch()
	l.cellMap[name] = cell
	l.varTypes[name] = t
	e.zeroCell(cell)
	return cell, nil
}

// getVar looks up a previously-declared variable's cell and type.
func (l *layout) getVar(name string, line int) (int, ast.VarType, error) {
	cell, ok := l.cellMap[name]
	if !ok {
		return 0, 0, &tinybferr.SemanticError{Msg: fmt.Sprintf("undeclared variable %q", name), Line: line}
	}
	return cell, l.varTypes[name], nil
}

// pickNearbyScratch returns one of the two reserved scratch cells not in
// exclude, keeping macro-internal pointer travel small; falls back to a
// fresh allocation when both reserved cells are excluded.
func (l *layout) pickNearbyScratch(exclude ...int) int {
	for _, c := range [2]int{tempA, tempB} {
		if !containsInt(exclude, c) {
			return c
		}
	}
	return l.allocScratch()
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
