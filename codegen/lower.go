package codegen

import (
	"fmt"

	"github.com/tinybflang/tinybf/ast"
)

// Generate lowers a parsed statement list to a raw (unoptimized) Brainfuck
// instruction stream. Callers that want the peephole-optimized form should
// run the result through package optimize.
func Generate(stmts []ast.Statement, opts ...Option) (string, error) {
	e := newEmitter(opts...)
	if err := lowerStatements(e, stmts); err != nil {
		return "", err
	}
	return e.String(), nil
}

// lowerStatements lowers each statement in order, returning the pointer
// home to cell 0 after each one so every statement starts from a known
// position and the generated program never leaves the tape in a
// mid-macro state at a statement boundary.
func lowerStatements(e *Emitter, stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := lowerStatement(e, s); err != nil {
			return err
		}
		e.moveTo(0)
	}
	return nil
}

func lowerStatement(e *Emitter, s ast.Statement) error {
	switch s.Kind {
	case ast.Let:
		return lowerLet(e, s)
	case ast.Set:
		return lowerSet(e, s)
	case ast.Add:
		return lowerArith(e, s, false)
	case ast.Sub:
		return lowerArith(e, s, true)
	case ast.Mul:
		return lowerMul(e, s)
	case ast.Div:
		return lowerDiv(e, s)
	case ast.PrintChar, ast.PrintNum:
		return lowerRawIO(e, s, '.')
	case ast.PrintDec:
		return lowerPrintDec(e, s)
	case ast.InputChar, ast.InputNum:
		return lowerRawIO(e, s, ',')
	case ast.If:
		return lowerIf(e, s)
	case ast.For:
		return lowerFor(e, s)
	default:
		return fmt.Errorf("codegen: unhandled statement kind %s", s.Kind)
	}
}

// resolvedExpr is the outcome of resolving an ast.Expr against the current
// layout: either a compile-time literal byte, or the cell of a previously
// declared variable.
type resolvedExpr struct {
	isLiteral bool
	literal   byte
	cell      int
}

func resolveExpr(l *layout, expr ast.Expr) (resolvedExpr, error) {
	switch expr.Kind {
	case ast.NumberLiteral, ast.CharLiteral:
		return resolvedExpr{isLiteral: true, literal: expr.Value}, nil
	default:
		cell, _, err := l.getVar(expr.Name, expr.Line)
		if err != nil {
			return resolvedExpr{}, err
		}
		return resolvedExpr{cell: cell}, nil
	}
}

func lowerLet(e *Emitter, s ast.Statement) error {
	cell, err := e.layout.ensureCell(e, s.Name, s.DeclType, s.Line)
	if err != nil {
		return err
	}
	return assignFromExpr(e, cell, s.Expr)
}

func lowerSet(e *Emitter, s ast.Statement) error {
	cell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	e.zeroCell(cell)
	return assignFromExpr(e, cell, s.Expr)
}

// assignFromExpr sets the (already zeroed) cell to the value of expr.
func assignFromExpr(e *Emitter, cell int, expr ast.Expr) error {
	rhs, err := resolveExpr(e.layout, expr)
	if err != nil {
		return err
	}
	if rhs.isLiteral {
		e.scaledIncrement(cell, int(rhs.literal), false)
		return nil
	}
	e.copyCell(rhs.cell, cell)
	return nil
}

func lowerArith(e *Emitter, s ast.Statement, subtract bool) error {
	cell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	rhs, err := resolveExpr(e.layout, s.Expr)
	if err != nil {
		return err
	}
	if rhs.isLiteral {
		e.scaledIncrement(cell, int(rhs.literal), subtract)
		return nil
	}
	if subtract {
		e.transferSubtract(rhs.cell, cell)
	} else {
		e.transferAdd(rhs.cell, cell)
	}
	return nil
}

func lowerMul(e *Emitter, s ast.Statement) error {
	cell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	rhs, err := resolveExpr(e.layout, s.Expr)
	if err != nil {
		return err
	}
	if rhs.isLiteral {
		e.multiplyByLiteral(cell, int(rhs.literal))
		return nil
	}
	e.multiplyByCell(cell, rhs.cell)
	return nil
}

func lowerDiv(e *Emitter, s ast.Statement) error {
	cell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	rhs, err := resolveExpr(e.layout, s.Expr)
	if err != nil {
		return err
	}
	if rhs.isLiteral {
		// A literal zero divisor compiles clean: divideByLiteral
		// materializes a zero divisor cell and the runtime guard in
		// divideCells leaves the target at 0.
		e.divideByLiteral(cell, int(rhs.literal))
		return nil
	}
	e.divideCells(cell, rhs.cell)
	return nil
}

func lowerRawIO(e *Emitter, s ast.Statement, op byte) error {
	cell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	e.moveTo(cell)
	e.write(op)
	return nil
}

func lowerPrintDec(e *Emitter, s ast.Statement) error {
	cell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	e.printDec(cell)
	return nil
}

// lowerIf implements the two-cell conditional idiom: a disposable copy of
// the condition gates the then-branch and clears a "not taken" flag when
// it fires; the not-flag (initialized to 1) gates the else-branch.
func lowerIf(e *Emitter, s ast.Statement) error {
	condCell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}
	flag := e.layout.allocScratch()
	notFlag := e.layout.allocScratch()
	e.copyCell(condCell, flag)
	e.zeroCell(notFlag)
	e.moveTo(notFlag)
	e.write('+')

	var thenErr error
	e.runOnceIfNonZero(flag, func() {
		if err := lowerStatements(e, s.Then); err != nil {
			thenErr = err
			return
		}
		e.zeroCell(notFlag)
	})
	if thenErr != nil {
		return thenErr
	}

	var elseErr error
	e.runOnceIfNonZero(notFlag, func() {
		if err := lowerStatements(e, s.Else); err != nil {
			elseErr = err
		}
	})
	return elseErr
}

// lowerFor lowers a `for v from a to b { body }` loop to a fixed-count
// Brainfuck loop: the trip count (end - start) mod 256 is computed once
// into a disposable iteration cell, then the loop body runs exactly that
// many times, incrementing v once per iteration. v must already be
// declared via a preceding `let`; `for` only assigns it, never declares
// it.
func lowerFor(e *Emitter, s ast.Statement) error {
	varCell, _, err := e.layout.getVar(s.Name, s.Line)
	if err != nil {
		return err
	}

	start, err := resolveExpr(e.layout, s.Start)
	if err != nil {
		return err
	}
	end, err := resolveExpr(e.layout, s.End)
	if err != nil {
		return err
	}

	e.zeroCell(varCell)
	if start.isLiteral {
		e.emitLinearIncrement(varCell, int(start.literal))
	} else {
		e.copyCell(start.cell, varCell)
	}

	iterCell := e.layout.allocScratch()
	e.zeroCell(iterCell)
	if end.isLiteral {
		e.emitLinearIncrement(iterCell, int(end.literal))
	} else {
		e.copyCell(end.cell, iterCell)
	}
	if start.isLiteral {
		e.emitLinearIncrement(iterCell, -int(start.literal))
	} else {
		e.transferSubtract(start.cell, iterCell)
	}

	e.moveTo(iterCell)
	e.write('[')
	e.write('-')
	if err := lowerStatements(e, s.Body); err != nil {
		return err
	}
	e.emitLinearIncrement(varCell, 1)
	e.moveTo(iterCell)
	e.write(']')
	return nil
}
