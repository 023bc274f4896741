package codegen

// This file implements the macro library (spec.md C3): reusable Brainfuck
// fragments with a fixed contract — on entry the pointer is wherever the
// caller left it, on exit the pointer is back wherever the macro entered
// it is not guaranteed, but every scratch cell the macro touched is zero
// again. Statement lowering (lower.go) is the only caller that cares
// about the tape-home (cell 0) invariant, and it enforces that itself
// after every statement.

// emitLinearIncrement emits |k| copies of '+' (k>0) or '-' (k<0) at c.
func (e *Emitter) emitLinearIncrement(c, k int) {
	if k == 0 {
		return
	}
	e.moveTo(c)
	if k > 0 {
		for i := 0; i < k; i++ {
			e.write('+')
		}
		return
	}
	for i := 0; i < -k; i++ {
		e.write('-')
	}
}

// scaledIncrementPlan is the result of the cost search in scaledIncrement.
type scaledIncrementPlan struct {
	loopCount int
	step      int
	remainder int
	scratch   int
	cost      int
}

// scaledIncrement adds (or, if subtract, removes) m from c. For small m a
// linear run of '+'/'-' is cheapest. For larger m it searches loop counts
// L in [2, min(16, m)] for the (L, step, remainder) split minimizing
// L + step + remainder + 4*distance(c, scratch) + 5, and emits a
// multiply-add loop when that beats the naive m-instruction run.
func (e *Emitter) scaledIncrement(c, m int, subtract bool, exclude ...int) {
	sign := 1
	if subtract {
		sign = -1
	}
	if m <= 0 {
		return
	}

	var best scaledIncrementPlan
	found := false
	if m >= 10 {
		scratch := e.layout.pickNearbyScratch(append(exclude, c)...)
		maxL := m
		if maxL > 16 {
			maxL = 16
		}
		for l := 2; l <= maxL; l++ {
			step := m / l
			remainder := m - l*step
			cost := l + step + remainder + 4*abs(c-scratch) + 5
			if !found || cost < best.cost {
				best = scaledIncrementPlan{loopCount: l, step: step, remainder: remainder, scratch: scratch, cost: cost}
				found = true
			}
		}
	}

	if found && best.cost < m {
		e.emitScaledLoop(c, sign, best)
		return
	}
	e.emitLinearIncrement(c, sign*m)
}

func (e *Emitter) emitScaledLoop(c, sign int, plan scaledIncrementPlan) {
	e.zeroCell(plan.scratch)
	e.moveTo(plan.scratch)
	for i := 0; i < plan.loopCount; i++ {
		e.write('+')
	}
	e.moveTo(plan.scratch)
	e.write('[')
	e.write('-')
	e.emitLinearIncrement(c, sign*plan.step)
	e.moveTo(plan.scratch)
	e.write(']')
	e.emitLinearIncrement(c, sign*plan.remainder)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// copyCell sets dst = src, leaving src unchanged, via a scratch temp.
// exclude additionally protects cells that are live across this call but
// otherwise invisible to copyCell (e.g. a loop-driver cell some outer
// macro is mid-iteration over).
func (e *Emitter) copyCell(src, dst int, exclude ...int) {
	temp := e.layout.pickNearbyScratch(append(append(exclude, src), dst)...)
	e.zeroCell(temp)
	e.zeroCell(dst)
	e.moveTo(src)
	e.write('[')
	e.write('-')
	e.moveTo(dst)
	e.write('+')
	e.moveTo(temp)
	e.write('+')
	e.moveTo(src)
	e.write(']')
	// restore src from temp
	e.moveTo(temp)
	e.write('[')
	e.write('-')
	e.moveTo(src)
	e.write('+')
	e.moveTo(temp)
	e.write(']')
}

// transferAdd sets dst += src, leaving src unchanged.
func (e *Emitter) transferAdd(src, dst int, exclude ...int) {
	temp := e.layout.pickNearbyScratch(append(append(exclude, src), dst)...)
	e.zeroCell(temp)
	e.moveTo(src)
	e.write('[')
	e.write('-')
	e.moveTo(dst)
	e.write('+')
	e.moveTo(temp)
	e.write('+')
	e.moveTo(src)
	e.write(']')
	e.moveTo(temp)
	e.write('[')
	e.write('-')
	e.moveTo(src)
	e.write('+')
	e.moveTo(temp)
	e.write(']')
}

// transferSubtract sets dst -= src (wrapping 8-bit), leaving src unchanged.
func (e *Emitter) transferSubtract(src, dst int, exclude ...int) {
	temp := e.layout.pickNearbyScratch(append(append(exclude, src), dst)...)
	e.zeroCell(temp)
	e.moveTo(src)
	e.write('[')
	e.write('-')
	e.moveTo(dst)
	e.write('-')
	e.moveTo(temp)
	e.write('+')
	e.moveTo(src)
	e.write(']')
	e.moveTo(temp)
	e.write('[')
	e.write('-')
	e.moveTo(src)
	e.write('+')
	e.moveTo(temp)
	e.write(']')
}

// multiplyByLiteral sets c *= k (k a compile-time constant). exclude
// protects cells live in an enclosing macro (see copyCell).
func (e *Emitter) multiplyByLiteral(c, k int, exclude ...int) {
	switch {
	case k == 0:
		e.zeroCell(c)
		return
	case k == 1:
		return
	}
	scratch := e.layout.pickNearbyScratch(append(exclude, c)...)
	e.copyCell(c, scratch, exclude...)
	e.zeroCell(c)
	e.moveTo(scratch)
	e.write('[')
	e.write('-')
	e.scaledIncrement(c, k, false, append(exclude, scratch)...)
	e.moveTo(scratch)
	e.write(']')
}

// multiplyByCell sets c *= operand, leaving operand unchanged. exclude
// protects cells live in an enclosing macro (see copyCell).
func (e *Emitter) multiplyByCell(c, operand int, exclude ...int) {
	cCopy := e.layout.pickNearbyScratch(append(exclude, c, operand)...)
	opCopy := e.layout.pickNearbyScratch(append(append(exclude, c, operand), cCopy)...)
	e.copyCell(c, cCopy, append(exclude, operand)...)
	e.copyCell(operand, opCopy, append(exclude, cCopy)...)
	e.zeroCell(c)
	e.moveTo(opCopy)
	e.write('[')
	e.write('-')
	e.transferAdd(cCopy, c, append(exclude, opCopy)...)
	e.moveTo(opCopy)
	e.write(']')
	e.zeroCell(cCopy)
}

// isZero sets flag = 1 if c == 0, else 0, leaving c unchanged. exclude
// protects cells live in an enclosing macro (see copyCell).
func (e *Emitter) isZero(c, flag int, exclude ...int) {
	temp := e.layout.pickNearbyScratch(append(append(exclude, c), flag)...)
	e.copyCell(c, temp, exclude...)
	e.zeroCell(flag)
	e.moveTo(flag)
	e.write('+')
	e.moveTo(temp)
	e.write('[')
	e.write('-')
	e.zeroCell(flag)
	e.moveTo(temp)
	e.write(']')
}

// subtractDivisorOnce attempts remainder -= divisor, leaving divisor
// unchanged. successFlag is set to 1 iff divisor <= remainder before the
// subtraction; on failure remainder is left untouched (this
// implementation works entirely on disposable copies of remainder and
// divisor, so there is nothing to restore — it never writes to the real
// remainder cell until it knows the subtraction succeeds). exclude
// protects cells a caller has live across this call (e.g. runDivisionLoop's
// running quotient) that aren't otherwise visible here.
func (e *Emitter) subtractDivisorOnce(remainder, divisor, successFlag int, exclude ...int) {
	protect := append(append([]int{}, exclude...), remainder, divisor, successFlag)

	divisorCopy := e.layout.pickNearbyScratch(protect...)
	remCopy := e.layout.pickNearbyScratch(append(protect, divisorCopy)...)
	failFlag := e.layout.pickNearbyScratch(append(protect, divisorCopy, remCopy)...)
	rzero := e.layout.pickNearbyScratch(append(protect, divisorCopy, remCopy, failFlag)...)

	e.copyCell(divisor, divisorCopy, protect...)
	e.copyCell(remainder, remCopy, append(protect, divisorCopy)...)
	e.zeroCell(failFlag)
	e.zeroCell(successFlag)
	e.moveTo(successFlag)
	e.write('+')

	e.moveTo(divisorCopy)
	e.write('[')
	e.write('-')
	e.isZero(remCopy, rzero, append(protect, divisorCopy, failFlag)...)
	e.runOnceIfNonZero(rzero, func() {
		e.zeroCell(failFlag)
		e.moveTo(failFlag)
		e.write('+')
	})
	remCopyCheck := e.layout.pickNearbyScratch(append(protect, divisorCopy, remCopy, failFlag, rzero)...)
	e.copyCell(remCopy, remCopyCheck, append(protect, divisorCopy, failFlag)...)
	e.runOnceIfNonZero(remCopyCheck, func() {
		e.moveTo(remCopy)
		e.write('-')
	})
	e.moveTo(divisorCopy)
	e.write(']')

	failFlagCopy := e.layout.pickNearbyScratch(append(protect, remCopy)...)
	e.copyCell(failFlag, failFlagCopy, append(protect, remCopy)...)
	e.runOnceIfNonZero(failFlagCopy, func() {
		e.zeroCell(successFlag)
	})
	successFlagCopy := e.layout.pickNearbyScratch(append(protect, remCopy)...)
	e.copyCell(successFlag, successFlagCopy, append(protect, remCopy)...)
	e.runOnceIfNonZero(successFlagCopy, func() {
		e.copyCell(remCopy, remainder, protect...)
	})

	e.zeroCell(failFlag)
	e.zeroCell(remCopy)
}

// divideCells sets target = floor(target / divisor), leaving divisor
// unchanged. A zero divisor leaves target at 0 (the runtime zero-divisor
// guard spec.md documents). exclude protects cells live in an enclosing
// macro (see copyCell).
func (e *Emitter) divideCells(target, divisor int, exclude ...int) {
	divisorZero := e.layout.pickNearbyScratch(append(exclude, target, divisor)...)
	e.isZero(divisor, divisorZero, append(exclude, target)...)
	e.runOnceIfNonZero(divisorZero, func() {
		e.zeroCell(target)
	})

	divisorNonZero := e.layout.pickNearbyScratch(append(exclude, target, divisor)...)
	e.copyCell(divisor, divisorNonZero, append(exclude, target)...)
	e.runOnceIfNonZero(divisorNonZero, func() {
		e.runDivisionLoop(target, divisor, exclude...)
	})
}

func (e *Emitter) runDivisionLoop(target, divisor int, exclude ...int) {
	quotient := e.layout.pickNearbyScratch(append(exclude, target, divisor)...)
	e.zeroCell(quotient)
	remainder := e.layout.pickNearbyScratch(append(exclude, target, divisor, quotient)...)
	e.copyCell(target, remainder, append(exclude, divisor)...)
	loopFlag := e.layout.pickNearbyScratch(append(exclude, target, divisor, quotient, remainder)...)
	e.zeroCell(loopFlag)
	e.moveTo(loopFlag)
	e.write('+')

	successFlag := e.layout.allocScratch()

	e.moveTo(loopFlag)
	e.write('[')
	e.subtractDivisorOnce(remainder, divisor, successFlag, append(exclude, quotient, loopFlag)...)

	successCopy := e.layout.allocScratch()
	e.copyCell(successFlag, successCopy, append(exclude, quotient, remainder, loopFlag, divisor)...)
	e.runOnceIfNonZero(successFlag, func() {
		e.emitLinearIncrement(quotient, 1)
	})
	notSuccess := e.layout.allocScratch()
	e.isZero(successCopy, notSuccess, append(exclude, quotient, remainder, loopFlag, divisor)...)
	e.runOnceIfNonZero(notSuccess, func() {
		e.zeroCell(loopFlag)
	})
	e.zeroCell(successCopy)

	e.moveTo(loopFlag)
	e.write(']')

	e.copyCell(quotient, target, append(exclude, divisor)...)
	e.zeroCell(quotient)
	e.zeroCell(remainder)
}

// divideByLiteral sets c = floor(c / k). k == 0 materializes a zero
// divisor cell, exercising the same runtime guard as divideCells.
// exclude protects cells live in an enclosing macro (see copyCell).
func (e *Emitter) divideByLiteral(c, k int, exclude ...int) {
	divisorCell := e.layout.pickNearbyScratch(append(exclude, c)...)
	e.zeroCell(divisorCell)
	if k > 0 {
		e.emitLinearIncrement(divisorCell, k)
	}
	e.divideCells(c, divisorCell, exclude...)
	e.zeroCell(divisorCell)
}

// printDigitDestructive turns the value held in cell into an ASCII digit
// and prints it, consuming cell (it ends at zero).
func (e *Emitter) printDigitDestructive(cell int) {
	e.emitLinearIncrement(cell, 48)
	e.moveTo(cell)
	e.write('.')
	e.zeroCell(cell)
}

// printDec prints c in decimal with leading-zero suppression: the
// hundreds digit only appears if nonzero, the tens digit appears if
// either the hundreds digit printed or it is itself nonzero, and the
// ones digit always prints.
func (e *Emitter) printDec(c int) {
	hundreds := e.layout.pickNearbyScratch(c)
	e.copyCell(c, hundreds)
	e.divideByLiteral(hundreds, 100, c)

	rem1 := e.layout.pickNearbyScratch(c, hundreds)
	e.copyCell(c, rem1, hundreds)
	hundredsX100 := e.layout.pickNearbyScratch(c, hundreds, rem1)
	e.copyCell(hundreds, hundredsX100, c, rem1)
	e.multiplyByLiteral(hundredsX100, 100, c, hundreds, rem1)
	e.transferSubtract(hundredsX100, rem1, c, hundreds)
	e.zeroCell(hundredsX100)

	tens := e.layout.pickNearbyScratch(c, hundreds, rem1)
	e.copyCell(rem1, tens, c, hundreds)
	e.divideByLiteral(tens, 10, c, hundreds, rem1)
	tensX10 := e.layout.pickNearbyScratch(c, hundreds, rem1, tens)
	e.copyCell(tens, tensX10, c, hundreds, rem1)
	e.multiplyByLiteral(tensX10, 10, c, hundreds, rem1, tens)
	ones := e.layout.pickNearbyScratch(c, hundreds, rem1, tens)
	e.copyCell(rem1, ones, c, hundreds, tens)
	e.transferSubtract(tensX10, ones, c, hundreds, tens)
	e.zeroCell(tensX10)
	e.zeroCell(rem1)

	printedFlag := e.layout.allocScratch()
	e.zeroCell(printedFlag)

	hundredsGate := e.layout.allocScratch()
	e.copyCell(hundreds, hundredsGate, tens, ones, printedFlag)
	e.runOnceIfNonZero(hundredsGate, func() {
		e.printDigitDestructive(hundreds)
		e.moveTo(printedFlag)
		e.write('+')
	})
	e.zeroCell(hundreds)

	printedCopy := e.layout.allocScratch()
	e.copyCell(printedFlag, printedCopy, tens, ones)
	orFlag := e.layout.allocScratch()
	e.zeroCell(orFlag)
	e.runOnceIfNonZero(printedCopy, func() {
		e.moveTo(orFlag)
		e.write('+')
	})
	tensGate := e.layout.allocScratch()
	e.copyCell(tens, tensGate, ones, orFlag)
	e.runOnceIfNonZero(tensGate, func() {
		e.zeroCell(orFlag)
		e.moveTo(orFlag)
		e.write('+')
	})
	e.runOnceIfNonZero(orFlag, func() {
		e.printDigitDestructive(tens)
	})
	e.zeroCell(tens)

	e.printDigitDestructive(ones)
	e.zeroCell(printedFlag)
}
