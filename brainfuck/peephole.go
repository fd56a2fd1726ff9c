package brainfuck

import (
	"log"
	"sort"
)

// Term is one effect of a MultiplyAdd: cell[ptr+Offset] += Factor * cell[ptr].
type Term struct {
	Offset int
	Factor byte
}

// Instr is one instruction of an optimized program.
//
//	MovePointer  Delta is the signed distance
//	AddCell      Delta is the unbounded amount, applied modulo 256
//	SetCell      Delta is the value, applied modulo 256
//	ScanLeft     Delta is the (negative) stride
//	ScanRight    Delta is the (positive) stride
//	MultiplyAdd  Terms lists the targets; the current cell ends at zero.
//	             Fallback keeps the loop body it was matched from
//	Loop         Body runs while the current cell is non zero
type Instr struct {
	Kind     Kind
	Delta    int
	Terms    []Term
	Body     []Instr
	Fallback []Instr
}

// WrapsOntoCounter reports whether a MultiplyAdd term lands on the current
// cell of a fixed tape of the given cell count. The loop then feeds its own
// counter and has to run as written. Zero means a tape without wraparound.
func (in *Instr) WrapsOntoCounter(cells int) bool {
	if in.Kind != MultiplyAdd || cells <= 0 {
		return false
	}
	for _, t := range in.Terms {
		if t.Offset%cells == 0 {
			return true
		}
	}
	return false
}

// Optimized is a program in the form both backends execute.
type Optimized []Instr

// Optimize rewrites recognised loop idioms of a compacted program into
// composite instructions. Loop bodies are optimized before the loop that
// contains them is matched.
func Optimize(c Compacted) Optimized {
	out := optimizeRuns(c)
	if DEBUG {
		log.Printf("Optimized %d compacted instructions into %d", len(c), len(out))
	}
	return out
}

func optimizeRuns(runs []Run) Optimized {
	out := make(Optimized, 0, len(runs))
	for _, r := range runs {
		if r.Kind == Loop {
			out = pushInstr(out, rewriteLoop(optimizeRuns(r.Body)))
			continue
		}
		out = pushInstr(out, Instr{Kind: r.Kind, Delta: r.Delta})
	}
	return out
}

// rewriteLoop tries the idioms from the most specific to the most general
// and falls back to keeping the loop.
func rewriteLoop(body Optimized) Instr {
	if matchZero(body) {
		return Instr{Kind: SetCell, Delta: 0}
	}
	if stride, ok := matchScan(body); ok {
		if stride < 0 {
			return Instr{Kind: ScanLeft, Delta: stride}
		}
		return Instr{Kind: ScanRight, Delta: stride}
	}
	if terms, ok := matchMultiplyAdd(body); ok {
		return Instr{Kind: MultiplyAdd, Terms: terms, Fallback: body}
	}
	return Instr{Kind: Loop, Body: body}
}

// matchZero accepts [-], [+] and any single odd step: an odd step is
// invertible modulo 256 so the cell always reaches zero.
func matchZero(body Optimized) bool {
	return len(body) == 1 && body[0].Kind == AddCell && wrap(body[0].Delta)&1 == 1
}

func matchScan(body Optimized) (int, bool) {
	if len(body) != 1 || body[0].Kind != MovePointer || body[0].Delta == 0 {
		return 0, false
	}
	return body[0].Delta, true
}

// matchMultiplyAdd accepts a body made only of moves and cell changes that
// returns to its starting cell and lowers that cell by exactly one.
func matchMultiplyAdd(body Optimized) ([]Term, bool) {
	offset := 0
	deltas := make(map[int]int)
	for _, in := range body {
		switch in.Kind {
		case MovePointer:
			offset += in.Delta
		case AddCell:
			deltas[offset] += in.Delta
		default:
			return nil, false
		}
	}
	if offset != 0 || wrap(deltas[0]) != 0xff {
		return nil, false
	}

	terms := make([]Term, 0, len(deltas))
	for off, d := range deltas {
		if off == 0 || wrap(d) == 0 {
			continue
		}
		terms = append(terms, Term{Offset: off, Factor: wrap(d)})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Offset < terms[j].Offset })
	return terms, true
}

// pushInstr appends in to out, folding it into the previous instruction when
// the pair has a shorter equivalent.
func pushInstr(out Optimized, in Instr) Optimized {
	last := len(out) - 1
	if last < 0 {
		return append(out, in)
	}
	prev := &out[last]
	switch in.Kind {
	case MovePointer:
		if prev.Kind == MovePointer {
			prev.Delta += in.Delta
			if prev.Delta == 0 {
				return out[:last]
			}
			return out
		}
	case AddCell:
		switch prev.Kind {
		case SetCell:
			prev.Delta = int(wrap(prev.Delta + in.Delta))
			return out
		case AddCell:
			prev.Delta += in.Delta
			if prev.Delta == 0 {
				return out[:last]
			}
			return out
		}
	case SetCell:
		if prev.Kind == AddCell || prev.Kind == SetCell {
			*prev = in
			return out
		}
	case Loop, ScanLeft, ScanRight, MultiplyAdd:
		// The current cell is already zero, this can never run.
		if leavesZero(*prev) {
			return out
		}
	}
	return append(out, in)
}

func leavesZero(in Instr) bool {
	switch in.Kind {
	case Loop, ScanLeft, ScanRight, MultiplyAdd:
		return true
	case SetCell:
		return wrap(in.Delta) == 0
	}
	return false
}

func wrap(d int) byte {
	return byte(d)
}

// Count returns the number of instructions in the tree, loop bodies included.
func (o Optimized) Count() int {
	n := len(o)
	for _, in := range o {
		if in.Kind == Loop {
			n += Optimized(in.Body).Count()
		}
	}
	return n
}
