package brainfuck

import (
	"log"
)

// Run is one instruction of a compacted program. Delta is the unbounded sum
// of the merged moves or cell changes; it only wraps when applied to a cell.
type Run struct {
	Kind  Kind
	Delta int
	Body  []Run
}

// Compacted is a program after run-length compaction.
type Compacted []Run

// Compact merges every maximal run of adjacent MovePointer or AddCell
// instructions into one counted instruction. Runs that sum to zero vanish and
// the instructions on either side of them are merged in turn.
func Compact(p Program) Compacted {
	out := compactNodes(p)
	if DEBUG {
		log.Printf("Compacted %d instructions into %d", len(p), len(out))
	}
	return out
}

func compactNodes(nodes []Node) Compacted {
	out := make(Compacted, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n.Kind.movable():
			out = pushRun(out, Run{Kind: n.Kind, Delta: n.Delta})
		case n.Kind == Loop:
			out = append(out, Run{Kind: Loop, Body: compactNodes(n.Body)})
		default:
			out = append(out, Run{Kind: n.Kind})
		}
	}
	return out
}

// Compact runs compaction again over an already compacted program. The
// result is structurally equal to c.
func (c Compacted) Compact() Compacted {
	out := make(Compacted, 0, len(c))
	for _, r := range c {
		switch {
		case r.Kind.movable():
			out = pushRun(out, Run{Kind: r.Kind, Delta: r.Delta})
		case r.Kind == Loop:
			out = append(out, Run{Kind: Loop, Body: Compacted(r.Body).Compact()})
		default:
			out = append(out, Run{Kind: r.Kind})
		}
	}
	return out
}

func pushRun(out Compacted, r Run) Compacted {
	if r.Delta == 0 {
		return out
	}
	if last := len(out) - 1; last >= 0 && out[last].Kind == r.Kind {
		out[last].Delta += r.Delta
		if out[last].Delta == 0 {
			return out[:last]
		}
		return out
	}
	return append(out, r)
}

// Lower returns the compacted program in executable form without applying
// any idiom rewrites.
func (c Compacted) Lower() Optimized {
	out := make(Optimized, len(c))
	for i, r := range c {
		out[i] = Instr{Kind: r.Kind, Delta: r.Delta}
		if r.Kind == Loop {
			out[i].Body = Compacted(r.Body).Lower()
		}
	}
	return out
}
