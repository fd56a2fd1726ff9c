package bfgen

import (
	"math/rand"
	"strings"
)

// Idioms are loops every tape runs to completion on, whatever the cells hold,
// as long as some cell in scan direction is zero.
var Idioms = []string{
	"[-]",
	"[+]",
	"[---]",
	"[>]",
	"[<]",
	"[>>]",
	"[->+<]",
	"[-<+>]",
	"[->++>+++<<]",
	"[>+<-]",
}

// maxReach bounds how far a countdown loop body wanders from its counter.
const maxReach = 4

// Random returns a balanced program of roughly length commands that always
// halts. Loops are either taken from Idioms or count their first cell down by
// one per iteration without touching it otherwise.
func Random(rng *rand.Rand, length int) string {
	return random(rng, length, maxReach, Idioms)
}

// Narrow is Random for a fixed tape of only a few cells. Countdown bodies stay
// within reach cells of their counter, which must be less than the cell count
// for the counter to be left alone, and scan idioms are left out because a
// scan never stops once every cell is nonzero.
func Narrow(rng *rand.Rand, length, reach int) string {
	var idioms []string
	for _, idiom := range Idioms {
		if strings.ContainsAny(idiom, "+-") {
			idioms = append(idioms, idiom)
		}
	}
	return random(rng, length, reach, idioms)
}

func random(rng *rand.Rand, length, reach int, idioms []string) string {
	var sb strings.Builder
	for sb.Len() < length {
		switch rng.Intn(8) {
		case 0, 1, 2:
			straight(rng, &sb, 1+rng.Intn(6))
		case 3:
			sb.WriteByte('.')
		case 4:
			sb.WriteByte(',')
		case 5:
			sb.WriteString(idioms[rng.Intn(len(idioms))])
		default:
			countdown(rng, &sb, 1+rng.Intn(5), reach)
		}
	}
	return sb.String()
}

func straight(rng *rand.Rand, sb *strings.Builder, n int) {
	const ops = "+-<>"
	for i := 0; i < n; i++ {
		sb.WriteByte(ops[rng.Intn(len(ops))])
	}
}

func countdown(rng *rand.Rand, sb *strings.Builder, steps, reach int) {
	sb.WriteString("[-")
	off := 0
	for i := 0; i < steps; i++ {
		next := off
		for next == off || next == 0 {
			next = rng.Intn(2*reach+1) - reach
		}
		walk(sb, next-off)
		off = next
		switch rng.Intn(4) {
		case 0:
			sb.WriteByte('.')
		case 1:
			sb.WriteString("[-]")
		default:
			k := 1 + rng.Intn(3)
			if rng.Intn(2) == 0 {
				sb.WriteString(strings.Repeat("+", k))
			} else {
				sb.WriteString(strings.Repeat("-", k))
			}
		}
	}
	walk(sb, -off)
	sb.WriteByte(']')
}

func walk(sb *strings.Builder, d int) {
	for ; d > 0; d-- {
		sb.WriteByte('>')
	}
	for ; d < 0; d++ {
		sb.WriteByte('<')
	}
}
