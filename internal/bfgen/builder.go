// Package bfgen writes Brainfuck programs from structured operations on
// named cells. Every operation ends with the pointer at a cell the builder
// knows, so the emitted loops are balanced by construction.
package bfgen

import (
	"fmt"
	"strings"
)

type Builder struct {
	out      strings.Builder
	pos      int
	next     int
	tempBase int
	temps    int
}

func NewBuilder() *Builder {
	return &Builder{tempBase: -1}
}

// Cell allocates a named cell. All named cells must be allocated before the
// first operation that needs a temporary.
func (b *Builder) Cell() int {
	if b.tempBase >= 0 {
		panic("bfgen: named cell allocated after temporaries were handed out")
	}
	c := b.next
	b.next++
	return c
}

func (b *Builder) Cells(n int) []int {
	cells := make([]int, n)
	for i := range cells {
		cells[i] = b.Cell()
	}
	return cells
}

// temp hands out a zeroed scratch cell. Temporaries are released in reverse
// order and must be zero again when released.
func (b *Builder) temp() int {
	if b.tempBase < 0 {
		b.tempBase = b.next
	}
	c := b.tempBase + b.temps
	b.temps++
	return c
}

func (b *Builder) release(c int) {
	if c != b.tempBase+b.temps-1 {
		panic(fmt.Sprintf("bfgen: temporary [%d] released out of order", c))
	}
	b.temps--
}

func (b *Builder) to(c int) {
	for b.pos < c {
		b.out.WriteByte('>')
		b.pos++
	}
	for b.pos > c {
		b.out.WriteByte('<')
		b.pos--
	}
}

func (b *Builder) Add(c, k int) {
	b.to(c)
	for ; k > 0; k-- {
		b.out.WriteByte('+')
	}
	for ; k < 0; k++ {
		b.out.WriteByte('-')
	}
}

func (b *Builder) Clear(c int) {
	b.to(c)
	b.out.WriteString("[-]")
}

func (b *Builder) Set(c, v int) {
	b.Clear(c)
	b.Add(c, v)
}

func (b *Builder) Out(c int) {
	b.to(c)
	b.out.WriteByte('.')
}

func (b *Builder) In(c int) {
	b.to(c)
	b.out.WriteByte(',')
}

// While repeats body as long as c is non zero.
func (b *Builder) While(c int, body func()) {
	b.to(c)
	b.out.WriteByte('[')
	body()
	b.to(c)
	b.out.WriteByte(']')
}

// Move empties src into every cell of dsts.
func (b *Builder) Move(src int, dsts ...int) {
	b.While(src, func() {
		b.Add(src, -1)
		for _, d := range dsts {
			b.Add(d, 1)
		}
	})
}

// AddCopy adds src to dst and leaves src as it was.
func (b *Builder) AddCopy(src, dst int) {
	t := b.temp()
	b.Move(src, dst, t)
	b.Move(t, src)
	b.release(t)
}

func (b *Builder) Copy(src, dst int) {
	b.Clear(dst)
	b.AddCopy(src, dst)
}

// IfElse runs nonZero when c is non zero and zero otherwise. c is preserved
// unless a branch changes it. Either branch may be nil.
func (b *Builder) IfElse(c int, nonZero, zero func()) {
	flag := b.temp()
	b.Add(flag, 1)
	t := b.temp()
	b.Copy(c, t)
	b.While(t, func() {
		if nonZero != nil {
			nonZero()
		}
		b.Clear(flag)
		b.Clear(t)
	})
	b.release(t)
	b.While(flag, func() {
		if zero != nil {
			zero()
		}
		b.Clear(flag)
	})
	b.release(flag)
}

// Print writes the bytes of s through a scratch cell.
func (b *Builder) Print(s string) {
	t := b.temp()
	cur := 0
	for i := 0; i < len(s); i++ {
		b.Add(t, int(s[i])-cur)
		cur = int(s[i])
		b.Out(t)
	}
	b.Clear(t)
	b.release(t)
}

// PrintDigits prints a number held one decimal digit per cell, most
// significant first, without leading zeros. The last digit is always
// printed.
func (b *Builder) PrintDigits(digits []int) {
	started := b.temp()
	for i, d := range digits {
		if i == len(digits)-1 {
			b.printDigit(d)
			break
		}
		p := b.temp()
		b.AddCopy(d, p)
		b.AddCopy(started, p)
		b.While(p, func() {
			b.Set(started, 1)
			b.printDigit(d)
			b.Clear(p)
		})
		b.release(p)
	}
	b.Clear(started)
	b.release(started)
}

func (b *Builder) printDigit(d int) {
	b.Add(d, '0')
	b.Out(d)
	b.Add(d, -'0')
}

func (b *Builder) String() string {
	return b.out.String()
}
