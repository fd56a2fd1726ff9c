package bfgen

// HelloWorld prints "Hello World!\n".
const HelloWorld = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`

// Hello is the first half of HelloWorld and prints "Hello".
const Hello = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.`

// Cat copies its input to its output. It needs the zero EOF policy to stop.
const Cat = `,[.,]`

const factorDigits = 10

// Factor builds a program that reads a decimal number terminated by a
// newline (at most ten digits) and prints "n: p1 p2 ...\n". It divides by
// every candidate from 2 to 255 in turn; whatever is left once 255 has been
// tried is printed as the last factor. That cofactor may be composite once it
// reaches 257*257: "66049\n" prints "66049: 66049\n".
func Factor() string {
	b := NewBuilder()
	n := b.Cells(factorDigits)
	q := b.Cells(factorDigits)
	dd := b.Cells(3)
	d := b.Cell()
	r := b.Cell()
	acc := b.Cell()
	ch := b.Cell()
	more := b.Cell()

	// ch holds the byte read minus '\n', EOF leaves it at zero as well.
	readChar := func() {
		b.Add(ch, '\n')
		b.In(ch)
		b.Add(ch, -'\n')
	}

	readChar()
	b.While(ch, func() {
		b.Add(ch, '\n'-'0')
		b.Clear(n[0])
		for i := 0; i < factorDigits-1; i++ {
			b.Move(n[i+1], n[i])
		}
		b.Move(ch, n[factorDigits-1])
		readChar()
	})

	b.PrintDigits(n)
	b.Print(":")

	b.Set(d, 2)
	b.Set(dd[2], 2)

	// more = n > 1
	greaterThanOne := func() {
		b.Clear(more)
		for i := 0; i < factorDigits-1; i++ {
			b.IfElse(n[i], func() { b.Set(more, 1) }, nil)
		}
		last := n[factorDigits-1]
		b.IfElse(last, func() {
			t := b.temp()
			b.AddCopy(last, t)
			b.Add(t, -1)
			b.IfElse(t, func() { b.Set(more, 1) }, nil)
			b.Clear(t)
			b.release(t)
		}, nil)
	}

	greaterThanOne()
	b.While(more, func() {
		// Long division of n by d, one digit at a time: the running
		// remainder r is scaled by ten and the next digit added, counting
		// up modulo d so no cell ever exceeds d.
		b.Clear(r)
		for i := 0; i < factorDigits; i++ {
			b.Clear(q[i])
			b.Clear(acc)
			for k := 0; k < 10; k++ {
				b.countModulo(r, acc, d, q[i])
			}
			b.countModulo(n[i], acc, d, q[i])
			b.Clear(r)
			b.Move(acc, r)
		}

		b.IfElse(r, func() {
			b.Add(d, 1)
			b.Add(dd[2], 1)
			b.carry(dd[2], dd[1])
			b.carry(dd[1], dd[0])
			b.IfElse(d, nil, func() {
				b.Print(" ")
				b.PrintDigits(n)
				for i := 0; i < factorDigits; i++ {
					b.Clear(n[i])
				}
				b.Add(n[factorDigits-1], 1)
			})
		}, func() {
			b.Print(" ")
			b.PrintDigits(dd)
			for i := 0; i < factorDigits; i++ {
				b.Clear(n[i])
				b.Move(q[i], n[i])
			}
		})

		greaterThanOne()
	})
	b.Print("\n")

	return b.String()
}

// countModulo adds src to acc one unit at a time, wrapping acc to zero when
// it reaches mod and counting every wrap in wraps. src is preserved.
func (b *Builder) countModulo(src, acc, mod, wraps int) {
	t := b.temp()
	b.AddCopy(src, t)
	b.While(t, func() {
		b.Add(t, -1)
		b.Add(acc, 1)
		e := b.temp()
		b.AddCopy(mod, e)
		u := b.temp()
		b.AddCopy(acc, u)
		b.While(u, func() {
			b.Add(u, -1)
			b.Add(e, -1)
		})
		b.release(u)
		b.IfElse(e, nil, func() {
			b.Clear(acc)
			b.Add(wraps, 1)
		})
		b.Clear(e)
		b.release(e)
	})
	b.release(t)
}

// carry moves a decimal overflow of lo into hi.
func (b *Builder) carry(lo, hi int) {
	t := b.temp()
	b.AddCopy(lo, t)
	b.Add(t, -10)
	b.IfElse(t, nil, func() {
		b.Clear(lo)
		b.Add(hi, 1)
	})
	b.Clear(t)
	b.release(t)
}
