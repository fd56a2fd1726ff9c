// Package jit translates optimized Brainfuck programs into x86-64 machine
// code and runs them against the same tapes the interpreter uses.
//
// Generated code never calls back into Go. Whenever it needs the host (a
// byte to write, a byte to read, more room on a growable tape, or the end
// of the program) it stores the pointer, a resume address and a status in a
// shared context and returns. Run services the request and re-enters the
// code, which reloads its registers from the context.
package jit

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"runtime"

	"nickandperla.net/bfengine/brainfuck"
)

const DEBUG = false

// Reasons native code stops and hands control back to Run.
const (
	statusDone uint64 = iota
	statusOutput
	statusInput
	statusGrow
)

// nativeContext is shared with generated code; the ctx* constants mirror
// its layout.
type nativeContext struct {
	base   uintptr
	length uint64
	ptr    uint64
	resume uintptr
	status uint64
	lo     int64
	hi     int64
}

// CompileError reports a program that cannot be turned into native code on
// this host.
type CompileError struct {
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("jit: %s", e.Reason)
}

type Config struct {
	Tape *brainfuck.TapeConfig
	EOF  brainfuck.EOFPolicy
}

// Compiled is an executable native routine. Release it once it is no longer
// needed.
type Compiled struct {
	kind  brainfuck.TapeKind
	cells uint
	eof   brainfuck.EOFPolicy
	mem   []byte
	entry uintptr
	start uintptr
	size  int
}

// Compile generates and maps native code for p. The tape kind is fixed at
// compile time, and so is the cell count of a fixed tape.
func Compile(p brainfuck.Optimized, cfg *Config) (*Compiled, error) {
	if !nativeSupported {
		return nil, &CompileError{
			Reason: fmt.Sprintf("native code is not supported on %s/%s", runtime.GOOS, runtime.GOARCH),
		}
	}
	if cfg == nil {
		cfg = &Config{}
	}
	code, start, err := generate(p, cfg.Tape)
	if err != nil {
		return nil, err
	}
	mem, err := mapCode(code)
	if err != nil {
		return nil, &CompileError{Reason: err.Error()}
	}
	c := &Compiled{
		kind:  kindOf(cfg.Tape),
		cells: cfg.Tape.Cells(),
		eof:   cfg.EOF,
		mem:   mem,
		size:  len(code),
	}
	c.entry = addressOf(mem)
	c.start = c.entry + uintptr(start)
	if DEBUG {
		log.Printf("Compiled %d instructions into %d bytes of %s tape code", p.Count(), len(code), c.kind)
	}
	return c, nil
}

func kindOf(tc *brainfuck.TapeConfig) brainfuck.TapeKind {
	if tc == nil {
		return brainfuck.FixedTapeKind
	}
	return tc.Kind
}

// Size is the length of the generated code in bytes.
func (c *Compiled) Size() int {
	return c.size
}

// NewTape returns a fresh tape of the kind and size the code was compiled
// for.
func (c *Compiled) NewTape() brainfuck.Tape {
	return brainfuck.NewTapeFromConfig(&brainfuck.TapeConfig{Kind: c.kind, CellCount: c.cells})
}

// Execute runs the routine on a fresh tape and returns what it wrote. On an
// *IoError the output produced so far is returned with it.
func (c *Compiled) Execute(input io.Reader) ([]byte, error) {
	var out bytes.Buffer
	err := c.Run(c.NewTape(), input, &out)
	return out.Bytes(), err
}

// Run executes the routine against t, which must be of the kind and size
// the code was compiled for. The pointer of t is left where the program
// stopped.
func (c *Compiled) Run(t brainfuck.Tape, in io.Reader, out io.Writer) error {
	if c.mem == nil {
		return fmt.Errorf("jit: routine already released")
	}
	if t.Kind() != c.kind {
		return fmt.Errorf("jit: code compiled for a %s tape cannot run on a %s tape", c.kind, t.Kind())
	}
	streams := brainfuck.NewStreams(in, out, c.eof)

	var cells []byte
	origin := 0
	ctx := &nativeContext{resume: c.start}
	switch tt := t.(type) {
	case *brainfuck.FixedTape:
		cells = tt.Cells()
		if uint(len(cells)) != c.cells {
			return fmt.Errorf("jit: code compiled for %d cells cannot run on %d", c.cells, len(cells))
		}
	case *brainfuck.GrowableTape:
		tt.Reserve(tt.Position(), tt.Position())
		cells = tt.Cells()
		origin = tt.Origin()
	default:
		return fmt.Errorf("jit: unsupported tape implementation %T", t)
	}
	ctx.base = addressOf(cells)
	ctx.length = uint64(len(cells))
	ctx.ptr = uint64(t.Position() - origin)

	for {
		invoke(c.entry, ctx)
		phys := int(int64(ctx.ptr))
		switch ctx.status {
		case statusDone:
			t.Seek(origin + phys)
			return nil
		case statusOutput:
			if err := streams.Write(cells[phys]); err != nil {
				t.Seek(origin + phys)
				return err
			}
		case statusInput:
			v, err := streams.Read(cells[phys])
			if err != nil {
				t.Seek(origin + phys)
				return err
			}
			cells[phys] = v
		case statusGrow:
			g := t.(*brainfuck.GrowableTape)
			pos := origin + phys
			g.Reserve(pos+int(ctx.lo), pos+int(ctx.hi))
			cells = g.Cells()
			origin = g.Origin()
			ctx.base = addressOf(cells)
			ctx.length = uint64(len(cells))
			ctx.ptr = uint64(pos - origin)
		default:
			panic(fmt.Sprintf("Unknown native status [%d] encountered!", ctx.status))
		}
		runtime.KeepAlive(cells)
	}
}

// Release unmaps the code. The routine cannot run afterwards.
func (c *Compiled) Release() error {
	if c.mem == nil {
		return nil
	}
	err := unmapCode(c.mem)
	c.mem = nil
	c.entry, c.start = 0, 0
	return err
}

// generate returns the machine code for p and the offset of its first
// instruction. The code begins with the entry sequence Run jumps to:
//
//	mov r12, [r13+base]
//	mov rcx, [r13+length]
//	mov rsi, [r13+ptr]
//	jmp [r13+resume]
func generate(p brainfuck.Optimized, tc *brainfuck.TapeConfig) ([]byte, int, error) {
	g := &generator{kind: kindOf(tc)}
	if g.kind == brainfuck.FixedTapeKind {
		cells := tc.Cells()
		if cells > math.MaxInt32 {
			return nil, 0, &CompileError{Reason: fmt.Sprintf("fixed tape of %d cells is too large", cells)}
		}
		g.cells = int(cells)
	}

	g.cb.loadContext(regR12, ctxBase)
	g.cb.loadContext(regRCX, ctxLength)
	g.cb.loadContext(regRSI, ctxPtr)
	g.cb.jmpContext(ctxResume)

	start := g.cb.len()
	if err := g.block(p); err != nil {
		return nil, 0, err
	}
	g.cb.storeContext(ctxPtr, regRSI)
	g.cb.storeContextImm(ctxStatus, int32(statusDone))
	g.cb.ret()
	return g.cb.code, start, nil
}

// generator keeps the tape pointer in rsi as an index into the cell window
// based at r12, with the window length in rcx.
type generator struct {
	cb    codeBuffer
	kind  brainfuck.TapeKind
	cells int
}

func (g *generator) block(p brainfuck.Optimized) error {
	for i := range p {
		if err := g.instr(&p[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) instr(in *brainfuck.Instr) error {
	switch in.Kind {
	case brainfuck.MovePointer:
		return g.move(in.Delta)
	case brainfuck.AddCell:
		if v := byte(in.Delta); v != 0 {
			g.cb.addCell(v)
		}
	case brainfuck.SetCell:
		g.cb.setCell(byte(in.Delta))
	case brainfuck.Output:
		g.yield(statusOutput)
	case brainfuck.Input:
		g.yield(statusInput)
	case brainfuck.ScanLeft, brainfuck.ScanRight:
		done := newLabel()
		top := newLabel()
		g.cb.cmpCellZero()
		g.cb.jcc(condE, done)
		g.cb.bind(top)
		if err := g.move(in.Delta); err != nil {
			return err
		}
		g.cb.cmpCellZero()
		g.cb.jcc(condNE, top)
		g.cb.bind(done)
	case brainfuck.MultiplyAdd:
		if g.kind == brainfuck.FixedTapeKind && in.WrapsOntoCounter(g.cells) {
			return g.loop(in.Fallback)
		}
		return g.multiplyAdd(in.Terms)
	case brainfuck.Loop:
		return g.loop(in.Body)
	default:
		return &CompileError{Reason: fmt.Sprintf("unknown instruction kind %v", in.Kind)}
	}
	return nil
}

func (g *generator) loop(body brainfuck.Optimized) error {
	done := newLabel()
	top := newLabel()
	g.cb.cmpCellZero()
	g.cb.jcc(condE, done)
	g.cb.bind(top)
	if err := g.block(body); err != nil {
		return err
	}
	g.cb.cmpCellZero()
	g.cb.jcc(condNE, top)
	g.cb.bind(done)
	return nil
}

// yield hands control to Run with the given status and resumes right after.
func (g *generator) yield(status uint64) {
	resume := newLabel()
	g.cb.storeContext(ctxPtr, regRSI)
	g.cb.leaRAX(resume)
	g.cb.storeContext(ctxResume, regRAX)
	g.cb.storeContextImm(ctxStatus, int32(status))
	g.cb.ret()
	g.cb.bind(resume)
}

// grow asks Run to materialise the cells from lo to hi around the pointer
// and then continues at resume.
func (g *generator) grow(lo, hi int, resume *label) {
	g.cb.storeContextImm(ctxLo, int32(lo))
	g.cb.storeContextImm(ctxHi, int32(hi))
	g.cb.storeContext(ctxPtr, regRSI)
	g.cb.leaRAX(resume)
	g.cb.storeContext(ctxResume, regRAX)
	g.cb.storeContextImm(ctxStatus, int32(statusGrow))
	g.cb.ret()
}

func (g *generator) move(delta int) error {
	if g.kind == brainfuck.FixedTapeKind {
		d := g.normalize(delta)
		if d == 0 {
			return nil
		}
		g.cb.addRSI(int32(d))
		g.cb.wrapRCX(regRSI)
		return nil
	}

	if delta == 0 {
		return nil
	}
	if !fitsInt32(delta) {
		return &CompileError{Reason: fmt.Sprintf("pointer move of %d is out of range", delta)}
	}
	// A pointer below the window wraps to a huge unsigned index, so one
	// unsigned compare catches both ends.
	ok := newLabel()
	resume := newLabel()
	g.cb.addRSI(int32(delta))
	g.cb.cmpRCX(regRSI)
	g.cb.jcc(condB, ok)
	g.grow(0, 0, resume)
	g.cb.bind(resume)
	g.cb.bind(ok)
	return nil
}

// normalize maps a distance on a fixed tape into [0, cells).
func (g *generator) normalize(delta int) int {
	d := delta % g.cells
	if d < 0 {
		d += g.cells
	}
	return d
}

// multiplyAdd emits
//
//	movzx eax, byte [cell]
//	test  al, al
//	je    done
//	imul  edx, eax, factor      ; per term
//	add   byte [cell+offset], dl
//	mov   byte [cell], 0
//
// On a growable tape a guard first makes sure every target is materialised.
func (g *generator) multiplyAdd(terms []brainfuck.Term) error {
	if g.kind == brainfuck.GrowableTapeKind {
		lo, hi := 0, 0
		for _, t := range terms {
			if !fitsInt32(t.Offset) {
				return &CompileError{Reason: fmt.Sprintf("multiply-add offset %d is out of range", t.Offset)}
			}
			lo = min(lo, t.Offset)
			hi = max(hi, t.Offset)
		}
		if lo < 0 || hi > 0 {
			guard := newLabel()
			grow := newLabel()
			ok := newLabel()
			g.cb.bind(guard)
			for _, off := range []int{lo, hi} {
				if off == 0 {
					continue
				}
				g.cb.leaRDI(int32(off))
				g.cb.cmpRCX(regRDI)
				g.cb.jcc(condAE, grow)
			}
			g.cb.jmp(ok)
			g.cb.bind(grow)
			g.grow(lo, hi, guard)
			g.cb.bind(ok)
		}
	}

	done := newLabel()
	g.cb.loadCellEAX()
	g.cb.testAL()
	g.cb.jcc(condE, done)
	for _, t := range terms {
		g.cb.imulEDX(int32(t.Factor))
		if g.kind == brainfuck.FixedTapeKind {
			g.cb.movRDIRSI()
			if d := g.normalize(t.Offset); d != 0 {
				g.cb.addRDI(int32(d))
				g.cb.wrapRCX(regRDI)
			}
			g.cb.addCellRDIDL()
		} else {
			g.cb.addCellOffsetDL(int32(t.Offset))
		}
	}
	g.cb.setCell(0)
	g.cb.bind(done)
	return nil
}

func fitsInt32(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}
