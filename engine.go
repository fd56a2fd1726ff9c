package bfengine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"nickandperla.net/bfengine/brainfuck"
	"nickandperla.net/bfengine/brainfuck/jit"
)

// Engine turns source into runnable programs and runs them on the backend
// its config selects.
type Engine struct {
	Config *EngineConfig
}

// NewEngineFromConfig validates ec and keeps a private copy of it. A nil
// config selects the interpreter on a default fixed tape.
func NewEngineFromConfig(ec *EngineConfig) (*Engine, error) {
	if ec == nil {
		ec = &EngineConfig{}
	}
	if err := ec.Validate(); err != nil {
		return nil, err
	}
	cfg, err := ec.clone()
	if err != nil {
		return nil, err
	}
	return &Engine{Config: cfg}, nil
}

// Prepared holds every form of one program. Native is nil unless the
// engine compiled it.
type Prepared struct {
	Source    brainfuck.Program
	Compacted brainfuck.Compacted
	Optimized brainfuck.Optimized
	Native    *jit.Compiled
}

// Release frees the native code, if any.
func (p *Prepared) Release() error {
	if p.Native == nil {
		return nil
	}
	err := p.Native.Release()
	p.Native = nil
	return err
}

// Prepare parses, compacts and optimizes src, then compiles it when the
// backend asks for native code.
func (e *Engine) Prepare(src []byte) (*Prepared, error) {
	program, err := brainfuck.Parse(src)
	if err != nil {
		return nil, err
	}
	p := &Prepared{Source: program}
	p.Compacted = brainfuck.Compact(program)
	p.Optimized = brainfuck.Optimize(p.Compacted)

	if e.Config.Backend == BackendInterpreter {
		return p, nil
	}
	native, err := jit.Compile(p.Optimized, &jit.Config{Tape: e.Config.Tape, EOF: e.Config.EOF})
	if err != nil {
		var ce *jit.CompileError
		if e.Config.Backend == BackendAuto && errors.As(err, &ce) {
			log.Printf("Native compilation unavailable, falling back to the interpreter: %v", err)
			return p, nil
		}
		return nil, err
	}
	p.Native = native
	return p, nil
}

// Run executes p on a fresh tape.
func (e *Engine) Run(p *Prepared, in io.Reader, out io.Writer) error {
	if p.Native != nil {
		return p.Native.Run(p.Native.NewTape(), in, out)
	}
	m := brainfuck.NewMachine(&brainfuck.MachineConfig{TapeConfig: e.Config.Tape, EOF: e.Config.EOF})
	err := m.Run(p.Optimized, in, out)
	if DEBUG {
		log.Printf("Interpreted %d instructions", m.InstructionCount)
	}
	return err
}

// RunBytes prepares and runs src with input and returns everything it wrote.
// On an *brainfuck.IoError the output produced so far is returned with it.
func (e *Engine) RunBytes(src, input []byte) ([]byte, error) {
	p, err := e.Prepare(src)
	if err != nil {
		return nil, err
	}
	defer p.Release()

	var out bytes.Buffer
	if err := e.Run(p, bytes.NewReader(input), &out); err != nil {
		return out.Bytes(), fmt.Errorf("Program failed: %w", err)
	}
	return out.Bytes(), nil
}
