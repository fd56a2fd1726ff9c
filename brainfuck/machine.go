package brainfuck

import (
	"bytes"
	"fmt"
	"io"
	"log"
)

type MachineConfig struct {
	TapeConfig *TapeConfig `toml:"tape"`
	EOF        EOFPolicy   `toml:"eof"`
}

// Machine walks an optimized program against a tape it owns exclusively.
type Machine struct {
	Tape             Tape
	Config           *MachineConfig
	InstructionCount uint
	io               *Streams
	// wrap is the cell count of a fixed tape, zero for a growable one.
	wrap int
}

func NewMachine(mc *MachineConfig) *Machine {
	if mc == nil {
		mc = &MachineConfig{}
	}
	return &Machine{
		Tape:   NewTapeFromConfig(mc.TapeConfig),
		Config: mc,
	}
}

func (m *Machine) Reset() {
	m.Tape.Reset()
	m.InstructionCount = 0
}

// Run executes p to completion, reading from in and writing to out one byte
// at a time. It only fails with an *IoError.
func (m *Machine) Run(p Optimized, in io.Reader, out io.Writer) error {
	m.io = NewStreams(in, out, m.Config.EOF)
	m.wrap = 0
	if ft, ok := m.Tape.(*FixedTape); ok {
		m.wrap = len(ft.Cells())
	}
	err := m.exec(p)
	if DEBUG {
		log.Printf("Machine halted after %d instructions at cell [%d]", m.InstructionCount, m.Tape.Position())
	}
	return err
}

func (m *Machine) exec(p Optimized) error {
	t := m.Tape
	for i := range p {
		in := &p[i]
		m.InstructionCount++
		switch in.Kind {
		case MovePointer:
			t.Move(in.Delta)
		case AddCell:
			t.Add(in.Delta)
		case SetCell:
			t.Set(wrap(in.Delta))
		case Output:
			if err := m.io.Write(t.Get()); err != nil {
				return err
			}
		case Input:
			v, err := m.io.Read(t.Get())
			if err != nil {
				return err
			}
			t.Set(v)
		case ScanLeft, ScanRight:
			for t.Get() != 0 {
				t.Move(in.Delta)
			}
		case MultiplyAdd:
			if in.WrapsOntoCounter(m.wrap) {
				for t.Get() != 0 {
					if err := m.exec(in.Fallback); err != nil {
						return err
					}
				}
				continue
			}
			if v := int(t.Get()); v != 0 {
				for _, term := range in.Terms {
					t.AddAt(term.Offset, int(term.Factor)*v)
				}
				t.Set(0)
			}
		case Loop:
			for t.Get() != 0 {
				if err := m.exec(in.Body); err != nil {
					return err
				}
			}
		default:
			panic(fmt.Sprintf("Unknown instruction kind [%v] encountered!", in.Kind))
		}
	}
	return nil
}

// Interpret runs p on a fresh tape built from tc and returns everything the
// program wrote. On an *IoError the output produced so far is returned with
// it.
func Interpret(p Optimized, input io.Reader, tc *TapeConfig) ([]byte, error) {
	var out bytes.Buffer
	m := NewMachine(&MachineConfig{TapeConfig: tc})
	err := m.Run(p, input, &out)
	return out.Bytes(), err
}
