package brainfuck

import (
	"fmt"
	"strings"
)

// Tape is the memory a program runs against: a row of 8-bit cells with a
// pointer. Cell arithmetic wraps modulo 256.
type Tape interface {
	Kind() TapeKind
	Get() byte
	Set(v byte)
	Add(delta int)
	Move(delta int)
	// GetAt and AddAt address the cell offset cells away from the pointer
	// without moving it.
	GetAt(offset int) byte
	AddAt(offset int, delta int)
	Position() int
	Seek(pos int)
	Reset()
}

type TapeKind int

const (
	// FixedTapeKind wraps the pointer around a preallocated row of cells.
	FixedTapeKind TapeKind = iota
	// GrowableTapeKind extends the row in either direction on demand.
	GrowableTapeKind
)

var tapeKindNames = []string{
	FixedTapeKind:    "fixed",
	GrowableTapeKind: "growable",
}

func (k TapeKind) String() string {
	if k >= 0 && int(k) < len(tapeKindNames) {
		return tapeKindNames[k]
	}
	return fmt.Sprintf("TapeKind(%d)", int(k))
}

func (k TapeKind) Valid() bool {
	return k >= 0 && int(k) < len(tapeKindNames)
}

func ParseTapeKind(s string) (TapeKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tapeKindNames {
		if n == name {
			return TapeKind(i), nil
		}
	}
	return 0, UnknownName("tape kind", s, tapeKindNames)
}

func (k TapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TapeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTapeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type TapeConfig struct {
	Kind TapeKind `toml:"kind"`
	// CellCount is the size of a fixed tape and the initial size of a
	// growable one. Zero means DefaultCellCount.
	CellCount uint `toml:"cell_count"`
}

func (tc *TapeConfig) Cells() uint {
	if tc == nil || tc.CellCount == 0 {
		return DefaultCellCount
	}
	return tc.CellCount
}

// NewTapeFromConfig builds the tape variant tc selects. A nil config gives a
// fixed tape of DefaultCellCount cells.
func NewTapeFromConfig(tc *TapeConfig) Tape {
	if tc != nil && tc.Kind == GrowableTapeKind {
		return NewGrowableTape(tc.Cells())
	}
	return NewFixedTape(tc.Cells())
}
