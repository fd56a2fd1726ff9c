package brainfuck

import (
	"testing"
)

func TestFixedTapeWraps(t *testing.T) {
	tape := NewFixedTape(4)
	tape.Add(-1)
	if tape.Get() != 255 {
		t.Errorf("Unexpected cell value [%d]", tape.Get())
	}
	tape.Move(-1)
	if tape.Position() != 3 {
		t.Errorf("Pointer [%d] didn't wrap to the last cell", tape.Position())
	}
	tape.Move(5)
	if tape.Position() != 0 {
		t.Errorf("Pointer [%d] didn't wrap to the first cell", tape.Position())
	}
	tape.AddAt(-1, 300)
	if tape.GetAt(3) != 44 || tape.Cells()[3] != 44 {
		t.Errorf("Unexpected cell value [%d]", tape.Cells()[3])
	}
	tape.Seek(-6)
	if tape.Position() != 2 {
		t.Errorf("Seek landed on [%d]", tape.Position())
	}
}

func TestFixedTapeReset(t *testing.T) {
	tape := NewFixedTape(0)
	if len(tape.Cells()) != int(DefaultCellCount) {
		t.Errorf("Unexpected cell count [%d]", len(tape.Cells()))
	}
	tape.Move(9)
	tape.Set(1)
	tape.Reset()
	if tape.Position() != 0 || tape.GetAt(9) != 0 {
		t.Errorf("Reset left state behind")
	}
}

func TestGrowableTapeReadsDoNotGrow(t *testing.T) {
	tape := NewGrowableTape(4)
	tape.Move(-10)
	if tape.Get() != 0 || tape.GetAt(100) != 0 {
		t.Errorf("Unexpected value outside the window")
	}
	if len(tape.Cells()) != 4 || tape.Origin() != 0 {
		t.Errorf("Reading grew the tape to %d cells at [%d]", len(tape.Cells()), tape.Origin())
	}
}

func TestGrowableTapeGrowsBothWays(t *testing.T) {
	tape := NewGrowableTape(4)
	tape.Set(5)
	tape.Move(-10)
	tape.Set(7)
	if tape.Origin() > -10 {
		t.Errorf("Origin [%d] doesn't cover position -10", tape.Origin())
	}
	tape.AddAt(30, 2)
	if end := tape.Origin() + len(tape.Cells()); end <= 20 {
		t.Errorf("Window ends at [%d], position 20 is not covered", end)
	}
	tape.Seek(0)
	if tape.Get() != 5 || tape.GetAt(-10) != 7 || tape.GetAt(20) != 2 {
		t.Errorf("Values were lost while growing")
	}
	if tape.Position() != 0 {
		t.Errorf("Unexpected position [%d]", tape.Position())
	}
}

func TestGrowableTapeReserve(t *testing.T) {
	tape := NewGrowableTape(0)
	tape.Reserve(-3, 20)
	if tape.Origin() > -3 || tape.Origin()+len(tape.Cells()) <= 20 {
		t.Errorf("Reserve left window [%d, %d)", tape.Origin(), tape.Origin()+len(tape.Cells()))
	}
	size := len(tape.Cells())
	tape.Reserve(0, 0)
	if len(tape.Cells()) != size {
		t.Errorf("Reserve inside the window reallocated")
	}
	tape.Set(9)
	tape.Reset()
	if tape.Get() != 0 {
		t.Errorf("Reset left state behind")
	}
}
