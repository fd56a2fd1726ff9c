package brainfuck

import (
	"fmt"
)

// The OPs for Brainfuck. Only the eight canonical glyphs mean anything to the
// parser, every other byte in a source file is a comment.

type OP byte

const (
	OP_POINTER_LEFT  = OP('<')
	OP_POINTER_RIGHT = OP('>')
	OP_INC           = OP('+')
	OP_DEC           = OP('-')
	OP_OUTPUT        = OP('.')
	OP_INPUT         = OP(',')
	OP_WHILE         = OP('[')
	OP_WHILE_END     = OP(']')
)

// IsCommand reports whether o is one of the eight glyphs.
func (o OP) IsCommand() bool {
	switch o {
	case OP_POINTER_LEFT, OP_POINTER_RIGHT, OP_INC, OP_DEC,
		OP_OUTPUT, OP_INPUT, OP_WHILE, OP_WHILE_END:
		return true
	}
	return false
}

// Kind tags an instruction in every program form. The source form only uses
// the first five kinds, the optimized form adds the composite ones.
type Kind uint8

const (
	MovePointer Kind = iota
	AddCell
	Output
	Input
	Loop
	SetCell
	ScanLeft
	ScanRight
	MultiplyAdd
)

var kindNames = [...]string{
	MovePointer: "MovePointer",
	AddCell:     "AddCell",
	Output:      "Output",
	Input:       "Input",
	Loop:        "Loop",
	SetCell:     "SetCell",
	ScanLeft:    "ScanLeft",
	ScanRight:   "ScanRight",
	MultiplyAdd: "MultiplyAdd",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// movable kinds are the ones run-length compaction merges.
func (k Kind) movable() bool {
	return k == MovePointer || k == AddCell
}
