package brainfuck

import (
	"fmt"
	"log"
)

// Node is one instruction of a parsed program. MovePointer and AddCell carry
// a Delta of +1 or -1, Loop carries its Body.
type Node struct {
	Kind  Kind
	Delta int
	Body  []Node
}

// Program is the tree produced by Parse.
type Program []Node

// SyntaxError reports a loop delimiter without a partner. Offset is the byte
// position of the offending delimiter in the source.
type SyntaxError struct {
	Offset    int
	Delimiter OP
}

func (e *SyntaxError) Error() string {
	if e.Delimiter == OP_WHILE {
		return fmt.Sprintf("unmatched '%c' at offset %d: loop is never closed", e.Delimiter, e.Offset)
	}
	return fmt.Sprintf("unmatched '%c' at offset %d: no loop to close", e.Delimiter, e.Offset)
}

// Parse turns source bytes into a Program. Bytes that are not one of the
// eight commands are skipped.
func Parse(src []byte) (Program, error) {
	type frame struct {
		body []Node
		open int
	}

	stack := make([]frame, 1, 16)
	stack[0].open = -1

	for i, c := range src {
		op := OP(c)
		if !op.IsCommand() {
			continue
		}
		top := len(stack) - 1
		switch op {
		case OP_POINTER_RIGHT:
			stack[top].body = append(stack[top].body, Node{Kind: MovePointer, Delta: 1})
		case OP_POINTER_LEFT:
			stack[top].body = append(stack[top].body, Node{Kind: MovePointer, Delta: -1})
		case OP_INC:
			stack[top].body = append(stack[top].body, Node{Kind: AddCell, Delta: 1})
		case OP_DEC:
			stack[top].body = append(stack[top].body, Node{Kind: AddCell, Delta: -1})
		case OP_OUTPUT:
			stack[top].body = append(stack[top].body, Node{Kind: Output})
		case OP_INPUT:
			stack[top].body = append(stack[top].body, Node{Kind: Input})
		case OP_WHILE:
			stack = append(stack, frame{open: i})
		case OP_WHILE_END:
			if top == 0 {
				return nil, &SyntaxError{Offset: i, Delimiter: OP_WHILE_END}
			}
			done := stack[top]
			stack = stack[:top]
			stack[top-1].body = append(stack[top-1].body, Node{Kind: Loop, Body: done.body})
		}
	}

	if len(stack) > 1 {
		return nil, &SyntaxError{Offset: stack[len(stack)-1].open, Delimiter: OP_WHILE}
	}

	if DEBUG {
		log.Printf("Parsed %d bytes into %d top level instructions", len(src), len(stack[0].body))
	}
	return Program(stack[0].body), nil
}

func ParseString(src string) (Program, error) {
	return Parse([]byte(src))
}

// Lower returns the program in the instruction form the Machine executes,
// without rewriting anything.
func (p Program) Lower() Optimized {
	out := make(Optimized, len(p))
	for i, n := range p {
		out[i] = Instr{Kind: n.Kind, Delta: n.Delta}
		if n.Kind == Loop {
			out[i].Body = Program(n.Body).Lower()
		}
	}
	return out
}

// String renders the program back to canonical source.
func (p Program) String() string {
	buf := make([]byte, 0, len(p))
	return string(p.appendSource(buf))
}

func (p Program) appendSource(buf []byte) []byte {
	for _, n := range p {
		switch n.Kind {
		case MovePointer:
			if n.Delta > 0 {
				buf = append(buf, byte(OP_POINTER_RIGHT))
			} else {
				buf = append(buf, byte(OP_POINTER_LEFT))
			}
		case AddCell:
			if n.Delta > 0 {
				buf = append(buf, byte(OP_INC))
			} else {
				buf = append(buf, byte(OP_DEC))
			}
		case Output:
			buf = append(buf, byte(OP_OUTPUT))
		case Input:
			buf = append(buf, byte(OP_INPUT))
		case Loop:
			buf = append(buf, byte(OP_WHILE))
			buf = Program(n.Body).appendSource(buf)
			buf = append(buf, byte(OP_WHILE_END))
		}
	}
	return buf
}
