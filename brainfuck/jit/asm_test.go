package jit

import (
	"bytes"
	"testing"

	"nickandperla.net/bfengine/brainfuck"
)

func TestEncodings(t *testing.T) {
	cases := []struct {
		name string
		emit func(cb *codeBuffer)
		want []byte
	}{
		{"mov r12, [r13]", func(cb *codeBuffer) { cb.loadContext(regR12, ctxBase) }, []byte{0x4d, 0x8b, 0x65, 0x00}},
		{"mov rcx, [r13+8]", func(cb *codeBuffer) { cb.loadContext(regRCX, ctxLength) }, []byte{0x49, 0x8b, 0x4d, 0x08}},
		{"mov rsi, [r13+16]", func(cb *codeBuffer) { cb.loadContext(regRSI, ctxPtr) }, []byte{0x49, 0x8b, 0x75, 0x10}},
		{"mov [r13+16], rsi", func(cb *codeBuffer) { cb.storeContext(ctxPtr, regRSI) }, []byte{0x49, 0x89, 0x75, 0x10}},
		{"mov [r13+24], rax", func(cb *codeBuffer) { cb.storeContext(ctxResume, regRAX) }, []byte{0x49, 0x89, 0x45, 0x18}},
		{"mov qword [r13+32], 2", func(cb *codeBuffer) { cb.storeContextImm(ctxStatus, 2) }, []byte{0x49, 0xc7, 0x45, 0x20, 0x02, 0x00, 0x00, 0x00}},
		{"jmp [r13+24]", func(cb *codeBuffer) { cb.jmpContext(ctxResume) }, []byte{0x41, 0xff, 0x65, 0x18}},
		{"add byte [r12+rsi], 5", func(cb *codeBuffer) { cb.addCell(5) }, []byte{0x41, 0x80, 0x04, 0x34, 0x05}},
		{"mov byte [r12+rsi], 0", func(cb *codeBuffer) { cb.setCell(0) }, []byte{0x41, 0xc6, 0x04, 0x34, 0x00}},
		{"cmp byte [r12+rsi], 0", func(cb *codeBuffer) { cb.cmpCellZero() }, []byte{0x41, 0x80, 0x3c, 0x34, 0x00}},
		{"movzx eax, byte [r12+rsi]", func(cb *codeBuffer) { cb.loadCellEAX() }, []byte{0x41, 0x0f, 0xb6, 0x04, 0x34}},
		{"imul edx, eax, 3", func(cb *codeBuffer) { cb.imulEDX(3) }, []byte{0x69, 0xd0, 0x03, 0x00, 0x00, 0x00}},
		{"add rsi, -1", func(cb *codeBuffer) { cb.addRSI(-1) }, []byte{0x48, 0x81, 0xc6, 0xff, 0xff, 0xff, 0xff}},
		{"wrap rsi", func(cb *codeBuffer) { cb.wrapRCX(regRSI) }, []byte{0x48, 0x39, 0xce, 0x72, 0x03, 0x48, 0x29, 0xce}},
		{"wrap rdi", func(cb *codeBuffer) { cb.wrapRCX(regRDI) }, []byte{0x48, 0x39, 0xcf, 0x72, 0x03, 0x48, 0x29, 0xcf}},
		{"mov rdi, rsi", func(cb *codeBuffer) { cb.movRDIRSI() }, []byte{0x48, 0x89, 0xf7}},
		{"lea rdi, [rsi-2]", func(cb *codeBuffer) { cb.leaRDI(-2) }, []byte{0x48, 0x8d, 0xbe, 0xfe, 0xff, 0xff, 0xff}},
		{"add byte [r12+rdi], dl", func(cb *codeBuffer) { cb.addCellRDIDL() }, []byte{0x41, 0x00, 0x14, 0x3c}},
		{"add byte [r12+rsi+1], dl", func(cb *codeBuffer) { cb.addCellOffsetDL(1) }, []byte{0x41, 0x00, 0x94, 0x34, 0x01, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		var cb codeBuffer
		c.emit(&cb)
		if !bytes.Equal(cb.code, c.want) {
			t.Errorf("Unexpected encoding of [%s]: % x, expected % x", c.name, cb.code, c.want)
		}
	}
}

func TestLabels(t *testing.T) {
	var cb codeBuffer
	back := newLabel()
	fwd := newLabel()
	cb.bind(back)
	cb.jcc(condNE, back)
	cb.jmp(fwd)
	cb.ret()
	cb.bind(fwd)
	want := []byte{
		0x0f, 0x85, 0xfa, 0xff, 0xff, 0xff, // jne -6
		0xe9, 0x01, 0x00, 0x00, 0x00, // jmp +1
		0xc3,
	}
	if !bytes.Equal(cb.code, want) {
		t.Errorf("Unexpected code % x, expected % x", cb.code, want)
	}
}

func TestGenerateEntry(t *testing.T) {
	p := brainfuck.Optimized{{Kind: brainfuck.AddCell, Delta: 257}}
	code, start, err := generate(p, &brainfuck.TapeConfig{CellCount: 16})
	if err != nil {
		t.Fatalf("Unexpected failure. %v", err)
	}
	want := []byte{
		0x4d, 0x8b, 0x65, 0x00,
		0x49, 0x8b, 0x4d, 0x08,
		0x49, 0x8b, 0x75, 0x10,
		0x41, 0xff, 0x65, 0x18,
		0x41, 0x80, 0x04, 0x34, 0x01,
		0x49, 0x89, 0x75, 0x10,
		0x49, 0xc7, 0x45, 0x20, 0x00, 0x00, 0x00, 0x00,
		0xc3,
	}
	if start != 16 {
		t.Errorf("Unexpected start offset [%d]", start)
	}
	if !bytes.Equal(code, want) {
		t.Errorf("Unexpected code % x, expected % x", code, want)
	}
}

func TestFixedMoveIsNormalized(t *testing.T) {
	p := brainfuck.Optimized{{Kind: brainfuck.MovePointer, Delta: -1}}
	code, start, err := generate(p, &brainfuck.TapeConfig{CellCount: 16})
	if err != nil {
		t.Fatalf("Unexpected failure. %v", err)
	}
	body := code[start : start+7]
	if !bytes.Equal(body, []byte{0x48, 0x81, 0xc6, 0x0f, 0x00, 0x00, 0x00}) {
		t.Errorf("Unexpected move % x", body)
	}

	// A full turn around the tape is no move at all.
	p = brainfuck.Optimized{{Kind: brainfuck.MovePointer, Delta: 32}}
	code, start, _ = generate(p, &brainfuck.TapeConfig{CellCount: 16})
	if len(code)-start != 13 {
		t.Errorf("Unexpected code for a full turn % x", code[start:])
	}
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Reason: "no luck"}
	if err.Error() != "jit: no luck" {
		t.Errorf("Error string doesn't match: %v", err)
	}
}
