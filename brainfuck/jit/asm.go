package jit

import (
	"encoding/binary"
)

// x86-64 register numbers as they appear in ModRM/SIB fields, REX
// extension bit included.
const (
	regRAX = 0
	regRCX = 1
	regRDX = 2
	regRSI = 6
	regRDI = 7
	regR12 = 12
	regR13 = 13
)

// Condition codes for Jcc.
const (
	condB  byte = 0x2
	condAE byte = 0x3
	condE  byte = 0x4
	condNE byte = 0x5
)

// Layout of nativeContext as seen from machine code through R13.
const (
	ctxBase   = 0
	ctxLength = 8
	ctxPtr    = 16
	ctxResume = 24
	ctxStatus = 32
	ctxLo     = 40
	ctxHi     = 48
)

// label is a code position that may be referenced before it is bound.
// fixups hold the offsets of rel32 fields waiting for the position.
type label struct {
	pos    int
	fixups []int
}

func newLabel() *label {
	return &label{pos: -1}
}

type codeBuffer struct {
	code []byte
}

func (cb *codeBuffer) emit(bs ...byte) {
	cb.code = append(cb.code, bs...)
}

func (cb *codeBuffer) emitU32(v uint32) {
	cb.code = binary.LittleEndian.AppendUint32(cb.code, v)
}

func (cb *codeBuffer) emitI32(v int32) {
	cb.emitU32(uint32(v))
}

func (cb *codeBuffer) len() int {
	return len(cb.code)
}

func (cb *codeBuffer) patchI32(pos int, v int32) {
	binary.LittleEndian.PutUint32(cb.code[pos:], uint32(v))
}

// bind places l at the current position and resolves its pending
// references. Every rel32 is the last field of its instruction, so the
// displacement is taken from the end of the field.
func (cb *codeBuffer) bind(l *label) {
	l.pos = cb.len()
	for _, f := range l.fixups {
		cb.patchI32(f, int32(l.pos-(f+4)))
	}
	l.fixups = nil
}

func (cb *codeBuffer) rel32(l *label) {
	if l.pos >= 0 {
		cb.emitI32(int32(l.pos - (cb.len() + 4)))
		return
	}
	l.fixups = append(l.fixups, cb.len())
	cb.emitI32(0)
}

// jcc emits a conditional near jump to l.
func (cb *codeBuffer) jcc(cc byte, l *label) {
	cb.emit(0x0f, 0x80|cc)
	cb.rel32(l)
}

// jmp rel32
func (cb *codeBuffer) jmp(l *label) {
	cb.emit(0xe9)
	cb.rel32(l)
}

func (cb *codeBuffer) ret() {
	cb.emit(0xc3)
}

// mov reg, [r13+disp8]
func (cb *codeBuffer) loadContext(reg int, disp byte) {
	cb.emit(0x49|byte(reg>>3)<<2, 0x8b, 0x45|byte(reg&7)<<3, disp)
}

// mov [r13+disp8], reg
func (cb *codeBuffer) storeContext(disp byte, reg int) {
	cb.emit(0x49|byte(reg>>3)<<2, 0x89, 0x45|byte(reg&7)<<3, disp)
}

// mov qword [r13+disp8], imm32 (sign extended)
func (cb *codeBuffer) storeContextImm(disp byte, imm int32) {
	cb.emit(0x49, 0xc7, 0x45, disp)
	cb.emitI32(imm)
}

// jmp qword [r13+disp8]
func (cb *codeBuffer) jmpContext(disp byte) {
	cb.emit(0x41, 0xff, 0x65, disp)
}

// lea rax, [rip+rel32]
func (cb *codeBuffer) leaRAX(l *label) {
	cb.emit(0x48, 0x8d, 0x05)
	cb.rel32(l)
}

// add byte [r12+rsi], imm8
func (cb *codeBuffer) addCell(v byte) {
	cb.emit(0x41, 0x80, 0x04, 0x34, v)
}

// mov byte [r12+rsi], imm8
func (cb *codeBuffer) setCell(v byte) {
	cb.emit(0x41, 0xc6, 0x04, 0x34, v)
}

// cmp byte [r12+rsi], 0
func (cb *codeBuffer) cmpCellZero() {
	cb.emit(0x41, 0x80, 0x3c, 0x34, 0x00)
}

// movzx eax, byte [r12+rsi]
func (cb *codeBuffer) loadCellEAX() {
	cb.emit(0x41, 0x0f, 0xb6, 0x04, 0x34)
}

// test al, al
func (cb *codeBuffer) testAL() {
	cb.emit(0x84, 0xc0)
}

// imul edx, eax, imm32
func (cb *codeBuffer) imulEDX(imm int32) {
	cb.emit(0x69, 0xd0)
	cb.emitI32(imm)
}

// add rsi, imm32
func (cb *codeBuffer) addRSI(imm int32) {
	cb.emit(0x48, 0x81, 0xc6)
	cb.emitI32(imm)
}

// add rdi, imm32
func (cb *codeBuffer) addRDI(imm int32) {
	cb.emit(0x48, 0x81, 0xc7)
	cb.emitI32(imm)
}

// cmp reg, rcx
func (cb *codeBuffer) cmpRCX(reg int) {
	cb.emit(0x48, 0x39, 0xc8|byte(reg&7))
}

// sub reg, rcx
func (cb *codeBuffer) subRCX(reg int) {
	cb.emit(0x48, 0x29, 0xc8|byte(reg&7))
}

// Wraps reg back into [0, rcx) after adding a distance below rcx:
//
//	cmp reg, rcx
//	jb  +3
//	sub reg, rcx
func (cb *codeBuffer) wrapRCX(reg int) {
	cb.cmpRCX(reg)
	cb.emit(0x72, 0x03)
	cb.subRCX(reg)
}

// mov rdi, rsi
func (cb *codeBuffer) movRDIRSI() {
	cb.emit(0x48, 0x89, 0xf7)
}

// lea rdi, [rsi+disp32]
func (cb *codeBuffer) leaRDI(disp int32) {
	cb.emit(0x48, 0x8d, 0xbe)
	cb.emitI32(disp)
}

// add byte [r12+rdi], dl
func (cb *codeBuffer) addCellRDIDL() {
	cb.emit(0x41, 0x00, 0x14, 0x3c)
}

// add byte [r12+rsi+disp32], dl
func (cb *codeBuffer) addCellOffsetDL(disp int32) {
	cb.emit(0x41, 0x00, 0x94, 0x34)
	cb.emitI32(disp)
}
