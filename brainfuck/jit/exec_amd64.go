//go:build linux || darwin

package jit

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const nativeSupported = true

// jitcall jumps to code with ctx in R13. The generated code returns straight
// to the caller of jitcall.
func jitcall(code uintptr, ctx *nativeContext)

func invoke(entry uintptr, ctx *nativeContext) {
	jitcall(entry, ctx)
}

// mapCode copies code into fresh pages that are writable while being filled
// and executable, but no longer writable, afterwards.
func mapCode(code []byte) ([]byte, error) {
	page := unix.Getpagesize()
	size := (len(code) + page - 1) / page * page
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap of %d bytes failed: %w", size, err)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("mprotect failed: %w", err)
	}
	return mem, nil
}

func unmapCode(mem []byte) error {
	return unix.Munmap(mem)
}

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
