//go:build !amd64 || !(linux || darwin)

package jit

import (
	"errors"
	"unsafe"
)

const nativeSupported = false

func invoke(entry uintptr, ctx *nativeContext) {
	panic("jit: native code cannot run on this platform")
}

func mapCode(code []byte) ([]byte, error) {
	return nil, errors.New("executable memory is not available on this platform")
}

func unmapCode(mem []byte) error {
	return nil
}

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
