package bfengine

import (
	"fmt"
	"strings"

	"nickandperla.net/bfengine/brainfuck"
)

const DEBUG = false

// Backend selects how an Engine executes prepared programs.
type Backend int

const (
	// BackendInterpreter walks the optimized program with a brainfuck.Machine.
	BackendInterpreter Backend = iota
	// BackendJIT compiles to native code and fails where that is impossible.
	BackendJIT
	// BackendAuto compiles to native code and falls back to the interpreter
	// when the host cannot run it.
	BackendAuto
)

var backendNames = []string{
	BackendInterpreter: "interpreter",
	BackendJIT:         "jit",
	BackendAuto:        "auto",
}

func (b Backend) String() string {
	if b >= 0 && int(b) < len(backendNames) {
		return backendNames[b]
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

func ParseBackend(s string) (Backend, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range backendNames {
		if n == name {
			return Backend(i), nil
		}
	}
	return 0, brainfuck.UnknownName("backend", s, backendNames)
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Backend) UnmarshalText(text []byte) error {
	parsed, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
