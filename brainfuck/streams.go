package brainfuck

import (
	"fmt"
	"io"
	"strings"
)

// EOFPolicy decides what an Input instruction stores once the input source
// is exhausted.
type EOFPolicy int

const (
	// EOFUnchanged leaves the current cell as it was.
	EOFUnchanged EOFPolicy = iota
	// EOFZero stores 0.
	EOFZero
	// EOFMinusOne stores 255, -1 truncated to the cell width.
	EOFMinusOne
)

var eofPolicyNames = []string{
	EOFUnchanged: "unchanged",
	EOFZero:      "zero",
	EOFMinusOne:  "minus_one",
}

func (p EOFPolicy) String() string {
	if p >= 0 && int(p) < len(eofPolicyNames) {
		return eofPolicyNames[p]
	}
	return fmt.Sprintf("EOFPolicy(%d)", int(p))
}

func (p EOFPolicy) Valid() bool {
	return p >= 0 && int(p) < len(eofPolicyNames)
}

func ParseEOFPolicy(s string) (EOFPolicy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range eofPolicyNames {
		if n == name {
			return EOFPolicy(i), nil
		}
	}
	return 0, UnknownName("EOF policy", s, eofPolicyNames)
}

func (p EOFPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *EOFPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseEOFPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p EOFPolicy) apply(current byte) byte {
	switch p {
	case EOFZero:
		return 0
	case EOFMinusOne:
		return 0xff
	}
	return current
}

// IoError is returned when a program's input cannot be read or its output
// cannot be written. Output produced before the failure has already been
// delivered.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// Streams moves single bytes between a program and its host. A nil reader
// behaves as an empty input, a nil writer discards output.
type Streams struct {
	in     io.Reader
	out    io.Writer
	EOF    EOFPolicy
	inBuf  [1]byte
	outBuf [1]byte
}

func NewStreams(in io.Reader, out io.Writer, policy EOFPolicy) *Streams {
	return &Streams{
		in:  in,
		out: out,
		EOF: policy,
	}
}

// Read returns the value a cell currently holding current takes after an
// Input instruction.
func (s *Streams) Read(current byte) (byte, error) {
	if s.in == nil {
		return s.EOF.apply(current), nil
	}
	if _, err := io.ReadFull(s.in, s.inBuf[:]); err != nil {
		if err == io.EOF {
			return s.EOF.apply(current), nil
		}
		return current, &IoError{Op: "read", Err: err}
	}
	return s.inBuf[0], nil
}

func (s *Streams) Write(b byte) error {
	if s.out == nil {
		return nil
	}
	s.outBuf[0] = b
	if _, err := s.out.Write(s.outBuf[:]); err != nil {
		return &IoError{Op: "write", Err: err}
	}
	return nil
}
