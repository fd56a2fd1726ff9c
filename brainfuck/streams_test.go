package brainfuck

import (
	"bytes"
	"strings"
	"testing"
)

func TestEOFPolicies(t *testing.T) {
	cases := map[EOFPolicy]byte{
		EOFUnchanged: 3,
		EOFZero:      0,
		EOFMinusOne:  255,
	}
	for policy, want := range cases {
		for _, in := range []*strings.Reader{nil, strings.NewReader("")} {
			var out bytes.Buffer
			m := NewMachine(&MachineConfig{EOF: policy})
			var err error
			if in == nil {
				err = m.Run(optimized(t, "+++,."), nil, &out)
			} else {
				err = m.Run(optimized(t, "+++,."), in, &out)
			}
			if err != nil {
				t.Fatalf("Unexpected run failure. %v", err)
			}
			if !bytes.Equal(out.Bytes(), []byte{want}) {
				t.Errorf("Policy [%v] stored %v, expected [%d]", policy, out.Bytes(), want)
			}
		}
	}
}

func TestCat(t *testing.T) {
	var out bytes.Buffer
	m := NewMachine(&MachineConfig{EOF: EOFZero})
	if err := m.Run(optimized(t, ",[.,]"), strings.NewReader("meow"), &out); err != nil {
		t.Fatalf("Unexpected run failure. %v", err)
	}
	if out.String() != "meow" {
		t.Errorf("Unexpected output [%s]", out.String())
	}
}

func TestParseEOFPolicy(t *testing.T) {
	p, err := ParseEOFPolicy("minus_one")
	if err != nil || p != EOFMinusOne {
		t.Errorf("Unexpected result [%v] %v", p, err)
	}
	_, err = ParseEOFPolicy("zeroo")
	if err == nil || err.Error() != "Unknown EOF policy [zeroo], did you mean [zero]?" {
		t.Errorf("Error string doesn't match: %v", err)
	}
}

func TestIoErrorMessage(t *testing.T) {
	err := &IoError{Op: "write", Err: errBroken}
	if err.Error() != "write failed: broken pipe" {
		t.Errorf("Error string doesn't match: %v", err)
	}
}
