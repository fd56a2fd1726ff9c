package bfengine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nickandperla.net/bfengine/brainfuck"
	"nickandperla.net/bfengine/brainfuck/jit"
	"nickandperla.net/bfengine/internal/bfgen"
)

func makeEngine(t *testing.T, backend Backend) *Engine {
	t.Helper()
	e, err := NewEngineFromConfig(&EngineConfig{Backend: backend})
	if err != nil {
		t.Fatalf("Unexpected failure. %v", err)
	}
	return e
}

// engines returns an interpreter engine and an auto engine, which runs
// natively wherever the host allows.
func engines(t *testing.T) []*Engine {
	return []*Engine{makeEngine(t, BackendInterpreter), makeEngine(t, BackendAuto)}
}

func TestRunBytes(t *testing.T) {
	for _, e := range engines(t) {
		out, err := e.RunBytes([]byte(bfgen.Hello), nil)
		if err != nil {
			t.Fatalf("Unexpected run failure. %v", err)
		}
		if string(out) != "Hello" {
			t.Errorf("Unexpected output [%q] from [%v]", out, e.Config.Backend)
		}

		out, err = e.RunBytes([]byte(bfgen.Factor()), []byte("1000000\n"))
		if err != nil {
			t.Fatalf("Unexpected run failure. %v", err)
		}
		if string(out) != "1000000: 2 2 2 2 2 2 5 5 5 5 5 5\n" {
			t.Errorf("Unexpected output [%q] from [%v]", out, e.Config.Backend)
		}
	}
}

func TestSyntaxErrorSurfaces(t *testing.T) {
	for _, e := range engines(t) {
		_, err := e.RunBytes([]byte("+[.\n"), nil)
		var se *brainfuck.SyntaxError
		if !errors.As(err, &se) || se.Offset != 1 {
			t.Errorf("Expected a SyntaxError at offset 1, got %v", err)
		}
	}
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestIoErrorSurfaces(t *testing.T) {
	for _, e := range engines(t) {
		p, err := e.Prepare([]byte(bfgen.Hello))
		if err != nil {
			t.Fatalf("Unexpected prepare failure. %v", err)
		}
		err = e.Run(p, nil, brokenWriter{})
		var ioe *brainfuck.IoError
		if !errors.As(err, &ioe) {
			t.Errorf("Expected an IoError, got %v", err)
		}
		p.Release()
	}
}

func TestJITBackend(t *testing.T) {
	e := makeEngine(t, BackendJIT)
	p, err := e.Prepare([]byte(bfgen.HelloWorld))
	var ce *jit.CompileError
	if errors.As(err, &ce) {
		t.Skipf("Native code unavailable. %v", err)
	}
	if err != nil {
		t.Fatalf("Unexpected prepare failure. %v", err)
	}
	defer p.Release()
	if p.Native == nil {
		t.Fatalf("JIT backend prepared no native code")
	}
	var out strings.Builder
	if err := e.Run(p, nil, &out); err != nil {
		t.Fatalf("Unexpected run failure. %v", err)
	}
	if out.String() != "Hello World!\n" {
		t.Errorf("Unexpected output [%q]", out.String())
	}
}

func TestPrepareAll(t *testing.T) {
	e := makeEngine(t, BackendAuto)
	sources := []Source{
		{Name: "hello", Code: []byte(bfgen.Hello)},
		{Name: "cat", Code: []byte(bfgen.Cat)},
		{Name: "factor", Code: []byte(bfgen.Factor())},
	}
	prepared, err := e.PrepareAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("Unexpected failure. %v", err)
	}
	if len(prepared) != len(sources) {
		t.Fatalf("Unexpected count [%d]", len(prepared))
	}
	for i, p := range prepared {
		if p == nil || p.Source.String() != mustParse(t, sources[i].Code).String() {
			t.Errorf("Source [%s] was not prepared in place", sources[i].Name)
		}
		p.Release()
	}
}

func TestPrepareAllFailure(t *testing.T) {
	e := makeEngine(t, BackendInterpreter)
	sources := []Source{
		{Name: "hello", Code: []byte(bfgen.Hello)},
		{Name: "broken.bf", Code: []byte("]")},
	}
	_, err := e.PrepareAll(context.Background(), sources)
	var se *brainfuck.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Expected a SyntaxError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "broken.bf: ") {
		t.Errorf("Error string doesn't name the source: %v", err)
	}
}

func mustParse(t *testing.T, src []byte) brainfuck.Program {
	t.Helper()
	p, err := brainfuck.Parse(src)
	if err != nil {
		t.Fatalf("Unexpected parse failure. %v", err)
	}
	return p
}
