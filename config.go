package bfengine

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/jinzhu/copier"

	"nickandperla.net/bfengine/brainfuck"
)

type EngineConfig struct {
	Backend Backend               `toml:"backend"`
	EOF     brainfuck.EOFPolicy   `toml:"eof"`
	Tape    *brainfuck.TapeConfig `toml:"tape"`
}

var configKeys = []string{
	"backend",
	"eof",
	"tape",
	"tape.kind",
	"tape.cell_count",
}

// DecodeConfig reads an EngineConfig from TOML. Keys the config doesn't
// know are rejected rather than ignored.
func DecodeConfig(r io.Reader) (*EngineConfig, error) {
	var ec EngineConfig
	md, err := toml.NewDecoder(r).Decode(&ec)
	if err != nil {
		return nil, fmt.Errorf("Failed to unmarshal engine config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, brainfuck.UnknownName("config key", undecoded[0].String(), configKeys)
	}
	return &ec, nil
}

func LoadConfig(path string) (*EngineConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Unable to load engine config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// Validate rejects values that slipped past text decoding, such as enum
// values set directly in Go.
func (ec *EngineConfig) Validate() error {
	if ec.Backend < 0 || int(ec.Backend) >= len(backendNames) {
		return fmt.Errorf("Invalid backend [%v]", ec.Backend)
	}
	if !ec.EOF.Valid() {
		return fmt.Errorf("Invalid EOF policy [%v]", ec.EOF)
	}
	if ec.Tape != nil && !ec.Tape.Kind.Valid() {
		return fmt.Errorf("Invalid tape kind [%v]", ec.Tape.Kind)
	}
	return nil
}

// clone deep copies ec so an Engine never shares state with its caller.
func (ec *EngineConfig) clone() (*EngineConfig, error) {
	out := &EngineConfig{}
	if err := copier.CopyWithOption(out, ec, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("Failed to copy engine config: %w", err)
	}
	if out.Tape == nil {
		out.Tape = &brainfuck.TapeConfig{}
	}
	if out.Tape.CellCount == 0 {
		out.Tape.CellCount = brainfuck.DefaultCellCount
	}
	return out, nil
}
