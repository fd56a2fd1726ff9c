package main

import (
	"bufio"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"nickandperla.net/bfengine"
)

const defaultConfigPath = "./config.toml"

var (
	configPath = flag.String("config", defaultConfigPath, "Engine config path. Without the default file the interpreter runs on a fixed tape")
	backend    = flag.String("backend", "", "Override the configured backend (interpreter, jit, auto)")
	eof        = flag.String("eof", "", "Override the configured EOF policy (unchanged, zero, minus_one)")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ltime)

	if flag.NArg() != 1 {
		log.Fatalf("Usage: bfrun [-config config.toml] program.bf < input")
	}

	config, err := bfengine.LoadConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) && *configPath == defaultConfigPath {
		config, err = &bfengine.EngineConfig{}, nil
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *backend != "" {
		if err := config.Backend.UnmarshalText([]byte(*backend)); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if *eof != "" {
		if err := config.EOF.UnmarshalText([]byte(*eof)); err != nil {
			log.Fatalf("%v", err)
		}
	}

	engine, err := bfengine.NewEngineFromConfig(config)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Unable to read program: %v", err)
	}
	program, err := engine.Prepare(src)
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
	defer program.Release()

	// Output is unbuffered so prompts show up before the program blocks on
	// input.
	if err := engine.Run(program, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		program.Release()
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}
