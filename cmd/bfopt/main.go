package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"nickandperla.net/bfengine"
	"nickandperla.net/bfengine/brainfuck"
)

var stages = []string{"source", "compacted", "optimized"}

const defaultConfigPath = "./config.toml"

var (
	configPath = flag.String("config", defaultConfigPath, "Engine config path. Selects the tape native code size is reported for")
	stage      = flag.String("stage", "optimized", "Program form to print: source, compacted or optimized")
	stats      = flag.Bool("stats", false, "Print instruction counts instead of the program")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ltime)

	if flag.NArg() == 0 {
		log.Fatalf("Usage: bfopt [-config config.toml] [-stage optimized] program.bf...")
	}
	if brainfuck.Closest(*stage, stages) != *stage {
		log.Fatalf("%v", brainfuck.UnknownName("stage", *stage, stages))
	}

	sources := make([]bfengine.Source, flag.NArg())
	for i, path := range flag.Args() {
		code, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Unable to read program: %v", err)
		}
		sources[i] = bfengine.Source{Name: path, Code: code}
	}

	config, err := bfengine.LoadConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) && *configPath == defaultConfigPath {
		config, err = &bfengine.EngineConfig{}, nil
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	engine, err := bfengine.NewEngineFromConfig(config)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	prepared, err := engine.PrepareAll(context.Background(), sources)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		for _, p := range prepared {
			p.Release()
		}
	}()

	for i, p := range prepared {
		if len(prepared) > 1 {
			fmt.Printf("== %s ==\n", sources[i].Name)
		}
		if *stats {
			fmt.Printf("source %d, compacted %d, optimized %d",
				p.Source.Lower().Count(), p.Compacted.Lower().Count(), p.Optimized.Count())
			if p.Native != nil {
				fmt.Printf(", native %d bytes", p.Native.Size())
			}
			fmt.Println()
			continue
		}
		switch *stage {
		case "source":
			fmt.Println(p.Source.String())
		case "compacted":
			err = p.Compacted.Dump(os.Stdout)
		case "optimized":
			err = p.Optimized.Dump(os.Stdout)
		}
		if err != nil {
			log.Fatalf("Failed to write program: %v", err)
		}
	}
}
