package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/engine"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	difficulty = flag.String("difficulty", "medium", "initial difficulty: easy, medium or hard")
	depth      = flag.Int("depth", 0, "fixed search depth in plies (overrides difficulty)")
)

func main() {
	flag.Parse()
	log.SetPrefix("chess-uci: ")
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine()
	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal(err)
	}
	eng.SetDifficulty(d)
	if *depth > 0 {
		eng.SetDepth(*depth)
	}

	protocol := uci.New(eng, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Printf("input error: %v", err)
	}
}
