// Command perft counts move-tree leaves for a position and can compare every
// root move against an independent generator.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
)

var (
	fen    = flag.String("fen", board.StartFEN, "position to count from")
	depth  = flag.Int("depth", 4, "perft depth")
	divide = flag.Bool("divide", false, "print the count below each root move")
	verify = flag.Bool("verify", false, "cross-check counts against dragontoothmg")
)

func main() {
	flag.Parse()
	log.SetPrefix("perft: ")
	log.SetFlags(0)

	g, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}
	if err := g.Validate(); err != nil {
		log.Fatalf("invalid position: %v", err)
	}

	start := time.Now()
	moves, counts := g.PerftDivide(*depth)
	elapsed := time.Since(start)

	var total int64
	for _, m := range moves {
		total += counts[m]
	}
	if *depth <= 0 {
		total = g.Perft(*depth)
	}

	var ref map[string]int64
	if *verify {
		ref = referenceDivide(g.FEN(), *depth)
	}

	mismatches := 0
	if *divide || *verify {
		names := make([]string, 0, len(moves))
		byName := make(map[string]int64, len(moves))
		for _, m := range moves {
			names = append(names, m.String())
			byName[m.String()] = counts[m]
		}
		sort.Strings(names)
		for _, name := range names {
			line := fmt.Sprintf("%s: %d", name, byName[name])
			if ref != nil {
				if want, ok := ref[name]; !ok || want != byName[name] {
					line += fmt.Sprintf("  MISMATCH (reference %d)", want)
					mismatches++
				}
			}
			fmt.Println(line)
		}
		for name := range ref {
			if _, ok := byName[name]; !ok {
				fmt.Printf("%s: missing (reference %d)\n", name, ref[name])
				mismatches++
			}
		}
		fmt.Println()
	}

	fmt.Printf("Nodes: %d\n", total)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(total)/elapsed.Seconds())
	}

	if mismatches > 0 {
		log.Printf("%d root moves disagree with the reference generator", mismatches)
		os.Exit(1)
	}
}

func referenceDivide(fen string, depth int) map[string]int64 {
	b := dragontoothmg.ParseFen(fen)
	out := make(map[string]int64)
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		out[m.String()] = referencePerft(&b, depth-1)
		unapply()
	}
	return out
}

func referencePerft(b *dragontoothmg.Board, depth int) int64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}
