// Command chess-play runs a game against the Redmark engine, or between two
// people, on the terminal. Preferences, statistics and finished games are
// kept in a local database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/engine"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/storage"
)

var (
	difficulty = flag.String("difficulty", "", "engine difficulty: easy, medium or hard")
	color      = flag.String("color", "", "your color: white or black")
	mode       = flag.String("mode", "", "hvc to play the engine, hvh for two players")
	depth      = flag.Int("depth", 0, "fixed search depth in plies (overrides difficulty)")
	name       = flag.String("name", "", "player name recorded in saved games")
	dataDir    = flag.String("data-dir", "", "database directory (default: per-user data dir, or $"+storage.DataDirEnv+")")
	noSave     = flag.Bool("no-save", false, "do not read or write preferences, statistics or games")
	fen        = flag.String("fen", "", "start from this position instead of the initial one")
)

func main() {
	flag.Parse()
	log.SetPrefix("chess-play: ")
	log.SetFlags(0)

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var store *storage.Storage
	prefs := storage.DefaultPreferences()

	if !*noSave {
		var err error
		if *dataDir != "" {
			store, err = storage.Open(*dataDir)
		} else {
			store, err = storage.NewStorage()
		}
		if err != nil {
			return errors.Wrap(err, "open storage")
		}
		defer store.Close()

		if prefs, err = store.LoadPreferences(); err != nil {
			return errors.Wrap(err, "load preferences")
		}
		if first, err := store.IsFirstLaunch(); err == nil && first {
			fmt.Println("Welcome to Redmark! Type 'help' at the prompt for commands.")
			if err := store.MarkFirstLaunchComplete(); err != nil {
				log.Printf("could not mark first launch: %v", err)
			}
		}
	}

	if err := applyFlags(prefs); err != nil {
		return err
	}

	eng := engine.NewEngine()
	eng.SetDifficulty(prefs.Difficulty)
	if *depth > 0 {
		eng.SetDepth(*depth)
	}

	s := newSession(eng, store, prefs, os.Stdin, os.Stdout)
	if *fen != "" {
		g, err := board.ParseFEN(*fen)
		if err != nil {
			return err
		}
		if err := g.Validate(); err != nil {
			return errors.Wrap(err, "invalid position")
		}
		s.g = g
	}

	if store != nil && prefs.AutoSave {
		prefs.LastPlayed = time.Now()
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("could not save preferences: %v", err)
		}
	}

	return s.run()
}

// applyFlags overrides stored preferences with the flags given on the
// command line.
func applyFlags(prefs *storage.UserPreferences) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "difficulty":
			prefs.Difficulty, err = engine.ParseDifficulty(*difficulty)
		case "color":
			c, ok := board.ParseColor(*color)
			if !ok {
				err = errors.Errorf("unknown color %q", *color)
				return
			}
			prefs.PlayerColor = c
		case "mode":
			prefs.GameMode, err = parseMode(*mode)
		case "name":
			prefs.Username = *name
		}
	})
	return err
}

func parseMode(s string) (storage.GameMode, error) {
	switch s {
	case "hvc", "computer":
		return storage.ModeHumanVsComputer, nil
	case "hvh", "human":
		return storage.ModeHumanVsHuman, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}
