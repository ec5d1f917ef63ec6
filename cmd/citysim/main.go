// Command citysim runs the interactive city-building game.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/citysim/internal/config"
	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/entropy"
	"github.com/talgya/citysim/internal/persistence"
)

const autosaveSlot = "autosave"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	loadName := flag.String("load", "", "save slot to resume")
	cityName := flag.String("name", "", "name for a new city (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Storage ──────────────────────────────────────────────────────
	store := persistence.NewFileStore(cfg.SavesDir, cfg.CompressSaves)

	var db *persistence.DB
	if cfg.DBPath != "" {
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── City ─────────────────────────────────────────────────────────
	name := cfg.CityName
	if *cityName != "" {
		name = *cityName
	}
	city := startCity(os.Stdout, store, db, *loadName, name, cfg.GridSize)
	if cfg.Seed == 0 {
		slog.Info("event rolls unseeded")
	} else {
		slog.Info("event rolls seeded", "seed", cfg.Seed)
	}

	// ── Engine ───────────────────────────────────────────────────────
	eng := engine.NewEngine(city, entropy.New(cfg.Seed))
	eng.AutosaveEvery = uint64(cfg.AutosaveEvery)
	eng.OnAutosave = func(c *engine.City) error {
		_, err := store.Save(autosaveSlot, c)
		return err
	}
	if db != nil {
		eng.OnTurn = func(c *engine.City, ev *engine.Event) error {
			if ev != nil {
				if err := db.SaveEvents(c.Name, []engine.Event{*ev}); err != nil {
					return err
				}
			}
			return db.RecordTurn(c)
		}
	}

	s := &session{eng: eng, store: store, db: db, out: os.Stdout}

	// ── Loop ─────────────────────────────────────────────────────────
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("You are now the mayor of %s\n\n", city.Name)
	fmt.Print(helpText)

loop:
	for {
		fmt.Print("\nEnter command: ")
		select {
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			break loop
		case line, ok := <-lines:
			if !ok || s.exec(line) {
				break loop
			}
		}
	}

	// Final save on shutdown.
	if cfg.AutosaveEvery > 0 {
		if _, err := store.Save(autosaveSlot, eng.City); err != nil {
			slog.Error("final save failed", "error", err)
		}
	}
	if db != nil {
		if err := db.SaveMeta("last_city", eng.City.Name); err != nil {
			slog.Error("save meta failed", "error", err)
		}
	}
	fmt.Println("\nGoodbye, mayor.")
}
