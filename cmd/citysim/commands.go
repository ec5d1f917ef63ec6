package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/persistence"
	"github.com/talgya/citysim/internal/report"
	"github.com/talgya/citysim/internal/world"
)

const (
	maxTurnsPerCommand = 1000
	eventsShown        = 20
	historyShown       = 20
)

const helpText = `Available Commands:
build x y type - Build at coordinates (x,y). Types:
                 R(esidential), C(ommercial), I(ndustrial)
                 P(ark), H(ospital), S(chool), F(ire Station)
                 POWER, ROAD, WATER (infrastructure)
demolish x y   - Remove whatever stands at (x,y)
tax rate       - Set tax rate (0-20)
next [n]       - Advance n turns (default 1)
map            - Display city map
stats          - Display city statistics
audit          - Display detailed city report
economy        - Display detailed economic report
events         - Show recent events
history        - Show recorded turn history
save name      - Save current game
load name      - Load a saved game
saves          - List all saved games
help           - Show this help message
exit           - Exit game
`

// session is one interactive game: the engine driving the live city, plus
// where saves go.
type session struct {
	eng   *engine.Engine
	store *persistence.FileStore
	db    *persistence.DB // nil when the archive is disabled
	out   io.Writer
}

func (s *session) city() *engine.City { return s.eng.City }

// exec runs one command line and reports whether the loop should stop.
func (s *session) exec(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprint(s.out, helpText)
	case "build":
		s.build(args)
	case "demolish":
		s.demolish(args)
	case "tax":
		s.tax(args)
	case "next":
		s.next(args)
	case "map":
		report.RenderMap(s.out, s.city())
	case "stats":
		report.StatsOf(s.city()).Render(s.out)
	case "audit":
		report.AuditOf(s.city()).Render(s.out)
	case "economy":
		report.EconomyOf(s.city()).Render(s.out)
	case "events":
		s.events()
	case "history":
		s.history()
	case "save":
		s.save(args)
	case "load":
		s.load(args)
	case "saves":
		s.saves()
	default:
		fmt.Fprintln(s.out, "Invalid command. Type 'help' for available commands.")
	}
	return false
}

func (s *session) build(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "Usage: build x y type")
		return
	}
	x, y, ok := s.coords(args[0], args[1])
	if !ok {
		return
	}
	code, err := world.ParseCode(args[2])
	if err != nil {
		fmt.Fprintln(s.out, describe(err))
		return
	}
	if err := s.city().Build(x, y, code); err != nil {
		fmt.Fprintln(s.out, describe(err))
		return
	}
	fmt.Fprintf(s.out, "Successfully built %s\n", code.Name())
	s.advance(1)
	report.RenderMap(s.out, s.city())
}

func (s *session) demolish(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: demolish x y")
		return
	}
	x, y, ok := s.coords(args[0], args[1])
	if !ok {
		return
	}
	if err := s.city().Demolish(x, y); err != nil {
		fmt.Fprintln(s.out, describe(err))
		return
	}
	fmt.Fprintln(s.out, "Successfully demolished!")
	s.advance(1)
	report.RenderMap(s.out, s.city())
}

func (s *session) tax(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: tax rate")
		return
	}
	rate, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid tax rate")
		return
	}
	if err := s.city().SetTaxRate(rate); err != nil {
		fmt.Fprintln(s.out, describe(err))
		return
	}
	fmt.Fprintf(s.out, "Tax rate set to %g%%\n", rate)
	s.advance(1)
}

func (s *session) next(args []string) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 || v > maxTurnsPerCommand {
			fmt.Fprintf(s.out, "Turn count must be between 1 and %d\n", maxTurnsPerCommand)
			return
		}
		n = v
	}
	s.advance(n)
	c := s.city()
	fmt.Fprintf(s.out, "Turn %d: %s, population %d, happiness %d%%\n",
		c.Turn, report.Money(c.Treasury), c.Population, c.Happiness)
}

// advance runs n turns and announces any events that fired.
func (s *session) advance(n int) {
	for _, ev := range s.eng.Run(n) {
		fmt.Fprintf(s.out, "Event: %s\n", ev.Description)
	}
}

func (s *session) coords(xs, ys string) (int, int, bool) {
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		fmt.Fprintln(s.out, "Invalid coordinates")
		return 0, 0, false
	}
	return x, y, true
}

func (s *session) events() {
	if s.db == nil {
		report.RenderEvents(s.out, s.eng.RecentEvents(eventsShown))
		return
	}
	events, err := s.db.RecentEvents(s.city().Name, eventsShown)
	if err != nil {
		slog.Error("load events failed", "city", s.city().Name, "error", err)
		fmt.Fprintln(s.out, "Could not load events.")
		return
	}
	slices.Reverse(events)
	report.RenderEvents(s.out, events)
}

func (s *session) history() {
	if s.db == nil {
		fmt.Fprintln(s.out, "History needs db_path set in the config.")
		return
	}
	rows, err := s.db.StatsHistory(s.city().Name, historyShown)
	if err != nil {
		slog.Error("load history failed", "city", s.city().Name, "error", err)
		fmt.Fprintln(s.out, "Could not load history.")
		return
	}
	report.RenderHistory(s.out, rows)
}

func (s *session) save(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: save name")
		return
	}
	path, err := s.store.Save(args[0], s.city())
	if err != nil {
		slog.Error("save failed", "name", args[0], "error", err)
		fmt.Fprintf(s.out, "Could not save game: %v\n", err)
		return
	}
	if s.db != nil {
		if _, err := s.db.SaveCity(s.city()); err != nil {
			slog.Error("archive failed", "city", s.city().Name, "error", err)
		}
	}
	fmt.Fprintf(s.out, "Game saved successfully to %s\n", path)
}

func (s *session) load(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: load name")
		return
	}
	city, err := loadCity(s.store, s.db, args[0])
	if err != nil {
		fmt.Fprintln(s.out, describe(err))
		return
	}
	s.eng.Replace(city)
	fmt.Fprintf(s.out, "Loaded game: %s\n", city.Name)
}

func (s *session) saves() {
	names, err := s.store.List()
	if err != nil {
		slog.Error("list saves failed", "dir", s.store.Dir, "error", err)
	}
	if s.db != nil {
		archived, err := s.db.ListCities()
		if err != nil {
			slog.Error("list archive failed", "error", err)
		}
		for _, c := range archived {
			if !slices.Contains(names, c.Name) {
				names = append(names, c.Name)
			}
		}
		slices.Sort(names)
	}
	if len(names) == 0 {
		fmt.Fprintln(s.out, "No saved games found.")
		return
	}
	fmt.Fprintln(s.out, "Available saved games:")
	for _, n := range names {
		fmt.Fprintf(s.out, "- %s\n", n)
	}
}

// loadCity reads a save slot, falling back to the archive when the slot is
// missing.
func loadCity(store *persistence.FileStore, db *persistence.DB, name string) (*engine.City, error) {
	city, err := store.Load(name)
	if errors.Is(err, persistence.ErrSnapshotNotFound) && db != nil {
		city, err = db.LoadCity(name)
	}
	if err != nil {
		slog.Error("load failed", "name", name, "error", err)
		return nil, err
	}
	return city, nil
}

// startCity resumes the slot named load, or founds a new city when no slot is
// given or the slot cannot be read.
func startCity(out io.Writer, store *persistence.FileStore, db *persistence.DB, load, name string, size int) *engine.City {
	if load != "" {
		city, err := loadCity(store, db, load)
		if err == nil {
			fmt.Fprintf(out, "Loaded game: %s\n", city.Name)
			return city
		}
		fmt.Fprintf(out, "%s Starting a new city.\n", describe(err))
	}
	return engine.NewCity(name, size)
}

// describe turns a game error into the message shown to the player.
func describe(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidCoordinates):
		return "Invalid coordinates!"
	case errors.Is(err, engine.ErrCellOccupied):
		return "Cell already occupied!"
	case errors.Is(err, engine.ErrInsufficientFunds):
		return "Insufficient funds!"
	case errors.Is(err, engine.ErrUnknownCode):
		return "Invalid building type!"
	case errors.Is(err, engine.ErrNothingToDemolish):
		return "Nothing to demolish at these coordinates."
	case errors.Is(err, engine.ErrInvalidTaxRate):
		return "Tax rate must be between 0 and 20%"
	case errors.Is(err, persistence.ErrSnapshotNotFound):
		return "No save file found."
	case errors.Is(err, persistence.ErrSnapshotCorrupt):
		return "Error reading save file."
	}
	return "Error: " + err.Error()
}
