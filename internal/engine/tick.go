package engine

import (
	"log/slog"

	"github.com/talgya/citysim/internal/entropy"
)

// MaxRecentEvents bounds the in-memory event log.
const MaxRecentEvents = 1000

// Engine drives the live city forward one turn at a time.
type Engine struct {
	City *City
	Rand entropy.Source

	Events []Event // Recent events, oldest first

	// AutosaveEvery fires OnAutosave every N turns. 0 disables it.
	AutosaveEvery uint64

	// Hooks, populated during setup. Errors are logged, never fatal.
	OnTurn     func(city *City, ev *Event) error // After every turn
	OnAutosave func(city *City) error            // Every AutosaveEvery turns
}

// NewEngine creates a turn driver for city using rng for event rolls.
func NewEngine(city *City, rng entropy.Source) *Engine {
	return &Engine{
		City: city,
		Rand: rng,
	}
}

// Step advances the city by one turn and returns the event that fired, if any.
func (e *Engine) Step() *Event {
	ev := e.City.AdvanceTurn(e.Rand)
	turn := e.City.Turn

	if ev != nil {
		e.Events = append(e.Events, *ev)
		if len(e.Events) > MaxRecentEvents {
			e.Events = e.Events[len(e.Events)-MaxRecentEvents:]
		}
		slog.Info("event", "turn", turn, "kind", ev.Kind.String(), "description", ev.Description)
	}

	if e.OnTurn != nil {
		if err := e.OnTurn(e.City, ev); err != nil {
			slog.Error("turn hook failed", "turn", turn, "error", err)
		}
	}

	if e.AutosaveEvery > 0 && turn%e.AutosaveEvery == 0 && e.OnAutosave != nil {
		if err := e.OnAutosave(e.City); err != nil {
			slog.Error("autosave failed", "turn", turn, "error", err)
		} else {
			slog.Info("autosaved", "city", e.City.Name, "turn", turn)
		}
	}
	return ev
}

// Run advances n turns and returns the events that fired.
func (e *Engine) Run(n int) []Event {
	var fired []Event
	for i := 0; i < n; i++ {
		if ev := e.Step(); ev != nil {
			fired = append(fired, *ev)
		}
	}
	return fired
}

// Replace swaps in a different city, such as one loaded from a save. The
// event log is cleared since it belonged to the previous city.
func (e *Engine) Replace(city *City) {
	e.City = city
	e.Events = nil
	slog.Info("city replaced", "city", city.Name, "turn", city.Turn)
}

// RecentEvents returns up to n of the latest events, newest last.
func (e *Engine) RecentEvents(n int) []Event {
	if n <= 0 || n >= len(e.Events) {
		out := make([]Event, len(e.Events))
		copy(out, e.Events)
		return out
	}
	out := make([]Event, n)
	copy(out, e.Events[len(e.Events)-n:])
	return out
}
