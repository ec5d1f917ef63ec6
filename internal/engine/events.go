// Random city events, rolled once per turn.
package engine

import (
	"log/slog"

	"github.com/talgya/citysim/internal/entropy"
)

// EventChance is the probability that a turn fires an event.
const EventChance = 0.10

// EventKind identifies one of the random events.
type EventKind uint8

const (
	EventBoom            EventKind = iota // Treasury and confidence up
	EventRecession                        // Treasury and confidence down
	EventEfficiency                       // Maintenance ×0.9
	EventInfraAging                       // Maintenance ×1.1

	eventKindCount
)

type eventDef struct {
	Name        string
	Category    string
	Description string

	Treasury        float64 // Added to treasury
	EmploymentDelta float64
	ConfidenceDelta float64
	MaintenanceMult float64 // 0 leaves maintenance alone
}

var eventTable = [eventKindCount]eventDef{
	EventBoom: {
		Name:            "economic_boom",
		Category:        "economy",
		Description:     "Economic boom! Businesses are thriving.",
		Treasury:        1000,
		EmploymentDelta: 0.10,
		ConfidenceDelta: 0.05,
	},
	EventRecession: {
		Name:            "recession",
		Category:        "economy",
		Description:     "Recession hits the city.",
		Treasury:        -500,
		EmploymentDelta: -0.05,
		ConfidenceDelta: -0.10,
	},
	EventEfficiency: {
		Name:            "efficiency_gain",
		Category:        "maintenance",
		Description:     "New technology brings efficiency improvements.",
		MaintenanceMult: 0.9,
	},
	EventInfraAging: {
		Name:            "infrastructure_aging",
		Category:        "maintenance",
		Description:     "Infrastructure aging causes increased maintenance.",
		MaintenanceMult: 1.1,
	},
}

// String returns the event's machine name.
func (k EventKind) String() string {
	if k >= eventKindCount {
		return "unknown"
	}
	return eventTable[k].Name
}

// Event is a notable occurrence during a turn.
type Event struct {
	Turn        uint64    `json:"turn"`
	Kind        EventKind `json:"kind"`
	Description string    `json:"description"`
	Category    string    `json:"category"` // "economy" or "maintenance"
}

// AdvanceTurn increments the turn counter, runs a stats pass, then rolls for a
// random event. It returns the event that fired, or nil.
func (c *City) AdvanceTurn(rng entropy.Source) *Event {
	c.Turn++
	ledger := c.updateStats()

	slog.Debug("turn advanced",
		"turn", c.Turn,
		"treasury", c.Treasury,
		"population", c.Population,
		"happiness", c.Happiness,
		"tax_income", ledger.TaxIncome,
		"maintenance", ledger.Maintenance,
	)

	if rng.Float64() >= EventChance {
		return nil
	}
	kind := EventKind(rng.Intn(int(eventKindCount)))
	c.ApplyEvent(kind)

	def := eventTable[kind]
	return &Event{
		Turn:        c.Turn,
		Kind:        kind,
		Description: def.Description,
		Category:    def.Category,
	}
}

// ApplyEvent applies kind's effect. Unknown kinds are ignored.
func (c *City) ApplyEvent(kind EventKind) {
	if kind >= eventKindCount {
		return
	}
	def := eventTable[kind]
	if def.MaintenanceMult != 0 {
		c.Maintenance.Scale(def.MaintenanceMult)
		return
	}
	c.Treasury += def.Treasury
	c.Economy.ApplyShock(def.EmploymentDelta, def.ConfidenceDelta)
}
