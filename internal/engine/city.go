// Package engine owns the live city: placement, demolition, tax policy, the
// aggregate stats pass, and turn advancement with random events.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/citysim/internal/economy"
	"github.com/talgya/citysim/internal/world"
)

// City defaults.
const (
	DefaultGridSize  = 10
	MaxGridSize      = 1000 // Largest board a config or save may ask for
	StartingTreasury = 10000.0
	StartingHappy    = 100
	DefaultTaxRate   = 10.0
	MaxTaxRate       = 20.0

	// MaintenanceRate is the share of a build's cost added to that code's
	// maintenance liability.
	MaintenanceRate = 0.01

	// TaxPenaltyThreshold is the rate above which each point costs happiness.
	TaxPenaltyThreshold = 10.0
)

// Maintenance is the accrued liability per code, indexed by world.Code.
// Every known code always has an entry.
type Maintenance [world.CodeCount]float64

// Total sums the liability across all codes.
func (m *Maintenance) Total() float64 {
	total := 0.0
	for _, c := range world.AllCodes {
		total += m[c]
	}
	return total
}

// Scale multiplies every code's liability by factor.
func (m *Maintenance) Scale(factor float64) {
	for _, c := range world.AllCodes {
		m[c] *= factor
	}
}

// City is the complete state of one city session.
type City struct {
	Name       string  `json:"name"`
	Treasury   float64 `json:"treasury"`   // Dollars; may go negative
	Population int     `json:"population"` // Derived each stats pass
	Happiness  int     `json:"happiness"`  // 0–100
	TaxRate    float64 `json:"tax_rate"`   // Percent, 0–20
	Turn       uint64  `json:"turn"`       // Monotonic turn counter

	Grid        *world.Grid           `json:"-"`
	Infra       *world.Infrastructure `json:"-"`
	Economy     *economy.Model        `json:"-"`
	Maintenance Maintenance           `json:"-"`
}

// Ledger is the money moved by one stats pass.
type Ledger struct {
	TaxIncome   float64
	Maintenance float64
}

// Net returns tax income less maintenance.
func (l Ledger) Net() float64 { return l.TaxIncome - l.Maintenance }

// NewCity creates a city with starting funds on an empty size×size grid.
func NewCity(name string, size int) *City {
	if size < 1 {
		size = DefaultGridSize
	}
	return &City{
		Name:      name,
		Treasury:  StartingTreasury,
		Happiness: StartingHappy,
		TaxRate:   DefaultTaxRate,
		Grid:      world.NewGrid(size),
		Infra:     world.NewInfrastructure(),
		Economy:   economy.NewModel(),
	}
}

// Size returns the grid side length.
func (c *City) Size() int { return c.Grid.Size() }

// IsConnected returns true if (x, y) has power, road, and water.
func (c *City) IsConnected(x, y int) bool {
	return c.Infra.Connected(world.C(x, y))
}

// Build places code at (x, y), paying its cost and accruing maintenance.
// Utilities may be rebuilt on a cell that already has them; the cost and
// maintenance are charged again.
func (c *City) Build(x, y int, code world.Code) error {
	at := world.C(x, y)
	if !c.Grid.InBounds(at) {
		return fmt.Errorf("build at (%d, %d): %w", x, y, ErrInvalidCoordinates)
	}
	if !code.Valid() {
		return fmt.Errorf("build at (%d, %d): %w", x, y, ErrUnknownCode)
	}
	if code.IsBuilding() && c.Grid.Occupied(at) {
		return fmt.Errorf("build %s at (%d, %d): %w", code.Name(), x, y, ErrCellOccupied)
	}

	cost := code.Cost()
	if c.Treasury < cost {
		return fmt.Errorf("build %s costs $%.0f, have $%.2f: %w", code.Name(), cost, c.Treasury, ErrInsufficientFunds)
	}

	if kind, ok := code.Utility(); ok {
		c.Infra.Add(at, kind)
	} else if err := c.Grid.Place(at, code); err != nil {
		return err
	}

	c.Treasury -= cost
	c.Maintenance[code] += cost * MaintenanceRate

	slog.Debug("built", "code", code.String(), "x", x, "y", y, "cost", cost)
	c.updateStats()
	return nil
}

// Demolish clears the building and every utility at (x, y). It neither
// refunds the cost nor reduces maintenance liability.
func (c *City) Demolish(x, y int) error {
	at := world.C(x, y)
	if !c.Grid.InBounds(at) {
		return fmt.Errorf("demolish at (%d, %d): %w", x, y, ErrInvalidCoordinates)
	}

	demolished := c.Grid.Remove(at) != world.CodeNone
	for _, kind := range world.Utilities {
		if c.Infra.Has(at, kind) {
			c.Infra.Remove(at, kind)
			demolished = true
		}
	}
	if !demolished {
		return fmt.Errorf("demolish at (%d, %d): %w", x, y, ErrNothingToDemolish)
	}

	slog.Debug("demolished", "x", x, "y", y)
	c.updateStats()
	return nil
}

// SetTaxRate changes the tax policy. The new rate takes effect on the next
// stats pass.
func (c *City) SetTaxRate(rate float64) error {
	if !(rate >= 0 && rate <= MaxTaxRate) {
		return fmt.Errorf("set tax rate %v: %w", rate, ErrInvalidTaxRate)
	}
	c.TaxRate = rate
	return nil
}

// ConnectedCells counts grid cells with all three utilities.
func (c *City) ConnectedCells() int {
	n := 0
	size := c.Grid.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if c.Infra.Connected(world.C(x, y)) {
				n++
			}
		}
	}
	return n
}

// InfraCoverage is the fraction of grid cells that are connected.
func (c *City) InfraCoverage() float64 {
	return float64(c.ConnectedCells()) / float64(c.Grid.CellCount())
}

// BuildingCounts tallies occupied cells per code.
func (c *City) BuildingCounts() world.Counts {
	return c.Grid.Counts()
}

// TaxRevenue is the taxable income at the current rate.
func (c *City) TaxRevenue() float64 {
	return c.Economy.TaxableIncome() * (c.TaxRate / 100)
}

// updateStats recomputes population, happiness, and the economy, then
// collects taxes and charges maintenance. The full maintenance liability is
// charged on every pass.
func (c *City) updateStats() Ledger {
	counts := c.Grid.Counts()
	coverage := c.InfraCoverage()

	// Population from residential zones, boosted by connected infrastructure.
	base := float64(counts[world.CodeResidential] * 100)
	c.Population = int(math.Floor(base * (0.5 + 0.5*coverage)))

	// Happiness from amenities and infrastructure, less the tax penalty.
	happiness := 50 +
		float64(counts[world.CodePark])*5 +
		float64(counts[world.CodeHospital])*10 +
		float64(counts[world.CodeSchool])*7 +
		coverage*20 -
		math.Max(0, c.TaxRate-TaxPenaltyThreshold)*2
	c.Happiness = int(math.Max(0, math.Min(100, happiness)))

	// Economy consumes the fresh population; taxes follow the economy.
	taxable := c.Economy.Update(economy.Counts{
		Residential: counts[world.CodeResidential],
		Commercial:  counts[world.CodeCommercial],
		Industrial:  counts[world.CodeIndustrial],
	}, c.Population)

	ledger := Ledger{
		TaxIncome:   taxable * (c.TaxRate / 100),
		Maintenance: c.Maintenance.Total(),
	}
	c.Treasury += ledger.TaxIncome
	c.Treasury -= ledger.Maintenance
	return ledger
}
