package persistence

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/citysim/internal/economy"
	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/world"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaJSON)

// Snapshot is the save-file form of a city. Field names match the saves
// written by earlier versions of the game.
type Snapshot struct {
	Name             string             `json:"name"`
	Money            float64            `json:"money"`
	Population       int                `json:"population"`
	Happiness        float64            `json:"happiness"` // Older saves may hold a fraction
	GridSize         int                `json:"grid_size"`
	Grid             [][]*string        `json:"grid"` // grid[y][x], null when empty
	Infrastructure   InfrastructureV1   `json:"infrastructure"`
	Economy          EconomyV1          `json:"economy"`
	TaxRate          float64            `json:"tax_rate"`
	Buildings        []BuildingV1       `json:"buildings"`
	TimeElapsed      uint64             `json:"time_elapsed"`
	MaintenanceCosts map[string]float64 `json:"maintenance_costs"`
}

type InfrastructureV1 struct {
	PowerGrid   [][2]int `json:"power_grid"`
	RoadNetwork [][2]int `json:"road_network"`
	WaterGrid   [][2]int `json:"water_grid"`
}

type EconomyV1 struct {
	EmploymentRate     float64             `json:"employment_rate"`
	GDP                float64             `json:"gdp"`
	InflationRate      float64             `json:"inflation_rate"`
	BusinessConfidence float64             `json:"business_confidence"`
	Sectors            map[string]SectorV1 `json:"sectors"` // "R", "C", "I"
}

type SectorV1 struct {
	Jobs   int     `json:"jobs"`
	Income float64 `json:"income"`
}

// BuildingV1 is encoded as a three-element array: [x, y, code].
type BuildingV1 struct {
	X    int
	Y    int
	Code string
}

func (b BuildingV1) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{b.X, b.Y, b.Code})
}

func (b *BuildingV1) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("building record has %d fields, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &b.X); err != nil {
		return fmt.Errorf("building x: %w", err)
	}
	if err := json.Unmarshal(parts[1], &b.Y); err != nil {
		return fmt.Errorf("building y: %w", err)
	}
	if err := json.Unmarshal(parts[2], &b.Code); err != nil {
		return fmt.Errorf("building code: %w", err)
	}
	return nil
}

// FromCity captures the full state of c.
func FromCity(c *engine.City) Snapshot {
	size := c.Size()
	snap := Snapshot{
		Name:        c.Name,
		Money:       c.Treasury,
		Population:  c.Population,
		Happiness:   float64(c.Happiness),
		GridSize:    size,
		Grid:        make([][]*string, size),
		TaxRate:     c.TaxRate,
		TimeElapsed: c.Turn,
		Buildings:   []BuildingV1{},
		Economy: EconomyV1{
			EmploymentRate:     c.Economy.EmploymentRate,
			GDP:                c.Economy.GDP,
			InflationRate:      c.Economy.InflationRate,
			BusinessConfidence: c.Economy.BusinessConfidence,
			Sectors:            make(map[string]SectorV1, len(economy.SectorKinds)),
		},
		MaintenanceCosts: make(map[string]float64, len(world.AllCodes)),
	}

	for y := 0; y < size; y++ {
		row := make([]*string, size)
		for x := 0; x < size; x++ {
			if code := c.Grid.Get(world.C(x, y)); code != world.CodeNone {
				sym := code.String()
				row[x] = &sym
			}
		}
		snap.Grid[y] = row
	}

	snap.Infrastructure = InfrastructureV1{
		PowerGrid:   coordPairs(c.Infra.Members(world.UtilityPower)),
		RoadNetwork: coordPairs(c.Infra.Members(world.UtilityRoad)),
		WaterGrid:   coordPairs(c.Infra.Members(world.UtilityWater)),
	}

	for _, k := range economy.SectorKinds {
		s := c.Economy.Sector(k)
		snap.Economy.Sectors[k.Symbol()] = SectorV1{Jobs: s.Jobs, Income: s.Income}
	}

	for _, r := range c.Grid.Records() {
		snap.Buildings = append(snap.Buildings, BuildingV1{X: r.X, Y: r.Y, Code: r.Code.String()})
	}

	for _, code := range world.AllCodes {
		snap.MaintenanceCosts[code.String()] = c.Maintenance[code]
	}
	return snap
}

func coordPairs(coords []world.Coord) [][2]int {
	out := make([][2]int, len(coords))
	for i, c := range coords {
		out[i] = [2]int{c.X, c.Y}
	}
	return out
}

// ToCity rebuilds a city from the snapshot, checking that the grid, building
// records, and infrastructure agree with grid_size. Any disagreement is
// reported as ErrSnapshotCorrupt.
func (s Snapshot) ToCity() (*engine.City, error) {
	if s.GridSize < 1 || s.GridSize > engine.MaxGridSize {
		return nil, fmt.Errorf("%w: grid_size %d outside [1, %d]", ErrSnapshotCorrupt, s.GridSize, engine.MaxGridSize)
	}
	if len(s.Grid) != s.GridSize {
		return nil, fmt.Errorf("%w: grid has %d rows, grid_size is %d", ErrSnapshotCorrupt, len(s.Grid), s.GridSize)
	}

	// The whole grid shape is checked before the board is allocated.
	cells := make(map[world.Coord]world.Code)
	for y, row := range s.Grid {
		if len(row) != s.GridSize {
			return nil, fmt.Errorf("%w: grid row %d has %d cells, grid_size is %d", ErrSnapshotCorrupt, y, len(row), s.GridSize)
		}
		for x, cell := range row {
			if cell == nil {
				continue
			}
			code, err := world.ParseCode(*cell)
			if err != nil || !code.IsBuilding() {
				return nil, fmt.Errorf("%w: grid cell (%d, %d) holds %q", ErrSnapshotCorrupt, x, y, *cell)
			}
			cells[world.C(x, y)] = code
		}
	}

	c := engine.NewCity(s.Name, s.GridSize)
	c.Treasury = s.Money
	c.Population = s.Population
	c.Happiness = int(s.Happiness)
	c.TaxRate = s.TaxRate
	c.Turn = s.TimeElapsed

	// Records in saved order, one per occupied cell.
	for _, b := range s.Buildings {
		at := world.C(b.X, b.Y)
		code, err := world.ParseCode(b.Code)
		if err != nil {
			return nil, fmt.Errorf("%w: building at (%d, %d) has code %q", ErrSnapshotCorrupt, b.X, b.Y, b.Code)
		}
		if cells[at] != code {
			return nil, fmt.Errorf("%w: building record (%d, %d, %s) does not match grid", ErrSnapshotCorrupt, b.X, b.Y, b.Code)
		}
		if err := c.Grid.Place(at, code); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
		}
	}
	if got := len(c.Grid.Records()); got != len(cells) {
		return nil, fmt.Errorf("%w: %d occupied cells but %d building records", ErrSnapshotCorrupt, len(cells), got)
	}

	infra := []struct {
		kind  world.Utility
		pairs [][2]int
	}{
		{world.UtilityPower, s.Infrastructure.PowerGrid},
		{world.UtilityRoad, s.Infrastructure.RoadNetwork},
		{world.UtilityWater, s.Infrastructure.WaterGrid},
	}
	for _, set := range infra {
		for _, p := range set.pairs {
			at := world.C(p[0], p[1])
			if !c.Grid.InBounds(at) {
				return nil, fmt.Errorf("%w: %s at (%d, %d) is off the grid", ErrSnapshotCorrupt, set.kind, p[0], p[1])
			}
			c.Infra.Add(at, set.kind)
		}
	}

	c.Economy.EmploymentRate = s.Economy.EmploymentRate
	c.Economy.GDP = s.Economy.GDP
	c.Economy.InflationRate = s.Economy.InflationRate
	c.Economy.BusinessConfidence = s.Economy.BusinessConfidence
	for _, k := range economy.SectorKinds {
		sec, ok := s.Economy.Sectors[k.Symbol()]
		if !ok {
			return nil, fmt.Errorf("%w: missing sector %s", ErrSnapshotCorrupt, k.Symbol())
		}
		c.Economy.Sectors[k] = economy.Sector{Jobs: sec.Jobs, Income: sec.Income}
	}

	for sym, amount := range s.MaintenanceCosts {
		code, err := world.ParseCode(sym)
		if err != nil {
			return nil, fmt.Errorf("%w: maintenance for unknown code %q", ErrSnapshotCorrupt, sym)
		}
		c.Maintenance[code] = amount
	}
	return c, nil
}

// Encode serializes the city as a JSON snapshot.
func Encode(c *engine.City) ([]byte, error) {
	return json.Marshal(FromCity(c))
}

// Decode validates and parses a JSON snapshot. Every failure wraps
// ErrSnapshotCorrupt.
func Decode(data []byte) (*engine.City, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return snap.ToCity()
}
