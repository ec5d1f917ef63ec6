// Package world provides the city grid, placement codes, and infrastructure overlays.
// Cells are addressed as (x, y) with x the column and y the row.
package world

import "fmt"

// Coord is a cell position on the grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord { return Coord{X: x, Y: y} }

// BuildingRecord notes which code was placed where. Records are kept in
// placement order.
type BuildingRecord struct {
	X    int
	Y    int
	Code Code
}

// Coord returns the record's cell.
func (b BuildingRecord) Coord() Coord { return Coord{X: b.X, Y: b.Y} }

// Grid is a square N×N board of building codes plus the ordered record list
// that mirrors it. Every occupied cell has exactly one record.
type Grid struct {
	size    int
	cells   []Code // row-major: y*size + x
	records []BuildingRecord
}

// NewGrid creates an empty grid with the given side length.
func NewGrid(size int) *Grid {
	if size < 1 {
		size = 1
	}
	return &Grid{
		size:  size,
		cells: make([]Code, size*size),
	}
}

// Size returns the side length N.
func (g *Grid) Size() int { return g.size }

// CellCount returns N².
func (g *Grid) CellCount() int { return g.size * g.size }

// InBounds returns true if c lies within [0,N) on both axes.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

// Get returns the code at c, or CodeNone if empty or out of bounds.
func (g *Grid) Get(c Coord) Code {
	if !g.InBounds(c) {
		return CodeNone
	}
	return g.cells[c.Y*g.size+c.X]
}

// Occupied returns true if a building sits at c.
func (g *Grid) Occupied(c Coord) bool {
	return g.Get(c) != CodeNone
}

// Place writes a building code into an empty cell and appends its record.
func (g *Grid) Place(c Coord, code Code) error {
	if !g.InBounds(c) {
		return fmt.Errorf("place %v: out of bounds", c)
	}
	if !code.IsBuilding() {
		return fmt.Errorf("place %v: %q is not a building", c, code.String())
	}
	idx := c.Y*g.size + c.X
	if g.cells[idx] != CodeNone {
		return fmt.Errorf("place %v: cell occupied", c)
	}
	g.cells[idx] = code
	g.records = append(g.records, BuildingRecord{X: c.X, Y: c.Y, Code: code})
	return nil
}

// Remove clears the cell at c and drops its record. It returns the code that
// was removed, or CodeNone if the cell was already empty.
func (g *Grid) Remove(c Coord) Code {
	if !g.InBounds(c) {
		return CodeNone
	}
	idx := c.Y*g.size + c.X
	code := g.cells[idx]
	if code == CodeNone {
		return CodeNone
	}
	g.cells[idx] = CodeNone

	kept := g.records[:0]
	for _, r := range g.records {
		if r.X != c.X || r.Y != c.Y {
			kept = append(kept, r)
		}
	}
	g.records = kept
	return code
}

// Records returns a copy of the building records in placement order.
func (g *Grid) Records() []BuildingRecord {
	out := make([]BuildingRecord, len(g.records))
	copy(out, g.records)
	return out
}

// Counts tallies occupied cells per code over the full grid.
func (g *Grid) Counts() Counts {
	var n Counts
	for _, code := range g.cells {
		if code != CodeNone {
			n[code]++
		}
	}
	return n
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(size=%d, buildings=%d)", g.size, len(g.records))
}
