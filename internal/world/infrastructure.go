package world

import "sort"

// Utility is an infrastructure kind laid over grid cells.
type Utility uint8

const (
	UtilityPower Utility = iota // Power lines
	UtilityRoad                 // Road network
	UtilityWater                // Water pipes

	utilityCount
)

// Utilities lists every infrastructure kind.
var Utilities = [utilityCount]Utility{UtilityPower, UtilityRoad, UtilityWater}

// Code returns the placement code for the utility.
func (u Utility) Code() Code {
	switch u {
	case UtilityPower:
		return CodePower
	case UtilityRoad:
		return CodeRoad
	case UtilityWater:
		return CodeWater
	}
	return CodeNone
}

// String returns the utility's wire symbol.
func (u Utility) String() string { return u.Code().String() }

// Infrastructure keeps one independent coordinate set per utility kind.
// Membership changes are idempotent and no bounds checks happen here.
type Infrastructure struct {
	sets [utilityCount]map[Coord]struct{}
}

// NewInfrastructure creates empty power, road, and water sets.
func NewInfrastructure() *Infrastructure {
	inf := &Infrastructure{}
	for i := range inf.sets {
		inf.sets[i] = make(map[Coord]struct{})
	}
	return inf
}

// Add marks c as served by kind. Adding an existing member is a no-op.
func (inf *Infrastructure) Add(c Coord, kind Utility) {
	if kind >= utilityCount {
		return
	}
	inf.sets[kind][c] = struct{}{}
}

// Remove drops c from kind's set. Removing a non-member is a no-op.
func (inf *Infrastructure) Remove(c Coord, kind Utility) {
	if kind >= utilityCount {
		return
	}
	delete(inf.sets[kind], c)
}

// Has returns true if c is in kind's set.
func (inf *Infrastructure) Has(c Coord, kind Utility) bool {
	if kind >= utilityCount {
		return false
	}
	_, ok := inf.sets[kind][c]
	return ok
}

// Connected returns true if c carries power, road, and water together.
func (inf *Infrastructure) Connected(c Coord) bool {
	for _, kind := range Utilities {
		if !inf.Has(c, kind) {
			return false
		}
	}
	return true
}

// Any returns true if c carries at least one utility.
func (inf *Infrastructure) Any(c Coord) bool {
	for _, kind := range Utilities {
		if inf.Has(c, kind) {
			return true
		}
	}
	return false
}

// Len returns the number of cells in kind's set.
func (inf *Infrastructure) Len(kind Utility) int {
	if kind >= utilityCount {
		return 0
	}
	return len(inf.sets[kind])
}

// Members returns kind's coordinates sorted by row, then column.
func (inf *Infrastructure) Members(kind Utility) []Coord {
	if kind >= utilityCount {
		return nil
	}
	out := make([]Coord, 0, len(inf.sets[kind]))
	for c := range inf.sets[kind] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
