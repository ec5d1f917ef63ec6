package world

import (
	"errors"
	"strings"
)

// ErrUnknownCode is returned when a string names no building or infrastructure code.
var ErrUnknownCode = errors.New("unknown building type")

// Code identifies what can be placed on a grid cell: a zone, an amenity, or a utility.
type Code uint8

const (
	CodeNone        Code = iota // Empty cell
	CodeResidential             // Houses residents, drives population
	CodeCommercial              // Shops and offices
	CodeIndustrial              // Factories, highest income
	CodePark                    // Happiness amenity
	CodeHospital                // Happiness amenity
	CodeSchool                  // Happiness amenity
	CodeFireStation             // Amenity with no stat effect
	CodePower                   // Power line overlay
	CodeRoad                    // Road overlay
	CodeWater                   // Water pipe overlay

	// CodeCount is the number of codes including CodeNone. Arrays indexed by
	// Code use it as their length.
	CodeCount
)

// Category groups codes by how they occupy the grid.
type Category uint8

const (
	CategoryNone    Category = iota
	CategoryZone             // Occupies a cell, feeds the economy
	CategoryAmenity          // Occupies a cell, affects happiness only
	CategoryUtility          // Overlays a cell, never occupies it
)

// CodeInfo is the fixed table entry for a code.
type CodeInfo struct {
	Symbol   string   // Wire and map symbol ("R", "POWER", ...)
	Long     string   // Long command name ("RESIDENTIAL", ...)
	Name     string   // Display name
	Cost     float64  // Build price in dollars
	Category Category
}

var codeTable = [CodeCount]CodeInfo{
	CodeNone:        {Symbol: "", Long: "", Name: "Empty", Cost: 0, Category: CategoryNone},
	CodeResidential: {Symbol: "R", Long: "RESIDENTIAL", Name: "Residential Zone", Cost: 1000, Category: CategoryZone},
	CodeCommercial:  {Symbol: "C", Long: "COMMERCIAL", Name: "Commercial Zone", Cost: 2000, Category: CategoryZone},
	CodeIndustrial:  {Symbol: "I", Long: "INDUSTRIAL", Name: "Industrial Zone", Cost: 3000, Category: CategoryZone},
	CodePark:        {Symbol: "P", Long: "PARK", Name: "Park", Cost: 1500, Category: CategoryAmenity},
	CodeHospital:    {Symbol: "H", Long: "HOSPITAL", Name: "Hospital", Cost: 5000, Category: CategoryAmenity},
	CodeSchool:      {Symbol: "S", Long: "SCHOOL", Name: "School", Cost: 3000, Category: CategoryAmenity},
	CodeFireStation: {Symbol: "F", Long: "FIRE_STATION", Name: "Fire Station", Cost: 2500, Category: CategoryAmenity},
	CodePower:       {Symbol: "POWER", Long: "POWER", Name: "Power Line", Cost: 500, Category: CategoryUtility},
	CodeRoad:        {Symbol: "ROAD", Long: "ROAD", Name: "Road", Cost: 300, Category: CategoryUtility},
	CodeWater:       {Symbol: "WATER", Long: "WATER", Name: "Water Pipe", Cost: 400, Category: CategoryUtility},
}

// BuildingCodes lists every code that occupies a cell, in display order.
var BuildingCodes = []Code{
	CodeResidential, CodeCommercial, CodeIndustrial,
	CodePark, CodeHospital, CodeSchool, CodeFireStation,
}

// AllCodes lists every placeable code.
var AllCodes = []Code{
	CodeResidential, CodeCommercial, CodeIndustrial,
	CodePark, CodeHospital, CodeSchool, CodeFireStation,
	CodePower, CodeRoad, CodeWater,
}

// Valid reports whether c is a placeable code.
func (c Code) Valid() bool {
	return c > CodeNone && c < CodeCount
}

// Info returns the table entry for c. Invalid codes get the CodeNone entry.
func (c Code) Info() CodeInfo {
	if c >= CodeCount {
		return codeTable[CodeNone]
	}
	return codeTable[c]
}

// Cost returns the build price of c.
func (c Code) Cost() float64 { return c.Info().Cost }

// Name returns the display name of c.
func (c Code) Name() string {
	if c >= CodeCount {
		return "Unknown"
	}
	return codeTable[c].Name
}

// String returns the wire symbol.
func (c Code) String() string { return c.Info().Symbol }

// IsBuilding reports whether c occupies a grid cell.
func (c Code) IsBuilding() bool {
	cat := c.Info().Category
	return cat == CategoryZone || cat == CategoryAmenity
}

// IsUtility reports whether c is an infrastructure overlay.
func (c Code) IsUtility() bool {
	return c.Info().Category == CategoryUtility
}

// Utility returns the infrastructure kind for a utility code.
func (c Code) Utility() (Utility, bool) {
	switch c {
	case CodePower:
		return UtilityPower, true
	case CodeRoad:
		return UtilityRoad, true
	case CodeWater:
		return UtilityWater, true
	}
	return 0, false
}

// ParseCode resolves a symbol ("R", "POWER") or long name ("RESIDENTIAL",
// "FIRE_STATION"), ignoring case and surrounding space.
func ParseCode(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return CodeNone, ErrUnknownCode
	}
	for _, c := range AllCodes {
		info := codeTable[c]
		if s == info.Symbol || s == info.Long {
			return c, nil
		}
	}
	return CodeNone, ErrUnknownCode
}

// Counts holds a tally per code, indexed by Code.
type Counts [CodeCount]int

// Total returns the sum over all building codes.
func (n Counts) Total() int {
	total := 0
	for _, c := range BuildingCodes {
		total += n[c]
	}
	return total
}
