// Package report derives the figures shown to the mayor and renders them as
// text.
package report

import (
	"github.com/dustin/go-humanize"

	"github.com/talgya/citysim/internal/economy"
	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/world"
)

// Wealth rating thresholds on the treasury.
const (
	WealthyAbove = 100000.0
	StableAbove  = 50000.0
	GrowingAbove = 10000.0
)

// Stats is the headline view of a city.
type Stats struct {
	City       string
	Treasury   float64
	Population int
	Happiness  int
	TaxRate    float64
	Employment float64 // Percent
	Confidence float64 // Percent
	GDP        float64
	Turn       uint64
}

// StatsOf captures c's headline figures.
func StatsOf(c *engine.City) Stats {
	return Stats{
		City:       c.Name,
		Treasury:   c.Treasury,
		Population: c.Population,
		Happiness:  c.Happiness,
		TaxRate:    c.TaxRate,
		Employment: c.Economy.EmploymentRate * 100,
		Confidence: c.Economy.BusinessConfidence * 100,
		GDP:        c.Economy.GDP,
		Turn:       c.Turn,
	}
}

// InventoryLine is one building code in the audit.
type InventoryLine struct {
	Code  world.Code
	Name  string
	Count int
}

// SectorLine is one sector's jobs and income.
type SectorLine struct {
	Kind   economy.SectorKind
	Name   string
	Jobs   int
	Income float64
}

// Audit is the detailed inventory and financial summary.
type Audit struct {
	City         string
	Inventory    []InventoryLine       // Codes with at least one building
	Coverage     [3]float64            // Percent of cells per utility, indexed by world.Utility
	Investment   float64               // Sum of costs of standing buildings
	Treasury     float64
	Maintenance  float64
	GDPPerCapita float64
	Sectors      []SectorLine
}

// AuditOf builds the audit for c.
func AuditOf(c *engine.City) Audit {
	a := Audit{
		City:         c.Name,
		Treasury:     c.Treasury,
		Maintenance:  c.Maintenance.Total(),
		GDPPerCapita: perCapita(c.Economy.GDP, c.Population),
	}

	counts := c.BuildingCounts()
	for _, code := range world.BuildingCodes {
		if counts[code] == 0 {
			continue
		}
		a.Inventory = append(a.Inventory, InventoryLine{Code: code, Name: code.Name(), Count: counts[code]})
		a.Investment += float64(counts[code]) * code.Cost()
	}

	cells := float64(c.Grid.CellCount())
	for _, u := range world.Utilities {
		a.Coverage[u] = float64(c.Infra.Len(u)) / cells * 100
	}

	for _, k := range economy.SectorKinds {
		s := c.Economy.Sector(k)
		a.Sectors = append(a.Sectors, SectorLine{Kind: k, Name: sectorName(k), Jobs: s.Jobs, Income: s.Income})
	}
	return a
}

// SectorShare is one sector's slice of the economy.
type SectorShare struct {
	SectorLine
	JobsShare     float64 // Percent of all jobs
	IncomeShare   float64 // Percent of all income
	RevenuePerJob float64
}

// Economy is the detailed economic report.
type Economy struct {
	City         string
	GDP          float64
	GDPPerCapita float64
	Employment   float64 // Percent
	Confidence   float64 // Percent
	Inflation    float64 // Percent
	Sectors      []SectorShare

	TaxRevenue      float64
	Maintenance     float64
	NetIncome       float64
	TaxBurden       float64 // Tax revenue as percent of GDP
	JobsPerResident float64
	Wealth          string
}

// EconomyOf builds the economic report for c.
func EconomyOf(c *engine.City) Economy {
	m := c.Economy
	r := Economy{
		City:         c.Name,
		GDP:          m.GDP,
		GDPPerCapita: perCapita(m.GDP, c.Population),
		Employment:   m.EmploymentRate * 100,
		Confidence:   m.BusinessConfidence * 100,
		Inflation:    m.InflationRate * 100,
		TaxRevenue:   c.TaxRevenue(),
		Maintenance:  c.Maintenance.Total(),
		Wealth:       WealthRating(c.Treasury),
	}
	r.NetIncome = r.TaxRevenue - r.Maintenance
	r.TaxBurden = r.TaxRevenue / max(m.GDP, 1) * 100

	totalJobs := m.TotalJobs()
	totalIncome := m.TotalIncome()
	for _, k := range economy.SectorKinds {
		s := m.Sector(k)
		r.Sectors = append(r.Sectors, SectorShare{
			SectorLine:    SectorLine{Kind: k, Name: sectorName(k), Jobs: s.Jobs, Income: s.Income},
			JobsShare:     float64(s.Jobs) / float64(max(totalJobs, 1)) * 100,
			IncomeShare:   s.Income / max(totalIncome, 1) * 100,
			RevenuePerJob: s.Income / float64(max(s.Jobs, 1)),
		})
	}
	r.JobsPerResident = float64(totalJobs) / float64(max(c.Population, 1))
	return r
}

// WealthRating grades a treasury balance.
func WealthRating(treasury float64) string {
	switch {
	case treasury > WealthyAbove:
		return "Wealthy"
	case treasury > StableAbove:
		return "Stable"
	case treasury > GrowingAbove:
		return "Growing"
	default:
		return "Struggling"
	}
}

// Money formats a dollar amount with thousands separators and two decimals.
// Debts carry the sign ahead of the dollar mark.
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func perCapita(v float64, population int) float64 {
	return v / float64(max(population, 1))
}

func sectorName(k economy.SectorKind) string {
	switch k {
	case economy.SectorResidential:
		return world.CodeResidential.Name()
	case economy.SectorCommercial:
		return world.CodeCommercial.Name()
	case economy.SectorIndustrial:
		return world.CodeIndustrial.Name()
	}
	return "Unknown"
}
