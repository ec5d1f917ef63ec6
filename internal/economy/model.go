// Package economy derives jobs, sector income, employment, business confidence,
// and the taxable income figure from the city's zone counts.
package economy

// Initial macro indicators for a new city.
const (
	InitialEmploymentRate     = 0.95
	InitialBusinessConfidence = 0.75
	InitialInflationRate      = 0.02
)

// Shock bounds: events never push employment or confidence outside this range.
const (
	ShockFloor   = 0.1
	ShockCeiling = 1.0
)

// SectorKind names one of the three zoned sectors.
type SectorKind uint8

const (
	SectorResidential SectorKind = iota
	SectorCommercial
	SectorIndustrial

	sectorCount
)

// SectorKinds lists the sectors in report order.
var SectorKinds = [sectorCount]SectorKind{SectorResidential, SectorCommercial, SectorIndustrial}

// Symbol returns the sector's zone symbol ("R", "C", "I").
func (k SectorKind) Symbol() string {
	switch k {
	case SectorResidential:
		return "R"
	case SectorCommercial:
		return "C"
	case SectorIndustrial:
		return "I"
	}
	return "?"
}

// sectorRates are the fixed per-building multipliers.
type sectorRates struct {
	Jobs    int     // Jobs per zone
	Income  float64 // Income per zone, before confidence
	TaxRate float64 // Share of income that is taxable
	Confide bool    // Income scales with business confidence
}

var rates = [sectorCount]sectorRates{
	SectorResidential: {Jobs: 5, Income: 1000, TaxRate: 0.05},
	SectorCommercial:  {Jobs: 20, Income: 2000, TaxRate: 0.08, Confide: true},
	SectorIndustrial:  {Jobs: 50, Income: 5000, TaxRate: 0.12, Confide: true},
}

// Sector holds derived figures for one sector. It carries no history: every
// update overwrites it.
type Sector struct {
	Jobs   int     `json:"jobs"`
	Income float64 `json:"income"`
}

// Counts is the number of zones per sector.
type Counts struct {
	Residential int
	Commercial  int
	Industrial  int
}

func (c Counts) of(k SectorKind) int {
	switch k {
	case SectorResidential:
		return c.Residential
	case SectorCommercial:
		return c.Commercial
	case SectorIndustrial:
		return c.Industrial
	}
	return 0
}

// Model is the city economy.
type Model struct {
	EmploymentRate     float64 `json:"employment_rate"`     // 0.0–1.0
	BusinessConfidence float64 `json:"business_confidence"` // 0.0–1.0
	InflationRate      float64 `json:"inflation_rate"`      // Static, carried in saves
	GDP                float64 `json:"gdp"`                 // Sum of sector income

	Sectors [sectorCount]Sector `json:"-"`
}

// NewModel creates an economy with the initial indicators and empty sectors.
func NewModel() *Model {
	return &Model{
		EmploymentRate:     InitialEmploymentRate,
		BusinessConfidence: InitialBusinessConfidence,
		InflationRate:      InitialInflationRate,
	}
}

// Sector returns the figures for k.
func (m *Model) Sector(k SectorKind) Sector {
	if k >= sectorCount {
		return Sector{}
	}
	return m.Sectors[k]
}

// Update recomputes every sector from zone counts and population, then
// advances employment and confidence. It returns the taxable income.
//
// Income uses the confidence from the previous update; confidence moves only
// after employment is known. Callers depend on this one-step lag.
func (m *Model) Update(counts Counts, population int) float64 {
	for _, k := range SectorKinds {
		n := counts.of(k)
		r := rates[k]
		income := float64(n) * r.Income
		if r.Confide {
			income *= m.BusinessConfidence
		}
		m.Sectors[k] = Sector{Jobs: n * r.Jobs, Income: income}
	}

	m.GDP = 0
	for _, s := range m.Sectors {
		m.GDP += s.Income
	}

	pop := population
	if pop < 1 {
		pop = 1
	}
	m.EmploymentRate = min(1.0, float64(m.TotalJobs())/float64(pop))
	m.BusinessConfidence = min(1.0, (m.EmploymentRate+0.5)/1.5)

	return m.TaxableIncome()
}

// TaxableIncome is the sector-weighted income before the city tax rate.
func (m *Model) TaxableIncome() float64 {
	total := 0.0
	for _, k := range SectorKinds {
		total += m.Sectors[k].Income * rates[k].TaxRate
	}
	return total
}

// TotalJobs sums jobs across sectors.
func (m *Model) TotalJobs() int {
	total := 0
	for _, s := range m.Sectors {
		total += s.Jobs
	}
	return total
}

// TotalIncome sums income across sectors.
func (m *Model) TotalIncome() float64 {
	total := 0.0
	for _, s := range m.Sectors {
		total += s.Income
	}
	return total
}

// ApplyShock nudges employment and confidence, keeping both within
// [ShockFloor, ShockCeiling].
func (m *Model) ApplyShock(employmentDelta, confidenceDelta float64) {
	m.EmploymentRate = clamp(m.EmploymentRate+employmentDelta, ShockFloor, ShockCeiling)
	m.BusinessConfidence = clamp(m.BusinessConfidence+confidenceDelta, ShockFloor, ShockCeiling)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
