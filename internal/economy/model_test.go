package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewModelIndicators(t *testing.T) {
	m := NewModel()
	assert.Equal(t, 0.95, m.EmploymentRate)
	assert.Equal(t, 0.75, m.BusinessConfidence)
	assert.Equal(t, 0.02, m.InflationRate)
	assert.Zero(t, m.GDP)
	assert.Zero(t, m.TotalJobs())
}

func TestUpdateSectorFormulas(t *testing.T) {
	m := NewModel()
	taxable := m.Update(Counts{Residential: 2, Commercial: 1, Industrial: 1}, 100)

	r := m.Sector(SectorResidential)
	c := m.Sector(SectorCommercial)
	i := m.Sector(SectorIndustrial)

	assert.Equal(t, 10, r.Jobs)
	assert.Equal(t, 20, c.Jobs)
	assert.Equal(t, 50, i.Jobs)

	// Income uses the starting confidence of 0.75.
	assert.InDelta(t, 2000.0, r.Income, 1e-9)
	assert.InDelta(t, 1500.0, c.Income, 1e-9)
	assert.InDelta(t, 3750.0, i.Income, 1e-9)
	assert.InDelta(t, 7250.0, m.GDP, 1e-9)

	// 80 jobs for 100 residents.
	assert.InDelta(t, 0.8, m.EmploymentRate, 1e-9)
	assert.InDelta(t, (0.8+0.5)/1.5, m.BusinessConfidence, 1e-9)

	want := 2000*0.05 + 1500*0.08 + 3750*0.12
	assert.InDelta(t, want, taxable, 1e-9)
	assert.InDelta(t, want, m.TaxableIncome(), 1e-9)
}

func TestUpdateConfidenceLagsIncome(t *testing.T) {
	m := NewModel()
	counts := Counts{Commercial: 1}

	m.Update(counts, 1000) // 20 jobs / 1000 residents
	first := m.Sector(SectorCommercial).Income
	assert.InDelta(t, 2000*0.75, first, 1e-9)

	conf := m.BusinessConfidence
	assert.InDelta(t, (0.02+0.5)/1.5, conf, 1e-9)

	m.Update(counts, 1000)
	assert.InDelta(t, 2000*conf, m.Sector(SectorCommercial).Income, 1e-9)
}

func TestUpdateEmploymentCapped(t *testing.T) {
	m := NewModel()
	m.Update(Counts{Industrial: 3}, 0)
	assert.Equal(t, 1.0, m.EmploymentRate)
	assert.Equal(t, 1.0, m.BusinessConfidence)
}

func TestUpdateEmptyCity(t *testing.T) {
	m := NewModel()
	taxable := m.Update(Counts{}, 0)
	assert.Zero(t, taxable)
	assert.Zero(t, m.GDP)
	assert.Zero(t, m.EmploymentRate)
	assert.InDelta(t, 0.5/1.5, m.BusinessConfidence, 1e-9)
}

func TestApplyShockClamps(t *testing.T) {
	m := NewModel()
	m.ApplyShock(0.10, 0.05)
	assert.Equal(t, 1.0, m.EmploymentRate)
	assert.InDelta(t, 0.80, m.BusinessConfidence, 1e-9)

	m.EmploymentRate = 0.12
	m.BusinessConfidence = 0.15
	m.ApplyShock(-0.05, -0.10)
	assert.Equal(t, ShockFloor, m.EmploymentRate)
	assert.Equal(t, ShockFloor, m.BusinessConfidence)
}
