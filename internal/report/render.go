package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/persistence"
	"github.com/talgya/citysim/internal/world"
)

// Map cell glyphs for cells without a building.
const (
	GlyphInfra = "+"
	GlyphEmpty = "."
)

// RenderMap writes c's grid with column and row indices. A building shows its
// symbol, a cell with only infrastructure shows GlyphInfra.
func RenderMap(w io.Writer, c *engine.City) {
	size := c.Size()
	width := len(strconv.Itoa(size - 1))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width+1))
	for x := 0; x < size; x++ {
		fmt.Fprintf(&b, "%-*d ", width, x)
	}
	b.WriteString("\n")

	for y := 0; y < size; y++ {
		fmt.Fprintf(&b, "%*d ", width, y)
		for x := 0; x < size; x++ {
			at := world.C(x, y)
			glyph := GlyphEmpty
			if code := c.Grid.Get(at); code != world.CodeNone {
				glyph = code.String()
			} else if c.Infra.Any(at) {
				glyph = GlyphInfra
			}
			fmt.Fprintf(&b, "%-*s ", width, glyph)
		}
		b.WriteString("\n")
	}
	io.WriteString(w, b.String())
}

func (s Stats) Render(w io.Writer) {
	fmt.Fprintf(w, "=== %s Statistics ===\n", s.City)
	fmt.Fprintf(w, "Money: %s\n", Money(s.Treasury))
	fmt.Fprintf(w, "Population: %s\n", humanize.Comma(int64(s.Population)))
	fmt.Fprintf(w, "Happiness: %d%%\n", s.Happiness)
	fmt.Fprintf(w, "Tax Rate: %g%%\n", s.TaxRate)
	fmt.Fprintf(w, "Employment Rate: %.1f%%\n", s.Employment)
	fmt.Fprintf(w, "Business Confidence: %.1f%%\n", s.Confidence)
	fmt.Fprintf(w, "GDP: %s\n", Money(s.GDP))
	fmt.Fprintf(w, "Time Elapsed: %d turns\n", s.Turn)
}

func (a Audit) Render(w io.Writer) {
	fmt.Fprintf(w, "=== Detailed Audit of %s ===\n", a.City)

	fmt.Fprintln(w, "\nBuilding Inventory:")
	if len(a.Inventory) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, l := range a.Inventory {
		fmt.Fprintf(w, "%s: %s\n", l.Name, humanize.Comma(int64(l.Count)))
	}

	fmt.Fprintln(w, "\nInfrastructure Coverage:")
	fmt.Fprintf(w, "Power Grid: %.1f%%\n", a.Coverage[world.UtilityPower])
	fmt.Fprintf(w, "Road Network: %.1f%%\n", a.Coverage[world.UtilityRoad])
	fmt.Fprintf(w, "Water System: %.1f%%\n", a.Coverage[world.UtilityWater])

	fmt.Fprintln(w, "\nFinancial Summary:")
	fmt.Fprintf(w, "Total Building Investment: %s\n", Money(a.Investment))
	fmt.Fprintf(w, "Current Liquid Assets: %s\n", Money(a.Treasury))
	fmt.Fprintf(w, "Maintenance per Turn: %s\n", Money(a.Maintenance))

	fmt.Fprintln(w, "\nEconomic Analysis:")
	fmt.Fprintf(w, "GDP per Capita: %s\n", Money(a.GDPPerCapita))
	for _, s := range a.Sectors {
		fmt.Fprintf(w, "%s sector:\n", s.Name)
		fmt.Fprintf(w, "  Jobs: %s\n", humanize.Comma(int64(s.Jobs)))
		fmt.Fprintf(w, "  Income: %s\n", Money(s.Income))
	}
}

func (e Economy) Render(w io.Writer) {
	fmt.Fprintf(w, "=== Economic Report for %s ===\n", e.City)

	fmt.Fprintln(w, "\nMacroeconomic Indicators:")
	fmt.Fprintf(w, "GDP: %s\n", Money(e.GDP))
	fmt.Fprintf(w, "GDP per Capita: %s\n", Money(e.GDPPerCapita))
	fmt.Fprintf(w, "Employment Rate: %.1f%%\n", e.Employment)
	fmt.Fprintf(w, "Business Confidence: %.1f%%\n", e.Confidence)
	fmt.Fprintf(w, "Inflation Rate: %.1f%%\n", e.Inflation)

	fmt.Fprintln(w, "\nSector Analysis:")
	for _, s := range e.Sectors {
		fmt.Fprintf(w, "%s:\n", s.Name)
		fmt.Fprintf(w, "  Jobs: %s (%.1f%% of workforce)\n", humanize.Comma(int64(s.Jobs)), s.JobsShare)
		fmt.Fprintf(w, "  Income: %s (%.1f%% of economy)\n", Money(s.Income), s.IncomeShare)
		fmt.Fprintf(w, "  Revenue per Job: %s\n", Money(s.RevenuePerJob))
	}

	fmt.Fprintln(w, "\nFiscal Analysis:")
	fmt.Fprintf(w, "Tax Revenue per Turn: %s\n", Money(e.TaxRevenue))
	fmt.Fprintf(w, "Maintenance per Turn: %s\n", Money(e.Maintenance))
	fmt.Fprintf(w, "Net Income per Turn: %s\n", Money(e.NetIncome))

	fmt.Fprintln(w, "\nGrowth Metrics:")
	fmt.Fprintf(w, "Tax Burden: %.1f%% of GDP\n", e.TaxBurden)
	fmt.Fprintf(w, "Jobs per Resident: %.2f\n", e.JobsPerResident)
	fmt.Fprintf(w, "City Wealth Rating: %s\n", e.Wealth)
}

// RenderEvents lists events one per line in the given order.
func RenderEvents(w io.Writer, events []engine.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events yet.")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(w, "Turn %d [%s] %s\n", ev.Turn, ev.Category, ev.Description)
	}
}

// RenderHistory writes per-turn figures as an aligned table.
func RenderHistory(w io.Writer, rows []persistence.TurnStats) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No history recorded.")
		return
	}
	fmt.Fprintf(w, "%6s  %16s  %10s  %5s  %16s\n", "Turn", "Money", "Population", "Happy", "GDP")
	for _, r := range rows {
		fmt.Fprintf(w, "%6d  %16s  %10s  %4d%%  %16s\n",
			r.Turn, Money(r.Treasury), humanize.Comma(int64(r.Population)), r.Happiness, Money(r.GDP))
	}
}
