package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/entropy"
	"github.com/talgya/citysim/internal/persistence"
	"github.com/talgya/citysim/internal/world"
)

// quietSession never rolls an event.
func quietSession(t *testing.T, withDB bool) (*session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	dir := t.TempDir()
	s := &session{
		eng:   engine.NewEngine(engine.NewCity("Testburg", 5), &entropy.Script{Floats: []float64{0.99}}),
		store: persistence.NewFileStore(filepath.Join(dir, "saves"), false),
		out:   &out,
	}
	if withDB {
		db, err := persistence.Open(filepath.Join(dir, "city.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		s.db = db
		s.eng.OnTurn = func(c *engine.City, ev *engine.Event) error {
			if ev != nil {
				if err := db.SaveEvents(c.Name, []engine.Event{*ev}); err != nil {
					return err
				}
			}
			return db.RecordTurn(c)
		}
	}
	return s, &out
}

func TestBuildAdvancesOneTurn(t *testing.T) {
	s, out := quietSession(t, false)

	assert.False(t, s.exec("build 0 0 residential"))
	assert.Contains(t, out.String(), "Successfully built Residential Zone")
	assert.Contains(t, out.String(), "0 R . . . . \n")
	assert.Equal(t, uint64(1), s.city().Turn)
	assert.Equal(t, world.CodeResidential, s.city().Grid.Get(world.C(0, 0)))
}

func TestFailedCommandsDoNotAdvance(t *testing.T) {
	s, out := quietSession(t, false)

	for line, msg := range map[string]string{
		"build 9 9 R":      "Invalid coordinates!",
		"build a b R":      "Invalid coordinates",
		"build 0 0 castle": "Invalid building type!",
		"build 0 0":        "Usage: build x y type",
		"demolish 1 1":     "Nothing to demolish",
		"tax 25":           "Tax rate must be between 0 and 20%",
		"tax lots":         "Invalid tax rate",
		"next 0":           "Turn count must be between 1 and",
		"load nowhere":     "No save file found.",
		"teleport 1 2":     "Invalid command.",
	} {
		out.Reset()
		assert.False(t, s.exec(line), line)
		assert.Contains(t, out.String(), msg, line)
	}
	assert.Zero(t, s.city().Turn)
	assert.Equal(t, engine.StartingTreasury, s.city().Treasury)
}

func TestOccupiedAndBroke(t *testing.T) {
	s, out := quietSession(t, false)
	s.exec("build 0 0 H")

	out.Reset()
	s.exec("build 0 0 P")
	assert.Contains(t, out.String(), "Cell already occupied!")

	s.city().Treasury = 100
	out.Reset()
	s.exec("build 1 1 H")
	assert.Contains(t, out.String(), "Insufficient funds!")
	assert.Equal(t, uint64(1), s.city().Turn)
}

func TestTaxDemolishAndNext(t *testing.T) {
	s, out := quietSession(t, false)

	s.exec("tax 15")
	assert.Contains(t, out.String(), "Tax rate set to 15%")
	assert.Equal(t, 15.0, s.city().TaxRate)

	s.exec("build 2 2 road")
	out.Reset()
	s.exec("demolish 2 2")
	assert.Contains(t, out.String(), "Successfully demolished!")
	assert.False(t, s.city().Infra.Any(world.C(2, 2)))

	out.Reset()
	s.exec("next 5")
	assert.Contains(t, out.String(), "Turn 8:")
	assert.Equal(t, uint64(8), s.city().Turn)
}

func TestEventsAreAnnounced(t *testing.T) {
	s, out := quietSession(t, false)
	s.eng.Rand = &entropy.Script{Floats: []float64{0.01}, Ints: []int{int(engine.EventBoom)}}

	s.exec("next")
	assert.Contains(t, out.String(), "Event: Economic boom!")

	out.Reset()
	s.exec("events")
	assert.Contains(t, out.String(), "Turn 1 [economy]")
}

func TestSaveLoadSlots(t *testing.T) {
	s, out := quietSession(t, false)
	s.exec("build 1 1 S")
	s.exec("save mine")
	assert.Contains(t, out.String(), "Game saved successfully")

	s.exec("build 2 2 P")
	require.Equal(t, world.CodePark, s.city().Grid.Get(world.C(2, 2)))

	out.Reset()
	s.exec("load mine")
	assert.Contains(t, out.String(), "Loaded game: Testburg")
	assert.Equal(t, world.CodeNone, s.city().Grid.Get(world.C(2, 2)))
	assert.Equal(t, world.CodeSchool, s.city().Grid.Get(world.C(1, 1)))

	out.Reset()
	s.exec("saves")
	assert.Contains(t, out.String(), "- mine\n")
}

func TestArchiveBackedCommands(t *testing.T) {
	s, out := quietSession(t, true)
	s.eng.Rand = &entropy.Script{Floats: []float64{0.5, 0.01}, Ints: []int{int(engine.EventRecession)}}

	s.exec("build 0 0 R")
	s.exec("next 3")

	out.Reset()
	s.exec("history")
	assert.Contains(t, out.String(), "Turn")
	assert.Contains(t, out.String(), "Population")

	out.Reset()
	s.exec("events")
	assert.Contains(t, out.String(), "Recession hits the city.")

	s.exec("save slot")
	out.Reset()
	s.exec("saves")
	assert.Contains(t, out.String(), "- Testburg\n")
	assert.Contains(t, out.String(), "- slot\n")

	// The archive answers when the slot file is missing.
	out.Reset()
	s.exec("load Testburg")
	assert.Contains(t, out.String(), "Loaded game: Testburg")
}

func TestHistoryNeedsArchive(t *testing.T) {
	s, out := quietSession(t, false)
	s.exec("history")
	assert.Contains(t, out.String(), "db_path")
}

func TestExit(t *testing.T) {
	s, _ := quietSession(t, false)
	assert.True(t, s.exec("exit"))
	assert.True(t, s.exec("  QUIT "))
	assert.False(t, s.exec("   "))
}

func TestStartCityFallsBackToNewCity(t *testing.T) {
	dir := t.TempDir()
	store := persistence.NewFileStore(dir, false)

	var out bytes.Buffer
	city := startCity(&out, store, nil, "missing", "Fresh", 6)
	require.NotNil(t, city)
	assert.Equal(t, "Fresh", city.Name)
	assert.Equal(t, 6, city.Size())
	assert.Contains(t, out.String(), "No save file found. Starting a new city.")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"grid_size": `), 0o644))
	out.Reset()
	city = startCity(&out, store, nil, "broken", "Fresh", 6)
	assert.Equal(t, "Fresh", city.Name)
	assert.Contains(t, out.String(), "Error reading save file.")

	saved := engine.NewCity("Saved", 4)
	_, err := store.Save("good", saved)
	require.NoError(t, err)
	out.Reset()
	city = startCity(&out, store, nil, "good", "Fresh", 6)
	assert.Equal(t, "Saved", city.Name)
	assert.Equal(t, 4, city.Size())

	city = startCity(&out, store, nil, "", "Blank", 3)
	assert.Equal(t, "Blank", city.Name)
}
