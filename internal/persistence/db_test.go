package persistence

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citysim/internal/engine"
	"github.com/talgya/citysim/internal/entropy"
	"github.com/talgya/citysim/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "city.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBSaveLoadCity(t *testing.T) {
	db := openTestDB(t)
	c := builtCity(t)

	id, err := db.SaveCity(c)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := db.LoadCity(c.Name)
	require.NoError(t, err)
	assertSameCity(t, c, got)

	// Overwriting keeps the save ID and the latest state.
	c.AdvanceTurn(entropy.NewSeeded(3))
	again, err := db.SaveCity(c)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err = db.LoadCity(c.Name)
	require.NoError(t, err)
	assert.Equal(t, c.Turn, got.Turn)

	_, err = db.LoadCity("Nowhere")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestDBListCities(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{"Bravo", "Alpha"} {
		_, err := db.SaveCity(engine.NewCity(name, 3))
		require.NoError(t, err)
	}

	cities, err := db.ListCities()
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Alpha", cities[0].Name)
	assert.Equal(t, "Bravo", cities[1].Name)
	assert.NotEqual(t, cities[0].SaveID, cities[1].SaveID)
	assert.NotEmpty(t, cities[0].SavedAt)
}

func TestDBEvents(t *testing.T) {
	db := openTestDB(t)

	events := []engine.Event{
		{Turn: 1, Kind: engine.EventBoom, Description: "boom", Category: "economy"},
		{Turn: 4, Kind: engine.EventInfraAging, Description: "aging", Category: "maintenance"},
		{Turn: 9, Kind: engine.EventRecession, Description: "slump", Category: "economy"},
	}
	require.NoError(t, db.SaveEvents("Eventful", events))
	require.NoError(t, db.SaveEvents("Eventful", nil))
	require.NoError(t, db.SaveEvents("Other", events[:1]))

	got, err := db.RecentEvents("Eventful", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, events[2], got[0])
	assert.Equal(t, events[1], got[1])

	none, err := db.RecentEvents("Quiet", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDBStatsHistory(t *testing.T) {
	db := openTestDB(t)
	c := engine.NewCity("Tracked", 5)
	require.NoError(t, c.Build(0, 0, world.CodeResidential))

	rng := entropy.NewSeeded(8)
	for i := 0; i < 6; i++ {
		c.AdvanceTurn(rng)
		require.NoError(t, db.RecordTurn(c))
	}
	// Re-recording a turn replaces it.
	require.NoError(t, db.RecordTurn(c))

	rows, err := db.StatsHistory("Tracked", 4)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, uint64(3), rows[0].Turn)
	assert.Equal(t, uint64(6), rows[3].Turn)
	assert.Equal(t, c.Treasury, rows[3].Treasury)
	assert.Equal(t, c.Population, rows[3].Population)
	assert.Equal(t, c.Happiness, rows[3].Happiness)
}

func TestDBMeta(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("last_city", "Alpha"))
	require.NoError(t, db.SaveMeta("last_city", "Bravo"))

	v, err := db.GetMeta("last_city")
	require.NoError(t, err)
	assert.Equal(t, "Bravo", v)

	_, err = db.GetMeta("missing")
	assert.Error(t, err)
}
