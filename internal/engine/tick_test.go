package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citysim/internal/entropy"
)

func TestEngineStepHooks(t *testing.T) {
	city := NewCity("Hooks", 5)
	eng := NewEngine(city, &entropy.Script{Floats: []float64{0.5, 0.05}, Ints: []int{int(EventEfficiency)}})
	eng.AutosaveEvery = 2

	var turns []uint64
	var fired int
	saves := 0
	eng.OnTurn = func(c *City, ev *Event) error {
		turns = append(turns, c.Turn)
		if ev != nil {
			fired++
		}
		return errors.New("ignored")
	}
	eng.OnAutosave = func(c *City) error {
		saves++
		return nil
	}

	events := eng.Run(5)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, turns)
	assert.Equal(t, 2, fired)
	assert.Len(t, events, 2)
	assert.Equal(t, 2, saves)
	assert.Equal(t, uint64(5), city.Turn)
	require.Len(t, eng.Events, 2)
	assert.Equal(t, uint64(2), eng.Events[0].Turn)
	assert.Equal(t, uint64(4), eng.Events[1].Turn)
}

func TestEngineEventLogBounded(t *testing.T) {
	eng := NewEngine(NewCity("Busy", 3), &entropy.Script{Floats: []float64{0}, Ints: []int{int(EventEfficiency)}})
	eng.Run(MaxRecentEvents + 5)

	require.Len(t, eng.Events, MaxRecentEvents)
	assert.Equal(t, uint64(6), eng.Events[0].Turn)

	recent := eng.RecentEvents(3)
	require.Len(t, recent, 3)
	assert.Equal(t, uint64(MaxRecentEvents+5), recent[2].Turn)
	assert.Len(t, eng.RecentEvents(0), MaxRecentEvents)
}

func TestEngineReplace(t *testing.T) {
	eng := NewEngine(NewCity("Old", 3), &entropy.Script{Floats: []float64{0}})
	eng.Step()
	require.NotEmpty(t, eng.Events)

	loaded := NewCity("New", 4)
	loaded.Turn = 41
	eng.Replace(loaded)
	assert.Empty(t, eng.Events)

	eng.Step()
	assert.Equal(t, uint64(42), loaded.Turn)
}
