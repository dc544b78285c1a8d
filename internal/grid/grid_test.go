package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistryFromCapacities(
		Substation{ID: "S01", CapacityKW: 2000},
		Substation{ID: "S02", CapacityKW: 2500},
	)
}

func TestSubstationID(t *testing.T) {
	assert.Equal(t, "S01", SubstationID(1))
	assert.Equal(t, "S15", SubstationID(15))
	assert.Equal(t, "S99", SubstationID(99))
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry(DefaultSubstations, DefaultCapacityMin, DefaultCapacityMax, NewSource(42))

	require.Equal(t, 15, r.Len())
	ids := r.IDs()
	assert.Equal(t, "S01", ids[0])
	assert.Equal(t, "S15", ids[14])

	for _, s := range r.Substations() {
		assert.GreaterOrEqual(t, s.CapacityKW, DefaultCapacityMin, s.ID)
		assert.Less(t, s.CapacityKW, DefaultCapacityMax, s.ID)
	}
}

func TestNewRegistry_SameSeedSameCapacities(t *testing.T) {
	a := NewRegistry(15, 1800, 2600, NewSource(7))
	b := NewRegistry(15, 1800, 2600, NewSource(7))
	assert.Equal(t, a.Substations(), b.Substations())
}

func TestNewRegistry_CollapsedRange(t *testing.T) {
	r := NewRegistry(3, 2000, 2000, NewSource(1))
	for _, s := range r.Substations() {
		assert.Equal(t, 2000, s.CapacityKW)
	}
}

func TestRegistry_Lookups(t *testing.T) {
	r := testRegistry()

	assert.True(t, r.Contains("S01"))
	assert.False(t, r.Contains("S99"))

	c, ok := r.Capacity("S02")
	assert.True(t, ok)
	assert.Equal(t, 2500, c)

	_, ok = r.Capacity("nope")
	assert.False(t, ok)

	assert.Equal(t, 1, r.Index("S02"))
	assert.Equal(t, -1, r.Index("S03"))

	id, ok := r.At(0)
	assert.True(t, ok)
	assert.Equal(t, "S01", id)
	_, ok = r.At(2)
	assert.False(t, ok)
}

func TestRegistry_IDsIsACopy(t *testing.T) {
	r := testRegistry()
	ids := r.IDs()
	ids[0] = "mutated"
	assert.Equal(t, "S01", r.IDs()[0])
}

func TestRegistryFromCapacities_SkipsDuplicates(t *testing.T) {
	r := NewRegistryFromCapacities(
		Substation{ID: "S01", CapacityKW: 1},
		Substation{ID: "S01", CapacityKW: 2},
	)
	assert.Equal(t, 1, r.Len())
	c, _ := r.Capacity("S01")
	assert.Equal(t, 1, c)
}

func TestGenerator_Invariants(t *testing.T) {
	reg := NewRegistry(15, 1800, 2600, NewSource(3))
	gen := NewGenerator(reg, DefaultLoadModel(), NewSource(99))
	now := time.Date(2025, 3, 1, 12, 30, 45, 987654321, time.UTC)

	for i := 0; i < 5000; i++ {
		r := gen.Next(now)
		assert.GreaterOrEqual(t, r.LoadKW, DefaultLoadFloor)
		assert.True(t, reg.Contains(r.Substation), r.Substation)
		assert.Equal(t, 0, r.Time.Nanosecond())
	}
}

func TestGenerator_FloorClamp(t *testing.T) {
	reg := testRegistry()
	// Mean far below the floor forces every draw onto the floor.
	gen := NewGenerator(reg, LoadModel{Mean: -10000, StdDev: 1, Floor: 200}, NewSource(5))

	for i := 0; i < 100; i++ {
		assert.Equal(t, 200, gen.Next(time.Now()).LoadKW)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	reg := testRegistry()
	now := time.Unix(1700000000, 0)

	a := NewGenerator(reg, DefaultLoadModel(), NewSource(11))
	b := NewGenerator(reg, DefaultLoadModel(), NewSource(11))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(now), b.Next(now))
	}
}

func TestGenerator_SpreadsAcrossRegistry(t *testing.T) {
	reg := NewRegistry(15, 1800, 2600, NewSource(1))
	gen := NewGenerator(reg, DefaultLoadModel(), NewSource(2))

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		seen[gen.Next(time.Now()).Substation] = true
	}
	assert.Len(t, seen, 15)
}

func TestReading_Clock(t *testing.T) {
	r := Reading{Time: time.Date(2025, 1, 2, 9, 5, 7, 0, time.UTC)}
	assert.Equal(t, "09:05:07", r.Clock())
}

func TestEvaluator_Threshold(t *testing.T) {
	reg := testRegistry() // S01 = 2000 kW, limit 1800
	e := NewEvaluator(reg, 0.9)

	tests := []struct {
		name  string
		load  int
		sub   string
		alert bool
	}{
		{"well below", 1000, "S01", false},
		{"one below limit", 1799, "S01", false},
		{"exactly at limit", 1800, "S01", true},
		{"above limit", 2100, "S01", true},
		{"other substation below its limit", 2200, "S02", false},
		{"other substation at its limit", 2250, "S02", true},
		{"unknown substation", 99999, "S77", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reading{Time: time.Unix(0, 0), Substation: tt.sub, LoadKW: tt.load}
			a, ok := e.Evaluate(r)
			assert.Equal(t, tt.alert, ok)
			assert.Equal(t, tt.alert, e.IsOverload(r))
			if tt.alert {
				assert.Equal(t, tt.sub, a.Substation)
				assert.Equal(t, tt.load, a.LoadKW)
				assert.NotEmpty(t, a.Message)
			} else {
				assert.Equal(t, Alert{}, a)
			}
		})
	}
}

func TestEvaluator_DefaultThreshold(t *testing.T) {
	e := NewEvaluator(testRegistry(), 0)
	assert.Equal(t, DefaultThreshold, e.Threshold())

	limit, ok := e.LimitKW("S02")
	assert.True(t, ok)
	assert.InDelta(t, 2250.0, limit, 1e-9)
}

func TestFormatAlert(t *testing.T) {
	r := Reading{
		Time:       time.Date(2025, 6, 1, 14, 3, 9, 0, time.Local),
		Substation: "S07",
		LoadKW:     2350,
	}
	assert.Equal(t, "⚠ S07 overload at 14:03:09 → 2350 kW (Capacity 2400 kW)", FormatAlert(r, 2400))
	assert.Equal(t, FormatAlert(r, 2400), NewAlert(r, 2400).String())
}

func TestForecast(t *testing.T) {
	mk := func(loads ...int) []Reading {
		out := make([]Reading, len(loads))
		for i, l := range loads {
			out[i] = Reading{Substation: "S01", LoadKW: l}
		}
		return out
	}

	tests := []struct {
		name   string
		in     []Reading
		window int
		want   int
		ok     bool
	}{
		{"empty", nil, 5, 0, false},
		{"single", mk(1234), 5, 1234, true},
		{"exact window", mk(1900, 2000, 2100, 2200, 2300), 5, 2100, true},
		{"only trailing five count", mk(100, 100, 1900, 2000, 2100, 2200, 2300), 5, 2100, true},
		{"fewer than window", mk(2000, 2001), 5, 2000, true},
		{"truncates toward zero", mk(1, 2), 5, 1, true},
		{"zero window uses default", mk(1900, 2000, 2100, 2200, 2300), 0, 2100, true},
		{"window of one is latest", mk(10, 20, 30), 1, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Forecast(tt.in, tt.window)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterBySubstation(t *testing.T) {
	in := []Reading{
		{Substation: "S01", LoadKW: 1},
		{Substation: "S02", LoadKW: 2},
		{Substation: "S01", LoadKW: 3},
	}
	got := FilterBySubstation(in, "S01")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].LoadKW)
	assert.Equal(t, 3, got[1].LoadKW)

	assert.Empty(t, FilterBySubstation(in, "S09"))
}
