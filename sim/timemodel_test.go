package sim

import (
	"testing"
)

func TestFunctionalTimeModel_ConstantAcrossBatchRefills(t *testing.T) {
	// GIVEN a constant model
	m, err := NewFunctionalTimeModel("constant", map[string]float64{"value": 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN sampled past the internal batch size
	for i := 0; i < 200; i++ {
		if v := m.Sample(); v != 3 {
			t.Fatalf("sample %d: got %v, want 3", i, v)
		}
	}

	// THEN every draw is the fixed value and so is the mean
	if m.Mean() != 3 {
		t.Errorf("Mean: got %v, want 3", m.Mean())
	}
}

func TestFunctionalTimeModel_ReproducibleGivenSameStream(t *testing.T) {
	// GIVEN two exponential models over identically derived streams
	r1 := NewPartitionedRNG(NewRunKey(42))
	r2 := NewPartitionedRNG(NewRunKey(42))
	m1, err := NewFunctionalTimeModel("exponential", map[string]float64{"mean": 5}, r1.SourceFor("svc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := NewFunctionalTimeModel("exponential", map[string]float64{"mean": 5}, r2.SourceFor("svc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN both are sampled
	for i := 0; i < 100; i++ {
		a, b := m1.Sample(), m2.Sample()
		// THEN the sequences match draw for draw and are non-negative
		if a != b {
			t.Fatalf("sample %d diverged: %v vs %v", i, a, b)
		}
		if a < 0 {
			t.Fatalf("sample %d negative: %v", i, a)
		}
	}
	if m1.Mean() != 5 {
		t.Errorf("Mean: got %v, want 5", m1.Mean())
	}
}

func TestFunctionalTimeModel_NormalClampsNegativeDraws(t *testing.T) {
	// GIVEN a normal model centered at zero
	rng := NewPartitionedRNG(NewRunKey(1))
	m, err := NewFunctionalTimeModel("normal", map[string]float64{"mean": 0, "stdev": 10}, rng.SourceFor("noisy"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN sampled many times
	clamped := 0
	for i := 0; i < 200; i++ {
		v := m.Sample()
		if v < 0 {
			t.Fatalf("sample %d negative: %v", i, v)
		}
		if v == 0 {
			clamped++
		}
	}

	// THEN negative draws surfaced as exact zeros
	if clamped == 0 {
		t.Error("expected some draws clamped to zero for a zero-mean normal")
	}
}

func TestFunctionalTimeModel_RejectsBadSpecs(t *testing.T) {
	cases := []struct {
		name         string
		distribution string
		params       map[string]float64
	}{
		{"unknown distribution", "zipf", map[string]float64{}},
		{"missing param", "exponential", map[string]float64{}},
		{"non-positive mean", "exponential", map[string]float64{"mean": 0}},
		{"negative constant", "constant", map[string]float64{"value": -1}},
		{"inverted uniform bounds", "uniform", map[string]float64{"min": 5, "max": 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewFunctionalTimeModel(tc.distribution, tc.params, nil); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestHistoricalTimeModel_ResamplesRecordedDurations(t *testing.T) {
	// GIVEN a model over recorded samples
	rng := NewPartitionedRNG(NewRunKey(42))
	recorded := map[float64]bool{2: true, 4: true, 6: true}
	m, err := NewHistoricalTimeModel([]float64{2, 4, 6}, rng.ForSubsystem("hist"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN sampled
	for i := 0; i < 100; i++ {
		if v := m.Sample(); !recorded[v] {
			t.Fatalf("sample %d: got %v, not among the recorded durations", i, v)
		}
	}

	// THEN draws come from the recorded set and the mean is their average
	if m.Mean() != 4 {
		t.Errorf("Mean: got %v, want 4", m.Mean())
	}
}

func TestHistoricalTimeModel_RequiresSamples(t *testing.T) {
	rng := NewPartitionedRNG(NewRunKey(1))
	if _, err := NewHistoricalTimeModel(nil, rng.ForSubsystem("hist")); err == nil {
		t.Error("expected error for empty sample set")
	}
	if _, err := NewHistoricalTimeModel([]float64{1, -2}, rng.ForSubsystem("hist")); err == nil {
		t.Error("expected error for negative sample")
	}
}

func TestDistanceBasedTimeModel_DurationFromGeometry(t *testing.T) {
	// GIVEN a transporter profile
	m, err := NewDistanceBasedTimeModel(2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN a duration is computed between two points
	d := m.DurationBetween(Location{0, 0}, Location{3, 4})

	// THEN duration = manhattan distance / speed + reaction
	if d != 4.5 {
		t.Errorf("DurationBetween: got %v, want 4.5", d)
	}
	if m.Sample() != 1 || m.Mean() != 1 {
		t.Errorf("endpoint-free sample/mean: got %v/%v, want the reaction time", m.Sample(), m.Mean())
	}
}

func TestDistanceBasedTimeModel_RejectsBadProfiles(t *testing.T) {
	if _, err := NewDistanceBasedTimeModel(0, 1); err == nil {
		t.Error("expected error for zero speed")
	}
	if _, err := NewDistanceBasedTimeModel(2, -1); err == nil {
		t.Error("expected error for negative reaction time")
	}
}
