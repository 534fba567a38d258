package source

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yndnr/xpconnect-go/internal/core/domain"
)

func populated() *MemoryAccess {
	m := NewMemoryAccess()
	m.SetDouble(RefLatitude, 47.5)
	m.SetDouble(RefLongitude, -122.25)
	m.SetDouble(RefElevation, 1200.5)
	m.SetFloat(RefAltitudeAGL, 1100)
	m.SetFloat(RefPitch, 3)
	m.SetFloat(RefRoll, -10)
	m.SetFloat(RefHeadingTrue, 90)
	m.SetFloat(RefHeadingMag, 75)
	m.SetFloat(RefTrackTrue, 92)
	m.SetFloat(RefIndicated, 120)
	m.SetFloat(RefTrueAirspeed, 65)
	m.SetFloat(RefGroundSpeed, 60)
	m.SetFloat(RefVerticalFPM, 700)
	m.SetFloat(RefMach, 0.2)
	m.SetFloat(RefWindDir, 280)
	m.SetFloat(RefWindSpeed, 15)
	m.SetFloat(RefAmbientTemp, 10)
	m.SetFloat(RefTotalAirTemp, 12)
	m.SetFloat(RefSeaLevelBaro, 29.92)
	m.SetFloat(RefVisibility, 16000)
	m.SetFloat(RefFuelTotal, 400)
	m.SetFloat(RefGrossWeight, 1100)
	m.SetFloat(RefZuluTime, 36000)
	m.SetFloat(RefLocalTime, 7200)
	m.SetInt(RefLocalDay, 200)
	m.SetInt(RefOnGround, 0)
	m.SetInt(RefPaused, 1)
	m.SetBytes(RefTitle, []byte("Cessna 172 SP\x00garbage"))
	m.SetBytes(RefTailNumber, []byte("N172SP"))
	m.SetBytes(RefICAO, []byte("C172"))
	return m
}

func TestCapture_AllFields(t *testing.T) {
	src := New(populated())

	got, err := src.Capture()
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	want := &domain.Snapshot{
		Latitude:           47.5,
		Longitude:          -122.25,
		AltitudeMSL:        1200.5,
		AltitudeAGL:        1100,
		Pitch:              3,
		Roll:               -10,
		HeadingTrue:        90,
		HeadingMag:         75,
		TrackTrue:          92,
		IndicatedSpeed:     120,
		TrueAirspeed:       65,
		GroundSpeed:        60,
		VerticalSpeed:      700,
		Mach:               0.2,
		WindDirection:      280,
		WindSpeed:          15,
		AmbientTemperature: 10,
		TotalAirTemp:       12,
		SeaLevelPressure:   29.92,
		Visibility:         16000,
		FuelTotal:          400,
		GrossWeight:        1100,
		ZuluTime:           36000,
		LocalTime:          7200,
		DayOfYear:          200,
		OnGround:           false,
		Paused:             true,
		AircraftTitle:      "Cessna 172 SP",
		TailNumber:         "N172SP",
		ICAOType:           "C172",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Capture() mismatch (-want +got):\n%s", diff)
	}
	if missing := src.Missing(); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}
}

func TestCapture_NotReady(t *testing.T) {
	m := populated()
	m.SetReady(false)

	snap, err := New(m).Capture()
	if !errors.Is(err, domain.ErrCaptureUnavailable) {
		t.Fatalf("Capture() error = %v, want ErrCaptureUnavailable", err)
	}
	if snap != nil {
		t.Error("failed capture should not return a snapshot")
	}

	if _, err := New(nil).Capture(); !errors.Is(err, domain.ErrCaptureUnavailable) {
		t.Errorf("nil access: error = %v, want ErrCaptureUnavailable", err)
	}
}

func TestCapture_MissingAndMistypedFieldsDefaultToZero(t *testing.T) {
	m := NewMemoryAccess()
	m.SetDouble(RefLatitude, 10)
	m.SetTypes(RefHeadingTrue, TypeFloatArray) // unreadable as scalar
	m.SetFloat(RefTitle, 1)                    // not a data dataref
	m.SetInt(RefIndicated, 99)                 // int promoted to float

	snap, err := New(m).Capture()
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	want := &domain.Snapshot{Latitude: 10, IndicatedSpeed: 99}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Capture() mismatch (-want +got):\n%s", diff)
	}
}

func TestCapture_RetriesMissingRefs(t *testing.T) {
	m := NewMemoryAccess()
	src := New(m, WithRetryEvery(3))

	if _, err := src.Capture(); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if !slices.Contains(src.Missing(), RefTailNumber) {
		t.Fatal("tail number should be missing before it is published")
	}

	// A late plugin publishes the dataref.
	m.SetBytes(RefTailNumber, []byte("D-EXYZ"))

	var snap *domain.Snapshot
	for i := 0; i < 3; i++ {
		var err error
		if snap, err = src.Capture(); err != nil {
			t.Fatalf("Capture() error = %v", err)
		}
	}
	if snap.TailNumber != "D-EXYZ" {
		t.Errorf("TailNumber = %q after retry window, want %q", snap.TailNumber, "D-EXYZ")
	}
	if slices.Contains(src.Missing(), RefTailNumber) {
		t.Error("tail number should be resolved after retry")
	}
}

func TestCapture_FreshSnapshotPerTick(t *testing.T) {
	src := New(populated())

	a, err := src.Capture()
	if err != nil {
		t.Fatal(err)
	}
	b, err := src.Capture()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("Capture() should return a new snapshot each call")
	}
	a.TailNumber = "changed"
	if b.TailNumber != "N172SP" {
		t.Error("snapshots should not share state")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(fields) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(fields))
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate dataref %q", n)
		}
		seen[n] = true
	}
}
