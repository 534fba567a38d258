package source

import "github.com/yndnr/xpconnect-go/internal/core/domain"

// Dataref names read on every tick.
const (
	RefLatitude     = "sim/flightmodel/position/latitude"
	RefLongitude    = "sim/flightmodel/position/longitude"
	RefElevation    = "sim/flightmodel/position/elevation"
	RefAltitudeAGL  = "sim/flightmodel/position/y_agl"
	RefPitch        = "sim/flightmodel/position/theta"
	RefRoll         = "sim/flightmodel/position/phi"
	RefHeadingTrue  = "sim/flightmodel/position/psi"
	RefHeadingMag   = "sim/flightmodel/position/mag_psi"
	RefTrackTrue    = "sim/flightmodel/position/hpath"
	RefIndicated    = "sim/flightmodel/position/indicated_airspeed"
	RefTrueAirspeed = "sim/flightmodel/position/true_airspeed"
	RefGroundSpeed  = "sim/flightmodel/position/groundspeed"
	RefVerticalFPM  = "sim/flightmodel/position/vh_ind_fpm"
	RefMach         = "sim/flightmodel/misc/machno"
	RefWindDir      = "sim/weather/wind_direction_degt"
	RefWindSpeed    = "sim/weather/wind_speed_kt"
	RefAmbientTemp  = "sim/weather/temperature_ambient_c"
	RefTotalAirTemp = "sim/weather/temperature_le_c"
	RefSeaLevelBaro = "sim/weather/barometer_sealevel_inhg"
	RefVisibility   = "sim/weather/visibility_reported_m"
	RefFuelTotal    = "sim/flightmodel/weight/m_fuel_total"
	RefGrossWeight  = "sim/flightmodel/weight/m_total"
	RefZuluTime     = "sim/time/zulu_time_sec"
	RefLocalTime    = "sim/time/local_time_sec"
	RefLocalDay     = "sim/time/local_date_days"
	RefOnGround     = "sim/flightmodel/failures/onground_any"
	RefPaused       = "sim/time/paused"
	RefTitle        = "sim/aircraft/view/acf_descrip"
	RefTailNumber   = "sim/aircraft/view/acf_tailnum"
	RefICAO         = "sim/aircraft/view/acf_ICAO"
)

type fieldKind int

const (
	kindFloat fieldKind = iota
	kindDouble
	kindInt
	kindBool
	kindString
)

// field maps one dataref onto a Snapshot field. Exactly one setter is set,
// matching kind.
type field struct {
	name string
	kind fieldKind

	setFloat  func(*domain.Snapshot, float32)
	setDouble func(*domain.Snapshot, float64)
	setInt    func(*domain.Snapshot, int32)
	setString func(*domain.Snapshot) *string
}

func float32Field(name string, set func(*domain.Snapshot, float32)) field {
	return field{name: name, kind: kindFloat, setFloat: set}
}

func float64Field(name string, set func(*domain.Snapshot, float64)) field {
	return field{name: name, kind: kindDouble, setDouble: set}
}

func int32Field(name string, set func(*domain.Snapshot, int32)) field {
	return field{name: name, kind: kindInt, setInt: set}
}

func boolField(name string, set func(*domain.Snapshot, int32)) field {
	return field{name: name, kind: kindBool, setInt: set}
}

func stringField(name string, target func(*domain.Snapshot) *string) field {
	return field{name: name, kind: kindString, setString: target}
}

var fields = []field{
	float64Field(RefLatitude, func(s *domain.Snapshot, v float64) { s.Latitude = v }),
	float64Field(RefLongitude, func(s *domain.Snapshot, v float64) { s.Longitude = v }),
	float64Field(RefElevation, func(s *domain.Snapshot, v float64) { s.AltitudeMSL = v }),
	float32Field(RefAltitudeAGL, func(s *domain.Snapshot, v float32) { s.AltitudeAGL = v }),

	float32Field(RefPitch, func(s *domain.Snapshot, v float32) { s.Pitch = v }),
	float32Field(RefRoll, func(s *domain.Snapshot, v float32) { s.Roll = v }),
	float32Field(RefHeadingTrue, func(s *domain.Snapshot, v float32) { s.HeadingTrue = v }),
	float32Field(RefHeadingMag, func(s *domain.Snapshot, v float32) { s.HeadingMag = v }),
	float32Field(RefTrackTrue, func(s *domain.Snapshot, v float32) { s.TrackTrue = v }),

	float32Field(RefIndicated, func(s *domain.Snapshot, v float32) { s.IndicatedSpeed = v }),
	float32Field(RefTrueAirspeed, func(s *domain.Snapshot, v float32) { s.TrueAirspeed = v }),
	float32Field(RefGroundSpeed, func(s *domain.Snapshot, v float32) { s.GroundSpeed = v }),
	float32Field(RefVerticalFPM, func(s *domain.Snapshot, v float32) { s.VerticalSpeed = v }),
	float32Field(RefMach, func(s *domain.Snapshot, v float32) { s.Mach = v }),

	float32Field(RefWindDir, func(s *domain.Snapshot, v float32) { s.WindDirection = v }),
	float32Field(RefWindSpeed, func(s *domain.Snapshot, v float32) { s.WindSpeed = v }),
	float32Field(RefAmbientTemp, func(s *domain.Snapshot, v float32) { s.AmbientTemperature = v }),
	float32Field(RefTotalAirTemp, func(s *domain.Snapshot, v float32) { s.TotalAirTemp = v }),
	float32Field(RefSeaLevelBaro, func(s *domain.Snapshot, v float32) { s.SeaLevelPressure = v }),
	float32Field(RefVisibility, func(s *domain.Snapshot, v float32) { s.Visibility = v }),

	float32Field(RefFuelTotal, func(s *domain.Snapshot, v float32) { s.FuelTotal = v }),
	float32Field(RefGrossWeight, func(s *domain.Snapshot, v float32) { s.GrossWeight = v }),

	float32Field(RefZuluTime, func(s *domain.Snapshot, v float32) { s.ZuluTime = v }),
	float32Field(RefLocalTime, func(s *domain.Snapshot, v float32) { s.LocalTime = v }),
	int32Field(RefLocalDay, func(s *domain.Snapshot, v int32) { s.DayOfYear = v }),

	boolField(RefOnGround, func(s *domain.Snapshot, v int32) { s.OnGround = v != 0 }),
	boolField(RefPaused, func(s *domain.Snapshot, v int32) { s.Paused = v != 0 }),

	stringField(RefTitle, func(s *domain.Snapshot) *string { return &s.AircraftTitle }),
	stringField(RefTailNumber, func(s *domain.Snapshot) *string { return &s.TailNumber }),
	stringField(RefICAO, func(s *domain.Snapshot) *string { return &s.ICAOType }),
}

// Names returns the dataref names in capture order.
func Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}
