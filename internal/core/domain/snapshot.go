package domain

// Snapshot is the simulator state captured during one flight loop tick.
//
// Units follow the simulator: degrees, meters, knots, feet per minute,
// degrees Celsius, kilograms. Fields that could not be read are zero.
type Snapshot struct {
	// Position
	Latitude    float64 // degrees
	Longitude   float64 // degrees
	AltitudeMSL float64 // meters
	AltitudeAGL float32 // meters

	// Attitude
	Pitch       float32 // degrees, nose up positive
	Roll        float32 // degrees, right wing down positive
	HeadingTrue float32 // degrees
	HeadingMag  float32 // degrees
	TrackTrue   float32 // degrees

	// Speeds
	IndicatedSpeed float32 // knots
	TrueAirspeed   float32 // meters per second
	GroundSpeed    float32 // meters per second
	VerticalSpeed  float32 // feet per minute
	Mach           float32

	// Environment
	WindDirection      float32 // degrees true
	WindSpeed          float32 // knots
	AmbientTemperature float32 // Celsius
	TotalAirTemp       float32 // Celsius
	SeaLevelPressure   float32 // inHg
	Visibility         float32 // meters

	// Weights
	FuelTotal   float32 // kilograms
	GrossWeight float32 // kilograms

	// Time
	ZuluTime  float32 // seconds since midnight
	LocalTime float32 // seconds since midnight
	DayOfYear int32

	// State
	OnGround bool
	Paused   bool

	// Aircraft identity
	AircraftTitle string
	TailNumber    string
	ICAOType      string
}
