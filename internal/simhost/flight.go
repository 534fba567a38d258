package simhost

import (
	"math"
	"time"

	"github.com/yndnr/xpconnect-go/internal/source"
)

const (
	ktToMS       = 0.514444
	nmToM        = 1852.0
	ftToM        = 0.3048
	gravity      = 9.80665
	speedOfSound = 340.29
	magVariation = 15.0
	groundElevM  = 100.0
	emptyMassKg  = 767.0
	fuelBurnKgS  = 0.009
)

// FlightParams describe the synthetic flight.
type FlightParams struct {
	Latitude   float64
	Longitude  float64
	AltitudeFt float64
	SpeedKt    float64
	RadiusNM   float64
	Aircraft   string
	TailNumber string
	ICAOType   string
	// ReadyAfter is how many steps pass before the data interface reports
	// ready, like a simulator still loading the scenery.
	ReadyAfter int
	// Start is the simulated UTC time of the first step.
	Start time.Time
	// FuelKg is the initial fuel load.
	FuelKg float64
}

// Flight moves an aircraft on a clockwise circle and publishes its state.
type Flight struct {
	p      FlightParams
	access *source.MemoryAccess

	elapsed float64 // simulated seconds
	angle   float64 // radians from north, clockwise
	steps   int
}

// NewFlight creates a flight writing to access. The access is marked not
// ready until ReadyAfter steps have run.
func NewFlight(p FlightParams, access *source.MemoryAccess) *Flight {
	if p.Start.IsZero() {
		p.Start = time.Now().UTC()
	}
	if p.FuelKg <= 0 {
		p.FuelKg = 150
	}
	f := &Flight{p: p, access: access}
	access.SetReady(p.ReadyAfter == 0)
	f.publish()
	return f
}

// Elapsed returns the simulated time since the first step.
func (f *Flight) Elapsed() time.Duration {
	return time.Duration(f.elapsed * float64(time.Second))
}

// Step advances the flight by dt simulated seconds.
func (f *Flight) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	f.elapsed += dt
	if f.p.RadiusNM > 0 {
		// Angular rate in radians per second.
		omega := f.p.SpeedKt / (f.p.RadiusNM * 3600)
		f.angle = math.Mod(f.angle+omega*dt, 2*math.Pi)
	}
	f.steps++
	if f.steps >= f.p.ReadyAfter {
		f.access.SetReady(true)
	}
	f.publish()
}

func (f *Flight) position() (lat, lon float64) {
	north := f.p.RadiusNM * math.Cos(f.angle)
	east := f.p.RadiusNM * math.Sin(f.angle)
	lat = f.p.Latitude + north/60
	lon = f.p.Longitude + east/(60*math.Cos(f.p.Latitude*math.Pi/180))
	return lat, lon
}

func (f *Flight) publish() {
	a := f.access
	lat, lon := f.position()

	heading := normalizeDeg(f.angle*180/math.Pi + 90)
	tas := f.p.SpeedKt * ktToMS
	altM := f.p.AltitudeFt * ftToM

	var roll float64
	if f.p.RadiusNM > 0 {
		roll = math.Atan(tas*tas/(gravity*f.p.RadiusNM*nmToM)) * 180 / math.Pi
	}

	oat := 15 - 1.98*f.p.AltitudeFt/1000
	fuel := math.Max(0, f.p.FuelKg-fuelBurnKgS*f.elapsed)

	now := f.p.Start.Add(f.Elapsed())
	zulu := secondsOfDay(now)
	local := math.Mod(zulu+lon/15*3600+86400, 86400)

	a.SetDouble(source.RefLatitude, lat)
	a.SetDouble(source.RefLongitude, lon)
	a.SetDouble(source.RefElevation, altM)
	a.SetFloat(source.RefAltitudeAGL, float32(altM-groundElevM))

	a.SetFloat(source.RefPitch, 2)
	a.SetFloat(source.RefRoll, float32(roll))
	a.SetFloat(source.RefHeadingTrue, float32(heading))
	a.SetFloat(source.RefHeadingMag, float32(normalizeDeg(heading-magVariation)))
	a.SetFloat(source.RefTrackTrue, float32(heading))

	a.SetFloat(source.RefIndicated, float32(f.p.SpeedKt))
	a.SetFloat(source.RefTrueAirspeed, float32(tas))
	a.SetFloat(source.RefGroundSpeed, float32(tas))
	a.SetFloat(source.RefVerticalFPM, 0)
	a.SetFloat(source.RefMach, float32(tas/speedOfSound))

	a.SetFloat(source.RefWindDir, 270)
	a.SetFloat(source.RefWindSpeed, 8)
	a.SetFloat(source.RefAmbientTemp, float32(oat))
	a.SetFloat(source.RefTotalAirTemp, float32(oat+tas*tas/2010))
	a.SetFloat(source.RefSeaLevelBaro, 29.92)
	a.SetFloat(source.RefVisibility, 16093)

	a.SetFloat(source.RefFuelTotal, float32(fuel))
	a.SetFloat(source.RefGrossWeight, float32(emptyMassKg+fuel))

	a.SetFloat(source.RefZuluTime, float32(zulu))
	a.SetFloat(source.RefLocalTime, float32(local))
	a.SetInt(source.RefLocalDay, int32(now.YearDay()-1))

	a.SetInt(source.RefOnGround, 0)
	a.SetInt(source.RefPaused, 0)

	a.SetBytes(source.RefTitle, []byte(f.p.Aircraft))
	a.SetBytes(source.RefTailNumber, []byte(f.p.TailNumber))
	a.SetBytes(source.RefICAO, []byte(f.p.ICAOType))
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func secondsOfDay(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
}
