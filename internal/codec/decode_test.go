package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/yndnr/xpconnect-go/internal/core/domain"
)

var (
	errShortFrame       = errors.New("codec: short frame")
	errBadMagic         = errors.New("codec: bad magic")
	errChecksumMismatch = errors.New("codec: checksum mismatch")
)

// decodeFrame mirrors the encoder. Readers live outside this module; this
// copy exists to check the format from the other side.
func decodeFrame(frame []byte) (*domain.Snapshot, error) {
	if len(frame) < HeaderSize {
		return nil, errShortFrame
	}
	if [4]byte(frame[:4]) != Magic {
		return nil, errBadMagic
	}
	if v := binary.BigEndian.Uint16(frame[4:6]); v != Version {
		return nil, fmt.Errorf("codec: unsupported version %d", v)
	}
	length := int(binary.BigEndian.Uint32(frame[8:12]))
	if len(frame) < HeaderSize+length {
		return nil, errShortFrame
	}
	payload := frame[HeaderSize : HeaderSize+length]
	if crc32.ChecksumIEEE(payload) != binary.BigEndian.Uint32(frame[12:16]) {
		return nil, errChecksumMismatch
	}

	r := &reader{buf: payload}
	s := &domain.Snapshot{}
	s.Latitude = r.f64()
	s.Longitude = r.f64()
	s.AltitudeMSL = r.f64()

	for _, p := range []*float32{
		&s.AltitudeAGL,
		&s.Pitch, &s.Roll, &s.HeadingTrue, &s.HeadingMag, &s.TrackTrue,
		&s.IndicatedSpeed, &s.TrueAirspeed, &s.GroundSpeed, &s.VerticalSpeed, &s.Mach,
		&s.WindDirection, &s.WindSpeed, &s.AmbientTemperature, &s.TotalAirTemp,
		&s.SeaLevelPressure, &s.Visibility,
		&s.FuelTotal, &s.GrossWeight,
		&s.ZuluTime, &s.LocalTime,
	} {
		*p = r.f32()
	}

	s.DayOfYear = int32(r.u32())
	state := r.u8()
	s.OnGround = state&flagOnGround != 0
	s.Paused = state&flagPaused != 0

	s.AircraftTitle = r.str()
	s.TailNumber = r.str()
	s.ICAOType = r.str()

	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil || r.off+n > len(r.buf) {
		r.err = errShortFrame
		return make([]byte, n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8    { return r.take(1)[0] }
func (r *reader) u32() uint32  { return binary.BigEndian.Uint32(r.take(4)) }
func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }
func (r *reader) f64() float64 { return math.Float64frombits(binary.BigEndian.Uint64(r.take(8))) }

func (r *reader) str() string {
	n := int(binary.BigEndian.Uint16(r.take(2)))
	return string(r.take(n))
}
