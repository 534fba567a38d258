package codec

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/yndnr/xpconnect-go/internal/core/domain"
)

// Format constants.
const (
	// Version is the current frame format version.
	Version uint16 = 1

	// HeaderSize is magic (4) + version (2) + flags (2) + length (4) + checksum (4).
	HeaderSize = 16

	float64Fields = 3
	float32Fields = 21
	stringFields  = 3

	// fixedPayloadSize excludes the string bytes but includes their length prefixes.
	fixedPayloadSize = float64Fields*8 + float32Fields*4 + 4 + 1 + stringFields*2
)

// Magic identifies a snapshot frame.
var Magic = [4]byte{'X', 'P', 'C', 'S'}

// State bits.
const (
	flagOnGround uint8 = 1 << iota
	flagPaused
)

// EncodedLen returns the full frame size for s, header included.
func EncodedLen(s *domain.Snapshot) int {
	return HeaderSize + fixedPayloadSize +
		len(s.AircraftTitle) + len(s.TailNumber) + len(s.ICAOType)
}

// Encoder serializes snapshots into a reusable buffer.
//
// The slice returned by Encode aliases the internal buffer and is only
// valid until the next call. An Encoder is not safe for concurrent use.
type Encoder struct {
	capacity int
	buf      []byte
}

// NewEncoder creates an encoder for frames of at most capacity bytes.
func NewEncoder(capacity int) *Encoder {
	return &Encoder{
		capacity: capacity,
		buf:      make([]byte, 0, capacity),
	}
}

// Capacity returns the frame size ceiling.
func (e *Encoder) Capacity() int {
	return e.capacity
}

// Encode writes the frame for s. Frames larger than the capacity fail with
// domain.ErrOversizePayload before anything is written.
func (e *Encoder) Encode(s *domain.Snapshot) ([]byte, error) {
	size := EncodedLen(s)
	if size > e.capacity {
		return nil, domain.OversizeError(size, e.capacity)
	}
	for _, str := range [stringFields]string{s.AircraftTitle, s.TailNumber, s.ICAOType} {
		if len(str) > math.MaxUint16 {
			return nil, domain.OversizeError(size, e.capacity)
		}
	}

	out := e.buf[:0]
	out = append(out, Magic[:]...)
	out = binary.BigEndian.AppendUint16(out, Version)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint32(out, uint32(size-HeaderSize))
	// Checksum is patched in once the payload is complete.
	out = binary.BigEndian.AppendUint32(out, 0)

	out = appendPayload(out, s)

	binary.BigEndian.PutUint32(out[12:16], crc32.ChecksumIEEE(out[HeaderSize:]))
	e.buf = out
	return out, nil
}

// Encode is a convenience wrapper that allocates a fresh frame.
func Encode(s *domain.Snapshot, capacity int) ([]byte, error) {
	frame, err := NewEncoder(capacity).Encode(s)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

func appendPayload(out []byte, s *domain.Snapshot) []byte {
	for _, v := range [float64Fields]float64{
		s.Latitude, s.Longitude, s.AltitudeMSL,
	} {
		out = binary.BigEndian.AppendUint64(out, math.Float64bits(v))
	}

	for _, v := range [float32Fields]float32{
		s.AltitudeAGL,
		s.Pitch, s.Roll, s.HeadingTrue, s.HeadingMag, s.TrackTrue,
		s.IndicatedSpeed, s.TrueAirspeed, s.GroundSpeed, s.VerticalSpeed, s.Mach,
		s.WindDirection, s.WindSpeed, s.AmbientTemperature, s.TotalAirTemp,
		s.SeaLevelPressure, s.Visibility,
		s.FuelTotal, s.GrossWeight,
		s.ZuluTime, s.LocalTime,
	} {
		out = binary.BigEndian.AppendUint32(out, math.Float32bits(v))
	}

	out = binary.BigEndian.AppendUint32(out, uint32(s.DayOfYear))

	var state uint8
	if s.OnGround {
		state |= flagOnGround
	}
	if s.Paused {
		state |= flagPaused
	}
	out = append(out, state)

	for _, str := range [stringFields]string{s.AircraftTitle, s.TailNumber, s.ICAOType} {
		out = binary.BigEndian.AppendUint16(out, uint16(len(str)))
		out = append(out, str...)
	}
	return out
}
