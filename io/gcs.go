package io

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"

	"github.com/n-hartley/heliland"
)

// MAVLink v2 framing constants (spec.md §6).
const (
	mavlinkMagic       = 0xFD
	statustextMsgID    = 253
	statustextCRCExtra = 83
	statustextTextLen  = 50
	mavlinkHeaderLen   = 9 // magic, len, incompat, compat, seq, sysid, compid, msgid(3) - 1
)

// crcX25Table is the MAVLink checksum (CRC-16/MCRF4XX) table, the same
// construction the original protocol generator emits per message.
var crcX25Table = buildCRCX25Table()

func buildCRCX25Table() [256]uint16 {
	var table [256]uint16
	for i := 0; i < 256; i++ {
		crc := uint16(i)
		for j := 0; j < 8; j++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0x8408
			} else {
				crc = crc >> 1
			}
		}
		table[i] = crc
	}
	return table
}

func crcAccumulate(b byte, crc uint16) uint16 {
	tmp := b ^ byte(crc&0xFF)
	tmp ^= tmp << 4
	return (crc >> 8) ^ (uint16(tmp) << 8) ^ (uint16(tmp) << 3) ^ (uint16(tmp) >> 4)
}

// EncodeGCSStatusText frames a GCSMessage as a MAVLink v2 STATUSTEXT
// packet (magic 0xFD, msgid 253, CRC extra byte 83), seq/sysid/compid
// supplied by the caller's session state.
func EncodeGCSStatusText(msg heliland.GCSMessage, seq, sysID, compID byte) []byte {
	var text [statustextTextLen]byte
	copy(text[:], msg.Text)

	payload := make([]byte, 0, 1+statustextTextLen)
	payload = append(payload, byte(msg.Severity))
	payload = append(payload, text[:]...)

	packet := make([]byte, 0, mavlinkHeaderLen+len(payload)+2)
	packet = append(packet, mavlinkMagic, byte(len(payload)), 0, 0, seq, sysID, compID)
	packet = append(packet, byte(statustextMsgID), byte(statustextMsgID>>8), byte(statustextMsgID>>16))
	packet = append(packet, payload...)

	crc := uint16(0xFFFF)
	for _, b := range packet[1:] { // CRC covers everything after the magic byte
		crc = crcAccumulate(b, crc)
	}
	crc = crcAccumulate(statustextCRCExtra, crc)

	packet = append(packet, byte(crc&0xFF), byte(crc>>8))
	return packet
}

// DaylightAdvisory returns a rough solar-elevation estimate (degrees above
// the horizon) for the given time and position. The CLI attaches it to
// every BOSS display record it encodes (not to GCS messages) so a human
// reviewing the display has a glare/visibility hint. Grounded on config.go's HelioState call pattern
// (julian.TimeToJD(dt)); the elevation formula itself is the standard
// low-precision solar-position approximation, adequate for an advisory, not
// a navigation input.
func DaylightAdvisory(dt time.Time, latDeg, lonDeg float64) float64 {
	jd := julian.TimeToJD(dt)
	d := jd - 2451545.0

	meanLongitude := normalizeDeg(280.460 + 0.9856474*d)
	meanAnomaly := normalizeDeg(357.528+0.9856003*d) * math.Pi / 180
	eclipticLongitude := meanLongitude + 1.915*math.Sin(meanAnomaly) + 0.020*math.Sin(2*meanAnomaly)
	obliquity := 23.439 - 0.0000004*d

	eclRad := eclipticLongitude * math.Pi / 180
	oblRad := obliquity * math.Pi / 180
	declination := math.Asin(math.Sin(oblRad) * math.Sin(eclRad))

	gmstHours := math.Mod(6.697375+0.0657098242*d+float64(dt.UTC().Hour())+float64(dt.UTC().Minute())/60, 24)
	hourAngleDeg := gmstHours*15 + lonDeg - eclipticLongitude
	hourAngle := normalizeDeg(hourAngleDeg) * math.Pi / 180

	latRad := latDeg * math.Pi / 180
	sinElevation := math.Sin(latRad)*math.Sin(declination) + math.Cos(latRad)*math.Cos(declination)*math.Cos(hourAngle)
	return math.Asin(clamp(sinElevation, -1, 1)) * 180 / math.Pi
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
