package io

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/n-hartley/heliland"
)

// EncodeBossDisplay packs a BossDisplay into the fixed-layout record the
// pilot display consumes: lp_id i32, mission_item_no i32,
// acceptance_radius_m f64, short_desc [10]byte, sun_elevation_deg f64.
func EncodeBossDisplay(b heliland.BossDisplay) ([]byte, error) {
	buf := new(bytes.Buffer)
	fields := []any{
		int32(b.LPID),
		int32(b.MissionItemNo),
		b.AcceptanceRadiusM,
		b.ShortDesc,
		b.SunElevationDeg,
	}
	for _, f := range fields {
		if err := binary.Write(buf, binary.BigEndian, f); err != nil {
			return nil, fmt.Errorf("io: encoding BOSS display: %w", err)
		}
	}
	return buf.Bytes(), nil
}
