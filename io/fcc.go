// Package io encodes the core's output messages into the wire formats
// spec.md §6 describes: the binary FCC command record, the fixed-layout
// BOSS display record, and MAVLink v2 STATUSTEXT frames for the ground
// control station. None of this is part of the core decision logic — it is
// the external collaborator spec.md §1 carves out, kept here so a real
// transport (UDP/RUDP, shared memory) has something concrete to send.
package io

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/n-hartley/heliland"
)

// EncodeFCCCommand serializes an FCCCommand as message_fcc_command_t:
// supervisor_gps_time f64, supervisor_status u32, command u16, pad u16,
// param1..4 f32, lat_e7/lon_e7 i32, alt_msl_m f32 — all network byte order
// (big-endian), matching spec.md §6's "endian-converted to network byte
// order" note.
func EncodeFCCCommand(c heliland.FCCCommand) ([]byte, error) {
	buf := new(bytes.Buffer)
	fields := []any{
		c.SupervisorGPSTime,
		uint32(c.SupervisorStatus),
		uint16(c.Command),
		uint16(0), // alignment pad; the original struct is naturally aligned here
		c.Param1, c.Param2, c.Param3, c.Param4,
		c.LatE7, c.LonE7,
		c.AltMSLMeters,
	}
	for _, f := range fields {
		if err := binary.Write(buf, binary.BigEndian, f); err != nil {
			return nil, fmt.Errorf("io: encoding FCC command: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// fccCommandWireLen is the encoded size of EncodeFCCCommand's output, used
// by callers sizing a fixed-length datagram.
const fccCommandWireLen = 8 + 4 + 2 + 2 + 4*4 + 4 + 4 + 4
