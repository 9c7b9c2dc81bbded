// Package mock generates synthetic beacon frames so the full
// ingest pipeline can be exercised without a real radio or capture file.
//
// Grounded in the teacher's internal/adapters/sniffer/testing mock
// sniffer (ticker-driven synthetic device generation over a fixed MAC/SSID
// pool), adapted from emitting domain.Device structs directly to emitting
// raw frame bytes so the real dot11 parser still does the work.
package mock

import (
	"encoding/binary"
	"time"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

var macPool = [][6]byte{
	{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01},
	{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x02},
	{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x03},
}

var ssidPool = []string{"HomeNetwork", "Office-Network", "Guest-WiFi"}

// Source is a FileSource that synthesizes a fixed, deterministic sequence
// of beacon frames, one per AP in macPool, then reports EOF.
type Source struct {
	idx   int
	count int
}

func New() *Source { return &Source{} }

func (s *Source) Close() error { return nil }

// Next writes one synthetic open-network beacon per call, cycling through
// macPool, until count reaches a fixed bound.
func (s *Source) Next(pkt *domain.Packet) (bool, error) {
	if s.count >= len(macPool) {
		return false, nil
	}
	bssid := macPool[s.idx%len(macPool)]
	ssid := ssidPool[s.idx%len(ssidPool)]
	s.idx++
	s.count++

	pkt.Data = beaconFrame(bssid, ssid)
	pkt.Time = time.Now()
	pkt.RSSI = -45
	pkt.HaveFix = false
	return true, nil
}

func beaconFrame(bssid [6]byte, ssid string) []byte {
	frame := make([]byte, 24)
	frame[0] = 0x80 // beacon
	copy(frame[4:10], bssid[:])
	copy(frame[10:16], bssid[:])
	copy(frame[16:22], bssid[:])

	body := make([]byte, 12) // timestamp(8) + interval(2) + capabilities(2), all zero/open
	binary.LittleEndian.PutUint16(body[10:12], 0x0000)

	ssidIE := append([]byte{0x00, byte(len(ssid))}, []byte(ssid)...)
	channelIE := []byte{0x03, 0x01, 0x06}

	out := append(frame, body...)
	out = append(out, ssidIE...)
	out = append(out, channelIE...)
	return out
}
