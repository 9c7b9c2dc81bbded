// Package drone implements the kismet-drone-compatible streaming frame
// source from spec.md §4.1: a TCP client that reads fixed 12-byte
// envelopes until a packet-carrier frame arrives, decodes its optional GPS
// block and RSSI, and hands the encapsulated 802.11 bytes to the parser.
//
// Grounded in the teacher's net/textproto-free raw-socket style (the
// teacher talks to hardware/peers over plain net.Conn in
// internal/adapters/sniffer); this protocol has no existing library, so
// the wire format is decoded directly against spec.md's byte tables,
// matching the 5-second connect/read deadlines and reconnect-after-sleep
// behavior spec.md names.
package drone

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
	"time"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

const (
	envelopeLen = 12

	cmdTypePacket = 3

	connectTimeout = 5 * time.Second
	readTimeout    = 5 * time.Second

	gpsBlockLen     = 68
	gpsBitmapBit    = 1 << 1
	droneDoubleLen  = 12 // mantissa-low(4) + mantissa-high(4) + exponent(2) + sign(2)
)

// Source is a reconnecting TCP client for a kismet-drone server.
type Source struct {
	addr string
	conn net.Conn
}

// New creates a Source targeting host:port. No connection is made until
// Connect is called.
func New(host string, port int) *Source {
	return &Source{addr: fmt.Sprintf("%s:%d", host, port)}
}

// Connect dials the drone server with a 5-second timeout.
func (s *Source) Connect() error {
	conn, err := net.DialTimeout("tcp", s.addr, connectTimeout)
	if err != nil {
		return fmt.Errorf("drone: connect %s: %w", s.addr, err)
	}
	s.conn = conn
	return nil
}

func (s *Source) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Source) read(n int) ([]byte, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("drone: not connected")
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Next blocks until a full packet-carrier frame is assembled or the
// connection fails, in which case it returns ok=false; the caller is
// expected to sleep 5 seconds and call Connect again, per spec.md.
func (s *Source) Next(pkt *domain.Packet) (bool, error) {
	var body []byte
	for {
		envelope, err := s.read(envelopeLen)
		if err != nil {
			return false, fmt.Errorf("drone: read envelope: %w", err)
		}
		if envelope[0] != 0xDE || envelope[3] != 0xEF {
			return false, fmt.Errorf("drone: bad envelope sentinel")
		}
		cmdType := binary.BigEndian.Uint32(envelope[4:8])
		length := binary.BigEndian.Uint32(envelope[8:12])

		body, err = s.read(int(length))
		if err != nil {
			return false, fmt.Errorf("drone: read body: %w", err)
		}

		if cmdType != cmdTypePacket {
			continue
		}
		if len(body) < 8 {
			continue
		}
		bitmap := binary.BigEndian.Uint32(body[0:4])
		if bitmap&1 == 0 {
			continue // no radio header, not a usable packet
		}
		radioOffset := binary.BigEndian.Uint32(body[4:8]) + 8
		if len(body) == envelopeLen || radioOffset == 8 {
			continue // empty packet
		}
		if int(radioOffset)+44 >= len(body) {
			return false, fmt.Errorf("drone: radio offset out of range")
		}

		var fix domain.Fix
		haveFix := false
		if bitmap&gpsBitmapBit != 0 && len(body) >= 40 {
			gpsSize := binary.BigEndian.Uint16(body[38:40])
			if gpsSize == gpsBlockLen && len(body) >= 46+3*droneDoubleLen {
				lat := decodeDroneDouble(body[46 : 46+droneDoubleLen])
				long := decodeDroneDouble(body[46+droneDoubleLen : 46+2*droneDoubleLen])
				alt := decodeDroneDouble(body[46+2*droneDoubleLen : 46+3*droneDoubleLen])
				fix = domain.Fix{Latitude: lat, Longitude: long, Altitude: alt}
				haveFix = true
			}
		}

		if len(body) < 20 {
			return false, fmt.Errorf("drone: body too short for RSSI field")
		}
		rssi := int32(int16(binary.BigEndian.Uint16(body[18:20])))

		start := int(radioOffset) + 44
		if start > len(body) {
			return false, fmt.Errorf("drone: frame start past body end")
		}

		radioTimeOff := int(radioOffset) + 28
		var frameTime time.Time
		if radioTimeOff+4 <= len(body) {
			frameTime = time.Unix(int64(binary.BigEndian.Uint32(body[radioTimeOff:radioTimeOff+4])), 0)
		} else {
			frameTime = time.Now()
		}

		pkt.Data = body[start:]
		pkt.RSSI = rssi
		pkt.Fix = fix
		pkt.HaveFix = haveFix
		pkt.Time = frameTime
		pkt.CurrentAP = nil
		pkt.CurrentClient = nil
		return true, nil
	}
}

// decodeDroneDouble reconstructs an IEEE-754 double from the drone
// protocol's byte-swapped 32/32/16/16 mantissa-low/mantissa-high/exponent/
// sign encoding, each field independently network-order.
func decodeDroneDouble(b []byte) float64 {
	mantissaLow := binary.BigEndian.Uint32(b[0:4])
	mantissaHigh := binary.BigEndian.Uint32(b[4:8])
	exponent := binary.BigEndian.Uint16(b[8:10])
	sign := binary.BigEndian.Uint16(b[10:12])

	var bits uint64
	bits |= uint64(mantissaLow) & 0xFFFFFFFF
	bits |= (uint64(mantissaHigh) & 0xFFFFF) << 32
	bits |= (uint64(exponent) & 0x7FF) << 52
	bits |= (uint64(sign) & 0x1) << 63

	return math.Float64frombits(bits)
}
