package drone

import (
	"encoding/binary"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

func envelope(cmdType, length uint32) []byte {
	e := make([]byte, envelopeLen)
	e[0] = 0xDE
	e[3] = 0xEF
	binary.BigEndian.PutUint32(e[4:8], cmdType)
	binary.BigEndian.PutUint32(e[8:12], length)
	return e
}

func packetBody(frameTime uint32, rssi int16, frame []byte) []byte {
	const rawOffset = 4 // radioOffset = rawOffset + 8 = 12, must not equal 8
	radioOffset := uint32(rawOffset) + 8
	frameStart := int(radioOffset) + 44

	body := make([]byte, frameStart)
	binary.BigEndian.PutUint32(body[0:4], 1) // bitmap: radio header present, no GPS
	binary.BigEndian.PutUint32(body[4:8], rawOffset)
	binary.BigEndian.PutUint16(body[18:20], uint16(rssi))
	binary.BigEndian.PutUint32(body[int(radioOffset)+28:int(radioOffset)+32], frameTime)
	return append(body, frame...)
}

func TestNextDecodesPacketCarrierFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	frame := []byte{0x80, 0x01, 0x02, 0x03}
	body := packetBody(12345, -55, frame)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write(envelope(cmdTypePacket, uint32(len(body))))
		conn.Write(body)
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, _ := strconv.Atoi(portStr)

	s := New(host, port)
	require.NoError(t, s.Connect())
	defer s.Close()

	var pkt domain.Packet
	ok, err := s.Next(&pkt)
	require.NoError(t, err)
	require.True(t, ok, "expected a decoded packet")
	assert.EqualValues(t, -55, pkt.RSSI)
	assert.EqualValues(t, 12345, pkt.Time.Unix())
	assert.Equal(t, frame, pkt.Data)
}

func TestConnectFailsFastOnRefusedPort(t *testing.T) {
	s := New("127.0.0.1", 1) // nothing listens on port 1
	start := time.Now()
	err := s.Connect()
	assert.Error(t, err, "expected connect to fail")
	assert.LessOrEqual(t, time.Since(start), connectTimeout+time.Second,
		"connect took longer than the configured timeout")
}
