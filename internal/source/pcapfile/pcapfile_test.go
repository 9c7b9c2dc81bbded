package pcapfile

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

func writeGlobalHeader(f *os.File, linkType uint32) {
	var hdr [24]byte
	binary.LittleEndian.PutUint32(hdr[0:4], magicLittleEndian)
	binary.LittleEndian.PutUint32(hdr[20:24], linkType)
	f.Write(hdr[:])
}

func writeRecord(f *os.File, tsSec uint32, body []byte) {
	var rec [16]byte
	binary.LittleEndian.PutUint32(rec[0:4], tsSec)
	binary.LittleEndian.PutUint32(rec[8:12], uint32(len(body)))
	binary.LittleEndian.PutUint32(rec[12:16], uint32(len(body)))
	f.Write(rec[:])
	f.Write(body)
}

func TestOpenRejectsBadMagic(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "bad.pcap")
	require.NoError(t, err)
	f.Write(make([]byte, 24))
	f.Close()

	_, err = Open(f.Name())
	assert.Error(t, err, "expected an error for a zeroed global header")
}

func TestOpenRejectsUnsupportedLinkType(t *testing.T) {
	path := t.TempDir() + "/bad.pcap"
	f, err := os.Create(path)
	require.NoError(t, err)
	writeGlobalHeader(f, 1) // ethernet, not one of 105/127/192
	f.Close()

	_, err = Open(path)
	assert.Error(t, err, "expected an error for an unsupported link type")
}

func TestNextStripsRadiotapAndExtractsRSSI(t *testing.T) {
	path := t.TempDir() + "/radiotap.pcap"
	f, err := os.Create(path)
	require.NoError(t, err)
	writeGlobalHeader(f, linkTypeRadiotap)

	radiotap := make([]byte, 8)
	radiotap[2] = 9    // len LE u16: 8-byte fixed header + 1-byte signal field
	radiotap[4] = 0x20 // present: signal bit only
	radiotap = append(radiotap, byte(int8(-42))) // signal field
	frame := []byte{0x80, 0x00, 0x00, 0x00}
	body := append(radiotap, frame...)
	writeRecord(f, 1000, body)
	f.Close()

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var pkt domain.Packet
	ok, err := s.Next(&pkt)
	require.NoError(t, err)
	require.True(t, ok, "expected a packet")
	assert.EqualValues(t, -42, pkt.RSSI)
	assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x00}, pkt.Data, "expected the stripped 802.11 frame")
}

func TestNextReturnsFalseAtEOF(t *testing.T) {
	path := t.TempDir() + "/empty.pcap"
	f, err := os.Create(path)
	require.NoError(t, err)
	writeGlobalHeader(f, linkTypeRaw80211)
	f.Close()

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var pkt domain.Packet
	ok, err := s.Next(&pkt)
	require.NoError(t, err)
	assert.False(t, ok, "expected clean EOF")
}
