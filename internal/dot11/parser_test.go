package dot11

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/decrypt"
	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/store"
)

func mgmtHeader(fc0 byte, addr1, addr2, addr3 [6]byte) []byte {
	out := make([]byte, 24)
	out[0] = fc0
	copy(out[4:10], addr1[:])
	copy(out[10:16], addr2[:])
	copy(out[16:22], addr3[:])
	return out
}

func beaconFrame(bssid [6]byte, capabilities uint16, ssid string) []byte {
	hdr := mgmtHeader(fcBeacon, [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, bssid, bssid)
	body := make([]byte, 12)
	body[10] = byte(capabilities)
	body[11] = byte(capabilities >> 8)
	ie := append([]byte{0x00, byte(len(ssid))}, []byte(ssid)...)
	return append(append(hdr, body...), ie...)
}

func newHandler() (*Handler, *store.Store, *domain.Stats) {
	s := store.New()
	st := &domain.Stats{}
	return &Handler{Store: s, Stats: st, Gateway: decrypt.NewGateway()}, s, st
}

func TestDispatchBeaconCreatesOpenAP(t *testing.T) {
	h, s, stats := newHandler()
	bssid := [6]byte{1, 2, 3, 4, 5, 6}
	frame := beaconFrame(bssid, 0x0000, "HomeNet")

	pkt := &domain.Packet{Data: frame, Time: time.Unix(100, 0)}
	h.Dispatch(pkt)

	bssidU := domain.MACToUint64(bssid)
	ap, ok := s.PeekAP(bssidU)
	require.True(t, ok, "expected AP to be created")
	assert.Equal(t, "HomeNet", ap.SSID)
	assert.Equal(t, "None", ap.Encryption)
	assert.True(t, ap.BeaconParsed())

	snap := stats.Snapshot()
	assert.EqualValues(t, 1, snap.Beacons)
	assert.EqualValues(t, 1, snap.Unencrypted)
}

func TestDispatchBeaconOnlyParsesOnce(t *testing.T) {
	h, s, _ := newHandler()
	bssid := [6]byte{1, 2, 3, 4, 5, 6}

	h.Dispatch(&domain.Packet{Data: beaconFrame(bssid, 0x0000, "First"), Time: time.Unix(1, 0)})
	h.Dispatch(&domain.Packet{Data: beaconFrame(bssid, 0x0010, "Second"), Time: time.Unix(2, 0)})

	ap, _ := s.PeekAP(domain.MACToUint64(bssid))
	assert.Equal(t, "First", ap.SSID, "expected SSID to stay at first-parsed value")
	assert.Equal(t, "None", ap.Encryption, "expected encryption to stay None")
}

func TestDispatchWEPBeaconSetsEncryption(t *testing.T) {
	h, s, _ := newHandler()
	bssid := [6]byte{9, 9, 9, 9, 9, 9}
	h.Dispatch(&domain.Packet{Data: beaconFrame(bssid, 0x0010, "Locked"), Time: time.Unix(1, 0)})

	ap, _ := s.PeekAP(domain.MACToUint64(bssid))
	assert.Equal(t, "WEP", ap.Encryption)
}

func TestDispatchProbeRequestTracksSSID(t *testing.T) {
	h, s, _ := newHandler()
	sta := [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	hdr := mgmtHeader(fcProbeRequest, [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, sta, [6]byte{})
	ie := append([]byte{0x00, 0x04}, []byte("Home")...)
	frame := append(hdr, ie...)
	// pad so len > 26 guard passes with room for the IE already appended
	frame = append(frame, 0x00, 0x00)

	h.Dispatch(&domain.Packet{Data: frame, Time: time.Unix(1, 0)})

	all := s.AllProbedNetworks()
	clients, ok := all["Home"]
	require.True(t, ok, "expected sta to be recorded as probing Home")
	require.Len(t, clients, 1)
	assert.Equal(t, domain.MACToUint64(sta), clients[0])
}

func TestDispatchToDSDataFrameFindsAPAndClient(t *testing.T) {
	h, s, stats := newHandler()
	bssid := [6]byte{1, 1, 1, 1, 1, 1}
	sta := [6]byte{2, 2, 2, 2, 2, 2}

	hdr := make([]byte, 24)
	hdr[0] = fcData
	hdr[1] = 0x01 // to-DS
	copy(hdr[4:10], bssid[:])
	copy(hdr[10:16], sta[:])
	// no SNAP payload appended: exercise the address resolution path only

	h.Dispatch(&domain.Packet{Data: hdr, Time: time.Unix(5, 0)})

	ap, ok := s.PeekAP(domain.MACToUint64(bssid))
	require.True(t, ok, "expected AP to be created from to-DS data frame")
	assert.EqualValues(t, 1, ap.DataCount)

	client, ok := s.PeekClient(domain.MACToUint64(sta))
	require.True(t, ok)
	assert.Equal(t, domain.MACToUint64(bssid), client.Associated())

	assert.EqualValues(t, 1, stats.Snapshot().DataFrames)
}
