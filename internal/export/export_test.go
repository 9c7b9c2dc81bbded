package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/store"
)

func newWriter(t *testing.T) (*Writer, *store.Store) {
	t.Helper()
	s := store.New()
	return &Writer{Store: s, OutputDir: t.TempDir()}, s
}

func TestAuthModeFormatsPerSpec(t *testing.T) {
	cases := []struct {
		enc  string
		wps  bool
		want string
	}{
		{"", false, ""},
		{"None", false, ""},
		{"WEP", false, "[WEP]"},
		{"WPA2-PSK", false, "[WPA2-PSK]"},
		{"WPA/WPA2-PSK", false, "[WPA][WPA2-PSK]"},
		{"WPA2-PSK", true, "[WPA2-PSK][WPS]"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, authMode(c.enc, c.wps), "authMode(%q, %v)", c.enc, c.wps)
	}
}

func TestWriteWigleIncludesEachAP(t *testing.T) {
	w, s := newWriter(t)
	mac, _ := domain.MACFromString("aa:bb:cc:dd:ee:ff")
	bssid := domain.MACToUint64(mac)
	ap := s.FindAP(bssid, 100, -40, domain.Fix{Latitude: 1, Longitude: 2}, true)
	ap.Lock()
	ap.SSID = "TestNet"
	ap.Channel = 6
	ap.Encryption = "WPA2-PSK"
	ap.Unlock()

	start := time.Unix(0, 0)
	require.NoError(t, w.WriteWigle(start))

	data, err := os.ReadFile(filepath.Join(w.OutputDir, "wmap_19700101_000000_wigle.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "WigleWifi-1.4")
	assert.Contains(t, string(data), "TestNet")
}

func TestWriteAPClientsCSVExcludesUnassociated(t *testing.T) {
	w, s := newWriter(t)
	apMac, _ := domain.MACFromString("aa:bb:cc:dd:ee:ff")
	bssid := domain.MACToUint64(apMac)
	ap := s.FindAP(bssid, 100, -40, domain.Fix{}, false)
	ap.Lock()
	ap.SSID = "TestNet"
	ap.Unlock()

	clientMac, _ := domain.MACFromString("11:22:33:44:55:66")
	s.FindClient(domain.MACToUint64(clientMac), 100, -50, domain.Fix{}, false, true, ap)

	unboundMac, _ := domain.MACFromString("aa:aa:aa:aa:aa:aa")
	s.FindClient(domain.MACToUint64(unboundMac), 100, -50, domain.Fix{}, false, false, nil)

	start := time.Unix(0, 0)
	require.NoError(t, w.WriteAPClientsCSV(start))

	data, err := os.ReadFile(filepath.Join(w.OutputDir, "wmap_19700101_000000_apclients.csv"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "11:22:33:44:55:66", "expected bound client row")
	assert.NotContains(t, out, "aa:aa:aa:aa:aa:aa", "did not expect an unassociated client row")
}

// TestKMLBucketColorsAreAABBGGRR guards against a recurring encoding slip:
// KML icon colors are AABBGGRR, so "blue" is ffff0000, not ff0000ff (which
// decodes to red).
func TestKMLBucketColorsAreAABBGGRR(t *testing.T) {
	want := map[string]string{
		"_open.kml": "ffff0000", // blue
		"_wep.kml":  "ffff00ff", // pink
		"_wpa.kml":  "ff00ff00", // green
	}
	for _, bucket := range kmlBuckets {
		assert.Equal(t, want[bucket.suffix], bucket.iconColor, "bucket %s", bucket.suffix)
	}
}

func TestWriteKMLSkipsOpenAPWithoutUsableFix(t *testing.T) {
	w, s := newWriter(t)
	mac, _ := domain.MACFromString("aa:bb:cc:dd:ee:ff")
	ap := s.FindAP(domain.MACToUint64(mac), 100, -40, domain.Fix{Latitude: 0.1, Longitude: 0.5}, true)
	ap.Lock()
	ap.SSID = "NearNullIsland"
	ap.Unlock()

	start := time.Unix(0, 0)
	require.NoError(t, w.WriteKML(start))

	data, err := os.ReadFile(filepath.Join(w.OutputDir, "wmap_19700101_000000_open.kml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "NearNullIsland", "a |longitude| <= 1.0 fix must be skipped")
	assert.Contains(t, string(data), "ffff0000", "open bucket must use the blue icon color")
}

func TestInterestingFrameWriterRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interesting.pcap")
	iw, err := NewInterestingFrameWriter(path)
	require.NoError(t, err)

	frame := []byte{0x80, 0x00, 0x00, 0x00, 1, 2, 3, 4}
	require.NoError(t, iw.Write(frame, time.Unix(1000, 0)))
	require.NoError(t, iw.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size(), "expected a non-empty pcap file")
}
