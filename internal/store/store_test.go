package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

func TestFindAPCreatesOnceAndTracksBestSignal(t *testing.T) {
	s := New()

	ap := s.FindAP(1, 100, -60, domain.Fix{}, false)
	assert.EqualValues(t, 100, ap.FirstSeen)
	assert.EqualValues(t, 100, ap.LastSeen)
	assert.EqualValues(t, -60, ap.BestSignal)

	ap2 := s.FindAP(1, 101, -80, domain.Fix{}, false)
	assert.Same(t, ap, ap2, "expected same AP instance on second lookup")
	assert.EqualValues(t, -60, ap.BestSignal, "best signal should not regress")
	assert.EqualValues(t, -80, ap.LastSignal, "last signal should track the latest sample")
	assert.Equal(t, 1, s.APCount())
}

func TestLocationUpdateIgnoresZeroRSSI(t *testing.T) {
	s := New()
	ap := s.FindAP(2, 10, -50, domain.Fix{}, false)
	s.FindAP(2, 11, 0, domain.Fix{Latitude: 1, Longitude: 2}, true)
	assert.EqualValues(t, -50, ap.LastSignal, "RSSI==0 sample must not update last_signal")
	assert.EqualValues(t, 11, ap.LastSeen, "last_seen should still advance even when RSSI==0")
}

func TestBestFixOnlyUpdatesAtPeakSample(t *testing.T) {
	s := New()
	fixLow := domain.Fix{Latitude: 1, Longitude: 1}
	fixHigh := domain.Fix{Latitude: 2, Longitude: 2}

	ap := s.FindAP(3, 10, -70, fixLow, true)
	s.FindAP(3, 11, -40, fixHigh, true)
	s.FindAP(3, 12, -90, fixLow, true)

	assert.EqualValues(t, -40, ap.BestSignal)
	assert.Equal(t, fixHigh, ap.BestFix, "expected best fix to match the peak sample")
	assert.Equal(t, fixLow, ap.LastFix, "expected last fix to be the most recent sample")
}

func TestAssociationBindsOnceAndIncrementsClientCountOnce(t *testing.T) {
	s := New()
	ap := s.FindAP(10, 1, -50, domain.Fix{}, false)

	c := s.FindClient(20, 1, -60, domain.Fix{}, false, true, ap)
	assert.EqualValues(t, 10, c.Associated())
	assert.EqualValues(t, 1, ap.ClientCount)

	other := s.FindAP(11, 2, -50, domain.Fix{}, false)
	s.FindClient(20, 2, -60, domain.Fix{}, false, true, other)
	assert.EqualValues(t, 10, c.Associated(), "association must never be overwritten once set")
	assert.EqualValues(t, 0, other.ClientCount, "second AP must not receive a client-count bump")
}

func TestFindClientRejectsBroadcast(t *testing.T) {
	s := New()
	bcast := domain.MACToUint64([6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	c := s.FindClient(bcast, 1, -50, domain.Fix{}, false, false, nil)
	assert.Nil(t, c, "broadcast MAC must never produce a client")
	assert.Equal(t, 0, s.ClientCount())
}

func TestRecentAPUsesPacketClockNotWallclock(t *testing.T) {
	s := New()
	// Advance the packet clock the way the ingest loop does before dispatch.
	s.Advance(1000)
	s.FindAP(1, 1000, -50, domain.Fix{}, false)
	s.Advance(2000)
	s.FindAP(2, 2000, -50, domain.Fix{}, false)

	recent := s.RecentAP(500)
	if assert.Len(t, recent, 1, "expected only one AP within the 500s window") {
		assert.EqualValues(t, 2, recent[0].BSSID)
	}
}

func TestFindProbedNetworkTracksClients(t *testing.T) {
	s := New()
	s.FindProbedNetwork("Home", 1)
	s.FindProbedNetwork("Home", 2)

	all := s.AllProbedNetworks()
	assert.Len(t, all["Home"], 2, "expected 2 clients probing Home")
}
