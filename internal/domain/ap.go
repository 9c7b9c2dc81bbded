package domain

import (
	"sync"
	"sync/atomic"
	"time"
)

// AP is one access point, keyed by its zero-padded 64-bit BSSID. SSID, MAC
// string, encryption, WPS flag and GPS fields are mutated under mu; counters
// and the beacon-parsed latch are atomic so readers never block a writer
// that only touches a scalar.
type AP struct {
	mu sync.Mutex

	BSSID   uint64
	MACStr  string
	SSID    string
	Channel uint8

	Encryption string
	wps        uint32 // atomic bool

	FirstSeen int64 // unix seconds of first observation
	LastSeen  int64 // unix seconds, updated under mu

	LastSignal int32 // dBm, signed
	BestSignal int32

	LastFix Fix
	HaveFix bool
	BestFix Fix
	HaveBestFix bool

	ClientCount uint32 // atomic
	DataCount   uint32 // atomic

	beaconParsed uint32 // atomic bool, publish-after-initialize latch
}

// NewAP default-constructs an AP for insertion into the store before any
// per-entity initialization has run. BestSignal starts below any real RSSI
// so the first non-zero sample always "wins".
func NewAP(bssid uint64) *AP {
	return &AP{
		BSSID:      bssid,
		BestSignal: -1000,
		LastSignal: -1000,
	}
}

func (a *AP) WPS() bool       { return atomic.LoadUint32(&a.wps) != 0 }
func (a *AP) SetWPS()         { atomic.StoreUint32(&a.wps, 1) }
func (a *AP) BeaconParsed() bool { return atomic.LoadUint32(&a.beaconParsed) != 0 }

// LatchBeaconParsed sets the once-flag. Callers must have already published
// every other beacon-derived field under Lock so a reader observing the
// latch also observes a fully initialized AP.
func (a *AP) LatchBeaconParsed() { atomic.StoreUint32(&a.beaconParsed, 1) }

func (a *AP) IncClientCount() { atomic.AddUint32(&a.ClientCount, 1) }
func (a *AP) IncDataCount()   { atomic.AddUint32(&a.DataCount, 1) }

func (a *AP) Lock()   { a.mu.Lock() }
func (a *AP) Unlock() { a.mu.Unlock() }

// UpdateLocation applies the spec.md §4.2 location-info update policy.
// Caller must hold the lock.
func (a *AP) UpdateLocation(now int64, rssi int32, fix Fix, haveFix bool) {
	a.LastSeen = now
	if rssi == 0 {
		return
	}
	a.LastSignal = rssi
	if haveFix {
		a.LastFix = fix
		a.HaveFix = true
		if rssi > a.BestSignal {
			a.BestSignal = rssi
			a.BestFix = fix
			a.HaveBestFix = true
		}
	} else if rssi > a.BestSignal {
		a.BestSignal = rssi
	}
}

func (a *AP) TouchFirstSeen(now int64) {
	if a.FirstSeen == 0 {
		a.FirstSeen = now
	}
}

func nowUnix() int64 { return time.Now().Unix() }
