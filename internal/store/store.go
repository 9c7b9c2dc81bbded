// Package store implements the observation store: concurrently accessed
// maps from MAC to AP, MAC to Client, and SSID to ProbedNetwork, with
// per-entity locking and first/best signal+location tracking, matching
// spec.md §4.2.
//
// Grounded in the teacher's sharded-registry pattern
// (internal/core/services/registry/device_registry.go) but simplified to
// the three maps spec.md names, each behind its own sync.RWMutex rather
// than a shard table — spec.md explicitly allows "take the exclusive lock
// only briefly for insert" as an equivalent strategy to an upgradeable
// lock, and a single RWMutex per map is the idiomatic Go rendering of that.
package store

import (
	"sort"
	"sync"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

// Store is the thread-safe AP/Client/ProbedNetwork registry.
type Store struct {
	apMu sync.RWMutex
	aps  map[uint64]*domain.AP

	clientMu sync.RWMutex
	clients  map[uint64]*domain.Client

	probeMu sync.RWMutex
	probes  map[string]*domain.ProbedNetwork

	// clock is the largest packet timestamp seen so far (unix seconds),
	// used by RecentAP/RecentClient instead of wallclock time because the
	// system may be replaying a capture file.
	clockMu sync.Mutex
	clock   int64
}

func New() *Store {
	return &Store{
		aps:     make(map[uint64]*domain.AP),
		clients: make(map[uint64]*domain.Client),
		probes:  make(map[string]*domain.ProbedNetwork),
	}
}

// Advance records the timestamp of a packet just pulled from a source. The
// store's notion of "now" is the max timestamp observed, never wallclock.
func (s *Store) Advance(unixSeconds int64) {
	s.clockMu.Lock()
	if unixSeconds > s.clock {
		s.clock = unixSeconds
	}
	s.clockMu.Unlock()
}

func (s *Store) Now() int64 {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.clock
}

// FindAP looks up bssid, creating it on miss, then applies the location
// update for this sample and returns a borrow. now is the packet's own
// timestamp (unix seconds), per spec.md's replay-safe clock rule.
func (s *Store) FindAP(bssid uint64, now int64, rssi int32, fix domain.Fix, haveFix bool) *domain.AP {
	s.apMu.RLock()
	ap, ok := s.aps[bssid]
	s.apMu.RUnlock()

	if !ok {
		s.apMu.Lock()
		ap, ok = s.aps[bssid]
		if !ok {
			ap = domain.NewAP(bssid)
			ap.MACStr = domain.MACString(uint64ToMAC(bssid))
			s.aps[bssid] = ap
		}
		s.apMu.Unlock()
	}

	ap.Lock()
	ap.TouchFirstSeen(now)
	ap.UpdateLocation(now, rssi, fix, haveFix)
	ap.Unlock()
	return ap
}

// PeekAP returns an existing AP without creating one, for read-only
// control-plane queries.
func (s *Store) PeekAP(bssid uint64) (*domain.AP, bool) {
	s.apMu.RLock()
	defer s.apMu.RUnlock()
	ap, ok := s.aps[bssid]
	return ap, ok
}

// FindClient looks up mac, creating it on miss. If associated is true and
// currentAP is non-nil, it applies the spec.md §4.2 association-binding
// policy (bind once, bump the AP's client count exactly once on the
// 0 -> bssid transition). The broadcast MAC never produces a client.
func (s *Store) FindClient(mac uint64, now int64, rssi int32, fix domain.Fix, haveFix bool, associated bool, currentAP *domain.AP) *domain.Client {
	if mac == domain.MACToUint64([6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}) {
		return nil
	}

	s.clientMu.RLock()
	c, ok := s.clients[mac]
	s.clientMu.RUnlock()

	if !ok {
		s.clientMu.Lock()
		c, ok = s.clients[mac]
		if !ok {
			c = domain.NewClient(mac)
			c.MACStr = domain.MACString(uint64ToMAC(mac))
			s.clients[mac] = c
		}
		s.clientMu.Unlock()
	}

	c.Lock()
	c.TouchFirstSeen(now)
	c.UpdateLocation(now, rssi, fix, haveFix)
	c.Unlock()

	if associated && currentAP != nil {
		if c.BindAssociation(currentAP.BSSID) {
			currentAP.IncClientCount()
		}
	}
	return c
}

func (s *Store) PeekClient(mac uint64) (*domain.Client, bool) {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	c, ok := s.clients[mac]
	return c, ok
}

// FindProbedNetwork looks up ssid, creating it on miss, and records mac as
// having probed for it.
func (s *Store) FindProbedNetwork(ssid string, mac uint64) *domain.ProbedNetwork {
	s.probeMu.RLock()
	p, ok := s.probes[ssid]
	s.probeMu.RUnlock()

	if !ok {
		s.probeMu.Lock()
		p, ok = s.probes[ssid]
		if !ok {
			p = domain.NewProbedNetwork(ssid)
			s.probes[ssid] = p
		}
		s.probeMu.Unlock()
	}
	p.AddClient(mac)
	return p
}

// APEntry/ClientEntry are read-only snapshots safe to hand outside the
// store (exporters, control plane) without holding any lock.
type APEntry struct {
	BSSID       uint64
	MAC         string
	SSID        string
	Channel     uint8
	Encryption  string
	WPS         bool
	FirstSeen   int64
	LastSeen    int64
	LastSignal  int32
	BestSignal  int32
	LastFix     domain.Fix
	HaveFix     bool
	BestFix     domain.Fix
	HaveBestFix bool
	ClientCount uint32
	DataCount   uint32
}

type ClientEntry struct {
	MAC             string
	AssociatedBSSID uint64
	FirstSeen       int64
	LastSeen        int64
	LastSignal      int32
	BestSignal      int32
	LastFix         domain.Fix
	HaveFix         bool
	BestFix         domain.Fix
	HaveBestFix     bool
}

// SnapshotAP exposes the store's AP snapshot conversion for callers
// outside the package (the live-query websocket feed) that already hold
// a *domain.AP from a dispatched packet.
func SnapshotAP(a *domain.AP) APEntry { return snapshotAP(a) }

// SnapshotClient mirrors SnapshotAP for *domain.Client.
func SnapshotClient(c *domain.Client) ClientEntry { return snapshotClient(c) }

func snapshotAP(a *domain.AP) APEntry {
	a.Lock()
	defer a.Unlock()
	return APEntry{
		BSSID: a.BSSID, MAC: a.MACStr, SSID: a.SSID, Channel: a.Channel,
		Encryption: a.Encryption, WPS: a.WPS(), FirstSeen: a.FirstSeen, LastSeen: a.LastSeen,
		LastSignal: a.LastSignal, BestSignal: a.BestSignal, LastFix: a.LastFix, HaveFix: a.HaveFix,
		BestFix: a.BestFix, HaveBestFix: a.HaveBestFix,
		ClientCount: a.ClientCount, DataCount: a.DataCount,
	}
}

func snapshotClient(c *domain.Client) ClientEntry {
	c.Lock()
	defer c.Unlock()
	return ClientEntry{
		MAC: c.MACStr, AssociatedBSSID: c.Associated(), FirstSeen: c.FirstSeen, LastSeen: c.LastSeen,
		LastSignal: c.LastSignal, BestSignal: c.BestSignal, LastFix: c.LastFix, HaveFix: c.HaveFix,
		BestFix: c.BestFix, HaveBestFix: c.HaveBestFix,
	}
}

// RecentAP returns all APs with LastSeen >= now-seconds, ordered by
// descending LastSeen, where now is the store's packet-timestamp clock.
func (s *Store) RecentAP(seconds int64) []APEntry {
	cutoff := s.Now() - seconds
	s.apMu.RLock()
	out := make([]APEntry, 0, len(s.aps))
	for _, ap := range s.aps {
		e := snapshotAP(ap)
		if e.LastSeen >= cutoff {
			out = append(out, e)
		}
	}
	s.apMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen > out[j].LastSeen })
	return out
}

func (s *Store) RecentClient(seconds int64) []ClientEntry {
	cutoff := s.Now() - seconds
	s.clientMu.RLock()
	out := make([]ClientEntry, 0, len(s.clients))
	for _, c := range s.clients {
		e := snapshotClient(c)
		if e.LastSeen >= cutoff {
			out = append(out, e)
		}
	}
	s.clientMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen > out[j].LastSeen })
	return out
}

// AllAPs / AllClients / AllProbedNetworks back the exporters, which always
// run against the full store rather than a recency window.
func (s *Store) AllAPs() []APEntry {
	s.apMu.RLock()
	defer s.apMu.RUnlock()
	out := make([]APEntry, 0, len(s.aps))
	for _, ap := range s.aps {
		out = append(out, snapshotAP(ap))
	}
	return out
}

func (s *Store) AllClients() []ClientEntry {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	out := make([]ClientEntry, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, snapshotClient(c))
	}
	return out
}

func (s *Store) AllProbedNetworks() map[string][]uint64 {
	s.probeMu.RLock()
	defer s.probeMu.RUnlock()
	out := make(map[string][]uint64, len(s.probes))
	for ssid, p := range s.probes {
		out[ssid] = p.ClientList()
	}
	return out
}

func (s *Store) APCount() int {
	s.apMu.RLock()
	defer s.apMu.RUnlock()
	return len(s.aps)
}

func (s *Store) ClientCount() int {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	return len(s.clients)
}

func uint64ToMAC(v uint64) [6]byte {
	var mac [6]byte
	mac[0] = byte(v >> 40)
	mac[1] = byte(v >> 32)
	mac[2] = byte(v >> 24)
	mac[3] = byte(v >> 16)
	mac[4] = byte(v >> 8)
	mac[5] = byte(v)
	return mac
}
