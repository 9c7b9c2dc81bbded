package domain

import (
	"sync"
	"sync/atomic"
)

// Client is one station MAC observed in a data or association frame.
// AssociatedBSSID is 0 until first bound, and is never overwritten once set.
type Client struct {
	mu sync.Mutex

	MAC    uint64
	MACStr string

	AssociatedBSSID uint64 // atomic; 0 == unknown

	FirstSeen int64
	LastSeen  int64

	LastSignal int32
	BestSignal int32

	LastFix     Fix
	HaveFix     bool
	BestFix     Fix
	HaveBestFix bool
}

func NewClient(mac uint64) *Client {
	return &Client{
		MAC:        mac,
		BestSignal: -1000,
		LastSignal: -1000,
	}
}

func (c *Client) Lock()   { c.mu.Lock() }
func (c *Client) Unlock() { c.mu.Unlock() }

func (c *Client) Associated() uint64 {
	return atomic.LoadUint64(&c.AssociatedBSSID)
}

// BindAssociation sets AssociatedBSSID to bssid iff it is currently 0.
// Returns true exactly once per client, on the transition 0 -> bssid.
func (c *Client) BindAssociation(bssid uint64) bool {
	return atomic.CompareAndSwapUint64(&c.AssociatedBSSID, 0, bssid)
}

func (c *Client) UpdateLocation(now int64, rssi int32, fix Fix, haveFix bool) {
	c.LastSeen = now
	if rssi == 0 {
		return
	}
	c.LastSignal = rssi
	if haveFix {
		c.LastFix = fix
		c.HaveFix = true
		if rssi > c.BestSignal {
			c.BestSignal = rssi
			c.BestFix = fix
			c.HaveBestFix = true
		}
	} else if rssi > c.BestSignal {
		c.BestSignal = rssi
	}
}

func (c *Client) TouchFirstSeen(now int64) {
	if c.FirstSeen == 0 {
		c.FirstSeen = now
	}
}
