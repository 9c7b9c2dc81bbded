package decrypt

import "sync"

type nonceEntry struct {
	aNonce  [32]byte
	sNonce  [32]byte
	haveA   bool
	haveS   bool
}

// nonceCache is a best-effort cache of the ANonce/SNonce pair exchanged
// during a WPA 4-way handshake, keyed by (bssid, client). It exists only
// to let DecryptWPA derive a PTK when a handshake was observed in this
// session — spec.md's non-goal of "validating handshakes" means this
// cache is opportunistic and never required to be complete.
type nonceCache struct {
	mu      sync.Mutex
	entries map[[2]uint64]*nonceEntry
}

func newNonceCache() *nonceCache {
	return &nonceCache{entries: make(map[[2]uint64]*nonceEntry)}
}

func (c *nonceCache) note(bssid, client uint64, fromAuthenticator bool, nonce [32]byte) {
	key := [2]uint64{bssid, client}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &nonceEntry{}
		c.entries[key] = e
	}
	if fromAuthenticator {
		e.aNonce = nonce
		e.haveA = true
	} else {
		e.sNonce = nonce
		e.haveS = true
	}
}

type noncePair struct {
	aNonce [32]byte
	sNonce [32]byte
}

func (c *nonceCache) get(bssid, client uint64) (noncePair, bool) {
	key := [2]uint64{bssid, client}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.haveA || !e.haveS {
		return noncePair{}, false
	}
	return noncePair{aNonce: e.aNonce, sNonce: e.sNonce}, true
}
