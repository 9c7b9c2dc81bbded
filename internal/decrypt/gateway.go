// Package decrypt implements the decrypter gateway from spec.md §4.4: two
// collaborators shaped as decrypt(frame) -> (plaintext, ok), asked only
// when a key has been registered for the relevant BSSID (WEP) or SSID
// (WPA). Concrete WEP/WPA2 implementations live alongside the Gateway
// interface (wep.go, wpa2.go) and are grounded in the teacher's
// golang.org/x/crypto dependency, but core pipeline code only ever talks
// to the Gateway interface — exactly the "opaque collaborator" spec.md
// asks for.
package decrypt

import "sync"

// Gateway is the decrypter-gateway port the 802.11 parser and the
// LLC/SNAP demultiplexer call into. Both lookups return ok=false when no
// key is registered for the given BSSID/SSID, without attempting anything
// — callers must check registration themselves via HasWEPKey/HasWPAKey so
// a decrypt attempt never fires for an AP with no matching key.
type Gateway interface {
	HasWEPKey(bssid uint64) bool
	HasWPAKey(ssid string) bool

	// DecryptWEP and DecryptWPA never block the pipeline indefinitely and
	// never panic on malformed input; failures return ok=false.
	DecryptWEP(bssid uint64, frame []byte) (plaintext []byte, ok bool)
	DecryptWPA(ssid string, bssid, client uint64, frame []byte) (plaintext []byte, ok bool)
}

// gateway is the default Gateway, holding the configured key set plus the
// handshake-nonce cache WPA2 decryption needs to derive a PTK.
type gateway struct {
	mu       sync.RWMutex
	wepKeys  map[uint64][]byte // bssid -> raw key bytes (5/13/16)
	wpaPMKs  map[string][]byte // ssid -> 32-byte PMK, precomputed at load time
	nonces   *nonceCache
}

func NewGateway() *gateway {
	return &gateway{
		wepKeys: make(map[uint64][]byte),
		wpaPMKs: make(map[string][]byte),
		nonces:  newNonceCache(),
	}
}

// RegisterWEPKey stores a raw WEP key (already validated to be 5, 13 or
// 16 bytes by the config loader) for bssid.
func (g *gateway) RegisterWEPKey(bssid uint64, key []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.wepKeys[bssid] = key
}

// RegisterWPAPSK stores a precomputed 32-byte PMK for ssid.
func (g *gateway) RegisterWPAPSK(ssid string, pmk []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.wpaPMKs[ssid] = pmk
}

func (g *gateway) HasWEPKey(bssid uint64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.wepKeys[bssid]
	return ok
}

func (g *gateway) HasWPAKey(ssid string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.wpaPMKs[ssid]
	return ok
}

func (g *gateway) DecryptWEP(bssid uint64, frame []byte) ([]byte, bool) {
	g.mu.RLock()
	key, ok := g.wepKeys[bssid]
	g.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return wepDecrypt(key, frame)
}

func (g *gateway) DecryptWPA(ssid string, bssid, client uint64, frame []byte) ([]byte, bool) {
	g.mu.RLock()
	pmk, ok := g.wpaPMKs[ssid]
	g.mu.RUnlock()
	if !ok {
		return nil, false
	}
	nonces, ok := g.nonces.get(bssid, client)
	if !ok {
		return nil, false
	}
	ptk := derivePTK(pmk, bssid, client, nonces.aNonce, nonces.sNonce)
	return ccmpDecrypt(ptk, frame)
}

// NoteHandshakeNonce records an ANonce or SNonce observed in an EAPOL key
// frame so a later data frame on the same (bssid, client) pair can be
// decrypted. Called from the LLC/EAPOL demultiplexer; never blocks.
func (g *gateway) NoteHandshakeNonce(bssid, client uint64, fromAuthenticator bool, nonce [32]byte) {
	g.nonces.note(bssid, client, fromAuthenticator, nonce)
}
