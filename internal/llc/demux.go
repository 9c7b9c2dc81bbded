// Package llc implements the LLC/SNAP -> EAPOL demultiplexer from
// spec.md §4.3's "LLC/SNAP handling" and §4.4: it recognizes 802.2 LLC +
// SNAP headers, counts four-way-handshake EAPOL frames, and on anything
// else hands the payload to the decrypter gateway when a matching key is
// registered, recursing into the plaintext on success.
package llc

import (
	"encoding/binary"

	"github.com/lcalzada-xor/wmap/internal/decrypt"
	"github.com/lcalzada-xor/wmap/internal/domain"
)

const (
	snapHeaderLen = 8
	ethertypeEAPOL = 0x888E
)

var snapPrefix = [3]byte{0xAA, 0xAA, 0x03}

// Context carries the per-frame facts the demultiplexer needs to decide
// whether and how to ask the decrypter gateway for help.
type Context struct {
	Encryption string // the AP's encryption label, e.g. "WEP", "WPA2-PSK"
	SSID       string
	BSSID      uint64
	Client     uint64
	Gateway    decrypt.Gateway
	Stats      *domain.Stats
}

// Handle processes the bytes following an 802.11 data-frame header. It is
// the spec.md-named entry point; recursion into decrypted plaintext is
// implemented by handle's internal recursion depth guard.
func (c Context) Handle(payload []byte) {
	c.handle(payload, 0)
}

func (c Context) handle(payload []byte, depth int) {
	if depth > 4 {
		return // defends against a decrypter that loops SNAP-shaped garbage
	}

	if isSNAP(payload) {
		if len(payload) < snapHeaderLen {
			return
		}
		ethertype := binary.BigEndian.Uint16(payload[6:8])
		if ethertype == ethertypeEAPOL {
			c.Stats.IncEAPOL()
			c.noteHandshakeNonce(payload[snapHeaderLen:])
		}
		return
	}

	// Not a recognizable SNAP header: treat as encrypted.
	c.Stats.IncEncrypted()

	plaintext, ok := c.tryDecrypt(payload)
	if !ok {
		c.Stats.IncFailedDecrypt()
		return
	}
	c.Stats.IncDecrypted()
	c.handle(plaintext, depth+1)
}

func isSNAP(data []byte) bool {
	return len(data) >= 3 && data[0] == snapPrefix[0] && data[1] == snapPrefix[1] && data[2] == snapPrefix[2]
}

func (c Context) tryDecrypt(payload []byte) ([]byte, bool) {
	if c.Gateway == nil {
		return nil, false
	}
	switch {
	case c.Encryption == "WEP" && c.Gateway.HasWEPKey(c.BSSID):
		return c.Gateway.DecryptWEP(c.BSSID, payload)
	case isWPAVariant(c.Encryption) && c.Gateway.HasWPAKey(c.SSID):
		return c.Gateway.DecryptWPA(c.SSID, c.BSSID, c.Client, payload)
	default:
		return nil, false
	}
}

func isWPAVariant(encryption string) bool {
	switch {
	case encryption == "":
		return false
	case encryption == "WEP":
		return false
	case encryption == "None":
		return false
	default:
		return true
	}
}

// EAPOL-Key frame layout (IEEE 802.1X-2004 §7.5). The caller strips only
// the SNAP header, so the offsets below count from the start of the EAPOL
// header: version(1) type(1) length(2), then descriptor_type(1)
// key_info(2) key_length(2) replay_counter(8) key_nonce(32) ...
const (
	eapolHeaderLen = 4 // version(1) type(1) length(2)
	keyInfoOffset  = eapolHeaderLen + 1
	nonceOffset    = eapolHeaderLen + 1 + 2 + 2 + 8
	nonceLen       = 32
	keyInfoACKBit  = 0x0080 // set by the authenticator (messages 1 and 3)
)

// noteHandshakeNonce extracts ANonce/SNonce from an EAPOL-Key frame, if
// present, and records it in the decrypter gateway's nonce cache. This is
// best-effort counting, not handshake validation (spec.md non-goal).
func (c Context) noteHandshakeNonce(eapol []byte) {
	if c.Gateway == nil || len(eapol) < nonceOffset+nonceLen {
		return
	}
	keyInfo := binary.BigEndian.Uint16(eapol[keyInfoOffset : keyInfoOffset+2])
	fromAuthenticator := keyInfo&keyInfoACKBit != 0

	var nonce [32]byte
	copy(nonce[:], eapol[nonceOffset:nonceOffset+nonceLen])

	type noter interface {
		NoteHandshakeNonce(bssid, client uint64, fromAuthenticator bool, nonce [32]byte)
	}
	if n, ok := c.Gateway.(noter); ok {
		n.NoteHandshakeNonce(c.BSSID, c.Client, fromAuthenticator, nonce)
	}
}
