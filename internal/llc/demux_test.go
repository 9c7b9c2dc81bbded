package llc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/wmap/internal/decrypt"
	"github.com/lcalzada-xor/wmap/internal/domain"
)

func eapolKeyFrame(info uint16, nonceByte byte) []byte {
	snap := []byte{0xAA, 0xAA, 0x03, 0x00, 0x00, 0x00}
	eth := make([]byte, 2)
	binary.BigEndian.PutUint16(eth, ethertypeEAPOL)

	eapol := make([]byte, nonceOffset+nonceLen+2)
	binary.BigEndian.PutUint16(eapol[keyInfoOffset:], info)
	for i := 0; i < nonceLen; i++ {
		eapol[nonceOffset+i] = nonceByte
	}

	out := append(append([]byte{}, snap...), eth...)
	out = append(out, eapol...)
	return out
}

func TestHandleCountsEAPOLAndCachesNonces(t *testing.T) {
	stats := &domain.Stats{}
	gw := decrypt.NewGateway()
	ctx := Context{Stats: stats, Gateway: gw, BSSID: 1, Client: 2}

	ctx.Handle(eapolKeyFrame(0x0080, 0xAA)) // message 1: ACK set, from authenticator
	ctx.Handle(eapolKeyFrame(0x0100, 0xBB)) // message 2: MIC set, from supplicant

	assert.EqualValues(t, 2, stats.Snapshot().EAPOL)

	// DecryptWPA only proceeds once both nonces for (BSSID 1, client 2) are cached.
	gw.RegisterWPAPSK("Home", make([]byte, 32))
	_, ok := gw.DecryptWPA("Home", 1, 2, make([]byte, 20))
	assert.True(t, ok, "expected both handshake nonces to be cached")
}

func TestHandleEncryptedWithNoKeyCountsFailedDecrypt(t *testing.T) {
	stats := &domain.Stats{}
	gw := decrypt.NewGateway()
	ctx := Context{Stats: stats, Gateway: gw, Encryption: "WEP", BSSID: 1}

	ctx.Handle([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a})

	snap := stats.Snapshot()
	assert.EqualValues(t, 1, snap.Encrypted)
	assert.EqualValues(t, 1, snap.FailedDecrypt)
	assert.EqualValues(t, 0, snap.Decrypted)
}
