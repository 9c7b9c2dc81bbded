package decrypt

import (
	"bytes"
	"crypto/rc4"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWEPDecryptRoundTrip(t *testing.T) {
	key := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	iv := []byte{0xaa, 0xbb, 0xcc}
	plain := []byte("hello wep payload")
	icv := []byte{0, 0, 0, 0}

	seed := append(append([]byte{}, iv...), key...)
	c, err := rc4.NewCipher(seed)
	require.NoError(t, err)
	cipherBody := make([]byte, len(plain)+len(icv))
	c.XORKeyStream(cipherBody, append(append([]byte{}, plain...), icv...))

	frame := append(append([]byte{}, iv...), 0x00) // IV + key-index octet
	frame = append(frame, cipherBody...)

	out, ok := wepDecrypt(key, frame)
	require.True(t, ok, "expected decrypt success")
	assert.Equal(t, plain, out)
}

func TestWEPDecryptTooShort(t *testing.T) {
	_, ok := wepDecrypt([]byte{1, 2, 3, 4, 5}, []byte{1, 2, 3})
	assert.False(t, ok, "expected failure on truncated frame")
}

func TestDerivePTKIsSymmetricInAddressOrdering(t *testing.T) {
	pmk := bytes.Repeat([]byte{0x42}, 32)
	var an, sn [32]byte
	an[0] = 1
	sn[0] = 2

	ptk1 := derivePTK(pmk, 100, 200, an, sn)
	ptk2 := derivePTK(pmk, 200, 100, sn, an) // swapped roles, same underlying pair

	assert.Equal(t, ptk1, ptk2, "PTK derivation must be order-independent per the min/max construction")
	assert.Len(t, ptk1, 48)
}

func TestGatewayRequiresRegisteredKey(t *testing.T) {
	g := NewGateway()
	assert.False(t, g.HasWEPKey(1))
	assert.False(t, g.HasWPAKey("ssid"))

	_, ok := g.DecryptWEP(1, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.False(t, ok, "decrypt must fail with no registered key")
}

func TestCCMPDecryptRequiresHandshakeNonces(t *testing.T) {
	g := NewGateway()
	g.RegisterWPAPSK("Home", bytes.Repeat([]byte{0x01}, 32))
	assert.True(t, g.HasWPAKey("Home"))

	_, ok := g.DecryptWPA("Home", 1, 2, make([]byte, 20))
	assert.False(t, ok, "decrypt must fail until both handshake nonces are observed")

	var aNonce, sNonce [32]byte
	aNonce[0] = 0xAA
	sNonce[0] = 0xBB
	g.NoteHandshakeNonce(1, 2, true, aNonce)
	g.NoteHandshakeNonce(1, 2, false, sNonce)

	_, ok = g.DecryptWPA("Home", 1, 2, make([]byte, 20))
	assert.True(t, ok, "decrypt should proceed once both nonces are cached")
}
