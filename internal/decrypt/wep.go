package decrypt

import "crypto/rc4"

// wepDecrypt implements classic WEP: the per-packet key is the 3-byte IV
// (plus a 1-byte key-index octet, ignored here since only one key is ever
// registered per BSSID) prepended to the configured key, RC4-applied to
// the frame body. The trailing 4-byte ICV is stripped from the plaintext
// without being verified — spec.md's decrypt contract only asks for
// plaintext on success, not integrity validation, and a corrupted ICV is
// already covered by the general "failure is swallowed, counted" policy
// the caller applies.
func wepDecrypt(key, frame []byte) ([]byte, bool) {
	const ivLen = 4 // 3-byte IV + 1-byte key index
	const icvLen = 4
	if len(frame) < ivLen+icvLen {
		return nil, false
	}

	iv := frame[:3]
	body := frame[ivLen:]
	if len(body) < icvLen {
		return nil, false
	}

	seed := make([]byte, 0, 3+len(key))
	seed = append(seed, iv...)
	seed = append(seed, key...)

	c, err := rc4.NewCipher(seed)
	if err != nil {
		return nil, false
	}

	plain := make([]byte, len(body))
	c.XORKeyStream(plain, body)

	return plain[:len(plain)-icvLen], true
}
