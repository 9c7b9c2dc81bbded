package decrypt

import (
	"crypto/sha1"

	"golang.org/x/crypto/pbkdf2"
)

// DerivePMK turns a WPA passphrase into the 256-bit PMK per IEEE 802.11i
// Annex H.4.1: PBKDF2-HMAC-SHA1(passphrase, ssid, 4096 iterations, 32
// bytes). Grounded in the teacher's golang.org/x/crypto dependency.
func DerivePMK(ssid, passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(ssid), 4096, 32, sha1.New)
}
