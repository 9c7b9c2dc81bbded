package domain

// KeyType distinguishes the two decryption-key flavors the config loader
// accepts.
type KeyType string

const (
	KeyTypeWEP KeyType = "wep"
	KeyTypeWPA KeyType = "wpa"
)

// Key is one entry from the ordered key list in the config file. Exactly
// one of BSSID (WEP, keyed by AP) or SSID (WPA, keyed by network name) is
// meaningful depending on Type.
type Key struct {
	Type       KeyType
	BSSID      uint64 // WEP: target AP
	SSID       string // WPA: target network
	Bytes      []byte // WEP: 5, 13 or 16 raw bytes
	Passphrase string // WPA: passphrase, PBKDF2'd against the SSID as salt
}
