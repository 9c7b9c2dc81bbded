package domain

import (
	"encoding/binary"
	"fmt"
)

// Broadcast is the all-ones MAC that never produces a Client.
const Broadcast = "ff:ff:ff:ff:ff:ff"

// MACToUint64 zero-pads a 48-bit MAC into the 64-bit integer used as the
// AP/Client map key, matching the wire order of the address bytes.
func MACToUint64(mac [6]byte) uint64 {
	var buf [8]byte
	copy(buf[2:], mac[:])
	return binary.BigEndian.Uint64(buf[:])
}

// MACString renders a 6-byte address as a lowercase colon-separated string.
func MACString(mac [6]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}

// MACFromString parses "aa:bb:cc:dd:ee:ff" into its 6 bytes. Used by the
// control plane when decoding an incoming 17-byte MAC argument.
func MACFromString(s string) ([6]byte, error) {
	var mac [6]byte
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&mac[0], &mac[1], &mac[2], &mac[3], &mac[4], &mac[5])
	if err != nil || n != 6 {
		return mac, fmt.Errorf("invalid MAC %q", s)
	}
	return mac, nil
}

func IsBroadcast(mac [6]byte) bool {
	for _, b := range mac {
		if b != 0xff {
			return false
		}
	}
	return true
}

func IsZero(mac [6]byte) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}
