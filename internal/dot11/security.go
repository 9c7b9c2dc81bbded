package dot11

import "encoding/binary"

// akm records which AKM suites were observed on a beacon, used to append
// the "-PSK"/"-EAP" suffix to the encryption label.
type akm struct {
	psk bool
	eap bool
}

// cipherMix records which RSN/vendor ciphers were observed so the label
// composer can produce "WPA", "WPA2" or "WPA/WPA2".
type cipherMix struct {
	wpa  bool
	wpa2 bool
}

// parseRSN decodes IE 0x30 (RSN) per spec.md §4.3: skip 6 bytes
// (version + group-cipher OUI+type), read the pairwise suite count (u16
// LE) and scan pairwise suites (4 bytes each; type 4 == CCMP). mix.wpa2 is
// set if any pairwise suite is CCMP; mix.wpa is set only if the pairwise
// list has a non-CCMP suite and no CCMP suite at all, so a mixed TKIP+CCMP
// AP (WPA2-Mixed) reports WPA2, not WPA/WPA2. Then the AKM suite count and
// scan AKM suites (type 2 == PSK, type 1 == EAP). Every advance is
// bounds-checked against the IE's own length before being taken.
//
// Grounded in the teacher's internal/adapters/sniffer/ie/rsn.go ParseRSN,
// simplified from its general cipher/AKM catalogue to exactly the two
// bits the encryption label needs.
func parseRSN(data []byte, mix *cipherMix, a *akm) {
	if len(data) < 6 {
		return
	}
	off := 6 // version(2) + group cipher OUI+type(4)

	if off+2 > len(data) {
		return
	}
	pairwiseCount := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	sawCCMP := false
	sawOther := false
	for i := 0; i < pairwiseCount; i++ {
		if off+4 > len(data) {
			return
		}
		suite := data[off+3]
		if suite == 4 {
			sawCCMP = true
		} else {
			sawOther = true
		}
		off += 4
	}
	if sawCCMP {
		mix.wpa2 = true
	}
	if sawOther && !sawCCMP {
		mix.wpa = true
	}

	if off+2 > len(data) {
		return
	}
	akmCount := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	for i := 0; i < akmCount; i++ {
		if off+4 > len(data) {
			return
		}
		suite := data[off+3]
		switch suite {
		case 2:
			a.psk = true
		case 1:
			a.eap = true
		}
		off += 4
	}
}

// msOUI is the Microsoft vendor OUI (00:50:F2) carried by tag 0xDD.
var msOUI = [3]byte{0x00, 0x50, 0xF2}

// parseVendor dispatches IE 0xDD by OUI+subtype per spec.md §4.3: subtype
// 1 is the legacy Microsoft WPA IE (RSN-shaped, offset by the extra OUI
// header so parsing starts 4 bytes later than parseRSN's own entry point);
// subtype 4 is WPS, a nested 16-bit-TLV blob.
func parseVendor(data []byte, mix *cipherMix, a *akm, ssidFallback *string, wps *bool, wpsSeen *bool) {
	if len(data) < 4 {
		return
	}
	if data[0] != msOUI[0] || data[1] != msOUI[1] || data[2] != msOUI[2] {
		return
	}
	subtype := data[3]
	switch subtype {
	case 1: // WPA
		if len(data) < 4 {
			return
		}
		mix.wpa = true
		// Same shape as RSN but the vendor header adds 4 bytes (OUI+type)
		// ahead of the RSN-shaped payload, so re-run the RSN scanner
		// against the sub-slice that follows the vendor header.
		parseRSN(data[4:], mix, a)
	case 4: // WPS
		*wpsSeen = true
		parseWPSTLV(data[4:], ssidFallback, wps)
	}
}

// parseWPSTLV walks the nested 16-bit-type/16-bit-length TLVs inside a
// WPS vendor IE. Type 0x1011 supplies an SSID fallback, used only when no
// SSID (or only "<Unknown>") was found; type 0x1044 with value 0x02 marks
// the AP as WPS-enabled.
func parseWPSTLV(data []byte, ssidFallback *string, wps *bool) {
	off := 0
	for off+4 <= len(data) {
		typ := binary.BigEndian.Uint16(data[off : off+2])
		length := int(binary.BigEndian.Uint16(data[off+2 : off+4]))
		off += 4
		if off+length > len(data) {
			return
		}
		val := data[off : off+length]
		switch typ {
		case 0x1011:
			if ssidFallback != nil && (*ssidFallback == "" || *ssidFallback == "<Unknown>") && isASCIIPrintable(val) {
				*ssidFallback = string(val)
			}
		case 0x1044:
			if len(val) >= 1 && val[0] == 0x02 {
				*wps = true
			}
		}
		off += length
	}
}

// composeEncryptionLabel produces "", "WPA", "WPA2" or "WPA/WPA2", then
// appends "-PSK" or "-EAP" when an AKM was observed, per spec.md §4.3.
func composeEncryptionLabel(mix cipherMix, a akm) string {
	var label string
	switch {
	case mix.wpa && mix.wpa2:
		label = "WPA/WPA2"
	case mix.wpa2:
		label = "WPA2"
	case mix.wpa:
		label = "WPA"
	default:
		return ""
	}
	switch {
	case a.psk:
		label += "-PSK"
	case a.eap:
		label += "-EAP"
	}
	return label
}
