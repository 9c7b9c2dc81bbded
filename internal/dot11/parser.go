// Package dot11 implements the 802.11 frame-control dispatcher from
// spec.md §4.3: beacon/probe-response parsing (SSID, channel, RSN/vendor
// security IEs), probe-request tracking, association-request SSID/channel
// capture, and data/QoS-data address-layout resolution feeding into the
// LLC/SNAP demultiplexer.
//
// Grounded in the teacher's internal/adapters/sniffer frame dispatch
// (type switch over the first frame-control byte) and, where the teacher
// had no equivalent, directly on spec.md's byte-offset tables.
package dot11

import (
	"encoding/binary"

	"github.com/lcalzada-xor/wmap/internal/decrypt"
	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/llc"
	"github.com/lcalzada-xor/wmap/internal/store"
)

// Frame-control byte-0 values spec.md §4.3 names as the dispatch table.
// Subtypes it doesn't name (disassociation, auth, action, ...) are ignored.
const (
	fcAssocRequest  = 0x00
	fcProbeRequest  = 0x40
	fcProbeResponse = 0x50
	fcBeacon        = 0x80
	fcData          = 0x08
	fcQoSData       = 0x88
)

// Standard management-frame field offsets (FC(2)+Dur(2)+Addr1(6)+Addr2(6)+Addr3(6)+SeqCtl(2)).
const (
	offAddr1 = 4
	offAddr2 = 10
	offAddr3 = 16
	offAddr4 = 24 // only present on WDS data frames, after the sequence control field
	offMgmtBody = 24
)

// Handler ties the store, stats and decrypter gateway together to process
// a stream of domain.Packet values pulled from a frame source.
type Handler struct {
	Store   *store.Store
	Stats   *domain.Stats
	Gateway decrypt.Gateway

	// Interesting, when non-nil, is handed every frame worth archiving:
	// beacons, probe requests/responses and SNAP-bearing data frames,
	// mirroring spec.md's optional "interesting frames" pcap export.
	Interesting func(pkt *domain.Packet)
}

// Dispatch routes pkt by its first frame-control byte. pkt.Data must be the
// raw 802.11 header onward (radiotap/PPI/kismet-drone envelope stripped).
func (h *Handler) Dispatch(pkt *domain.Packet) {
	if len(pkt.Data) < 8 {
		return
	}
	switch pkt.Data[0] {
	case fcAssocRequest:
		h.doAssociation(pkt)
	case fcProbeRequest:
		h.doProbeRequest(pkt)
	case fcProbeResponse:
		h.doBeacon(pkt)
	case fcBeacon:
		h.doBeacon(pkt)
	case fcData:
		h.doData(pkt, offMgmtBody)
	case fcQoSData:
		h.doData(pkt, offMgmtBody+2)
	}
}

func macAt(data []byte, offset int) (uint64, bool) {
	if offset+6 > len(data) {
		return 0, false
	}
	var b [6]byte
	copy(b[:], data[offset:offset+6])
	return domain.MACToUint64(b), true
}

func (h *Handler) doBeacon(pkt *domain.Packet) {
	bssid, ok := macAt(pkt.Data, offAddr3)
	if !ok {
		return
	}
	now := pkt.TimeUnix()
	ap := h.Store.FindAP(bssid, now, pkt.RSSI, pkt.Fix, pkt.HaveFix)
	pkt.CurrentAP = ap

	h.Stats.IncBeacons()
	if h.Interesting != nil {
		h.Interesting(pkt)
	}

	if ap.BeaconParsed() {
		return
	}
	if len(pkt.Data) < 36 {
		return
	}

	management := pkt.Data[offMgmtBody:]
	capabilities := binary.LittleEndian.Uint16(management[10:12])

	ap.Lock()
	if capabilities&0x0010 != 0 {
		ap.Encryption = "WEP"
	} else {
		ap.Encryption = "None"
		h.Stats.IncUnencrypted()
	}
	ap.Unlock()

	tagged := management[12:]

	var mix cipherMix
	var a akm
	var ssid string
	foundSSID := false
	var channel byte
	var wps, wpsSeen bool

	ieWalk(tagged, func(tag byte, value []byte) {
		switch tag {
		case tagSSID:
			if foundSSID {
				return
			}
			foundSSID = true
			if len(value) == 0 {
				ssid = "<Unknown>"
			} else if value[0] != 0 {
				ssid = string(value)
			}
		case tagDSChan:
			if len(value) >= 1 {
				channel = value[0]
			}
		case tagRSN:
			parseRSN(value, &mix, &a)
		case tagVendor:
			parseVendor(value, &mix, &a, &ssid, &wps, &wpsSeen)
		}
	})

	ap.Lock()
	if ssid != "" {
		ap.SSID = ssid
	}
	if channel != 0 {
		ap.Channel = channel
	}
	if wps {
		ap.SetWPS()
		h.Stats.IncWPS()
	}

	label := composeEncryptionLabel(mix, a)
	if mix.wpa || mix.wpa2 {
		h.Stats.IncWPA()
	} else if ap.Encryption == "WEP" {
		h.Stats.IncWEP()
	}
	if label != "" {
		ap.Encryption = label
	}
	ap.Unlock()

	ap.LatchBeaconParsed()
}

func (h *Handler) doProbeRequest(pkt *domain.Packet) {
	if h.Interesting != nil {
		h.Interesting(pkt)
	}
	if len(pkt.Data) <= 26 {
		return
	}
	mac, ok := macAt(pkt.Data, offAddr2)
	if !ok {
		return
	}

	if pkt.Data[24] != tagSSID {
		return
	}
	length := int(pkt.Data[25])
	if len(pkt.Data) < 26+length {
		return
	}
	ssid := pkt.Data[26 : 26+length]
	if len(ssid) < 3 || !isASCIIPrintable(ssid) {
		return
	}
	h.Store.FindProbedNetwork(string(ssid), mac)
}

func (h *Handler) doAssociation(pkt *domain.Packet) {
	bssid, ok := macAt(pkt.Data, offAddr3)
	if !ok {
		return
	}
	now := pkt.TimeUnix()
	ap := h.Store.FindAP(bssid, now, pkt.RSSI, pkt.Fix, pkt.HaveFix)
	pkt.CurrentAP = ap

	if len(pkt.Data) < 36 {
		return
	}
	tagged := pkt.Data[offMgmtBody+4:]

	var ssid string
	foundSSID := false
	var channel byte

	ieWalk(tagged, func(tag byte, value []byte) {
		switch tag {
		case tagSSID:
			if foundSSID {
				return
			}
			foundSSID = true
			if len(value) == 0 {
				ssid = "<Unknown>"
			} else if value[0] != 0 {
				ssid = string(value)
			}
		case tagDSChan:
			if len(value) >= 1 {
				channel = value[0]
			}
		}
	})

	if ssid == "" && channel == 0 {
		return
	}
	ap.Lock()
	if ssid != "" {
		ap.SSID = ssid
	}
	if channel != 0 {
		ap.Channel = channel
	}
	ap.Unlock()
}

// doData resolves the to-DS/from-DS address layout per spec.md §4.3's
// table, locates the AP and associated client, then hands the trailing
// bytes (past the header plus, for QoS frames, the QoS control field) to
// the LLC demultiplexer. bodyOffset is 24 for plain data frames, 26 for
// QoS data frames.
func (h *Handler) doData(pkt *domain.Packet, bodyOffset int) {
	if len(pkt.Data) < 2 {
		return
	}
	now := pkt.TimeUnix()
	flags := pkt.Data[1]

	var (
		ap     *domain.AP
		client *domain.Client
		data   = pkt.Data
	)

	switch {
	case flags&0x03 == 0x03: // WDS: to-DS and from-DS both set
		bssid, ok := macAt(data, offAddr2)
		if !ok {
			return
		}
		ap = h.Store.FindAP(bssid, now, pkt.RSSI, pkt.Fix, pkt.HaveFix)
		mac, ok := macAt(data, offAddr4)
		if !ok {
			return
		}
		client = h.Store.FindClient(mac, now, pkt.RSSI, pkt.Fix, pkt.HaveFix, true, ap)
		if client == nil {
			return
		}
		// The WDS 4th address shifts the SNAP/LLC payload 6 bytes later.
		data = data[6:]

	case flags&0x02 == 0x02: // from-DS: AP -> station
		bssid, ok := macAt(data, offAddr2)
		if !ok {
			return
		}
		ap = h.Store.FindAP(bssid, now, pkt.RSSI, pkt.Fix, pkt.HaveFix)
		a3, ok := macAt(data, offAddr3)
		if !ok {
			return
		}
		if bssid != a3 {
			mac, ok := macAt(data, offAddr3)
			if !ok {
				return
			}
			client = h.Store.FindClient(mac, now, pkt.RSSI, pkt.Fix, pkt.HaveFix, true, ap)
			if client == nil {
				return
			}
		}

	case flags&0x01 == 0x01: // to-DS: station -> AP
		bssid, ok := macAt(data, offAddr1)
		if !ok {
			return
		}
		ap = h.Store.FindAP(bssid, now, pkt.RSSI, pkt.Fix, pkt.HaveFix)
		mac, ok := macAt(data, offAddr2)
		if !ok {
			return
		}
		client = h.Store.FindClient(mac, now, pkt.RSSI, pkt.Fix, pkt.HaveFix, true, ap)
		if client == nil {
			return
		}

	default: // IBSS / ad-hoc
		bssid, ok := macAt(data, offAddr3)
		if !ok {
			return
		}
		ap = h.Store.FindAP(bssid, now, pkt.RSSI, pkt.Fix, pkt.HaveFix)
		mac, ok := macAt(data, offAddr2)
		if !ok {
			return
		}
		client = h.Store.FindClient(mac, now, pkt.RSSI, pkt.Fix, pkt.HaveFix, true, ap)
		if client == nil {
			return
		}
	}

	pkt.CurrentAP = ap
	pkt.CurrentClient = client

	ap.IncDataCount()
	h.Stats.IncData()

	if len(data) <= bodyOffset {
		return
	}

	ap.Lock()
	encryption := ap.Encryption
	ssid := ap.SSID
	ap.Unlock()

	var clientMAC uint64
	if client != nil {
		clientMAC = client.MAC
	}

	if h.Interesting != nil {
		isSNAP := len(data[bodyOffset:]) >= 3 &&
			data[bodyOffset] == 0xAA && data[bodyOffset+1] == 0xAA && data[bodyOffset+2] == 0x03
		if isSNAP {
			h.Interesting(pkt)
		}
	}

	ctx := llc.Context{
		Encryption: encryption,
		SSID:       ssid,
		BSSID:      ap.BSSID,
		Client:     clientMAC,
		Gateway:    h.Gateway,
		Stats:      h.Stats,
	}
	ctx.Handle(data[bodyOffset:])
}
