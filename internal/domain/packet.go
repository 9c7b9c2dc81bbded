package domain

import "time"

// Packet is the transient, per-frame scratch record produced by a frame
// source and consumed by the 802.11 parser. Data is advanced in place as
// envelope layers are stripped. CurrentAP/CurrentClient are non-owning
// borrows, valid only for the lifetime of this one frame, that let lower
// layers avoid repeating a map lookup already done by an upper layer.
type Packet struct {
	Data []byte
	Time time.Time

	RSSI int32

	Fix     Fix
	HaveFix bool

	CurrentAP     *AP
	CurrentClient *Client
}

// Reset clears the transient per-frame cache between frames. The backing
// Data/Time/RSSI/Fix fields are overwritten by the source on the next pull.
func (p *Packet) Reset() {
	p.CurrentAP = nil
	p.CurrentClient = nil
}

// TimeUnix is the wallclock-independent clock the store uses for
// "recent" queries: the packet's own timestamp, not time.Now().
func (p *Packet) TimeUnix() int64 {
	return p.Time.Unix()
}
