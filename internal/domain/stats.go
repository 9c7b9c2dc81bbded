package domain

import "sync/atomic"

// Stats holds the process-wide, monotonic packet counters that the control
// plane reports via the "o" command. Every field increments only.
type Stats struct {
	Unencrypted   uint32
	WEP           uint32
	WPA           uint32
	WPS           uint32
	DataFrames    uint32
	Encrypted     uint32
	Decrypted     uint32
	FailedDecrypt uint32
	Packets       uint32
	Beacons       uint32
	EAPOL         uint32
}

func (s *Stats) IncUnencrypted()   { atomic.AddUint32(&s.Unencrypted, 1) }
func (s *Stats) IncWEP()           { atomic.AddUint32(&s.WEP, 1) }
func (s *Stats) IncWPA()           { atomic.AddUint32(&s.WPA, 1) }
func (s *Stats) IncWPS()           { atomic.AddUint32(&s.WPS, 1) }
func (s *Stats) IncData()          { atomic.AddUint32(&s.DataFrames, 1) }
func (s *Stats) IncEncrypted()     { atomic.AddUint32(&s.Encrypted, 1) }
func (s *Stats) IncDecrypted()     { atomic.AddUint32(&s.Decrypted, 1) }
func (s *Stats) IncFailedDecrypt() { atomic.AddUint32(&s.FailedDecrypt, 1) }
func (s *Stats) IncPackets()       { atomic.AddUint32(&s.Packets, 1) }
func (s *Stats) IncBeacons()       { atomic.AddUint32(&s.Beacons, 1) }
func (s *Stats) IncEAPOL()         { atomic.AddUint32(&s.EAPOL, 1) }

// Snapshot is a point-in-time, non-atomic copy safe to hand to the control
// plane or an exporter.
type Snapshot struct {
	Unencrypted   uint32
	WEP           uint32
	WPA           uint32
	WPS           uint32
	DataFrames    uint32
	Encrypted     uint32
	Decrypted     uint32
	FailedDecrypt uint32
	Packets       uint32
	Beacons       uint32
	EAPOL         uint32
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Unencrypted:   atomic.LoadUint32(&s.Unencrypted),
		WEP:           atomic.LoadUint32(&s.WEP),
		WPA:           atomic.LoadUint32(&s.WPA),
		WPS:           atomic.LoadUint32(&s.WPS),
		DataFrames:    atomic.LoadUint32(&s.DataFrames),
		Encrypted:     atomic.LoadUint32(&s.Encrypted),
		Decrypted:     atomic.LoadUint32(&s.Decrypted),
		FailedDecrypt: atomic.LoadUint32(&s.FailedDecrypt),
		Packets:       atomic.LoadUint32(&s.Packets),
		Beacons:       atomic.LoadUint32(&s.Beacons),
		EAPOL:         atomic.LoadUint32(&s.EAPOL),
	}
}
