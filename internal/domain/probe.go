package domain

import "sync"

// ProbedNetwork is one distinct SSID that appeared as a probe-request
// target, together with the set of clients that probed for it.
type ProbedNetwork struct {
	mu      sync.Mutex
	SSID    string
	Clients map[uint64]struct{}
}

func NewProbedNetwork(ssid string) *ProbedNetwork {
	return &ProbedNetwork{
		SSID:    ssid,
		Clients: make(map[uint64]struct{}),
	}
}

func (p *ProbedNetwork) AddClient(mac uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Clients[mac] = struct{}{}
}

func (p *ProbedNetwork) ClientList() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uint64, 0, len(p.Clients))
	for mac := range p.Clients {
		out = append(out, mac)
	}
	return out
}
