// Package control implements the UDP control-plane responder from
// spec.md §6: a fixed-port UDP listener answering a small fixed text
// protocol (stats, recent AP/client listings, per-entity queries, an
// export-flush trigger, and a shutdown request that is only logged),
// checking ctx for cancellation between requests.
//
// Grounded in the teacher's net/http+gorilla/mux control surface
// (internal/adapters/web), adapted down to the raw net.PacketConn
// datagram protocol spec.md names instead of HTTP, since the wire format
// here is a fixed binary/text request table, not a REST API.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/store"
)

// lengthTwoAsASCII preserves an Open Question in spec.md's source
// material: the original responder compares the received datagram length
// against the ASCII character '2' (50) rather than the integer 2, so the
// "f" flush command only fires for a 50-byte request. SPEC_FULL.md's
// resolution is to keep this behavior under a named constant rather than
// silently "fix" a wire protocol real deployments may already depend on.
const lengthTwoAsASCII = '2'

const recentWindowSeconds = 30

// Exporter is called once per enabled format when the flush command fires.
type Exporter func()

// Responder services the fixed control-plane protocol over a UDP socket.
type Responder struct {
	Store     *store.Store
	Stats     *domain.Stats
	StartTime time.Time

	// Exporters, keyed by name purely for logging; all are invoked on a
	// flush regardless of key when non-nil.
	Exporters map[string]Exporter

	Log *slog.Logger
}

// Run listens on addr and services requests until ctx is canceled. The "s"
// command does not cancel ctx or stop Run; it only produces a log line.
func (r *Responder) Run(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("control: listen %s: %w", addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, remote, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logf("control: read failed", "error", err)
			continue
		}
		req := buf[:n]
		r.handle(conn, remote, req)
	}
}

func (r *Responder) handle(conn net.PacketConn, remote net.Addr, req []byte) {
	if len(req) == 0 {
		return
	}

	switch {
	case len(req) == 2 && req[0] == 's':
		r.logf("control: shutdown requested")
		// Logged only: the responder has no handle on the ingest loop or on
		// ctx, so nothing is stopped here. cmd/wmap stops on SIGINT/SIGTERM.

	case len(req) == 2 && req[0] == 'o':
		r.respond(conn, remote, r.statsLine())

	case len(req) == 2 && req[0] == 'l':
		r.respond(conn, remote, r.recentAPListing())

	case len(req) == 2 && req[0] == 'c':
		r.respond(conn, remote, r.recentClientListing())

	case len(req) == 19 && req[0] == 'r':
		r.respond(conn, remote, r.apQuery(string(req[1:])))

	case len(req) == 19 && req[0] == 'c':
		r.respond(conn, remote, r.clientQuery(string(req[1:])))

	case len(req) == lengthTwoAsASCII && req[0] == 'f':
		r.flush()
	}
}

func (r *Responder) respond(conn net.PacketConn, remote net.Addr, body string) {
	if body == "" {
		return
	}
	if _, err := conn.WriteTo([]byte(body), remote); err != nil {
		r.logf("control: write failed", "error", err)
	}
}

func (r *Responder) statsLine() string {
	snap := r.Stats.Snapshot()
	total := snap.Unencrypted + snap.WEP + snap.WPA
	uptime := int64(time.Since(r.StartTime).Seconds())
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
		uptime, total, snap.Unencrypted, snap.WEP, snap.WPA,
		snap.Packets, snap.Beacons, snap.DataFrames, snap.Encrypted, snap.EAPOL)
}

func (r *Responder) recentAPListing() string {
	out := ""
	for _, ap := range r.Store.RecentAP(recentWindowSeconds) {
		out += fmt.Sprintf("%s,%s\n", ap.SSID, ap.MAC)
	}
	out += "\n"
	if len(out) == 1 {
		out += "\n"
	}
	return out
}

func (r *Responder) recentClientListing() string {
	out := ""
	for _, c := range r.Store.RecentClient(recentWindowSeconds) {
		out += fmt.Sprintf("%s\n", c.MAC)
	}
	out += "\n"
	if len(out) == 1 {
		out += "\n"
	}
	return out
}

func (r *Responder) apQuery(macField string) string {
	mac, err := domain.MACFromString(macField[:17])
	if err != nil {
		return ""
	}
	ap, ok := r.Store.PeekAP(domain.MACToUint64(mac))
	if !ok {
		return ""
	}
	ap.Lock()
	defer ap.Unlock()
	return fmt.Sprintf("%d,%s,%d,%d\n\n", ap.Channel, ap.Encryption, ap.LastSignal, ap.ClientCount)
}

func (r *Responder) clientQuery(macField string) string {
	mac, err := domain.MACFromString(macField[:17])
	if err != nil {
		return ""
	}
	c, ok := r.Store.PeekClient(domain.MACToUint64(mac))
	if !ok {
		return ""
	}
	c.Lock()
	defer c.Unlock()
	associated := c.Associated()
	associatedStr := ""
	if associated != 0 {
		associatedStr = domain.MACString(uint64ToMAC(associated))
	}
	return fmt.Sprintf("%d,%s\n\n", c.LastSignal, associatedStr)
}

// flush runs every configured exporter under a single run ID so an
// operator can correlate the resulting files on disk back to one log line.
func (r *Responder) flush() {
	runID := uuid.New().String()
	r.logf("control: export run starting", "run_id", runID, "exporters", len(r.Exporters))
	for name, exp := range r.Exporters {
		if exp == nil {
			continue
		}
		r.logf("control: running exporter", "run_id", runID, "name", name)
		exp()
	}
}

func (r *Responder) logf(msg string, args ...any) {
	if r.Log == nil {
		return
	}
	r.Log.Info(msg, args...)
}

func uint64ToMAC(v uint64) [6]byte {
	var mac [6]byte
	mac[0] = byte(v >> 40)
	mac[1] = byte(v >> 32)
	mac[2] = byte(v >> 24)
	mac[3] = byte(v >> 16)
	mac[4] = byte(v >> 8)
	mac[5] = byte(v)
	return mac
}
