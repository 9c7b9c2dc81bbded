// Package pipeline wires a frame source to the 802.11 parser and runs the
// ingest thread spec.md §5 describes: pull a packet, dispatch it, poll a
// shared shutdown flag, repeat. A streaming source reconnects after a
// 5-second sleep on any read failure; a file source simply stops at EOF.
//
// Grounded in the teacher's worker-loop shape (internal/core/services ran
// a poll-dispatch-check-shutdown loop per goroutine); generalized here to
// the two concrete sources spec.md names, using log/slog the way the
// teacher logs from long-running goroutines.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/dot11"
)

const reconnectBackoff = 5 * time.Second

// FileSource is the subset of pcapfile.Source the ingest loop needs.
type FileSource interface {
	Next(pkt *domain.Packet) (bool, error)
	Close() error
}

// StreamSource is the subset of drone.Source the ingest loop needs. Unlike
// FileSource, a StreamSource reconnects on failure rather than terminating
// the loop.
type StreamSource interface {
	Connect() error
	Next(pkt *domain.Packet) (bool, error)
	Close() error
}

// RunFile drives the ingest loop against a single-pass file source until
// EOF, a read error, or ctx is canceled. The store's replay-safe clock is
// advanced from each packet's own timestamp before dispatch.
func RunFile(ctx context.Context, src FileSource, handler *dot11.Handler, advance func(unixSeconds int64), log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var pkt domain.Packet
		ok, err := src.Next(&pkt)
		if err != nil {
			log.Warn("file source read failed, stopping ingest", "error", err)
			return
		}
		if !ok {
			log.Info("file source reached EOF")
			return
		}

		handler.Stats.IncPackets()
		advance(pkt.TimeUnix())
		handler.Dispatch(&pkt)
		pkt.Reset()
	}
}

// RunStream drives the ingest loop against a reconnecting streaming
// source. On any read failure (or a failed reconnect) it sleeps
// reconnectBackoff and tries again, exactly matching spec.md's "reconnect
// after a 5-second sleep" cancellation policy, until ctx is canceled.
func RunStream(ctx context.Context, src StreamSource, handler *dot11.Handler, advance func(unixSeconds int64), log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := src.Connect(); err != nil {
			log.Warn("stream source connect failed, retrying", "error", err)
			if !sleepOrDone(ctx, reconnectBackoff) {
				return
			}
			continue
		}

		for {
			select {
			case <-ctx.Done():
				src.Close()
				return
			default:
			}

			var pkt domain.Packet
			ok, err := src.Next(&pkt)
			if err != nil || !ok {
				if err != nil {
					log.Warn("stream source read failed, reconnecting", "error", err)
				}
				break
			}

			handler.Stats.IncPackets()
			advance(pkt.TimeUnix())
			handler.Dispatch(&pkt)
			pkt.Reset()
		}

		src.Close()
		if !sleepOrDone(ctx, reconnectBackoff) {
			return
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
