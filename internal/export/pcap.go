package export

import (
	"fmt"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// InterestingFrameWriter appends raw 802.11 frames worth keeping for later
// analysis; in cmd/wmap it receives every frame handed to
// dot11.Handler.Interesting (each beacon and probe response, probe
// requests, and SNAP-bearing data frames). Decrypted plaintext is not
// written. It owns one pcapgo writer for the lifetime of a capture run.
//
// Grounded in the teacher's pcap-writing usage (same gopacket/pcapgo
// dependency the handshake-capture code in the pack exercises), adapted
// from "write a captured handshake" to "write anything the store marked
// interesting."
type InterestingFrameWriter struct {
	f *os.File
	w *pcapgo.Writer
}

// NewInterestingFrameWriter creates (or truncates) path and writes the
// pcap global header for raw 802.11 link-layer frames (DLT 105).
func NewInterestingFrameWriter(path string) (*InterestingFrameWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: interesting-frames: %w", err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65535, layers.LinkType(105)); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: interesting-frames: header: %w", err)
	}
	return &InterestingFrameWriter{f: f, w: w}, nil
}

// Write appends one frame, timestamped with the packet's own capture time
// so replaying the file reproduces the original ordering.
func (iw *InterestingFrameWriter) Write(frame []byte, capturedAt time.Time) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     capturedAt,
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if err := iw.w.WritePacket(ci, frame); err != nil {
		return fmt.Errorf("export: interesting-frames: write: %w", err)
	}
	return nil
}

func (iw *InterestingFrameWriter) Close() error {
	return iw.f.Close()
}
