// Package export writes the observation store out in the formats spec.md
// §6 names: Wigle CSV, split KML, client/probe/ap-clients CSV, a raw pcap
// of "interesting" frames, and a PDF executive summary.
//
// Grounded in the teacher's internal/adapters/reporting package (same
// write-a-report-from-a-domain-snapshot shape), generalized from a
// vulnerability report to a wireless observation snapshot.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lcalzada-xor/wmap/internal/store"
)

// Writer bundles the store snapshot and output directory every exporter
// needs. startTime names the output files, matching the teacher's
// per-run-timestamped report naming.
type Writer struct {
	Store     *store.Store
	OutputDir string
}

func (w *Writer) path(suffix string, startTime time.Time) string {
	name := fmt.Sprintf("wmap_%s%s", startTime.Format("20060102_150405"), suffix)
	return filepath.Join(w.OutputDir, name)
}

// authMode renders the Wigle AuthMode column: bracketed components for a
// "/"-joined encryption label, blank for an open network, with a trailing
// [WPS] when the AP advertises WPS.
func authMode(encryption string, wps bool) string {
	var mode string
	switch {
	case encryption == "" || encryption == "None":
		mode = ""
	case strings.Contains(encryption, "/"):
		var b strings.Builder
		for _, part := range strings.Split(encryption, "/") {
			fmt.Fprintf(&b, "[%s]", part)
		}
		mode = b.String()
	default:
		mode = "[" + encryption + "]"
	}
	if wps {
		mode += "[WPS]"
	}
	return mode
}

// WriteWigle writes the WigleWifi-1.4 CSV for every AP in the store,
// including APs only seen in data or association frames.
func (w *Writer) WriteWigle(startTime time.Time) error {
	f, err := os.Create(w.path("_wigle.csv", startTime))
	if err != nil {
		return fmt.Errorf("export: wigle: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "WigleWifi-1.4,appRelease=1.0,model=wmap,release=1.0,device=wmap,display=wmap,board=wmap,brand=wmap")
	cw := csv.NewWriter(f)
	defer cw.Flush()
	if err := cw.Write([]string{"MAC", "SSID", "AuthMode", "FirstSeen", "Channel", "RSSI", "Lat", "Long", "Alt", "Accuracy", "Type"}); err != nil {
		return err
	}

	for _, ap := range w.Store.AllAPs() {
		row := []string{
			ap.MAC,
			ap.SSID,
			authMode(ap.Encryption, ap.WPS),
			time.Unix(ap.FirstSeen, 0).Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", ap.Channel),
			fmt.Sprintf("%d", ap.LastSignal),
			fmt.Sprintf("%.6f", ap.BestFix.Latitude),
			fmt.Sprintf("%.6f", ap.BestFix.Longitude),
			fmt.Sprintf("%.2f", ap.BestFix.Altitude),
			"0",
			"WIFI",
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: wigle: %w", err)
		}
	}
	return nil
}
